// Package filestore 保存用户上传的图片并生成缩略图
// 路径统一为 "分类/文件名"，ids 分类为私有文件，不对外提供静态访问
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"gatormmunity/internal/config"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/errorx"

	"github.com/disintegration/imaging"
)

// FileStore 文件存储接口
type FileStore interface {
	// Store 保存内容，返回新生成的路径
	Store(ctx context.Context, r io.Reader, category, ext string) (string, error)
	// Delete 尽力删除，失败只记录日志
	Delete(ctx context.Context, p string)
	// Resize 生成缩略图，保存在原文件旁，文件名追加 _thumb
	Resize(ctx context.Context, p string, width, height int) (string, error)
	// Open 读取文件内容
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	// URL 返回对外访问地址，私有文件返回空串
	URL(p string) string
}

// New 根据配置选择存储后端
func New(conf *config.Config) (FileStore, error) {
	switch conf.Backend {
	case "local":
		return NewLocalStore(conf.PublicPath, conf.PrivatePath, "/static")
	case "minio":
		return NewMinioStore(conf.MinioConfig)
	}
	return nil, fmt.Errorf("unknown file store backend %q", conf.Backend)
}

// isPrivate ids 分类只允许版主通过接口读取
func isPrivate(category string) bool {
	return category == constants.CATEGORY_IDS
}

// splitPath 校验并拆分 "分类/文件名"，拒绝目录穿越
func splitPath(p string) (category, name string, err error) {
	clean := path.Clean(p)
	category, name, ok := strings.Cut(clean, "/")
	if !ok || category == "" || name == "" || strings.Contains(name, "/") || strings.HasPrefix(clean, "..") || name == ".." {
		return "", "", errorx.Newf(errorx.CodeFileError, "invalid file path %q", p)
	}
	return category, name, nil
}

// thumbPath a/b.png -> a/b_thumb.png
func thumbPath(p string) string {
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext) + "_thumb" + ext
}

// makeThumbnail 解码图片并等比裁剪到 width x height
func makeThumbnail(src io.Reader, ext string, width, height int) (*bytes.Buffer, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeFileError, "unsupported image format %s", ext)
	}
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeFileError, "decode image")
	}
	thumb := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumb, format); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeFileError, "encode thumbnail")
	}
	return buf, nil
}
