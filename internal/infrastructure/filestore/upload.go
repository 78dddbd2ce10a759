package filestore

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"gatormmunity/pkg/errorx"

	"go.uber.org/zap"
)

// 允许上传的图片类型及保存时使用的扩展名
var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// SaveImage 按文件头识别类型，只接受图片
func SaveImage(ctx context.Context, fs FileStore, r io.Reader, category string) (string, error) {
	// 读取前 512 字节进行 Magic Bytes 校验
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errorx.Wrap(err, errorx.CodeFileError, "read upload")
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext, ok := imageExts[contentType]
	if !ok {
		return "", errorx.Newf(errorx.CodeInvalidParam, "invalid file type: %s", contentType)
	}
	return fs.Store(ctx, io.MultiReader(bytes.NewReader(head), r), category, ext)
}

// SaveUpload 保存表单上传的图片
func SaveUpload(ctx context.Context, fs FileStore, fh *multipart.FileHeader, category string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeFileError, "open upload")
	}
	defer src.Close()
	return SaveImage(ctx, fs, src, category)
}

// SavedImage 原图和缩略图路径
type SavedImage struct {
	Picture   string
	Thumbnail string
}

// Paths 全部路径，用于失败时清理
func (s SavedImage) Paths() []string {
	return []string{s.Picture, s.Thumbnail}
}

// SaveImageWithThumbnail 保存图片并生成缩略图，缩略图失败时删除原图
func SaveImageWithThumbnail(ctx context.Context, fs FileStore, fh *multipart.FileHeader, category string, width, height int) (SavedImage, error) {
	picture, err := SaveUpload(ctx, fs, fh, category)
	if err != nil {
		return SavedImage{}, err
	}
	thumb, err := fs.Resize(ctx, picture, width, height)
	if err != nil {
		zap.L().Error("generate thumbnail failed", zap.String("path", picture), zap.Error(err))
		fs.Delete(ctx, picture)
		return SavedImage{}, err
	}
	return SavedImage{Picture: picture, Thumbnail: thumb}, nil
}

// Cleanup 尽力删除一组文件，空路径跳过
func Cleanup(ctx context.Context, fs FileStore, paths ...string) {
	for _, p := range paths {
		if p != "" {
			fs.Delete(ctx, p)
		}
	}
}

// Size 缩略图尺寸
type Size struct {
	Width  int
	Height int
}
