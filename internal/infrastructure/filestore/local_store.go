package filestore

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/random"

	"go.uber.org/zap"
)

// LocalStore 本地磁盘存储
// 公开文件位于 publicRoot 并由 gin 挂载到 urlPrefix，私有文件位于 privateRoot
type LocalStore struct {
	publicRoot  string
	privateRoot string
	urlPrefix   string
}

// NewLocalStore 创建本地存储，目录不存在时自动创建
func NewLocalStore(publicRoot, privateRoot, urlPrefix string) (*LocalStore, error) {
	for _, dir := range []string{publicRoot, privateRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errorx.Wrapf(err, errorx.CodeFileError, "create directory %s", dir)
		}
	}
	return &LocalStore{publicRoot: publicRoot, privateRoot: privateRoot, urlPrefix: urlPrefix}, nil
}

// PublicRoot 静态文件根目录
func (s *LocalStore) PublicRoot() string { return s.publicRoot }

func (s *LocalStore) resolve(p string) (string, error) {
	category, name, err := splitPath(p)
	if err != nil {
		return "", err
	}
	root := s.publicRoot
	if isPrivate(category) {
		root = s.privateRoot
	}
	return filepath.Join(root, category, name), nil
}

func (s *LocalStore) write(p string, r io.Reader) error {
	dst, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errorx.Wrap(err, errorx.CodeFileError, "create category directory")
	}
	out, err := os.Create(dst)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeFileError, "create file")
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return errorx.Wrap(err, errorx.CodeFileError, "write file")
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return errorx.Wrap(err, errorx.CodeFileError, "close file")
	}
	return nil
}

// Store 以随机文件名保存
func (s *LocalStore) Store(ctx context.Context, r io.Reader, category, ext string) (string, error) {
	p := path.Join(category, random.GetNowAndLenRandomString(16)+ext)
	if err := s.write(p, r); err != nil {
		return "", err
	}
	return p, nil
}

// Delete 删除文件，错误被忽略
func (s *LocalStore) Delete(ctx context.Context, p string) {
	if p == "" {
		return
	}
	dst, err := s.resolve(p)
	if err == nil {
		err = os.Remove(dst)
	}
	if err != nil && !os.IsNotExist(err) {
		zap.L().Warn("delete file failed", zap.String("path", p), zap.Error(err))
	}
}

// Resize 生成缩略图
func (s *LocalStore) Resize(ctx context.Context, p string, width, height int) (string, error) {
	src, err := s.Open(ctx, p)
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf, err := makeThumbnail(src, path.Ext(p), width, height)
	if err != nil {
		return "", err
	}
	thumb := thumbPath(p)
	if err := s.write(thumb, buf); err != nil {
		return "", err
	}
	return thumb, nil
}

// Open 打开文件
func (s *LocalStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	dst, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "file not found")
		}
		return nil, errorx.Wrap(err, errorx.CodeFileError, "open file")
	}
	return f, nil
}

// URL 公开文件的访问路径
func (s *LocalStore) URL(p string) string {
	if p == "" {
		return ""
	}
	category, _, err := splitPath(p)
	if err != nil || isPrivate(category) {
		return ""
	}
	return s.urlPrefix + "/" + p
}

var _ FileStore = (*LocalStore)(nil)
