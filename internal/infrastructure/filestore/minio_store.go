package filestore

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"gatormmunity/internal/config"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/random"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioStore 对象存储，对象键即 "分类/文件名"
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinioStore 连接对象存储，桶不存在时创建
func NewMinioStore(cfg config.MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeFileError, "create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeFileError, "check bucket %s", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errorx.Wrapf(err, errorx.CodeFileError, "create bucket %s", cfg.Bucket)
		}
		zap.L().Info("minio bucket created", zap.String("bucket", cfg.Bucket))
	}
	return &MinioStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *MinioStore) put(ctx context.Context, key string, r io.Reader, size int64) error {
	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(path.Ext(key))}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return errorx.Wrapf(err, errorx.CodeFileError, "put object %s", key)
	}
	return nil
}

// Store 上传对象，长度未知时由客户端分片
func (s *MinioStore) Store(ctx context.Context, r io.Reader, category, ext string) (string, error) {
	key := path.Join(category, random.GetNowAndLenRandomString(16)+ext)
	if _, _, err := splitPath(key); err != nil {
		return "", err
	}
	if err := s.put(ctx, key, r, -1); err != nil {
		return "", err
	}
	return key, nil
}

// Delete 删除对象，错误被忽略
func (s *MinioStore) Delete(ctx context.Context, p string) {
	if p == "" {
		return
	}
	if err := s.client.RemoveObject(ctx, s.bucket, p, minio.RemoveObjectOptions{}); err != nil {
		zap.L().Warn("remove object failed", zap.String("key", p), zap.Error(err))
	}
}

// Resize 下载原图生成缩略图后上传
func (s *MinioStore) Resize(ctx context.Context, p string, width, height int) (string, error) {
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
	if err := s.put(ctx, thumb, buf, int64(buf.Len())); err != nil {
		return "", err
	}
	return thumb, nil
}

// Open 读取对象
func (s *MinioStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if _, _, err := splitPath(p); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, p, minio.GetObjectOptions{})
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeFileError, "get object %s", p)
	}
	// GetObject 是惰性的，Stat 才能确认对象存在
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errorx.Wrap(err, errorx.CodeNotFound, "file not found")
		}
		return nil, errorx.Wrapf(err, errorx.CodeFileError, "stat object %s", p)
	}
	return obj, nil
}

// URL 公开对象的访问地址
func (s *MinioStore) URL(p string) string {
	if p == "" {
		return ""
	}
	category, _, err := splitPath(p)
	if err != nil || isPrivate(category) {
		return ""
	}
	return s.publicBaseURL + "/" + p
}

var _ FileStore = (*MinioStore)(nil)
