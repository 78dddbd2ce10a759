package filestore

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gatormmunity/pkg/errorx"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("picture", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["picture"][0]
}

func newLocal(t *testing.T) (*LocalStore, string, string) {
	pub := filepath.Join(t.TempDir(), "static")
	priv := filepath.Join(t.TempDir(), "private")
	s, err := NewLocalStore(pub, priv, "/static")
	require.NoError(t, err)
	return s, pub, priv
}

func TestSaveImageStoresAndThumbnails(t *testing.T) {
	s, pub, _ := newLocal(t)
	ctx := context.Background()

	p, err := SaveImage(ctx, s, bytes.NewReader(pngBytes(t, 64, 48)), "listings")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "listings/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
	assert.FileExists(t, filepath.Join(pub, p))
	assert.Equal(t, "/static/"+p, s.URL(p))

	thumb, err := s.Resize(ctx, p, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(p, ".png")+"_thumb.png", thumb)

	img, err := imaging.Open(filepath.Join(pub, thumb))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	s, pub, _ := newLocal(t)
	_, err := SaveImage(context.Background(), s, strings.NewReader("just some text"), "users")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	entries, _ := os.ReadDir(filepath.Join(pub, "users"))
	assert.Empty(t, entries)
}

func TestPrivateCategory(t *testing.T) {
	s, pub, priv := newLocal(t)
	ctx := context.Background()

	p, err := SaveUpload(ctx, s, fileHeader(t, "id.png", pngBytes(t, 8, 8)), "ids")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(priv, p))
	assert.NoFileExists(t, filepath.Join(pub, p))
	assert.Empty(t, s.URL(p))

	rc, err := s.Open(ctx, p)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, pngBytes(t, 8, 8), data)

	s.Delete(ctx, p)
	assert.NoFileExists(t, filepath.Join(priv, p))
	// 重复删除不报错
	s.Delete(ctx, p)
}

func TestPathTraversalRejected(t *testing.T) {
	s, _, _ := newLocal(t)
	for _, p := range []string{"../etc/passwd", "/etc/passwd", "users", "users/../../x", "users/a/b"} {
		_, err := s.Open(context.Background(), p)
		assert.Error(t, err, p)
	}
}

func TestOpenMissing(t *testing.T) {
	s, _, _ := newLocal(t)
	_, err := s.Open(context.Background(), "users/missing.png")
	assert.True(t, errorx.IsNotFound(err))
}

// failingResize 缩略图总是失败，记录被删除的路径
type failingResize struct {
	*LocalStore
	deleted []string
}

func (f *failingResize) Resize(context.Context, string, int, int) (string, error) {
	return "", errors.New("decoder exploded")
}

func (f *failingResize) Delete(ctx context.Context, p string) {
	f.deleted = append(f.deleted, p)
	f.LocalStore.Delete(ctx, p)
}

func TestSaveImageWithThumbnailCompensates(t *testing.T) {
	local, pub, _ := newLocal(t)
	fs := &failingResize{LocalStore: local}

	_, err := SaveImageWithThumbnail(context.Background(), fs, fileHeader(t, "a.png", pngBytes(t, 16, 16)), "threads", 10, 10)
	require.Error(t, err)
	require.Len(t, fs.deleted, 1)
	assert.NoFileExists(t, filepath.Join(pub, fs.deleted[0]))
}

func TestSaveImageWithThumbnail(t *testing.T) {
	s, pub, _ := newLocal(t)
	saved, err := SaveImageWithThumbnail(context.Background(), s, fileHeader(t, "a.png", pngBytes(t, 16, 16)), "groups", 10, 10)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(pub, saved.Picture))
	assert.FileExists(t, filepath.Join(pub, saved.Thumbnail))

	Cleanup(context.Background(), s, saved.Paths()...)
	assert.NoFileExists(t, filepath.Join(pub, saved.Picture))
	assert.NoFileExists(t, filepath.Join(pub, saved.Thumbnail))
}
