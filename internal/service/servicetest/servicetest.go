// Package servicetest 提供 Service 层单元测试共用的夹具：上传文件、用户、文件存储和各类假实现
package servicetest

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"

	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/chat"

	"github.com/stretchr/testify/require"
)

// PNG 生成一张小尺寸 PNG
func PNG(t testing.TB) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// FileHeader 构造 multipart 上传文件
func FileHeader(t testing.TB, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

// Image 一张可上传的 PNG 图片
func Image(t testing.TB) *multipart.FileHeader {
	return FileHeader(t, "photo.png", PNG(t))
}

// Files 临时目录上的本地文件存储
type Files struct {
	*filestore.LocalStore
	Root string
}

// NewFiles 创建临时目录文件存储
func NewFiles(t testing.TB) *Files {
	t.Helper()
	root := t.TempDir()
	s, err := filestore.NewLocalStore(filepath.Join(root, "static"), filepath.Join(root, "private"), "/static")
	require.NoError(t, err)
	return &Files{LocalStore: s, Root: root}
}

// Count 当前保存的文件数量（公开和私有目录合计）
func (f *Files) Count(t testing.TB) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(f.Root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

// Exists 文件是否存在
func (f *Files) Exists(p string) bool {
	rc, err := f.Open(context.Background(), p)
	if err != nil {
		return false
	}
	_ = rc.Close()
	return true
}

// AddUser 直接写入一个用户
func AddUser(t testing.TB, repos *repository.Repositories, uuid, first, last string, role int8) *model.UserInfo {
	t.Helper()
	u := &model.UserInfo{
		Uuid:        uuid,
		FirstName:   first,
		LastName:    last,
		Email:       uuid + "@uni.edu",
		Role:        role,
		RawPassword: "password123",
	}
	require.NoError(t, repos.User.Create(u))
	return u
}

// Banned 返回被 bannedBy 封禁的标记
func Banned(bannedBy string) sql.NullString {
	return sql.NullString{String: bannedBy, Valid: true}
}

// SyncTasks 同步执行提交的任务
type SyncTasks struct{}

func (SyncTasks) SubmitTask(action func()) { action() }

// Mail 一封已发送的邮件
type Mail struct {
	From, To, Subject, HTML string
}

// Mailer 记录发送的邮件
type Mailer struct {
	mu   sync.Mutex
	Sent []Mail
	Err  error
}

func (m *Mailer) Send(from, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, Mail{From: from, To: to, Subject: subject, HTML: htmlBody})
	return nil
}

// Count 已发送的邮件数
func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Publisher 记录投递的推送
type Publisher struct {
	mu         sync.Mutex
	Deliveries []chat.Delivery
}

func (p *Publisher) Publish(ctx context.Context, d chat.Delivery) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Deliveries = append(p.Deliveries, d)
	return nil
}

// Last 最近一次推送
func (p *Publisher) Last() chat.Delivery {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Deliveries) == 0 {
		return chat.Delivery{}
	}
	return p.Deliveries[len(p.Deliveries)-1]
}

// Sessions 内存会话存储
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*model.SessionSnapshot
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*model.SessionSnapshot)}
}

func (s *Sessions) Get(ctx context.Context, sessionId string) (*model.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionId], nil
}

func (s *Sessions) Set(ctx context.Context, sessionId string, snapshot *model.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionId] = snapshot
	return nil
}

func (s *Sessions) Destroy(ctx context.Context, sessionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionId)
	return nil
}

func (s *Sessions) DestroyByUser(ctx context.Context, userUuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range s.sessions {
		if snap.UserUuid == userUuid {
			delete(s.sessions, id)
		}
	}
	return nil
}

// Count 某用户的会话数
func (s *Sessions) Count(userUuid string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, snap := range s.sessions {
		if snap.UserUuid == userUuid {
			n++
		}
	}
	return n
}
