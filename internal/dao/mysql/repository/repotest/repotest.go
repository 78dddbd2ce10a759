// Package repotest 提供 Repository 接口的内存实现，供 Service 层单元测试使用
// 过滤、大小写不敏感子串匹配、ID 倒序、LIMIT 和条件更新的语义与 MySQL 实现一致
package repotest

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/group_member/group_role_enum"
	"gatormmunity/pkg/enum/message/channel_type_enum"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"

	"gorm.io/gorm"
)

// Store 所有内存表共享一把锁和一个自增序列
type Store struct {
	mu     sync.Mutex
	nextId uint

	users    []*model.UserInfo
	listings []*model.Listing
	threads  []*model.Thread
	posts    []*model.Post
	groups   []*model.GroupInfo
	members  []*model.GroupMember
	messages []*model.Message

	// SearchErr 非空时所有 Search 方法返回该错误
	SearchErr error
}

// NewRepositories 创建绑定到同一个 Store 的 Repository 聚合
func NewRepositories() (*repository.Repositories, *Store) {
	s := &Store{}
	return &repository.Repositories{
		User:        &userRepo{s},
		Listing:     &listingRepo{s},
		Thread:      &threadRepo{s},
		Post:        &postRepo{s},
		Group:       &groupRepo{s},
		GroupMember: &memberRepo{s},
		Message:     &messageRepo{s},
	}, s
}

func (s *Store) id() uint {
	s.nextId++
	return s.nextId
}

func notFound(what string) error {
	return errorx.Wrap(gorm.ErrRecordNotFound, errorx.CodeNotFound, what)
}

func contains(display, terms string) bool {
	return terms == "" || strings.Contains(strings.ToLower(display), strings.ToLower(terms))
}

// newestFirst 按 ID 倒序并截断
func newestFirst[T any](items []T, id func(T) uint, limit int) []T {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) > id(items[j]) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// ==================== 计数辅助 ====================

// UserCount 当前用户数
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// MemberCount 某群组的成员记录数
func (s *Store) MemberCount(groupUuid string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.members {
		if m.GroupUuid == groupUuid {
			n++
		}
	}
	return n
}

// MessageCount 消息总数
func (s *Store) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// ==================== 用户 ====================

type userRepo struct{ s *Store }

func (r *userRepo) find(uuid string) *model.UserInfo {
	for _, u := range r.s.users {
		if u.Uuid == uuid {
			return u
		}
	}
	return nil
}

func (r *userRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u := r.find(uuid); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, notFound("query user")
}

func (r *userRepo) FindByEmail(email string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("query user by email")
}

func (r *userRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.UserInfo
	for _, id := range uuids {
		if u := r.find(id); u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *userRepo) Create(user *model.UserInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return errorx.Wrap(gorm.ErrDuplicatedKey, errorx.CodeUserExist, "email already in use")
		}
	}
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	cp := *user
	r.s.users = append(r.s.users, &cp)
	return nil
}

func (r *userRepo) Search(filter repository.UserFilter, terms string, limit int) ([]model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SearchErr != nil {
		return nil, r.s.SearchErr
	}
	var out []model.UserInfo
	for _, u := range r.s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if contains(u.FullName(), terms) {
			out = append(out, *u)
		}
	}
	return newestFirst(out, func(u model.UserInfo) uint { return u.ID }, limit), nil
}

func (r *userRepo) UpdateRole(uuid string, expected, role int8) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.find(uuid)
	if u == nil || u.Role != expected || u.IsBanned() {
		return repository.ErrStateChanged
	}
	u.Role = role
	return nil
}

func (r *userRepo) Ban(uuid string, expected int8, bannedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.find(uuid)
	if u == nil || u.Role != expected || u.IsBanned() {
		return repository.ErrStateChanged
	}
	u.BannedBy = sql.NullString{String: bannedBy, Valid: true}
	return nil
}

func (r *userRepo) DeleteUnapproved(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, u := range r.s.users {
		if u.Uuid == uuid && u.Role == user_role_enum.UNAPPROVED && !u.IsBanned() {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrStateChanged
}

func (r *userRepo) UpdatePicture(uuid, picture, thumbnail string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u := r.find(uuid); u != nil {
		u.Picture, u.Thumbnail = picture, thumbnail
	}
	return nil
}

// ==================== 商品 ====================

type listingRepo struct{ s *Store }

func (r *listingRepo) FindByUuid(uuid string) (*model.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.listings {
		if l.Uuid == uuid {
			cp := *l
			return &cp, nil
		}
	}
	return nil, notFound("query listing")
}

func (r *listingRepo) Create(listing *model.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	listing.ID = r.s.id()
	listing.CreatedAt = time.Now()
	cp := *listing
	r.s.listings = append(r.s.listings, &cp)
	return nil
}

func (r *listingRepo) Search(filter repository.ListingFilter, terms string, limit int) ([]model.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SearchErr != nil {
		return nil, r.s.SearchErr
	}
	var out []model.Listing
	for _, l := range r.s.listings {
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.MaxPrice != nil && l.Price > *filter.MaxPrice {
			continue
		}
		if contains(l.Title, terms) {
			out = append(out, *l)
		}
	}
	return newestFirst(out, func(l model.Listing) uint { return l.ID }, limit), nil
}

func (r *listingRepo) DeleteByUuid(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, l := range r.s.listings {
		if l.Uuid == uuid {
			r.s.listings = append(r.s.listings[:i], r.s.listings[i+1:]...)
			break
		}
	}
	return nil
}

// ==================== 论坛 ====================

type threadRepo struct{ s *Store }

func (r *threadRepo) FindByUuid(uuid string) (*model.Thread, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.threads {
		if t.Uuid == uuid {
			cp := *t
			return &cp, nil
		}
	}
	return nil, notFound("query thread")
}

func (r *threadRepo) FindByGroupUuid(groupUuid string) ([]model.Thread, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Thread
	for _, t := range r.s.threads {
		if t.GroupUuid.Valid && t.GroupUuid.String == groupUuid {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *threadRepo) Create(thread *model.Thread) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	thread.ID = r.s.id()
	thread.CreatedAt = time.Now()
	cp := *thread
	r.s.threads = append(r.s.threads, &cp)
	return nil
}

func (r *threadRepo) Search(filter repository.ThreadFilter, terms string, limit int) ([]model.Thread, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SearchErr != nil {
		return nil, r.s.SearchErr
	}
	var out []model.Thread
	for _, t := range r.s.threads {
		if t.Scope() != filter.Scope {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if contains(t.Title, terms) {
			out = append(out, *t)
		}
	}
	return newestFirst(out, func(t model.Thread) uint { return t.ID }, limit), nil
}

func (r *threadRepo) DeleteByUuid(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.threads[:0]
	for _, t := range r.s.threads {
		if t.Uuid != uuid {
			kept = append(kept, t)
		}
	}
	r.s.threads = kept
	return nil
}

func (r *threadRepo) DeleteByGroupUuid(groupUuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.threads[:0]
	for _, t := range r.s.threads {
		if !(t.GroupUuid.Valid && t.GroupUuid.String == groupUuid) {
			kept = append(kept, t)
		}
	}
	r.s.threads = kept
	return nil
}

type postRepo struct{ s *Store }

func (r *postRepo) FindByThreadUuid(threadUuid string) ([]model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Post
	for _, p := range r.s.posts {
		if p.ThreadUuid == threadUuid {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *postRepo) Create(post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.ID = r.s.id()
	post.CreatedAt = time.Now()
	cp := *post
	r.s.posts = append(r.s.posts, &cp)
	return nil
}

func (r *postRepo) DeleteByThreadUuids(threadUuids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	drop := make(map[string]bool, len(threadUuids))
	for _, id := range threadUuids {
		drop[id] = true
	}
	kept := r.s.posts[:0]
	for _, p := range r.s.posts {
		if !drop[p.ThreadUuid] {
			kept = append(kept, p)
		}
	}
	r.s.posts = kept
	return nil
}

// ==================== 群组 ====================

type groupRepo struct{ s *Store }

func (r *groupRepo) find(uuid string) *model.GroupInfo {
	for _, g := range r.s.groups {
		if g.Uuid == uuid {
			return g
		}
	}
	return nil
}

func (r *groupRepo) FindByUuid(uuid string) (*model.GroupInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g := r.find(uuid); g != nil {
		cp := *g
		return &cp, nil
	}
	return nil, notFound("query group")
}

func (r *groupRepo) FindByUuids(uuids []string) ([]model.GroupInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.GroupInfo
	for _, id := range uuids {
		if g := r.find(id); g != nil {
			out = append(out, *g)
		}
	}
	return newestFirst(out, func(g model.GroupInfo) uint { return g.ID }, len(out)), nil
}

func (r *groupRepo) Create(group *model.GroupInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	group.ID = r.s.id()
	group.CreatedAt = time.Now()
	cp := *group
	r.s.groups = append(r.s.groups, &cp)
	return nil
}

func (r *groupRepo) Search(terms string, limit int) ([]model.GroupInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SearchErr != nil {
		return nil, r.s.SearchErr
	}
	var out []model.GroupInfo
	for _, g := range r.s.groups {
		if contains(g.Name, terms) {
			out = append(out, *g)
		}
	}
	return newestFirst(out, func(g model.GroupInfo) uint { return g.ID }, limit), nil
}

func (r *groupRepo) UpdateAnnouncement(uuid, announcement string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g := r.find(uuid); g != nil {
		g.Announcement = announcement
	}
	return nil
}

func (r *groupRepo) IncrementMemberCount(uuid string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g := r.find(uuid); g != nil {
		g.MemberCnt += delta
	}
	return nil
}

func (r *groupRepo) DeleteByUuid(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, g := range r.s.groups {
		if g.Uuid == uuid {
			r.s.groups = append(r.s.groups[:i], r.s.groups[i+1:]...)
			break
		}
	}
	return nil
}

type memberRepo struct{ s *Store }

func (r *memberRepo) find(groupUuid, userUuid string) (int, *model.GroupMember) {
	for i, m := range r.s.members {
		if m.GroupUuid == groupUuid && m.UserUuid == userUuid {
			return i, m
		}
	}
	return -1, nil
}

func (r *memberRepo) GetRole(groupUuid, userUuid string) (int8, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, m := r.find(groupUuid, userUuid); m != nil {
		return m.Role, nil
	}
	return group_role_enum.NON_MEMBER, nil
}

func (r *memberRepo) FindMembersWithUserInfo(groupUuid string) ([]repository.GroupMemberWithUserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.GroupMemberWithUserInfo
	for _, m := range r.s.members {
		if m.GroupUuid != groupUuid {
			continue
		}
		for _, u := range r.s.users {
			if u.Uuid == m.UserUuid {
				out = append(out, repository.GroupMemberWithUserInfo{
					UserId: u.Uuid, FirstName: u.FirstName, LastName: u.LastName, Thumbnail: u.Thumbnail, Role: m.Role,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Role > out[j].Role })
	return out, nil
}

func (r *memberRepo) FindGroupUuidsByUser(userUuid string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, m := range r.s.members {
		if m.UserUuid == userUuid {
			out = append(out, m.GroupUuid)
		}
	}
	return out, nil
}

func (r *memberRepo) FindUserUuidsByGroup(groupUuid string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, m := range r.s.members {
		if m.GroupUuid == groupUuid {
			out = append(out, m.UserUuid)
		}
	}
	return out, nil
}

func (r *memberRepo) CountByGroupUuid(groupUuid string) (int64, error) {
	return int64(r.s.MemberCount(groupUuid)), nil
}

func (r *memberRepo) Create(member *model.GroupMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, m := r.find(member.GroupUuid, member.UserUuid); m != nil {
		return errorx.Wrap(gorm.ErrDuplicatedKey, errorx.CodeConflict, "create group member")
	}
	member.ID = r.s.id()
	member.CreatedAt = time.Now()
	cp := *member
	r.s.members = append(r.s.members, &cp)
	return nil
}

func (r *memberRepo) UpdateRole(groupUuid, userUuid string, expected, role int8) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, m := r.find(groupUuid, userUuid)
	if m == nil || m.Role != expected {
		return repository.ErrMembershipChanged
	}
	m.Role = role
	return nil
}

func (r *memberRepo) Delete(groupUuid, userUuid string, expected int8) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, m := r.find(groupUuid, userUuid)
	if m == nil || m.Role != expected {
		return repository.ErrMembershipChanged
	}
	r.s.members = append(r.s.members[:i], r.s.members[i+1:]...)
	return nil
}

func (r *memberRepo) DeleteByGroupUuid(groupUuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.members[:0]
	for _, m := range r.s.members {
		if m.GroupUuid != groupUuid {
			kept = append(kept, m)
		}
	}
	r.s.members = kept
	return nil
}

func (r *memberRepo) DeleteByUserUuid(userUuid string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var groups []string
	kept := r.s.members[:0]
	for _, m := range r.s.members {
		if m.UserUuid == userUuid {
			groups = append(groups, m.GroupUuid)
			continue
		}
		kept = append(kept, m)
	}
	r.s.members = kept
	return groups, nil
}

// ==================== 消息 ====================

type messageRepo struct{ s *Store }

func (r *messageRepo) Create(message *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	message.ID = r.s.id()
	message.CreatedAt = time.Now()
	cp := *message
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r *messageRepo) collect(match func(m *model.Message) bool, afterId uint, limit int) []model.Message {
	var out []model.Message
	for _, m := range r.s.messages {
		if m.ID > afterId && match(m) {
			out = append(out, *m)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (r *messageRepo) FindDirect(userOneId, userTwoId string, afterId uint, limit int) ([]model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(m *model.Message) bool {
		return m.ChannelType == channel_type_enum.DIRECT &&
			((m.SendId == userOneId && m.ReceiveId == userTwoId) || (m.SendId == userTwoId && m.ReceiveId == userOneId))
	}, afterId, limit), nil
}

func (r *messageRepo) FindChannel(channelType int8, receiveId string, afterId uint, limit int) ([]model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(m *model.Message) bool {
		return m.ChannelType == channelType && m.ReceiveId == receiveId
	}, afterId, limit), nil
}

func (r *messageRepo) FindLatestDirect(userUuid string) ([]model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	latest := make(map[string]model.Message)
	for _, m := range r.s.messages {
		if m.ChannelType != channel_type_enum.DIRECT {
			continue
		}
		var peer string
		switch userUuid {
		case m.SendId:
			peer = m.ReceiveId
		case m.ReceiveId:
			peer = m.SendId
		default:
			continue
		}
		if cur, ok := latest[peer]; !ok || m.ID > cur.ID {
			latest[peer] = *m
		}
	}
	out := make([]model.Message, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	return newestFirst(out, func(m model.Message) uint { return m.ID }, len(out)), nil
}

func (r *messageRepo) DeleteChannel(channelType int8, receiveId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.messages[:0]
	for _, m := range r.s.messages {
		if !(m.ChannelType == channelType && m.ReceiveId == receiveId) {
			kept = append(kept, m)
		}
	}
	r.s.messages = kept
	return nil
}

