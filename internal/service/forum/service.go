// Package forum 处理全局论坛和群组论坛的主题与回复
package forum

import (
	"context"
	"database/sql"
	"fmt"

	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/rolegate"
	"gatormmunity/internal/service/search"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/random"

	"go.uber.org/zap"
)

var (
	errThreadNotFound = errorx.New(errorx.CodeNotFound, "thread not found")
	errGroupNotFound  = errorx.New(errorx.CodeNotFound, "group not found")
)

type forumService struct {
	repos *repository.Repositories
	files filestore.FileStore
	caps  search.Caps
	thumb filestore.Size
}

// NewForumService 构造函数
func NewForumService(repos *repository.Repositories, files filestore.FileStore, caps search.Caps, thumb filestore.Size) *forumService {
	return &forumService{repos: repos, files: files, caps: caps, thumb: thumb}
}

// participant 校验用户能在作用域内发帖和阅读
// 群组作用域要求群组存在且用户是成员
func (f *forumService) participant(scope model.Scope, userId string) (rolegate.Subject, *model.UserInfo, error) {
	if groupUuid, ok := scope.GroupUuid(); ok {
		if _, err := f.repos.Group.FindByUuid(groupUuid); err != nil {
			if errorx.IsNotFound(err) {
				return rolegate.Subject{}, nil, errGroupNotFound
			}
			zap.L().Error("find group", zap.String("group_id", groupUuid), zap.Error(err))
			return rolegate.Subject{}, nil, errorx.ErrServerBusy
		}
	}
	actor, user, err := rolegate.LoadSubject(f.repos.User, f.repos.GroupMember, scope, userId)
	if err != nil {
		return rolegate.Subject{}, nil, err
	}
	if err := rolegate.Authorize(rolegate.Participate, actor, nil, rolegate.Resource{Scope: scope}).Err(); err != nil {
		return rolegate.Subject{}, nil, err
	}
	return actor, user, nil
}

// CreateThread 发布主题，正文作为第一条回复保存
func (f *forumService) CreateThread(ctx context.Context, userId string, req request.CreateThreadRequest) (*respond.ThreadRespond, error) {
	scope := model.ScopeOf(req.GroupId)
	if _, _, err := f.participant(scope, userId); err != nil {
		return nil, err
	}

	var saved filestore.SavedImage
	if req.Picture != nil {
		var err error
		saved, err = filestore.SaveImageWithThumbnail(ctx, f.files, req.Picture, constants.CATEGORY_THREADS, f.thumb.Width, f.thumb.Height)
		if err != nil {
			return nil, err
		}
	}

	thread := model.Thread{
		Uuid:        fmt.Sprintf("T%s", random.GetNowAndLenRandomString(11)),
		Title:       req.Title,
		Category:    req.Category,
		CreatorUuid: userId,
		Picture:     saved.Picture,
		Thumbnail:   saved.Thumbnail,
	}
	if groupUuid, ok := scope.GroupUuid(); ok {
		thread.GroupUuid = sql.NullString{String: groupUuid, Valid: true}
	}
	err := f.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Thread.Create(&thread); err != nil {
			return err
		}
		return txRepos.Post.Create(&model.Post{
			Uuid:       fmt.Sprintf("P%s", random.GetNowAndLenRandomString(11)),
			ThreadUuid: thread.Uuid,
			AuthorUuid: userId,
			Body:       req.Body,
		})
	})
	if err != nil {
		filestore.Cleanup(ctx, f.files, saved.Paths()...)
		zap.L().Error("create thread", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := f.toRespond(&thread)
	return &rsp, nil
}

// ReplyThread 回复主题
func (f *forumService) ReplyThread(ctx context.Context, userId string, req request.ReplyThreadRequest) (*respond.PostRespond, error) {
	thread, err := f.find(req.ThreadId)
	if err != nil {
		return nil, err
	}
	_, user, err := f.participant(thread.Scope(), userId)
	if err != nil {
		return nil, err
	}
	post := model.Post{
		Uuid:       fmt.Sprintf("P%s", random.GetNowAndLenRandomString(11)),
		ThreadUuid: thread.Uuid,
		AuthorUuid: userId,
		Body:       req.Body,
	}
	if err := f.repos.Post.Create(&post); err != nil {
		zap.L().Error("create post", zap.String("thread_id", thread.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.PostRespond{
		Uuid:            post.Uuid,
		AuthorId:        userId,
		AuthorName:      user.FullName(),
		AuthorThumbnail: f.files.URL(user.Thumbnail),
		Body:            post.Body,
		CreatedAt:       post.CreatedAt,
	}, nil
}

// GetThread 主题详情及全部回复
func (f *forumService) GetThread(ctx context.Context, userId, threadId string) (*respond.ThreadDetailRespond, error) {
	thread, err := f.find(threadId)
	if err != nil {
		return nil, err
	}
	if _, _, err := f.participant(thread.Scope(), userId); err != nil {
		return nil, err
	}
	posts, err := f.repos.Post.FindByThreadUuid(threadId)
	if err != nil {
		zap.L().Error("find posts", zap.String("thread_id", threadId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	authorIds := make([]string, 0, len(posts))
	for _, p := range posts {
		authorIds = append(authorIds, p.AuthorUuid)
	}
	authors, err := f.repos.User.FindByUuids(authorIds)
	if err != nil {
		zap.L().Error("find post authors", zap.String("thread_id", threadId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	byId := make(map[string]*model.UserInfo, len(authors))
	for i := range authors {
		byId[authors[i].Uuid] = &authors[i]
	}

	rsp := &respond.ThreadDetailRespond{
		ThreadRespond: f.toRespond(thread),
		Posts:         make([]respond.PostRespond, 0, len(posts)),
	}
	for _, p := range posts {
		item := respond.PostRespond{Uuid: p.Uuid, AuthorId: p.AuthorUuid, Body: p.Body, CreatedAt: p.CreatedAt}
		// 作者账号被删除时只保留 ID
		if a, ok := byId[p.AuthorUuid]; ok {
			item.AuthorName = a.FullName()
			item.AuthorThumbnail = f.files.URL(a.Thumbnail)
		}
		rsp.Posts = append(rsp.Posts, item)
	}
	return rsp, nil
}

// SearchThreads 在某个论坛内按标题和分类搜索
func (f *forumService) SearchThreads(ctx context.Context, userId string, req request.SearchThreadsRequest) (*respond.SearchThreadsRespond, error) {
	scope := model.ScopeOf(req.GroupId)
	if _, _, err := f.participant(scope, userId); err != nil {
		return nil, err
	}
	filter := repository.ThreadFilter{Category: req.Category, Scope: scope}
	result, err := search.Search(req.SearchTerms, f.caps, func(terms string, limit int) ([]model.Thread, error) {
		return f.repos.Thread.Search(filter, terms, limit)
	})
	if err != nil {
		return nil, err
	}
	threads := make([]respond.ThreadRespond, 0, len(result.Records))
	for i := range result.Records {
		threads = append(threads, f.toRespond(&result.Records[i]))
	}
	return &respond.SearchThreadsRespond{
		Matched:    result.Matched,
		NumMatched: result.NumMatched(),
		Threads:    threads,
	}, nil
}

// DeleteThread 发帖人、平台版主或群版主可删除
func (f *forumService) DeleteThread(ctx context.Context, userId, threadId string) error {
	thread, err := f.find(threadId)
	if err != nil {
		return err
	}
	scope := thread.Scope()
	actor, _, err := rolegate.LoadSubject(f.repos.User, f.repos.GroupMember, scope, userId)
	if err != nil {
		return err
	}
	res := rolegate.Resource{Scope: scope, OwnerUuid: thread.CreatorUuid}
	if err := rolegate.Authorize(rolegate.DeleteContent, actor, nil, res).Err(); err != nil {
		return err
	}
	err = f.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Post.DeleteByThreadUuids([]string{threadId}); err != nil {
			return err
		}
		return txRepos.Thread.DeleteByUuid(threadId)
	})
	if err != nil {
		zap.L().Error("delete thread", zap.String("thread_id", threadId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	filestore.Cleanup(ctx, f.files, thread.Picture, thread.Thumbnail)
	zap.L().Info("thread deleted", zap.String("thread_id", threadId), zap.String("actor", userId))
	return nil
}

func (f *forumService) find(threadId string) (*model.Thread, error) {
	thread, err := f.repos.Thread.FindByUuid(threadId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errThreadNotFound
		}
		zap.L().Error("find thread", zap.String("thread_id", threadId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return thread, nil
}

func (f *forumService) toRespond(t *model.Thread) respond.ThreadRespond {
	groupId, _ := t.Scope().GroupUuid()
	return respond.ThreadRespond{
		Uuid:      t.Uuid,
		Title:     t.Title,
		Category:  t.Category,
		GroupId:   groupId,
		CreatorId: t.CreatorUuid,
		Picture:   f.files.URL(t.Picture),
		Thumbnail: f.files.URL(t.Thumbnail),
		CreatedAt: t.CreatedAt,
	}
}
