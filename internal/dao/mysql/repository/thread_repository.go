// Package repository 提供数据访问层的具体实现
// 本文件实现论坛主题和回复的数据库操作
package repository

import (
	"gatormmunity/internal/model"

	"gorm.io/gorm"
)

// threadRepository ThreadRepository 接口的实现
type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository 创建 ThreadRepository 实例
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// FindByUuid 根据 UUID 查找主题
func (r *threadRepository) FindByUuid(uuid string) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.First(&thread, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "query thread uuid=%s", uuid)
	}
	return &thread, nil
}

// FindByGroupUuid 查找群组论坛下的全部主题，用于解散群组时清理图片
func (r *threadRepository) FindByGroupUuid(groupUuid string) ([]model.Thread, error) {
	var threads []model.Thread
	if err := r.db.Where("group_uuid = ?", groupUuid).Find(&threads).Error; err != nil {
		return nil, wrapDBErrorf(err, "query threads group_uuid=%s", groupUuid)
	}
	return threads, nil
}

// Create 创建主题
func (r *threadRepository) Create(thread *model.Thread) error {
	return wrapDBError(r.db.Create(thread).Error, "create thread")
}

// Search 在作用域内按分类过滤并匹配标题
// 全局作用域对应 group_uuid IS NULL
func (r *threadRepository) Search(filter ThreadFilter, terms string, limit int) ([]model.Thread, error) {
	var threads []model.Thread
	query := r.db.Model(&model.Thread{})
	if groupUuid, ok := filter.Scope.GroupUuid(); ok {
		query = query.Where("group_uuid = ?", groupUuid)
	} else {
		query = query.Where("group_uuid IS NULL")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if terms != "" {
		query = query.Where("LOWER(title) LIKE ?", ContainsPattern(terms))
	}
	if err := query.Order("id DESC").Limit(limit).Find(&threads).Error; err != nil {
		return nil, wrapDBError(err, "search threads")
	}
	return threads, nil
}

// DeleteByUuid 删除主题
func (r *threadRepository) DeleteByUuid(uuid string) error {
	err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.Thread{}).Error
	return wrapDBErrorf(err, "delete thread uuid=%s", uuid)
}

// DeleteByGroupUuid 删除群组论坛下的全部主题
func (r *threadRepository) DeleteByGroupUuid(groupUuid string) error {
	err := r.db.Unscoped().Where("group_uuid = ?", groupUuid).Delete(&model.Thread{}).Error
	return wrapDBErrorf(err, "delete threads group_uuid=%s", groupUuid)
}

// postRepository PostRepository 接口的实现
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建 PostRepository 实例
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// FindByThreadUuid 按 ID 升序返回回复
func (r *postRepository) FindByThreadUuid(threadUuid string) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.Where("thread_uuid = ?", threadUuid).Order("id ASC").Find(&posts).Error; err != nil {
		return nil, wrapDBErrorf(err, "query posts thread_uuid=%s", threadUuid)
	}
	return posts, nil
}

// Create 创建回复
func (r *postRepository) Create(post *model.Post) error {
	return wrapDBError(r.db.Create(post).Error, "create post")
}

// DeleteByThreadUuids 批量删除主题下的回复
func (r *postRepository) DeleteByThreadUuids(threadUuids []string) error {
	if len(threadUuids) == 0 {
		return nil
	}
	err := r.db.Unscoped().Where("thread_uuid IN ?", threadUuids).Delete(&model.Post{}).Error
	return wrapDBError(err, "delete posts")
}
