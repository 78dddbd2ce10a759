package repository

import (
	"errors"

	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 按 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "query user uuid=%s", uuid)
	}
	return &user, nil
}

// FindByEmail 按邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBError(err, "query user by email")
	}
	return &user, nil
}

// FindByUuids 按 UUID 列表查找用户
func (r *userRepository) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if len(uuids) == 0 {
		return users, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "batch query users")
	}
	return users, nil
}

// Create 创建用户，邮箱唯一索引冲突时返回 CodeUserExist
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errorx.Wrap(err, errorx.CodeUserExist, "email already in use")
		}
		return wrapDBError(err, "create user")
	}
	return nil
}

// Search 按角色过滤并匹配全名
func (r *userRepository) Search(filter UserFilter, terms string, limit int) ([]model.UserInfo, error) {
	var users []model.UserInfo
	query := r.db.Model(&model.UserInfo{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if terms != "" {
		query = query.Where("LOWER(CONCAT(first_name, ' ', last_name)) LIKE ?", ContainsPattern(terms))
	}
	if err := query.Order("id DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "search users")
	}
	return users, nil
}

// UpdateRole 比较并交换角色
func (r *userRepository) UpdateRole(uuid string, expected, role int8) error {
	tx := r.db.Model(&model.UserInfo{}).
		Where("uuid = ? AND role = ? AND banned_by IS NULL", uuid, expected).
		Update("role", role)
	return checkSwapped(tx, ErrStateChanged, "update user role")
}

// Ban 写入封禁者，角色保持不变
func (r *userRepository) Ban(uuid string, expected int8, bannedBy string) error {
	tx := r.db.Model(&model.UserInfo{}).
		Where("uuid = ? AND role = ? AND banned_by IS NULL", uuid, expected).
		Update("banned_by", bannedBy)
	return checkSwapped(tx, ErrStateChanged, "ban user")
}

// DeleteUnapproved 物理删除待审核用户
func (r *userRepository) DeleteUnapproved(uuid string) error {
	tx := r.db.Unscoped().
		Where("uuid = ? AND role = ? AND banned_by IS NULL", uuid, user_role_enum.UNAPPROVED).
		Delete(&model.UserInfo{})
	return checkSwapped(tx, ErrStateChanged, "delete user")
}

// UpdatePicture 更新头像和缩略图
func (r *userRepository) UpdatePicture(uuid, picture, thumbnail string) error {
	err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).
		Updates(map[string]any{"picture": picture, "thumbnail": thumbnail}).Error
	return wrapDBErrorf(err, "update picture uuid=%s", uuid)
}
