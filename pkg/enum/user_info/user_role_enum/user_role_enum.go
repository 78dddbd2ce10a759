// Package user_role_enum 平台角色
package user_role_enum

const (
	UNAPPROVED    int8 = 0 // 待审核
	APPROVED      int8 = 1 // 已审核
	MODERATOR     int8 = 2 // 版主
	ADMINISTRATOR int8 = 3 // 管理员
)

// Name 返回角色的展示名
func Name(role int8) string {
	switch role {
	case UNAPPROVED:
		return "unapproved"
	case APPROVED:
		return "approved"
	case MODERATOR:
		return "moderator"
	case ADMINISTRATOR:
		return "administrator"
	}
	return "unknown"
}

// Valid 判断是否为合法的平台角色
func Valid(role int8) bool {
	return role >= UNAPPROVED && role <= ADMINISTRATOR
}
