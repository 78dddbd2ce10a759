// Package group_role_enum 群内角色
package group_role_enum

const (
	NON_MEMBER    int8 = -1 // 非成员，不对应任何数据行
	MEMBER        int8 = 1
	MODERATOR     int8 = 2
	ADMINISTRATOR int8 = 3 // 群创建者，每个群唯一
)

// Name 返回角色的展示名
func Name(role int8) string {
	switch role {
	case NON_MEMBER:
		return "non-member"
	case MEMBER:
		return "member"
	case MODERATOR:
		return "moderator"
	case ADMINISTRATOR:
		return "administrator"
	}
	return "unknown"
}
