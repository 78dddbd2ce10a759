// Package rolegate 集中处理平台角色和群内角色的权限判定
// 所有特权操作都通过 Authorize 判定，调用方只负责准备主体和资源
package rolegate

import (
	"crypto/subtle"

	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/group_member/group_role_enum"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"
)

// Action 需要鉴权的操作
type Action int

const (
	// 平台角色
	Approve Action = iota
	Reject
	Ban
	AppointModerator
	UnappointModerator
	ViewIdPicture

	// 群内角色
	Join
	Invite
	Kick
	Leave
	Promote
	Demote
	DeleteGroup
	UpdateGroup

	// 内容
	Participate   // 在作用域内发帖、回复、发消息
	DeleteContent // 删除商品或主题
)

var actionNames = [...]string{
	"approve", "reject", "ban", "appoint_moderator", "unappoint_moderator", "view_id_picture",
	"join", "invite", "kick", "leave", "promote", "demote", "delete_group", "update_group",
	"participate", "delete_content",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Subject 参与判定的用户
// GroupRole 为该用户在 Resource.Scope 内的角色，由 GroupRole 查询得到
type Subject struct {
	Uuid      string
	Role      int8
	Banned    bool
	GroupRole int8
}

// SubjectOf 由用户记录构造主体
func SubjectOf(u *model.UserInfo, groupRole int8) Subject {
	return Subject{Uuid: u.Uuid, Role: u.Role, Banned: u.IsBanned(), GroupRole: groupRole}
}

// Resource 操作对象的上下文
type Resource struct {
	Scope        model.Scope
	JoinCode     string // 群组保存的加入码
	SuppliedCode string // 请求携带的加入码
	OwnerUuid    string // 内容的创建者
}

// Decision 判定结果：Authorized 或 Denied(reason)
type Decision struct {
	allowed bool
	reason  string
}

// Authorized 允许
func Authorized() Decision { return Decision{allowed: true} }

// Denied 拒绝并给出面向用户的原因
func Denied(reason string) Decision { return Decision{reason: reason} }

func (d Decision) Allowed() bool  { return d.allowed }
func (d Decision) Reason() string { return d.reason }

// Err 拒绝时返回 CodeForbidden 错误，允许时返回 nil
func (d Decision) Err() error {
	if d.allowed {
		return nil
	}
	return errorx.New(errorx.CodeForbidden, d.reason)
}

// GroupRoleReader 查询群内角色，无记录时返回 NON_MEMBER
type GroupRoleReader interface {
	GetRole(groupUuid, userUuid string) (int8, error)
}

// GroupRole 返回用户在作用域内的角色
// 全局作用域下所有用户都是 MEMBER，不查询存储
func GroupRole(reader GroupRoleReader, scope model.Scope, userUuid string) (int8, error) {
	groupUuid, ok := scope.GroupUuid()
	if !ok {
		return group_role_enum.MEMBER, nil
	}
	return reader.GetRole(groupUuid, userUuid)
}

// Authorize 判定 actor 能否对 target 执行 action
// 不涉及目标用户的操作 target 传 nil
func Authorize(action Action, actor Subject, target *Subject, res Resource) Decision {
	if actor.Banned {
		return Denied("your account has been banned")
	}
	switch action {
	case Approve:
		if actor.Role < user_role_enum.MODERATOR {
			return Denied("only moderators can approve users")
		}
		if target == nil || target.Role != user_role_enum.UNAPPROVED || target.Banned {
			return Denied("you can only approve unapproved users")
		}
	case Reject:
		if actor.Role < user_role_enum.MODERATOR {
			return Denied("only moderators can reject users")
		}
		if target == nil || target.Role != user_role_enum.UNAPPROVED || target.Banned {
			return Denied("you can only reject unapproved users")
		}
	case Ban:
		if actor.Role < user_role_enum.MODERATOR {
			return Denied("only moderators can ban users")
		}
		if target == nil || target.Role > user_role_enum.APPROVED {
			return Denied("you can only ban unapproved or approved users")
		}
		if target.Banned {
			return Denied("user is already banned")
		}
	case AppointModerator:
		if actor.Role != user_role_enum.ADMINISTRATOR {
			return Denied("only administrators can appoint moderators")
		}
		if target == nil || target.Role != user_role_enum.APPROVED || target.Banned {
			return Denied("you can only appoint approved users as moderators")
		}
	case UnappointModerator:
		if actor.Role != user_role_enum.ADMINISTRATOR {
			return Denied("only administrators can unappoint moderators")
		}
		if target == nil || target.Role != user_role_enum.MODERATOR {
			return Denied("you can only unappoint moderators")
		}
	case ViewIdPicture:
		if actor.Role < user_role_enum.MODERATOR {
			return Denied("only moderators can view id pictures")
		}

	case Join:
		if actor.GroupRole != group_role_enum.NON_MEMBER {
			return Denied("you are already a member of this group")
		}
		if !codesEqual(res.JoinCode, res.SuppliedCode) {
			return Denied("invalid join code")
		}
	case Invite:
		if actor.GroupRole == group_role_enum.NON_MEMBER {
			return Denied("only group members can invite others")
		}
		if target != nil && target.GroupRole != group_role_enum.NON_MEMBER {
			return Denied("user is already a member of this group")
		}
	case Kick:
		if actor.GroupRole < group_role_enum.MODERATOR {
			return Denied("only group moderators can kick members")
		}
		if target == nil || target.GroupRole != group_role_enum.MEMBER {
			return Denied("you can only kick members")
		}
	case Leave:
		if actor.GroupRole == group_role_enum.NON_MEMBER {
			return Denied("you are not a member of this group")
		}
		if actor.GroupRole == group_role_enum.ADMINISTRATOR {
			return Denied("cannot leave group you administer")
		}
	case Promote:
		if actor.GroupRole < group_role_enum.MODERATOR {
			return Denied("only group moderators can promote members")
		}
		if target == nil || target.GroupRole != group_role_enum.MEMBER {
			return Denied("you can only promote members")
		}
	case Demote:
		if actor.GroupRole < group_role_enum.MODERATOR {
			return Denied("only group moderators can demote moderators")
		}
		if target == nil || target.GroupRole != group_role_enum.MODERATOR {
			return Denied("you can only demote moderators")
		}
	case DeleteGroup:
		if actor.GroupRole != group_role_enum.ADMINISTRATOR {
			return Denied("only the group administrator can delete the group")
		}
	case UpdateGroup:
		if actor.GroupRole < group_role_enum.MODERATOR {
			return Denied("only group moderators can update the group")
		}

	case Participate:
		if actor.Role < user_role_enum.APPROVED {
			return Denied("your account is awaiting approval")
		}
		if actor.GroupRole == group_role_enum.NON_MEMBER {
			return Denied("you are not a member of this group")
		}
	case DeleteContent:
		if res.OwnerUuid == actor.Uuid || actor.Role >= user_role_enum.MODERATOR {
			return Authorized()
		}
		if !res.Scope.IsGlobal() && actor.GroupRole >= group_role_enum.MODERATOR {
			return Authorized()
		}
		return Denied("you can only delete your own content")
	default:
		return Denied("unknown action")
	}
	return Authorized()
}

// codesEqual 常量时间比较加入码，空码永不匹配
func codesEqual(stored, supplied string) bool {
	if stored == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
