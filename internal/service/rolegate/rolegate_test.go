package rolegate

import (
	"errors"
	"testing"

	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/group_member/group_role_enum"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func platform(role int8) Subject {
	return Subject{Uuid: "U" + user_role_enum.Name(role), Role: role}
}

func member(role int8) Subject {
	return Subject{Uuid: "U" + group_role_enum.Name(role), Role: user_role_enum.APPROVED, GroupRole: role}
}

func ptr(s Subject) *Subject { return &s }

func TestPlatformTransitions(t *testing.T) {
	banned := platform(user_role_enum.APPROVED)
	banned.Banned = true

	tests := []struct {
		name   string
		action Action
		actor  Subject
		target Subject
		reason string // 空串表示允许
	}{
		{"moderator approves unapproved", Approve, platform(user_role_enum.MODERATOR), platform(user_role_enum.UNAPPROVED), ""},
		{"approved cannot approve", Approve, platform(user_role_enum.APPROVED), platform(user_role_enum.UNAPPROVED), "only moderators can approve users"},
		{"approve already approved", Approve, platform(user_role_enum.ADMINISTRATOR), platform(user_role_enum.APPROVED), "you can only approve unapproved users"},
		{"moderator rejects unapproved", Reject, platform(user_role_enum.MODERATOR), platform(user_role_enum.UNAPPROVED), ""},
		{"reject moderator", Reject, platform(user_role_enum.MODERATOR), platform(user_role_enum.MODERATOR), "you can only reject unapproved users"},
		{"approved cannot reject", Reject, platform(user_role_enum.APPROVED), platform(user_role_enum.UNAPPROVED), "only moderators can reject users"},
		{"moderator bans approved", Ban, platform(user_role_enum.MODERATOR), platform(user_role_enum.APPROVED), ""},
		{"moderator bans unapproved", Ban, platform(user_role_enum.MODERATOR), platform(user_role_enum.UNAPPROVED), ""},
		{"ban moderator", Ban, platform(user_role_enum.ADMINISTRATOR), platform(user_role_enum.MODERATOR), "you can only ban unapproved or approved users"},
		{"ban administrator", Ban, platform(user_role_enum.MODERATOR), platform(user_role_enum.ADMINISTRATOR), "you can only ban unapproved or approved users"},
		{"approved cannot ban", Ban, platform(user_role_enum.APPROVED), platform(user_role_enum.APPROVED), "only moderators can ban users"},
		{"ban twice", Ban, platform(user_role_enum.MODERATOR), banned, "user is already banned"},
		{"admin appoints approved", AppointModerator, platform(user_role_enum.ADMINISTRATOR), platform(user_role_enum.APPROVED), ""},
		{"moderator cannot appoint", AppointModerator, platform(user_role_enum.MODERATOR), platform(user_role_enum.APPROVED), "only administrators can appoint moderators"},
		{"appoint unapproved", AppointModerator, platform(user_role_enum.ADMINISTRATOR), platform(user_role_enum.UNAPPROVED), "you can only appoint approved users as moderators"},
		{"appoint banned", AppointModerator, platform(user_role_enum.ADMINISTRATOR), banned, "you can only appoint approved users as moderators"},
		{"admin unappoints moderator", UnappointModerator, platform(user_role_enum.ADMINISTRATOR), platform(user_role_enum.MODERATOR), ""},
		{"unappoint approved", UnappointModerator, platform(user_role_enum.ADMINISTRATOR), platform(user_role_enum.APPROVED), "you can only unappoint moderators"},
		{"moderator cannot unappoint", UnappointModerator, platform(user_role_enum.MODERATOR), platform(user_role_enum.MODERATOR), "only administrators can unappoint moderators"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.action, tt.actor, ptr(tt.target), Resource{})
			if tt.reason == "" {
				assert.True(t, d.Allowed())
				assert.NoError(t, d.Err())
				return
			}
			assert.False(t, d.Allowed())
			assert.Equal(t, tt.reason, d.Reason())
			assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(d.Err()))
		})
	}
}

func TestGroupTransitions(t *testing.T) {
	nonMember := member(group_role_enum.NON_MEMBER)
	groupRes := Resource{Scope: model.GroupScope("G1"), JoinCode: "ABCD2345"}
	withCode := func(code string) Resource {
		r := groupRes
		r.SuppliedCode = code
		return r
	}

	tests := []struct {
		name   string
		action Action
		actor  Subject
		target *Subject
		res    Resource
		reason string
	}{
		{"join with code", Join, nonMember, nil, withCode("ABCD2345"), ""},
		{"join wrong code", Join, nonMember, nil, withCode("ABCD2346"), "invalid join code"},
		{"join empty code", Join, nonMember, nil, withCode(""), "invalid join code"},
		{"join twice", Join, member(group_role_enum.MEMBER), nil, withCode("ABCD2345"), "you are already a member of this group"},
		{"member invites", Invite, member(group_role_enum.MEMBER), ptr(nonMember), groupRes, ""},
		{"outsider invites", Invite, nonMember, ptr(nonMember), groupRes, "only group members can invite others"},
		{"invite member", Invite, member(group_role_enum.MEMBER), ptr(member(group_role_enum.MEMBER)), groupRes, "user is already a member of this group"},
		{"moderator kicks member", Kick, member(group_role_enum.MODERATOR), ptr(member(group_role_enum.MEMBER)), groupRes, ""},
		{"member cannot kick", Kick, member(group_role_enum.MEMBER), ptr(member(group_role_enum.MEMBER)), groupRes, "only group moderators can kick members"},
		{"kick moderator", Kick, member(group_role_enum.ADMINISTRATOR), ptr(member(group_role_enum.MODERATOR)), groupRes, "you can only kick members"},
		{"kick non member", Kick, member(group_role_enum.ADMINISTRATOR), ptr(nonMember), groupRes, "you can only kick members"},
		{"member leaves", Leave, member(group_role_enum.MEMBER), nil, groupRes, ""},
		{"moderator leaves", Leave, member(group_role_enum.MODERATOR), nil, groupRes, ""},
		{"admin leaves", Leave, member(group_role_enum.ADMINISTRATOR), nil, groupRes, "cannot leave group you administer"},
		{"outsider leaves", Leave, nonMember, nil, groupRes, "you are not a member of this group"},
		{"moderator promotes", Promote, member(group_role_enum.MODERATOR), ptr(member(group_role_enum.MEMBER)), groupRes, ""},
		{"member cannot promote", Promote, member(group_role_enum.MEMBER), ptr(member(group_role_enum.MEMBER)), groupRes, "only group moderators can promote members"},
		{"promote moderator", Promote, member(group_role_enum.ADMINISTRATOR), ptr(member(group_role_enum.MODERATOR)), groupRes, "you can only promote members"},
		{"admin demotes", Demote, member(group_role_enum.ADMINISTRATOR), ptr(member(group_role_enum.MODERATOR)), groupRes, ""},
		{"demote member", Demote, member(group_role_enum.ADMINISTRATOR), ptr(member(group_role_enum.MEMBER)), groupRes, "you can only demote moderators"},
		{"demote admin", Demote, member(group_role_enum.MODERATOR), ptr(member(group_role_enum.ADMINISTRATOR)), groupRes, "you can only demote moderators"},
		{"member cannot demote", Demote, member(group_role_enum.MEMBER), ptr(member(group_role_enum.MODERATOR)), groupRes, "only group moderators can demote moderators"},
		{"admin deletes group", DeleteGroup, member(group_role_enum.ADMINISTRATOR), nil, groupRes, ""},
		{"moderator cannot delete group", DeleteGroup, member(group_role_enum.MODERATOR), nil, groupRes, "only the group administrator can delete the group"},
		{"moderator updates group", UpdateGroup, member(group_role_enum.MODERATOR), nil, groupRes, ""},
		{"member cannot update group", UpdateGroup, member(group_role_enum.MEMBER), nil, groupRes, "only group moderators can update the group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.action, tt.actor, tt.target, tt.res)
			if tt.reason == "" {
				assert.True(t, d.Allowed(), d.Reason())
				return
			}
			assert.False(t, d.Allowed())
			assert.Equal(t, tt.reason, d.Reason())
		})
	}
}

func TestContentRules(t *testing.T) {
	author := Subject{Uuid: "U1", Role: user_role_enum.APPROVED, GroupRole: group_role_enum.MEMBER}
	other := Subject{Uuid: "U2", Role: user_role_enum.APPROVED, GroupRole: group_role_enum.MEMBER}
	groupMod := Subject{Uuid: "U3", Role: user_role_enum.APPROVED, GroupRole: group_role_enum.MODERATOR}
	siteMod := Subject{Uuid: "U4", Role: user_role_enum.MODERATOR, GroupRole: group_role_enum.MEMBER}
	unapproved := Subject{Uuid: "U5", Role: user_role_enum.UNAPPROVED, GroupRole: group_role_enum.MEMBER}

	global := Resource{Scope: model.GlobalScope(), OwnerUuid: "U1"}
	group := Resource{Scope: model.GroupScope("G1"), OwnerUuid: "U1"}

	assert.True(t, Authorize(DeleteContent, author, nil, global).Allowed())
	assert.True(t, Authorize(DeleteContent, siteMod, nil, global).Allowed())
	assert.Equal(t, "you can only delete your own content", Authorize(DeleteContent, other, nil, global).Reason())
	// 群版主只能管理本群内容
	assert.False(t, Authorize(DeleteContent, groupMod, nil, global).Allowed())
	assert.True(t, Authorize(DeleteContent, groupMod, nil, group).Allowed())

	assert.True(t, Authorize(Participate, author, nil, global).Allowed())
	assert.Equal(t, "your account is awaiting approval", Authorize(Participate, unapproved, nil, global).Reason())
	outsider := other
	outsider.GroupRole = group_role_enum.NON_MEMBER
	assert.Equal(t, "you are not a member of this group", Authorize(Participate, outsider, nil, group).Reason())
}

func TestBannedActorDeniedEverything(t *testing.T) {
	admin := platform(user_role_enum.ADMINISTRATOR)
	admin.Banned = true
	d := Authorize(AppointModerator, admin, ptr(platform(user_role_enum.APPROVED)), Resource{})
	assert.False(t, d.Allowed())
	assert.Equal(t, "your account has been banned", d.Reason())
}

type fakeReader map[string]int8

func (f fakeReader) GetRole(groupUuid, userUuid string) (int8, error) {
	if role, ok := f[groupUuid+"/"+userUuid]; ok {
		return role, nil
	}
	if groupUuid == "broken" {
		return group_role_enum.NON_MEMBER, errors.New("db down")
	}
	return group_role_enum.NON_MEMBER, nil
}

type panicReader struct{}

func (panicReader) GetRole(string, string) (int8, error) { panic("storage consulted") }

func TestGroupRoleGlobalIsAlwaysMember(t *testing.T) {
	// 全局作用域不应访问存储
	var reader GroupRoleReader = panicReader{}
	for _, user := range []string{"", "U1", "U-unknown"} {
		role, err := GroupRole(reader, model.GlobalScope(), user)
		require.NoError(t, err)
		assert.Equal(t, group_role_enum.MEMBER, role)
	}

	role, err := GroupRole(fakeReader{"G1/U1": group_role_enum.MODERATOR}, model.GroupScope("G1"), "U1")
	require.NoError(t, err)
	assert.Equal(t, group_role_enum.MODERATOR, role)

	role, err = GroupRole(fakeReader{}, model.GroupScope("G1"), "U2")
	require.NoError(t, err)
	assert.Equal(t, group_role_enum.NON_MEMBER, role)

	_, err = GroupRole(fakeReader{}, model.GroupScope("broken"), "U2")
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "approve", Approve.String())
	assert.Equal(t, "delete_content", DeleteContent.String())
	assert.Equal(t, "unknown", Action(99).String())
}
