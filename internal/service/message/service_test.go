package message

import (
	"context"
	"encoding/json"
	"testing"

	"gatormmunity/internal/dao/mysql/repository/repotest"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/servicetest"
	"gatormmunity/pkg/enum/group_member/group_role_enum"
	"gatormmunity/pkg/enum/message/channel_type_enum"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*messageService, *repotest.Store, *servicetest.Publisher) {
	repos, store := repotest.NewRepositories()
	pub := &servicetest.Publisher{}
	servicetest.AddUser(t, repos, "ALICE", "Alice", "A", user_role_enum.APPROVED)
	servicetest.AddUser(t, repos, "BOB", "Bob", "B", user_role_enum.APPROVED)
	servicetest.AddUser(t, repos, "CAROL", "Carol", "C", user_role_enum.APPROVED)
	servicetest.AddUser(t, repos, "NEW", "New", "Comer", user_role_enum.UNAPPROVED)

	require.NoError(t, repos.Group.Create(&model.GroupInfo{Uuid: "G1", Name: "Chess", JoinCode: "CODE", CreatorUuid: "ALICE"}))
	require.NoError(t, repos.GroupMember.Create(&model.GroupMember{GroupUuid: "G1", UserUuid: "ALICE", Role: group_role_enum.ADMINISTRATOR}))
	require.NoError(t, repos.GroupMember.Create(&model.GroupMember{GroupUuid: "G1", UserUuid: "BOB", Role: group_role_enum.MEMBER}))
	return NewMessageService(repos, servicetest.NewFiles(t), pub), store, pub
}

func decodePush(t *testing.T, raw json.RawMessage) respond.PushRespond {
	var p respond.PushRespond
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestDirectMessages(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	first, err := svc.SendDirectMessage(ctx, "ALICE", request.SendDirectMessageRequest{ReceiveId: "BOB", Content: "hi bob"})
	require.NoError(t, err)
	assert.Equal(t, channel_type_enum.DIRECT, first.ChannelType)
	assert.Equal(t, "Alice A", first.SendName)
	assert.NotEqual(t, "0", first.Uuid)

	last := pub.Last()
	assert.ElementsMatch(t, []string{"ALICE", "BOB"}, last.Recipients)
	push := decodePush(t, last.Payload)
	assert.Equal(t, "direct", push.Type)
	assert.Equal(t, "hi bob", push.Message.Content)

	_, err = svc.SendDirectMessage(ctx, "BOB", request.SendDirectMessageRequest{ReceiveId: "ALICE", Content: "hey"})
	require.NoError(t, err)
	_, err = svc.SendDirectMessage(ctx, "CAROL", request.SendDirectMessageRequest{ReceiveId: "ALICE", Content: "yo"})
	require.NoError(t, err)

	conv, err := svc.GetConversation(ctx, "ALICE", request.GetConversationRequest{UserId: "BOB"})
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "hi bob", conv[0].Content)
	assert.Equal(t, "hey", conv[1].Content)
	assert.Equal(t, "Bob B", conv[1].SendName)

	after, err := svc.GetConversation(ctx, "ALICE", request.GetConversationRequest{UserId: "BOB", AfterId: conv[0].Id})
	require.NoError(t, err)
	require.Len(t, after, 1)

	list, err := svc.GetConversationList(ctx, "ALICE")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CAROL", list[0].PeerId)
	assert.Equal(t, "Carol C", list[0].PeerName)
	assert.Equal(t, "BOB", list[1].PeerId)
	assert.Equal(t, "hey", list[1].LastMessage.Content)
}

func TestDirectMessageRules(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SendDirectMessage(ctx, "ALICE", request.SendDirectMessageRequest{ReceiveId: "ALICE", Content: "me"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.SendDirectMessage(ctx, "NEW", request.SendDirectMessageRequest{ReceiveId: "ALICE", Content: "hi"})
	assert.EqualError(t, err, "your account is awaiting approval")

	_, err = svc.SendDirectMessage(ctx, "ALICE", request.SendDirectMessageRequest{ReceiveId: "GHOST", Content: "hi"})
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
	assert.Zero(t, store.MessageCount())
}

func TestGroupMessages(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	msg, err := svc.SendGroupMessage(ctx, "BOB", request.SendGroupMessageRequest{GroupId: "G1", Content: "gg"})
	require.NoError(t, err)
	assert.Equal(t, channel_type_enum.GROUP, msg.ChannelType)
	assert.Equal(t, "G1", msg.ReceiveId)
	assert.ElementsMatch(t, []string{"ALICE", "BOB"}, pub.Last().Recipients)
	assert.Equal(t, "group", decodePush(t, pub.Last().Payload).Type)

	_, err = svc.SendGroupMessage(ctx, "CAROL", request.SendGroupMessageRequest{GroupId: "G1", Content: "let me in"})
	assert.EqualError(t, err, "you are not a member of this group")

	_, err = svc.GetGroupMessageList(ctx, "CAROL", request.GetGroupMessageListRequest{GroupId: "G1"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	list, err := svc.GetGroupMessageList(ctx, "ALICE", request.GetGroupMessageListRequest{GroupId: "G1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bob B", list[0].SendName)
}

func TestGlobalChatBroadcasts(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	// 非成员也能在全局聊天发言
	msg, err := svc.SendGroupMessage(ctx, "CAROL", request.SendGroupMessageRequest{Content: "hello campus"})
	require.NoError(t, err)
	assert.Equal(t, channel_type_enum.GLOBAL, msg.ChannelType)
	assert.Empty(t, msg.ReceiveId)
	assert.Empty(t, pub.Last().Recipients)
	assert.Equal(t, "global", decodePush(t, pub.Last().Payload).Type)

	_, err = svc.SendGroupMessage(ctx, "ALICE", request.SendGroupMessageRequest{GroupId: "G1", Content: "group only"})
	require.NoError(t, err)

	list, err := svc.GetGroupMessageList(ctx, "BOB", request.GetGroupMessageListRequest{GroupId: "global"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hello campus", list[0].Content)
}
