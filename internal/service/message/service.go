// Package message 处理私信、群聊和全局聊天
// 消息先落库，再交给消息代理推送给在线的接收者
package message

import (
	"context"
	"encoding/json"
	"strconv"

	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/chat"
	"gatormmunity/internal/service/rolegate"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/enum/message/channel_type_enum"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/snowflake"

	"go.uber.org/zap"
)

// Publisher 推送出口，由 MessageBroker 实现
type Publisher interface {
	Publish(ctx context.Context, d chat.Delivery) error
}

type messageService struct {
	repos     *repository.Repositories
	files     filestore.FileStore
	publisher Publisher
}

// NewMessageService 构造函数
func NewMessageService(repos *repository.Repositories, files filestore.FileStore, publisher Publisher) *messageService {
	return &messageService{repos: repos, files: files, publisher: publisher}
}

// SendDirectMessage 发送私信，需要已审核账号
func (m *messageService) SendDirectMessage(ctx context.Context, userId string, req request.SendDirectMessageRequest) (*respond.MessageRespond, error) {
	if req.ReceiveId == userId {
		return nil, errorx.New(errorx.CodeInvalidParam, "you cannot message yourself")
	}
	global := model.GlobalScope()
	actor, sender, err := rolegate.LoadSubject(m.repos.User, m.repos.GroupMember, global, userId)
	if err != nil {
		return nil, err
	}
	if err := rolegate.Authorize(rolegate.Participate, actor, nil, rolegate.Resource{Scope: global}).Err(); err != nil {
		return nil, err
	}
	if _, err := m.repos.User.FindByUuid(req.ReceiveId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, rolegate.ErrUserNotExist
		}
		zap.L().Error("find receiver", zap.String("receive_id", req.ReceiveId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	msg, err := m.save(channel_type_enum.DIRECT, userId, req.ReceiveId, req.Content)
	if err != nil {
		return nil, err
	}
	rsp := toRespond(msg, sender.FullName())
	m.push(ctx, "direct", []string{userId, req.ReceiveId}, rsp)
	return &rsp, nil
}

// GetConversation 与某个用户的私信记录，按 ID 升序
func (m *messageService) GetConversation(ctx context.Context, userId string, req request.GetConversationRequest) ([]respond.MessageRespond, error) {
	messages, err := m.repos.Message.FindDirect(userId, req.UserId, req.AfterId, constants.MESSAGE_PAGE_SIZE)
	if err != nil {
		zap.L().Error("find direct messages", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return m.withSenderNames(messages)
}

// GetConversationList 私信会话列表，每个对象只保留最后一条消息，最近的在前
func (m *messageService) GetConversationList(ctx context.Context, userId string) ([]respond.ConversationRespond, error) {
	latest, err := m.repos.Message.FindLatestDirect(userId)
	if err != nil {
		zap.L().Error("find latest direct messages", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	ids := []string{userId}
	for _, msg := range latest {
		ids = append(ids, peerOf(msg, userId))
	}
	names, users, err := m.names(ids)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.ConversationRespond, 0, len(latest))
	for i := range latest {
		peer := peerOf(latest[i], userId)
		item := respond.ConversationRespond{
			PeerId:      peer,
			PeerName:    names[peer],
			LastMessage: toRespond(&latest[i], names[latest[i].SendId]),
		}
		if u, ok := users[peer]; ok {
			item.PeerThumbnail = m.files.URL(u.Thumbnail)
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}

// SendGroupMessage 发送群聊消息，group_id 为空时发到全局聊天
func (m *messageService) SendGroupMessage(ctx context.Context, userId string, req request.SendGroupMessageRequest) (*respond.MessageRespond, error) {
	scope := model.ScopeOf(req.GroupId)
	sender, err := m.participant(scope, userId)
	if err != nil {
		return nil, err
	}

	channelType, kind := channel_type_enum.GLOBAL, "global"
	groupUuid, isGroup := scope.GroupUuid()
	if isGroup {
		channelType, kind = channel_type_enum.GROUP, "group"
	}
	msg, err := m.save(channelType, userId, groupUuid, req.Content)
	if err != nil {
		return nil, err
	}
	rsp := toRespond(msg, sender.FullName())

	// 全局聊天广播给所有在线用户
	var recipients []string
	if isGroup {
		recipients, err = m.repos.GroupMember.FindUserUuidsByGroup(groupUuid)
		if err != nil {
			zap.L().Error("find group members for push", zap.String("group_id", groupUuid), zap.Error(err))
			return &rsp, nil
		}
	}
	m.push(ctx, kind, recipients, rsp)
	return &rsp, nil
}

// GetGroupMessageList 群聊或全局聊天记录，按 ID 升序
func (m *messageService) GetGroupMessageList(ctx context.Context, userId string, req request.GetGroupMessageListRequest) ([]respond.MessageRespond, error) {
	scope := model.ScopeOf(req.GroupId)
	if _, err := m.participant(scope, userId); err != nil {
		return nil, err
	}
	channelType := channel_type_enum.GLOBAL
	groupUuid, isGroup := scope.GroupUuid()
	if isGroup {
		channelType = channel_type_enum.GROUP
	}
	messages, err := m.repos.Message.FindChannel(channelType, groupUuid, req.AfterId, constants.MESSAGE_PAGE_SIZE)
	if err != nil {
		zap.L().Error("find channel messages", zap.Stringer("scope", scope), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return m.withSenderNames(messages)
}

func (m *messageService) participant(scope model.Scope, userId string) (*model.UserInfo, error) {
	if groupUuid, ok := scope.GroupUuid(); ok {
		if _, err := m.repos.Group.FindByUuid(groupUuid); err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.New(errorx.CodeNotFound, "group not found")
			}
			zap.L().Error("find group", zap.String("group_id", groupUuid), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
	}
	actor, user, err := rolegate.LoadSubject(m.repos.User, m.repos.GroupMember, scope, userId)
	if err != nil {
		return nil, err
	}
	if err := rolegate.Authorize(rolegate.Participate, actor, nil, rolegate.Resource{Scope: scope}).Err(); err != nil {
		return nil, err
	}
	return user, nil
}

func (m *messageService) save(channelType int8, sendId, receiveId, content string) (*model.Message, error) {
	msg := model.Message{
		Uuid:        snowflake.GenerateID(),
		ChannelType: channelType,
		SendId:      sendId,
		ReceiveId:   receiveId,
		Content:     content,
	}
	if err := m.repos.Message.Create(&msg); err != nil {
		zap.L().Error("save message", zap.String("send_id", sendId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &msg, nil
}

// push 推送失败不影响发送结果，接收者可以通过拉取历史记录补齐
func (m *messageService) push(ctx context.Context, kind string, recipients []string, msg respond.MessageRespond) {
	payload, err := json.Marshal(respond.PushRespond{Type: kind, Message: msg})
	if err != nil {
		zap.L().Error("marshal push payload", zap.Error(err))
		return
	}
	if err := m.publisher.Publish(ctx, chat.Delivery{Recipients: recipients, Payload: payload}); err != nil {
		zap.L().Warn("publish message", zap.String("kind", kind), zap.Error(err))
	}
}

func (m *messageService) names(ids []string) (map[string]string, map[string]*model.UserInfo, error) {
	users, err := m.repos.User.FindByUuids(ids)
	if err != nil {
		zap.L().Error("find message users", zap.Error(err))
		return nil, nil, errorx.ErrServerBusy
	}
	names := make(map[string]string, len(users))
	byId := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		names[users[i].Uuid] = users[i].FullName()
		byId[users[i].Uuid] = &users[i]
	}
	return names, byId, nil
}

func (m *messageService) withSenderNames(messages []model.Message) ([]respond.MessageRespond, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, msg := range messages {
		if !seen[msg.SendId] {
			seen[msg.SendId] = true
			ids = append(ids, msg.SendId)
		}
	}
	names, _, err := m.names(ids)
	if err != nil {
		return nil, err
	}
	rsp := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		rsp = append(rsp, toRespond(&messages[i], names[messages[i].SendId]))
	}
	return rsp, nil
}

func peerOf(msg model.Message, userId string) string {
	if msg.SendId == userId {
		return msg.ReceiveId
	}
	return msg.SendId
}

func toRespond(msg *model.Message, sendName string) respond.MessageRespond {
	return respond.MessageRespond{
		Id:          msg.ID,
		Uuid:        strconv.FormatInt(msg.Uuid, 10),
		ChannelType: msg.ChannelType,
		SendId:      msg.SendId,
		SendName:    sendName,
		ReceiveId:   msg.ReceiveId,
		Content:     msg.Content,
		CreatedAt:   msg.CreatedAt,
	}
}
