// Package group 处理群组的创建、成员管理和解散
package group

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gatormmunity/internal/dao/mysql/repository"
	myredis "gatormmunity/internal/dao/redis"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/rolegate"
	"gatormmunity/internal/service/search"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/enum/group_member/group_role_enum"
	"gatormmunity/pkg/enum/message/channel_type_enum"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/random"

	"go.uber.org/zap"
)

var errGroupNotFound = errorx.New(errorx.CodeNotFound, "group not found")

// DirectMessenger 发送私信，用于邀请
type DirectMessenger interface {
	SendDirectMessage(ctx context.Context, userId string, req request.SendDirectMessageRequest) (*respond.MessageRespond, error)
}

// groupInfoService 群组业务逻辑实现
// 群信息走 cache-aside，任何改动群信息或人数的操作都会同步删除缓存
type groupInfoService struct {
	repos     *repository.Repositories
	cache     myredis.AsyncCacheService
	files     filestore.FileStore
	messenger DirectMessenger
	caps      search.Caps
	thumb     filestore.Size
}

// NewGroupService 构造函数
func NewGroupService(repos *repository.Repositories, cache myredis.AsyncCacheService, files filestore.FileStore,
	messenger DirectMessenger, caps search.Caps, thumb filestore.Size) *groupInfoService {
	return &groupInfoService{
		repos:     repos,
		cache:     cache,
		files:     files,
		messenger: messenger,
		caps:      caps,
		thumb:     thumb,
	}
}

func groupCacheKey(groupId string) string {
	return constants.GROUP_INFO_PREFIX + groupId
}

// CreateGroup 创建群组，创建者成为唯一的群管理员
func (g *groupInfoService) CreateGroup(ctx context.Context, userId string, req request.CreateGroupRequest) (*respond.GroupInfoRespond, error) {
	global := model.GlobalScope()
	actor, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, global, userId)
	if err != nil {
		return nil, err
	}
	if err := rolegate.Authorize(rolegate.Participate, actor, nil, rolegate.Resource{Scope: global}).Err(); err != nil {
		return nil, err
	}

	var saved filestore.SavedImage
	if req.Picture != nil {
		saved, err = filestore.SaveImageWithThumbnail(ctx, g.files, req.Picture, constants.CATEGORY_GROUPS, g.thumb.Width, g.thumb.Height)
		if err != nil {
			return nil, err
		}
	}

	group := model.GroupInfo{
		Uuid:        fmt.Sprintf("G%s", random.GetNowAndLenRandomString(11)),
		Name:        req.Name,
		Description: req.Description,
		JoinCode:    random.GetJoinCode(constants.JOIN_CODE_LENGTH),
		CreatorUuid: userId,
		MemberCnt:   1,
		Picture:     saved.Picture,
		Thumbnail:   saved.Thumbnail,
	}
	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Group.Create(&group); err != nil {
			return err
		}
		return txRepos.GroupMember.Create(&model.GroupMember{
			GroupUuid: group.Uuid,
			UserUuid:  userId,
			Role:      group_role_enum.ADMINISTRATOR,
		})
	})
	if err != nil {
		filestore.Cleanup(ctx, g.files, saved.Paths()...)
		zap.L().Error("create group", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("group created", zap.String("group_id", group.Uuid), zap.String("creator", userId))

	rsp := g.toRespond(&group, group_role_enum.ADMINISTRATOR)
	return &rsp, nil
}

// GetGroupInfo 获取群信息，加入码只对成员可见
func (g *groupInfoService) GetGroupInfo(ctx context.Context, userId, groupId string) (*respond.GroupInfoRespond, error) {
	group, err := g.loadGroup(ctx, groupId)
	if err != nil {
		return nil, err
	}
	role, err := g.role(groupId, userId)
	if err != nil {
		return nil, err
	}
	rsp := g.toRespond(group, role)
	return &rsp, nil
}

// SearchGroups 按群名搜索，结果不含加入码
func (g *groupInfoService) SearchGroups(ctx context.Context, req request.SearchGroupsRequest) (*respond.SearchGroupsRespond, error) {
	result, err := search.Search(req.SearchTerms, g.caps, g.repos.Group.Search)
	if err != nil {
		return nil, err
	}
	groups := make([]respond.GroupInfoRespond, 0, len(result.Records))
	for i := range result.Records {
		groups = append(groups, g.toRespond(&result.Records[i], group_role_enum.NON_MEMBER))
	}
	return &respond.SearchGroupsRespond{
		Matched:    result.Matched,
		NumMatched: result.NumMatched(),
		Groups:     groups,
	}, nil
}

// LoadMyGroups 当前用户加入的全部群组
func (g *groupInfoService) LoadMyGroups(ctx context.Context, userId string) ([]respond.GroupInfoRespond, error) {
	groupIds, err := g.repos.GroupMember.FindGroupUuidsByUser(userId)
	if err != nil {
		zap.L().Error("find my group ids", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	// 使用 make 初始化，确保序列化后是 [] 而不是 null
	rsp := make([]respond.GroupInfoRespond, 0, len(groupIds))
	if len(groupIds) == 0 {
		return rsp, nil
	}
	groups, err := g.repos.Group.FindByUuids(groupIds)
	if err != nil {
		zap.L().Error("find my groups", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	for i := range groups {
		role, err := g.role(groups[i].Uuid, userId)
		if err != nil {
			return nil, err
		}
		rsp = append(rsp, g.toRespond(&groups[i], role))
	}
	return rsp, nil
}

// GetGroupMemberList 群成员列表，只有成员可以查看
func (g *groupInfoService) GetGroupMemberList(ctx context.Context, userId, groupId string) ([]respond.GroupMemberRespond, error) {
	if _, err := g.loadGroup(ctx, groupId); err != nil {
		return nil, err
	}
	scope := model.GroupScope(groupId)
	actor, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, scope, userId)
	if err != nil {
		return nil, err
	}
	if err := rolegate.Authorize(rolegate.Participate, actor, nil, rolegate.Resource{Scope: scope}).Err(); err != nil {
		return nil, err
	}
	members, err := g.repos.GroupMember.FindMembersWithUserInfo(groupId)
	if err != nil {
		zap.L().Error("find group members", zap.String("group_id", groupId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.GroupMemberRespond, 0, len(members))
	for _, m := range members {
		rsp = append(rsp, respond.GroupMemberRespond{
			UserId:    m.UserId,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Thumbnail: g.files.URL(m.Thumbnail),
			Role:      m.Role,
			RoleName:  group_role_enum.Name(m.Role),
		})
	}
	return rsp, nil
}

// JoinGroup 凭加入码入群
func (g *groupInfoService) JoinGroup(ctx context.Context, userId string, req request.JoinGroupRequest) (*respond.GroupInfoRespond, error) {
	group, err := g.loadGroup(ctx, req.GroupId)
	if err != nil {
		return nil, err
	}
	actor, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, model.GroupScope(group.Uuid), userId)
	if err != nil {
		return nil, err
	}
	res := rolegate.Resource{Scope: model.GroupScope(group.Uuid), JoinCode: group.JoinCode, SuppliedCode: req.JoinCode}
	if err := rolegate.Authorize(rolegate.Join, actor, nil, res).Err(); err != nil {
		return nil, err
	}

	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.GroupMember.Create(&model.GroupMember{
			GroupUuid: group.Uuid,
			UserUuid:  userId,
			Role:      group_role_enum.MEMBER,
		}); err != nil {
			return err
		}
		return txRepos.Group.IncrementMemberCount(group.Uuid, 1)
	})
	if err != nil {
		// 并发重复加入时唯一索引冲突
		if errorx.Is(err, errorx.CodeConflict) {
			return nil, repository.ErrMembershipChanged
		}
		zap.L().Error("join group", zap.String("group_id", group.Uuid), zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	g.invalidate(ctx, group.Uuid)
	zap.L().Info("group joined", zap.String("group_id", group.Uuid), zap.String("user_id", userId))

	group.MemberCnt++
	rsp := g.toRespond(group, group_role_enum.MEMBER)
	return &rsp, nil
}

// InviteMember 以私信的方式把加入码发给对方，不直接改变成员关系
func (g *groupInfoService) InviteMember(ctx context.Context, userId string, req request.GroupMemberRequest) error {
	group, actor, target, err := g.pair(ctx, userId, req)
	if err != nil {
		return err
	}
	res := rolegate.Resource{Scope: model.GroupScope(group.Uuid)}
	if err := rolegate.Authorize(rolegate.Invite, actor, &target, res).Err(); err != nil {
		return err
	}
	content := fmt.Sprintf("You are invited to join the group \"%s\". Group id: %s, join code: %s",
		group.Name, group.Uuid, group.JoinCode)
	_, err = g.messenger.SendDirectMessage(ctx, userId, request.SendDirectMessageRequest{ReceiveId: req.UserId, Content: content})
	return err
}

// KickMember 群版主及以上移除普通成员
func (g *groupInfoService) KickMember(ctx context.Context, userId string, req request.GroupMemberRequest) error {
	group, actor, target, err := g.pair(ctx, userId, req)
	if err != nil {
		return err
	}
	if err := rolegate.Authorize(rolegate.Kick, actor, &target, rolegate.Resource{Scope: model.GroupScope(group.Uuid)}).Err(); err != nil {
		return err
	}
	if err := g.removeMember(group.Uuid, req.UserId, group_role_enum.MEMBER); err != nil {
		return err
	}
	g.invalidate(ctx, group.Uuid)
	zap.L().Info("group member kicked", zap.String("group_id", group.Uuid), zap.String("actor", userId), zap.String("target", req.UserId))
	return nil
}

// LeaveGroup 退群，群管理员不能退出自己管理的群
func (g *groupInfoService) LeaveGroup(ctx context.Context, userId, groupId string) error {
	group, err := g.loadGroup(ctx, groupId)
	if err != nil {
		return err
	}
	scope := model.GroupScope(group.Uuid)
	actor, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, scope, userId)
	if err != nil {
		return err
	}
	if err := rolegate.Authorize(rolegate.Leave, actor, nil, rolegate.Resource{Scope: scope}).Err(); err != nil {
		return err
	}
	if err := g.removeMember(group.Uuid, userId, actor.GroupRole); err != nil {
		return err
	}
	g.invalidate(ctx, group.Uuid)
	zap.L().Info("group left", zap.String("group_id", group.Uuid), zap.String("user_id", userId))
	return nil
}

// PromoteMember 成员 -> 群版主
func (g *groupInfoService) PromoteMember(ctx context.Context, userId string, req request.GroupMemberRequest) error {
	return g.changeRole(ctx, rolegate.Promote, userId, req, group_role_enum.MEMBER, group_role_enum.MODERATOR)
}

// DemoteMember 群版主 -> 成员
func (g *groupInfoService) DemoteMember(ctx context.Context, userId string, req request.GroupMemberRequest) error {
	return g.changeRole(ctx, rolegate.Demote, userId, req, group_role_enum.MODERATOR, group_role_enum.MEMBER)
}

// DeleteGroup 解散群组，级联删除成员、群聊消息、群论坛主题和回复，图片异步清理
func (g *groupInfoService) DeleteGroup(ctx context.Context, userId, groupId string) error {
	group, err := g.loadGroup(ctx, groupId)
	if err != nil {
		return err
	}
	scope := model.GroupScope(group.Uuid)
	actor, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, scope, userId)
	if err != nil {
		return err
	}
	if err := rolegate.Authorize(rolegate.DeleteGroup, actor, nil, rolegate.Resource{Scope: scope}).Err(); err != nil {
		return err
	}

	threads, err := g.repos.Thread.FindByGroupUuid(group.Uuid)
	if err != nil {
		zap.L().Error("find group threads", zap.String("group_id", group.Uuid), zap.Error(err))
		return errorx.ErrServerBusy
	}
	threadIds := make([]string, 0, len(threads))
	files := []string{group.Picture, group.Thumbnail}
	for _, t := range threads {
		threadIds = append(threadIds, t.Uuid)
		files = append(files, t.Picture, t.Thumbnail)
	}

	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		if len(threadIds) > 0 {
			if err := txRepos.Post.DeleteByThreadUuids(threadIds); err != nil {
				return err
			}
		}
		if err := txRepos.Thread.DeleteByGroupUuid(group.Uuid); err != nil {
			return err
		}
		if err := txRepos.Message.DeleteChannel(channel_type_enum.GROUP, group.Uuid); err != nil {
			return err
		}
		if err := txRepos.GroupMember.DeleteByGroupUuid(group.Uuid); err != nil {
			return err
		}
		return txRepos.Group.DeleteByUuid(group.Uuid)
	})
	if err != nil {
		zap.L().Error("delete group", zap.String("group_id", group.Uuid), zap.Error(err))
		return errorx.ErrServerBusy
	}
	g.invalidate(ctx, group.Uuid)
	zap.L().Info("group deleted", zap.String("group_id", group.Uuid), zap.String("actor", userId), zap.Int("threads", len(threadIds)))

	g.cache.SubmitTask(func() {
		filestore.Cleanup(context.Background(), g.files, files...)
	})
	return nil
}

// UpdateAnnouncement 群版主及以上更新群公告
func (g *groupInfoService) UpdateAnnouncement(ctx context.Context, userId string, req request.UpdateAnnouncementRequest) error {
	group, err := g.loadGroup(ctx, req.GroupId)
	if err != nil {
		return err
	}
	scope := model.GroupScope(group.Uuid)
	actor, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, scope, userId)
	if err != nil {
		return err
	}
	if err := rolegate.Authorize(rolegate.UpdateGroup, actor, nil, rolegate.Resource{Scope: scope}).Err(); err != nil {
		return err
	}
	if err := g.repos.Group.UpdateAnnouncement(group.Uuid, req.Announcement); err != nil {
		zap.L().Error("update announcement", zap.String("group_id", group.Uuid), zap.Error(err))
		return errorx.ErrServerBusy
	}
	g.invalidate(ctx, group.Uuid)
	return nil
}

// ==================== 内部方法 ====================

// loadGroup cache-aside 读取群信息
func (g *groupInfoService) loadGroup(ctx context.Context, groupId string) (*model.GroupInfo, error) {
	key := groupCacheKey(groupId)
	cached, err := g.cache.Get(ctx, key)
	if err != nil {
		// 缓存不可用时直接查库
		zap.L().Warn("get group cache", zap.String("group_id", groupId), zap.Error(err))
	} else if cached != "" {
		var group model.GroupInfo
		if err := json.Unmarshal([]byte(cached), &group); err == nil {
			return &group, nil
		}
		zap.L().Error("unmarshal group cache", zap.String("group_id", groupId), zap.Error(err))
	}

	group, err := g.repos.Group.FindByUuid(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errGroupNotFound
		}
		zap.L().Error("find group", zap.String("group_id", groupId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if data, err := json.Marshal(group); err == nil {
		if err := g.cache.Set(ctx, key, string(data), time.Duration(constants.REDIS_TIMEOUT)*time.Minute); err != nil {
			zap.L().Warn("set group cache", zap.String("group_id", groupId), zap.Error(err))
		}
	}
	return group, nil
}

func (g *groupInfoService) invalidate(ctx context.Context, groupId string) {
	if err := g.cache.Delete(ctx, groupCacheKey(groupId)); err != nil {
		zap.L().Error("delete group cache", zap.String("group_id", groupId), zap.Error(err))
	}
}

func (g *groupInfoService) role(groupId, userId string) (int8, error) {
	role, err := g.repos.GroupMember.GetRole(groupId, userId)
	if err != nil {
		zap.L().Error("get group role", zap.String("group_id", groupId), zap.String("user_id", userId), zap.Error(err))
		return 0, errorx.ErrServerBusy
	}
	return role, nil
}

// pair 读取群组、操作者和目标用户
func (g *groupInfoService) pair(ctx context.Context, userId string, req request.GroupMemberRequest) (*model.GroupInfo, rolegate.Subject, rolegate.Subject, error) {
	group, err := g.loadGroup(ctx, req.GroupId)
	if err != nil {
		return nil, rolegate.Subject{}, rolegate.Subject{}, err
	}
	scope := model.GroupScope(group.Uuid)
	actor, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, scope, userId)
	if err != nil {
		return nil, rolegate.Subject{}, rolegate.Subject{}, err
	}
	target, _, err := rolegate.LoadSubject(g.repos.User, g.repos.GroupMember, scope, req.UserId)
	if err != nil {
		return nil, rolegate.Subject{}, rolegate.Subject{}, err
	}
	return group, actor, target, nil
}

func (g *groupInfoService) removeMember(groupId, userId string, expected int8) error {
	err := g.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.GroupMember.Delete(groupId, userId, expected); err != nil {
			return err
		}
		return txRepos.Group.IncrementMemberCount(groupId, -1)
	})
	if err != nil {
		if errorx.Is(err, errorx.CodeConflict) {
			return err
		}
		zap.L().Error("remove group member", zap.String("group_id", groupId), zap.String("user_id", userId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

func (g *groupInfoService) changeRole(ctx context.Context, action rolegate.Action, userId string, req request.GroupMemberRequest, from, to int8) error {
	group, actor, target, err := g.pair(ctx, userId, req)
	if err != nil {
		return err
	}
	if err := rolegate.Authorize(action, actor, &target, rolegate.Resource{Scope: model.GroupScope(group.Uuid)}).Err(); err != nil {
		return err
	}
	if err := g.repos.GroupMember.UpdateRole(group.Uuid, req.UserId, from, to); err != nil {
		if errorx.Is(err, errorx.CodeConflict) {
			return err
		}
		zap.L().Error("change group role", zap.Stringer("action", action), zap.String("group_id", group.Uuid), zap.Error(err))
		return errorx.ErrServerBusy
	}
	zap.L().Info("group role changed", zap.Stringer("action", action), zap.String("group_id", group.Uuid),
		zap.String("actor", userId), zap.String("target", req.UserId))
	return nil
}

func (g *groupInfoService) toRespond(group *model.GroupInfo, myRole int8) respond.GroupInfoRespond {
	rsp := respond.GroupInfoRespond{
		Uuid:         group.Uuid,
		Name:         group.Name,
		Description:  group.Description,
		Announcement: group.Announcement,
		CreatorId:    group.CreatorUuid,
		MemberCnt:    group.MemberCnt,
		Picture:      g.files.URL(group.Picture),
		Thumbnail:    g.files.URL(group.Thumbnail),
		MyRole:       myRole,
		CreatedAt:    group.CreatedAt,
	}
	if myRole != group_role_enum.NON_MEMBER {
		rsp.JoinCode = group.JoinCode
	}
	return rsp
}
