package repotest

import (
	"testing"

	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/message/channel_type_enum"
	"gatormmunity/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingSearchOrderAndFilters(t *testing.T) {
	repos, _ := NewRepositories()
	for _, l := range []model.Listing{
		{Uuid: "L1", Title: "Old Laptop", Category: "Electronics", Price: 400},
		{Uuid: "L2", Title: "Desk Lamp", Category: "Furniture", Price: 20},
		{Uuid: "L3", Title: "Headphones", Category: "Electronics", Price: 600},
		{Uuid: "L4", Title: "New Laptop", Category: "Electronics", Price: 450},
	} {
		l := l
		require.NoError(t, repos.Listing.Create(&l))
	}

	maxPrice := 500.0
	got, err := repos.Listing.Search(repository.ListingFilter{Category: "Electronics", MaxPrice: &maxPrice}, "", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "L4", got[0].Uuid)
	assert.Equal(t, "L1", got[1].Uuid)

	got, err = repos.Listing.Search(repository.ListingFilter{}, "LAPTOP", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "L4", got[0].Uuid)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repos, store := NewRepositories()
	require.NoError(t, repos.User.Create(&model.UserInfo{Uuid: "U1", Email: "a@ufl.edu", RawPassword: "pw"}))
	err := repos.User.Create(&model.UserInfo{Uuid: "U2", Email: "a@ufl.edu", RawPassword: "pw"})
	assert.Equal(t, errorx.CodeUserExist, errorx.GetCode(err))
	assert.Equal(t, 1, store.UserCount())
}

func TestUpdateRoleCompareAndSwap(t *testing.T) {
	repos, _ := NewRepositories()
	require.NoError(t, repos.User.Create(&model.UserInfo{Uuid: "U1", Email: "a@ufl.edu"}))
	require.NoError(t, repos.User.UpdateRole("U1", 0, 1))
	assert.ErrorIs(t, repos.User.UpdateRole("U1", 0, 1), repository.ErrStateChanged)
}

func TestLatestDirectPerPeer(t *testing.T) {
	repos, _ := NewRepositories()
	send := func(from, to, content string) {
		require.NoError(t, repos.Message.Create(&model.Message{ChannelType: channel_type_enum.DIRECT, SendId: from, ReceiveId: to, Content: content}))
	}
	send("A", "B", "hi")
	send("B", "A", "hey")
	send("C", "A", "yo")
	send("B", "C", "unrelated")

	got, err := repos.Message.FindLatestDirect("A")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "yo", got[0].Content)
	assert.Equal(t, "hey", got[1].Content)
}

func TestDeleteMembershipsByUser(t *testing.T) {
	repos, store := NewRepositories()
	for _, m := range []model.GroupMember{
		{GroupUuid: "G1", UserUuid: "U1"},
		{GroupUuid: "G1", UserUuid: "U2"},
		{GroupUuid: "G2", UserUuid: "U1"},
	} {
		m := m
		require.NoError(t, repos.GroupMember.Create(&m))
	}

	groups, err := repos.GroupMember.DeleteByUserUuid("U1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"G1", "G2"}, groups)
	assert.Equal(t, 1, store.MemberCount("G1"))
	assert.Zero(t, store.MemberCount("G2"))

	groups, err = repos.GroupMember.DeleteByUserUuid("U1")
	require.NoError(t, err)
	assert.Empty(t, groups)
}
