package respond

import "time"

// GroupInfoRespond 群组信息
// join_code 只返回给群成员，my_role 为 -1 表示非成员
type GroupInfoRespond struct {
	Uuid         string    `json:"uuid"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Announcement string    `json:"announcement"`
	JoinCode     string    `json:"join_code,omitempty"`
	CreatorId    string    `json:"creator_id"`
	MemberCnt    int       `json:"member_cnt"`
	Picture      string    `json:"picture"`
	Thumbnail    string    `json:"thumbnail"`
	MyRole       int8      `json:"my_role"`
	CreatedAt    time.Time `json:"created_at"`
}

// SearchGroupsRespond 群组搜索结果，不含加入码
type SearchGroupsRespond struct {
	Matched    bool               `json:"matched"`
	NumMatched int                `json:"num_matched"`
	Groups     []GroupInfoRespond `json:"groups"`
}

// GroupMemberRespond 群成员
type GroupMemberRespond struct {
	UserId    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Thumbnail string `json:"thumbnail"`
	Role      int8   `json:"role"`
	RoleName  string `json:"role_name"`
}
