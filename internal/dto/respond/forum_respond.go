package respond

import "time"

// ThreadRespond 主题摘要，group_id 为空表示全局论坛
type ThreadRespond struct {
	Uuid      string    `json:"uuid"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	GroupId   string    `json:"group_id"`
	CreatorId string    `json:"creator_id"`
	Picture   string    `json:"picture"`
	Thumbnail string    `json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
}

// PostRespond 回复
type PostRespond struct {
	Uuid            string    `json:"uuid"`
	AuthorId        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	AuthorThumbnail string    `json:"author_thumbnail"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"created_at"`
}

// ThreadDetailRespond 主题详情，posts 按发布顺序排列
type ThreadDetailRespond struct {
	ThreadRespond
	Posts []PostRespond `json:"posts"`
}

// SearchThreadsRespond 主题搜索结果
type SearchThreadsRespond struct {
	Matched    bool            `json:"matched"`
	NumMatched int             `json:"num_matched"`
	Threads    []ThreadRespond `json:"threads"`
}
