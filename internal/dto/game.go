package dto

import "mime/multipart"

// ── 游戏模块 DTO ──

// LinkInput links 字段（JSON 字符串）中的单个链接
type LinkInput struct {
	ID    *uint   `json:"id"`
	URL   string  `json:"url"`
	Label *string `json:"label"`
}

// GameForm multipart 表单解析结果
// 指针/切片为 nil 表示请求中未出现该字段
type GameForm struct {
	Name        *string `form:"name"         binding:"omitempty,max=255"`
	AboutGame   *string `form:"about_game"`
	TrailerLink *string `form:"trailer_link" binding:"omitempty,max=255,url"`

	// 以下字段由处理器按键名手工解析（genres[] / screenshots[] 等）
	Genres    *[]string    `form:"-"`
	Platforms *[]string    `form:"-"`
	Links     *[]LinkInput `form:"-"`

	MainImage       *multipart.FileHeader   `form:"-"`
	Screenshots     []*multipart.FileHeader `form:"-"`
	DeleteMainImage bool                    `form:"-"`
	KeepScreenshots *[]uint                 `form:"-"`
}

// GameImageResponse 图片（url 为公开访问地址）
type GameImageResponse struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

// GameLinkResponse 链接
type GameLinkResponse struct {
	ID    uint    `json:"id"`
	URL   string  `json:"url"`
	Label *string `json:"label"`
}

// GameResponse 游戏详情
type GameResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	AboutGame   *string             `json:"about_game"`
	TrailerLink *string             `json:"trailer_link"`
	Platforms   []string            `json:"platforms"`
	Genres      []string            `json:"genres"`
	Links       []GameLinkResponse  `json:"links"`
	MainImage   *GameImageResponse  `json:"main_image"`
	Screenshots []GameImageResponse `json:"screenshots"`
}

// NamedEntry 类型/平台字典项
type NamedEntry struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GameDataResponse 游戏表单字典
type GameDataResponse struct {
	Genres     []NamedEntry `json:"genres"`
	Platforms  []NamedEntry `json:"platforms"`
	LinkLabels []string     `json:"link_labels"`
}
