package model

// Game 游戏表，对应 games
type Game struct {
	ID          uint    `gorm:"primaryKey"                 json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	AboutGame   *string `gorm:"type:text"                  json:"about_game"`
	TrailerLink *string `gorm:"type:varchar(2048)"         json:"trailer_link"`
	BaseModel
}

// TableName 指定表名
func (Game) TableName() string { return "games" }

// GameImage 游戏图片，对应 game_images
// 每个游戏至多一张 IsMain=true（由业务逻辑保证，非数据库约束）
type GameImage struct {
	ID        uint   `gorm:"primaryKey"                 json:"id"`
	GameID    uint   `gorm:"not null;index"             json:"game_id"`
	Path      string `gorm:"type:varchar(255);not null" json:"path"`
	IsMain    bool   `gorm:"not null;default:false"     json:"is_main"`
	SortOrder int    `gorm:"not null;default:0"         json:"sort_order"`
	BaseModel

	Game *Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (GameImage) TableName() string { return "game_images" }

// Genre 类型，对应 genres（按 name 去重）
type Genre struct {
	ID   uint   `gorm:"primaryKey"                             json:"id"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Genre) TableName() string { return "genres" }

// Platform 平台，对应 platforms（按 name 去重）
type Platform struct {
	ID   uint   `gorm:"primaryKey"                             json:"id"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Platform) TableName() string { return "platforms" }

// Link 外部链接，对应 links（url 唯一，多个游戏共享）
type Link struct {
	ID    uint    `gorm:"primaryKey"                              json:"id"`
	URL   string  `gorm:"type:varchar(2048);not null;uniqueIndex" json:"url"`
	Label *string `gorm:"type:varchar(255)"                       json:"label"`
	BaseModel
}

// TableName 指定表名
func (Link) TableName() string { return "links" }

// GameGenre 对应 game_genre
type GameGenre struct {
	GameID  uint `gorm:"primaryKey;autoIncrement:false"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName 指定表名
func (GameGenre) TableName() string { return "game_genre" }

// GamePlatform 对应 game_platform
type GamePlatform struct {
	GameID     uint `gorm:"primaryKey;autoIncrement:false"`
	PlatformID uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName 指定表名
func (GamePlatform) TableName() string { return "game_platform" }

// GameLink 对应 game_link
type GameLink struct {
	GameID uint `gorm:"primaryKey;autoIncrement:false"`
	LinkID uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName 指定表名
func (GameLink) TableName() string { return "game_link" }
