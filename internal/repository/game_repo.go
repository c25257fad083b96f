package repository

import (
	"context"

	"gorm.io/gorm"

	"recruit-hub/backend/internal/model"
)

// GameRepository 游戏、图片与链接数据访问接口
// 类型/平台/链接的关联集合由 PivotRepository 维护
type GameRepository interface {
	Create(ctx context.Context, game *model.Game) error
	GetByID(ctx context.Context, id uint) (*model.Game, error)
	List(ctx context.Context) ([]model.Game, error)
	Update(ctx context.Context, game *model.Game) error
	Delete(ctx context.Context, id uint) error

	// ── 图片 ──
	CreateImage(ctx context.Context, img *model.GameImage) error
	ListImages(ctx context.Context, gameIDs []uint) ([]model.GameImage, error)
	DeleteImage(ctx context.Context, id uint) error
	DeleteImagesByGame(ctx context.Context, gameID uint) error

	// ── 链接 ──
	GetLinkByID(ctx context.Context, id uint) (*model.Link, error)
	GetLinkByURL(ctx context.Context, url string) (*model.Link, error)
	CreateLink(ctx context.Context, link *model.Link) error
	UpdateLink(ctx context.Context, link *model.Link) error
	ListLinks(ctx context.Context, gameIDs []uint) (map[uint][]model.Link, error)
	// DistinctLinkLabels 返回非空的链接标签（去重）
	DistinctLinkLabels(ctx context.Context) ([]string, error)
}

type gameRepo struct {
	db *gorm.DB
}

// NewGameRepo 创建 GameRepository 实例
func NewGameRepo(db *gorm.DB) GameRepository {
	return &gameRepo{db: db}
}

func (r *gameRepo) Create(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *gameRepo) GetByID(ctx context.Context, id uint) (*model.Game, error) {
	var game model.Game
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepo) List(ctx context.Context) ([]model.Game, error) {
	var games []model.Game
	err := r.db.WithContext(ctx).Order("id ASC").Find(&games).Error
	return games, err
}

func (r *gameRepo) Update(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).
		Model(game).
		Select("name", "about_game", "trailer_link", "updated_at").
		Updates(game).Error
}

func (r *gameRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Game{}, id).Error
}

func (r *gameRepo) CreateImage(ctx context.Context, img *model.GameImage) error {
	return r.db.WithContext(ctx).Omit("Game").Create(img).Error
}

// ListImages 主图在前，截图按 sort_order 升序
func (r *gameRepo) ListImages(ctx context.Context, gameIDs []uint) ([]model.GameImage, error) {
	var images []model.GameImage
	if len(gameIDs) == 0 {
		return images, nil
	}
	err := r.db.WithContext(ctx).
		Where("game_id IN ?", gameIDs).
		Order("is_main DESC, sort_order ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *gameRepo) DeleteImage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.GameImage{}, id).Error
}

func (r *gameRepo) DeleteImagesByGame(ctx context.Context, gameID uint) error {
	return r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Delete(&model.GameImage{}).Error
}

func (r *gameRepo) GetLinkByID(ctx context.Context, id uint) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *gameRepo) GetLinkByURL(ctx context.Context, url string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *gameRepo) CreateLink(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *gameRepo) UpdateLink(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).
		Model(link).
		Select("url", "label", "updated_at").
		Updates(link).Error
}

func (r *gameRepo) ListLinks(ctx context.Context, gameIDs []uint) (map[uint][]model.Link, error) {
	result := make(map[uint][]model.Link, len(gameIDs))
	if len(gameIDs) == 0 {
		return result, nil
	}

	type row struct {
		GameID uint
		model.Link
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("game_link AS gl").
		Select("gl.game_id, links.*").
		Joins("JOIN links ON links.id = gl.link_id").
		Where("gl.game_id IN ?", gameIDs).
		Order("links.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		result[rw.GameID] = append(result[rw.GameID], rw.Link)
	}
	return result, nil
}

func (r *gameRepo) DistinctLinkLabels(ctx context.Context) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Distinct("label").
		Where("label IS NOT NULL AND label <> ''").
		Order("label ASC").
		Pluck("label", &labels).Error
	return labels, err
}
