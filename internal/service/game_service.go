package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
	"recruit-hub/backend/pkg/storage"
)

// ── 游戏模块业务错误 ──

var (
	ErrGameNotFound = errors.New("游戏不存在")
)

// GameService 游戏业务接口
type GameService interface {
	List(ctx context.Context) ([]dto.GameResponse, error)
	Get(ctx context.Context, id uint) (*dto.GameResponse, error)
	// Data 表单字典：全部类型、平台与已使用过的链接标签
	Data(ctx context.Context) (*dto.GameDataResponse, error)
	Create(ctx context.Context, form *dto.GameForm) (*dto.GameResponse, error)
	Update(ctx context.Context, id uint, form *dto.GameForm) (*dto.GameResponse, error)
	Delete(ctx context.Context, id uint) error
}

type gameService struct {
	repo      *repository.Repository
	files     *attachments
	publicURL string
	logger    *zap.Logger
}

// NewGameService 创建 GameService 实例
// publicURL 为图片公开访问前缀，如 http://localhost:8080/storage
func NewGameService(repo *repository.Repository, files *attachments, publicURL string, logger *zap.Logger) GameService {
	return &gameService{
		repo:      repo,
		files:     files,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// storedImages 本次请求已落盘的图片，数据库写入失败时整体回收
type storedImages struct {
	main        string
	screenshots []string
}

func (st *storedImages) paths() []string {
	return append([]string{st.main}, st.screenshots...)
}

// ────────────────────── 查询 ──────────────────────

func (s *gameService) List(ctx context.Context) ([]dto.GameResponse, error) {
	games, err := s.repo.Game.List(ctx)
	if err != nil {
		s.logger.Error("列出游戏失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, s.repo, games)
}

func (s *gameService) Get(ctx context.Context, id uint) (*dto.GameResponse, error) {
	game, err := s.getGame(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	list, err := s.toResponses(ctx, s.repo, []model.Game{*game})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *gameService) Data(ctx context.Context) (*dto.GameDataResponse, error) {
	genres, err := s.repo.Pivot.ListPool(ctx, repository.GenrePool)
	if err != nil {
		s.logger.Error("查询类型字典失败", zap.Error(err))
		return nil, err
	}
	platforms, err := s.repo.Pivot.ListPool(ctx, repository.PlatformPool)
	if err != nil {
		s.logger.Error("查询平台字典失败", zap.Error(err))
		return nil, err
	}
	labels, err := s.repo.Game.DistinctLinkLabels(ctx)
	if err != nil {
		s.logger.Error("查询链接标签失败", zap.Error(err))
		return nil, err
	}
	if labels == nil {
		labels = []string{}
	}
	return &dto.GameDataResponse{
		Genres:     toNamedEntries(genres),
		Platforms:  toNamedEntries(platforms),
		LinkLabels: labels,
	}, nil
}

// ────────────────────── Create ──────────────────────

func (s *gameService) Create(ctx context.Context, form *dto.GameForm) (*dto.GameResponse, error) {
	verr := &ValidationError{}
	if form.Name == nil || strings.TrimSpace(*form.Name) == "" {
		verr.Add("name", "The name field is required.")
	}
	if len(cleanNames(form.Genres)) == 0 {
		verr.Add("genres", "The genres field is required.")
	}
	if len(cleanNames(form.Platforms)) == 0 {
		verr.Add("platforms", "The platforms field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	stored, err := s.storeUploads(ctx, form)
	if err != nil {
		return nil, err
	}

	game := &model.Game{
		Name:        *form.Name,
		AboutGame:   nullable(form.AboutGame),
		TrailerLink: nullable(form.TrailerLink),
	}

	var resp *dto.GameResponse
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Game.Create(ctx, game); err != nil {
			return err
		}
		if err := s.syncNames(ctx, txRepo, repository.GenrePool, game.ID, form.Genres); err != nil {
			return err
		}
		if err := s.syncNames(ctx, txRepo, repository.PlatformPool, game.ID, form.Platforms); err != nil {
			return err
		}
		if err := s.syncLinks(ctx, txRepo, game.ID, form.Links); err != nil {
			return err
		}
		if err := s.recordImages(ctx, txRepo, game.ID, stored, 0); err != nil {
			return err
		}
		list, err := s.toResponses(ctx, txRepo, []model.Game{*game})
		if err != nil {
			return err
		}
		resp = &list[0]
		return nil
	})
	if err != nil {
		s.files.remove(ctx, stored.paths()...)
		if _, ok := AsValidationError(err); ok {
			return nil, err
		}
		s.logger.Error("创建游戏失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建游戏", zap.Uint("game_id", game.ID), zap.String("name", game.Name))
	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *gameService) Update(ctx context.Context, id uint, form *dto.GameForm) (*dto.GameResponse, error) {
	game, err := s.getGame(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if form.Name != nil {
		if strings.TrimSpace(*form.Name) == "" {
			return nil, fieldError("name", "The name field is required.")
		}
		game.Name = *form.Name
	}
	if form.AboutGame != nil {
		game.AboutGame = nullable(form.AboutGame)
	}
	if form.TrailerLink != nil {
		game.TrailerLink = nullable(form.TrailerLink)
	}

	stored, err := s.storeUploads(ctx, form)
	if err != nil {
		return nil, err
	}

	var (
		resp     *dto.GameResponse
		obsolete []string
	)
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Game.Update(ctx, game); err != nil {
			return err
		}
		if form.Genres != nil {
			if err := s.syncNames(ctx, txRepo, repository.GenrePool, game.ID, form.Genres); err != nil {
				return err
			}
		}
		if form.Platforms != nil {
			if err := s.syncNames(ctx, txRepo, repository.PlatformPool, game.ID, form.Platforms); err != nil {
				return err
			}
		}
		if form.Links != nil {
			if err := s.syncLinks(ctx, txRepo, game.ID, form.Links); err != nil {
				return err
			}
		}

		images, err := txRepo.Game.ListImages(ctx, []uint{game.ID})
		if err != nil {
			return err
		}
		replaceMain := form.DeleteMainImage || stored.main != ""
		var keep map[uint]bool
		if form.KeepScreenshots != nil {
			keep = make(map[uint]bool, len(*form.KeepScreenshots))
			for _, imgID := range *form.KeepScreenshots {
				keep[imgID] = true
			}
		}

		maxOrder := 0
		for _, img := range images {
			drop := false
			if img.IsMain {
				drop = replaceMain
			} else if keep != nil {
				drop = !keep[img.ID]
			}
			if drop {
				if err := txRepo.Game.DeleteImage(ctx, img.ID); err != nil {
					return err
				}
				obsolete = append(obsolete, img.Path)
				continue
			}
			if !img.IsMain && img.SortOrder > maxOrder {
				maxOrder = img.SortOrder
			}
		}

		if err := s.recordImages(ctx, txRepo, game.ID, stored, maxOrder); err != nil {
			return err
		}

		updated, err := s.getGame(ctx, txRepo, game.ID)
		if err != nil {
			return err
		}
		list, err := s.toResponses(ctx, txRepo, []model.Game{*updated})
		if err != nil {
			return err
		}
		resp = &list[0]
		return nil
	})
	if err != nil {
		s.files.remove(ctx, stored.paths()...)
		if _, ok := AsValidationError(err); ok {
			return nil, err
		}
		s.logger.Error("更新游戏失败", zap.Uint("game_id", id), zap.Error(err))
		return nil, err
	}

	s.files.remove(ctx, obsolete...)
	return resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *gameService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getGame(ctx, s.repo, id); err != nil {
		return err
	}

	var paths []string
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		images, err := txRepo.Game.ListImages(ctx, []uint{id})
		if err != nil {
			return err
		}
		for _, img := range images {
			paths = append(paths, img.Path)
		}
		for _, pool := range []repository.Pool{repository.GenrePool, repository.PlatformPool, repository.LinkPool} {
			if err := txRepo.Pivot.DetachOwner(ctx, pool, id); err != nil {
				return err
			}
		}
		if err := txRepo.Game.DeleteImagesByGame(ctx, id); err != nil {
			return err
		}
		return txRepo.Game.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除游戏失败", zap.Uint("game_id", id), zap.Error(err))
		return err
	}

	s.files.remove(ctx, paths...)
	s.logger.Info("删除游戏", zap.Uint("game_id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *gameService) getGame(ctx context.Context, repo *repository.Repository, id uint) (*model.Game, error) {
	game, err := repo.Game.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		s.logger.Error("查询游戏失败", zap.Uint("game_id", id), zap.Error(err))
		return nil, err
	}
	return game, nil
}

// storeUploads 校验并落盘主图与截图；任一文件被拒时回收已写入的文件
func (s *gameService) storeUploads(ctx context.Context, form *dto.GameForm) (*storedImages, error) {
	stored := &storedImages{}
	if form.MainImage != nil {
		rel, err := s.files.store(ctx, storage.BucketGameMain, storage.ImageRule, "main_image", storage.FromFileHeader(form.MainImage))
		if err != nil {
			return nil, err
		}
		stored.main = rel
	}
	for i, fh := range form.Screenshots {
		field := fmt.Sprintf("screenshots.%d", i)
		rel, err := s.files.store(ctx, storage.BucketScreenshots, storage.ImageRule, field, storage.FromFileHeader(fh))
		if err != nil {
			s.files.remove(ctx, stored.paths()...)
			return nil, err
		}
		stored.screenshots = append(stored.screenshots, rel)
	}
	return stored, nil
}

// recordImages 写入本次上传的图片行；截图从 after+1 起编号
func (s *gameService) recordImages(ctx context.Context, repo *repository.Repository, gameID uint, stored *storedImages, after int) error {
	if stored.main != "" {
		if err := repo.Game.CreateImage(ctx, &model.GameImage{
			GameID: gameID, Path: stored.main, IsMain: true, SortOrder: 0,
		}); err != nil {
			return err
		}
	}
	for i, rel := range stored.screenshots {
		if err := repo.Game.CreateImage(ctx, &model.GameImage{
			GameID: gameID, Path: rel, SortOrder: after + i + 1,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *gameService) syncNames(ctx context.Context, repo *repository.Repository, pool repository.Pool, gameID uint, names *[]string) error {
	cleaned := cleanNames(names)
	edges := make([]repository.Edge, 0, len(cleaned))
	for _, name := range cleaned {
		itemID, err := repo.Pivot.Upsert(ctx, pool, name)
		if err != nil {
			return err
		}
		edges = append(edges, repository.Edge{ItemID: itemID})
	}
	return repo.Pivot.Sync(ctx, pool, gameID, edges)
}

// syncLinks 按 id、再按 url 查找已有链接，找不到则新建；url/label 变化时原地更新
// url 不是合法 http(s) 绝对地址的条目直接跳过
func (s *gameService) syncLinks(ctx context.Context, repo *repository.Repository, gameID uint, links *[]dto.LinkInput) error {
	if links == nil {
		return nil
	}
	edges := make([]repository.Edge, 0, len(*links))
	for _, in := range *links {
		rawURL := strings.TrimSpace(in.URL)
		if !isAbsoluteHTTPURL(rawURL) {
			continue
		}
		label := nullable(in.Label)

		link, err := s.findLink(ctx, repo, in.ID, rawURL)
		if err != nil {
			return err
		}
		switch {
		case link == nil:
			link = &model.Link{URL: rawURL, Label: label}
			if err := repo.Game.CreateLink(ctx, link); err != nil {
				return err
			}
		case link.URL != rawURL || !sameLabel(link.Label, label):
			link.URL = rawURL
			link.Label = label
			if err := repo.Game.UpdateLink(ctx, link); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fieldError("links", "The link url has already been taken.")
				}
				return err
			}
		}
		edges = append(edges, repository.Edge{ItemID: link.ID})
	}
	return repo.Pivot.Sync(ctx, repository.LinkPool, gameID, edges)
}

func (s *gameService) findLink(ctx context.Context, repo *repository.Repository, id *uint, rawURL string) (*model.Link, error) {
	if id != nil {
		link, err := repo.Game.GetLinkByID(ctx, *id)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	link, err := repo.Game.GetLinkByURL(ctx, rawURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return link, nil
}

func (s *gameService) toResponses(ctx context.Context, repo *repository.Repository, games []model.Game) ([]dto.GameResponse, error) {
	ids := make([]uint, 0, len(games))
	for i := range games {
		ids = append(ids, games[i].ID)
	}

	genres, err := repo.Pivot.ListItems(ctx, repository.GenrePool, ids)
	if err != nil {
		return nil, err
	}
	platforms, err := repo.Pivot.ListItems(ctx, repository.PlatformPool, ids)
	if err != nil {
		return nil, err
	}
	links, err := repo.Game.ListLinks(ctx, ids)
	if err != nil {
		return nil, err
	}
	images, err := repo.Game.ListImages(ctx, ids)
	if err != nil {
		return nil, err
	}
	imagesByGame := make(map[uint][]model.GameImage, len(games))
	for _, img := range images {
		imagesByGame[img.GameID] = append(imagesByGame[img.GameID], img)
	}

	result := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		g := &games[i]
		resp := dto.GameResponse{
			ID:          g.ID,
			Name:        g.Name,
			AboutGame:   g.AboutGame,
			TrailerLink: g.TrailerLink,
			Platforms:   itemKeys(platforms[g.ID]),
			Genres:      itemKeys(genres[g.ID]),
			Links:       make([]dto.GameLinkResponse, 0, len(links[g.ID])),
			Screenshots: []dto.GameImageResponse{},
		}
		for _, l := range links[g.ID] {
			resp.Links = append(resp.Links, dto.GameLinkResponse{ID: l.ID, URL: l.URL, Label: l.Label})
		}
		for _, img := range imagesByGame[g.ID] {
			out := dto.GameImageResponse{ID: img.ID, URL: s.imageURL(img.Path)}
			if img.IsMain {
				if resp.MainImage == nil {
					resp.MainImage = &out
				}
				continue
			}
			resp.Screenshots = append(resp.Screenshots, out)
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *gameService) imageURL(rel string) string {
	return s.publicURL + "/" + rel
}

// cleanNames 去除首尾空白并丢弃空值，保持原顺序
func cleanNames(names *[]string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(*names))
	for _, n := range *names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// nullable 空字符串按 NULL 存储
func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func sameLabel(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func itemKeys(items []repository.PoolItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key)
	}
	return out
}

func toNamedEntries(entries []repository.PoolEntry) []dto.NamedEntry {
	out := make([]dto.NamedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NamedEntry{ID: e.ID, Name: e.Key})
	}
	return out
}

// [自证通过] internal/service/game_service.go
