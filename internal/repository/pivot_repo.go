package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pool 一个按自然键去重的条目池及其与所有者之间的关联表
type Pool struct {
	Table       string // 条目池表，如 responsibility_items
	KeyColumn   string // 自然键列，如 text / name / url
	PivotTable  string // 关联表，如 vacancy_responsibility
	OwnerColumn string // 关联表中的所有者列
	ItemColumn  string // 关联表中的条目列
	Ordered     bool   // 关联边是否携带 sort_order
}

// 已知条目池（表名/列名均为常量，可安全拼接进 SQL）
var (
	ResponsibilityPool = Pool{
		Table: "responsibility_items", KeyColumn: "text",
		PivotTable: "vacancy_responsibility", OwnerColumn: "vacancy_id", ItemColumn: "responsibility_item_id",
		Ordered: true,
	}
	RequirementPool = Pool{
		Table: "requirement_items", KeyColumn: "text",
		PivotTable: "vacancy_requirement", OwnerColumn: "vacancy_id", ItemColumn: "requirement_item_id",
		Ordered: true,
	}
	ConditionPool = Pool{
		Table: "condition_items", KeyColumn: "text",
		PivotTable: "vacancy_condition", OwnerColumn: "vacancy_id", ItemColumn: "condition_item_id",
		Ordered: true,
	}
	GenrePool = Pool{
		Table: "genres", KeyColumn: "name",
		PivotTable: "game_genre", OwnerColumn: "game_id", ItemColumn: "genre_id",
	}
	PlatformPool = Pool{
		Table: "platforms", KeyColumn: "name",
		PivotTable: "game_platform", OwnerColumn: "game_id", ItemColumn: "platform_id",
	}
	LinkPool = Pool{
		Table: "links", KeyColumn: "url",
		PivotTable: "game_link", OwnerColumn: "game_id", ItemColumn: "link_id",
	}
)

// Edge 一条待写入的关联边
type Edge struct {
	ItemID    uint
	SortOrder int
}

// PoolItem 关联查询结果
type PoolItem struct {
	OwnerID   uint   `gorm:"column:owner_id"`
	ID        uint   `gorm:"column:id"`
	Key       string `gorm:"column:item_key"`
	SortOrder int    `gorm:"column:sort_order"`
}

// PoolEntry 条目池中的一行
type PoolEntry struct {
	ID  uint   `gorm:"column:id"   json:"id"`
	Key string `gorm:"column:item_key" json:"name"`
}

// PivotRepository 条目池 upsert 与关联集合同步
type PivotRepository interface {
	// Upsert 按自然键插入条目（冲突时保留已有行），返回条目 id
	Upsert(ctx context.Context, pool Pool, key string) (uint, error)
	// Sync 将所有者的关联集合替换为 edges；edges 为空时清空
	// 同一条目重复出现时以最后一次的 sort_order 为准
	Sync(ctx context.Context, pool Pool, ownerID uint, edges []Edge) error
	// ListItems 按所有者分组返回关联条目，有序池按 sort_order 升序
	ListItems(ctx context.Context, pool Pool, ownerIDs []uint) (map[uint][]PoolItem, error)
	// ListPool 返回条目池全部条目
	ListPool(ctx context.Context, pool Pool) ([]PoolEntry, error)
	// DetachOwner 删除所有者的全部关联边
	DetachOwner(ctx context.Context, pool Pool, ownerID uint) error
}

type pivotRepo struct {
	db *gorm.DB
}

// NewPivotRepo 创建 PivotRepository 实例
func NewPivotRepo(db *gorm.DB) PivotRepository {
	return &pivotRepo{db: db}
}

func (r *pivotRepo) Upsert(ctx context.Context, pool Pool, key string) (uint, error) {
	db := r.db.WithContext(ctx)
	now := time.Now()

	row := map[string]interface{}{
		pool.KeyColumn: key,
		"created_at":   now,
		"updated_at":   now,
	}
	err := db.Table(pool.Table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: pool.KeyColumn}},
			DoNothing: true,
		}).
		Create(row).Error
	if err != nil {
		return 0, fmt.Errorf("upsert %s: %w", pool.Table, err)
	}

	// 冲突时驱动返回的自增 id 不可靠，统一按自然键回查
	var ids []uint
	if err := db.Table(pool.Table).
		Where(pool.KeyColumn+" = ?", key).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ids[0], nil
}

func (r *pivotRepo) Sync(ctx context.Context, pool Pool, ownerID uint, edges []Edge) error {
	db := r.db.WithContext(ctx)

	if len(edges) == 0 {
		return r.DetachOwner(ctx, pool, ownerID)
	}

	// 去重，保留最后一次出现的排序值，同时保持首次出现的顺序
	order := make([]uint, 0, len(edges))
	sortOf := make(map[uint]int, len(edges))
	for _, e := range edges {
		if _, seen := sortOf[e.ItemID]; !seen {
			order = append(order, e.ItemID)
		}
		sortOf[e.ItemID] = e.SortOrder
	}

	if err := db.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s NOT IN ?", pool.PivotTable, pool.OwnerColumn, pool.ItemColumn),
		ownerID, order,
	).Error; err != nil {
		return fmt.Errorf("detach %s: %w", pool.PivotTable, err)
	}

	rows := make([]map[string]interface{}, 0, len(order))
	for _, id := range order {
		row := map[string]interface{}{
			pool.OwnerColumn: ownerID,
			pool.ItemColumn:  id,
		}
		if pool.Ordered {
			row["sort_order"] = sortOf[id]
		}
		rows = append(rows, row)
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: pool.OwnerColumn}, {Name: pool.ItemColumn}},
		DoNothing: true,
	}
	if pool.Ordered {
		onConflict.DoNothing = false
		onConflict.DoUpdates = clause.AssignmentColumns([]string{"sort_order"})
	}

	if err := db.Table(pool.PivotTable).Clauses(onConflict).Create(rows).Error; err != nil {
		return fmt.Errorf("attach %s: %w", pool.PivotTable, err)
	}
	return nil
}

func (r *pivotRepo) ListItems(ctx context.Context, pool Pool, ownerIDs []uint) (map[uint][]PoolItem, error) {
	result := make(map[uint][]PoolItem, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	sortExpr, orderBy := "0", "i.id ASC"
	if pool.Ordered {
		sortExpr, orderBy = "p.sort_order", "p.sort_order ASC, i.id ASC"
	}

	var rows []PoolItem
	err := r.db.WithContext(ctx).
		Table(pool.PivotTable+" AS p").
		Select(fmt.Sprintf("p.%s AS owner_id, i.id AS id, i.%s AS item_key, %s AS sort_order",
			pool.OwnerColumn, pool.KeyColumn, sortExpr)).
		Joins(fmt.Sprintf("JOIN %s AS i ON i.id = p.%s", pool.Table, pool.ItemColumn)).
		Where(fmt.Sprintf("p.%s IN ?", pool.OwnerColumn), ownerIDs).
		Order(orderBy).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.OwnerID] = append(result[row.OwnerID], row)
	}
	return result, nil
}

func (r *pivotRepo) ListPool(ctx context.Context, pool Pool) ([]PoolEntry, error) {
	var entries []PoolEntry
	err := r.db.WithContext(ctx).
		Table(pool.Table).
		Select(fmt.Sprintf("id, %s AS item_key", pool.KeyColumn)).
		Order("id ASC").
		Scan(&entries).Error
	return entries, err
}

func (r *pivotRepo) DetachOwner(ctx context.Context, pool Pool, ownerID uint) error {
	return r.db.WithContext(ctx).Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", pool.PivotTable, pool.OwnerColumn),
		ownerID,
	).Error
}
