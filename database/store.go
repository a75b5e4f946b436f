// Package database implements the gateway's store contract on Postgres via
// gorm, plus the personalized feed read path backed by Redis scores.
package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"waggle/feed"
	"waggle/types"
)

type DB struct {
	pool   *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func New(pool *gorm.DB, rdb *redis.Client, logger *zap.Logger) *DB {
	return &DB{pool: pool, redis: rdb, logger: logger}
}

func (d *DB) CreatePost(ctx context.Context, post *types.Post) error {
	if err := post.Metadata.Validate(); err != nil {
		return err
	}
	return d.pool.WithContext(ctx).Create(post).Error
}

// CreatePostWithMedia persists both rows in one transaction; Postgres gives
// us that, so no compensating delete is needed on this path.
func (d *DB) CreatePostWithMedia(ctx context.Context, post *types.Post, media *types.PostMedia) error {
	if err := post.Metadata.Validate(); err != nil {
		return err
	}
	return d.pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		media.PostID = post.ID
		return tx.Create(media).Error
	})
}

func (d *DB) GetPost(ctx context.Context, id uuid.UUID) (*types.Post, error) {
	var post types.Post
	err := d.pool.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (d *DB) AdjustPostCounts(ctx context.Context, postID uuid.UUID, reactionsDelta, commentsDelta int) error {
	updates := map[string]any{}
	if reactionsDelta != 0 {
		updates["reactions_count"] = gorm.Expr("reactions_count + ?", reactionsDelta)
	}
	if commentsDelta != 0 {
		updates["comments_count"] = gorm.Expr("comments_count + ?", commentsDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return d.pool.WithContext(ctx).Model(&types.Post{}).Where("id = ?", postID).UpdateColumns(updates).Error
}

func (d *DB) CreateComment(ctx context.Context, comment *types.Comment) error {
	return d.pool.WithContext(ctx).Create(comment).Error
}

// InsertReaction relies on the unique index: a concurrent duplicate insert
// loses the conflict and reports false instead of racing silently.
func (d *DB) InsertReaction(ctx context.Context, r *types.Reaction) (bool, error) {
	result := d.pool.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(r)
	return result.RowsAffected > 0, result.Error
}

func (d *DB) DeleteReaction(ctx context.Context, userID uuid.UUID, target types.ReactionTarget, targetID uuid.UUID, rt types.ReactionType) (bool, error) {
	result := d.pool.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND type = ?", userID, target, targetID, rt).
		Delete(&types.Reaction{})
	return result.RowsAffected > 0, result.Error
}

func (d *DB) InsertBookmark(ctx context.Context, b *types.Bookmark) (bool, error) {
	result := d.pool.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(b)
	return result.RowsAffected > 0, result.Error
}

func (d *DB) DeleteBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	result := d.pool.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&types.Bookmark{})
	return result.RowsAffected > 0, result.Error
}

func (d *DB) InsertFollow(ctx context.Context, f *types.Follow) (bool, error) {
	result := d.pool.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	return result.RowsAffected > 0, result.Error
}

func (d *DB) DeleteFollow(ctx context.Context, followerID uuid.UUID, followeeUserID, followeeProducerID *uuid.UUID) (bool, error) {
	q := d.pool.WithContext(ctx).Where("follower_id = ?", followerID)
	if followeeUserID != nil {
		q = q.Where("followee_user_id = ?", *followeeUserID)
	} else {
		q = q.Where("followee_user_id IS NULL")
	}
	if followeeProducerID != nil {
		q = q.Where("followee_producer_id = ?", *followeeProducerID)
	} else {
		q = q.Where("followee_producer_id IS NULL")
	}
	result := q.Delete(&types.Follow{})
	return result.RowsAffected > 0, result.Error
}

func (d *DB) GetGuild(ctx context.Context, id uuid.UUID) (*types.Guild, error) {
	var guild types.Guild
	err := d.pool.WithContext(ctx).First(&guild, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

func (d *DB) IsGuildMember(ctx context.Context, guildID, userID uuid.UUID) (bool, error) {
	var count int64
	err := d.pool.WithContext(ctx).Model(&types.GuildMembership{}).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Count(&count).Error
	return count > 0, err
}

func (d *DB) UpsertGuildMembership(ctx context.Context, m *types.GuildMembership) error {
	return d.pool.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(m).Error
}

func (d *DB) DeleteGuildMembership(ctx context.Context, guildID, userID uuid.UUID) error {
	return d.pool.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Delete(&types.GuildMembership{}).Error
}

func (d *DB) ItemBySlug(ctx context.Context, slug string) (*types.GamificationItem, error) {
	var item types.GamificationItem
	err := d.pool.WithContext(ctx).First(&item, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ConsumeInventory decrements with a quantity guard in a single statement, so
// two concurrent consumers of the last unit cannot drive the quantity
// negative; the loser simply gets false.
func (d *DB) ConsumeInventory(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	result := d.pool.WithContext(ctx).Model(&types.InventoryEntry{}).
		Where("user_id = ? AND item_id = ? AND quantity >= 1", userID, itemID).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	return result.RowsAffected > 0, result.Error
}

func (d *DB) RefundInventory(ctx context.Context, userID, itemID uuid.UUID) error {
	return d.pool.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("inventory_entries.quantity + 1")}),
	}).Create(&types.InventoryEntry{UserID: userID, ItemID: itemID, Quantity: 1}).Error
}

func (d *DB) CreateShareEvent(ctx context.Context, ev *types.ShareEvent) error {
	return d.pool.WithContext(ctx).Create(ev).Error
}

func (d *DB) LinkHashtags(ctx context.Context, postID uuid.UUID, tags []string) error {
	for _, tag := range tags {
		var ht types.Hashtag
		if err := d.pool.WithContext(ctx).Where(types.Hashtag{Tag: tag}).FirstOrCreate(&ht).Error; err != nil {
			return err
		}
		err := d.pool.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
			Create(&types.PostHashtag{PostID: postID, HashtagID: ht.ID}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
