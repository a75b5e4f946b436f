package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waggle/types"
)

// UserFeed blends a personalized slice (posts matching the viewer's top
// scored hashtags) with a discovery slice, excluding soft-deleted posts and
// guild-only posts the viewer cannot see. Either half failing degrades the
// feed instead of failing it.
func (d *DB) UserFeed(ctx context.Context, viewerID uuid.UUID, limit int) ([]types.Post, error) {
	personalized, err := d.personalizedPosts(ctx, viewerID, limit/2)
	if err != nil {
		d.logger.Warn("personalized feed slice failed", zap.Error(err))
	}

	discovery, err := d.discoveryPosts(ctx, viewerID, limit/2)
	if err != nil {
		d.logger.Warn("discovery feed slice failed", zap.Error(err))
	}

	merged := lo.UniqBy(append(personalized, discovery...), func(p types.Post) uuid.UUID { return p.ID })

	for _, post := range merged {
		score := d.scorePost(ctx, viewerID, post)
		d.redis.ZAdd(ctx, feedKey(viewerID), redis.Z{Score: score, Member: post.ID.String()})
	}

	return merged, nil
}

func (d *DB) personalizedPosts(ctx context.Context, viewerID uuid.UUID, limit int) ([]types.Post, error) {
	var tags []string
	err := d.redis.ZRevRange(ctx, tagScoresKey(viewerID), 0, 4).ScanSlice(&tags)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}

	var posts []types.Post
	err = d.visibleTo(ctx, viewerID).
		Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("hashtags.tag IN ?", tags).
		Order("posts.created_at DESC").
		Limit(limit).
		Preload("Author").
		Distinct().
		Find(&posts).Error
	return posts, err
}

func (d *DB) discoveryPosts(ctx context.Context, viewerID uuid.UUID, limit int) ([]types.Post, error) {
	var posts []types.Post
	err := d.visibleTo(ctx, viewerID).
		Order("RANDOM()").
		Limit(limit).
		Preload("Author").
		Find(&posts).Error
	return posts, err
}

func (d *DB) visibleTo(ctx context.Context, viewerID uuid.UUID) *gorm.DB {
	return d.pool.WithContext(ctx).Model(&types.Post{}).Where(
		"posts.visibility = ? OR posts.guild_id IN (SELECT guild_id FROM guild_memberships WHERE user_id = ?)",
		types.VisibilityPublic, viewerID,
	)
}

// scorePost mirrors the ranking used at read time: accumulated tag affinity
// plus a boost when the viewer already interacted with the post.
func (d *DB) scorePost(ctx context.Context, viewerID uuid.UUID, post types.Post) float64 {
	score := 0.0
	for _, tag := range post.Metadata.Hashtags {
		affinity, err := d.redis.ZScore(ctx, tagScoresKey(viewerID), tag).Result()
		if err == nil {
			score += affinity
		}
	}

	var count int64
	err := d.pool.WithContext(ctx).Model(&types.Reaction{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", viewerID, types.TargetPost, post.ID).
		Count(&count).Error
	if err == nil && count > 0 {
		score += 5.0
	}

	return score
}

func tagScoresKey(userID uuid.UUID) string { return fmt.Sprintf("user:%s:tag_scores", userID) }

func feedKey(userID uuid.UUID) string { return fmt.Sprintf("user:%s:feed", userID) }
