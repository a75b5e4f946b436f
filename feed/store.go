package feed

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"waggle/invalidation"
	"waggle/types"
)

// ErrNotFound is returned by Store lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Store is the relational backing the gateway writes against. Insert/Delete
// pairs report whether a row actually changed so toggles can derive the new
// state; inserts on conflicting unique keys report false instead of failing.
type Store interface {
	CreatePost(ctx context.Context, post *types.Post) error
	// CreatePostWithMedia persists both rows atomically where the store
	// supports transactions; otherwise it must compensate by deleting the
	// post when the media insert fails.
	CreatePostWithMedia(ctx context.Context, post *types.Post, media *types.PostMedia) error
	// GetPost excludes soft-deleted rows and preloads the author.
	GetPost(ctx context.Context, id uuid.UUID) (*types.Post, error)
	AdjustPostCounts(ctx context.Context, postID uuid.UUID, reactionsDelta, commentsDelta int) error

	CreateComment(ctx context.Context, comment *types.Comment) error

	InsertReaction(ctx context.Context, r *types.Reaction) (bool, error)
	DeleteReaction(ctx context.Context, userID uuid.UUID, target types.ReactionTarget, targetID uuid.UUID, rt types.ReactionType) (bool, error)

	InsertBookmark(ctx context.Context, b *types.Bookmark) (bool, error)
	DeleteBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error)

	InsertFollow(ctx context.Context, f *types.Follow) (bool, error)
	DeleteFollow(ctx context.Context, followerID uuid.UUID, followeeUserID, followeeProducerID *uuid.UUID) (bool, error)

	GetGuild(ctx context.Context, id uuid.UUID) (*types.Guild, error)
	IsGuildMember(ctx context.Context, guildID, userID uuid.UUID) (bool, error)
	UpsertGuildMembership(ctx context.Context, m *types.GuildMembership) error
	DeleteGuildMembership(ctx context.Context, guildID, userID uuid.UUID) error

	ItemBySlug(ctx context.Context, slug string) (*types.GamificationItem, error)
	// ConsumeInventory decrements one unit with a quantity >= 1 guard and
	// reports whether the decrement landed.
	ConsumeInventory(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	// RefundInventory increments one unit, creating the row if absent.
	RefundInventory(ctx context.Context, userID, itemID uuid.UUID) error

	CreateShareEvent(ctx context.Context, ev *types.ShareEvent) error
	LinkHashtags(ctx context.Context, postID uuid.UUID, tags []string) error
}

// Invalidator marks cache regions stale after a successful write. It is
// fire-and-forget from the gateway's perspective.
type Invalidator interface {
	Dispatch(ctx context.Context, targets ...invalidation.Target)
}

// Enqueuer accepts best-effort side effects.
type Enqueuer interface {
	Enqueue(name string, fn func(context.Context) error) bool
}
