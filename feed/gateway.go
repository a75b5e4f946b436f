// Package feed is the sole authoritative writer of social graph and content
// state. Every operation re-derives the acting identity from the session
// layer, validates its input, performs the write, then hands best-effort side
// effects (hashtag linking, share events, cache invalidation) to the outbox.
package feed

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"waggle/constants"
	"waggle/hashtag"
	"waggle/invalidation"
	"waggle/sharetoken"
	"waggle/types"
)

const (
	maxVideoSizeBytes       = 100 << 20
	maxVideoDurationSeconds = 60
)

var allowedVideoMIMEs = []string{"video/mp4", "video/webm", "video/quicktime"}

type Gateway struct {
	store  Store
	cache  Invalidator
	outbox Enqueuer
	tokens *sharetoken.Signer
	logger *zap.Logger
	now    func() time.Time
}

func NewGateway(store Store, cache Invalidator, outbox Enqueuer, tokens *sharetoken.Signer, logger *zap.Logger) *Gateway {
	return &Gateway{
		store:  store,
		cache:  cache,
		outbox: outbox,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// internal logs the storage failure in full and returns the generic error.
func (g *Gateway) internal(op string, err error) error {
	g.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return ErrInternal
}

func requireActor(actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return ErrAuthRequired
	}
	return nil
}

// ToggleLike flips the actor's like on a post and reports the new state.
// Calling it twice from the same state returns the post to where it was.
func (g *Gateway) ToggleLike(ctx context.Context, actorID, postID uuid.UUID) (bool, error) {
	return g.toggleReaction(ctx, actorID, postID, types.ReactionLike)
}

func (g *Gateway) toggleReaction(ctx context.Context, actorID, postID uuid.UUID, rt types.ReactionType) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	if postID == uuid.Nil {
		return false, Invalid("post id is required")
	}

	deleted, err := g.store.DeleteReaction(ctx, actorID, types.TargetPost, postID, rt)
	if err != nil {
		return false, g.internal("delete reaction", err)
	}

	if deleted {
		g.adjustCounts(ctx, postID, -1, 0)
		g.cache.Dispatch(ctx, invalidation.Feed(), invalidation.Post(postID), invalidation.Leaderboard())
		return false, nil
	}

	inserted, err := g.store.InsertReaction(ctx, &types.Reaction{
		UserID:     actorID,
		TargetType: types.TargetPost,
		TargetID:   postID,
		Type:       rt,
	})
	if err != nil {
		return false, g.internal("insert reaction", err)
	}
	if inserted {
		g.adjustCounts(ctx, postID, 1, 0)
	}

	g.cache.Dispatch(ctx, invalidation.Feed(), invalidation.Post(postID), invalidation.Leaderboard())
	return true, nil
}

func (g *Gateway) ToggleBookmark(ctx context.Context, actorID, postID uuid.UUID) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	if postID == uuid.Nil {
		return false, Invalid("post id is required")
	}

	deleted, err := g.store.DeleteBookmark(ctx, actorID, postID)
	if err != nil {
		return false, g.internal("delete bookmark", err)
	}
	if deleted {
		g.cache.Dispatch(ctx, invalidation.Post(postID))
		return false, nil
	}

	if _, err := g.store.InsertBookmark(ctx, &types.Bookmark{UserID: actorID, PostID: postID}); err != nil {
		return false, g.internal("insert bookmark", err)
	}

	g.cache.Dispatch(ctx, invalidation.Post(postID))
	return true, nil
}

// ToggleFollowUser follows or unfollows a user. Following yourself is a
// silent no-op, not an error.
func (g *Gateway) ToggleFollowUser(ctx context.Context, actorID, userID uuid.UUID) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	if userID == uuid.Nil {
		return false, Invalid("user id is required")
	}
	if userID == actorID {
		return false, nil
	}
	return g.toggleFollow(ctx, actorID, &userID, nil)
}

func (g *Gateway) ToggleFollowProducer(ctx context.Context, actorID, producerID uuid.UUID) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	if producerID == uuid.Nil {
		return false, Invalid("producer id is required")
	}
	return g.toggleFollow(ctx, actorID, nil, &producerID)
}

func (g *Gateway) toggleFollow(ctx context.Context, actorID uuid.UUID, userID, producerID *uuid.UUID) (bool, error) {
	deleted, err := g.store.DeleteFollow(ctx, actorID, userID, producerID)
	if err != nil {
		return false, g.internal("delete follow", err)
	}
	if deleted {
		g.cache.Dispatch(ctx, invalidation.Feed())
		return false, nil
	}

	if _, err := g.store.InsertFollow(ctx, &types.Follow{
		FollowerID:         actorID,
		FolloweeUserID:     userID,
		FolloweeProducerID: producerID,
	}); err != nil {
		return false, g.internal("insert follow", err)
	}

	g.cache.Dispatch(ctx, invalidation.Feed())
	return true, nil
}

type CreatePostInput struct {
	Content   string     `json:"content"`
	ImageURLs []string   `json:"image_urls"`
	GuildID   *uuid.UUID `json:"guild_id,omitempty"`
}

func (g *Gateway) CreatePost(ctx context.Context, actorID uuid.UUID, input CreatePostInput) (*types.Post, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, Invalid("post content cannot be empty")
	}

	tags := hashtag.Extract(content)
	meta := types.PostMetadata{Hashtags: tags}
	visibility := types.VisibilityPublic
	targets := []invalidation.Target{invalidation.Feed(), invalidation.Hashtags()}

	if input.GuildID != nil {
		guild, err := g.store.GetGuild(ctx, *input.GuildID)
		if err == ErrNotFound {
			return nil, Invalid("guild not found")
		}
		if err != nil {
			return nil, g.internal("get guild", err)
		}

		member, err := g.store.IsGuildMember(ctx, guild.ID, actorID)
		if err != nil {
			return nil, g.internal("guild membership lookup", err)
		}
		if !member {
			return nil, Unauthorized("you must be a member of this guild to post in it")
		}

		visibility = types.VisibilityGuildOnly
		meta.Kind = types.MetadataGuildPost
		meta.GuildPost = &types.GuildPostMetadata{GuildID: guild.ID, GuildName: guild.Name}
		targets = append(targets, invalidation.Guild(guild.ID))
	}

	post := &types.Post{
		AuthorID:    actorID,
		Content:     &content,
		ImageURLs:   input.ImageURLs,
		ContentType: types.ContentTypeUserPost,
		Visibility:  visibility,
		ShareKind:   types.ShareKindOriginal,
		GuildID:     input.GuildID,
		Metadata:    meta,
	}

	if err := g.store.CreatePost(ctx, post); err != nil {
		return nil, g.internal("create post", err)
	}

	if len(tags) > 0 {
		postID := post.ID
		g.outbox.Enqueue("hashtag-link", func(ctx context.Context) error {
			return g.store.LinkHashtags(ctx, postID, tags)
		})
	}

	g.cache.Dispatch(ctx, targets...)
	return post, nil
}

type CreateVideoPostInput struct {
	Content         string `json:"content"`
	StoragePath     string `json:"storage_path"`
	MimeType        string `json:"mime_type"`
	SizeBytes       int64  `json:"size_bytes"`
	DurationSeconds int    `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url"`
}

// CreateVideoPost validates the upload before any state is created: the
// storage path must live under the actor's own namespace, the MIME type must
// be an allowed video type, and size/duration must be within the ceilings
// (both inclusive).
func (g *Gateway) CreateVideoPost(ctx context.Context, actorID uuid.UUID, input CreateVideoPostInput) (*types.Post, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(input.StoragePath, actorID.String()+"/") {
		return nil, Invalid("video storage path does not belong to you")
	}
	if !slices.Contains(allowedVideoMIMEs, input.MimeType) {
		return nil, Invalid("unsupported video type")
	}
	if input.SizeBytes <= 0 || input.SizeBytes > maxVideoSizeBytes {
		return nil, Invalid("video file exceeds the 100MB limit")
	}
	if input.DurationSeconds <= 0 || input.DurationSeconds > maxVideoDurationSeconds {
		return nil, Invalid("video exceeds the 60 second limit")
	}

	var content *string
	if trimmed := strings.TrimSpace(input.Content); trimmed != "" {
		content = &trimmed
	}

	post := &types.Post{
		AuthorID:    actorID,
		Content:     content,
		ContentType: types.ContentTypeUserPost,
		Visibility:  types.VisibilityPublic,
		ShareKind:   types.ShareKindOriginal,
		Metadata: types.PostMetadata{
			Kind: types.MetadataReel,
			Reel: &types.ReelMetadata{
				StoragePath:     input.StoragePath,
				MimeType:        input.MimeType,
				SizeBytes:       input.SizeBytes,
				DurationSeconds: input.DurationSeconds,
				ThumbnailURL:    input.ThumbnailURL,
			},
		},
	}

	media := &types.PostMedia{
		StoragePath:     input.StoragePath,
		MimeType:        input.MimeType,
		SizeBytes:       input.SizeBytes,
		DurationSeconds: input.DurationSeconds,
		ThumbnailURL:    input.ThumbnailURL,
	}

	if err := g.store.CreatePostWithMedia(ctx, post, media); err != nil {
		return nil, g.internal("create video post", err)
	}

	g.cache.Dispatch(ctx, invalidation.Feed(), invalidation.Post(post.ID))
	return post, nil
}

// CreateQuoteRepost wraps a frozen snapshot of the source post. The snapshot
// is copied at call time and never re-joined, so later edits to the source do
// not leak into the quote.
func (g *Gateway) CreateQuoteRepost(ctx context.Context, actorID, sourcePostID uuid.UUID, content string, tags []string) (*types.Post, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if sourcePostID == uuid.Nil {
		return nil, Invalid("source post id is required")
	}

	source, err := g.store.GetPost(ctx, sourcePostID)
	if err == ErrNotFound {
		return nil, Invalid("source post not found")
	}
	if err != nil {
		return nil, g.internal("get source post", err)
	}

	if source.Visibility == types.VisibilityGuildOnly {
		if source.GuildID == nil {
			return nil, Unauthorized("you cannot quote this post")
		}
		member, err := g.store.IsGuildMember(ctx, *source.GuildID, actorID)
		if err != nil {
			return nil, g.internal("guild membership lookup", err)
		}
		if !member {
			return nil, Unauthorized("you cannot quote this post")
		}
	}

	var sourceContent string
	if source.Content != nil {
		sourceContent = *source.Content
	}

	trimmed := strings.TrimSpace(content)
	var postContent *string
	if trimmed != "" {
		postContent = &trimmed
	}

	allTags := tags
	for _, tag := range hashtag.Extract(trimmed) {
		if !slices.Contains(allTags, tag) {
			allTags = append(allTags, tag)
		}
	}

	post := &types.Post{
		AuthorID:     actorID,
		Content:      postContent,
		ContentType:  types.ContentTypeUserPost,
		Visibility:   types.VisibilityPublic,
		ShareKind:    types.ShareKindQuote,
		SourcePostID: &sourcePostID,
		Metadata: types.PostMetadata{
			Kind:     types.MetadataQuote,
			Hashtags: allTags,
			Quote: &types.QuoteMetadata{
				SourcePostID:    sourcePostID,
				AuthorName:      source.Author.Username,
				AuthorAvatarURL: source.Author.AvatarURL,
				Content:         sourceContent,
				QuotedAt:        g.now(),
			},
		},
	}

	if err := g.store.CreatePost(ctx, post); err != nil {
		return nil, g.internal("create quote repost", err)
	}

	actor := actorID
	g.outbox.Enqueue("share-event-conversion", func(ctx context.Context) error {
		return g.store.CreateShareEvent(ctx, &types.ShareEvent{
			PostID:      sourcePostID,
			ActorUserID: &actor,
			Channel:     types.ChannelCopyLink,
			EventType:   types.ShareConversion,
		})
	})

	g.cache.Dispatch(ctx, invalidation.Feed(), invalidation.Post(sourcePostID), invalidation.Hashtags())
	return post, nil
}

// AddComment inserts a comment without pre-checking the post; referential
// behavior is left to the store.
func (g *Gateway) AddComment(ctx context.Context, actorID, postID uuid.UUID, content string) (*types.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if postID == uuid.Nil {
		return nil, Invalid("post id is required")
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, Invalid("comment cannot be empty")
	}

	comment := &types.Comment{PostID: postID, AuthorID: actorID, Content: trimmed}
	if err := g.store.CreateComment(ctx, comment); err != nil {
		return nil, g.internal("create comment", err)
	}

	g.adjustCounts(ctx, postID, 0, 1)
	g.cache.Dispatch(ctx, invalidation.Post(postID))
	return comment, nil
}

// ToggleSuperLike consumes one seed on activation and refunds it on
// deactivation. The guarded decrement keeps inventory from going negative;
// a concurrent activation on the last seed loses the race cleanly instead of
// overdrawing.
func (g *Gateway) ToggleSuperLike(ctx context.Context, actorID, postID uuid.UUID) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	if postID == uuid.Nil {
		return false, Invalid("post id is required")
	}

	item, err := g.store.ItemBySlug(ctx, constants.SeedItemSlug)
	if err != nil {
		return false, g.internal("seed item lookup", err)
	}

	deleted, err := g.store.DeleteReaction(ctx, actorID, types.TargetPost, postID, types.ReactionSuperLike)
	if err != nil {
		return false, g.internal("delete super like", err)
	}

	if deleted {
		if err := g.store.RefundInventory(ctx, actorID, item.ID); err != nil {
			// The reaction is already gone; surfacing an error here
			// would read as a failed toggle. Log and move on.
			g.logger.Error("seed refund failed", zap.String("user", actorID.String()), zap.Error(err))
		}
		g.adjustCounts(ctx, postID, -1, 0)
		g.cache.Dispatch(ctx, invalidation.Feed(), invalidation.Post(postID), invalidation.Leaderboard())
		return false, nil
	}

	consumed, err := g.store.ConsumeInventory(ctx, actorID, item.ID)
	if err != nil {
		return false, g.internal("consume seed", err)
	}
	if !consumed {
		return false, ErrInsufficientSeeds
	}

	inserted, err := g.store.InsertReaction(ctx, &types.Reaction{
		UserID:     actorID,
		TargetType: types.TargetPost,
		TargetID:   postID,
		Type:       types.ReactionSuperLike,
	})
	if err != nil || !inserted {
		// Either a storage failure or a concurrent toggle won the insert;
		// give the seed back so nothing is silently consumed.
		if refundErr := g.store.RefundInventory(ctx, actorID, item.ID); refundErr != nil {
			g.logger.Error("seed refund after failed insert", zap.Error(refundErr))
		}
		if err != nil {
			return false, g.internal("insert super like", err)
		}
		return true, nil
	}

	g.adjustCounts(ctx, postID, 1, 0)
	g.cache.Dispatch(ctx, invalidation.Feed(), invalidation.Post(postID), invalidation.Leaderboard())
	return true, nil
}

// IssueShareToken signs an attribution token and records the `initiated`
// funnel step. The event write is best-effort and never fails the caller.
func (g *Gateway) IssueShareToken(ctx context.Context, actorID, postID uuid.UUID, channel types.ShareChannel) (string, error) {
	if err := requireActor(actorID); err != nil {
		return "", err
	}
	if postID == uuid.Nil {
		return "", Invalid("post id is required")
	}
	if !channel.Valid() {
		return "", Invalid("unknown share channel")
	}

	token, err := g.tokens.Sign(sharetoken.Payload{
		PostID:      postID.String(),
		Channel:     string(channel),
		ActorUserID: actorID.String(),
	})
	if err != nil {
		return "", g.internal("sign share token", err)
	}

	actor := actorID
	g.outbox.Enqueue("share-event-initiated", func(ctx context.Context) error {
		return g.store.CreateShareEvent(ctx, &types.ShareEvent{
			PostID:      postID,
			ActorUserID: &actor,
			Channel:     channel,
			EventType:   types.ShareInitiated,
			Token:       token,
		})
	})

	return token, nil
}

type RecordShareEventInput struct {
	PostID    uuid.UUID            `json:"post_id"`
	Channel   types.ShareChannel   `json:"channel"`
	EventType types.ShareEventType `json:"event_type"`
	Token     string               `json:"token,omitempty"`
}

// RecordShareEvent appends one funnel step. A `landing` from an
// unauthenticated actor is only accepted with a valid token bound to the
// exact post. actorID may be uuid.Nil for anonymous funnel steps.
func (g *Gateway) RecordShareEvent(ctx context.Context, actorID uuid.UUID, input RecordShareEventInput) error {
	if input.PostID == uuid.Nil {
		return Invalid("post id is required")
	}
	if !input.Channel.Valid() {
		return Invalid("unknown share channel")
	}
	if !input.EventType.Valid() {
		return Invalid("unknown share event type")
	}

	if input.EventType == types.ShareLanding && actorID == uuid.Nil {
		if _, ok := g.tokens.Verify(input.Token, input.PostID.String()); !ok {
			return Unauthorized("a valid share token is required to record this landing")
		}
	}

	ev := &types.ShareEvent{
		PostID:    input.PostID,
		Channel:   input.Channel,
		EventType: input.EventType,
		Token:     input.Token,
	}
	if actorID != uuid.Nil {
		actor := actorID
		ev.ActorUserID = &actor
	}

	if err := g.store.CreateShareEvent(ctx, ev); err != nil {
		return g.internal("create share event", err)
	}
	return nil
}

func (g *Gateway) JoinGuild(ctx context.Context, actorID, guildID uuid.UUID) error {
	if err := requireActor(actorID); err != nil {
		return err
	}

	guild, err := g.store.GetGuild(ctx, guildID)
	if err == ErrNotFound {
		return Invalid("guild not found")
	}
	if err != nil {
		return g.internal("get guild", err)
	}

	if err := g.store.UpsertGuildMembership(ctx, &types.GuildMembership{
		GuildID: guild.ID,
		UserID:  actorID,
		Role:    "member",
	}); err != nil {
		return g.internal("join guild", err)
	}

	g.cache.Dispatch(ctx, invalidation.Guilds(), invalidation.Guild(guild.ID))
	return nil
}

func (g *Gateway) LeaveGuild(ctx context.Context, actorID, guildID uuid.UUID) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if guildID == uuid.Nil {
		return Invalid("guild id is required")
	}

	if err := g.store.DeleteGuildMembership(ctx, guildID, actorID); err != nil {
		return g.internal("leave guild", err)
	}

	g.cache.Dispatch(ctx, invalidation.Guilds(), invalidation.Guild(guildID))
	return nil
}

// adjustCounts keeps the denormalized post counters in step. Drift here is
// tolerable, losing the primary write is not, so failures only log.
func (g *Gateway) adjustCounts(ctx context.Context, postID uuid.UUID, reactions, comments int) {
	if err := g.store.AdjustPostCounts(ctx, postID, reactions, comments); err != nil {
		g.logger.Warn("post counter adjustment failed",
			zap.String("post", postID.String()), zap.Error(err))
	}
}
