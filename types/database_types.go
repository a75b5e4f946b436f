package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model to include ID as UUID
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContentType string

const (
	ContentTypeUserPost           ContentType = "user_post"
	ContentTypeProjectUpdateShare ContentType = "project_update_share"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityGuildOnly Visibility = "guild_only"
)

type ShareKind string

const (
	ShareKindOriginal ShareKind = "original"
	ShareKindQuote    ShareKind = "quote"
)

type ReactionType string

const (
	ReactionLike      ReactionType = "like"
	ReactionSuperLike ReactionType = "super_like"
)

type ReactionTarget string

const (
	TargetPost    ReactionTarget = "post"
	TargetComment ReactionTarget = "comment"
)

type User struct {
	BaseModel
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	AvatarURL string `gorm:"default:''" json:"avatar_url"`
	Bio       string `gorm:"type:text" json:"bio"`
}

// Producer is a project owner (beekeeper, olive grower, ...) that users can
// follow independently of regular users.
type Producer struct {
	BaseModel
	Name      string `gorm:"not null" json:"name"`
	AvatarURL string `gorm:"default:''" json:"avatar_url"`
}

type Post struct {
	BaseModel
	AuthorID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Content        *string        `gorm:"type:text" json:"content"`
	ImageURLs      []string       `gorm:"serializer:json" json:"image_urls"`
	ContentType    ContentType    `gorm:"type:text;not null;default:'user_post'" json:"content_type"`
	Visibility     Visibility     `gorm:"type:text;not null;default:'public';index" json:"visibility"`
	ShareKind      ShareKind      `gorm:"type:text;not null;default:'original'" json:"share_kind"`
	SourcePostID   *uuid.UUID     `gorm:"type:uuid;index" json:"source_post_id,omitempty"`
	GuildID        *uuid.UUID     `gorm:"type:uuid;index" json:"guild_id,omitempty"`
	Metadata       PostMetadata   `gorm:"serializer:json" json:"metadata"`
	ReactionsCount int            `gorm:"not null;default:0" json:"reactions_count"`
	CommentsCount  int            `gorm:"not null;default:0" json:"comments_count"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Author         User           `gorm:"foreignKey:AuthorID" json:"author"`
}

// PostMedia holds the uploaded object backing a video post.
type PostMedia struct {
	BaseModel
	PostID          uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	StoragePath     string    `gorm:"not null" json:"storage_path"`
	MimeType        string    `gorm:"not null" json:"mime_type"`
	SizeBytes       int64     `gorm:"not null" json:"size_bytes"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	ThumbnailURL    string    `gorm:"default:''" json:"thumbnail_url"`
}

type Comment struct {
	BaseModel
	PostID   uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
}

// Reaction is unique per (user, target, type); toggling deletes or inserts,
// never updates in place.
type Reaction struct {
	BaseModel
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_once" json:"user_id"`
	TargetType ReactionTarget `gorm:"type:text;not null;uniqueIndex:idx_reaction_once" json:"target_type"`
	TargetID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_once" json:"target_id"`
	Type       ReactionType   `gorm:"type:text;not null;uniqueIndex:idx_reaction_once" json:"type"`
}

type Bookmark struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_once" json:"user_id"`
	PostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_once" json:"post_id"`
}

// Follow targets either a user or a producer, never both.
type Follow struct {
	BaseModel
	FollowerID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_follow_user;uniqueIndex:idx_follow_producer" json:"follower_id"`
	FolloweeUserID     *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_follow_user" json:"followee_user_id,omitempty"`
	FolloweeProducerID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_follow_producer" json:"followee_producer_id,omitempty"`
}

type Guild struct {
	BaseModel
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

type GuildMembership struct {
	BaseModel
	GuildID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_guild_member" json:"guild_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_guild_member" json:"user_id"`
	Role    string    `gorm:"not null;default:'member'" json:"role"`
}

type ShareChannel string

const (
	ChannelFacebook ShareChannel = "facebook"
	ChannelTwitter  ShareChannel = "twitter"
	ChannelWhatsapp ShareChannel = "whatsapp"
	ChannelLinkedin ShareChannel = "linkedin"
	ChannelTelegram ShareChannel = "telegram"
	ChannelEmail    ShareChannel = "email"
	ChannelCopyLink ShareChannel = "copy_link"
)

func (c ShareChannel) Valid() bool {
	switch c {
	case ChannelFacebook, ChannelTwitter, ChannelWhatsapp, ChannelLinkedin, ChannelTelegram, ChannelEmail, ChannelCopyLink:
		return true
	}
	return false
}

type ShareEventType string

const (
	ShareInitiated      ShareEventType = "initiated"
	ShareChannelClicked ShareEventType = "channel_clicked"
	ShareLinkCopied     ShareEventType = "link_copied"
	ShareTargetOpened   ShareEventType = "target_opened"
	ShareLanding        ShareEventType = "landing"
	ShareConversion     ShareEventType = "conversion"
)

func (t ShareEventType) Valid() bool {
	switch t {
	case ShareInitiated, ShareChannelClicked, ShareLinkCopied, ShareTargetOpened, ShareLanding, ShareConversion:
		return true
	}
	return false
}

// ShareEvent is append-only; rows are never updated or deleted.
type ShareEvent struct {
	BaseModel
	PostID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	ActorUserID *uuid.UUID     `gorm:"type:uuid;column:actor_user_id;index" json:"actor_user_id,omitempty"`
	Channel     ShareChannel   `gorm:"type:text;not null" json:"channel"`
	EventType   ShareEventType `gorm:"type:text;not null" json:"event_type"`
	Token       string         `gorm:"type:text;default:''" json:"token,omitempty"`
}

type GamificationItem struct {
	BaseModel
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
	Name string `gorm:"not null" json:"name"`
}

// InventoryEntry tracks per-user quantities of consumable items such as seeds.
// Quantity must never go below zero.
type InventoryEntry struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_once" json:"user_id"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_once" json:"item_id"`
	Quantity int       `gorm:"not null;default:0" json:"quantity"`
}

type Hashtag struct {
	BaseModel
	Tag string `gorm:"uniqueIndex;not null" json:"tag"`
}

type PostHashtag struct {
	BaseModel
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_hashtag" json:"post_id"`
	HashtagID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_hashtag" json:"hashtag_id"`
}
