package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MetadataKind string

const (
	MetadataNone      MetadataKind = ""
	MetadataReel      MetadataKind = "reel"
	MetadataQuote     MetadataKind = "quote"
	MetadataGuildPost MetadataKind = "guild_post"
)

// PostMetadata is a tagged union: Kind decides which variant is populated.
// Validate is called at the storage boundary so no opaque blob ever reaches
// the database.
type PostMetadata struct {
	Kind      MetadataKind       `json:"kind"`
	Hashtags  []string           `json:"hashtags,omitempty"`
	Reel      *ReelMetadata      `json:"reel,omitempty"`
	Quote     *QuoteMetadata     `json:"quote,omitempty"`
	GuildPost *GuildPostMetadata `json:"guild_post,omitempty"`
}

type ReelMetadata struct {
	StoragePath     string `json:"storage_path"`
	MimeType        string `json:"mime_type"`
	SizeBytes       int64  `json:"size_bytes"`
	DurationSeconds int    `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
}

// QuoteMetadata is a frozen snapshot of the quoted post, taken at quote time.
// It is never re-joined against the live source post.
type QuoteMetadata struct {
	SourcePostID    uuid.UUID `json:"source_post_id"`
	AuthorName      string    `json:"author_name"`
	AuthorAvatarURL string    `json:"author_avatar_url,omitempty"`
	Content         string    `json:"content"`
	QuotedAt        time.Time `json:"quoted_at"`
}

type GuildPostMetadata struct {
	GuildID   uuid.UUID `json:"guild_id"`
	GuildName string    `json:"guild_name"`
}

func (m PostMetadata) Validate() error {
	switch m.Kind {
	case MetadataNone:
		if m.Reel != nil || m.Quote != nil || m.GuildPost != nil {
			return fmt.Errorf("metadata variant set without a kind")
		}
	case MetadataReel:
		if m.Reel == nil {
			return fmt.Errorf("metadata kind %q without reel payload", m.Kind)
		}
		if m.Quote != nil || m.GuildPost != nil {
			return fmt.Errorf("metadata kind %q with foreign payload", m.Kind)
		}
	case MetadataQuote:
		if m.Quote == nil {
			return fmt.Errorf("metadata kind %q without quote payload", m.Kind)
		}
		if m.Quote.SourcePostID == uuid.Nil {
			return fmt.Errorf("quote metadata without source post")
		}
		if m.Reel != nil || m.GuildPost != nil {
			return fmt.Errorf("metadata kind %q with foreign payload", m.Kind)
		}
	case MetadataGuildPost:
		if m.GuildPost == nil {
			return fmt.Errorf("metadata kind %q without guild payload", m.Kind)
		}
		if m.GuildPost.GuildID == uuid.Nil {
			return fmt.Errorf("guild metadata without guild id")
		}
		if m.Reel != nil || m.Quote != nil {
			return fmt.Errorf("metadata kind %q with foreign payload", m.Kind)
		}
	default:
		return fmt.Errorf("unknown metadata kind %q", m.Kind)
	}
	return nil
}
