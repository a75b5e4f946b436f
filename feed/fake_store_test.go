package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"waggle/types"
)

// fakeStore is an in-memory Store for gateway tests.
type fakeStore struct {
	users        map[uuid.UUID]types.User
	posts        map[uuid.UUID]*types.Post
	media        []types.PostMedia
	comments     []types.Comment
	reactions    map[string]types.Reaction
	bookmarks    map[string]bool
	follows      map[string]bool
	guilds       map[uuid.UUID]*types.Guild
	memberships  map[string]types.GuildMembership
	items        map[string]*types.GamificationItem
	inventory    map[string]int
	shareEvents  []types.ShareEvent
	hashtagLinks map[uuid.UUID][]string

	failMediaInsert bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[uuid.UUID]types.User{},
		posts:        map[uuid.UUID]*types.Post{},
		reactions:    map[string]types.Reaction{},
		bookmarks:    map[string]bool{},
		follows:      map[string]bool{},
		guilds:       map[uuid.UUID]*types.Guild{},
		memberships:  map[string]types.GuildMembership{},
		items:        map[string]*types.GamificationItem{},
		inventory:    map[string]int{},
		hashtagLinks: map[uuid.UUID][]string{},
	}
}

func pairKey(a, b uuid.UUID) string { return a.String() + "|" + b.String() }

func reactionKey(userID uuid.UUID, target types.ReactionTarget, targetID uuid.UUID, rt types.ReactionType) string {
	return fmt.Sprintf("%s|%s|%s|%s", userID, target, targetID, rt)
}

func (s *fakeStore) CreatePost(_ context.Context, post *types.Post) error {
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *fakeStore) CreatePostWithMedia(ctx context.Context, post *types.Post, media *types.PostMedia) error {
	if err := s.CreatePost(ctx, post); err != nil {
		return err
	}
	if s.failMediaInsert {
		delete(s.posts, post.ID)
		return errors.New("media insert failed")
	}
	media.PostID = post.ID
	s.media = append(s.media, *media)
	return nil
}

func (s *fakeStore) GetPost(_ context.Context, id uuid.UUID) (*types.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *post
	copied.Author = s.users[post.AuthorID]
	return &copied, nil
}

func (s *fakeStore) AdjustPostCounts(_ context.Context, postID uuid.UUID, reactions, comments int) error {
	if post, ok := s.posts[postID]; ok {
		post.ReactionsCount += reactions
		post.CommentsCount += comments
	}
	return nil
}

func (s *fakeStore) CreateComment(_ context.Context, comment *types.Comment) error {
	comment.ID = uuid.New()
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *fakeStore) InsertReaction(_ context.Context, r *types.Reaction) (bool, error) {
	key := reactionKey(r.UserID, r.TargetType, r.TargetID, r.Type)
	if _, ok := s.reactions[key]; ok {
		return false, nil
	}
	r.ID = uuid.New()
	s.reactions[key] = *r
	return true, nil
}

func (s *fakeStore) DeleteReaction(_ context.Context, userID uuid.UUID, target types.ReactionTarget, targetID uuid.UUID, rt types.ReactionType) (bool, error) {
	key := reactionKey(userID, target, targetID, rt)
	if _, ok := s.reactions[key]; !ok {
		return false, nil
	}
	delete(s.reactions, key)
	return true, nil
}

func (s *fakeStore) InsertBookmark(_ context.Context, b *types.Bookmark) (bool, error) {
	key := pairKey(b.UserID, b.PostID)
	if s.bookmarks[key] {
		return false, nil
	}
	s.bookmarks[key] = true
	return true, nil
}

func (s *fakeStore) DeleteBookmark(_ context.Context, userID, postID uuid.UUID) (bool, error) {
	key := pairKey(userID, postID)
	if !s.bookmarks[key] {
		return false, nil
	}
	delete(s.bookmarks, key)
	return true, nil
}

func followKey(followerID uuid.UUID, userID, producerID *uuid.UUID) string {
	key := followerID.String()
	if userID != nil {
		key += "|u:" + userID.String()
	}
	if producerID != nil {
		key += "|p:" + producerID.String()
	}
	return key
}

func (s *fakeStore) InsertFollow(_ context.Context, f *types.Follow) (bool, error) {
	key := followKey(f.FollowerID, f.FolloweeUserID, f.FolloweeProducerID)
	if s.follows[key] {
		return false, nil
	}
	s.follows[key] = true
	return true, nil
}

func (s *fakeStore) DeleteFollow(_ context.Context, followerID uuid.UUID, userID, producerID *uuid.UUID) (bool, error) {
	key := followKey(followerID, userID, producerID)
	if !s.follows[key] {
		return false, nil
	}
	delete(s.follows, key)
	return true, nil
}

func (s *fakeStore) GetGuild(_ context.Context, id uuid.UUID) (*types.Guild, error) {
	guild, ok := s.guilds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return guild, nil
}

func (s *fakeStore) IsGuildMember(_ context.Context, guildID, userID uuid.UUID) (bool, error) {
	_, ok := s.memberships[pairKey(guildID, userID)]
	return ok, nil
}

func (s *fakeStore) UpsertGuildMembership(_ context.Context, m *types.GuildMembership) error {
	s.memberships[pairKey(m.GuildID, m.UserID)] = *m
	return nil
}

func (s *fakeStore) DeleteGuildMembership(_ context.Context, guildID, userID uuid.UUID) error {
	delete(s.memberships, pairKey(guildID, userID))
	return nil
}

func (s *fakeStore) ItemBySlug(_ context.Context, slug string) (*types.GamificationItem, error) {
	item, ok := s.items[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *fakeStore) ConsumeInventory(_ context.Context, userID, itemID uuid.UUID) (bool, error) {
	key := pairKey(userID, itemID)
	if s.inventory[key] < 1 {
		return false, nil
	}
	s.inventory[key]--
	return true, nil
}

func (s *fakeStore) RefundInventory(_ context.Context, userID, itemID uuid.UUID) error {
	s.inventory[pairKey(userID, itemID)]++
	return nil
}

func (s *fakeStore) CreateShareEvent(_ context.Context, ev *types.ShareEvent) error {
	s.shareEvents = append(s.shareEvents, *ev)
	return nil
}

func (s *fakeStore) LinkHashtags(_ context.Context, postID uuid.UUID, tags []string) error {
	s.hashtagLinks[postID] = tags
	return nil
}
