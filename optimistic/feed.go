// Package optimistic maintains a locally displayed feed that updates the
// moment the user acts and converges to the server's truth once the mutation
// resolves. Rollback for toggles is a second flip, not a snapshot restore, so
// overlapping in-flight actions on the same item can diverge until the last
// resolution lands (accepted limitation).
//
// A Feed is driven from a single goroutine (the UI loop); it is not safe for
// concurrent use.
package optimistic

import (
	"errors"
	"strconv"
	"time"

	"waggle/feed"
)

// TempIDPrefix distinguishes locally issued identifiers from server-issued
// ones.
const TempIDPrefix = "temp-"

type Post struct {
	ID             string
	AuthorID       string
	Content        string
	ImageURLs      []string
	ReactionsCount int
	CommentsCount  int
	HasReacted     bool
	HasBookmarked  bool
	Pending        bool
	CreatedAt      time.Time
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	Pending   bool
	CreatedAt time.Time
}

// Resolution is invoked with the mutation's outcome; nil means the server
// confirmed the optimistic state.
type Resolution func(err error)

type Feed struct {
	posts         []Post
	comments      map[string][]Comment
	draft         string
	commentDrafts map[string]string
	signInPrompt  bool
	tempSeq       int
	now           func() time.Time
}

func NewFeed(initial []Post) *Feed {
	posts := make([]Post, len(initial))
	copy(posts, initial)
	return &Feed{
		posts:         posts,
		comments:      map[string][]Comment{},
		commentDrafts: map[string]string{},
		now:           time.Now,
	}
}

// Posts returns the currently displayed list, newest first.
func (f *Feed) Posts() []Post {
	out := make([]Post, len(f.posts))
	copy(out, f.posts)
	return out
}

func (f *Feed) Comments(postID string) []Comment {
	src := f.comments[postID]
	out := make([]Comment, len(src))
	copy(out, src)
	return out
}

func (f *Feed) Post(id string) (Post, bool) {
	if p := f.find(id); p != nil {
		return *p, true
	}
	return Post{}, false
}

// SetDraft tracks the compose box so a failed submit can restore the user's
// text.
func (f *Feed) SetDraft(text string) { f.draft = text }

func (f *Feed) Draft() string { return f.draft }

func (f *Feed) SetCommentDraft(postID, text string) { f.commentDrafts[postID] = text }

func (f *Feed) CommentDraft(postID string) string { return f.commentDrafts[postID] }

// SignInPrompted reports whether a mutation failed for lack of
// authentication; the UI shows a login affordance instead of an error toast.
func (f *Feed) SignInPrompted() bool { return f.signInPrompt }

func (f *Feed) ClearSignInPrompt() { f.signInPrompt = false }

// ToggleLike flips the like state immediately. On failure the returned
// Resolution applies the exact same flip again to undo it.
func (f *Feed) ToggleLike(postID string) Resolution {
	f.flipLike(postID)
	return func(err error) {
		if err == nil {
			return
		}
		f.flipLike(postID)
		f.noteAuthFailure(err)
	}
}

func (f *Feed) ToggleBookmark(postID string) Resolution {
	f.flipBookmark(postID)
	return func(err error) {
		if err == nil {
			return
		}
		f.flipBookmark(postID)
		f.noteAuthFailure(err)
	}
}

// PostResolution converges a submitted post: confirmed replaces the synthetic
// entry, an error removes it and restores the compose draft.
type PostResolution func(confirmed *Post, err error)

// SubmitPost prepends a synthetic post and clears the compose box. The
// returned temp id carries TempIDPrefix until the server confirms.
func (f *Feed) SubmitPost(authorID, content string, imageURLs []string) (string, PostResolution) {
	tempID := f.nextTempID()
	originalDraft := f.draft

	post := Post{
		ID:        tempID,
		AuthorID:  authorID,
		Content:   content,
		ImageURLs: imageURLs,
		Pending:   true,
		CreatedAt: f.now(),
	}
	f.posts = append([]Post{post}, f.posts...)
	f.draft = ""

	return tempID, func(confirmed *Post, err error) {
		if err != nil {
			f.removePost(tempID)
			f.draft = originalDraft
			f.noteAuthFailure(err)
			return
		}
		if p := f.find(tempID); p != nil && confirmed != nil {
			*p = *confirmed
			p.Pending = false
		}
	}
}

type CommentResolution func(confirmed *Comment, err error)

// SubmitComment appends a synthetic comment and bumps the parent's comment
// count; failure removes the comment, restores the count and the draft.
func (f *Feed) SubmitComment(postID, authorID, content string) (string, CommentResolution) {
	tempID := f.nextTempID()
	originalDraft := f.commentDrafts[postID]

	f.comments[postID] = append(f.comments[postID], Comment{
		ID:        tempID,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		Pending:   true,
		CreatedAt: f.now(),
	})
	if p := f.find(postID); p != nil {
		p.CommentsCount++
	}
	delete(f.commentDrafts, postID)

	return tempID, func(confirmed *Comment, err error) {
		if err != nil {
			f.removeComment(postID, tempID)
			if p := f.find(postID); p != nil {
				p.CommentsCount--
			}
			f.commentDrafts[postID] = originalDraft
			f.noteAuthFailure(err)
			return
		}
		list := f.comments[postID]
		for i := range list {
			if list[i].ID == tempID && confirmed != nil {
				list[i] = *confirmed
				list[i].Pending = false
			}
		}
	}
}

func (f *Feed) flipLike(postID string) {
	p := f.find(postID)
	if p == nil {
		return
	}
	if p.HasReacted {
		p.HasReacted = false
		p.ReactionsCount--
	} else {
		p.HasReacted = true
		p.ReactionsCount++
	}
}

func (f *Feed) flipBookmark(postID string) {
	if p := f.find(postID); p != nil {
		p.HasBookmarked = !p.HasBookmarked
	}
}

func (f *Feed) noteAuthFailure(err error) {
	if errors.Is(err, feed.ErrAuthRequired) {
		f.signInPrompt = true
	}
}

func (f *Feed) find(postID string) *Post {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			return &f.posts[i]
		}
	}
	return nil
}

func (f *Feed) removePost(postID string) {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return
		}
	}
}

func (f *Feed) removeComment(postID, commentID string) {
	list := f.comments[postID]
	for i := range list {
		if list[i].ID == commentID {
			f.comments[postID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (f *Feed) nextTempID() string {
	f.tempSeq++
	return TempIDPrefix + strconv.Itoa(f.tempSeq)
}
