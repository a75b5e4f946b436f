package optimistic

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waggle/feed"
)

func seedFeed() *Feed {
	return NewFeed([]Post{
		{ID: "p1", Content: "first", ReactionsCount: 3},
		{ID: "p2", Content: "second", ReactionsCount: 0, CommentsCount: 1},
	})
}

func TestToggleLike_ImmediateFlip(t *testing.T) {
	f := seedFeed()

	f.ToggleLike("p1")

	p, ok := f.Post("p1")
	require.True(t, ok)
	assert.True(t, p.HasReacted)
	assert.Equal(t, 4, p.ReactionsCount)
}

func TestToggleLike_TwiceReturnsToOriginal(t *testing.T) {
	f := seedFeed()

	f.ToggleLike("p1")(nil)
	f.ToggleLike("p1")(nil)

	p, _ := f.Post("p1")
	assert.False(t, p.HasReacted)
	assert.Equal(t, 3, p.ReactionsCount)
}

func TestToggleLike_RollbackIsASecondFlip(t *testing.T) {
	f := seedFeed()

	resolve := f.ToggleLike("p1")
	resolve(errors.New("network down"))

	p, _ := f.Post("p1")
	assert.False(t, p.HasReacted)
	assert.Equal(t, 3, p.ReactionsCount)
	assert.False(t, f.SignInPrompted())
}

func TestToggleLike_AuthFailurePromptsSignIn(t *testing.T) {
	f := seedFeed()

	f.ToggleLike("p1")(feed.ErrAuthRequired)

	p, _ := f.Post("p1")
	assert.False(t, p.HasReacted)
	assert.True(t, f.SignInPrompted())

	f.ClearSignInPrompt()
	assert.False(t, f.SignInPrompted())
}

func TestToggleBookmark_FlipAndRollback(t *testing.T) {
	f := seedFeed()

	resolve := f.ToggleBookmark("p2")
	p, _ := f.Post("p2")
	assert.True(t, p.HasBookmarked)

	resolve(errors.New("boom"))
	p, _ = f.Post("p2")
	assert.False(t, p.HasBookmarked)
}

func TestSubmitPost_OptimisticPrepend(t *testing.T) {
	f := seedFeed()
	f.SetDraft("hello #bees")

	tempID, resolve := f.SubmitPost("user-1", "hello #bees", nil)

	assert.True(t, strings.HasPrefix(tempID, TempIDPrefix))
	posts := f.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, tempID, posts[0].ID)
	assert.True(t, posts[0].Pending)
	assert.Empty(t, f.Draft(), "compose box clears on submit")

	confirmed := Post{ID: "server-9", AuthorID: "user-1", Content: "hello #bees"}
	resolve(&confirmed, nil)

	posts = f.Posts()
	assert.Equal(t, "server-9", posts[0].ID)
	assert.False(t, posts[0].Pending)
}

func TestSubmitPost_FailureRestoresDraft(t *testing.T) {
	f := seedFeed()
	f.SetDraft("my precious words")

	tempID, resolve := f.SubmitPost("user-1", "my precious words", nil)
	resolve(nil, errors.New("rejected"))

	for _, p := range f.Posts() {
		assert.NotEqual(t, tempID, p.ID, "synthetic post must be filtered out")
	}
	assert.Len(t, f.Posts(), 2)
	assert.Equal(t, "my precious words", f.Draft(), "user input must not be lost")
}

func TestSubmitComment_OptimisticAppend(t *testing.T) {
	f := seedFeed()

	tempID, resolve := f.SubmitComment("p2", "user-1", "great point")

	comments := f.Comments("p2")
	require.Len(t, comments, 1)
	assert.Equal(t, tempID, comments[0].ID)
	assert.True(t, strings.HasPrefix(comments[0].ID, TempIDPrefix))

	p, _ := f.Post("p2")
	assert.Equal(t, 2, p.CommentsCount)

	resolve(&Comment{ID: "c-77", PostID: "p2", Content: "great point"}, nil)
	comments = f.Comments("p2")
	require.Len(t, comments, 1)
	assert.Equal(t, "c-77", comments[0].ID)
	assert.False(t, comments[0].Pending)
}

func TestSubmitComment_FailureRollsBackListCountAndDraft(t *testing.T) {
	f := seedFeed()
	f.SetCommentDraft("p2", "typed with love")

	before := len(f.Comments("p2"))
	_, resolve := f.SubmitComment("p2", "user-1", "typed with love")
	resolve(nil, errors.New("network failure"))

	assert.Len(t, f.Comments("p2"), before, "comment list returns to pre-action length")
	p, _ := f.Post("p2")
	assert.Equal(t, 1, p.CommentsCount)
	assert.Equal(t, "typed with love", f.CommentDraft("p2"))
}

func TestOverlappingToggles_LastResolvedWins(t *testing.T) {
	f := seedFeed()

	// Two rapid toggles; both requests fail, both rollbacks re-flip.
	first := f.ToggleLike("p1")
	second := f.ToggleLike("p1")

	p, _ := f.Post("p1")
	assert.False(t, p.HasReacted, "two optimistic flips cancel out")

	// Out-of-order resolution: each callback applies its own flip
	// independent of global sequence.
	second(errors.New("late failure"))
	first(errors.New("later failure"))

	p, _ = f.Post("p1")
	assert.False(t, p.HasReacted)
	assert.Equal(t, 3, p.ReactionsCount)
}

func TestTempIDsAreUnique(t *testing.T) {
	f := seedFeed()

	a, _ := f.SubmitPost("u", "one", nil)
	b, _ := f.SubmitPost("u", "two", nil)
	assert.NotEqual(t, a, b)
}
