package feedroutes

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"waggle/database"
	"waggle/feed"
)

type Router struct {
	Gateway *feed.Gateway
	DB      *database.DB
	Logger  *zap.Logger
}

func (router *Router) Tag() (string, string) {
	return "Feed", "The social feed: posts, reels, quote-reposts, reactions, comments, follows and guilds."
}

func (router *Router) Routes(r chi.Router) {
	r.Get("/feed", router.GetFeed)

	r.Post("/posts", router.CreatePost)
	r.Post("/posts/video", router.CreateVideoPost)
	r.Get("/posts/{id}", router.GetPost)
	r.Post("/posts/{id}/quote", router.CreateQuoteRepost)
	r.Post("/posts/{id}/like", router.ToggleLike)
	r.Post("/posts/{id}/superlike", router.ToggleSuperLike)
	r.Post("/posts/{id}/bookmark", router.ToggleBookmark)
	r.Post("/posts/{id}/comments", router.AddComment)

	r.Post("/users/{id}/follow", router.ToggleFollowUser)
	r.Post("/producers/{id}/follow", router.ToggleFollowProducer)

	r.Post("/guilds/{id}/join", router.JoinGuild)
	r.Post("/guilds/{id}/leave", router.LeaveGuild)
}
