package feedroutes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"waggle/api"
	"waggle/constants"
	"waggle/feed"
	"waggle/session"
)

func (router *Router) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(constants.BadRequest))
		return uuid.Nil, false
	}
	return id, true
}

func (router *Router) toggleResponse(w http.ResponseWriter, active bool, err error) {
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusOK, api.Success("ok", map[string]bool{"active": active}))
}

func (router *Router) GetFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := router.DB.UserFeed(r.Context(), session.ActorID(r.Context()), 20)
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusOK, api.Success("ok", posts))
}

func (router *Router) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}

	post, err := router.DB.GetPost(r.Context(), id)
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusOK, api.Success("ok", post))
}

func (router *Router) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input feed.CreatePostInput
	if !api.ReadJSON(router.Logger, w, r, &input) {
		return
	}

	post, err := router.Gateway.CreatePost(r.Context(), session.ActorID(r.Context()), input)
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusCreated, api.Success("post created", post))
}

func (router *Router) CreateVideoPost(w http.ResponseWriter, r *http.Request) {
	var input feed.CreateVideoPostInput
	if !api.ReadJSON(router.Logger, w, r, &input) {
		return
	}

	post, err := router.Gateway.CreateVideoPost(r.Context(), session.ActorID(r.Context()), input)
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusCreated, api.Success("video post created", post))
}

func (router *Router) CreateQuoteRepost(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := router.pathID(w, r)
	if !ok {
		return
	}

	var input struct {
		Content  string   `json:"content"`
		Hashtags []string `json:"hashtags"`
	}
	if !api.ReadJSON(router.Logger, w, r, &input) {
		return
	}

	post, err := router.Gateway.CreateQuoteRepost(r.Context(), session.ActorID(r.Context()), sourceID, input.Content, input.Hashtags)
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusCreated, api.Success("quote repost created", post))
}

func (router *Router) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}
	active, err := router.Gateway.ToggleLike(r.Context(), session.ActorID(r.Context()), id)
	router.toggleResponse(w, active, err)
}

func (router *Router) ToggleSuperLike(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}
	active, err := router.Gateway.ToggleSuperLike(r.Context(), session.ActorID(r.Context()), id)
	router.toggleResponse(w, active, err)
}

func (router *Router) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}
	active, err := router.Gateway.ToggleBookmark(r.Context(), session.ActorID(r.Context()), id)
	router.toggleResponse(w, active, err)
}

func (router *Router) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if !api.ReadJSON(router.Logger, w, r, &input) {
		return
	}

	comment, err := router.Gateway.AddComment(r.Context(), session.ActorID(r.Context()), id, input.Content)
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusCreated, api.Success("comment added", comment))
}

func (router *Router) ToggleFollowUser(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}
	active, err := router.Gateway.ToggleFollowUser(r.Context(), session.ActorID(r.Context()), id)
	router.toggleResponse(w, active, err)
}

func (router *Router) ToggleFollowProducer(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}
	active, err := router.Gateway.ToggleFollowProducer(r.Context(), session.ActorID(r.Context()), id)
	router.toggleResponse(w, active, err)
}

func (router *Router) JoinGuild(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}
	if err := router.Gateway.JoinGuild(r.Context(), session.ActorID(r.Context()), id); err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusOK, api.Success("joined guild", nil))
}

func (router *Router) LeaveGuild(w http.ResponseWriter, r *http.Request) {
	id, ok := router.pathID(w, r)
	if !ok {
		return
	}
	if err := router.Gateway.LeaveGuild(r.Context(), session.ActorID(r.Context()), id); err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusOK, api.Success("left guild", nil))
}
