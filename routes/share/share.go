package shareroutes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"waggle/api"
	"waggle/constants"
	"waggle/feed"
	"waggle/session"
	"waggle/types"
)

func (router *Router) IssueShareToken(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(constants.BadRequest))
		return
	}

	var input struct {
		Channel types.ShareChannel `json:"channel"`
	}
	if !api.ReadJSON(router.Logger, w, r, &input) {
		return
	}

	token, err := router.Gateway.IssueShareToken(r.Context(), session.ActorID(r.Context()), postID, input.Channel)
	if err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusOK, api.Success("share token issued", map[string]string{"token": token}))
}

func (router *Router) RecordShareEvent(w http.ResponseWriter, r *http.Request) {
	var input feed.RecordShareEventInput
	if !api.ReadJSON(router.Logger, w, r, &input) {
		return
	}

	if err := router.Gateway.RecordShareEvent(r.Context(), session.ActorID(r.Context()), input); err != nil {
		api.WriteError(router.Logger, w, err)
		return
	}
	api.WriteJSON(router.Logger, w, http.StatusCreated, api.Success("share event recorded", nil))
}
