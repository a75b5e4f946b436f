package shareroutes

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"waggle/feed"
)

type Router struct {
	Gateway *feed.Gateway
	Logger  *zap.Logger
}

func (router *Router) Tag() (string, string) {
	return "Share", "Signed share tokens and the share attribution funnel."
}

func (router *Router) Routes(r chi.Router) {
	r.Post("/posts/{id}/share/token", router.IssueShareToken)
	r.Post("/share/events", router.RecordShareEvent)
}
