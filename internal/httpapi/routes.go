package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/draftforge/champ-select-backend/internal/config"
	"github.com/draftforge/champ-select-backend/internal/registry"
	"github.com/draftforge/champ-select-backend/internal/router"
	"github.com/draftforge/champ-select-backend/internal/store"
	"github.com/draftforge/champ-select-backend/internal/ws"
)

func SetupRoutes(st store.Store, rt *router.Router, reg *registry.Registry, cfg config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/lobbies", CreateLobby(st, cfg, log))
	r.Get("/lobbies", ListLobbies(st, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(rt, reg, log))
	return r
}
