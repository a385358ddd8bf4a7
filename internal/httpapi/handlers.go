package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/draftforge/champ-select-backend/internal/config"
	"github.com/draftforge/champ-select-backend/internal/draft"
	"github.com/draftforge/champ-select-backend/internal/store"
)

func CreateLobby(st store.Store, cfg config.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := draft.NewLobby(uuid.NewString(), cfg.PreBans, time.Now().Add(cfg.LobbyTTL))

		if err := st.Put(r.Context(), l); err != nil {
			log.Error("create lobby failed", zap.Error(err))
			http.Error(w, "failed to create lobby", http.StatusInternalServerError)
			return
		}

		log.Info("lobby created", zap.String("lobby_id", l.LobbyID))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			LobbyID string `json:"lobbyId"`
		}{LobbyID: l.LobbyID})
	}
}

func ListLobbies(st store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobbies, err := st.List(r.Context())
		if err != nil {
			log.Error("list lobbies failed", zap.Error(err))
			http.Error(w, "failed to list lobbies", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Lobbies []*draft.Lobby `json:"lobbies"`
		}{Lobbies: lobbies})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
