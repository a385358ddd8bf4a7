package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/draftforge/champ-select-backend/internal/registry"
	"github.com/draftforge/champ-select-backend/internal/router"
	"github.com/draftforge/champ-select-backend/internal/session"
	"github.com/draftforge/champ-select-backend/internal/store"
	"github.com/draftforge/champ-select-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection, seats it in the lobby named by the
// lobbyid query param, and bridges socket frames to the router. teamtype
// (blue|red, absent means spectator) is a request, not a guarantee; the
// assigned role comes back in the first frame.
func Handler(rt *router.Router, reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobbyID := r.URL.Query().Get("lobbyid")
		if lobbyID == "" {
			http.Error(w, "missing lobbyid", http.StatusBadRequest)
			return
		}
		requested := session.ParseRole(r.URL.Query().Get("teamtype"))

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()

		role, err := rt.Connect(r.Context(), lobbyID, connID, requested)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				conn.Close(websocket.StatusPolicyViolation, "no lobby found")
			} else {
				log.Error("join failed", zap.String("lobby_id", lobbyID), zap.Error(err))
				conn.Close(websocket.StatusInternalError, "internal error")
			}
			return
		}

		out := reg.Add(connID)
		defer func() {
			reg.Remove(connID)
			// The request context is gone once the socket closes; the seat
			// still has to be cleared.
			if err := rt.Disconnect(context.Background(), lobbyID, connID); err != nil {
				log.Error("leave failed", zap.String("lobby_id", lobbyID), zap.Error(err))
			}
		}()

		writeFrame(r.Context(), conn, types.RoleMessage{Action: "Role", Role: string(role)})

		// Writer goroutine: drains the registry outbox until it closes.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for payload := range out {
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var msg types.ClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				writeFrame(r.Context(), conn, types.ErrorMessage{Action: "Error", Error: "bad json"})
				continue
			}
			if msg.LobbyID == "" {
				msg.LobbyID = lobbyID
			}

			rt.HandleMessage(r.Context(), msg.LobbyID, connID, msg)
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
