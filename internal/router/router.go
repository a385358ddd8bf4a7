// Package router is the single entry point for inbound lobby traffic. Each
// message runs load -> validate -> mutate -> persist -> broadcast under a
// per-lobby lock; messages for distinct lobbies never contend.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/draftforge/champ-select-backend/internal/draft"
	"github.com/draftforge/champ-select-backend/internal/session"
	"github.com/draftforge/champ-select-backend/internal/store"
	"github.com/draftforge/champ-select-backend/internal/types"
)

// Broadcaster delivers a payload to one named connection. A delivery failure
// concerns that recipient only.
type Broadcaster interface {
	Send(connID string, payload []byte) error
}

type Router struct {
	store store.Store
	bcast Broadcaster
	log   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(st store.Store, b Broadcaster, log *zap.Logger) *Router {
	return &Router{
		store: st,
		bcast: b,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// lobbyLock returns the mutex guarding lobbyID's read-modify-write cycle.
func (r *Router) lobbyLock(lobbyID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, ok := r.locks[lobbyID]
	if !ok {
		mu = &sync.Mutex{}
		r.locks[lobbyID] = mu
	}
	return mu
}

// Connect seats a new connection in the lobby and persists the roster
// change. The returned role may differ from the requested one when a
// captain slot is already held.
func (r *Router) Connect(ctx context.Context, lobbyID, connID string, requested session.Role) (session.Role, error) {
	mu := r.lobbyLock(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, err := r.store.Get(ctx, lobbyID)
	if err != nil {
		return "", err
	}

	role := session.Join(l, connID, requested)
	if err := r.store.Put(ctx, l); err != nil {
		return "", err
	}

	r.log.Info("connection joined",
		zap.String("lobby_id", lobbyID),
		zap.String("conn_id", connID),
		zap.String("role", string(role)))
	return role, nil
}

// Disconnect clears the connection's seat. A lobby that already expired is
// not an error; there is nothing left to clean up.
func (r *Router) Disconnect(ctx context.Context, lobbyID, connID string) error {
	mu := r.lobbyLock(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, err := r.store.Get(ctx, lobbyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	session.Leave(l, connID)
	if err := r.store.Put(ctx, l); err != nil {
		return err
	}

	r.log.Info("connection left",
		zap.String("lobby_id", lobbyID),
		zap.String("conn_id", connID))
	return nil
}

// HandleMessage dispatches one inbound frame from connID. All outcomes,
// including rejections, are delivered through the Broadcaster; the method
// itself never fails the connection.
func (r *Router) HandleMessage(ctx context.Context, lobbyID, connID string, msg types.ClientMessage) {
	log := r.log.With(zap.String("lobby_id", lobbyID), zap.String("conn_id", connID))

	cmd, ok := commandFor(msg)
	if !ok {
		r.reply(connID, "invalid action", log)
		return
	}

	mu := r.lobbyLock(lobbyID)
	mu.Lock()
	defer mu.Unlock()

	l, err := r.store.Get(ctx, lobbyID)
	if errors.Is(err, store.ErrNotFound) {
		r.reply(connID, "no lobby found", log)
		return
	}
	if err != nil {
		log.Error("load lobby failed", zap.Error(err))
		r.reply(connID, "internal error", log)
		return
	}

	out, err := draft.Apply(l, connID, cmd)
	if err != nil {
		log.Info("action rejected",
			zap.String("action", msg.Action),
			zap.String("reason", err.Error()))
		r.reply(connID, err.Error(), log)
		return
	}

	// Persist happens-before broadcast: never announce a state change that
	// did not make it to the store.
	if out.Mutated {
		if err := r.store.Put(ctx, l); err != nil {
			log.Error("persist lobby failed", zap.Error(err))
			r.reply(connID, "internal error", log)
			return
		}
	}

	if out.Sync {
		payload, err := json.Marshal(types.SyncReply{
			Lobby:        *l,
			ConnectionID: connID,
			Action:       string(draft.ActionSync),
		})
		if err != nil {
			log.Error("encode sync reply failed", zap.Error(err))
			return
		}
		r.send(connID, payload, log)
		return
	}

	if out.Event != nil {
		payload, err := json.Marshal(out.Event)
		if err != nil {
			log.Error("encode broadcast failed", zap.Error(err))
			return
		}
		for _, id := range recipients(l) {
			r.send(id, payload, log)
		}
	}
}

// commandFor resolves the inbound action tag against the closed set of known
// actions. Champion-carrying actions must actually carry one.
func commandFor(msg types.ClientMessage) (draft.Command, bool) {
	switch draft.Action(msg.Action) {
	case draft.ActionStart, draft.ActionSync:
		return draft.Command{Action: draft.Action(msg.Action)}, true
	case draft.ActionBan, draft.ActionSelect, draft.ActionHover:
		if msg.ChampionID == "" {
			return draft.Command{}, false
		}
		return draft.Command{Action: draft.Action(msg.Action), ChampionID: msg.ChampionID}, true
	default:
		return draft.Command{}, false
	}
}

// recipients is recomputed from the loaded record on every message, never
// cached across messages.
func recipients(l *draft.Lobby) []string {
	ids := make([]string, 0, len(l.Spectators)+2)
	if l.BlueCaptain != "" {
		ids = append(ids, l.BlueCaptain)
	}
	if l.RedCaptain != "" {
		ids = append(ids, l.RedCaptain)
	}
	ids = append(ids, l.Spectators...)
	return ids
}

func (r *Router) reply(connID, text string, log *zap.Logger) {
	payload, err := json.Marshal(types.ErrorMessage{Action: "Error", Error: text})
	if err != nil {
		log.Error("encode error reply failed", zap.Error(err))
		return
	}
	r.send(connID, payload, log)
}

// send delivers to one recipient; failures are logged and skipped so the
// remaining recipients still get theirs.
func (r *Router) send(connID string, payload []byte, log *zap.Logger) {
	if err := r.bcast.Send(connID, payload); err != nil {
		log.Warn("delivery failed",
			zap.String("recipient", connID),
			zap.Error(err))
	}
}
