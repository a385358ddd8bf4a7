package types

import "github.com/draftforge/champ-select-backend/internal/draft"

// ClientMessage is the inbound frame from any connected participant. The
// field casing is part of the wire contract.
type ClientMessage struct {
	LobbyID    string `json:"LobbyId"`
	Action     string `json:"action"`
	ChampionID string `json:"ChampionId,omitempty"`
}

// ErrorMessage is a rejection sent to the requesting connection only.
type ErrorMessage struct {
	Action string `json:"action"` // always "Error"
	Error  string `json:"error"`
}

// SyncReply is the full lobby record plus the requester's own connection id.
type SyncReply struct {
	draft.Lobby
	ConnectionID string `json:"connectionId"`
	Action       string `json:"action"` // always "Sync"
}

// RoleMessage tells a freshly joined connection which seat it was given.
type RoleMessage struct {
	Action string `json:"action"` // always "Role"
	Role   string `json:"role"`
}
