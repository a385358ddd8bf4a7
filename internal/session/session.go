// Package session keeps a lobby's roster fields consistent with the actual
// connection lifecycle: captain slots are first come first served, everyone
// else spectates.
package session

import (
	"slices"

	"github.com/draftforge/champ-select-backend/internal/draft"
)

type Role string

const (
	RoleBlueCaptain Role = "blue"
	RoleRedCaptain  Role = "red"
	RoleSpectator   Role = "spectator"
)

// ParseRole maps the transport's teamtype query value to a role. Anything
// other than blue or red, including absence, means spectator.
func ParseRole(teamType string) Role {
	switch teamType {
	case "blue":
		return RoleBlueCaptain
	case "red":
		return RoleRedCaptain
	default:
		return RoleSpectator
	}
}

// Join seats connID in the lobby. A requested captain slot that is already
// held demotes the joiner to spectator; the returned role is what was
// actually assigned.
func Join(l *draft.Lobby, connID string, requested Role) Role {
	switch {
	case requested == RoleBlueCaptain && l.BlueCaptain == "":
		l.BlueCaptain = connID
		return RoleBlueCaptain
	case requested == RoleRedCaptain && l.RedCaptain == "":
		l.RedCaptain = connID
		return RoleRedCaptain
	}

	if !slices.Contains(l.Spectators, connID) {
		l.Spectators = append(l.Spectators, connID)
	}
	return RoleSpectator
}

// Leave clears connID's seat. Idempotent: an id that holds no seat is a
// no-op. A captain leaving frees the slot for a later Join; the draft
// itself is not paused or reset.
func Leave(l *draft.Lobby, connID string) {
	switch connID {
	case l.BlueCaptain:
		l.BlueCaptain = ""
	case l.RedCaptain:
		l.RedCaptain = ""
	default:
		l.Spectators = slices.DeleteFunc(l.Spectators, func(id string) bool {
			return id == connID
		})
	}
}
