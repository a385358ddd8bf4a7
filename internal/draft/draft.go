package draft

import (
	"errors"
	"slices"
	"time"
)

var ErrWrongPhase = errors.New("action not allowed in this state")
var ErrNotYourTurn = errors.New("not your turn")
var ErrChampionTaken = errors.New("champion already picked or banned")
var ErrNotCaptain = errors.New("only captains can start the draft")
var ErrUnknownAction = errors.New("invalid action")

type Team string

const (
	TeamBlue Team = "Blue"
	TeamRed  Team = "Red"
)

// Action is one of the five client-facing draft actions.
type Action string

const (
	ActionStart  Action = "Start"
	ActionBan    Action = "BanChampion"
	ActionSelect Action = "SelectChampion"
	ActionHover  Action = "Hover"
	ActionSync   Action = "Sync"
)

// Phase values are persisted on the lobby record; the strings are part of
// the store contract and must not change.
type Phase string

const (
	PhaseWaiting  Phase = "Waiting"
	PhaseBlueBan  Phase = "BlueTeamBan"
	PhaseRedBan   Phase = "RedTeamBan"
	PhaseBluePick Phase = "BlueTeamPick"
	PhaseRedPick  Phase = "RedTeamPick"
	PhaseFinished Phase = "Finished"
)

// Lobby is the single authoritative record for one champion-select session.
// The ban/pick slices are append-only while the draft runs; Turn only ever
// advances.
type Lobby struct {
	LobbyID           string    `json:"lobbyId"`
	BlueCaptain       string    `json:"blueCaptain"`
	RedCaptain        string    `json:"redCaptain"`
	Spectators        []string  `json:"spectators"`
	State             Phase     `json:"state"`
	Turn              int       `json:"turn"`
	PreBans           []string  `json:"preBans"`
	BlueTeamBans      []string  `json:"blueTeamBans"`
	RedTeamBans       []string  `json:"redTeamBans"`
	BlueTeamChampions []string  `json:"blueTeamChampions"`
	RedTeamChampions  []string  `json:"redTeamChampions"`
	Expiry            time.Time `json:"expiry"`
}

// NewLobby returns a lobby in the waiting state with empty rosters. preBans
// come from server configuration and are immutable for the lobby's lifetime.
func NewLobby(id string, preBans []string, expiry time.Time) *Lobby {
	return &Lobby{
		LobbyID:           id,
		Spectators:        []string{},
		State:             PhaseWaiting,
		PreBans:           slices.Clone(preBans),
		BlueTeamBans:      []string{},
		RedTeamBans:       []string{},
		BlueTeamChampions: []string{},
		RedTeamChampions:  []string{},
		Expiry:            expiry,
	}
}

func (l *Lobby) captainFor(t Team) string {
	if t == TeamBlue {
		return l.BlueCaptain
	}
	return l.RedCaptain
}

// championTaken spans pre-bans and both sides' bans and picks: once a
// champion appears anywhere it is unavailable for the rest of the draft.
func (l *Lobby) championTaken(id string) bool {
	return slices.Contains(l.PreBans, id) ||
		slices.Contains(l.BlueTeamBans, id) ||
		slices.Contains(l.RedTeamBans, id) ||
		slices.Contains(l.BlueTeamChampions, id) ||
		slices.Contains(l.RedTeamChampions, id)
}

// Command is an inbound action after the router has resolved its tag.
type Command struct {
	Action     Action
	ChampionID string
}

// Event is the broadcast derived from a successful command.
type Event struct {
	Action     Action `json:"action"`
	ChampionID string `json:"ChampionId,omitempty"`
	Team       Team   `json:"Team,omitempty"`
}

// Outcome tells the caller what Apply did. Event, when set, goes to every
// participant; Sync means reply to the requester with the full record.
type Outcome struct {
	Mutated bool
	Event   *Event
	Sync    bool
}

// Apply validates cmd against the lobby's current phase and, on success,
// mutates l in place. A non-nil error means l was not touched; the error
// text is the rejection sent back to the requester.
func Apply(l *Lobby, connID string, cmd Command) (Outcome, error) {
	switch cmd.Action {
	case ActionStart:
		return applyStart(l, connID)
	case ActionBan, ActionSelect:
		return applyBanOrPick(l, connID, cmd)
	case ActionHover:
		return applyHover(l, connID, cmd)
	case ActionSync:
		return Outcome{Sync: true}, nil
	default:
		return Outcome{}, ErrUnknownAction
	}
}

func applyStart(l *Lobby, connID string) (Outcome, error) {
	if l.State != PhaseWaiting {
		return Outcome{}, ErrWrongPhase
	}
	if connID != l.BlueCaptain && connID != l.RedCaptain {
		return Outcome{}, ErrNotCaptain
	}

	l.Turn = 0
	l.State = TurnOrder[0]
	return Outcome{Mutated: true, Event: &Event{Action: ActionStart}}, nil
}

func applyBanOrPick(l *Lobby, connID string, cmd Command) (Outcome, error) {
	rule, ok := phaseRules[l.State]
	if !ok || rule.Action != cmd.Action {
		return Outcome{}, ErrWrongPhase
	}
	if connID != l.captainFor(rule.Team) {
		return Outcome{}, ErrNotYourTurn
	}
	if l.championTaken(cmd.ChampionID) {
		return Outcome{}, ErrChampionTaken
	}

	switch l.State {
	case PhaseBlueBan:
		l.BlueTeamBans = append(l.BlueTeamBans, cmd.ChampionID)
	case PhaseRedBan:
		l.RedTeamBans = append(l.RedTeamBans, cmd.ChampionID)
	case PhaseBluePick:
		l.BlueTeamChampions = append(l.BlueTeamChampions, cmd.ChampionID)
	case PhaseRedPick:
		l.RedTeamChampions = append(l.RedTeamChampions, cmd.ChampionID)
	}

	l.Turn++
	if l.Turn >= len(TurnOrder) {
		l.State = PhaseFinished
	} else {
		l.State = TurnOrder[l.Turn]
	}

	return Outcome{
		Mutated: true,
		Event:   &Event{Action: cmd.Action, ChampionID: cmd.ChampionID, Team: rule.Team},
	}, nil
}

// Hover never mutates the lobby; it only fans out the acting captain's
// current cursor so everyone can see a preview before the lock-in.
func applyHover(l *Lobby, connID string, cmd Command) (Outcome, error) {
	rule, ok := phaseRules[l.State]
	if !ok {
		return Outcome{}, ErrWrongPhase
	}
	if connID != l.captainFor(rule.Team) {
		return Outcome{}, ErrNotYourTurn
	}
	return Outcome{
		Event: &Event{Action: ActionHover, ChampionID: cmd.ChampionID, Team: rule.Team},
	}, nil
}
