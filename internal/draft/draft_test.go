package draft

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func newTestLobby() *Lobby {
	l := NewLobby("test-lobby", nil, time.Now().Add(time.Hour))
	l.BlueCaptain = "blue-conn"
	l.RedCaptain = "red-conn"
	l.Spectators = []string{"spec-1"}
	return l
}

func startedLobby(t *testing.T) *Lobby {
	t.Helper()
	l := newTestLobby()
	if _, err := Apply(l, "blue-conn", Command{Action: ActionStart}); err != nil {
		t.Fatalf("start: %v", err)
	}
	return l
}

func TestStart(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(*Lobby)
		connID  string
		wantErr error
	}{
		{
			name:   "blue captain can start",
			connID: "blue-conn",
		},
		{
			name:   "red captain can start",
			connID: "red-conn",
		},
		{
			name:    "spectator cannot start",
			connID:  "spec-1",
			wantErr: ErrNotCaptain,
		},
		{
			name:    "start twice is rejected",
			setup:   func(l *Lobby) { _, _ = Apply(l, "blue-conn", Command{Action: ActionStart}) },
			connID:  "blue-conn",
			wantErr: ErrWrongPhase,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLobby()
			if tc.setup != nil {
				tc.setup(l)
			}
			before := *l

			out, err := Apply(l, tc.connID, Command{Action: ActionStart})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				if l.Turn != before.Turn || l.State != before.State {
					t.Fatalf("rejected start mutated lobby: %+v", l)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if l.Turn != 0 || l.State != TurnOrder[0] {
				t.Fatalf("after start: turn=%d state=%s", l.Turn, l.State)
			}
			if out.Event == nil || out.Event.Action != ActionStart {
				t.Fatalf("expected Start broadcast, got %+v", out.Event)
			}
		})
	}
}

func TestBanAdvancesTurn(t *testing.T) {
	l := startedLobby(t)

	out, err := Apply(l, "blue-conn", Command{Action: ActionBan, ChampionID: "Ahri"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(l.BlueTeamBans) != 1 || l.BlueTeamBans[0] != "Ahri" {
		t.Fatalf("blue bans: %+v", l.BlueTeamBans)
	}
	if l.Turn != 1 || l.State != PhaseRedBan {
		t.Fatalf("after ban: turn=%d state=%s", l.Turn, l.State)
	}
	want := Event{Action: ActionBan, ChampionID: "Ahri", Team: TeamBlue}
	if out.Event == nil || *out.Event != want {
		t.Fatalf("broadcast: got %+v, want %+v", out.Event, want)
	}
}

func TestRejections(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(*Lobby)
		connID  string
		cmd     Command
		wantErr error
	}{
		{
			name:    "ban before start",
			setup:   func(l *Lobby) { l.State = PhaseWaiting },
			connID:  "blue-conn",
			cmd:     Command{Action: ActionBan, ChampionID: "Ahri"},
			wantErr: ErrWrongPhase,
		},
		{
			name:    "pick during ban phase",
			connID:  "blue-conn",
			cmd:     Command{Action: ActionSelect, ChampionID: "Ahri"},
			wantErr: ErrWrongPhase,
		},
		{
			name:    "red captain acting on blue turn",
			connID:  "red-conn",
			cmd:     Command{Action: ActionBan, ChampionID: "Ahri"},
			wantErr: ErrNotYourTurn,
		},
		{
			name:    "spectator can never act",
			connID:  "spec-1",
			cmd:     Command{Action: ActionBan, ChampionID: "Ahri"},
			wantErr: ErrNotYourTurn,
		},
		{
			name:    "ban a champion banned by the other side",
			setup:   func(l *Lobby) { l.RedTeamBans = append(l.RedTeamBans, "Ahri") },
			connID:  "blue-conn",
			cmd:     Command{Action: ActionBan, ChampionID: "Ahri"},
			wantErr: ErrChampionTaken,
		},
		{
			name: "pick a champion present in bans",
			setup: func(l *Lobby) {
				l.BlueTeamBans = append(l.BlueTeamBans, "Yasuo")
				l.Turn = 6
				l.State = TurnOrder[6]
			},
			connID:  "blue-conn",
			cmd:     Command{Action: ActionSelect, ChampionID: "Yasuo"},
			wantErr: ErrChampionTaken,
		},
		{
			name:    "ban a pre-banned champion",
			setup:   func(l *Lobby) { l.PreBans = []string{"Zed"} },
			connID:  "blue-conn",
			cmd:     Command{Action: ActionBan, ChampionID: "Zed"},
			wantErr: ErrChampionTaken,
		},
		{
			name:    "hover from the wrong captain",
			connID:  "red-conn",
			cmd:     Command{Action: ActionHover, ChampionID: "Ahri"},
			wantErr: ErrNotYourTurn,
		},
		{
			name:    "unknown action tag",
			connID:  "blue-conn",
			cmd:     Command{Action: "DeleteLobby"},
			wantErr: ErrUnknownAction,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := startedLobby(t)
			if tc.setup != nil {
				tc.setup(l)
			}
			before := *l

			out, err := Apply(l, tc.connID, tc.cmd)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if out.Event != nil || out.Mutated {
				t.Fatalf("rejection produced outcome: %+v", out)
			}
			if l.Turn != before.Turn || l.State != before.State {
				t.Fatalf("rejection mutated lobby: %+v", l)
			}
		})
	}
}

func TestHoverBroadcastsWithoutMutation(t *testing.T) {
	l := startedLobby(t)

	out, err := Apply(l, "blue-conn", Command{Action: ActionHover, ChampionID: "Ahri"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Mutated {
		t.Fatalf("hover must not mutate")
	}
	want := Event{Action: ActionHover, ChampionID: "Ahri", Team: TeamBlue}
	if out.Event == nil || *out.Event != want {
		t.Fatalf("broadcast: got %+v, want %+v", out.Event, want)
	}
	if len(l.BlueTeamBans) != 0 || l.Turn != 0 {
		t.Fatalf("hover mutated lobby: %+v", l)
	}
}

func TestSyncIsReplyOnly(t *testing.T) {
	l := startedLobby(t)

	out, err := Apply(l, "spec-1", Command{Action: ActionSync})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.Sync || out.Mutated || out.Event != nil {
		t.Fatalf("sync outcome: %+v", out)
	}
}

// Walks the full turn order with legal commands and checks the invariants
// that hold for any valid run: no champion ever repeats, the turn index
// never decreases, and the draft lands in Finished.
func TestFullDraftRun(t *testing.T) {
	l := startedLobby(t)
	l.PreBans = []string{"pre-1", "pre-2"}

	for i, phase := range TurnOrder {
		rule := phaseRules[phase]
		connID := "blue-conn"
		if rule.Team == TeamRed {
			connID = "red-conn"
		}

		prevTurn := l.Turn
		champ := fmt.Sprintf("champ-%02d", i)
		_, err := Apply(l, connID, Command{Action: rule.Action, ChampionID: champ})
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, phase, err)
		}
		if l.Turn <= prevTurn {
			t.Fatalf("step %d: turn went from %d to %d", i, prevTurn, l.Turn)
		}
	}

	if l.State != PhaseFinished || l.Turn != len(TurnOrder) {
		t.Fatalf("after full run: turn=%d state=%s", l.Turn, l.State)
	}
	if len(l.BlueTeamBans)+len(l.RedTeamBans) != 10 {
		t.Fatalf("bans: %d blue, %d red", len(l.BlueTeamBans), len(l.RedTeamBans))
	}
	if len(l.BlueTeamChampions) != 5 || len(l.RedTeamChampions) != 5 {
		t.Fatalf("picks: %d blue, %d red", len(l.BlueTeamChampions), len(l.RedTeamChampions))
	}

	seen := map[string]bool{}
	for _, list := range [][]string{l.BlueTeamBans, l.RedTeamBans, l.BlueTeamChampions, l.RedTeamChampions} {
		for _, id := range list {
			if seen[id] {
				t.Fatalf("champion %s appears twice", id)
			}
			seen[id] = true
		}
	}

	// Terminal state: nothing else goes through.
	_, err := Apply(l, "blue-conn", Command{Action: ActionBan, ChampionID: "late"})
	if !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("ban after finish: want ErrWrongPhase, got %v", err)
	}
	_, err = Apply(l, "red-conn", Command{Action: ActionSelect, ChampionID: "late"})
	if !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("pick after finish: want ErrWrongPhase, got %v", err)
	}
}

func TestTurnOrderShape(t *testing.T) {
	bans := map[Team]int{}
	picks := map[Team]int{}
	for _, phase := range TurnOrder {
		rule := phaseRules[phase]
		if rule.Action == ActionBan {
			bans[rule.Team]++
		} else {
			picks[rule.Team]++
		}
	}
	if bans[TeamBlue] != 5 || bans[TeamRed] != 5 {
		t.Fatalf("bans per side: %+v", bans)
	}
	if picks[TeamBlue] != 5 || picks[TeamRed] != 5 {
		t.Fatalf("picks per side: %+v", picks)
	}
}
