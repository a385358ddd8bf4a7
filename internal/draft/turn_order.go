package draft

// TurnOrder is the fixed tournament-draft sequence: opening ban phase, first
// pick phase, second ban phase, final pick phase. Turn indexes into it;
// turn == len(TurnOrder) means the draft is finished.
var TurnOrder = []Phase{
	// Ban phase 1
	PhaseBlueBan,
	PhaseRedBan,
	PhaseBlueBan,
	PhaseRedBan,
	PhaseBlueBan,
	PhaseRedBan,
	// Pick phase 1
	PhaseBluePick,
	PhaseRedPick,
	PhaseRedPick,
	PhaseBluePick,
	PhaseBluePick,
	PhaseRedPick,
	// Ban phase 2
	PhaseRedBan,
	PhaseBlueBan,
	PhaseRedBan,
	PhaseBlueBan,
	// Pick phase 2
	PhaseRedPick,
	PhaseBluePick,
	PhaseBluePick,
	PhaseRedPick,
}

// phaseRules maps each in-draft phase to the action it requires and the side
// whose captain must send it. Waiting and Finished have no entry: nothing is
// bannable or pickable there.
var phaseRules = map[Phase]struct {
	Action Action
	Team   Team
}{
	PhaseBlueBan:  {Action: ActionBan, Team: TeamBlue},
	PhaseRedBan:   {Action: ActionBan, Team: TeamRed},
	PhaseBluePick: {Action: ActionSelect, Team: TeamBlue},
	PhaseRedPick:  {Action: ActionSelect, Team: TeamRed},
}
