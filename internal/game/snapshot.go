package game

// Snapshot is the per-seat view of the game broadcast after every accepted
// intent. Only the viewer's own hand is revealed; other hands show counts.
type Snapshot struct {
	Phase          Phase       `json:"phase"`
	Active         int         `json:"active_seat"`
	Turn           int         `json:"turn"`
	Seat           int         `json:"seat"`
	Hand           []Card      `json:"hand"`
	HandCounts     [4]int      `json:"hand_counts"`
	Marbles        []Marble    `json:"marbles"`
	SelectedCard   *Card       `json:"selected_card,omitempty"`
	SelectedMarble int         `json:"selected_marble"`
	SplitRemaining int         `json:"split_remaining,omitempty"`
	DiscardSeat    int         `json:"discard_seat"`
	DeckRemaining  int         `json:"deck_remaining"`
	Winner         *Color      `json:"winner,omitempty"`
	Candidates     []Candidate `json:"candidates,omitempty"`
}

// SnapshotFor builds seat's view. The active seat additionally receives the
// valid candidates for its currently selected card, so clients never have
// to re-derive legality.
func (g *Game) SnapshotFor(seat int) Snapshot {
	s := Snapshot{
		Phase:          g.Phase,
		Active:         g.Active,
		Turn:           g.Turn,
		Seat:           seat,
		SelectedMarble: g.sel.Marble,
		SplitRemaining: g.splitRemaining,
		DiscardSeat:    g.discardSeat,
		DeckRemaining:  len(g.deck),
		Winner:         g.winner,
	}

	s.Hand = append(s.Hand, g.Players[seat].Hand...)
	for i, p := range g.Players {
		s.HandCounts[i] = len(p.Hand)
	}
	for _, m := range g.Marbles {
		s.Marbles = append(s.Marbles, *m)
	}

	if seat == g.Active && g.sel.Card != nil {
		card := *g.sel.Card
		s.SelectedCard = &card
		steps := 0
		if g.Phase == PhaseHandlingSplit7 {
			steps = g.sel.Steps
			if steps == 0 {
				steps = g.splitRemaining
			}
		}
		s.Candidates = g.ValidCandidates(seat, card, nil, steps)
	}
	return s
}
