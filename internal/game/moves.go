package game

// Move candidate generation. Candidates(...) is a pure read of the game
// state: it never mutates marbles, hands or phase, and is deterministic for
// a given input. Candidates come back as an unordered set; consumers that
// need "the best" impose their own ranking (see ai.go).

type MoveKind string

const (
	MoveStandard     MoveKind = "standard"
	MoveBaseExit     MoveKind = "base_exit"
	MoveSwap         MoveKind = "swap"
	MoveForceDiscard MoveKind = "force_discard"
)

// Fields named by an invalid candidate, so rejections can tell the caller
// exactly which part of their input failed.
const (
	FieldCard   = "card"
	FieldMarble = "marble"
	FieldTarget = "target"
)

// Candidate is one proposed action for a (seat, card) pair, legal or not.
// Invalid candidates carry the name of the offending input field.
type Candidate struct {
	Kind     MoveKind `json:"kind"`
	Card     Card     `json:"card"`
	MarbleID int      `json:"marble_id"` // -1 for force-discard
	Target   Position `json:"target"`
	Steps    int      `json:"steps"`
	Captures []int    `json:"captures,omitempty"`  // marble IDs sent home
	SwapWith int      `json:"swap_with"`           // counterpart marble ID, -1 unless swap
	AttackAt int      `json:"attack_at"`           // seat forced to discard, -1 unless force-discard
	Valid    bool     `json:"valid"`
	Invalid  string   `json:"invalid_field,omitempty"`
}

func invalidCandidate(kind MoveKind, card Card, marbleID int, field string) Candidate {
	return Candidate{Kind: kind, Card: card, MarbleID: marbleID, SwapWith: -1, AttackAt: -1, Invalid: field}
}

// Candidates generates every move candidate for seat playing card. A non-nil
// marble restricts generation to that marble. steps is only meaningful for
// the split rank and defaults to the card's full value when zero.
func (g *Game) Candidates(seat int, card Card, marble *Marble, steps int) []Candidate {
	player := g.Players[seat]
	var out []Candidate

	marbles := make([]*Marble, 0, MarblesPerCol)
	if marble != nil {
		marbles = append(marbles, marble)
	} else {
		for _, m := range g.Marbles {
			if m.Color == player.Color {
				marbles = append(marbles, m)
			}
		}
	}

	switch {
	case card.IsSwap():
		out = append(out, g.swapCandidates(card, marbles)...)

	case card.IsSplit():
		n := steps
		if n == 0 {
			n = card.Steps()
		}
		if n < 1 || n > card.Steps() {
			out = append(out, invalidCandidate(MoveStandard, card, -1, FieldCard))
			break
		}
		for _, m := range marbles {
			out = append(out, g.forwardCandidate(card, m, n))
		}

	default:
		for _, m := range marbles {
			if m.Pos.Kind == InBase {
				if card.IsEntry() {
					out = append(out, g.baseExitCandidate(card, m))
				} else {
					out = append(out, invalidCandidate(MoveStandard, card, m.ID, FieldMarble))
				}
				continue
			}
			if card.IsBackward() {
				out = append(out, g.backwardCandidate(card, m))
			} else {
				out = append(out, g.forwardCandidate(card, m, card.Steps()))
			}
		}
	}

	// attack candidates are marble-less, so they only belong to the
	// unrestricted listing
	if card.IsAttack() && marble == nil {
		out = append(out, g.forceDiscardCandidates(seat, card)...)
	}

	return out
}

// ValidCandidates filters Candidates down to the legal ones.
func (g *Game) ValidCandidates(seat int, card Card, marble *Marble, steps int) []Candidate {
	var out []Candidate
	for _, c := range g.Candidates(seat, card, marble, steps) {
		if c.Valid {
			out = append(out, c)
		}
	}
	return out
}

// HasAnyMove reports whether any card in seat's hand yields a legal
// candidate. Used for the forced-burn rule.
func (g *Game) HasAnyMove(seat int) bool {
	for _, card := range g.Players[seat].Hand {
		if card.IsSplit() {
			if g.hasSplitContinuation(seat, card, card.Steps(), nil) {
				return true
			}
			continue
		}
		if len(g.ValidCandidates(seat, card, nil, 0)) > 0 {
			return true
		}
	}
	return false
}

// hasSplitContinuation reports whether any allocation of 1..remaining steps
// to an eligible marble is legal. moved restricts eligible marbles once two
// distinct marbles have been used.
func (g *Game) hasSplitContinuation(seat int, card Card, remaining int, eligible []*Marble) bool {
	for n := remaining; n >= 1; n-- {
		if eligible == nil {
			if len(g.ValidCandidates(seat, card, nil, n)) > 0 {
				return true
			}
			continue
		}
		for _, m := range eligible {
			if len(g.ValidCandidates(seat, card, m, n)) > 0 {
				return true
			}
		}
	}
	return false
}

// forwardCandidate moves m forward n cells along track -> home path -> home.
func (g *Game) forwardCandidate(card Card, m *Marble, n int) Candidate {
	target, ok := forwardTarget(m, n)
	if !ok {
		return invalidCandidate(MoveStandard, card, m.ID, FieldMarble)
	}
	return g.landingCandidate(MoveStandard, card, m, target, n)
}

// backwardCandidate moves m four cells counter-clockwise on the track.
func (g *Game) backwardCandidate(card Card, m *Marble) Candidate {
	if m.Pos.Kind != OnTrack {
		return invalidCandidate(MoveStandard, card, m.ID, FieldMarble)
	}
	target := TrackPos((m.Pos.Index - card.Steps() + TrackLen) % TrackLen)
	return g.landingCandidate(MoveStandard, card, m, target, card.Steps())
}

func (g *Game) baseExitCandidate(card Card, m *Marble) Candidate {
	return g.landingCandidate(MoveBaseExit, card, m, TrackPos(m.Color.StartIndex()), 0)
}

// landingCandidate applies the shared landing rules: own color blocks, an
// opposing marble is captured unless it sits on its own start cell.
func (g *Game) landingCandidate(kind MoveKind, card Card, m *Marble, target Position, steps int) Candidate {
	c := Candidate{Kind: kind, Card: card, MarbleID: m.ID, Target: target, Steps: steps, SwapWith: -1, AttackAt: -1}

	occ := g.occupantAt(target)
	if occ != nil {
		if occ.Color == m.Color {
			c.Invalid = FieldTarget
			return c
		}
		if onOwnStart(occ) {
			c.Invalid = FieldTarget
			return c
		}
		c.Captures = []int{occ.ID}
	}
	c.Valid = true
	return c
}

// swapCandidates pairs each eligible own marble with every opposing track
// marble. Marbles on their own start cell are exempt on both sides.
func (g *Game) swapCandidates(card Card, own []*Marble) []Candidate {
	var out []Candidate
	for _, m := range own {
		if m.Pos.Kind != OnTrack {
			out = append(out, invalidCandidate(MoveSwap, card, m.ID, FieldMarble))
			continue
		}
		if onOwnStart(m) {
			out = append(out, invalidCandidate(MoveSwap, card, m.ID, FieldMarble))
			continue
		}
		for _, other := range g.Marbles {
			if other.Color == m.Color || other.Pos.Kind != OnTrack {
				continue
			}
			c := Candidate{Kind: MoveSwap, Card: card, MarbleID: m.ID, Target: other.Pos, SwapWith: other.ID, AttackAt: -1}
			if onOwnStart(other) {
				c.Invalid = FieldTarget
			} else {
				c.Valid = true
			}
			out = append(out, c)
		}
	}
	return out
}

// forceDiscardCandidates emits one attack candidate per opponent holding at
// least one card.
func (g *Game) forceDiscardCandidates(seat int, card Card) []Candidate {
	var out []Candidate
	for s := 0; s < NumSeats; s++ {
		if s == seat {
			continue
		}
		c := Candidate{Kind: MoveForceDiscard, Card: card, MarbleID: -1, SwapWith: -1, AttackAt: s}
		if len(g.Players[s].Hand) == 0 {
			c.Invalid = FieldTarget
		} else {
			c.Valid = true
		}
		out = append(out, c)
	}
	return out
}

// forwardTarget resolves n forward steps from m's position. ok is false
// when the marble cannot move forward (base, home) or would overshoot home.
func forwardTarget(m *Marble, n int) (Position, bool) {
	switch m.Pos.Kind {
	case OnTrack:
		d := trackDistance(m.Pos.Index, m.Color.HomeEntry())
		if n <= d {
			return TrackPos((m.Pos.Index + n) % TrackLen), true
		}
		k := n - d
		if k <= HomePathLen {
			return HomePathPos(m.Color, k), true
		}
		if k == HomePathLen+1 {
			return HomePos(m.Color), true
		}
		return Position{}, false
	case InHomePath:
		k := m.Pos.Index + n
		if k <= HomePathLen {
			return HomePathPos(m.Color, k), true
		}
		if k == HomePathLen+1 {
			return HomePos(m.Color), true
		}
		return Position{}, false
	default:
		return Position{}, false
	}
}
