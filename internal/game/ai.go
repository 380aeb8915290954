package game

// AI decision engine. It consumes the same candidate generator and intent
// surface a human session does, so bot seats and trusteeship over
// disconnected seats are indistinguishable from real input. Pure and
// synchronous over a state snapshot.

// Heuristic weights for BestMoveFor, additive per candidate.
const (
	scoreForceDiscard = 70
	scoreCapture      = 100
	scoreSwapBase     = 50
	scoreSwapPenalty  = -50
	scoreBaseExit     = 60
	scoreEnterHome    = 150
	scoreSafeCell     = 40
	scoreAdvance      = 5
	scoreLongAdvance  = 5
)

type BotDecision string

const (
	DecisionMove BotDecision = "MOVE"
	DecisionBurn BotDecision = "BURN"
)

// BestMove is the engine's pick for a whole hand: either the top-scored
// candidate, or the card to burn when nothing is playable.
type BestMove struct {
	Decision  BotDecision
	Candidate Candidate // meaningful when Decision == MOVE
	Burn      Card      // meaningful when Decision == BURN
	Score     int
}

// BestMoveFor scores every valid candidate across seat's hand and returns
// the best. If no card yields a valid candidate it returns the burn
// decision, choosing the lowest raw-value card with ties broken by hand
// order.
func BestMoveFor(g *Game, seat int) BestMove {
	best := BestMove{Decision: DecisionBurn, Score: -1 << 30}
	found := false

	for _, card := range g.Players[seat].Hand {
		cands := g.ValidCandidates(seat, card, nil, 0)
		if len(cands) == 0 && card.IsSplit() {
			// a split can still open with a partial allocation
			for n := card.Steps() - 1; n >= 1 && len(cands) == 0; n-- {
				cands = g.ValidCandidates(seat, card, nil, n)
			}
		}
		for _, cand := range cands {
			score := ScoreCandidate(g, seat, cand)
			if !found || score > best.Score {
				best = BestMove{Decision: DecisionMove, Candidate: cand, Score: score}
				found = true
			}
		}
	}

	if !found {
		return BestMove{Decision: DecisionBurn, Burn: lowestValueCard(g.Players[seat].Hand)}
	}
	return best
}

// ScoreCandidate rates one valid candidate, higher is better.
func ScoreCandidate(g *Game, seat int, c Candidate) int {
	switch c.Kind {
	case MoveForceDiscard:
		return scoreForceDiscard

	case MoveSwap:
		own := Progress(g.Marble(c.MarbleID))
		opp := Progress(g.Marble(c.SwapWith))
		if diff := opp - own; diff > 0 {
			return scoreSwapBase + diff
		}
		return scoreSwapPenalty

	case MoveBaseExit:
		score := scoreBaseExit
		score += scoreCapture * len(c.Captures)
		return score

	default:
		score := scoreAdvance
		if c.Steps > 10 {
			score += scoreLongAdvance
		}
		score += scoreCapture * len(c.Captures)
		if c.Target.Kind == InHome {
			score += scoreEnterHome
		} else if c.Target.Kind == OnTrack && isStartCell(c.Target.Index) {
			score += scoreSafeCell
		}
		return score
	}
}

// Progress maps a marble's position to a 0..100 scalar: 0 in base, 100
// home, 95 in the home-path interior, 90 at the home-path entry, otherwise
// proportional forward distance from the color's start cell.
func Progress(m *Marble) int {
	switch m.Pos.Kind {
	case InBase:
		return 0
	case InHome:
		return 100
	case InHomePath:
		if m.Pos.Index > 1 {
			return 95
		}
		return 90
	default:
		return trackDistance(m.Color.StartIndex(), m.Pos.Index) * 90 / TrackLen
	}
}

// ActionType enumerates the discrete inputs a session can send; auto-play
// emits the same vocabulary.
type ActionType string

const (
	ActionSelectCard     ActionType = "select_card"
	ActionSelectMarble   ActionType = "select_marble"
	ActionSelectTarget   ActionType = "select_target"
	ActionSelectSteps    ActionType = "select_steps"
	ActionConfirm        ActionType = "confirm"
	ActionBurn           ActionType = "burn"
	ActionDecideTen      ActionType = "decide_ten"
	ActionDecideRedQueen ActionType = "decide_red_queen"
	ActionDiscard        ActionType = "discard"
)

// Action is one discrete input, equivalent to what a human session sends.
type Action struct {
	Type       ActionType     `json:"type"`
	CardID     int            `json:"card_id,omitempty"`
	MarbleID   int            `json:"marble_id,omitempty"`
	Target     *Position      `json:"target,omitempty"`
	Steps      int            `json:"steps,omitempty"`
	Choice     DecisionChoice `json:"choice,omitempty"`
	TargetSeat int            `json:"target_seat,omitempty"`
}

// ApplyAction feeds one action into the state machine as seat.
func (g *Game) ApplyAction(seat int, a Action) error {
	switch a.Type {
	case ActionSelectCard:
		return g.SelectCard(seat, a.CardID)
	case ActionSelectMarble:
		return g.SelectMarble(seat, a.MarbleID)
	case ActionSelectTarget:
		if a.Target == nil {
			return errField(FieldTarget, "target missing")
		}
		return g.SelectTarget(seat, *a.Target)
	case ActionSelectSteps:
		return g.SelectSteps(seat, a.Steps)
	case ActionConfirm:
		return g.Confirm(seat)
	case ActionBurn:
		return g.Burn(seat, a.CardID)
	case ActionDecideTen:
		return g.ResolveAttackTen(seat, a.Choice, a.TargetSeat)
	case ActionDecideRedQueen:
		return g.ResolveRedQueen(seat, a.Choice, a.TargetSeat)
	case ActionDiscard:
		return g.DiscardCard(seat, a.CardID)
	default:
		return errField(FieldPhase, "unknown action")
	}
}

// AutoPlayActions synthesizes the minimal next inputs for seat given the
// current phase. The caller applies them in order and calls again while the
// seat still owes input.
func AutoPlayActions(g *Game, seat int) []Action {
	switch g.Phase {
	case PhaseOpponentDiscard:
		if seat != g.discardSeat {
			return nil
		}
		hand := g.handOf(seat)
		if len(hand) == 0 {
			return nil
		}
		pick := hand[g.rng.Intn(len(hand))]
		return []Action{{Type: ActionDiscard, CardID: pick.ID}}

	case PhaseDeciding10, PhaseDecidingRedQ:
		if seat != g.Active {
			return nil
		}
		t := ActionDecideTen
		if g.Phase == PhaseDecidingRedQ {
			t = ActionDecideRedQueen
		}
		if target, ok := attackTarget(g, seat); ok {
			return []Action{{Type: t, Choice: ChoiceAttack, TargetSeat: target}}
		}
		// nobody holds a card, fall back to the movement interpretation
		return []Action{{Type: t, Choice: ChoiceMove}}

	case PhaseHandlingSplit7:
		if seat != g.Active {
			return nil
		}
		return splitActions(g, seat)

	case PhasePlayerInput:
		if seat != g.Active {
			return nil
		}
		return decompose(g, seat, BestMoveFor(g, seat))

	default:
		return nil
	}
}

// attackTarget picks the opponent forced to discard: the first seat in turn
// order after the attacker that still holds a card.
func attackTarget(g *Game, seat int) (int, bool) {
	for i := 1; i < NumSeats; i++ {
		s := (seat + i) % NumSeats
		if len(g.Players[s].Hand) > 0 {
			return s, true
		}
	}
	return -1, false
}

// splitActions greedily tries the largest remaining step count downward
// until a legal allocation exists and emits it.
func splitActions(g *Game, seat int) []Action {
	card := *g.sel.Card
	eligible := g.splitEligible(seat)

	for n := g.splitRemaining; n >= 1; n-- {
		var pick *Candidate
		pickScore := 0
		consider := func(cands []Candidate) {
			for _, c := range cands {
				score := ScoreCandidate(g, seat, c)
				if pick == nil || score > pickScore {
					cc := c
					pick = &cc
					pickScore = score
				}
			}
		}
		if eligible == nil {
			consider(g.ValidCandidates(seat, card, nil, n))
		} else {
			for _, m := range eligible {
				consider(g.ValidCandidates(seat, card, m, n))
			}
		}
		if pick != nil {
			return []Action{
				{Type: ActionSelectSteps, Steps: n},
				{Type: ActionSelectMarble, MarbleID: pick.MarbleID},
				{Type: ActionConfirm},
			}
		}
	}
	return nil
}

// decompose turns a best-move decision into the input sequence a human
// would have produced, with a plain confirm when no target disambiguation
// is needed.
func decompose(g *Game, seat int, best BestMove) []Action {
	if best.Decision == DecisionBurn {
		return []Action{{Type: ActionBurn, CardID: best.Burn.ID}}
	}

	cand := best.Candidate
	card := cand.Card
	actions := []Action{{Type: ActionSelectCard, CardID: card.ID}}

	if card.IsSplit() {
		// selecting the card enters the split phase; allocation follows on
		// the next synthesis pass
		return actions
	}

	decide := ActionType("")
	if card.IsAttackTen() {
		decide = ActionDecideTen
	} else if card.IsRedQueen() {
		decide = ActionDecideRedQueen
	}

	if cand.Kind == MoveForceDiscard {
		return append(actions, Action{Type: decide, Choice: ChoiceAttack, TargetSeat: cand.AttackAt})
	}
	if decide != "" {
		actions = append(actions, Action{Type: decide, Choice: ChoiceMove})
	}

	actions = append(actions, Action{Type: ActionSelectMarble, MarbleID: cand.MarbleID})
	if cand.Kind == MoveSwap {
		target := cand.Target
		actions = append(actions, Action{Type: ActionSelectTarget, Target: &target})
	}
	return append(actions, Action{Type: ActionConfirm})
}
