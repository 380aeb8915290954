package game

// Turn state machine. Every intent validates against the current phase and
// the generator's candidate set before touching anything, so a rejected
// intent leaves the state exactly as it was.

const (
	FieldPhase = "phase"
	FieldSeat  = "seat"
	FieldSteps = "steps"
)

// IntentError rejects an intent and names the input field that was wrong.
type IntentError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e *IntentError) Error() string { return e.Msg }

func errField(field, msg string) error {
	return &IntentError{Field: field, Msg: msg}
}

// DecisionChoice resolves the two-way interpretation of an attack card.
type DecisionChoice string

const (
	ChoiceAttack DecisionChoice = "ATTACK"
	ChoiceMove   DecisionChoice = "MOVE"
	ChoiceCancel DecisionChoice = "CANCEL"
)

// maximum forced burns processed in a row before the machine gives up and
// waits for input; prevents a livelock on a fully blocked board.
const maxForcedBurns = 256

// beginTurn runs TURN_START for the active seat: re-deal if the round is
// over, then force-burn through hands with no legal move, keeping the
// machine moving until a playable hand is found.
func (g *Game) beginTurn() {
	if g.winner != nil {
		g.Phase = PhaseFinished
		return
	}
	g.Phase = PhaseTurnStart

	for i := 0; i < maxForcedBurns; i++ {
		if g.handsEmpty() {
			g.dealRound()
		}
		if len(g.handOf(g.Active)) == 0 {
			g.nextSeat()
			continue
		}
		if g.HasAnyMove(g.Active) {
			break
		}
		burn := lowestValueCard(g.handOf(g.Active))
		g.removeFromHand(g.Active, burn.ID)
		g.nextSeat()
	}
	g.Phase = PhasePlayerInput
}

func (g *Game) nextSeat() {
	g.Turn++
	g.Active = (g.Active + 1) % NumSeats
	g.sel.reset()
	g.splitRemaining = 0
	g.splitMoved = nil
}

func (g *Game) advanceTurn() {
	g.nextSeat()
	g.beginTurn()
}

// lowestValueCard picks the burn card: raw value ascending, hand order on
// ties. The -4 therefore sorts first even though it often has utility.
func lowestValueCard(hand []Card) Card {
	best := hand[0]
	for _, c := range hand[1:] {
		if c.Value() < best.Value() {
			best = c
		}
	}
	return best
}

func (g *Game) requireActive(seat int) error {
	if seat != g.Active {
		return errField(FieldSeat, "not your turn")
	}
	return nil
}

// SelectCard picks the card to play and routes to the card-specific phase.
func (g *Game) SelectCard(seat, cardID int) error {
	if g.Phase != PhasePlayerInput {
		return errField(FieldPhase, "cannot select a card in phase "+string(g.Phase))
	}
	if err := g.requireActive(seat); err != nil {
		return err
	}
	card, ok := g.cardInHand(seat, cardID)
	if !ok {
		return errField(FieldCard, "card not in hand")
	}
	// the split phase has no cancel path, so refuse to enter it with a
	// card that cannot allocate a single step
	if card.IsSplit() && !g.hasSplitContinuation(seat, card, card.Steps(), nil) {
		return errField(FieldCard, "card has no legal move")
	}

	g.sel.reset()
	g.sel.Card = &card

	switch {
	case card.IsAttackTen():
		g.Phase = PhaseDeciding10
	case card.IsRedQueen():
		g.Phase = PhaseDecidingRedQ
	case card.IsSplit():
		g.Phase = PhaseHandlingSplit7
		g.splitRemaining = card.Steps()
		g.splitMoved = nil
	}
	return nil
}

// SelectMarble picks the marble the selected card will act on.
func (g *Game) SelectMarble(seat, marbleID int) error {
	if g.Phase != PhasePlayerInput && g.Phase != PhaseHandlingSplit7 {
		return errField(FieldPhase, "cannot select a marble in phase "+string(g.Phase))
	}
	if err := g.requireActive(seat); err != nil {
		return err
	}
	if g.sel.Card == nil {
		return errField(FieldCard, "select a card first")
	}
	m := g.Marble(marbleID)
	if m == nil || m.Color != g.Players[seat].Color {
		return errField(FieldMarble, "not your marble")
	}
	g.sel.Marble = marbleID
	return nil
}

// SelectTarget disambiguates between candidates sharing card and marble,
// which only the swap rank needs.
func (g *Game) SelectTarget(seat int, pos Position) error {
	if g.Phase != PhasePlayerInput && g.Phase != PhaseHandlingSplit7 {
		return errField(FieldPhase, "cannot select a target in phase "+string(g.Phase))
	}
	if err := g.requireActive(seat); err != nil {
		return err
	}
	if g.sel.Card == nil {
		return errField(FieldCard, "select a card first")
	}
	g.sel.Target = &pos
	return nil
}

// SelectSteps allocates part of the split budget to the next partial move.
func (g *Game) SelectSteps(seat, n int) error {
	if g.Phase != PhaseHandlingSplit7 {
		return errField(FieldPhase, "no split move in progress")
	}
	if err := g.requireActive(seat); err != nil {
		return err
	}
	if n < 1 || n > g.splitRemaining {
		return errField(FieldSteps, "step count out of range")
	}
	g.sel.Steps = n
	return nil
}

// Confirm assembles the accumulated selection into a single legal candidate
// and applies it, or reports which field is missing or wrong.
func (g *Game) Confirm(seat int) error {
	switch g.Phase {
	case PhasePlayerInput:
		return g.confirmPlain(seat)
	case PhaseHandlingSplit7:
		return g.confirmSplit(seat)
	default:
		return errField(FieldPhase, "nothing to confirm in phase "+string(g.Phase))
	}
}

func (g *Game) confirmPlain(seat int) error {
	if err := g.requireActive(seat); err != nil {
		return err
	}
	if g.sel.Card == nil {
		return errField(FieldCard, "select a card first")
	}
	if g.sel.Marble == -1 {
		return errField(FieldMarble, "select a marble first")
	}
	cand, err := g.matchCandidate(seat, *g.sel.Card, g.Marble(g.sel.Marble), 0)
	if err != nil {
		return err
	}
	g.resolveMove(seat, cand)
	return nil
}

func (g *Game) confirmSplit(seat int) error {
	if err := g.requireActive(seat); err != nil {
		return err
	}
	if g.sel.Marble == -1 {
		return errField(FieldMarble, "select a marble first")
	}
	if g.sel.Steps == 0 {
		return errField(FieldSteps, "select a step count first")
	}
	m := g.Marble(g.sel.Marble)
	if len(g.splitMoved) >= 2 && !containsInt(g.splitMoved, m.ID) {
		return errField(FieldMarble, "split may use at most two marbles")
	}
	cand, err := g.matchCandidate(seat, *g.sel.Card, m, g.sel.Steps)
	if err != nil {
		return err
	}

	card := *g.sel.Card
	steps := g.sel.Steps

	g.Phase = PhaseResolvingMove
	g.apply(&cand)
	g.splitRemaining -= steps
	if !containsInt(g.splitMoved, m.ID) {
		g.splitMoved = append(g.splitMoved, m.ID)
	}
	g.sel.Marble = -1
	g.sel.Target = nil
	g.sel.Steps = 0

	if g.splitRemaining > 0 && g.hasSplitContinuation(seat, card, g.splitRemaining, g.splitEligible(seat)) {
		g.Phase = PhaseHandlingSplit7
		return nil
	}

	// budget spent, or no legal allocation is left for the remainder
	g.removeFromHand(seat, card.ID)
	g.splitRemaining = 0
	g.splitMoved = nil
	g.sel.reset()
	g.checkWinner()
	if g.winner == nil {
		g.advanceTurn()
	}
	return nil
}

// splitEligible returns the marbles a further split allocation may use, or
// nil when any of the seat's marbles is still allowed.
func (g *Game) splitEligible(seat int) []*Marble {
	if len(g.splitMoved) < 2 {
		return nil
	}
	out := make([]*Marble, 0, len(g.splitMoved))
	for _, id := range g.splitMoved {
		out = append(out, g.Marble(id))
	}
	return out
}

// matchCandidate finds the unique valid candidate matching the selection.
func (g *Game) matchCandidate(seat int, card Card, m *Marble, steps int) (Candidate, error) {
	cands := g.ValidCandidates(seat, card, m, steps)
	if len(cands) == 0 {
		// figure out what to blame: an invalid candidate for this marble
		// names the field, otherwise the card has no play at all
		for _, c := range g.Candidates(seat, card, m, steps) {
			if c.Invalid != "" {
				return Candidate{}, errField(c.Invalid, "no legal move for that "+c.Invalid)
			}
		}
		return Candidate{}, errField(FieldCard, "card has no legal move")
	}
	if g.sel.Target != nil {
		for _, c := range cands {
			if c.Target == *g.sel.Target {
				return c, nil
			}
		}
		return Candidate{}, errField(FieldTarget, "target does not match a legal move")
	}
	if len(cands) > 1 {
		return Candidate{}, errField(FieldTarget, "move is ambiguous, select a target")
	}
	return cands[0], nil
}

// resolveMove applies a fully assembled candidate and hands the turn over.
func (g *Game) resolveMove(seat int, cand Candidate) {
	g.Phase = PhaseResolvingMove
	g.apply(&cand)
	g.removeFromHand(seat, cand.Card.ID)
	g.sel.reset()
	g.checkWinner()
	if g.winner == nil {
		g.advanceTurn()
	}
}

// ResolveAttackTen answers the DECIDING_10 choice.
func (g *Game) ResolveAttackTen(seat int, choice DecisionChoice, targetSeat int) error {
	return g.resolveAttackDecision(seat, PhaseDeciding10, choice, targetSeat)
}

// ResolveRedQueen answers the DECIDING_RED_Q choice.
func (g *Game) ResolveRedQueen(seat int, choice DecisionChoice, targetSeat int) error {
	return g.resolveAttackDecision(seat, PhaseDecidingRedQ, choice, targetSeat)
}

func (g *Game) resolveAttackDecision(seat int, phase Phase, choice DecisionChoice, targetSeat int) error {
	if g.Phase != phase {
		return errField(FieldPhase, "no attack decision pending")
	}
	if err := g.requireActive(seat); err != nil {
		return err
	}

	switch choice {
	case ChoiceMove:
		g.Phase = PhasePlayerInput
		return nil
	case ChoiceCancel:
		g.sel.reset()
		g.splitRemaining = 0
		g.Phase = PhasePlayerInput
		return nil
	case ChoiceAttack:
		for _, c := range g.ValidCandidates(seat, *g.sel.Card, nil, 0) {
			if c.Kind == MoveForceDiscard && c.AttackAt == targetSeat {
				cand := c
				g.pendingAttack = &cand
				g.discardSeat = targetSeat
				g.Phase = PhaseOpponentDiscard
				return nil
			}
		}
		return errField(FieldTarget, "no opponent to attack")
	default:
		return errField(FieldTarget, "unknown decision")
	}
}

// DiscardCard is the attacked player giving up a card of their choice,
// after which the attacker's pending resolution completes and the turn
// advances.
func (g *Game) DiscardCard(seat, cardID int) error {
	if g.Phase != PhaseOpponentDiscard {
		return errField(FieldPhase, "no discard pending")
	}
	if seat != g.discardSeat {
		return errField(FieldSeat, "discard is owed by another seat")
	}
	if _, ok := g.cardInHand(seat, cardID); !ok {
		return errField(FieldCard, "card not in hand")
	}

	g.removeFromHand(seat, cardID)
	g.removeFromHand(g.Active, g.pendingAttack.Card.ID)
	g.pendingAttack = nil
	g.discardSeat = -1
	g.sel.reset()
	g.advanceTurn()
	return nil
}

// Burn discards a card without playing it. Only legal when the hand truly
// has no move, which normally the machine handles itself at TURN_START.
func (g *Game) Burn(seat, cardID int) error {
	if g.Phase != PhasePlayerInput {
		return errField(FieldPhase, "cannot burn in phase "+string(g.Phase))
	}
	if err := g.requireActive(seat); err != nil {
		return err
	}
	if _, ok := g.cardInHand(seat, cardID); !ok {
		return errField(FieldCard, "card not in hand")
	}
	if g.HasAnyMove(seat) {
		return errField(FieldCard, "hand has a legal move, cannot burn")
	}
	g.removeFromHand(seat, cardID)
	g.advanceTurn()
	return nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
