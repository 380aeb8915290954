package game

import (
	"math/rand"
)

// Phase is the turn state machine's current state.
type Phase string

const (
	PhaseTurnStart       Phase = "turn_start"
	PhasePlayerInput     Phase = "player_input"
	PhaseDeciding10      Phase = "deciding_10"
	PhaseDecidingRedQ    Phase = "deciding_red_queen"
	PhaseHandlingSplit7  Phase = "handling_split_7"
	PhaseResolvingMove   Phase = "resolving_move"
	PhaseOpponentDiscard Phase = "opponent_discard"
	PhaseFinished        Phase = "finished"
)

// Marble is a single piece. ID/4 is its seat; it is never destroyed, a
// capture only sends it back to a base slot of its own color.
type Marble struct {
	ID    int      `json:"id"`
	Color Color    `json:"color"`
	Pos   Position `json:"pos"`
}

// Player is one seat at the table.
type Player struct {
	Seat  int    `json:"seat"`
	Color Color  `json:"color"`
	Hand  []Card `json:"hand"`
}

// selection accumulates the active player's partial input until a complete
// candidate can be assembled.
type selection struct {
	Card   *Card
	Marble int // marble ID, -1 when unset
	Target *Position
	Steps  int // split allocation, 0 when unset
}

func (s *selection) reset() {
	s.Card = nil
	s.Marble = -1
	s.Target = nil
	s.Steps = 0
}

// Game is the authoritative state of one match. All mutation goes through
// the intent methods in turn.go; the candidate generator and the AI only
// read it. The caller (the room loop) serializes access.
type Game struct {
	Players [NumSeats]*Player
	Marbles [NumSeats * MarblesPerCol]*Marble

	Phase  Phase
	Active int // seat whose turn it is
	Turn   int // completed turns, for reporting

	deck    []Card
	discard []Card

	sel selection

	// split-7 scratch state
	splitRemaining int
	splitMoved     []int // marble IDs already allocated to in this split

	// pending force-discard attack
	discardSeat   int // seat that must discard, -1 when none
	pendingAttack *Candidate

	winner *Color

	rng *rand.Rand
}

// New creates a dealt game ready for the first turn. The seed makes deck
// order and AI tie-breaking reproducible.
func New(seed int64) *Game {
	g := &Game{
		Phase:       PhaseTurnStart,
		discardSeat: -1,
		rng:         rand.New(rand.NewSource(seed)),
	}
	g.sel.Marble = -1

	for seat := 0; seat < NumSeats; seat++ {
		g.Players[seat] = &Player{Seat: seat, Color: Color(seat)}
		for slot := 0; slot < MarblesPerCol; slot++ {
			id := seat*MarblesPerCol + slot
			g.Marbles[id] = &Marble{ID: id, Color: Color(seat), Pos: BasePos(Color(seat), slot)}
		}
	}

	g.deck = newDeck()
	shuffle(g.rng, g.deck)
	g.dealRound()
	return g
}

// Begin runs the first TURN_START. Separate from New so callers can seat
// players before the machine starts acting.
func (g *Game) Begin() {
	g.beginTurn()
}

// Winner returns the color that brought all four marbles home, or nil.
func (g *Game) Winner() *Color {
	return g.winner
}

// Marble returns the marble with the given ID, or nil.
func (g *Game) Marble(id int) *Marble {
	if id < 0 || id >= len(g.Marbles) {
		return nil
	}
	return g.Marbles[id]
}

// SplitRemaining exposes the unspent budget of an in-flight split move.
func (g *Game) SplitRemaining() int {
	return g.splitRemaining
}

// DiscardSeat is the seat that owes a forced discard, -1 when none.
func (g *Game) DiscardSeat() int {
	return g.discardSeat
}

// occupantAt returns the marble occupying pos, or nil. The home pocket is
// excluded: it holds any number of its color's marbles.
func (g *Game) occupantAt(pos Position) *Marble {
	if pos.Kind == InHome {
		return nil
	}
	for _, m := range g.Marbles {
		if m.Pos == pos {
			return m
		}
	}
	return nil
}

// onOwnStart reports whether m sits on its own color's start cell, which
// exempts it from capture and swap.
func onOwnStart(m *Marble) bool {
	return m.Pos.Kind == OnTrack && m.Pos.Index == m.Color.StartIndex()
}

// freeBaseSlot finds an empty base slot for the color. Marble count per
// color is fixed at four, so one is always free when a capture happens.
func (g *Game) freeBaseSlot(c Color) Position {
	for slot := 0; slot < MarblesPerCol; slot++ {
		pos := BasePos(c, slot)
		if g.occupantAt(pos) == nil {
			return pos
		}
	}
	return BasePos(c, 0)
}

func (g *Game) handOf(seat int) []Card {
	return g.Players[seat].Hand
}

// cardInHand finds a card by ID in seat's hand.
func (g *Game) cardInHand(seat int, cardID int) (Card, bool) {
	for _, c := range g.Players[seat].Hand {
		if c.ID == cardID {
			return c, true
		}
	}
	return Card{}, false
}

// removeFromHand moves the card from seat's hand to the discard pile.
func (g *Game) removeFromHand(seat int, cardID int) {
	hand := g.Players[seat].Hand
	for i, c := range hand {
		if c.ID == cardID {
			g.Players[seat].Hand = append(hand[:i], hand[i+1:]...)
			g.discard = append(g.discard, c)
			return
		}
	}
}

// dealRound deals four cards to every seat, reshuffling the discard pile
// into the deck when it runs dry.
func (g *Game) dealRound() {
	for i := 0; i < MarblesPerCol; i++ {
		for seat := 0; seat < NumSeats; seat++ {
			if len(g.deck) == 0 {
				g.deck = g.discard
				g.discard = nil
				shuffle(g.rng, g.deck)
			}
			if len(g.deck) == 0 {
				return
			}
			p := g.Players[seat]
			p.Hand = append(p.Hand, g.deck[len(g.deck)-1])
			g.deck = g.deck[:len(g.deck)-1]
		}
	}
}

func (g *Game) handsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// apply executes a resolved candidate atomically. Callers validate first;
// apply never fails and never partially mutates.
func (g *Game) apply(c *Candidate) {
	switch c.Kind {
	case MoveSwap:
		a := g.Marbles[c.MarbleID]
		b := g.Marbles[c.SwapWith]
		a.Pos, b.Pos = b.Pos, a.Pos
	case MoveForceDiscard:
		// resolved via the OPPONENT_DISCARD phase, nothing to move
	default:
		for _, id := range c.Captures {
			victim := g.Marbles[id]
			victim.Pos = g.freeBaseSlot(victim.Color)
		}
		g.Marbles[c.MarbleID].Pos = c.Target
	}
}

// checkWinner records the active color as winner once all four of its
// marbles are home.
func (g *Game) checkWinner() {
	color := g.Players[g.Active].Color
	for _, m := range g.Marbles {
		if m.Color == color && m.Pos.Kind != InHome {
			return
		}
	}
	g.winner = &color
	g.Phase = PhaseFinished
}
