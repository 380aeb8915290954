package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressScalar(t *testing.T) {
	g := testGame()

	assert.Equal(t, 0, Progress(g.Marble(0)), "base")

	place(g, 0, TrackPos(Red.StartIndex()))
	assert.Equal(t, 0, Progress(g.Marble(0)), "on own start")

	place(g, 0, TrackPos(26))
	assert.Equal(t, 26*90/TrackLen, Progress(g.Marble(0)))

	place(g, 0, HomePathPos(Red, 1))
	assert.Equal(t, 90, Progress(g.Marble(0)), "home-path entry")

	place(g, 0, HomePathPos(Red, 3))
	assert.Equal(t, 95, Progress(g.Marble(0)), "home-path interior")

	place(g, 0, HomePos(Red))
	assert.Equal(t, 100, Progress(g.Marble(0)))
}

func TestBestMovePrefersRichSwap(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(6))             // red, progress 10
	place(g, 4, TrackPos((13+47)%52))    // blue, 47 cells past its start
	give(g, 0, card(RankJack, Spades, 10), card(Rank5, Spades, 11))

	best := BestMoveFor(g, 0)
	require.Equal(t, DecisionMove, best.Decision)
	assert.Equal(t, MoveSwap, best.Candidate.Kind)
	assert.GreaterOrEqual(t, best.Score, 120)
	assert.True(t, best.Candidate.Valid)
}

func TestBestMoveNeverReturnsInvalidCandidate(t *testing.T) {
	g := New(42)
	g.Begin()

	for i := 0; i < 50 && g.Winner() == nil; i++ {
		best := BestMoveFor(g, g.Active)
		if best.Decision == DecisionMove {
			assert.True(t, best.Candidate.Valid)
		}
		stepAutoPlay(t, g)
	}
}

func TestBurnPicksLowestRawValue(t *testing.T) {
	g := testGame()
	// everything in base, nothing playable; the -4 sorts below all others
	give(g, 0, card(Rank9, Spades, 10), card(Rank4, Hearts, 11), card(Rank5, Clubs, 12))

	best := BestMoveFor(g, 0)
	require.Equal(t, DecisionBurn, best.Decision)
	assert.Equal(t, Rank4, best.Burn.Rank)
}

func TestAutoPlayDiscardsOnAttack(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	give(g, 0, card(Rank10, Spades, 10))
	give(g, 1, card(Rank6, Hearts, 20), card(Rank2, Clubs, 21))
	give(g, 2, card(RankAce, Clubs, 30))

	require.NoError(t, g.SelectCard(0, 10))

	// deciding phase: trusteeship always attacks
	actions := AutoPlayActions(g, 0)
	require.Len(t, actions, 1)
	assert.Equal(t, ActionDecideTen, actions[0].Type)
	assert.Equal(t, ChoiceAttack, actions[0].Choice)
	require.NoError(t, g.ApplyAction(0, actions[0]))

	// attacked seat: burns one of its own cards
	require.Equal(t, PhaseOpponentDiscard, g.Phase)
	victim := g.DiscardSeat()
	actions = AutoPlayActions(g, victim)
	require.Len(t, actions, 1)
	assert.Equal(t, ActionDiscard, actions[0].Type)
	require.NoError(t, g.ApplyAction(victim, actions[0]))
	assert.Len(t, g.Players[victim].Hand, 1)
}

func TestAutoPlayMovesWhenNoOpponentHoldsCards(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	give(g, 0, card(Rank10, Spades, 10))

	require.NoError(t, g.SelectCard(0, 10))
	require.Equal(t, PhaseDeciding10, g.Phase)

	// every opponent hand is empty: attacking is illegal, so the only
	// non-wedging choice is the plain ten-step move
	actions := AutoPlayActions(g, 0)
	require.Len(t, actions, 1)
	assert.Equal(t, ActionDecideTen, actions[0].Type)
	assert.Equal(t, ChoiceMove, actions[0].Choice)
	require.NoError(t, g.ApplyAction(0, actions[0]))
	assert.Equal(t, PhasePlayerInput, g.Phase)
}

func TestAutoPlaySplitGreedyAllocation(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	place(g, 1, TrackPos(20))
	give(g, 0, card(Rank7, Spades, 10))
	give(g, 1, card(RankAce, Spades, 11))

	require.NoError(t, g.SelectCard(0, 10))
	require.Equal(t, PhaseHandlingSplit7, g.Phase)

	actions := AutoPlayActions(g, 0)
	require.Len(t, actions, 3)
	assert.Equal(t, ActionSelectSteps, actions[0].Type)
	assert.Equal(t, 7, actions[0].Steps, "greedy: largest step count first")
	for _, a := range actions {
		require.NoError(t, g.ApplyAction(0, a))
	}
	assert.Equal(t, 0, g.SplitRemaining())
	assert.Equal(t, 1, g.Active)
}

// stepAutoPlay advances the game by one synthesized input batch for
// whichever seat currently owes input.
func stepAutoPlay(t *testing.T, g *Game) {
	t.Helper()
	seat := g.Active
	if g.Phase == PhaseOpponentDiscard {
		seat = g.DiscardSeat()
	}
	actions := AutoPlayActions(g, seat)
	require.NotEmpty(t, actions, "auto-play must always produce input in phase %s", g.Phase)
	for _, a := range actions {
		require.NoError(t, g.ApplyAction(seat, a))
	}
}

// Four bots drive the state machine exactly like human sessions; the game
// must keep its marble invariants throughout and never reject synthesized
// input.
func TestAutoPlayDrivesFullGame(t *testing.T) {
	g := New(7)
	g.Begin()

	for i := 0; i < 3000 && g.Winner() == nil; i++ {
		stepAutoPlay(t, g)
		assertInvariants(t, g)
	}
}
