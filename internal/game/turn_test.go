package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marbleCounts(g *Game) map[Color]int {
	counts := make(map[Color]int)
	for _, m := range g.Marbles {
		counts[m.Color]++
	}
	return counts
}

// assertInvariants checks that every color still owns four marbles and no
// two marbles share a cell outside the home pockets.
func assertInvariants(t *testing.T, g *Game) {
	t.Helper()
	for c, n := range marbleCounts(g) {
		assert.Equal(t, MarblesPerCol, n, "color %s", c)
	}
	seen := make(map[Position]int)
	for _, m := range g.Marbles {
		if m.Pos.Kind == InHome {
			continue
		}
		seen[m.Pos]++
		assert.Equal(t, 1, seen[m.Pos], "position %+v occupied twice", m.Pos)
	}
}

func TestPlainMoveFlow(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	give(g, 0, card(Rank5, Spades, 10))
	give(g, 1, card(RankAce, Spades, 11))

	require.NoError(t, g.SelectCard(0, 10))
	assert.Equal(t, PhasePlayerInput, g.Phase)
	require.NoError(t, g.SelectMarble(0, 0))
	require.NoError(t, g.Confirm(0))

	assert.Equal(t, TrackPos(7), g.Marbles[0].Pos)
	assert.Empty(t, g.Players[0].Hand)
	assert.Equal(t, 1, g.Active)
	assert.Equal(t, PhasePlayerInput, g.Phase)
	assertInvariants(t, g)
}

func TestIllegalIntentsLeaveStateUntouched(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	give(g, 0, card(Rank5, Spades, 10))

	// wrong seat
	err := g.SelectCard(1, 10)
	var ie *IntentError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, FieldSeat, ie.Field)

	// card not in hand
	err = g.SelectCard(0, 999)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, FieldCard, ie.Field)

	// confirm before selecting a marble
	require.NoError(t, g.SelectCard(0, 10))
	err = g.Confirm(0)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, FieldMarble, ie.Field)

	// decision intent in the wrong phase
	err = g.ResolveAttackTen(0, ChoiceAttack, 1)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, FieldPhase, ie.Field)

	assert.Equal(t, TrackPos(2), g.Marbles[0].Pos)
	assert.Len(t, g.Players[0].Hand, 1)
	assert.Equal(t, 0, g.Active)
}

func TestAttackTenForcesDiscardThenAdvances(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	give(g, 0, card(Rank10, Spades, 10))
	victim := card(Rank6, Hearts, 20)
	give(g, 1, victim)
	give(g, 2, card(RankAce, Clubs, 30))

	require.NoError(t, g.SelectCard(0, 10))
	assert.Equal(t, PhaseDeciding10, g.Phase)

	require.NoError(t, g.ResolveAttackTen(0, ChoiceAttack, 1))
	assert.Equal(t, PhaseOpponentDiscard, g.Phase)
	assert.Equal(t, 1, g.DiscardSeat())

	// only the attacked seat may discard
	var ie *IntentError
	err := g.DiscardCard(2, 30)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, FieldSeat, ie.Field)

	require.NoError(t, g.DiscardCard(1, victim.ID))
	assert.Empty(t, g.Players[1].Hand)
	assert.Empty(t, g.Players[0].Hand, "attack card is consumed")
	assert.NotEqual(t, 0, g.Active, "attacker's turn resolved and advanced")
	assertInvariants(t, g)
}

func TestRedQueenDecisionMoveInterpretation(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	give(g, 0, card(RankQueen, Hearts, 10))
	give(g, 1, card(RankAce, Spades, 11))

	require.NoError(t, g.SelectCard(0, 10))
	assert.Equal(t, PhaseDecidingRedQ, g.Phase)

	require.NoError(t, g.ResolveRedQueen(0, ChoiceMove, -1))
	assert.Equal(t, PhasePlayerInput, g.Phase)

	require.NoError(t, g.SelectMarble(0, 0))
	require.NoError(t, g.Confirm(0))
	assert.Equal(t, TrackPos(14), g.Marbles[0].Pos)
}

func TestForcedBurnOnDeadHand(t *testing.T) {
	g := testGame()
	// all marbles in base and the 4 cannot exit, so TURN_START must burn
	give(g, 0, card(Rank4, Spades, 10))
	give(g, 1, card(RankAce, Spades, 11))

	g.beginTurn()

	assert.Empty(t, g.Players[0].Hand, "dead card burned automatically")
	assert.Equal(t, 1, g.Active)
	assert.Equal(t, PhasePlayerInput, g.Phase)
}

func TestSplitAcrossTwoMarbles(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(2))
	place(g, 1, TrackPos(20))
	give(g, 0, card(Rank7, Spades, 10))
	give(g, 1, card(RankAce, Spades, 11))

	require.NoError(t, g.SelectCard(0, 10))
	assert.Equal(t, PhaseHandlingSplit7, g.Phase)
	assert.Equal(t, 7, g.SplitRemaining())

	require.NoError(t, g.SelectSteps(0, 3))
	require.NoError(t, g.SelectMarble(0, 0))
	require.NoError(t, g.Confirm(0))
	assert.Equal(t, TrackPos(5), g.Marbles[0].Pos)
	assert.Equal(t, 4, g.SplitRemaining())
	assert.Equal(t, PhaseHandlingSplit7, g.Phase, "budget not yet exhausted")

	require.NoError(t, g.SelectSteps(0, 4))
	require.NoError(t, g.SelectMarble(0, 1))
	require.NoError(t, g.Confirm(0))
	assert.Equal(t, TrackPos(24), g.Marbles[1].Pos)

	assert.Equal(t, 0, g.SplitRemaining())
	assert.Empty(t, g.Players[0].Hand)
	assert.Equal(t, 1, g.Active)
	assertInvariants(t, g)
}

func TestSplitEndsWhenNoContinuationExists(t *testing.T) {
	g := testGame()
	// only marble on the board sits two steps inside the home path; at
	// most three steps are usable, the rest of the budget has nowhere to go
	place(g, 0, HomePathPos(Red, 2))
	give(g, 0, card(Rank7, Spades, 10))
	give(g, 1, card(RankAce, Spades, 11))

	require.NoError(t, g.SelectCard(0, 10))
	require.NoError(t, g.SelectSteps(0, 3))
	require.NoError(t, g.SelectMarble(0, 0))
	require.NoError(t, g.Confirm(0))

	assert.Equal(t, HomePos(Red), g.Marbles[0].Pos)
	assert.Empty(t, g.Players[0].Hand, "split card finished despite leftover budget")
	assert.Equal(t, 1, g.Active)
}

func TestCaptureReturnsMarbleToOwnBase(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(9))
	place(g, 4, TrackPos(12)) // blue
	give(g, 0, card(Rank3, Spades, 10))
	give(g, 1, card(RankAce, Spades, 11))

	require.NoError(t, g.SelectCard(0, 10))
	require.NoError(t, g.SelectMarble(0, 0))
	require.NoError(t, g.Confirm(0))

	captured := g.Marbles[4]
	assert.Equal(t, InBase, captured.Pos.Kind)
	assert.Equal(t, Blue, captured.Pos.Color)
	assertInvariants(t, g)
}

func TestSwapExchangesPositions(t *testing.T) {
	g := testGame()
	place(g, 0, TrackPos(5))
	place(g, 4, TrackPos(20))
	give(g, 0, card(RankJack, Spades, 10))
	give(g, 1, card(RankAce, Spades, 11))

	require.NoError(t, g.SelectCard(0, 10))
	require.NoError(t, g.SelectMarble(0, 0))
	require.NoError(t, g.SelectTarget(0, TrackPos(20)))
	require.NoError(t, g.Confirm(0))

	assert.Equal(t, TrackPos(20), g.Marbles[0].Pos)
	assert.Equal(t, TrackPos(5), g.Marbles[4].Pos)
	assertInvariants(t, g)
}

func TestWinnerDetectedOnLastHomeEntry(t *testing.T) {
	g := testGame()
	place(g, 0, HomePos(Red))
	place(g, 1, HomePos(Red))
	place(g, 2, HomePos(Red))
	place(g, 3, TrackPos(48))
	give(g, 0, card(Rank8, Spades, 10))

	require.NoError(t, g.SelectCard(0, 10))
	require.NoError(t, g.SelectMarble(0, 3))
	require.NoError(t, g.Confirm(0))

	require.NotNil(t, g.Winner())
	assert.Equal(t, Red, *g.Winner())
	assert.Equal(t, PhaseFinished, g.Phase)
}
