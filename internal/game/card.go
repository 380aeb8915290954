package game

import "math/rand"

type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

type Rank string

const (
	RankAce   Rank = "A"
	Rank2     Rank = "2"
	Rank3     Rank = "3"
	Rank4     Rank = "4"
	Rank5     Rank = "5"
	Rank6     Rank = "6"
	Rank7     Rank = "7"
	Rank8     Rank = "8"
	Rank9     Rank = "9"
	Rank10    Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
)

var allRanks = []Rank{
	RankAce, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7,
	Rank8, Rank9, Rank10, RankJack, RankQueen, RankKing,
}

var allSuits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Card is a single playing card. ID distinguishes duplicates across the deck.
type Card struct {
	ID   int  `json:"id"`
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Value is the signed movement value of the rank. The 4 moves backward and
// carries a raw value of -4; the jack moves nothing and swaps instead.
func (c Card) Value() int {
	switch c.Rank {
	case RankAce:
		return 1
	case Rank2:
		return 2
	case Rank3:
		return 3
	case Rank4:
		return -4
	case Rank5:
		return 5
	case Rank6:
		return 6
	case Rank7:
		return 7
	case Rank8:
		return 8
	case Rank9:
		return 9
	case Rank10:
		return 10
	case RankJack:
		return 0
	case RankQueen:
		return 12
	case RankKing:
		return 13
	}
	return 0
}

// Steps is the unsigned number of track cells the rank consumes when moved.
func (c Card) Steps() int {
	v := c.Value()
	if v < 0 {
		return -v
	}
	return v
}

// IsEntry reports whether the rank may bring a marble out of its base.
func (c Card) IsEntry() bool {
	return c.Rank == RankAce || c.Rank == RankKing
}

// IsSplit reports whether the rank distributes its movement budget.
func (c Card) IsSplit() bool {
	return c.Rank == Rank7
}

// IsSwap reports whether the rank exchanges two marbles instead of moving.
func (c Card) IsSwap() bool {
	return c.Rank == RankJack
}

// IsBackward reports whether the rank moves counter-clockwise.
func (c Card) IsBackward() bool {
	return c.Rank == Rank4
}

// IsAttackTen reports whether the rank carries the force-discard choice of
// the ten.
func (c Card) IsAttackTen() bool {
	return c.Rank == Rank10
}

// IsRedQueen reports whether the card is a red-suited queen, the other
// force-discard card.
func (c Card) IsRedQueen() bool {
	return c.Rank == RankQueen && (c.Suit == Hearts || c.Suit == Diamonds)
}

// IsAttack reports whether the card offers a force-discard interpretation.
func (c Card) IsAttack() bool {
	return c.IsAttackTen() || c.IsRedQueen()
}

// newDeck builds the standard 52-card deck in canonical order.
func newDeck() []Card {
	deck := make([]Card, 0, len(allSuits)*len(allRanks))
	id := 0
	for _, s := range allSuits {
		for _, r := range allRanks {
			deck = append(deck, Card{ID: id, Suit: s, Rank: r})
			id++
		}
	}
	return deck
}

func shuffle(rng *rand.Rand, deck []Card) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}
