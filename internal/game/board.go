package game

// Board geometry: a 52-cell shared circular track, and per color a 4-slot
// base, a 4-cell private home path and a terminal home pocket.

const (
	TrackLen      = 52
	HomePathLen   = 4
	MarblesPerCol = 4
	NumSeats      = 4
)

type Color int

const (
	Red Color = iota
	Blue
	Green
	Yellow
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	}
	return "unknown"
}

// StartIndex is the track cell a marble of this color enters the board on.
// It doubles as the color's safe cell.
func (c Color) StartIndex() int {
	return int(c) * 13
}

// HomeEntry is the last track cell before this color's home path.
func (c Color) HomeEntry() int {
	return (c.StartIndex() + TrackLen - 1) % TrackLen
}

type PositionKind string

const (
	InBase     PositionKind = "base"
	OnTrack    PositionKind = "track"
	InHomePath PositionKind = "home_path"
	InHome     PositionKind = "home"
)

// Position is a tagged board location. Color is the owning color for base,
// home path and home; Index is the base slot, track cell, or home-path step
// (1..4) depending on Kind.
type Position struct {
	Kind  PositionKind `json:"kind"`
	Color Color        `json:"color"`
	Index int          `json:"index"`
}

func BasePos(c Color, slot int) Position     { return Position{Kind: InBase, Color: c, Index: slot} }
func TrackPos(i int) Position                { return Position{Kind: OnTrack, Index: i} }
func HomePathPos(c Color, step int) Position { return Position{Kind: InHomePath, Color: c, Index: step} }
func HomePos(c Color) Position               { return Position{Kind: InHome, Color: c} }

// trackDistance is the number of forward steps from cell a to cell b.
func trackDistance(a, b int) int {
	return (b - a + TrackLen) % TrackLen
}

// isStartCell reports whether track index i is any color's start cell.
func isStartCell(i int) bool {
	return i%13 == 0
}
