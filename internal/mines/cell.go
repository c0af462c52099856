package mines

import "strconv"

type Visibility int8

const (
	Hidden Visibility = iota
	Revealed
	Flagged
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "invalid"
	}
}

// Cell is one grid position. Adjacent is only meaningful once the board
// has placed its mines and the cell is not itself a mine.
type Cell struct {
	Mine       bool
	Adjacent   int
	Visibility Visibility
}

// CellView is the read-only per-cell state handed to a renderer. Mine is
// reported only for revealed cells so that an in-progress board never
// leaks the layout.
type CellView struct {
	Visibility Visibility
	Adjacent   int
	Mine       bool
}

func (v CellView) String() string {
	switch {
	case v.Visibility == Flagged:
		return "*"
	case v.Visibility == Hidden:
		return " "
	case v.Mine:
		return "!"
	default:
		return strconv.Itoa(v.Adjacent)
	}
}
