package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Board owns the grid of cells and the algorithms that mutate it. Cells
// live in a flat row-major slice addressed by y*width+x; adjacency is
// coordinate arithmetic, no cell references another.
//
// Mines are not placed at construction. The first call to Reveal scatters
// them among all cells outside the opening area around the revealed cell,
// so the first reveal never hits a mine.
type Board struct {
	width, height int
	mineCount     int
	cells         []Cell
	placed        bool
	rnd           *rand.Rand
}

func NewBoard(width, height, mineCount int, rnd *rand.Rand) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d board", ErrInvalidParams, width, height)
	}
	if mineCount < 1 || mineCount >= width*height {
		return nil, fmt.Errorf("%w: %d mines on a %dx%d board",
			ErrInvalidParams, mineCount, width, height)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Board{
		width:     width,
		height:    height,
		mineCount: mineCount,
		cells:     make([]Cell, width*height),
		rnd:       rnd,
	}, nil
}

func (b *Board) Width() int     { return b.width }
func (b *Board) Height() int    { return b.height }
func (b *Board) MineCount() int { return b.mineCount }

// MinesPlaced reports whether the first reveal has happened and the mine
// layout exists.
func (b *Board) MinesPlaced() bool { return b.placed }

func (b *Board) InBounds(x, y int) bool {
	return 0 <= x && x < b.width && 0 <= y && y < b.height
}

func (b *Board) index(x, y int) int { return y*b.width + x }

func (b *Board) coords(i int) (x, y int) { return i % b.width, i / b.width }

func (b *Board) appendNeighbors(i int, buf []int) []int {
	x, y := b.coords(i)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if b.InBounds(x+dx, y+dy) {
				buf = append(buf, b.index(x+dx, y+dy))
			}
		}
	}
	return buf
}

// View returns the renderable state of the cell at x, y. The second
// return value is false when the coordinate is out of bounds.
func (b *Board) View(x, y int) (CellView, bool) {
	if !b.InBounds(x, y) {
		return CellView{}, false
	}
	c := b.cells[b.index(x, y)]
	v := CellView{Visibility: c.Visibility}
	if c.Visibility == Revealed {
		v.Mine = c.Mine
		v.Adjacent = c.Adjacent
	}
	return v, true
}

// MineLocations returns the flat indices of every mine, or nil while the
// layout has not been generated yet.
func (b *Board) MineLocations() []int {
	if !b.placed {
		return nil
	}
	locs := make([]int, 0, b.mineCount)
	for i := range b.cells {
		if b.cells[i].Mine {
			locs = append(locs, i)
		}
	}
	return locs
}

// Reveal opens the cell at x, y, placing mines first if this is the very
// first reveal. A zero-adjacency cell cascades to its whole zero region
// and the numbered border around it. Returns the flat indices of cells
// whose visibility changed and whether a mine was hit. Out-of-bounds,
// revealed and flagged targets are no-ops.
func (b *Board) Reveal(x, y int) (changed []int, mineHit bool) {
	if !b.InBounds(x, y) {
		return nil, false
	}
	i := b.index(x, y)
	if b.cells[i].Visibility != Hidden {
		return nil, false
	}
	if !b.placed {
		b.placeMines(x, y)
	}
	if b.cells[i].Mine {
		b.cells[i].Visibility = Revealed
		return []int{i}, true
	}

	b.cells[i].Visibility = Revealed
	changed = append(changed, i)

	// Breadth-first over flat indices. The Hidden->Revealed flip is the
	// visited set: a cell can enter the queue at most once.
	queue := []int{i}
	var buf []int
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		if b.cells[j].Adjacent != 0 {
			continue
		}
		buf = b.appendNeighbors(j, buf[:0])
		for _, k := range buf {
			if b.cells[k].Visibility != Hidden || b.cells[k].Mine {
				continue
			}
			b.cells[k].Visibility = Revealed
			changed = append(changed, k)
			queue = append(queue, k)
		}
	}
	return changed, false
}

// ToggleFlag flips the cell at x, y between Hidden and Flagged. Revealed
// cells are left alone. delta is +1 when a flag was planted, -1 when one
// was removed.
func (b *Board) ToggleFlag(x, y int) (changed []int, delta int) {
	if !b.InBounds(x, y) {
		return nil, 0
	}
	i := b.index(x, y)
	switch b.cells[i].Visibility {
	case Hidden:
		b.cells[i].Visibility = Flagged
		return []int{i}, 1
	case Flagged:
		b.cells[i].Visibility = Hidden
		return []int{i}, -1
	}
	return nil, 0
}

// Chord reveals every unflagged hidden neighbor of a revealed numbered
// cell, provided exactly as many neighbors are flagged as the cell's
// number. A mismatched flag count makes the whole call a no-op; a wrong
// flag can therefore still lose the game through a chord, but only when
// the count genuinely matches.
func (b *Board) Chord(x, y int) (changed []int, mineHit bool) {
	if !b.InBounds(x, y) {
		return nil, false
	}
	i := b.index(x, y)
	c := b.cells[i]
	if c.Visibility != Revealed || c.Mine || c.Adjacent < 1 {
		return nil, false
	}

	var flagged int
	hidden := make([]int, 0, 8)
	for _, j := range b.appendNeighbors(i, nil) {
		switch b.cells[j].Visibility {
		case Flagged:
			flagged++
		case Hidden:
			hidden = append(hidden, j)
		}
	}
	if flagged != c.Adjacent {
		return nil, false
	}

	for _, j := range hidden {
		jx, jy := b.coords(j)
		opened, hit := b.Reveal(jx, jy)
		changed = append(changed, opened...)
		if hit {
			return changed, true
		}
	}
	return changed, false
}

// IsCleared reports whether every non-mine cell is revealed. Mines may
// still be hidden or flagged.
func (b *Board) IsCleared() bool {
	if !b.placed {
		return false
	}
	for i := range b.cells {
		if !b.cells[i].Mine && b.cells[i].Visibility != Revealed {
			return false
		}
	}
	return true
}

// RevealMines exposes every unflagged mine, for display after a loss.
// Flagged cells keep their flag so a renderer can distinguish correct
// flags from wrong ones.
func (b *Board) RevealMines() (changed []int) {
	if !b.placed {
		return nil
	}
	for i := range b.cells {
		if b.cells[i].Mine && b.cells[i].Visibility == Hidden {
			b.cells[i].Visibility = Revealed
			changed = append(changed, i)
		}
	}
	return changed
}

// FlagMines plants a flag on every hidden mine, for display after a win.
// delta reports how many flags were added.
func (b *Board) FlagMines() (changed []int, delta int) {
	if !b.placed {
		return nil, 0
	}
	for i := range b.cells {
		if b.cells[i].Mine && b.cells[i].Visibility == Hidden {
			b.cells[i].Visibility = Flagged
			changed = append(changed, i)
			delta++
		}
	}
	return changed, delta
}

// placeMines scatters the board's mines among all cells at least two
// squares away from sx, sy, so the first reveal opens an area rather
// than a lone cell. When the mine count does not fit that restriction
// only the revealed cell itself is spared. Adjacency counts for the
// whole board are computed here, once.
func (b *Board) placeMines(sx, sy int) {
	candidates := make([]int, 0, len(b.cells))
	for y := range b.height {
		for x := range b.width {
			if absDiff(sx, x) > 1 || absDiff(sy, y) > 1 {
				candidates = append(candidates, b.index(x, y))
			}
		}
	}
	if len(candidates) < b.mineCount {
		candidates = candidates[:0]
		for i := range b.cells {
			if i != b.index(sx, sy) {
				candidates = append(candidates, i)
			}
		}
	}

	k := len(candidates)
	for range b.mineCount {
		i := b.rnd.IntN(k)
		b.cells[candidates[i]].Mine = true
		k--
		candidates[i] = candidates[k]
	}

	b.recount()
	b.placed = true
}

func (b *Board) recount() {
	var buf []int
	for i := range b.cells {
		n := 0
		buf = b.appendNeighbors(i, buf[:0])
		for _, j := range buf {
			if b.cells[j].Mine {
				n++
			}
		}
		b.cells[i].Adjacent = n
	}
}

// String renders the player-visible grid, one row per line. Debug aid.
func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.height {
		for x := range b.width {
			v, _ := b.View(x, y)
			sb.WriteString(v.String() + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
