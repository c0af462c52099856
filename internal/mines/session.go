package mines

import "math/rand/v2"

type Status int8

const (
	NotStarted Status = iota
	Playing
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "invalid"
	}
}

// Over reports whether the status is terminal.
func (s Status) Over() bool { return s == Won || s == Lost }

// GameSession wraps one Board with game-level rules: when moves are
// legal, how status is derived, elapsed time and flag accounting. A
// session is single-owner; callers serialize access themselves.
type GameSession struct {
	board   *Board
	params  GameParams
	status  Status
	elapsed int
	flags   int
}

// NewSession validates params and creates a fresh session in the
// NotStarted state. rnd may be nil, in which case the board seeds its
// own generator.
func NewSession(params GameParams, rnd *rand.Rand) (*GameSession, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(params.Width, params.Height, params.MineCount, rnd)
	if err != nil {
		return nil, err
	}
	return &GameSession{board: board, params: params}, nil
}

func (s *GameSession) Params() GameParams { return s.params }
func (s *GameSession) Status() Status     { return s.status }

// Elapsed is the number of ticks (seconds, by convention) spent Playing.
func (s *GameSession) Elapsed() int { return s.elapsed }

func (s *GameSession) FlagsPlaced() int { return s.flags }

// MinesRemaining is mineCount minus flags placed. Over-flagging drives
// it negative, same as the classic counter.
func (s *GameSession) MinesRemaining() int { return s.params.MineCount - s.flags }

// View returns the renderable state of one cell.
func (s *GameSession) View(x, y int) (CellView, bool) { return s.board.View(x, y) }

// MineLocations exposes the layout for rendering once it exists.
func (s *GameSession) MineLocations() []int { return s.board.MineLocations() }

// Reveal opens a cell, starting the game on the first successful reveal.
// Hitting a mine loses the game and exposes the rest of the layout;
// clearing the last safe cell wins it and flags the remaining mines.
// Calls on a finished session change nothing.
func (s *GameSession) Reveal(x, y int) (changed []int) {
	if s.status.Over() {
		return nil
	}
	changed, mineHit := s.board.Reveal(x, y)
	if len(changed) == 0 {
		return nil
	}
	if s.status == NotStarted {
		s.status = Playing
	}
	return s.settle(changed, mineHit)
}

// ToggleFlag flips a hidden cell between flagged and not. Flagging is
// allowed before the first reveal and never limited by the mine count.
func (s *GameSession) ToggleFlag(x, y int) (changed []int) {
	if s.status.Over() {
		return nil
	}
	changed, delta := s.board.ToggleFlag(x, y)
	s.flags += delta
	return changed
}

// Chord opens all unflagged neighbors of a satisfied numbered cell,
// with the same loss and win consequences as Reveal.
func (s *GameSession) Chord(x, y int) (changed []int) {
	if s.status.Over() {
		return nil
	}
	changed, mineHit := s.board.Chord(x, y)
	if len(changed) == 0 {
		return nil
	}
	return s.settle(changed, mineHit)
}

// Forfeit concedes an unfinished game, revealing the mine layout. The
// layout may not exist yet when forfeiting before the first reveal.
func (s *GameSession) Forfeit() (changed []int) {
	if s.status.Over() {
		return nil
	}
	s.status = Lost
	return s.board.RevealMines()
}

// Tick advances the elapsed counter while the game is being played. The
// caller owns the timing source.
func (s *GameSession) Tick() {
	if s.status == Playing {
		s.elapsed++
	}
}

func (s *GameSession) settle(changed []int, mineHit bool) []int {
	if mineHit {
		s.status = Lost
		return append(changed, s.board.RevealMines()...)
	}
	if s.board.IsCleared() {
		s.status = Won
		flagged, delta := s.board.FlagMines()
		s.flags += delta
		return append(changed, flagged...)
	}
	return changed
}
