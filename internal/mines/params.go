package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid game parameters")

// GameParams describe a board configuration. The schema tags let the
// service layer decode them straight from a query string.
type GameParams struct {
	Width     int `schema:"width,required" json:"width"`
	Height    int `schema:"height,required" json:"height"`
	MineCount int `schema:"mine_count,required" json:"mine_count"`
}

var (
	Beginner     = GameParams{Width: 9, Height: 9, MineCount: 10}
	Intermediate = GameParams{Width: 16, Height: 16, MineCount: 40}
	Expert       = GameParams{Width: 30, Height: 16, MineCount: 99}
)

// Preset maps a difficulty name to its classic parameters.
func Preset(name string) (GameParams, bool) {
	switch name {
	case "beginner":
		return Beginner, true
	case "intermediate":
		return Intermediate, true
	case "expert":
		return Expert, true
	}
	return GameParams{}, false
}

const minDimension = 8

func (p GameParams) CellCount() int { return p.Width * p.Height }

// Validate rejects boards too small to play and mine counts that leave
// no room for a safe opening around the first reveal.
func (p GameParams) Validate() error {
	if p.Width < minDimension || p.Height < minDimension {
		return fmt.Errorf("%w: board must be at least %dx%d, have %dx%d",
			ErrInvalidParams, minDimension, minDimension, p.Width, p.Height)
	}
	if p.MineCount < 1 {
		return fmt.Errorf("%w: must have at least one mine", ErrInvalidParams)
	}
	if limit := p.CellCount() - 10; p.MineCount > limit {
		return fmt.Errorf("%w: at most %d mines fit a %dx%d board, have %d",
			ErrInvalidParams, limit, p.Width, p.Height, p.MineCount)
	}
	return nil
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Width, p.Height, p.MineCount)
}
