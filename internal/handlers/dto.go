package handlers

import (
	"strings"

	"github.com/mkarpov/minesweeper/internal/session"
)

// SessionDTO is the wire snapshot of one game session. Grid carries one
// string per row, one rune per cell, in the cell view notation (space
// for hidden, '*' for a flag, digits for open cells, '!' for an exposed
// mine). Mine indices are included only once the game is over.
type SessionDTO struct {
	SessionID      string   `json:"session_id"`
	Grid           []string `json:"grid"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	MineCount      int      `json:"mine_count"`
	Status         string   `json:"status"`
	Elapsed        int      `json:"elapsed"`
	FlagsPlaced    int      `json:"flags_placed"`
	MinesRemaining int      `json:"mines_remaining"`
	Mines          []int    `json:"mines,omitempty"`
	StartedAt      int64    `json:"started_at"`
	EndedAt        *int64   `json:"ended_at,omitempty"`
}

func NewSessionDTO(s *session.Session) SessionDTO {
	game := s.Game
	params := game.Params()

	rows := make([]string, params.Height)
	var sb strings.Builder
	for y := range params.Height {
		sb.Reset()
		for x := range params.Width {
			v, _ := game.View(x, y)
			sb.WriteString(v.String())
		}
		rows[y] = sb.String()
	}

	dto := SessionDTO{
		SessionID:      s.ID,
		Grid:           rows,
		Width:          params.Width,
		Height:         params.Height,
		MineCount:      params.MineCount,
		Status:         game.Status().String(),
		Elapsed:        game.Elapsed(),
		FlagsPlaced:    game.FlagsPlaced(),
		MinesRemaining: game.MinesRemaining(),
		StartedAt:      s.StartedAt.UnixMilli(),
	}
	if game.Status().Over() {
		dto.Mines = game.MineLocations()
	}
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		dto.EndedAt = &e
	}
	return dto
}
