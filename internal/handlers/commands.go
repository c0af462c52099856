package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mkarpov/minesweeper/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // snapshot only
	"o": 2, // open x y
	"f": 2, // flag x y
	"c": 2, // chord x y
	"r": 0, // resign
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

// executeCommand applies one text command to a game. Coordinates the
// engine rejects are not an error here; they are no-ops like any other
// stale input.
func executeCommand(game *mines.GameSession, c string) error {
	parts := strings.Split(c, " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "g":
		return nil
	case "o":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		game.Reveal(x, y)
	case "f":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		game.ToggleFlag(x, y)
	case "c":
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		game.Chord(x, y)
	case "r":
		game.Forfeit()
	}
	return nil
}
