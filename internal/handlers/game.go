package handlers

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mkarpov/minesweeper/internal/mines"
	"github.com/mkarpov/minesweeper/internal/session"
)

type GameHandler struct {
	log      *logrus.Logger
	sessions *session.Registry
	rnd      *rand.Rand
	upgrader websocket.Upgrader
}

func NewGameHandler(
	log *logrus.Logger,
	sessions *session.Registry,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		log:      log,
		sessions: sessions,
		rnd:      rnd,
	}
}

func (h *GameHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /game", h.NewGame)
	mux.HandleFunc("GET /game/{id}", h.Fetch)
	mux.HandleFunc("POST /game/{id}/move", h.Move)
	mux.HandleFunc("POST /game/{id}/forfeit", h.Forfeit)
	mux.HandleFunc("/game/{id}/connect", h.ConnectWS)
}

type posParams struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func parsePosition(query map[string][]string) (posParams, error) {
	var pos posParams
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&pos, query)
	return pos, err
}

// NewGame creates a session from ?preset=beginner|intermediate|expert
// or explicit ?width=&height=&mine_count= parameters.
func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var params mines.GameParams
	if preset := query.Get("preset"); preset != "" {
		p, ok := mines.Preset(preset)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, h.log, wrapError(fmt.Errorf("unknown preset %q", preset)))
			return
		}
		params = p
	} else {
		dec := schema.NewDecoder()
		dec.IgnoreUnknownKeys(true)
		if err := dec.Decode(&params, query); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, h.log, wrapError(err))
			return
		}
	}

	game, err := mines.NewSession(params, h.rnd)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	id := h.sessions.Add(game)
	h.log.WithFields(logrus.Fields{
		"session_id": id,
		"params":     params.String(),
	}).Info("created game session")

	h.respondSession(w, id)
}

func (h *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	h.respondSession(w, r.PathValue("id"))
}

// Move applies ?move=reveal|flag|chord at ?x=&y=. Moves the engine
// rejects (wrong phase, out of bounds, finished game) still return the
// current snapshot; the session is simply unchanged.
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move := query.Get("move")
	switch move {
	case "reveal", "flag", "chord":
	default:
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(fmt.Errorf("unknown move %q", move)))
		return
	}

	pos, err := parsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	var dto SessionDTO
	err = h.sessions.Do(r.PathValue("id"), func(s *session.Session) {
		switch move {
		case "reveal":
			s.Game.Reveal(pos.X, pos.Y)
		case "flag":
			s.Game.ToggleFlag(pos.X, pos.Y)
		case "chord":
			s.Game.Chord(pos.X, pos.Y)
		}
		if s.Game.Status().Over() {
			s.Finish(time.Now().UTC())
		}
		dto = NewSessionDTO(s)
	})
	if errors.Is(err, session.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	sendJSONOrLog(w, h.log, dto)
}

func (h *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	var dto SessionDTO
	err := h.sessions.Do(r.PathValue("id"), func(s *session.Session) {
		s.Game.Forfeit()
		if s.Game.Status().Over() {
			s.Finish(time.Now().UTC())
		}
		dto = NewSessionDTO(s)
	})
	if errors.Is(err, session.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	sendJSONOrLog(w, h.log, dto)
}

func (h *GameHandler) respondSession(w http.ResponseWriter, id string) {
	var dto SessionDTO
	err := h.sessions.Do(id, func(s *session.Session) {
		dto = NewSessionDTO(s)
	})
	if errors.Is(err, session.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	sendJSONOrLog(w, h.log, dto)
}
