package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mkarpov/minesweeper/internal/session"
)

// ConnectWS upgrades the connection and plays the session over text
// frames. Each frame holds newline-separated commands ("o x y", "f x y",
// "c x y", "r", or "g" for a plain snapshot); every frame is answered
// with a session snapshot.
func (h *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.sessions.Do(id, func(*session.Session) {}); err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		var dto SessionDTO
		err = h.sessions.Do(id, func(s *session.Session) {
			for _, line := range splitLines(string(buf)) {
				if err := executeCommand(s.Game, line); err != nil {
					h.log.WithError(err).WithField("command", line).Warn("bad ws command")
					continue
				}
				if s.Game.Status().Over() {
					s.Finish(time.Now().UTC())
					break
				}
			}
			dto = NewSessionDTO(s)
		})
		if errors.Is(err, session.ErrNotFound) {
			// Evicted mid-connection.
			return
		}

		if err := conn.WriteJSON(dto); err != nil {
			h.log.WithError(err).Error("websocket write failed")
			return
		}
	}
}
