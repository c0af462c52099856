package handlers

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpov/minesweeper/internal/session"
)

func testMux(t *testing.T) *http.ServeMux {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewGameHandler(
		log,
		session.NewRegistry(log, time.Hour),
		rand.New(rand.NewPCG(1, 2)),
	)
	mux := http.NewServeMux()
	h.Routes(mux)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeDTO(t *testing.T, body io.Reader) SessionDTO {
	t.Helper()
	var dto SessionDTO
	require.NoError(t, json.NewDecoder(body).Decode(&dto))
	return dto
}

func TestNewGameWithParams(t *testing.T) {
	t.Parallel()

	mux := testMux(t)
	rec := do(t, mux, http.MethodPost, "/game?width=9&height=9&mine_count=10")
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decodeDTO(t, rec.Body)
	assert.NotEmpty(t, dto.SessionID)
	assert.Equal(t, 9, dto.Width)
	assert.Equal(t, 9, dto.Height)
	assert.Equal(t, 10, dto.MineCount)
	assert.Equal(t, "not_started", dto.Status)
	assert.Equal(t, 10, dto.MinesRemaining)
	require.Len(t, dto.Grid, 9)
	for _, row := range dto.Grid {
		assert.Equal(t, strings.Repeat(" ", 9), row)
	}
	assert.Empty(t, dto.Mines, "mine layout must not leak before the game ends")
}

func TestNewGameWithPreset(t *testing.T) {
	t.Parallel()

	mux := testMux(t)
	rec := do(t, mux, http.MethodPost, "/game?preset=expert")
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decodeDTO(t, rec.Body)
	assert.Equal(t, 30, dto.Width)
	assert.Equal(t, 16, dto.Height)
	assert.Equal(t, 99, dto.MineCount)
}

func TestNewGameRejectsBadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
	}{
		{"missing params", "/game"},
		{"board too small", "/game?width=3&height=3&mine_count=1"},
		{"too many mines", "/game?width=9&height=9&mine_count=80"},
		{"unknown preset", "/game?preset=nightmare"},
	}

	mux := testMux(t)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, test.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMoveFlow(t *testing.T) {
	t.Parallel()

	mux := testMux(t)
	rec := do(t, mux, http.MethodPost, "/game?preset=beginner")
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeDTO(t, rec.Body).SessionID

	rec = do(t, mux, http.MethodPost, "/game/"+id+"/move?move=reveal&x=4&y=4")
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec.Body)
	assert.Equal(t, "playing", dto.Status)
	assert.NotEqual(t, strings.Repeat(" ", 9), dto.Grid[4], "reveal left the row untouched")

	rec = do(t, mux, http.MethodPost, "/game/"+id+"/move?move=flag&x=0&y=0")
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decodeDTO(t, rec.Body)
	assert.Equal(t, 1, dto.FlagsPlaced)
	assert.Equal(t, 9, dto.MinesRemaining)

	rec = do(t, mux, http.MethodPost, "/game/"+id+"/move?move=flag&x=0&y=0")
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decodeDTO(t, rec.Body)
	assert.Equal(t, 0, dto.FlagsPlaced)

	rec = do(t, mux, http.MethodPost, "/game/"+id+"/move?move=explode&x=0&y=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodPost, "/game/"+id+"/move?move=reveal")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing coordinates")

	rec = do(t, mux, http.MethodPost, "/game/nope/move?move=reveal&x=0&y=0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	mux := testMux(t)
	rec := do(t, mux, http.MethodPost, "/game?preset=beginner")
	id := decodeDTO(t, rec.Body).SessionID

	rec = do(t, mux, http.MethodGet, "/game/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decodeDTO(t, rec.Body).SessionID)

	rec = do(t, mux, http.MethodGet, "/game/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForfeit(t *testing.T) {
	t.Parallel()

	mux := testMux(t)
	rec := do(t, mux, http.MethodPost, "/game?preset=beginner")
	id := decodeDTO(t, rec.Body).SessionID

	do(t, mux, http.MethodPost, "/game/"+id+"/move?move=reveal&x=4&y=4")

	rec = do(t, mux, http.MethodPost, "/game/"+id+"/forfeit")
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec.Body)
	assert.Equal(t, "lost", dto.Status)
	assert.Len(t, dto.Mines, 10)
	require.NotNil(t, dto.EndedAt)

	// Terminal sessions stay frozen.
	rec = do(t, mux, http.MethodPost, "/game/"+id+"/move?move=reveal&x=0&y=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lost", decodeDTO(t, rec.Body).Status)
}

func TestConnectWS(t *testing.T) {
	t.Parallel()

	mux := testMux(t)
	server := httptest.NewServer(mux)
	defer server.Close()

	rec := do(t, mux, http.MethodPost, "/game?preset=beginner")
	id := decodeDTO(t, rec.Body).SessionID

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/game/" + id + "/connect"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 4 4\nf 0 0")))

	var dto SessionDTO
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, "playing", dto.Status)
	assert.Equal(t, 1, dto.FlagsPlaced)
}
