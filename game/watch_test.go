package game

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRoomHandler_UnknownRoom(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture(t)

	w, body := f.do(t, http.MethodGet, "/api/rooms/NOSUCH/watch", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "room-not-found", body["error"])
}

func TestWatchRoomHandler_StreamsSnapshots(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	registry := NewRegistry(testLogger())
	router := gin.New()
	NewHandler(registry, &MockContentProvider{}, &MockQuizGenerator{}, &MockAnswerGrader{}, testLogger()).RegisterRoutes(router)

	server := httptest.NewServer(router)
	defer server.Close()

	created, hostID, err := registry.CreateRoom("alice")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/rooms/" + created.Code + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first RoomState
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, created.Code, first.Code)
	require.Len(t, first.Players, 1)

	// A membership change shows up in a later snapshot.
	_, _, err = registry.Join(created.Code, "bob")
	require.NoError(t, err)

	var next RoomState
	for len(next.Players) < 2 {
		require.NoError(t, conn.ReadJSON(&next))
	}
	assert.Equal(t, hostID, next.HostID)
}
