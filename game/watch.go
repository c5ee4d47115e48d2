package game

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	watchInterval = time.Second
	pingInterval  = 30 * time.Second
	writeTimeout  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WatchRoom streams room snapshots over a websocket until the client
// hangs up or the room is destroyed. Snapshots are cheap, so each
// connection just polls the registry instead of the room keeping a
// subscriber list.
func (h *Handler) WatchRoom(ctx *gin.Context) {
	code := ctx.Param("code")

	if _, err := h.registry.Room(code); err != nil {
		abortWithError(ctx, err)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "code", code, "err", err)
		return
	}

	go h.watchLoop(conn, code)
}

func (h *Handler) watchLoop(conn *websocket.Conn, code string) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
		return nil
	})

	// Drain incoming frames so pongs and closes are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	pinger := time.NewTicker(pingInterval)
	defer pinger.Stop()

	var last RoomState
	sent := false
	for {
		select {
		case <-done:
			return
		case <-pinger.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			state, err := h.registry.Room(code)
			if errors.Is(err, ErrRoomNotFound) {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ErrRoomNotFound.Error()))
				return
			}
			if err != nil {
				return
			}
			if sent && sameState(last, state) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(state); err != nil {
				return
			}
			last, sent = state, true
		}
	}
}

func sameState(a, b RoomState) bool {
	if a.Status != b.Status || a.HostID != b.HostID ||
		a.LoadingMessage != b.LoadingMessage || len(a.Players) != len(b.Players) {
		return false
	}
	for i := range a.Players {
		if a.Players[i] != b.Players[i] {
			return false
		}
	}
	return true
}
