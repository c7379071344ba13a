package config

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	// IdleTimeout closes a live board connection after this long without
	// a command.
	IdleTimeout time.Duration
}

func NewWebSocket() (*WebSocket, error) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	idle := 10 * time.Minute
	if s, ok := os.LookupEnv("WS_IDLE_TIMEOUT_SECONDS"); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		idle = time.Duration(n) * time.Second
	}

	ws := &WebSocket{
		Upgrader:    upgrader,
		IdleTimeout: idle,
	}

	return ws, nil
}
