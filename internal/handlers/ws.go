package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// wsCommand is one line sent over a board connection:
//
//	r X Y   reveal
//	f X Y   toggle flag
//	s       full status
//	g       board summary
type wsCommand struct {
	name string
	x, y int
}

var commandNargs = map[string]int{
	"r": 2,
	"f": 2,
	"s": 0,
	"g": 0,
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

func parseCommand(line string) (wsCommand, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return wsCommand{}, fmt.Errorf("empty command")
	}

	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return wsCommand{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return wsCommand{}, fmt.Errorf("command %q takes %d arguments", parts[0], nargs)
	}

	cmd := wsCommand{name: parts[0]}
	if nargs == 2 {
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return wsCommand{}, err
		}
		cmd.x, cmd.y = x, y
	}
	return cmd, nil
}

func (h BoardHandler) runCommand(ctx context.Context, boardId int64, cmd wsCommand) (any, error) {
	switch cmd.name {
	case "r", "f":
		fn := h.reveal
		if cmd.name == "f" {
			fn = h.flag
		}
		record, b, cells, err := fn(ctx, boardId, cmd.x, cmd.y)
		if err != nil {
			return nil, err
		}
		return MoveDTO{Board: NewBoardDTO(record, b), UpdatedCells: newCellDTOs(b, cells)}, nil
	case "s":
		record, b, err := h.load(ctx, boardId)
		if err != nil {
			return nil, err
		}
		return NewStatusDTO(record, b), nil
	case "g":
		record, b, err := h.load(ctx, boardId)
		if err != nil {
			return nil, err
		}
		return NewBoardDTO(record, b), nil
	}
	return nil, fmt.Errorf("invalid command")
}

// Connect upgrades to a websocket that accepts one command per line and
// answers every command with one JSON message. Rejected commands are
// answered with an error message and keep the connection open.
func (h BoardHandler) Connect(w http.ResponseWriter, r *http.Request) {
	boardId, err := parseBoardId(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	record, err := h.store.FetchBoard(r.Context(), boardId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	if err := authorize(r.Context(), record); err != nil {
		sendError(w, h.logger, err)
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}

	defer c.Close()

	logger := h.logger.With(slog.Int64("boardId", boardId))
	ctx := context.WithoutCancel(r.Context())

	for {
		if h.ws.IdleTimeout > 0 {
			c.SetReadDeadline(time.Now().Add(h.ws.IdleTimeout))
		}
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		for _, line := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			logger.Debug("ws command", slog.String("command", line))

			var reply any
			cmd, err := parseCommand(line)
			if err != nil {
				reply = wrapError(err)
			} else if reply, err = h.runCommand(ctx, boardId, cmd); err != nil {
				if errorStatus(err) == http.StatusInternalServerError {
					logger.Error("unable to process command", slog.Any("error", err))
					return
				}
				reply = wrapError(err)
			}

			if err := c.WriteJSON(reply); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logger.Error("unable to write json", slog.Any("error", err))
				}
				return
			}
		}
	}
}
