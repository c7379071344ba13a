package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-board/internal/mines"
	"github.com/vancomm/minesweeper-board/internal/repository"
)

var (
	ErrNotOwner      = errors.New("board belongs to another player")
	ErrBadBoardId    = errors.New("board id must be an integer")
	ErrUnauthorized  = errors.New("invalid username or password")
	ErrUsernameTaken = errors.New("username taken")
)

func SendJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	sendStatusJSONOrLog(w, logger, http.StatusOK, v)
}

func sendStatusJSONOrLog(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	err := SendJSON(w, status, v)
	if err != nil {
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

type errorDTO struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func wrapError(err error) errorDTO {
	dto := errorDTO{Error: err.Error()}
	var gameErr *mines.GameError
	if errors.As(err, &gameErr) {
		dto.Kind = gameErr.Kind.String()
	}
	return dto
}

// errorStatus maps rejected game operations to client errors.
func errorStatus(err error) int {
	var gameErr *mines.GameError
	switch {
	case errors.As(err, &gameErr):
		switch gameErr.Kind {
		case mines.InvalidLevel, mines.OutOfBounds:
			return http.StatusBadRequest
		default:
			return http.StatusConflict
		}
	case errors.Is(err, ErrNotOwner):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func sendError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
		sendStatusJSONOrLog(w, logger, status, errorDTO{Error: "internal error"})
		return
	}
	sendStatusJSONOrLog(w, logger, status, wrapError(err))
}

func badRequest(w http.ResponseWriter, logger *slog.Logger, err error) {
	sendStatusJSONOrLog(w, logger, http.StatusBadRequest, wrapError(err))
}
