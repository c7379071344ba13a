package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/middleware"
	"github.com/vancomm/minesweeper-board/internal/repository"
)

type Auth struct {
	logger  *slog.Logger
	store   repository.Store
	cookies *config.Cookies
	jwt     *config.JWT
}

func NewAuth(
	logger *slog.Logger,
	store repository.Store,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	auth := &Auth{
		logger:  logger,
		store:   store,
		cookies: cookies,
		jwt:     jwt,
	}

	return auth
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
)

func (a Auth) internalError(w http.ResponseWriter, msg string, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	a.logger.Error(msg, slog.Any("error", err))
}

func (a Auth) login(w http.ResponseWriter, player *repository.Player) {
	claims := config.NewPlayerClaims(player.PlayerId, player.Username, a.jwt.TokenLifetime)
	token, err := a.jwt.Sign(claims)
	if err != nil {
		a.internalError(w, "failed to sign player claims", err)
		return
	}

	err = a.cookies.Refresh(w, token, claims.ExpiresAt.Time)
	if err != nil {
		a.internalError(w, "failed to set auth cookies", err)
		return
	}

	sendJSONOrLog(w, a.logger, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerId, player.Username},
	})
}

func credentials(r *http.Request) (username, password string, err error) {
	if err = r.ParseForm(); err != nil {
		return "", "", ErrBadAuthBody
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	return username, password, nil
}

func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.logger.Debug("no valid auth cookies")
		sendJSONOrLog(w, a.logger, Status{LoggedIn: false})
		return
	}

	a.logger.Debug("refresh cookies", slog.Int64("playerId", claims.PlayerId))
	a.login(w, &repository.Player{PlayerId: claims.PlayerId, Username: claims.Username})
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		badRequest(w, a.logger, err)
		return
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		badRequest(w, a.logger, ErrBadPasswordTooLong)
		return
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes, bcrypt.DefaultCost)
	if err != nil {
		a.internalError(w, "unable to hash password", err)
		return
	}

	player, err := a.store.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrConflict) {
		sendStatusJSONOrLog(w, a.logger, http.StatusConflict, wrapError(ErrUsernameTaken))
		return
	}
	if err != nil {
		a.internalError(w, "unable to insert player", err)
		return
	}

	a.login(w, player)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		badRequest(w, a.logger, err)
		return
	}

	player, err := a.store.FetchPlayer(r.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		sendStatusJSONOrLog(w, a.logger, http.StatusUnauthorized, wrapError(ErrUnauthorized))
		return
	}
	if err != nil {
		a.internalError(w, "could not fetch player", err)
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		sendStatusJSONOrLog(w, a.logger, http.StatusUnauthorized, wrapError(ErrUnauthorized))
		return
	}
	if err != nil {
		a.internalError(w, "bcrypt compare error", err)
		return
	}

	a.login(w, player)
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
