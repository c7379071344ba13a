package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-board/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth attaches the claims of a logged-in player to the request context.
// Requests without auth cookies pass through anonymously; requests with
// invalid cookies get them cleared.
func Auth(logger *slog.Logger, cookies *config.Cookies, jwt *config.JWT) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cookies.Token(r)
			if errors.Is(err, http.ErrNoCookie) {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := jwt.ParsePlayerClaims(token)
			if err != nil {
				logger.Debug("rejected auth cookies", slog.Any("error", err))
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}
