package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-board/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	h := Wrap(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }),
		mark("first"), mark("second"),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestAuth(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwt, err := config.NewJWTWithKeys(key, &key.PublicKey, time.Hour)
	require.NoError(t, err)
	cookies := &config.Cookies{Domain: "localhost", SameSite: http.SameSiteLaxMode}

	var seen *config.PlayerClaims
	h := Auth(discard, cookies, jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PlayerClaims(r.Context())
	}))

	t.Run("anonymous", func(t *testing.T) {
		seen = nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Nil(t, seen)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("valid cookies", func(t *testing.T) {
		seen = nil
		token, err := jwt.Sign(config.NewPlayerClaims(3, "carol", time.Hour))
		require.NoError(t, err)

		login := httptest.NewRecorder()
		require.NoError(t, cookies.Refresh(login, token, time.Now().Add(time.Hour)))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range login.Result().Cookies() {
			req.AddCookie(c)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, seen)
		assert.Equal(t, int64(3), seen.PlayerId)
		assert.Equal(t, "carol", seen.Username)
	})

	t.Run("tampered cookies", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "auth", Value: "e30.e30"})
		req.AddCookie(&http.Cookie{Name: "sign", Value: "bogus"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Nil(t, seen)
		var cleared int
		for _, c := range rec.Result().Cookies() {
			if c.MaxAge < 0 {
				cleared++
			}
		}
		assert.Equal(t, 2, cleared)
	})
}

func TestLoggingKeepsStatus(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/boards?level=9", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"statusCode":418`)
	assert.Contains(t, buf.String(), `"uri":"/boards?level=9"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestLoggingLevels(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelFor(http.StatusCreated))
	assert.Equal(t, slog.LevelWarn, levelFor(http.StatusConflict))
	assert.Equal(t, slog.LevelError, levelFor(http.StatusInternalServerError))
}
