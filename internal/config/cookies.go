package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Cookies splits a JWT into a script-readable "auth" cookie holding the
// header and payload and an HttpOnly "sign" cookie holding the signature.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookies() (*Cookies, error) {
	domain, err := requireEnv("COOKIES_DOMAIN")
	if err != nil {
		return nil, err
	}

	secure := true
	if secureStr, ok := os.LookupEnv("COOKIES_SECURE"); ok {
		secure = secureStr != "0"
	}

	sameSite := http.SameSiteStrictMode
	switch strings.ToUpper(os.Getenv("COOKIES_SAMESITE")) {
	case "DEFAULT":
		sameSite = http.SameSiteDefaultMode
	case "LAX":
		sameSite = http.SameSiteLaxMode
	case "NONE":
		sameSite = http.SameSiteNoneMode
	}

	cookies := &Cookies{
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
	}

	return cookies, nil
}

func (c *Cookies) set(w http.ResponseWriter, name, value string, httpOnly bool, expires time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	c.set(w, "auth", "delete", false, time.Time{}, -1)
	c.set(w, "sign", "delete", true, time.Time{}, -1)
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string, expires time.Time) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]
	c.set(w, "auth", header+"."+payload, false, expires, 0)
	c.set(w, "sign", signature, true, expires, 0)
	return nil
}

// Token reassembles the JWT stored in the request cookies.
func (c *Cookies) Token(r *http.Request) (string, error) {
	authCookie, err := r.Cookie("auth")
	if err != nil {
		return "", err
	}
	signCookie, err := r.Cookie("sign")
	if err != nil {
		return "", err
	}
	return authCookie.Value + "." + signCookie.Value, nil
}
