package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// gameClaims ties a bearer to exactly one live game.
type gameClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

type ctxGameKey struct{}

// gameIDFrom returns the game id placed in ctx by requireGame.
func gameIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxGameKey{}).(string)
	return id
}

// signToken creates an HS256 token for gameID expiring after TokenTTL.
func (s *Server) signToken(gameID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, gameClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parseToken validates tok and returns the game id it carries.
func (s *Server) parseToken(tok string) (string, error) {
	var claims gameClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid || claims.GameID == "" {
		return "", errors.New("parse token: missing game id")
	}
	return claims.GameID, nil
}

// requireGame enforces a valid game token and injects the game id into the
// request context.
func (s *Server) requireGame(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		id, err := s.parseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxGameKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// setTokenCookie writes the game token cookie with appropriate security attributes.
func (s *Server) setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.Production {
		sameSite = http.SameSiteNoneMode // required for cross-site use when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the token cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}
