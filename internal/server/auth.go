package server

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"net/http"
	"strings"
)

// AuthConfig configures bearer token checks. An empty JWTSecret disables them.
type AuthConfig struct {
	// JWTSecret is the shared HMAC secret tokens are signed with.
	JWTSecret string
	// Issuer is the required "iss" claim, if set.
	Issuer string
	// Audience is the required "aud" claim, if set.
	Audience string
}

type authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func newAuthenticator(cfg *AuthConfig) *authenticator {
	if cfg == nil || cfg.JWTSecret == "" {
		return nil
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &authenticator{
		secret: []byte(cfg.JWTSecret),
		parser: jwt.NewParser(opts...),
	}
}

// validate checks the token and returns its subject.
func (a *authenticator) validate(tokenString string) (string, error) {
	token, err := a.parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	subject, _ := token.Claims.GetSubject()
	return subject, nil
}

// middleware rejects requests without a valid bearer token. A nil
// authenticator lets every request through.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	if a == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		subject, err := a.validate(strings.TrimSpace(tokenString))
		if err != nil {
			log.Debug().Err(err).Str("requestId", requestID(r.Context())).Msg("rejected bearer token")
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		if info := infoFrom(r.Context()); info != nil {
			info.subject = subject
		}
		next.ServeHTTP(w, r)
	})
}
