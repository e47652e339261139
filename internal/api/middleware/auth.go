package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/ports"
)

const (
	// CallerKey is the echo context key holding the authenticated
	// *domain.Account.
	CallerKey = "caller"
	// TokenIDKey is the echo context key holding the session token id (the
	// jti claim), used by logout to revoke the token.
	TokenIDKey = "token_id"
)

// Auth validates the bearer JWT, rejects revoked tokens, and loads the
// caller's account into the request context. The account is loaded fresh on
// every request so role and permission changes take effect immediately, not
// at token expiry.
func Auth(jwtSecret string, accounts ports.AccountRepository, tokens ports.TokenStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			tokenID, _ := claims["jti"].(string)
			if tokenID != "" {
				revoked, err := tokens.IsRevoked(c.Request().Context(), tokenID)
				if err != nil {
					// A revocation store outage must not take
					// authentication down with it.
					log.Warn().Err(err).Msg("token revocation check failed, allowing request")
				} else if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			account, err := accounts.FindByID(c.Request().Context(), sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown account")
			}

			c.Set(CallerKey, account)
			c.Set(TokenIDKey, tokenID)

			return next(c)
		}
	}
}
