package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// jwtActor accepts an HS256 bearer token and records its email claim as the
// acting staff member on the request context.
func jwtActor(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims := jwt.MapClaims{}
			if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFunc); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}
			actor := actorFromClaims(claims)
			if actor == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no email claim")
			}

			ctx := service.WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func actorFromClaims(claims jwt.MapClaims) string {
	email, _ := claims["email"].(string)
	sub, _ := claims.GetSubject()
	return domain.CoalesceStr(strings.TrimSpace(email), strings.TrimSpace(sub))
}

// IssueToken signs a staff token for email, valid for ttl.
func IssueToken(secret []byte, email string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("jwt secret is empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   email,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
