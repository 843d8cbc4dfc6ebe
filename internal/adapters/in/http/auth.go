package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errorbank"
)

const actorContextKey = "laundry.actor"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Claims is the token payload issued by the identity service.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and turns them into actors.
type Authenticator struct {
	secret []byte
	logger *zap.Logger
}

func NewAuthenticator(secret string, logger *zap.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger.Named("auth")}
}

// Authenticate parses an Authorization header value.
func (a *Authenticator) Authenticate(header string) (kernel.Actor, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return kernel.Actor{}, ErrMissingToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := kernel.UUIDFromString(claims.UserID)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%w: user id: %w", ErrInvalidToken, err)
	}

	actor, err := kernel.NewActor(userID, kernel.ParseRole(claims.Role))
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return actor, nil
}

// Middleware rejects API requests without a valid token and stores the actor on the context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isAPIRoute(c) {
				return next(c)
			}

			actor, err := a.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return respondError(c, a.logger, errorbank.Unauthorized("missing or invalid token", errorbank.WithCause(err)))
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errorbank.Unauthorized("missing or invalid token", errorbank.WithCause(ErrMissingToken))
	}
	return actor, nil
}
