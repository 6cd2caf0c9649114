package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// AuthService verifies bearer tokens issued elsewhere. Token issuance is
// out of scope.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	parser       *jwt.Parser
}

func NewAuthService(log *logger.Logger, jwtSecretKey string) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
		parser:       jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// subjectClaims are tried in order; older tokens carry the user id under
// "id" or "userId" instead of "sub".
var subjectClaims = []string{"sub", "id", "_id", "userId", "user_id"}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, nil
	}
	if len(as.jwtSecretKey) == 0 {
		return ctx, fmt.Errorf("jwt secret not configured: %w", pkgerrors.ErrUnauthorized)
	}
	claims := jwt.MapClaims{}
	parsed, err := as.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return as.jwtSecretKey, nil
	})
	if err != nil || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired token: %w", pkgerrors.ErrUnauthorized)
	}

	var userID uuid.UUID
	for _, key := range subjectClaims {
		raw, ok := claims[key].(string)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		id, perr := uuid.Parse(strings.TrimSpace(raw))
		if perr != nil {
			return ctx, fmt.Errorf("invalid user id in token: %w", pkgerrors.ErrUnauthorized)
		}
		userID = id
		break
	}
	if userID == uuid.Nil {
		return ctx, fmt.Errorf("token has no subject: %w", pkgerrors.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tokenString, UserID: userID}), nil
}
