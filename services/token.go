package services

import (
	"fmt"
	"time"

	"github.com/Dosada05/pokedex-tracker/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Имена claims в токенах.
const (
	jwtClaimUserID   = "user_id"
	jwtClaimUsername = "username"
	jwtClaimType     = "type"
	jwtClaimJTI      = "jti"

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Identity — личность, удостоверенная access-токеном.
type Identity struct {
	UserID   int
	Username string
}

// RefreshClaims — разобранный refresh-токен.
type RefreshClaims struct {
	Identity
	JTI       string
	ExpiresAt time.Time
}

// TokenManager выпускает и проверяет пары подписанных токенов.
// Секрет и время жизни передаются при старте из конфигурации.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (m *TokenManager) IssuePair(user *models.User) (models.TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		jwtClaimUserID:   user.ID,
		jwtClaimUsername: user.Username,
		jwtClaimType:     tokenTypeAccess,
		"iat":            now.Unix(),
		"exp":            now.Add(m.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(m.secret)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := jwt.MapClaims{
		jwtClaimUserID:   user.ID,
		jwtClaimUsername: user.Username,
		jwtClaimType:     tokenTypeRefresh,
		jwtClaimJTI:      uuid.NewString(),
		"iat":            now.Unix(),
		"exp":            now.Add(m.refreshTTL).Unix(),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(m.secret)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseAccess проверяет подпись, срок действия и тип access-токена.
func (m *TokenManager) ParseAccess(tokenString string) (Identity, error) {
	claims, err := m.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return Identity{}, err
	}
	return identityFromClaims(claims)
}

// ParseRefresh проверяет refresh-токен и возвращает его claims,
// включая jti для списка отозванных.
func (m *TokenManager) ParseRefresh(tokenString string) (RefreshClaims, error) {
	claims, err := m.parse(tokenString, tokenTypeRefresh)
	if err != nil {
		return RefreshClaims{}, err
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		return RefreshClaims{}, err
	}

	jti, ok := claims[jwtClaimJTI].(string)
	if !ok || jti == "" {
		return RefreshClaims{}, fmt.Errorf("%w: missing '%s' claim", ErrInvalidToken, jwtClaimJTI)
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return RefreshClaims{}, fmt.Errorf("%w: missing 'exp' claim", ErrInvalidToken)
	}

	return RefreshClaims{
		Identity:  identity,
		JTI:       jti,
		ExpiresAt: time.Unix(int64(expFloat), 0),
	}, nil
}

func (m *TokenManager) parse(tokenString, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if tokenType, _ := claims[jwtClaimType].(string); tokenType != wantType {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, wantType)
	}

	return claims, nil
}

func identityFromClaims(claims jwt.MapClaims) (Identity, error) {
	// encoding/json разбирает числовые claims в float64
	userIDFloat, ok := claims[jwtClaimUserID].(float64)
	if !ok || userIDFloat != float64(int(userIDFloat)) || int(userIDFloat) <= 0 {
		return Identity{}, fmt.Errorf("%w: invalid '%s' claim", ErrInvalidToken, jwtClaimUserID)
	}

	username, ok := claims[jwtClaimUsername].(string)
	if !ok || username == "" {
		return Identity{}, fmt.Errorf("%w: invalid '%s' claim", ErrInvalidToken, jwtClaimUsername)
	}

	return Identity{UserID: int(userIDFloat), Username: username}, nil
}
