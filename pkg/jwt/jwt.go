package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// 签名或过期失败对调用方不可区分，中间件统一按 401 处理
var ErrInvalidToken = errors.New("invalid or expired token")

// Manager 无状态 HS256 令牌签发/校验
type Manager struct {
	secret []byte
	expire time.Duration
}

func NewManager(secret string, expire time.Duration) *Manager {
	if expire <= 0 {
		expire = 168 * time.Hour
	}
	return &Manager{secret: []byte(secret), expire: expire}
}

// Issue 签发携带用户 ID 与过期时间的令牌
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwtlib.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(m.expire)),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify 校验签名与过期时间，成功返回用户 ID
func (m *Manager) Verify(token string) (string, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &jwtlib.RegisteredClaims{},
		func(t *jwtlib.Token) (interface{}, error) { return m.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwtlib.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
