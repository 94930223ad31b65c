package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("test-secret", time.Nanosecond)
	token, err := m.Issue("user-123")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongKey(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue("user-123")
	require.NoError(t, err)

	// 签名不符与过期对调用方不可区分
	_, err = NewManager("secret-b", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestDefaultExpire(t *testing.T) {
	m := NewManager("test-secret", 0)
	require.Equal(t, 168*time.Hour, m.expire)
}
