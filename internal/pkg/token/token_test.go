package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(t *testing.T, clock *fakeClock) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", 0, WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

func TestManager_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	tok, err := m.Issue("665f1c2a9b1e8a0012345678")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2a9b1e8a0012345678", id)
}

func TestManager_ExpiresAfterThirtyDays(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	m := newTestManager(t, clock)

	tok, err := m.Issue("user-1")
	require.NoError(t, err)

	clock.t = start.Add(30*24*time.Hour - time.Minute)
	_, err = m.Verify(tok)
	require.NoError(t, err)

	clock.t = start.Add(30*24*time.Hour + time.Second)
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_UniqueTokenIDs(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	a, err := m.Issue("user-1")
	require.NoError(t, err)
	b, err := m.Issue("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	other, err := NewManager("other-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	tok, err := other.Issue("user-1")
	require.NoError(t, err)

	_, err = newTestManager(t, clock).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsMalformed(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestManager_RejectsForeignClaims(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, &fakeClock{t: now})

	sign := func(c Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return s
	}

	wrongIssuer := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: "user-1",
	})
	missingID := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	noExpiry := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
		UserID:           "user-1",
	})

	for name, tok := range map[string]string{"issuer": wrongIssuer, "id": missingID, "exp": noExpiry} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestManager_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, &fakeClock{t: now})

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: "user-1",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManager_EmptySecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
