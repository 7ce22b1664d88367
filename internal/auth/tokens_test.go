package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playarena/internal/shared/config"
	"playarena/internal/users"
)

func testSigner() *signer {
	return newSigner(config.JWTConfig{Secret: "s3cret", JWTExpiresIn: time.Minute, RefreshExpiresIn: time.Hour})
}

func TestSigner_IssueCarriesRoleAndKind(t *testing.T) {
	s := testSigner()
	user := &users.User{ID: uuid.New(), Email: "v@example.com", Role: users.RoleVendor}

	pair, err := s.issue(user)
	require.NoError(t, err)
	assert.EqualValues(t, 60, pair.ExpiresIn)

	claims, err := s.parse(pair.AccessToken, tokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "VENDOR", claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	_, err = s.parse(pair.AccessToken, tokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_ExpiredToken(t *testing.T) {
	s := testSigner()
	s.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	pair, err := s.issue(&users.User{ID: uuid.New(), Role: users.RoleUser})
	require.NoError(t, err)

	_, err = s.parse(pair.AccessToken, "")
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = s.parse(pair.RefreshToken, tokenTypeRefresh)
	assert.NoError(t, err)
}

func TestSigner_RejectsForeignSecret(t *testing.T) {
	other := newSigner(config.JWTConfig{Secret: "other", JWTExpiresIn: time.Minute})
	pair, err := other.issue(&users.User{ID: uuid.New(), Role: users.RoleUser})
	require.NoError(t, err)

	_, err = testSigner().parse(pair.AccessToken, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
