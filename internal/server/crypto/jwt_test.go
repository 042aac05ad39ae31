package crypto_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-livestock-market/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
)

func testJWTConfig() crypt.JWTConfig {
	return crypt.JWTConfig{
		Issuer:     "livestock",
		Audience:   "livestock-cli",
		SigningKey: "supersecretkeysupersecretkey123456",
		AccessTTL:  5 * time.Minute,
	}
}

func testIdentity() crypt.Identity {
	return crypt.Identity{ID: uuid.New(), Email: "farmer@mail.com", Name: "Old MacDonald", Role: "farmer"}
}

func TestNewAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	user := testIdentity()

	tokenStr, issued, err := crypt.NewAccessToken(user, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	require.NotEmpty(t, issued.ID, "jti must be set")

	claims, err := crypt.ParseAccessToken(tokenStr, cfg)
	require.NoError(t, err)

	got, err := claims.Identity()
	require.NoError(t, err)
	require.Equal(t, user, got)
	require.Equal(t, user.ID.String(), claims.Subject)
	require.Equal(t, issued.ID, claims.ID)
	require.WithinDuration(t, time.Now().Add(cfg.AccessTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestNewAccessToken_UniqueJTI(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	user := testIdentity()

	_, a, err := crypt.NewAccessToken(user, cfg)
	require.NoError(t, err)
	_, b, err := crypt.NewAccessToken(user, cfg)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	cfg.AccessTTL = -time.Minute

	tokenStr, _, err := crypt.NewAccessToken(testIdentity(), cfg)
	require.NoError(t, err)

	_, err = crypt.ParseAccessToken(tokenStr, cfg)
	require.ErrorIs(t, err, crypt.ErrTokenExpired)
	require.ErrorIs(t, err, serr.ErrUnauthorized)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	good, _, err := crypt.NewAccessToken(testIdentity(), cfg)
	require.NoError(t, err)

	otherKey := cfg
	otherKey.SigningKey = "another-secret-another-secret-1234"

	otherIss := cfg
	otherIss.Issuer = "someone-else"

	otherAud := cfg
	otherAud.Audience = "web"

	cases := map[string]struct {
		token string
		cfg   crypt.JWTConfig
	}{
		"garbage":      {"not-a-jwt", cfg},
		"wrong key":    {good, otherKey},
		"wrong issuer": {good, otherIss},
		"wrong aud":    {good, otherAud},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := crypt.ParseAccessToken(tc.token, tc.cfg)
			require.ErrorIs(t, err, serr.ErrUnauthorized)
		})
	}
}

// Токен с алгоритмом none не принимается
func TestParseAccessToken_RejectsNoneAlg(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	user := testIdentity()

	claims := crypt.Claims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    cfg.Issuer,
			Audience:  []string{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = crypt.ParseAccessToken(s, cfg)
	require.True(t, errors.Is(err, serr.ErrUnauthorized))
}

// sub и id в токене должны совпадать
func TestParseAccessToken_SubjectMismatch(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	claims := crypt.Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    cfg.Issuer,
			Audience:  []string{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SigningKey))
	require.NoError(t, err)

	_, err = crypt.ParseAccessToken(s, cfg)
	require.ErrorIs(t, err, serr.ErrUnauthorized)
}
