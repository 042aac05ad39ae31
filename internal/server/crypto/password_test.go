package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-livestock-market/internal/server/crypto"
)

func defaultParams() crypt.Argon2Params {
	return crypt.Argon2Params{
		Time:      1,
		MemoryKiB: 32 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}
}

// Хэширование и успешная проверка
func TestHashAndVerifyPassword_OK(t *testing.T) {
	hash, err := crypt.HashPassword("super-secret-password", defaultParams())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "argon2id$v=19$"))
	require.NotContains(t, hash, "super-secret-password")

	ok, err := crypt.VerifyPassword("super-secret-password", hash)
	require.NoError(t, err)
	require.True(t, ok)
}

// Неверный пароль
func TestVerifyPassword_InvalidPassword(t *testing.T) {
	hash, err := crypt.HashPassword("correct-password", defaultParams())
	require.NoError(t, err)

	ok, err := crypt.VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

// Кривой формат хэша
func TestVerifyPassword_InvalidFormat(t *testing.T) {
	_, err := crypt.VerifyPassword("password", "not-a-hash")
	require.Error(t, err)
}

// Пустой пароль не хэшируем
func TestHashPassword_Empty(t *testing.T) {
	_, err := crypt.HashPassword("   ", defaultParams())
	require.Error(t, err)
}

// Одинаковые пароли дают разные хэши (соль)
func TestHashPassword_Salted(t *testing.T) {
	a, err := crypt.HashPassword("p", defaultParams())
	require.NoError(t, err)
	b, err := crypt.HashPassword("p", defaultParams())
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestPasswordHasher_Bcrypt(t *testing.T) {
	h := crypt.NewPasswordHasher("bcrypt", defaultParams(), 4)

	hash, err := h.Hash("p")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"))

	ok, err := h.Verify("p", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("q", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

// Хэшер проверяет оба формата, даже если текущий алгоритм другой
func TestPasswordHasher_VerifiesBothFormats(t *testing.T) {
	argonHasher := crypt.NewPasswordHasher("argon2id", defaultParams(), 4)
	bcryptHasher := crypt.NewPasswordHasher("bcrypt", defaultParams(), 4)

	argonHash, err := argonHasher.Hash("secret")
	require.NoError(t, err)
	bcryptHash, err := bcryptHasher.Hash("secret")
	require.NoError(t, err)

	ok, err := bcryptHasher.Verify("secret", argonHash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = argonHasher.Verify("secret", bcryptHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPasswordHasher_VerifyDummy(t *testing.T) {
	h := crypt.NewPasswordHasher("argon2id", defaultParams(), 0)
	h.VerifyDummy("anything")
	h.VerifyDummy("anything-else")
}
