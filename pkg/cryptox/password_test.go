package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Vectors produced by werkzeug.security.generate_password_hash for
// "DemoPassword123!" with reduced work factors.
const (
	werkzeugPBKDF2 = "pbkdf2:sha256:1000$s4ltS4ltS4lt$24ca811a5d092077a5bc1f69e5606363a1077fc4027b3beea877e64ed8c9b621"
	werkzeugScrypt = "scrypt:1024:8:1$s4ltS4ltS4lt$c358c6a091c739cd2f0c4352088da85f3b5e324634e6fc6db5aacf8c49bad25e1f443fd91c48adbd3918967c4da383240596c37e3aec4407ee3536021a5147db"
)

func TestHash(t *testing.T) {
	h := NewPasswordHasher("pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := h.Hash(tt.password)
			require.NoError(t, err)

			parts := strings.Split(encoded, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.NotEmpty(t, parts[4])
			require.NotEmpty(t, parts[5])

			require.NoError(t, h.Verify(encoded, tt.password))
			require.False(t, h.NeedsRehash(encoded))
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := NewPasswordHasher("pepper")

	a, err := h.Hash("samepassword")
	require.NoError(t, err)
	b, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, h.Verify(a, "samepassword"))
	require.NoError(t, h.Verify(b, "samepassword"))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := NewPasswordHasher("pepper")
	encoded, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", strings.Repeat("x", 10000)} {
		require.ErrorIs(t, h.Verify(encoded, wrong), ErrMismatch, "password %q", wrong)
	}
}

func TestVerify_PepperIsPartOfTheHash(t *testing.T) {
	encoded, err := NewPasswordHasher("one").Hash("secret-pass")
	require.NoError(t, err)

	require.ErrorIs(t, NewPasswordHasher("two").Verify(encoded, "secret-pass"), ErrMismatch)
}

func TestVerify_InvalidHashFormat(t *testing.T) {
	h := NewPasswordHasher("pepper")

	tests := []struct {
		name    string
		encoded string
		want    error
	}{
		{"empty hash", "", ErrUnknownScheme},
		{"unknown scheme", "$md5$abc", ErrUnknownScheme},
		{"missing parts", "$argon2id$v=19$m=19456", ErrInvalidHash},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA", ErrInvalidHash},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA", ErrInvalidHash},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA", ErrInvalidHash},
		{"werkzeug bad hex", "pbkdf2:sha256:1000$salt$zz", ErrInvalidHash},
		{"werkzeug unknown digest", "pbkdf2:md5:1000$salt$abcd", ErrUnknownScheme},
		{"werkzeug scrypt params", "scrypt:x:8:1$salt$abcd", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, h.Verify(tt.encoded, "test-password"), tt.want)
		})
	}
}

func TestVerify_Legacy(t *testing.T) {
	h := NewPasswordHasher("pepper")

	bc, err := bcrypt.GenerateFromPassword([]byte("DemoPassword123!"), bcrypt.MinCost)
	require.NoError(t, err)

	for name, encoded := range map[string]string{
		"werkzeug pbkdf2": werkzeugPBKDF2,
		"werkzeug scrypt": werkzeugScrypt,
		"bcrypt":          string(bc),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, h.Verify(encoded, "DemoPassword123!"))
			require.ErrorIs(t, h.Verify(encoded, "demopassword123!"), ErrMismatch)
			require.True(t, h.NeedsRehash(encoded))
		})
	}
}
