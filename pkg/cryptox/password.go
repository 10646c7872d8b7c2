package cryptox

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Argon2id parameters for newly created hashes.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrMismatch      = errors.New("cryptox: password does not match")
	ErrInvalidHash   = errors.New("cryptox: invalid hash format")
	ErrUnknownScheme = errors.New("cryptox: unknown hash scheme")
)

// PasswordHasher hashes new passwords with peppered Argon2id and verifies
// both those and the legacy formats found in imported user records: werkzeug
// "pbkdf2:" and "scrypt:" strings, and bcrypt "$2a$"/"$2b$"/"$2y$" hashes.
// Legacy hashes were created without a pepper and are verified without one.
type PasswordHasher struct {
	pepper string
}

// NewPasswordHasher returns a hasher that appends pepper to every password.
func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{pepper: pepper}
}

// Hash produces a PHC-format Argon2id string.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(password+h.pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify checks password against encoded. It returns ErrMismatch for a wrong
// password and ErrInvalidHash or ErrUnknownScheme when encoded is unusable.
func (h *PasswordHasher) Verify(encoded, password string) error {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return h.verifyArgon2id(encoded, password)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return verifyBcrypt(encoded, password)
	case strings.HasPrefix(encoded, "pbkdf2:"), strings.HasPrefix(encoded, "scrypt:"):
		return verifyWerkzeug(encoded, password)
	default:
		return ErrUnknownScheme
	}
}

// NeedsRehash reports whether encoded should be replaced by a fresh Hash
// after the next successful Verify.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	return !strings.HasPrefix(encoded, fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$",
		argon2.Version, memory, iterations, parallelism))
}

func (h *PasswordHasher) verifyArgon2id(encoded, password string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %w", ErrInvalidHash, err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %w", ErrInvalidHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return fmt.Errorf("%w: hash", ErrInvalidHash)
	}

	got := argon2.IDKey([]byte(password+h.pepper), salt, iters, mem, par, uint32(len(want))) // #nosec G115
	return compare(got, want)
}

func verifyBcrypt(encoded, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
}

// verifyWerkzeug handles "method$salt$hexdigest" where method is either
// "pbkdf2:<digest>[:iterations]" or "scrypt:<n>:<r>:<p>".
func verifyWerkzeug(encoded, password string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return fmt.Errorf("%w: expected method$salt$hash", ErrInvalidHash)
	}
	method, salt := parts[0], []byte(parts[1])
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return fmt.Errorf("%w: hash", ErrInvalidHash)
	}

	fields := strings.Split(method, ":")
	switch fields[0] {
	case "pbkdf2":
		if len(fields) < 2 || len(fields) > 3 {
			return fmt.Errorf("%w: pbkdf2 method", ErrInvalidHash)
		}
		var newHash func() hash.Hash
		switch fields[1] {
		case "sha1":
			newHash = sha1.New
		case "sha256":
			newHash = sha256.New
		case "sha512":
			newHash = sha512.New
		default:
			return fmt.Errorf("%w: pbkdf2 digest %q", ErrUnknownScheme, fields[1])
		}
		iter := 600000
		if len(fields) == 3 {
			if iter, err = strconv.Atoi(fields[2]); err != nil || iter <= 0 {
				return fmt.Errorf("%w: pbkdf2 iterations", ErrInvalidHash)
			}
		}
		return compare(pbkdf2.Key([]byte(password), salt, iter, len(want), newHash), want)

	case "scrypt":
		if len(fields) != 4 {
			return fmt.Errorf("%w: scrypt method", ErrInvalidHash)
		}
		var n, r, p int
		for i, dst := range []*int{&n, &r, &p} {
			if *dst, err = strconv.Atoi(fields[i+1]); err != nil || *dst <= 0 {
				return fmt.Errorf("%w: scrypt parameters", ErrInvalidHash)
			}
		}
		got, err := scrypt.Key([]byte(password), salt, n, r, p, len(want))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidHash, err)
		}
		return compare(got, want)
	}

	return ErrUnknownScheme
}

func compare(got, want []byte) error {
	if subtle.ConstantTimeCompare(got, want) == 1 {
		return nil
	}
	return ErrMismatch
}
