// Password hashing.
//
// bcrypt salts every hash and embeds salt and cost in its output, so the
// digest is stored as-is in the user document:
//
//	$2a$10$<22-char salt><31-char hash>
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordMismatch = errors.New("auth: invalid password")
	// ErrPasswordTooLong means the plaintext exceeds MaxPasswordBytes.
	// Registration validates the same bound, so reaching it is a bug.
	ErrPasswordTooLong = errors.New("auth: password longer than 72 bytes")
)

// defaultCost is the bcrypt work factor. Digests created by earlier
// deployments at cost 10 keep verifying since the cost is read from the hash.
const defaultCost = 10

// MaxPasswordBytes is bcrypt's input limit. Longer input would be
// truncated silently, so Hash refuses it.
const MaxPasswordBytes = 72

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so that the cost can be injected
// in tests: using a lower cost (e.g. 4) makes tests run much faster
// without compromising the logic being tested.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Tests in other packages pass bcrypt.MinCost to keep hashing fast.
// Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is a self-contained string like:
//
//	$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy
//
// Store this string directly in the database. It includes the salt and
// cost, and bcrypt.CompareHashAndPassword knows how to decode it.
//
// Returns ErrPasswordTooLong past MaxPasswordBytes. The limit is in bytes,
// so 30 runes of CJK text (90 bytes) is already too long.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
//
// Returns nil if they match, a non-nil error if they don't.
//
// ErrPasswordMismatch is returned (wrapped) when the password is wrong.
// Any other error means the digest itself could not be used.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
