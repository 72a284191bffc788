// Package integrity computes and checks submission-binding proof values.
//
// The proof is a deterministic digest tying a (name, score) pair to a
// shared salt. It is best-effort obfuscation against casual score
// forging, not authentication: there is no nonce, no replay protection,
// and the value is guessable given name, score and salt.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Verifier decides whether a submission carries an acceptable proof.
// The checker to use is chosen once at startup: a real verifier when
// proof binding is required, the disabled one otherwise. Handlers hold
// a single code path either way.
type Verifier interface {
	// Verify reports whether proof binds name and score.
	Verify(name string, score int64, proof string) bool
}

// saltedVerifier is the real checker: sha256 over name + salt + score.
type saltedVerifier struct {
	salt string
}

// New returns a Verifier that requires a matching proof digest computed
// with the given salt.
func New(salt string) Verifier {
	return &saltedVerifier{salt: salt}
}

func (v *saltedVerifier) Verify(name string, score int64, proof string) bool {
	return proof == Expected(name, score, v.salt)
}

// Expected computes the proof digest for a name/score pair: the hex
// sha256 of name, salt, and the decimal form of score, concatenated.
func Expected(name string, score int64, salt string) string {
	sum := sha256.Sum256([]byte(name + salt + strconv.FormatInt(score, 10)))
	return hex.EncodeToString(sum[:])
}

// noopVerifier accepts every submission.
type noopVerifier struct{}

// Disabled returns a Verifier that accepts everything, used when proof
// binding is turned off.
func Disabled() Verifier {
	return noopVerifier{}
}

func (noopVerifier) Verify(string, int64, string) bool { return true }
