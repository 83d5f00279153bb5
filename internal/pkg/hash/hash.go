package hash

// Hash produces and verifies keyed proofs of secret values.
//
// The reset flow never stores a one-time code in clear; it stores the proof
// returned by Hash and later checks user input with Verify.
type Hash interface {
	// Hash returns the proof for the given plaintext.
	Hash(str string) ([]byte, error)
	// Verify reports whether plaintext str matches the stored proof.
	Verify(hashed, str string) bool
}
