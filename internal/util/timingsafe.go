package util

import "crypto/subtle"

// SecureCompare reports whether two credential strings are equal.
//
// The length check short-circuits: credential length is not treated as
// secret, and bailing out early avoids out-of-bounds reads. The content
// comparison accumulates an XOR across every byte so the time taken does
// not depend on the position of the first mismatch.
func SecureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
	}
	return subtle.ConstantTimeByteEq(diff, 0) == 1
}
