package api

import "crypto/subtle"

// VerifySecret compares the secret presented by the request against the
// configured shared secret in constant time. An unset configured secret
// rejects everything rather than waving everyone through.
func VerifySecret(presented, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}
