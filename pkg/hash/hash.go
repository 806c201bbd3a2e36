package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Guest voter ids are derived with iterated SHA256 so a raw device
// identifier is never stored server-side.
const guestIDIterations = 1000

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// IteratedSHA256 applies SHA256 iteratively n times to produce a derived hash.
func IteratedSHA256(input string, iterations int) string {
	data := []byte(input)
	for range iterations {
		h := sha256.Sum256(data)
		data = h[:]
	}
	return hex.EncodeToString(data)
}

// GuestVoterID derives the stable pseudo voter id for an anonymous device.
// The same device identifier always maps to the same voter id; distinct
// devices diverge with overwhelming probability.
func GuestVoterID(deviceID string) string {
	return "guest_" + IteratedSHA256("device:"+deviceID, guestIDIterations)[:12]
}

// HashIPForKey produces a short irreversible hash prefix of an IP address,
// used for rate-limit keys and log correlation without storing raw PII.
func HashIPForKey(ip string) string {
	return SHA256Hex(ip)[:12]
}
