package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashXML computes the integrity fingerprint of the canonical XML bytes:
// SHA-256, 64-character lowercase hex. Unkeyed; any verifier can
// recompute it and compare against the value embedded in the QR payload.
func HashXML(xmlBytes []byte) string {
	sum := sha256.Sum256(xmlBytes)
	return hex.EncodeToString(sum[:])
}
