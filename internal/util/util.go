package util

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// Fingerprint identifies a model by the Keccak-256 hash of its text.
func Fingerprint(content []byte) string {
	return hex.EncodeToString(crypto.Keccak256(content))
}

// SessionKey is the store key of the session of the model at path.
func SessionKey(path string) string {
	return "session:" + path
}
