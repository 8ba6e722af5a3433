package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 HashAlgo = "sha256"
	HashAlgoBLAKE3 HashAlgo = "blake3"
)

// ParseHashAlgo accepts the algorithm names used in config files.
func ParseHashAlgo(name string) (HashAlgo, error) {
	switch HashAlgo(name) {
	case HashAlgoSHA256, HashAlgoBLAKE3:
		return HashAlgo(name), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// HashBytes returns the hash of bytes as a hex string using the specified algorithm.
// Supported algorithms: "sha256" and "blake3".
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:]), nil
	case HashAlgoBLAKE3:
		hash := blake3.Sum256(data)
		return hex.EncodeToString(hash[:]), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// ShortKey returns the first n hex characters of the hash of key.
func ShortKey(key string, algo HashAlgo, n int) (string, error) {
	full, err := HashBytes([]byte(key), algo)
	if err != nil {
		return "", err
	}
	if n <= 0 || n > len(full) {
		return full, nil
	}
	return full[:n], nil
}
