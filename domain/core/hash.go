package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough to tell runs apart in logs.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ComputeProtocolHash fingerprints the cross-validation protocol of a run.
// Two runs with the same hash used identical labels, folds, repeats and seed.
func ComputeProtocolHash(labels []int, numFolds, numRepeats int, seed int64, classifier string) Hash {
	var data strings.Builder
	for _, l := range labels {
		data.WriteString(fmt.Sprintf("%d,", l))
	}
	data.WriteString(fmt.Sprintf("|k=%d|r=%d|seed=%d|clf=%s", numFolds, numRepeats, seed, classifier))
	return NewHash([]byte(data.String()))
}
