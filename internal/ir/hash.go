package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future encoding change.
const (
	DomainExperiment = "dyadic/experiment/v1"
	DomainLevels     = "dyadic/levels/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps domain and data from running into each other.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ExperimentID computes the content-addressed ID of an experiment
// definition. Runs of the same definition share the ID; their RunIDs differ.
func ExperimentID(e Experiment) (string, error) {
	canonical, err := MarshalCanonical(e)
	if err != nil {
		return "", fmt.Errorf("ExperimentID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainExperiment, canonical), nil
}

// LevelsDigest computes the digest of a list of levels. Order matters.
func LevelsDigest(levels []Level) (string, error) {
	canonical, err := MarshalCanonical(levels)
	if err != nil {
		return "", fmt.Errorf("LevelsDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainLevels, canonical), nil
}

// MustExperimentID is like ExperimentID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustExperimentID(e Experiment) string {
	id, err := ExperimentID(e)
	if err != nil {
		panic(err)
	}
	return id
}
