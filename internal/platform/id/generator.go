package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// PrefixedGenerator namespaces IDs so session and participant references are
// distinguishable in logs and URLs, e.g. "drf_0a1b...".
type PrefixedGenerator struct {
	prefix string
	inner  Generator
}

func NewPrefixedGenerator(prefix string) *PrefixedGenerator {
	return &PrefixedGenerator{prefix: prefix, inner: NewRandomGenerator()}
}

func (g *PrefixedGenerator) NewID() (string, error) {
	raw, err := g.inner.NewID()
	if err != nil {
		return "", err
	}
	if g.prefix == "" {
		return raw, nil
	}
	return g.prefix + "_" + raw, nil
}
