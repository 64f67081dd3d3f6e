// Package vaultkey generates and checks attachment vault keys. Every key
// lives inside exactly one owner partition, and keys are random per call
// so concurrent uploads never collide.
package vaultkey

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for vault key generation strategies.
type Generator interface {
	// Generate creates a fresh key inside the owner's partition.
	Generate(owner, fileName string) string

	// Owns reports whether key lies inside the owner's partition.
	Owns(owner, key string) bool
}

// RandomGenerator issues keys of the form
// owners/{owner}/{random}_{filename}. The random component is a uuid, so
// callers never choose keys and collisions cannot occur.
type RandomGenerator struct {
	// Prefix is the top-level directory of all partitions.
	Prefix string
}

// New creates a RandomGenerator with the default partition prefix.
func New() *RandomGenerator {
	return &RandomGenerator{Prefix: "owners"}
}

func (g *RandomGenerator) partition(owner string) string {
	return fmt.Sprintf("%s/%s/", g.Prefix, sanitizePathComponent(owner))
}

func (g *RandomGenerator) Generate(owner, fileName string) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")
	key := g.partition(owner) + random
	if fileName != "" {
		key += "_" + sanitizeFilename(fileName)
	}
	return key
}

func (g *RandomGenerator) Owns(owner, key string) bool {
	if owner == "" {
		return false
	}
	return strings.HasPrefix(key, g.partition(owner))
}

// Helper functions for path sanitization

func sanitizeFilename(filename string) string {
	// Replace problematic characters for storage-key compatibility
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(filename)
}

func sanitizePathComponent(component string) string {
	// Same replacement set; a "/" in an owner id must never open a new
	// partition level.
	return sanitizeFilename(component)
}
