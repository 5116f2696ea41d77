// Package id generates prefixed document IDs.
//
// Every stored record carries an ID of the form "<kind>-<nanoid>", e.g.
// "list-V1StGXR8_Z5jdHi6B-myT". The kind prefix makes raw database keys and
// log lines self-describing; the NanoID part is 21 URL-safe characters, which
// keeps IDs shorter than UUIDs at comparable entropy.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns a fresh prefixed ID. It fails only when the system cannot
// provide secure random bytes.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustGenerate is Generate but panics on failure. Reserve it for program
// paths where missing entropy should be fatal, like seeding tools.
func MustGenerate(prefix string) string {
	nid, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return nid
}
