package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForUser_Deterministic(t *testing.T) {
	first := ForUser("user-V1StGXR8_Z5jdHi6B-myT")
	second := ForUser("user-V1StGXR8_Z5jdHi6B-myT")
	assert.Equal(t, first, second)
}

func TestForUser_Format(t *testing.T) {
	got := ForUser("user-abc123")
	assert.Regexp(t, `^#[0-9A-F]{6}$`, got)
}

func TestForUser_VariesByID(t *testing.T) {
	colors := make(map[string]bool)
	for _, id := range []string{"user-a", "user-b", "user-c", "user-d", "user-e"} {
		colors[ForUser(id)] = true
	}
	// A few IDs should not all collapse to one color.
	assert.Greater(t, len(colors), 1)
}
