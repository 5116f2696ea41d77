// Package color derives display colors for user avatars.
package color

import (
	"fmt"
	"hash/fnv"
)

// Fixed saturation and lightness keep every generated color readable as a
// background for white text.
const (
	avatarSaturation = 0.45
	avatarLightness  = 0.6
)

// ForUser returns a stable hex color for a user ID. The same ID always maps
// to the same color, so clients can render avatar placeholders without the
// server storing a preference.
func ForUser(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	hue := float64(h.Sum32() % 360)

	r, g, b := hslToRGB(hue, avatarSaturation, avatarLightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hslToRGB converts a hue in degrees plus saturation and lightness fractions
// to 8-bit RGB channels.
func hslToRGB(hue, sat, light float64) (uint8, uint8, uint8) {
	if sat == 0 {
		v := uint8(light * 255)
		return v, v, v
	}

	var q float64
	if light < 0.5 {
		q = light * (1 + sat)
	} else {
		q = light + sat - light*sat
	}
	p := 2*light - q

	norm := hue / 360

	toChannel := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var c float64
		switch {
		case t < 1.0/6.0:
			c = p + (q-p)*6*t
		case t < 1.0/2.0:
			c = q
		case t < 2.0/3.0:
			c = p + (q-p)*(2.0/3.0-t)*6
		default:
			c = p
		}
		return uint8(c * 255)
	}

	return toChannel(norm + 1.0/3.0), toChannel(norm), toChannel(norm - 1.0/3.0)
}
