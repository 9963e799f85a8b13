package engine

// RGB is one indicator colour, 0-255 per channel.
type RGB [3]uint8

// NumLights is the number of RGB indicators on the controller.
const NumLights = 4

// Lights drives the indicators.
type Lights interface {
	SetPixel(i int, c RGB)
}

// Wheel maps pos in [0, 255] onto a colour wheel running red to green to
// blue and back to red. Anything outside the range is black.
func Wheel(pos float64) RGB {
	switch {
	case pos < 0 || pos > 255:
		return RGB{}
	case pos < 85:
		return RGB{uint8(pos * 3), uint8(255 - pos*3), 0}
	case pos < 170:
		pos -= 85
		return RGB{uint8(255 - pos*3), 0, uint8(pos * 3)}
	default:
		pos -= 170
		return RGB{0, uint8(pos * 3), uint8(255 - pos*3)}
	}
}

// FretColor is the feedback colour for a fret or trigger pad.
func FretColor(fret int) RGB {
	return Wheel(float64(fret) / NumFrets * 255)
}

// ChannelPattern renders channel as a 4-bit pattern across the indicators,
// most significant bit on indicator 0. Channel 16 wraps to all dark.
func ChannelPattern(channel int) [NumLights]RGB {
	var out [NumLights]RGB
	for p := range out {
		bit := (channel >> (NumLights - 1 - p)) & 1
		if bit == 0 {
			continue
		}
		out[p] = Wheel(float64(channel*p) / 60 * 255)
	}
	return out
}
