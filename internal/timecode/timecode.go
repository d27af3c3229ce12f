package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultRate is the frame rate used when none is configured.
const DefaultRate = 25

// ErrMalformed reports timecode text that does not contain four integer fields.
var ErrMalformed = errors.New("malformed timecode")

// Codec converts timecode text at a fixed frame rate.
type Codec struct {
	Rate int
}

// New returns a codec for rate, falling back to DefaultRate for non-positive values.
func New(rate int) Codec {
	if rate <= 0 {
		rate = DefaultRate
	}
	return Codec{Rate: rate}
}

func (c Codec) rate() int64 {
	if c.Rate <= 0 {
		return DefaultRate
	}
	return int64(c.Rate)
}

// Decode parses `H:M:S:F` into a frame count. Malformed input returns 0 and an
// error wrapping ErrMalformed.
func (c Codec) Decode(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	fields := strings.Split(trimmed, ":")
	if len(fields) != 4 {
		return 0, fmt.Errorf("%w: %q has %d fields, want 4", ErrMalformed, text, len(fields))
	}
	var parts [4]int64
	for i, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("%w: %q field %d is not a non-negative integer", ErrMalformed, text, i+1)
		}
		parts[i] = value
	}
	h, m, s, f := parts[0], parts[1], parts[2], parts[3]
	return (h*3600+m*60+s)*c.rate() + f, nil
}

// Encode renders frames as HH:MM:SS, rounding to the nearest whole second.
// Negative input renders as 00:00:00.
func (c Codec) Encode(frames int64) string {
	if frames < 0 {
		return zeroClock
	}
	return c.EncodeFloat(float64(frames))
}

// EncodeFloat is Encode for fractional frame counts. NaN, infinities and
// negative values render as 00:00:00.
func (c Codec) EncodeFloat(frames float64) string {
	if math.IsNaN(frames) || math.IsInf(frames, 0) || frames < 0 {
		return zeroClock
	}
	total := int64(math.Round(frames / float64(c.rate())))
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Seconds converts a frame count to seconds.
func (c Codec) Seconds(frames int64) float64 {
	return float64(frames) / float64(c.rate())
}

const zeroClock = "00:00:00"
