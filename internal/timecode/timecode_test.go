package timecode

import (
	"errors"
	"math"
	"testing"
)

func TestDecode(t *testing.T) {
	codec := New(25)
	tests := []struct {
		name string
		text string
		want int64
	}{
		{"zero", "00:00:00:00", 0},
		{"one hour", "01:00:00:00", 90000},
		{"frames", "01:00:04:24", 90124},
		{"mixed", "02:03:04:05", ((2*3600+3*60+4)*25)+5},
		{"frames beyond rate convert linearly", "00:00:01:30", 55},
		{"surrounding space", " 00:00:10:00 ", 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Decode(tt.text)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Fatalf("Decode(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestDecodeMalformedFallsBackToZero(t *testing.T) {
	codec := New(25)
	for _, text := range []string{"", "01:00:00", "01:00:00:00:00", "01;00;00;00", "aa:bb:cc:dd", "01:-1:00:00"} {
		got, err := codec.Decode(text)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q) error = %v, want ErrMalformed", text, err)
		}
		if got != 0 {
			t.Fatalf("Decode(%q) = %d, want 0", text, got)
		}
	}
}

func TestDecodeUsesRate(t *testing.T) {
	codec := New(30)
	got, err := codec.Decode("00:00:01:02")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != 32 {
		t.Fatalf("Decode = %d, want 32", got)
	}
}

func TestNewFallsBackToDefaultRate(t *testing.T) {
	if New(0).Rate != DefaultRate {
		t.Fatalf("expected default rate %d", DefaultRate)
	}
	var zero Codec
	got, err := zero.Decode("00:00:01:00")
	if err != nil || got != DefaultRate {
		t.Fatalf("zero codec Decode = %d, %v", got, err)
	}
}

func TestEncode(t *testing.T) {
	codec := New(25)
	tests := []struct {
		frames int64
		want   string
	}{
		{0, "00:00:00"},
		{-10, "00:00:00"},
		{25, "00:00:01"},
		{37, "00:00:01"},
		{38, "00:00:02"},
		{250, "00:00:10"},
		{25 * 3725, "01:02:05"},
		{25 * 3600 * 120, "120:00:00"},
	}
	for _, tt := range tests {
		if got := codec.Encode(tt.frames); got != tt.want {
			t.Errorf("Encode(%d) = %q, want %q", tt.frames, got, tt.want)
		}
	}
}

func TestEncodeFloatGuards(t *testing.T) {
	codec := New(25)
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		if got := codec.EncodeFloat(value); got != "00:00:00" {
			t.Fatalf("EncodeFloat(%v) = %q", value, got)
		}
	}
	if got := codec.EncodeFloat(62.5); got != "00:00:03" {
		t.Fatalf("EncodeFloat(62.5) = %q", got)
	}
}

func TestSeconds(t *testing.T) {
	if got := New(25).Seconds(50); got != 2 {
		t.Fatalf("Seconds = %v", got)
	}
}
