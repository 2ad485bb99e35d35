package oto

import (
	"bytes"
	"testing"
)

func TestFloatBufferTo16BitLE(t *testing.T) {
	got := FloatBufferTo16BitLE([]float32{0, 1, -1, 2, -2, 0.5}, nil)
	want := []byte{
		0x00, 0x00, // 0
		0xFF, 0x7F, // 1 -> 32767
		0x00, 0x80, // -1 -> -32768
		0xFF, 0x7F, // clamped
		0x00, 0x80, // clamped
		0xFF, 0x3F, // 0.5 -> 16383
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("conversion mismatch: got % X, want % X", got, want)
	}
}

func TestFloatBufferTo16BitLEReusesDst(t *testing.T) {
	buf := make([]byte, 0, 16)
	got := FloatBufferTo16BitLE([]float32{0.25}, buf)
	if len(got) != 2 {
		t.Fatalf("expected 2 bytes, got %d", len(got))
	}
	got = FloatBufferTo16BitLE([]float32{0.25, 0.25}, got[:0])
	if len(got) != 4 {
		t.Fatalf("expected 4 bytes after reuse, got %d", len(got))
	}
}
