//go:build headless

// testcard_test.go - Test card drawing and framebuffer upload

package main

import (
	"bytes"
	"image/color"
	"testing"
)

func TestEncodePixel(t *testing.T) {
	c := color.RGBA{0xC0, 0x80, 0x40, 0xFF}
	tests := []struct {
		bpp  int
		want []byte
	}{
		{8, []byte{0xC0 | 0x10 | 0x01}},
		{15, []byte{0x08, 0x62}},
		{16, []byte{0x08, 0xC4}},
		{24, []byte{0x40, 0x80, 0xC0}},
		{32, []byte{0x40, 0x80, 0xC0, 0x00}},
	}
	for _, tt := range tests {
		if got := encodePixel(nil, c, tt.bpp); !bytes.Equal(got, tt.want) {
			t.Errorf("encodePixel(%d) = % X, want % X", tt.bpp, got, tt.want)
		}
	}
}

func TestDrawTestCard_Layout(t *testing.T) {
	img := drawTestCard(640, 480, "test")
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Fatalf("bounds %v", b)
	}
	got := color.RGBAModel.Convert(img.At(16, 16)).(color.RGBA)
	if got != (color.RGBA{0xC0, 0xC0, 0xC0, 0xFF}) {
		t.Fatalf("first bar = %v", got)
	}
	got = color.RGBAModel.Convert(img.At(640-16, 16)).(color.RGBA)
	if got != (color.RGBA{0x00, 0x00, 0xC0, 0xFF}) {
		t.Fatalf("last bar = %v", got)
	}
}

func TestShowTestCard_Uploads(t *testing.T) {
	m := newTestMachine(t)
	vm, err := parseMode("640x480x16")
	if err != nil {
		t.Fatal(err)
	}
	if err := ShowTestCard(m, vm); err != nil {
		t.Fatalf("ShowTestCard: %v", err)
	}

	off := uint32(16*vm.Pitch() + 16*vm.BytesPerPixel())
	if lo, hi := vramByte(m, off), vramByte(m, off+1); lo != 0x18 || hi != 0xC6 {
		t.Fatalf("pixel (16,16) = %02X%02X, want C618", hi, lo)
	}

	img := renderOnce(m, newFrameRenderer())
	if got := rgbAt(img, 16, 16); got != 0xC6C3C6 {
		t.Fatalf("rendered pixel = %06X", got)
	}
}

func TestShowTestCard_RejectsOversizedMode(t *testing.T) {
	m := newTestMachine(t)
	vm, err := parseMode("2048x1536x32")
	if err != nil {
		t.Fatal(err)
	}
	if err := ShowTestCard(m, vm); err == nil {
		t.Fatal("12MB mode accepted on a 4MB card")
	}
}
