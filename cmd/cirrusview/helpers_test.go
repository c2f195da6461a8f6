//go:build headless

// helpers_test.go - Shared machine rig for the viewer tests

package main

import (
	"image"
	"testing"

	cirrus "github.com/intuitionamiga/CirrusEngine"
)

// newTestMachine is a 4MB GD5434 on PCI.
func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := NewMachine(cirrus.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

func newTestViewer(t *testing.T, m *Machine) *viewer {
	t.Helper()
	v, err := newViewer(m, 1)
	if err != nil {
		t.Fatalf("newViewer: %v", err)
	}
	return v
}

func setTestMode(t *testing.T, m *Machine, spec string) uint32 {
	t.Helper()
	vm, err := parseMode(spec)
	if err != nil {
		t.Fatalf("parseMode(%q): %v", spec, err)
	}
	base, err := m.SetMode(vm)
	if err != nil {
		t.Fatalf("SetMode(%s): %v", spec, err)
	}
	return base
}

func vramByte(m *Machine, addr uint32) uint8 {
	var b uint8
	m.Do(func(card *cirrus.CirrusEngine) { b = card.VRAM()[addr] })
	return b
}

// rgbAt returns the colour of one frame pixel as 0xRRGGBB.
func rgbAt(img *image.RGBA, x, y int) uint32 {
	c := img.RGBAAt(x, y)
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
