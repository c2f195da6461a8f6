// modes.go - Mode set sequences driven through the card's I/O ports

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

import (
	"fmt"
	"strconv"
	"strings"

	cirrus "github.com/intuitionamiga/CirrusEngine"
)

// videoMode is a packed pixel mode, or the 80x25 text mode when Text is set.
type videoMode struct {
	Width, Height int
	BPP           int
	Text          bool
}

func (v videoMode) String() string {
	if v.Text {
		return "text"
	}
	return fmt.Sprintf("%dx%dx%d", v.Width, v.Height, v.BPP)
}

// BytesPerPixel rounds 15bpp up to 2.
func (v videoMode) BytesPerPixel() int {
	return (v.BPP + 7) / 8
}

// Pitch is the length of one scanline in VRAM.
func (v videoMode) Pitch() int {
	return v.Width * v.BytesPerPixel()
}

// parseMode accepts "text" or WIDTHxHEIGHTxBPP.
func parseMode(s string) (videoMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "text" {
		return videoMode{Width: 720, Height: 400, Text: true}, nil
	}
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return videoMode{}, fmt.Errorf("mode %q: want WIDTHxHEIGHTxBPP", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return videoMode{}, fmt.Errorf("mode %q: %w", s, err)
		}
		n[i] = v
	}
	vm := videoMode{Width: n[0], Height: n[1], BPP: n[2]}
	switch {
	case vm.Width < 64 || vm.Width > 2048 || vm.Width%8 != 0:
		return videoMode{}, fmt.Errorf("mode %q: width must be a multiple of 8 in 64..2048", s)
	case vm.Height < 16 || vm.Height > 1536:
		return videoMode{}, fmt.Errorf("mode %q: height must be in 16..1536", s)
	}
	switch vm.BPP {
	case 8, 15, 16, 24, 32:
	default:
		return videoMode{}, fmt.Errorf("mode %q: depth must be 8, 15, 16, 24 or 32", s)
	}
	return vm, nil
}

// hiddenDACValue is the hidden DAC setting that selects bpp.
func hiddenDACValue(bpp int) uint8 {
	switch bpp {
	case 15:
		return 0x80
	case 16:
		return 0xC1
	case 24, 32:
		return 0xC5
	}
	return 0x00
}

// SetMode programs vm through the port interface, the way a video BIOS
// would, and returns the bus address of the framebuffer.
func (m *Machine) SetMode(vm videoMode) (uint32, error) {
	if vm.Text {
		m.setTextMode()
		return cirrus.VGA_WINDOW_B8000, nil
	}

	var caps *cirrus.VariantCaps
	var vramSize int
	m.Do(func(card *cirrus.CirrusEngine) {
		caps = card.Caps()
		vramSize = len(card.VRAM())
	})
	if vm.BPP == 32 && !caps.TrueColour {
		return 0, fmt.Errorf("%s: 32bpp needs a GD5434 or later", vm)
	}
	if vm.Pitch()*vm.Height > vramSize {
		return 0, fmt.Errorf("%s: needs %dKB of VRAM", vm, vm.Pitch()*vm.Height>>10)
	}

	m.Out16(cirrus.VGA_PORT_SEQ_INDEX, uint16(cirrus.CL_SEQ_UNLOCK_KEY)<<8|cirrus.CL_SEQ_UNLOCK)
	m.Out8(cirrus.VGA_PORT_MISC_WRITE, 0xE3)

	sr07 := uint8(cirrus.CL_SR07_PACKED_CHAIN4 | 0xE0)
	if vm.BPP == 32 {
		sr07 |= cirrus.CL_SR07_32BPP
	}
	m.writeRegs(cirrus.BankSequencer, []uint8{
		cirrus.VGA_SEQ_CLKMODE, 0x01,
		cirrus.VGA_SEQ_MAPMASK, 0x0F,
		cirrus.VGA_SEQ_MEMMODE, cirrus.VGA_SEQ_MEMMODE_CHAIN4 | cirrus.VGA_SEQ_MEMMODE_OE | 0x02,
		cirrus.CL_SEQ_EXT_MODE, sr07,
		cirrus.CL_SEQ_DRAM_CTRL, cirrus.CL_SR0F_FULL_DECODE,
	})
	m.writeRegs(cirrus.BankGraphics, []uint8{
		cirrus.VGA_GC_MODE, cirrus.VGA_GC_MODE_SHIFT_256,
		cirrus.VGA_GC_MISC, cirrus.VGA_GC_MISC_GRAPHICS | 0x04,
		cirrus.VGA_GC_BITMASK, 0xFF,
		cirrus.CL_GC_BANK0, 0x00,
		cirrus.CL_GC_EXT_MODE, 0x00,
	})

	pitch := uint32(vm.Pitch()) / 8
	if vm.BPP == 32 {
		pitch /= 2
	}
	if pitch > 0x1FF {
		return 0, fmt.Errorf("%s: scanline too long for the CRTC offset register", vm)
	}
	m.writeCRTC(vm.Width/8, vm.Height, pitch, 0x00)

	m.writeAttributes(0x41)
	m.setHiddenDAC(hiddenDACValue(vm.BPP))
	if vm.BPP == 8 {
		m.loadRGB332Palette()
	}

	var base uint32
	m.Do(func(card *cirrus.CirrusEngine) {
		card.RecalcTimings()
		base = card.Mapping().Linear.Base
	})
	return base, nil
}

// setTextMode is the 80x25 colour text mode with the window at B8000.
func (m *Machine) setTextMode() {
	m.Out16(cirrus.VGA_PORT_SEQ_INDEX, uint16(cirrus.CL_SEQ_UNLOCK_KEY)<<8|cirrus.CL_SEQ_UNLOCK)
	m.Out8(cirrus.VGA_PORT_MISC_WRITE, 0x67)
	m.writeRegs(cirrus.BankSequencer, []uint8{
		cirrus.VGA_SEQ_CLKMODE, 0x00,
		cirrus.VGA_SEQ_MAPMASK, 0x03,
		cirrus.VGA_SEQ_MEMMODE, 0x02,
		cirrus.CL_SEQ_EXT_MODE, 0x00,
	})
	m.writeRegs(cirrus.BankGraphics, []uint8{
		cirrus.VGA_GC_MODE, cirrus.VGA_GC_MODE_CHAIN2,
		cirrus.VGA_GC_MISC, 0x0E,
		cirrus.VGA_GC_BITMASK, 0xFF,
		cirrus.CL_GC_BANK0, 0x00,
		cirrus.CL_GC_EXT_MODE, 0x00,
	})
	m.writeCRTC(80, 400, 0x28, 0x0F)
	m.writeAttributes(0x0C)
	m.setHiddenDAC(0)
	m.loadTextPalette()
	m.Do(func(card *cirrus.CirrusEngine) { card.RecalcTimings() })
}

func (m *Machine) writeRegs(bank cirrus.RegisterBank, pairs []uint8) {
	m.Do(func(card *cirrus.CirrusEngine) {
		for i := 0; i+1 < len(pairs); i += 2 {
			card.WriteRegister(bank, pairs[i], pairs[i+1])
		}
	})
}

// writeCRTC loads a timing set with 24 characters of horizontal blank and
// 45 lines of vertical blank. maxScan is the CR09 row height.
func (m *Machine) writeCRTC(chars, lines int, offset uint32, maxScan uint8) {
	htotal := chars + 24 - 5
	vtotal := lines + 45 - 2
	vdisp := lines - 1
	vblank := lines - 1
	vsync := lines + 9

	ovf := uint8(vtotal>>8&1) | uint8(vdisp>>8&1)<<1 | uint8(vsync>>8&1)<<2 | uint8(vblank>>8&1)<<3 |
		uint8(vtotal>>9&1)<<5 | uint8(vdisp>>9&1)<<6 | uint8(vsync>>9&1)<<7
	cr09 := maxScan | uint8(vblank>>9&1)<<5
	cr1b := uint8(0x02)
	if offset&0x100 != 0 {
		cr1b |= 0x10
	}

	m.writeRegs(cirrus.BankCRTC, []uint8{
		cirrus.VGA_CRTC_VRETRACE_END, 0x0C,
		cirrus.VGA_CRTC_HTOTAL, uint8(htotal),
		cirrus.VGA_CRTC_HDISPLAY, uint8(chars - 1),
		cirrus.VGA_CRTC_OVERFLOW, ovf,
		cirrus.VGA_CRTC_MAX_SCAN, cr09,
		cirrus.VGA_CRTC_START_HI, 0x00,
		cirrus.VGA_CRTC_START_LO, 0x00,
		0x06, uint8(vtotal),
		cirrus.VGA_CRTC_VRETRACE_ST, uint8(vsync),
		cirrus.VGA_CRTC_VDISPLAY, uint8(vdisp),
		cirrus.VGA_CRTC_OFFSET, uint8(offset),
		0x15, uint8(vblank),
		cirrus.VGA_CRTC_MODE_CTRL, 0xE3,
		cirrus.CL_CRTC_EXT_DISP, cr1b,
	})
}

func (m *Machine) writeAttributes(mode uint8) {
	m.Do(func(card *cirrus.CirrusEngine) {
		for i := uint8(0); i < 16; i++ {
			card.WriteRegister(cirrus.BankAttribute, i, i)
		}
		card.WriteRegister(cirrus.BankAttribute, cirrus.VGA_ATTR_MODE_CTRL, mode)
		card.WriteRegister(cirrus.BankAttribute, cirrus.VGA_ATTR_PLANE_EN, 0x0F)
		card.WriteRegister(cirrus.BankAttribute, cirrus.VGA_ATTR_HPAN, 0x00)
	})
}

// setHiddenDAC uses the four-read unlock on the pixel mask port.
func (m *Machine) setHiddenDAC(value uint8) {
	m.In8(cirrus.VGA_PORT_DAC_WINDEX)
	for i := 0; i < 4; i++ {
		m.In8(cirrus.VGA_PORT_DAC_MASK)
	}
	m.Out8(cirrus.VGA_PORT_DAC_MASK, value)
	m.Out8(cirrus.VGA_PORT_DAC_MASK, 0xFF)
}

// SetDAC loads one 6-bit palette entry.
func (m *Machine) SetDAC(index, r, g, b uint8) {
	m.Out8(cirrus.VGA_PORT_DAC_WINDEX, index)
	m.Out8(cirrus.VGA_PORT_DAC_DATA, r&0x3F)
	m.Out8(cirrus.VGA_PORT_DAC_DATA, g&0x3F)
	m.Out8(cirrus.VGA_PORT_DAC_DATA, b&0x3F)
}

func (m *Machine) loadRGB332Palette() {
	for i := 0; i < 256; i++ {
		r := uint8((i >> 5) * 63 / 7)
		g := uint8((i >> 2 & 7) * 63 / 7)
		b := uint8((i & 3) * 63 / 3)
		m.SetDAC(uint8(i), r, g, b)
	}
}

// loadTextPalette is the 16 CGA colours.
func (m *Machine) loadTextPalette() {
	for i := 0; i < 16; i++ {
		lo := uint8(0x2A)
		hi := uint8(0)
		if i&8 != 0 {
			hi = 0x15
		}
		var r, g, b uint8
		if i&4 != 0 {
			r = lo
		}
		if i&2 != 0 {
			g = lo
		}
		if i&1 != 0 {
			b = lo
		}
		if i == 6 {
			g = 0x15
		}
		m.SetDAC(uint8(i), r+hi, g+hi, b+hi)
	}
}
