// testcard.go - Test card drawn with gg and uploaded through the card's windows

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
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	cirrus "github.com/intuitionamiga/CirrusEngine"
)

var barColours = []color.RGBA{
	{0xC0, 0xC0, 0xC0, 0xFF},
	{0xC0, 0xC0, 0x00, 0xFF},
	{0x00, 0xC0, 0xC0, 0xFF},
	{0x00, 0xC0, 0x00, 0xFF},
	{0xC0, 0x00, 0xC0, 0xFF},
	{0xC0, 0x00, 0x00, 0xFF},
	{0x00, 0x00, 0xC0, 0xFF},
}

// drawTestCard renders colour bars, a grey ramp, a grid and a centre circle.
func drawTestCard(w, h int, label string) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	barH := float64(h) * 2 / 3
	barW := float64(w) / float64(len(barColours))
	for i, c := range barColours {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*barW, 0, barW+1, barH)
		dc.Fill()
	}

	for x := 0; x < w; x++ {
		v := float64(x) / float64(w-1)
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(x), barH, 1, float64(h)-barH)
		dc.Fill()
	}

	dc.SetRGBA(1, 1, 1, 0.5)
	dc.SetLineWidth(1)
	for x := 0; x <= w; x += 32 {
		dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(h))
	}
	for y := 0; y <= h; y += 32 {
		dc.DrawLine(0, float64(y)+0.5, float64(w), float64(y)+0.5)
	}
	dc.Stroke()

	r := float64(min(w, h)) / 3
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawCircle(float64(w)/2, float64(h)/2, r)
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(float64(w)/2-80, float64(h)/2-12, 160, 24)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(label, float64(w)/2, float64(h)/2, 0.5, 0.5)
	return dc.Image()
}

// encodePixel packs c in the mode's VRAM format, appending to dst.
func encodePixel(dst []byte, c color.RGBA, bpp int) []byte {
	switch bpp {
	case 8:
		return append(dst, c.R&0xE0|(c.G>>3)&0x1C|c.B>>6)
	case 15:
		v := uint16(c.R>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.B>>3)
		return binary.LittleEndian.AppendUint16(dst, v)
	case 16:
		v := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
		return binary.LittleEndian.AppendUint16(dst, v)
	case 24:
		return append(dst, c.B, c.G, c.R)
	}
	return append(dst, c.B, c.G, c.R, 0)
}

// uploadImage writes img to the framebuffer at base one dword at a time.
func uploadImage(m *Machine, base uint32, vm videoMode, img image.Image) {
	line := make([]byte, 0, vm.Pitch()+4)
	b := img.Bounds()
	for y := 0; y < vm.Height && y < b.Dy(); y++ {
		line = line[:0]
		for x := 0; x < vm.Width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			line = encodePixel(line, c, vm.BPP)
		}
		for len(line)%4 != 0 {
			line = append(line, 0)
		}
		row := base + uint32(y*vm.Pitch())
		for i := 0; i < len(line); i += 4 {
			m.Write32(row+uint32(i), binary.LittleEndian.Uint32(line[i:]))
		}
	}
}

// writeTextCard fills the 80x25 text screen through the B8000 window.
func writeTextCard(m *Machine, label string) {
	for row := 0; row < 25; row++ {
		for col := 0; col < 80; col++ {
			attr := uint8(row%7+1)<<4 | 0x0F
			ch := uint8(0xDB)
			if (row+col)%2 == 1 {
				ch = ' '
			}
			addr := cirrus.VGA_WINDOW_B8000 + uint32(row*160+col*2)
			m.Write16(addr, uint16(attr)<<8|uint16(ch))
		}
	}
	start := cirrus.VGA_WINDOW_B8000 + uint32(12*160+(80-len(label))/2*2)
	for i := 0; i < len(label); i++ {
		m.Write16(start+uint32(2*i), 0x1F00|uint16(label[i]))
	}
}

// ShowTestCard sets vm and draws the test card into it.
func ShowTestCard(m *Machine, vm videoMode) error {
	base, err := m.SetMode(vm)
	if err != nil {
		return err
	}
	label := fmt.Sprintf("%s %s", m.Variant(), vm)
	if vm.Text {
		writeTextCard(m, label)
		return nil
	}
	uploadImage(m, base, vm, drawTestCard(vm.Width, vm.Height, label))
	return nil
}
