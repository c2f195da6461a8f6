// refresh.go - Scanline refresh driver turning card state into RGBA frames

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

/*
The refresh driver walks the visible lines once per frame. Each line is built
in a 0x00RRGGBB buffer with LINE_BORDER pixels either side so that panning,
the hardware cursor and the overlay can run past the visible edge. After the
last visible line the driver signals vertical blank and consumes the dirty
page vector.

A frame is skipped when no page was written and neither the registers nor the
palette changed since the last one.
*/

package main

import (
	"image"
	"image/color"

	cirrus "github.com/intuitionamiga/CirrusEngine"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	MAX_FRAME_WIDTH  = 2048
	MAX_FRAME_HEIGHT = 1536
	TEXT_CELL_HEIGHT = 16
)

// frameRenderer keeps the line buffer and the last frame between calls.
type frameRenderer struct {
	line  []uint32
	frame *image.RGBA
	dirty []bool

	lastSnap cirrus.RegisterSnapshot
	lastPal  [256]uint32

	frames  uint64
	skipped uint64
	pages   int // dirty pages consumed by the last frame
}

func newFrameRenderer() *frameRenderer {
	return &frameRenderer{}
}

// Render draws one frame and signals vertical blank. Call it through
// Machine.Do.
func (r *frameRenderer) Render(card *cirrus.CirrusEngine) *image.RGBA {
	t := card.RecalcTimings()
	snap := card.Snapshot()
	pal := card.Palette()

	w := min(max(t.HDisp, 1), MAX_FRAME_WIDTH)
	h := min(max(t.DispEnd, 1), MAX_FRAME_HEIGHT)

	if len(r.dirty) != len(card.VRAM())>>cirrus.CL_DIRTY_PAGE_SHIFT {
		r.dirty = make([]bool, len(card.VRAM())>>cirrus.CL_DIRTY_PAGE_SHIFT)
	}
	r.pages = card.DirtyPages(r.dirty)

	resized := r.frame == nil || r.frame.Rect.Dx() != w || r.frame.Rect.Dy() != h
	if !resized && r.pages == 0 && snap == r.lastSnap && *pal == r.lastPal &&
		!card.Cursor().Enabled && !card.Overlay().Enabled {
		r.skipped++
		card.VBlankStart()
		return r.frame
	}
	if resized {
		r.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	if need := w + 2*cirrus.LINE_BORDER + 64; len(r.line) < need {
		r.line = make([]uint32, need)
	}

	rowRepeat := 1
	if t.Render != cirrus.RenderText {
		rowRepeat = int(snap.CRTC[cirrus.VGA_CRTC_MAX_SCAN]&0x1F) + 1
	}
	if snap.CRTC[cirrus.VGA_CRTC_MAX_SCAN]&0x80 != 0 {
		rowRepeat *= 2
	}

	for y := 0; y < h; y++ {
		clear(r.line)
		lineStart := r.drawLine(card, &t, &snap, y/rowRepeat, y)
		card.DrawOverlayScanline(y, lineStart, r.line)
		card.DrawCursorScanline(y, r.line)

		row := r.frame.Pix[y*r.frame.Stride : y*r.frame.Stride+w*4]
		for x, p := range r.line[cirrus.LINE_BORDER : cirrus.LINE_BORDER+w] {
			row[x*4] = uint8(p >> 16)
			row[x*4+1] = uint8(p >> 8)
			row[x*4+2] = uint8(p)
			row[x*4+3] = 0xFF
		}
	}

	card.VBlankStart()
	card.ClearDirty()
	r.lastSnap = snap
	r.lastPal = *pal
	r.frames++
	return r.frame
}

// drawLine renders memory row row into the line buffer and returns the VRAM
// address of the line for overlay occlusion.
func (r *frameRenderer) drawLine(card *cirrus.CirrusEngine, t *cirrus.Timings, snap *cirrus.RegisterSnapshot, row, y int) uint32 {
	vram := card.VRAM()
	mask := t.DisplayMask & card.VRAMMask()
	pal := card.Palette()
	src, dst := card.AdjustPanning()
	buf := r.line
	w := min(t.HDisp, MAX_FRAME_WIDTH)

	packed := t.StartAddr*4 + uint32(row)*t.RowOffset*8 + uint32(src)
	planar := t.StartAddr + uint32(row)*t.RowOffset*2

	at := func(a uint32) uint8 { return vram[a&mask] }
	attrColour := func(idx uint8) uint32 {
		return pal[snap.Attribute[idx&0x0F]&0x3F]
	}

	switch t.Render {
	case cirrus.RenderBlank:

	case cirrus.RenderText:
		r.drawTextLine(card, t, snap, y)

	case cirrus.Render2bpp:
		for x := 0; x < w; x++ {
			n := uint32(x >> 2)
			b := at((planar+n>>1)<<2 | n&1)
			buf[dst+x] = attrColour(b >> (6 - 2*uint(x&3)) & 3)
		}

	case cirrus.Render4bpp:
		for x := 0; x < w; x++ {
			a := (planar + uint32(x>>3)) << 2
			bit := 7 - uint(x&7)
			idx := at(a)>>bit&1 | (at(a|1)>>bit&1)<<1 | (at(a|2)>>bit&1)<<2 | (at(a|3)>>bit&1)<<3
			buf[dst+x] = attrColour(idx)
		}

	case cirrus.Render8bppLowres:
		dm := card.DACMask()
		for x := 0; x < w/2; x++ {
			p := pal[at(chain4Index(packed+uint32(x)))&dm]
			buf[dst+2*x] = p
			buf[dst+2*x+1] = p
		}

	case cirrus.Render8bppHighres:
		dm := card.DACMask()
		linear := snap.Sequencer[cirrus.CL_SEQ_EXT_MODE]&cirrus.CL_SR07_PACKED_CHAIN4 != 0
		for x := 0; x < w; x++ {
			a := packed + uint32(x)
			if !linear {
				a = chain4Index(a)
			}
			buf[dst+x] = pal[at(a)&dm]
		}

	case cirrus.Render15bpp:
		for x := 0; x < w; x++ {
			a := packed + uint32(2*x)
			buf[dst+x] = rgb555(uint16(at(a)) | uint16(at(a+1))<<8)
		}

	case cirrus.Render16bpp:
		for x := 0; x < w; x++ {
			a := packed + uint32(2*x)
			buf[dst+x] = rgb565(uint16(at(a)) | uint16(at(a+1))<<8)
		}

	case cirrus.Render24bpp:
		for x := 0; x < w; x++ {
			a := packed + uint32(3*x)
			buf[dst+x] = uint32(at(a+2))<<16 | uint32(at(a+1))<<8 | uint32(at(a))
		}

	case cirrus.Render32bpp:
		for x := 0; x < w; x++ {
			a := packed + uint32(4*x)
			buf[dst+x] = uint32(at(a+2))<<16 | uint32(at(a+1))<<8 | uint32(at(a))
		}
	}
	return packed - uint32(src)
}

// chain4Index maps a chain4 CPU address to its VRAM byte.
func chain4Index(a uint32) uint32 {
	return (a&0xFFFC)<<2 | (a&0x30000)>>14 | a&^0x3FFFF | a&3
}

func expand5(v uint16) uint32 { return uint32(v<<3 | v>>2) }
func expand6(v uint16) uint32 { return uint32(v<<2 | v>>4) }

func rgb555(v uint16) uint32 {
	return expand5(v>>10&0x1F)<<16 | expand5(v>>5&0x1F)<<8 | expand5(v&0x1F)
}

func rgb565(v uint16) uint32 {
	return expand5(v>>11&0x1F)<<16 | expand6(v>>5&0x3F)<<8 | expand5(v&0x1F)
}

// ===== Text =====

// glyphRows holds one bitmap row per cell line, bit 8 leftmost.
var glyphRows = buildGlyphs(basicfont.Face7x13)

// buildGlyphs rasterises the printable ASCII range of face into 9x16 cells.
// Codes outside that range render blank, except 0xDB which is a full block.
func buildGlyphs(face font.Face) *[256][TEXT_CELL_HEIGHT]uint16 {
	var g [256][TEXT_CELL_HEIGHT]uint16
	ascent := face.Metrics().Ascent.Ceil()
	for c := 0x20; c < 0x7F; c++ {
		dr, mask, mp, _, ok := face.Glyph(fixed.P(1, ascent+1), rune(c))
		if !ok {
			continue
		}
		for gy := 0; gy < dr.Dy(); gy++ {
			cy := dr.Min.Y + gy
			if cy < 0 || cy >= TEXT_CELL_HEIGHT {
				continue
			}
			for gx := 0; gx < dr.Dx(); gx++ {
				cx := dr.Min.X + gx
				if cx < 0 || cx >= 9 {
					continue
				}
				if a := color.AlphaModel.Convert(mask.At(mp.X+gx, mp.Y+gy)).(color.Alpha); a.A >= 0x80 {
					g[c][cy] |= 0x100 >> uint(cx)
				}
			}
		}
	}
	for i := range g[0xDB] {
		g[0xDB][i] = 0x1FF
	}
	return &g
}

func (r *frameRenderer) drawTextLine(card *cirrus.CirrusEngine, t *cirrus.Timings, snap *cirrus.RegisterSnapshot, y int) {
	vram := card.VRAM()
	mask := card.VRAMMask()
	pal := card.Palette()
	cellH := int(snap.CRTC[cirrus.VGA_CRTC_MAX_SCAN]&0x1F) + 1
	cw := t.CharWidth
	cols := min(t.HDisp, MAX_FRAME_WIDTH) / cw

	row, cy := y/cellH, y%cellH
	gy := cy * TEXT_CELL_HEIGHT / cellH
	base := t.StartAddr + uint32(row)*t.RowOffset*2
	p := cirrus.LINE_BORDER
	for col := 0; col < cols; col++ {
		ma := (base + uint32(col)) << 3
		ch := vram[ma&mask]
		attr := vram[(ma+1)&mask]
		fg := pal[snap.Attribute[attr&0x0F]&0x3F]
		bg := pal[snap.Attribute[attr>>4&0x07]&0x3F]
		bits := glyphRows[ch][gy]
		for x := 0; x < cw; x++ {
			if x < 9 && bits&(0x100>>uint(x)) != 0 {
				r.line[p] = fg
			} else {
				r.line[p] = bg
			}
			p++
		}
	}
}
