// cirrus_timings.go - Display timing, colour depth and vertical retrace IRQ

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

package cirrus

// RenderFormat is the scanline renderer the refresh driver should use.
type RenderFormat int

const (
	RenderBlank RenderFormat = iota
	RenderText
	Render2bpp
	Render4bpp
	Render8bppLowres
	Render8bppHighres
	Render15bpp
	Render16bpp
	Render24bpp
	Render32bpp
)

var renderNames = [...]string{"blank", "text", "2bpp", "4bpp", "8bpp-lowres", "8bpp", "15bpp", "16bpp", "24bpp", "32bpp"}

func (r RenderFormat) String() string {
	if r < 0 || int(r) >= len(renderNames) {
		return "unknown"
	}
	return renderNames[r]
}

// Timings is the display geometry derived from the CRTC, sequencer and
// hidden DAC.
type Timings struct {
	HTotal      int
	HDisp       int // pixels
	CharWidth   int
	VTotal      int
	DispEnd     int
	VBlankStart int
	VSyncStart  int

	RowOffset   uint32 // in 8-byte units as programmed
	StartAddr   uint32 // display start (ma_latch)
	DisplayMask uint32

	BPP        int
	Render     RenderFormat
	Interlace  bool
	LineDouble bool // horizontal_linedbl

	PixelClock float64 // Hz

	CursorExtraOffset int
	PanSrc, PanDst    int
}

// Timings returns the last computed timings without recomputing.
func (e *CirrusEngine) Timings() Timings {
	return e.timings
}

// RecalcTimings recomputes and returns the display timings.
func (e *CirrusEngine) RecalcTimings() Timings {
	e.recalcTimings()
	return e.timings
}

func (e *CirrusEngine) recalcTimings() {
	crtc := &e.crtcRegs
	t := Timings{}

	ovf := crtc[VGA_CRTC_OVERFLOW]
	t.VTotal = int(crtc[0x06]) | int(ovf&0x01)<<8 | int(ovf&0x20)<<4
	t.VTotal += 2
	t.DispEnd = int(crtc[VGA_CRTC_VDISPLAY]) | int(ovf&0x02)<<7 | int(ovf&0x40)<<3
	t.DispEnd++
	t.VBlankStart = int(crtc[0x15]) | int(ovf&0x08)<<5 | int(crtc[VGA_CRTC_MAX_SCAN]&0x20)<<4
	t.VBlankStart++
	t.VSyncStart = int(crtc[VGA_CRTC_VRETRACE_ST]) | int(ovf&0x04)<<6 | int(ovf&0x80)<<2
	t.VSyncStart++

	t.CharWidth = 9
	if e.seqRegs[VGA_SEQ_CLKMODE]&1 != 0 {
		t.CharWidth = 8
	}
	t.HTotal = (int(crtc[VGA_CRTC_HTOTAL]) + 5) * t.CharWidth
	t.HDisp = (int(crtc[VGA_CRTC_HDISPLAY]) + 1) * t.CharWidth

	t.RowOffset = uint32(crtc[VGA_CRTC_OFFSET])
	t.StartAddr = uint32(crtc[VGA_CRTC_START_HI])<<8 | uint32(crtc[VGA_CRTC_START_LO])

	switch {
	case e.gcRegs[VGA_GC_MISC]&VGA_GC_MISC_GRAPHICS == 0:
		t.Render = RenderText
	case e.gcRegs[VGA_GC_MODE]&0x60 == 0x20:
		t.Render = Render2bpp
	case e.gcRegs[VGA_GC_MODE]&0x60 == 0x00:
		t.Render = Render4bpp
	case e.seqRegs[VGA_SEQ_CLKMODE]&0x08 != 0:
		t.Render = Render8bppLowres
	default:
		t.Render = Render8bppHighres
	}

	// Cirrus extensions
	if crtc[CL_CRTC_EXT_DISP]&0x10 != 0 {
		t.RowOffset |= 0x100
	}
	if t.RowOffset == 0 {
		t.RowOffset = 0x100
	}
	t.Interlace = crtc[CL_CRTC_INTERLACE]&1 != 0
	t.LineDouble = t.DispEnd*9/10 >= t.HDisp

	if e.seqRegs[CL_SEQ_EXT_MODE]&CL_SR07_PACKED_CHAIN4 != 0 {
		t.Render = Render8bppHighres
	}

	ext := crtc[CL_CRTC_EXT_DISP]
	t.StartAddr |= uint32(ext&0x01)<<16 | uint32((ext>>2)&3)<<17
	if e.caps.DisplayStartBit19 {
		t.StartAddr |= uint32((crtc[CL_CRTC_OVL_EXT]>>7)&1) << 19
	}

	// BPP stays 8 for every VGA mode; only the hidden DAC raises it.
	t.BPP = 8
	if e.hiddenDAC&0x80 != 0 {
		e.applyHiddenDAC(&t)
	}

	if e.caps.CursorExtraOffset && e.gcRegs[VGA_GC_MODE]&VGA_GC_MODE_SHIFT_256 == 0 && (t.BPP == 15 || t.BPP == 16) {
		t.CursorExtraOffset = 8
	}

	clock := (e.miscOut >> 2) & 3
	n := e.seqRegs[CL_SEQ_VCLK0_NUM+clock] & 0x7F
	d := (e.seqRegs[CL_SEQ_VCLK0_DEN+clock] >> 1) & 0x1F
	p := e.seqRegs[CL_SEQ_VCLK0_DEN+clock] & 1
	vclk := CL_REF_CLOCK_HZ
	if n != 0 && d != 0 {
		vclk = CL_REF_CLOCK_HZ * float64(float32(n)/float32(d)) / float64(1+p)
	}
	switch e.seqRegs[CL_SEQ_EXT_MODE] & e.caps.clockDividerMask() {
	case 2:
		vclk /= 2
	case 4:
		vclk /= 3
	}
	t.PixelClock = vclk

	t.DisplayMask = 0x3FFFF
	if ext&0x02 != 0 {
		t.DisplayMask = e.vramMask
	}

	if e.dpms {
		t.Render = RenderBlank
	}

	t.PanSrc, t.PanDst = e.adjustPanning(t)
	e.timings = t
	e.updateOverlay()
}

// applyHiddenDAC selects the high colour depth from the hidden DAC register.
func (e *CirrusEngine) applyHiddenDAC(t *Timings) {
	if e.hiddenDAC&0x40 == 0 {
		t.Render, t.BPP = Render15bpp, 15
		return
	}
	switch e.hiddenDAC & 0x0F {
	case 0x0:
		t.Render, t.BPP = Render15bpp, 15
	case 0x1:
		t.Render, t.BPP = Render16bpp, 16
	case 0x5:
		if e.caps.TrueColour && e.seqRegs[CL_SEQ_EXT_MODE]&CL_SR07_32BPP != 0 {
			t.Render, t.BPP = Render32bpp, 32
			t.RowOffset *= 2
		} else {
			t.Render, t.BPP = Render24bpp, 24
		}
	}
}

// AdjustPanning returns the scroll cache source and destination offsets for
// the current mode. dst includes the line buffer border.
func (e *CirrusEngine) AdjustPanning() (src, dst int) {
	return e.timings.PanSrc, e.timings.PanDst
}

// adjustPanning converts attribute register 0x13 into the scroll cache
// source and destination offsets for the current depth.
func (e *CirrusEngine) adjustPanning(t Timings) (src, dst int) {
	pan := int(e.attrRegs[VGA_ATTR_HPAN] & 7)
	dst = 8
	switch t.BPP {
	case 8:
		if t.LineDouble {
			dst = 8 - (pan&3)<<1
		} else {
			dst = 8 - pan
		}
	case 15, 16:
		dst = 8 - (pan&2)>>1
	case 24:
		if e.caps.Panning24Wide {
			dst = 8 - (pan&3)<<1
			if pan >= 4 {
				src += 3
			}
		} else {
			src = pan
		}
	case 32:
		dst = 8 - pan&1
	}
	return src, dst + 24
}

// ===== Vertical retrace interrupt =====

func (e *CirrusEngine) vsyncIRQEnabled() bool {
	cr11 := e.crtcRegs[VGA_CRTC_VRETRACE_END]
	if cr11&VGA_CRTC_VRE_IRQ_DISABLE != 0 || cr11&VGA_CRTC_VRE_IRQ_CLEAR == 0 {
		return false
	}
	return e.bus != BusPCI || e.gcRegs[CL_GC_IRQ_CTRL]&CL_GC_IRQ_VSYNCEN != 0
}

// VBlankIRQ reports whether the card is asserting its interrupt line.
func (e *CirrusEngine) VBlankIRQ() bool {
	return e.vblankIRQ > vblankIRQIdle && e.vsyncIRQEnabled()
}

func (e *CirrusEngine) updateIRQ() {
	if h, ok := e.host.(IRQHost); ok {
		h.SetIRQ(e.VBlankIRQ())
	}
}

// VBlankStart is called by the refresh driver at the start of vertical
// blank. The interrupt latches until CR11 bit 4 is cleared.
func (e *CirrusEngine) VBlankStart() {
	if e.vblankIRQ >= vblankIRQIdle {
		e.vblankIRQ = vblankIRQPending
		e.updateIRQ()
	}
}
