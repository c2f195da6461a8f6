// cirrus_video_test.go - Timing, IRQ, cursor and overlay tests

package cirrus

import (
	"math"
	"testing"
)

// setHiddenDAC runs the four-read unlock sequence and writes the hidden
// DAC register.
func (r *cirrusTestRig) setHiddenDAC(value uint8) {
	for i := 0; i < 4; i++ {
		r.e.PortRead(VGA_PORT_DAC_MASK)
	}
	r.e.PortWrite(VGA_PORT_DAC_MASK, value)
}

// =============================================================================
// Timings
// =============================================================================

func TestTimings_RenderSelection(t *testing.T) {
	r := newCirrusTestRig(t)
	if got := r.e.Timings().Render; got != RenderText {
		t.Errorf("reset: got %s, want text", got)
	}

	r.gc(VGA_GC_MISC, VGA_GC_MISC_GRAPHICS)
	r.e.RecalcTimings()
	if got := r.e.Timings().Render; got != Render4bpp {
		t.Errorf("graphics, GR05=00: got %s, want 4bpp", got)
	}

	r.gc(VGA_GC_MODE, 0x20)
	if got := r.e.RecalcTimings().Render; got != Render2bpp {
		t.Errorf("GR05=20: got %s, want 2bpp", got)
	}

	r.gc(VGA_GC_MODE, VGA_GC_MODE_SHIFT_256)
	r.seq(VGA_SEQ_CLKMODE, 0x08)
	if got := r.e.Timings().Render; got != Render8bppLowres {
		t.Errorf("256-colour, SR01 bit 3: got %s, want 8bpp-lowres", got)
	}
	r.seq(VGA_SEQ_CLKMODE, 0x00)
	if got := r.e.Timings().Render; got != Render8bppHighres {
		t.Errorf("256-colour: got %s, want 8bpp", got)
	}

	r.gc(VGA_GC_MODE, 0x00)
	r.seq(CL_SEQ_EXT_MODE, CL_SR07_PACKED_CHAIN4)
	if got := r.e.Timings().Render; got != Render8bppHighres {
		t.Errorf("packed chain4: got %s, want 8bpp", got)
	}
	if got := r.e.Timings().BPP; got != 8 {
		t.Errorf("packed chain4 BPP: got %d, want 8", got)
	}
}

func TestTimings_DPMSBlanks(t *testing.T) {
	r := newCirrusTestRig(t)
	r.gc(CL_GC_POWER, 0x02)
	if !r.e.DPMS() {
		t.Fatal("GR0E=02 should blank")
	}
	if got := r.e.Timings().Render; got != RenderBlank {
		t.Errorf("got %s, want blank", got)
	}
	r.gc(CL_GC_POWER, 0x00)
	if r.e.DPMS() || r.e.Timings().Render == RenderBlank {
		t.Error("GR0E=00 should unblank")
	}
}

func TestTimings_Geometry(t *testing.T) {
	r := newCirrusTestRig(t)
	r.seq(VGA_SEQ_CLKMODE, 0x01)
	r.crtc(VGA_CRTC_HTOTAL, 0x5F)
	r.crtc(VGA_CRTC_HDISPLAY, 0x4F)
	r.crtc(0x06, 0x0B)
	r.crtc(VGA_CRTC_OVERFLOW, 0x3E)
	r.crtc(VGA_CRTC_VDISPLAY, 0xDF)

	tm := r.e.Timings()
	if tm.CharWidth != 8 || tm.HDisp != 640 || tm.HTotal != 800 {
		t.Errorf("horizontal: char %d disp %d total %d, want 8/640/800", tm.CharWidth, tm.HDisp, tm.HTotal)
	}
	if tm.VTotal != 0x20D || tm.DispEnd != 480 {
		t.Errorf("vertical: total %X disp %d, want 20D/480", tm.VTotal, tm.DispEnd)
	}
	if tm.LineDouble {
		t.Error("640x480 should not be line doubled")
	}
}

func TestTimings_HiddenDACDepth(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		sr07    uint8
		dac     uint8
		bpp     int
		render  RenderFormat
	}{
		{"15bpp", VariantGD5434, 0, 0x80, 15, Render15bpp},
		{"15bpp mode 0", VariantGD5434, 0, 0xC0, 15, Render15bpp},
		{"16bpp", VariantGD5434, 0, 0xC1, 16, Render16bpp},
		{"24bpp", VariantGD5434, 0, 0xC5, 24, Render24bpp},
		{"32bpp", VariantGD5434, CL_SR07_32BPP, 0xC5, 32, Render32bpp},
		{"5430 stays 24bpp", VariantGD5430, CL_SR07_32BPP, 0xC5, 24, Render24bpp},
		{"bit 7 clear", VariantGD5434, 0, 0x41, 8, RenderText},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newDefaultVariantRig(t, tc.variant)
			r.seq(CL_SEQ_EXT_MODE, tc.sr07)
			r.setHiddenDAC(tc.dac)
			if got := r.e.HiddenDAC(); got != tc.dac {
				t.Fatalf("hidden DAC: got %02X, want %02X", got, tc.dac)
			}
			tm := r.e.Timings()
			if tm.BPP != tc.bpp || tm.Render != tc.render {
				t.Errorf("got %d/%s, want %d/%s", tm.BPP, tm.Render, tc.bpp, tc.render)
			}
		})
	}
}

func TestTimings_32bppDoublesRowOffset(t *testing.T) {
	r := newCirrusTestRig(t)
	r.crtc(VGA_CRTC_OFFSET, 0x50)
	r.seq(CL_SEQ_EXT_MODE, CL_SR07_32BPP)
	r.setHiddenDAC(0xC5)
	if got := r.e.Timings().RowOffset; got != 0xA0 {
		t.Errorf("32bpp row offset: got %X, want A0", got)
	}
}

func TestTimings_RowOffset(t *testing.T) {
	r := newCirrusTestRig(t)
	if got := r.e.Timings().RowOffset; got != 0x100 {
		t.Errorf("zero offset: got %X, want 100", got)
	}
	r.crtc(VGA_CRTC_OFFSET, 0x50)
	if got := r.e.Timings().RowOffset; got != 0x50 {
		t.Errorf("CR13=50: got %X, want 50", got)
	}
	r.crtc(CL_CRTC_EXT_DISP, 0x10)
	if got := r.e.Timings().RowOffset; got != 0x150 {
		t.Errorf("CR1B bit 4: got %X, want 150", got)
	}
}

func TestTimings_StartAddress(t *testing.T) {
	r := newDefaultVariantRig(t, VariantGD5436)
	r.crtc(VGA_CRTC_START_HI, 0x12)
	r.crtc(VGA_CRTC_START_LO, 0x34)
	r.crtc(CL_CRTC_EXT_DISP, 0x0D)
	if got := r.e.Timings().StartAddr; got != 0x71234 {
		t.Errorf("CR1B bits: got %X, want 71234", got)
	}
	r.crtc(CL_CRTC_OVL_EXT, 0x80)
	if got := r.e.Timings().StartAddr; got != 0xF1234 {
		t.Errorf("CR1D bit 7: got %X, want F1234", got)
	}

	old := newCirrusTestRig(t)
	old.crtc(CL_CRTC_OVL_EXT, 0x80)
	if got := old.e.Timings().StartAddr; got != 0 {
		t.Errorf("GD5434 ignores CR1D bit 7: got %X", got)
	}
}

func TestTimings_InterlaceAndDisplayMask(t *testing.T) {
	r := newCirrusTestRig(t)
	tm := r.e.Timings()
	if tm.Interlace || tm.DisplayMask != 0x3FFFF {
		t.Errorf("reset: interlace %v mask %X", tm.Interlace, tm.DisplayMask)
	}
	r.crtc(CL_CRTC_INTERLACE, 0x01)
	r.crtc(CL_CRTC_EXT_DISP, 0x02)
	tm = r.e.Timings()
	if !tm.Interlace {
		t.Error("CR1A bit 0 should select interlace")
	}
	if tm.DisplayMask != 0x3FFFFF {
		t.Errorf("CR1B bit 1: mask %X, want 3FFFFF", tm.DisplayMask)
	}
}

func TestTimings_PixelClock(t *testing.T) {
	r := newCirrusTestRig(t)
	want := CL_REF_CLOCK_HZ * 102 / 29 / 2
	if got := r.e.Timings().PixelClock; math.Abs(got-want) > 10 {
		t.Errorf("VCLK0: got %.0f, want %.0f", got, want)
	}
	r.seq(CL_SEQ_EXT_MODE, 0x02)
	if got := r.e.Timings().PixelClock; math.Abs(got-want/2) > 10 {
		t.Errorf("SR07 divide by 2: got %.0f, want %.0f", got, want/2)
	}
	r.seq(CL_SEQ_EXT_MODE, 0x04)
	if got := r.e.Timings().PixelClock; math.Abs(got-want/3) > 10 {
		t.Errorf("SR07 divide by 3: got %.0f, want %.0f", got, want/3)
	}
}

func TestTimings_CursorExtraOffset(t *testing.T) {
	r := newDefaultVariantRig(t, VariantGD5428)
	r.setHiddenDAC(0xC1)
	if got := r.e.Timings().CursorExtraOffset; got != 8 {
		t.Errorf("GD5428 16bpp: got %d, want 8", got)
	}

	n := newCirrusTestRig(t)
	n.setHiddenDAC(0xC1)
	if got := n.e.Timings().CursorExtraOffset; got != 0 {
		t.Errorf("GD5434 16bpp: got %d, want 0", got)
	}
}

func TestTimings_Panning(t *testing.T) {
	r := newCirrusTestRig(t)
	r.attr(VGA_ATTR_HPAN, 3)
	src, dst := r.e.AdjustPanning()
	if src != 0 || dst != 29 {
		t.Errorf("8bpp pan 3: got %d/%d, want 0/29", src, dst)
	}

	r.setHiddenDAC(0xC1)
	r.attr(VGA_ATTR_HPAN, 2)
	if _, dst := r.e.AdjustPanning(); dst != 31 {
		t.Errorf("16bpp pan 2: dst %d, want 31", dst)
	}

	r.setHiddenDAC(0xC5)
	r.attr(VGA_ATTR_HPAN, 5)
	if src, dst := r.e.AdjustPanning(); src != 5 || dst != 32 {
		t.Errorf("24bpp pan 5 on GD5434: got %d/%d, want 5/32", src, dst)
	}

	w := newDefaultVariantRig(t, VariantGD5446)
	w.setHiddenDAC(0xC5)
	w.attr(VGA_ATTR_HPAN, 5)
	if src, dst := w.e.AdjustPanning(); src != 3 || dst != 30 {
		t.Errorf("24bpp pan 5 on GD5446: got %d/%d, want 3/30", src, dst)
	}
}

// =============================================================================
// Vertical retrace interrupt
// =============================================================================

func TestIRQ_VBlankLatchAndClear(t *testing.T) {
	r := newCirrusTestRig(t)
	r.crtc(VGA_CRTC_VRETRACE_END, VGA_CRTC_VRE_IRQ_CLEAR)
	r.gc(CL_GC_IRQ_CTRL, CL_GC_IRQ_VSYNCEN)

	r.e.VBlankStart()
	if !r.e.VBlankIRQ() || !r.host.irq {
		t.Fatal("vblank should assert the interrupt")
	}
	if got := r.e.PortRead(VGA_PORT_MISC_WRITE); got&0x80 == 0 {
		t.Errorf("input status 0: got %02X, want bit 7", got)
	}

	r.crtc(VGA_CRTC_VRETRACE_END, 0x00)
	if r.e.VBlankIRQ() || r.host.irq {
		t.Error("CR11 bit 4 clear should drop the interrupt")
	}
	r.e.VBlankStart()
	if r.e.VBlankIRQ() {
		t.Error("interrupt re-latched while cleared")
	}

	r.crtc(VGA_CRTC_VRETRACE_END, VGA_CRTC_VRE_IRQ_CLEAR)
	r.e.VBlankStart()
	if !r.e.VBlankIRQ() {
		t.Error("re-enabled interrupt did not latch")
	}
}

func TestIRQ_PCINeedsGR17(t *testing.T) {
	r := newCirrusTestRig(t)
	r.crtc(VGA_CRTC_VRETRACE_END, VGA_CRTC_VRE_IRQ_CLEAR)
	r.e.VBlankStart()
	if r.e.VBlankIRQ() {
		t.Error("PCI card raised IRQ without GR17 bit 2")
	}

	isa := newDefaultVariantRig(t, VariantGD5428)
	isa.crtc(VGA_CRTC_VRETRACE_END, VGA_CRTC_VRE_IRQ_CLEAR)
	isa.e.VBlankStart()
	if !isa.e.VBlankIRQ() {
		t.Error("ISA card should not need GR17")
	}
}

func TestIRQ_DisableBit(t *testing.T) {
	r := newDefaultVariantRig(t, VariantGD5428)
	r.crtc(VGA_CRTC_VRETRACE_END, VGA_CRTC_VRE_IRQ_CLEAR|VGA_CRTC_VRE_IRQ_DISABLE)
	r.e.VBlankStart()
	if r.e.VBlankIRQ() {
		t.Error("CR11 bit 5 should mask the interrupt")
	}
}

// =============================================================================
// Hardware cursor
// =============================================================================

func newCursorRig(t *testing.T) *cirrusTestRig {
	t.Helper()
	r := newCirrusTestRig(t)
	r.seq(CL_SEQ_CURSOR_ATTR, CL_SR12_CURSOR_PAL)
	r.setDACEntry(0, 0x3F, 0x00, 0x00)
	r.setDACEntry(15, 0x00, 0x3F, 0x00)
	r.seq(CL_SEQ_CURSOR_ATTR, CL_SR12_CURSOR_ENABLE)
	r.seq(CL_SEQ_CURSOR_ADDR, 0)
	r.seq(CL_SEQ_CURSOR_X, 2)
	r.seq(CL_SEQ_CURSOR_Y, 0)
	r.crtc(CL_CRTC_EXT_DISP, 0x02)
	return r
}

func filledLine(n int, v uint32) []uint32 {
	buf := make([]uint32, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestCursor_PaletteLoad(t *testing.T) {
	r := newCursorRig(t)
	if got := r.e.CursorPalette(); got != [2]uint32{0xFF0000, 0x00FF00} {
		t.Errorf("cursor palette: got %06X", got)
	}
	if p := r.e.Palette(); p[0] != 0 || p[15] != 0 {
		t.Errorf("palette RAM touched: %06X %06X", p[0], p[15])
	}
}

func TestCursor_DrawScanline(t *testing.T) {
	r := newCursorRig(t)
	c := r.e.Cursor()
	if c.X != 16 || c.Y != 0 || c.Addr != CL_CURSOR_PATTERN_BASE || c.YSize != 32 {
		t.Fatalf("cursor state: %+v", c)
	}

	vram := r.e.VRAM()
	vram[CL_CURSOR_PATTERN_BASE] = 0xC0
	vram[CL_CURSOR_PATTERN_BASE+0x80] = 0x80

	buf := filledLine(1024, 0x123456)
	if !r.e.DrawCursorScanline(0, buf) {
		t.Fatal("cursor should cover line 0")
	}
	if buf[48] != 0x00FF00 {
		t.Errorf("AND pixel: got %06X, want 00FF00", buf[48])
	}
	if buf[49] != 0xEDCBA9 {
		t.Errorf("XOR pixel: got %06X, want EDCBA9", buf[49])
	}
	if buf[47] != 0x123456 || buf[50] != 0x123456 {
		t.Errorf("neighbours touched: %06X %06X", buf[47], buf[50])
	}

	for line := 1; line < 32; line++ {
		if !r.e.DrawCursorScanline(line, buf) {
			t.Fatalf("line %d should carry the cursor", line)
		}
	}
	if r.e.DrawCursorScanline(32, buf) {
		t.Error("32x32 cursor drew a 33rd line")
	}
}

func TestCursor_DisabledOrAbove(t *testing.T) {
	r := newCursorRig(t)
	r.seq(CL_SEQ_CURSOR_Y, 2)
	buf := filledLine(256, 0)
	if r.e.DrawCursorScanline(5, buf) {
		t.Error("cursor drew before its first line")
	}
	r.seq(CL_SEQ_CURSOR_ATTR, 0)
	if r.e.DrawCursorScanline(16, buf) {
		t.Error("disabled cursor drew")
	}
}

func TestCursor_PatternAddress(t *testing.T) {
	r := newCirrusTestRig(t)
	r.seq(CL_SEQ_CURSOR_ATTR, CL_SR12_CURSOR_ENABLE|CL_SR12_CURSOR_64)
	r.seq(CL_SEQ_CURSOR_ADDR, 5)
	if got := r.e.Cursor(); got.YSize != 64 || got.Addr != 0x3FC400 {
		t.Errorf("64x64: size %d addr %X, want 64/3FC400", got.YSize, got.Addr)
	}
	r.seq(CL_SEQ_CURSOR_ATTR, CL_SR12_CURSOR_ENABLE)
	if got := r.e.Cursor().Addr; got != 0x3FC500 {
		t.Errorf("32x32: addr %X, want 3FC500", got)
	}
}

func TestCursor_FinePosition(t *testing.T) {
	r := newCirrusTestRig(t)
	r.seq(CL_SEQ_CURSOR_X|0x60, 0x10)
	if got := r.e.Cursor().X; got != 0x83 {
		t.Errorf("X: got %X, want 83", got)
	}
}

// =============================================================================
// Overlay
// =============================================================================

func newOverlayRig(t *testing.T) *cirrusTestRig {
	t.Helper()
	r := newDefaultVariantRig(t, VariantGD5446)
	r.seq(VGA_SEQ_CLKMODE, 0x01)
	r.crtc(VGA_CRTC_HDISPLAY, 79)
	r.crtc(CL_CRTC_OVL_R1SZ, 2)
	r.crtc(CL_CRTC_OVL_R2SZ, 4)
	r.crtc(CL_CRTC_OVL_ADDR1, 0x01)
	r.crtc(CL_CRTC_OVL_PITCH, 0x10)
	r.crtc(CL_CRTC_OVL_WVS, 10)
	r.crtc(CL_CRTC_OVL_WVE, 11)
	r.crtc(CL_CRTC_OVL_CTRL, 0x0B)
	return r
}

// putWords stores little-endian 16-bit pixels.
func putWords(vram []byte, addr uint32, words ...uint16) {
	for i, w := range words {
		vram[addr+uint32(i)*2] = uint8(w)
		vram[addr+uint32(i)*2+1] = uint8(w >> 8)
	}
}

func redRamp(k int) uint32 {
	v := uint32(k<<3 | k>>2)
	return v << 16
}

func TestOverlay_Configuration(t *testing.T) {
	r := newOverlayRig(t)
	info := r.e.Overlay()
	want := OverlayInfo{
		Enabled: true, Format: OverlayRGB565,
		Region1Size: 8, Region2Size: 16,
		StartLine: 10, Lines: 2,
		Addr: 0x100, Pitch: 0x10,
		HZoom: 256, VZoom: 256,
		ColourKey: 0xFF,
	}
	if info != want {
		t.Errorf("overlay: got %+v, want %+v", info, want)
	}
	if r.e.Timings().HDisp != 640 {
		t.Errorf("HDisp %d", r.e.Timings().HDisp)
	}
}

func TestOverlay_DrawScanline(t *testing.T) {
	r := newOverlayRig(t)
	vram := r.e.VRAM()
	for k := 0; k < 16; k++ {
		putWords(vram, 0x400+uint32(k)*2, uint16(k)<<11)
		putWords(vram, 0x480+uint32(k)*2, 0x001F)
	}

	buf := filledLine(800, 0xAAAAAA)
	if r.e.DrawOverlayScanline(9, 0, buf) {
		t.Error("line 9 is above the window")
	}
	if !r.e.DrawOverlayScanline(10, 0, buf) {
		t.Fatal("line 10 should carry the overlay")
	}
	for k := 0; k < 16; k++ {
		if got, want := buf[40+k], redRamp(k); got != want {
			t.Errorf("line 10 pixel %d: got %06X, want %06X", k, got, want)
		}
	}
	if buf[39] != 0xAAAAAA || buf[56] != 0xAAAAAA {
		t.Errorf("region edges touched: %06X %06X", buf[39], buf[56])
	}

	if !r.e.DrawOverlayScanline(11, 0, buf) {
		t.Fatal("line 11 should carry the overlay")
	}
	for k := 0; k < 16; k++ {
		if buf[40+k] != 0x0000FF {
			t.Errorf("line 11 pixel %d: got %06X, want 0000FF", k, buf[40+k])
		}
	}
	if r.e.DrawOverlayScanline(12, 0, buf) {
		t.Error("overlay ran past its last line")
	}
}

func TestOverlay_HorizontalZoom(t *testing.T) {
	r := newOverlayRig(t)
	r.crtc(CL_CRTC_OVL_HZOOM, 128)
	vram := r.e.VRAM()
	for k := 0; k < 8; k++ {
		putWords(vram, 0x400+uint32(k)*2, uint16(k)<<11)
	}
	buf := filledLine(800, 0)
	r.e.DrawOverlayScanline(10, 0, buf)
	for k := 0; k < 16; k++ {
		if got, want := buf[40+k], redRamp(k/2); got != want {
			t.Errorf("pixel %d: got %06X, want %06X", k, got, want)
		}
	}
}

func TestOverlay_Occlusion(t *testing.T) {
	r := newOverlayRig(t)
	r.gc(CL_GC_CKEY_CMP, 0x42)
	r.crtc(CL_CRTC_OVL_CTRL, 0x8B)
	if info := r.e.Overlay(); !info.Occlusion || info.ColourKey != 0x42 {
		t.Fatalf("occlusion %v key %X", info.Occlusion, info.ColourKey)
	}

	vram := r.e.VRAM()
	for k := 0; k < 16; k++ {
		putWords(vram, 0x400+uint32(k)*2, 0xFFFF)
		if k%2 == 0 {
			vram[0x10008+k] = 0x42
		}
	}
	buf := filledLine(800, 0x111111)
	r.e.DrawOverlayScanline(10, 0x10000, buf)
	for k := 0; k < 16; k++ {
		want := uint32(0x111111)
		if k%2 == 0 {
			want = 0xFFFFFF
		}
		if buf[40+k] != want {
			t.Errorf("pixel %d: got %06X, want %06X", k, buf[40+k], want)
		}
	}
}

func TestOverlay_KeyModeDisablesOcclusion(t *testing.T) {
	r := newOverlayRig(t)
	r.crtc(CL_CRTC_OVL_CTRL, 0x8B)
	r.crtc(CL_CRTC_OVL_EXT, 0x10)
	if r.e.Overlay().Occlusion {
		t.Error("key mode 2 should turn occlusion off")
	}
	r.crtc(CL_CRTC_OVL_EXT, 0x08)
	r.gc(CL_GC_CKEY_CMP, 0x34)
	r.gc(CL_GC_CKEY_MASK, 0x12)
	if info := r.e.Overlay(); !info.Occlusion || info.ColourKey != 0x1234 {
		t.Errorf("16-bit key: occlusion %v key %X", info.Occlusion, info.ColourKey)
	}
}

// =============================================================================
// Pixel decode
// =============================================================================

func TestDecode_RGB(t *testing.T) {
	if got := DecodeOverlayPixels(OverlayRGB555, []byte{0xFF, 0x7F, 0x1F, 0x00}, nil, 2); len(got) != 2 || got[0] != 0xFFFFFF || got[1] != 0x0000FF {
		t.Errorf("RGB555: got %06X", got)
	}
	if got := DecodeOverlayPixels(OverlayRGB565, []byte{0x00, 0xF8}, nil, 1); len(got) != 1 || got[0] != 0xFF0000 {
		t.Errorf("RGB565: got %06X", got)
	}
	if got := DecodeOverlayPixels(OverlayRGB565, []byte{0xE0, 0x07}, nil, 1); got[0] != 0x00FF00 {
		t.Errorf("RGB565 green: got %06X", got)
	}
}

func TestDecode_CLUT(t *testing.T) {
	var pal [256]uint32
	pal[3] = 0x123456
	pal[200] = 0xABCDEF
	got := DecodeOverlayPixels(OverlayCLUT, []byte{3, 200, 3, 200}, &pal, 4)
	want := []uint32{0x123456, 0xABCDEF, 0x123456, 0xABCDEF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CLUT %d: got %06X, want %06X", i, got[i], want[i])
		}
	}
}

func TestDecode_YUV422(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []uint32
	}{
		{"white and black", []byte{0x80, 235, 0x80, 16}, []uint32{0xFEFEFE, 0x000000}},
		{"luma truncation", []byte{0x80, 0, 0x80, 0}, []uint32{0xEDEDED, 0xEDEDED}},
		{"clamp", []byte{0xFF, 235, 0x80, 235}, []uint32{0xFFCDFE, 0xFFCDFE}},
	}
	for _, tc := range tests {
		got := DecodeOverlayPixels(OverlayYUV422, tc.raw, nil, len(tc.want))
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("%s %d: got %06X, want %06X", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

func TestDecode_YUV211(t *testing.T) {
	got := DecodeOverlayPixels(OverlayYUV211, []byte{0x80, 235, 16, 0x80, 235, 16}, nil, 4)
	want := []uint32{0xFEFEFE, 0, 0xFEFEFE, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d: got %06X, want %06X", i, got[i], want[i])
		}
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	if got := DecodeOverlayPixels(OverlayFormat(1), []byte{1, 2, 3, 4}, nil, 4); len(got) != 0 {
		t.Errorf("format 1: got %d pixels", len(got))
	}
	if got := DecodeOverlayPixels(OverlayRGB565, nil, nil, 4); len(got) != 0 {
		t.Errorf("empty input: got %d pixels", len(got))
	}
	if got := OverlayFormat(7).String(); got != "none" {
		t.Errorf("String: got %q", got)
	}
}
