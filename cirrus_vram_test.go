// cirrus_vram_test.go - VRAM access pipeline tests

package cirrus

import (
	"testing"
)

// =============================================================================
// Addressing transforms
// =============================================================================

func TestVRAM_Chain4RoundTrip(t *testing.T) {
	r := newCirrusTestRig(t)
	r.seq(VGA_SEQ_MEMMODE, VGA_SEQ_MEMMODE_CHAIN4)

	size := uint32(len(r.e.VRAM()))
	pattern := func(a uint32) uint8 { return uint8(a ^ a>>8 ^ a>>16 ^ 0xA5) }
	for a := uint32(0); a < size; a++ {
		r.e.WriteByte(a, pattern(a))
	}
	for a := uint32(0); a < size; a++ {
		if got := r.e.ReadByte(a); got != pattern(a) {
			t.Fatalf("chain4 a=%06X: got %02X, want %02X", a, got, pattern(a))
		}
	}
}

func TestVRAM_Chain4PlaneSelect(t *testing.T) {
	r := newCirrusTestRig(t)
	r.seq(VGA_SEQ_MEMMODE, VGA_SEQ_MEMMODE_CHAIN4)
	r.e.WriteByte(0x10006, 0x77)
	// plane 2 of dword 0x14: bits 16-17 move down to bits 2-3
	if got := r.e.VRAM()[0x16]; got != 0x77 {
		t.Errorf("chain4 placement: VRAM[16] = %02X, want 77", got)
	}
}

func TestVRAM_PackedChain4IsLinear(t *testing.T) {
	r := newCirrusTestRig(t)
	r.packedChain4()
	r.e.WriteByte(0x123457, 0x99)
	if got := r.e.VRAM()[0x123457]; got != 0x99 {
		t.Errorf("packed chain4: VRAM[123457] = %02X, want 99", got)
	}
}

func TestVRAM_OddEvenWrite(t *testing.T) {
	r := newCirrusTestRig(t)
	// Reset leaves SR04 = 0: odd/even enabled.
	r.e.WriteByte(0x11, 0x3C)
	vram := r.e.VRAM()
	if vram[0x41] != 0x3C || vram[0x43] != 0x3C {
		t.Errorf("odd byte should land in planes 1 and 3: % X", vram[0x40:0x44])
	}
	if vram[0x40] != 0 || vram[0x42] != 0 {
		t.Errorf("even planes touched by odd write: % X", vram[0x40:0x44])
	}
}

func TestVRAM_OutOfRange(t *testing.T) {
	r := newCirrusVariantRig(t, VariantGD5434, 2<<20, BusPCI)
	r.packedChain4()
	r.e.ClearDirty()
	r.e.WriteByte(0x300000, 0x12)
	if r.e.DirtyPages(nil) != 0 {
		t.Error("write beyond VRAM marked a page dirty")
	}
	if got := r.e.ReadByte(0x300000); got != 0xFF {
		t.Errorf("read beyond VRAM: got %02X, want FF", got)
	}
}

func TestVRAM_DirtyPages(t *testing.T) {
	r := newCirrusTestRig(t)
	r.packedChain4()
	r.e.ClearDirty()
	r.e.WriteByte(0x5123, 1)
	if !r.e.Dirty(0x5000) || r.e.Dirty(0x4FFF) || r.e.Dirty(0x6000) {
		t.Error("only page 5 should be dirty")
	}
	pages := make([]bool, len(r.e.VRAM())/CL_DIRTY_PAGE_SIZE)
	if n := r.e.DirtyPages(pages); n != 1 || !pages[5] {
		t.Errorf("DirtyPages: n=%d page5=%v", n, pages[5])
	}
	r.e.ClearDirty()
	if r.e.Dirty(0x5000) {
		t.Error("ClearDirty left page 5 dirty")
	}
}

// =============================================================================
// Write modes
// =============================================================================

func planes(e *CirrusEngine, addr uint32) [4]uint8 {
	v := e.VRAM()
	return [4]uint8{v[addr], v[addr+1], v[addr+2], v[addr+3]}
}

func TestVRAM_WriteMode0SetReset(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.gc(VGA_GC_SET_RESET, 0x05)
	r.gc(VGA_GC_ENABLE_SR, 0x0F)
	r.e.WriteByte(0x10, 0x00)
	if got, want := planes(r.e, 0x40), [4]uint8{0xFF, 0x00, 0xFF, 0x00}; got != want {
		t.Errorf("set/reset: got % X, want % X", got, want)
	}
}

func TestVRAM_WriteMode0SetResetDisabled(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.seq(CL_SEQ_EXT_MODE, 0x01)
	r.gc(VGA_GC_SET_RESET, 0x05)
	r.gc(VGA_GC_ENABLE_SR, 0x0F)
	r.e.WriteByte(0x10, 0x42)
	if got, want := planes(r.e, 0x40), [4]uint8{0x42, 0x42, 0x42, 0x42}; got != want {
		t.Errorf("SR07 bit 0 should bypass set/reset: got % X, want % X", got, want)
	}
}

func TestVRAM_WriteMode0RotateXOR(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.e.WriteByte(0x10, 0xF0)
	r.e.ReadByte(0x10)
	r.gc(VGA_GC_DATA_ROTATE, aluXOR|4)
	r.e.WriteByte(0x10, 0x3C)
	// 0x3C rotated right by 4 is 0xC3, XOR latch 0xF0 is 0x33
	if got, want := planes(r.e, 0x40), [4]uint8{0x33, 0x33, 0x33, 0x33}; got != want {
		t.Errorf("rotate+XOR: got % X, want % X", got, want)
	}
}

func TestVRAM_WriteMode0BitMask(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.e.WriteByte(0x10, 0xAA)
	r.e.ReadByte(0x10)
	r.gc(VGA_GC_BITMASK, 0x0F)
	r.e.WriteByte(0x10, 0x55)
	if got := r.e.VRAM()[0x40]; got != 0xA5 {
		t.Errorf("bit mask: got %02X, want A5", got)
	}
}

func TestVRAM_WriteMode1CopiesLatches(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.gc(VGA_GC_SET_RESET, 0x09)
	r.gc(VGA_GC_ENABLE_SR, 0x0F)
	r.e.WriteByte(0x10, 0)
	r.gc(VGA_GC_ENABLE_SR, 0x00)

	r.e.ReadByte(0x10)
	r.gc(VGA_GC_MODE, 0x01)
	r.e.WriteByte(0x20, 0x00)
	if got, want := planes(r.e, 0x80), [4]uint8{0xFF, 0x00, 0x00, 0xFF}; got != want {
		t.Errorf("write mode 1: got % X, want % X", got, want)
	}
	if got := r.e.Latches(); got[0] != 0xFF || got[3] != 0xFF {
		t.Errorf("latches: got % X", got[:4])
	}
}

func TestVRAM_WriteMode2(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.gc(VGA_GC_MODE, 0x02)
	r.e.WriteByte(0x10, 0x06)
	if got, want := planes(r.e, 0x40), [4]uint8{0x00, 0xFF, 0xFF, 0x00}; got != want {
		t.Errorf("write mode 2: got % X, want % X", got, want)
	}
}

func TestVRAM_WriteMode3(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.e.ReadByte(0x10)
	r.gc(VGA_GC_MODE, 0x03)
	r.gc(VGA_GC_SET_RESET, 0x0F)
	r.e.WriteByte(0x10, 0xF0)
	if got, want := planes(r.e, 0x40), [4]uint8{0xF0, 0xF0, 0xF0, 0xF0}; got != want {
		t.Errorf("write mode 3: got % X, want % X", got, want)
	}
}

func TestVRAM_PlaneMask(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.seq(VGA_SEQ_MAPMASK, 0x04)
	r.e.WriteByte(0x10, 0xEE)
	if got, want := planes(r.e, 0x40), [4]uint8{0, 0, 0xEE, 0}; got != want {
		t.Errorf("map mask: got % X, want % X", got, want)
	}
}

func TestVRAM_WriteMode4ColourExpand(t *testing.T) {
	r := newCirrusTestRig(t)
	r.gc(CL_GC_EXT_MODE, CL_GR0B_X8_ADDRESSING|CL_GR0B_WRITEMODE_EXT)
	r.gc(VGA_GC_MODE, 0x04)
	r.gc(VGA_GC_ENABLE_SR, 0x33)
	r.seq(VGA_SEQ_MAPMASK, 0xFF)
	for i := uint32(0x80); i < 0x88; i++ {
		r.e.VRAM()[i] = 0xEE
	}
	r.e.WriteByte(0x10, 0xA0)
	want := [8]uint8{0x33, 0xEE, 0x33, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE}
	var got [8]uint8
	copy(got[:], r.e.VRAM()[0x80:0x88])
	if got != want {
		t.Errorf("write mode 4: got % X, want % X", got, want)
	}
}

func TestVRAM_WriteMode5ColourExpand(t *testing.T) {
	r := newCirrusTestRig(t)
	r.gc(CL_GC_EXT_MODE, CL_GR0B_X8_ADDRESSING|CL_GR0B_WRITEMODE_EXT)
	r.gc(VGA_GC_MODE, 0x05)
	r.gc(VGA_GC_SET_RESET, 0x44)
	r.gc(VGA_GC_ENABLE_SR, 0x33)
	r.seq(VGA_SEQ_MAPMASK, 0x0F)
	r.e.WriteByte(0x10, 0x05)
	want := [8]uint8{0, 0, 0, 0, 0x44, 0x33, 0x44, 0x33}
	var got [8]uint8
	copy(got[:], r.e.VRAM()[0x80:0x88])
	if got != want {
		t.Errorf("write mode 5: got % X, want % X", got, want)
	}
}

func TestVRAM_WriteMode5Enhanced16Bit(t *testing.T) {
	r := newCirrusTestRig(t)
	r.gc(CL_GC_EXT_MODE, CL_GR0B_ENHANCED_16BIT|CL_GR0B_WRITEMODE_EXT)
	r.gc(VGA_GC_MODE, 0x05)
	r.gc(VGA_GC_ENABLE_SR, 0x34)
	r.gc(CL_GC_FG_HI, 0x12)
	r.gc(VGA_GC_SET_RESET, 0x78)
	r.gc(CL_GC_BG_HI, 0x56)
	r.seq(VGA_SEQ_MAPMASK, 0xC0)
	r.e.WriteByte(0x01, 0x80)
	want := [4]uint8{0x34, 0x12, 0x78, 0x56}
	if got := planes(r.e, 0x10); got != want {
		t.Errorf("16-bit expansion: got % X, want % X", got, want)
	}
}

// =============================================================================
// Read modes
// =============================================================================

func TestVRAM_ReadMode1ColourCompare(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	r.gc(VGA_GC_SET_RESET, 0x05)
	r.gc(VGA_GC_ENABLE_SR, 0x0F)
	r.e.WriteByte(0x10, 0)

	r.gc(VGA_GC_MODE, VGA_GC_MODE_READ_MODE)
	r.gc(VGA_GC_COLOR_DONT, 0x0F)
	r.gc(VGA_GC_COLOR_CMP, 0x05)
	if got := r.e.ReadByte(0x10); got != 0xFF {
		t.Errorf("matching colour: got %02X, want FF", got)
	}
	r.gc(VGA_GC_COLOR_CMP, 0x00)
	if got := r.e.ReadByte(0x10); got != 0x00 {
		t.Errorf("non-matching colour: got %02X, want 00", got)
	}
	r.gc(VGA_GC_COLOR_DONT, 0x00)
	if got := r.e.ReadByte(0x10); got != 0xFF {
		t.Errorf("all planes don't care: got %02X, want FF", got)
	}
}

func TestVRAM_ReadMapSelect(t *testing.T) {
	r := newCirrusTestRig(t)
	r.planar()
	copy(r.e.VRAM()[0x40:], []byte{0x10, 0x11, 0x12, 0x13})
	r.gc(VGA_GC_READ_MAP, 2)
	if got := r.e.ReadByte(0x10); got != 0x12 {
		t.Errorf("read map 2: got %02X, want 12", got)
	}
}

func TestVRAM_EightByteLatches(t *testing.T) {
	r := newCirrusTestRig(t)
	r.gc(CL_GC_EXT_MODE, CL_GR0B_X8_ADDRESSING|CL_GR0B_8B_LATCHES)
	copy(r.e.VRAM()[0x80:], []byte{1, 2, 3, 4, 5, 6, 7, 8})
	r.e.ReadByte(0x10)
	if got, want := r.e.Latches(), [8]uint8{1, 2, 3, 4, 5, 6, 7, 8}; got != want {
		t.Errorf("8-byte latches: got % X, want % X", got, want)
	}
}

func TestALU_Combine(t *testing.T) {
	tests := []struct {
		fn, v, latch, mask, want uint8
	}{
		{aluSet, 0xFF, 0x00, 0x0F, 0x0F},
		{aluAND, 0x0F, 0xFF, 0xFF, 0x0F},
		{aluAND, 0x00, 0xFF, 0x0F, 0xF0},
		{aluOR, 0x0F, 0xF0, 0xFF, 0xFF},
		{aluXOR, 0xFF, 0xF0, 0xFF, 0x0F},
	}
	for _, tc := range tests {
		if got := aluCombine(tc.fn, tc.v, tc.latch, tc.mask); got != tc.want {
			t.Errorf("aluCombine(%02X, %02X, %02X, %02X): got %02X, want %02X", tc.fn, tc.v, tc.latch, tc.mask, got, tc.want)
		}
	}
}
