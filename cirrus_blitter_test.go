// cirrus_blitter_test.go - BitBLT engine tests

package cirrus

import (
	"testing"
)

// =============================================================================
// Raster ops
// =============================================================================

// ropTruth gives each raster op as a truth table indexed by s<<1 | d.
var ropTruth = map[uint8]uint8{
	0x00: 0x0, 0x05: 0x8, 0x06: 0xA, 0x09: 0x4,
	0x0B: 0x5, 0x0D: 0xC, 0x0E: 0xF, 0x50: 0x2,
	0x59: 0x6, 0x6D: 0xE, 0x90: 0x1, 0x95: 0x9,
	0xAD: 0xD, 0xD0: 0x3, 0xD6: 0xB, 0xDA: 0x7,
}

func ropByTruth(table, s, d uint8) uint8 {
	var out uint8
	for bit := uint(0); bit < 8; bit++ {
		idx := (s>>bit&1)<<1 | d>>bit&1
		out |= (table >> idx & 1) << bit
	}
	return out
}

func TestROP_AllCodes(t *testing.T) {
	operands := []uint8{0x00, 0xFF, 0x55, 0xAA}
	for rop, table := range ropTruth {
		for _, s := range operands {
			for _, d := range operands {
				want := ropByTruth(table, s, d)
				if got := ApplyROP(rop, s, d); got != want {
					t.Errorf("ROP %02X s=%02X d=%02X: got %02X, want %02X", rop, s, d, got, want)
				}
			}
		}
	}
}

func TestROP_UnknownLeavesDestination(t *testing.T) {
	for _, rop := range []uint8{0x01, 0x33, 0xCC, 0xFF} {
		if got := ApplyROP(rop, 0x12, 0x34); got != 0x34 {
			t.Errorf("ROP %02X: got %02X, want 34", rop, got)
		}
	}
}

func TestROP_Codes(t *testing.T) {
	codes := ROPCodes()
	if len(codes) != len(ropTruth) {
		t.Fatalf("ROPCodes: got %d codes, want %d", len(codes), len(ropTruth))
	}
	for i, c := range codes {
		if _, ok := ropTruth[c]; !ok {
			t.Errorf("unexpected code %02X", c)
		}
		if i > 0 && codes[i-1] >= c {
			t.Errorf("codes not ascending at %d", i)
		}
	}
}

// =============================================================================
// CPU-fed transfers
// =============================================================================

func TestBlit_CPUMonoFill(t *testing.T) {
	r := newCirrusTestRig(t)
	r.blit(3, 1, 4, 0, 0x1000, 0, CL_BLT_MODE_MONO_EXPAND, 0x0D)
	r.gc(VGA_GC_ENABLE_SR, 0x7F)
	r.startBlit()

	if got := r.e.BlitPhase(); got != BlitArmed {
		t.Fatalf("after start: phase %s, want armed", got)
	}
	if r.e.dispatch != dispatchBlitter {
		t.Fatal("dispatch should belong to the blitter")
	}

	r.e.MemWriteDWord(VGA_WINDOW_A0000, 0x0000F0F0)

	vram := r.e.VRAM()
	for a := uint32(0x1000); a < 0x1008; a++ {
		if vram[a] != 0x7F {
			t.Errorf("VRAM[%04X] = %02X, want 7F", a, vram[a])
		}
	}
	if vram[0x1008] != 0 {
		t.Errorf("VRAM[1008] = %02X, blit overran", vram[0x1008])
	}
	if got := r.e.BlitPhase(); got != BlitIdle {
		t.Errorf("after transfer: phase %s, want idle", got)
	}
	if r.e.dispatch != dispatchNormal {
		t.Error("dispatch not restored")
	}
	if got := r.e.ReadRegister(BankGraphics, CL_GC_BLT_STATUS); got != 0 {
		t.Errorf("GR31 after completion: got %02X, want 00", got)
	}

	// The window goes back to plain VRAM.
	r.gc(VGA_GC_ENABLE_SR, 0)
	r.packedChain4()
	r.e.MemWriteByte(VGA_WINDOW_A0000+0x10, 0x5A)
	if got := r.e.MemReadByte(VGA_WINDOW_A0000 + 0x10); got != 0x5A {
		t.Errorf("window after blit: got %02X, want 5A", got)
	}
}

func TestBlit_CPUWordPairing(t *testing.T) {
	r := newCirrusTestRig(t)
	r.blit(3, 0, 4, 0, 0x2000, 0, CL_BLT_MODE_CPU_SOURCE, 0x0D)
	r.startBlit()

	r.e.MemWriteWord(VGA_WINDOW_A0000, 0x2211)
	if got := r.e.VRAM()[0x2000]; got != 0 {
		t.Errorf("half word reached VRAM early: %02X", got)
	}
	r.e.MemWriteWord(VGA_WINDOW_A0000, 0x4433)

	want := [4]uint8{0x11, 0x22, 0x33, 0x44}
	var got [4]uint8
	copy(got[:], r.e.VRAM()[0x2000:])
	if got != want {
		t.Errorf("word pairing: got % X, want % X", got, want)
	}
	if r.e.BlitPhase() != BlitIdle {
		t.Error("blit should be complete")
	}
}

func TestBlit_ArmedWindowIsolation(t *testing.T) {
	r := newCirrusTestRig(t)
	r.packedChain4()
	r.blit(3, 0, 4, 0, 0x2000, 0, CL_BLT_MODE_CPU_SOURCE, 0x0D)
	r.startBlit()

	r.e.MemWriteByte(VGA_WINDOW_A0000+0x10, 0x12)
	if got := r.e.VRAM()[0x10]; got != 0 {
		t.Errorf("byte write reached VRAM while armed: %02X", got)
	}
	if got := r.e.MemReadByte(VGA_WINDOW_A0000); got != 0xFF {
		t.Errorf("byte read while armed: got %02X, want FF", got)
	}
	if got := r.e.MemReadDWord(VGA_WINDOW_A0000); got != 0xFFFFFFFF {
		t.Errorf("dword read while armed: got %08X, want FFFFFFFF", got)
	}
}

func TestBlit_ResetAborts(t *testing.T) {
	r := newCirrusTestRig(t)
	r.blit(7, 3, 8, 0, 0x3000, 0, CL_BLT_MODE_CPU_SOURCE, 0x0D)
	r.startBlit()
	r.e.MemWriteDWord(VGA_WINDOW_A0000, 0x44332211)
	if r.e.BlitPhase() != BlitTransferring {
		t.Fatalf("phase %s, want transferring", r.e.BlitPhase())
	}

	r.gc(CL_GC_BLT_STATUS, CL_BLT_STATUS_RESET)
	if r.e.BlitPhase() != BlitIdle {
		t.Errorf("phase after reset: %s, want idle", r.e.BlitPhase())
	}
	if r.e.dispatch != dispatchNormal {
		t.Error("reset left the window with the blitter")
	}

	// Further dwords are ordinary VRAM writes.
	r.e.MemWriteDWord(VGA_WINDOW_A0000, 0xAABBCCDD)
	if got := r.e.VRAM()[0x3004]; got != 0 {
		t.Errorf("data after reset reached the blit destination: %02X", got)
	}
}

// =============================================================================
// Termination
// =============================================================================

func TestBlit_CPUTerminationCount(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint16 // register values
		mode          uint8
		dwords        int
	}{
		{"8bpp 6x3", 5, 2, CL_BLT_MODE_CPU_SOURCE, 6},
		{"8bpp 4x2", 3, 1, CL_BLT_MODE_CPU_SOURCE, 2},
		{"8bpp 1x1", 0, 0, CL_BLT_MODE_CPU_SOURCE, 1},
		{"mono 20x3", 19, 2, CL_BLT_MODE_MONO_EXPAND, 3},
		{"mono 8x4", 7, 3, CL_BLT_MODE_MONO_EXPAND, 1},
		{"mono 64x2", 63, 1, CL_BLT_MODE_MONO_EXPAND, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newCirrusTestRig(t)
			r.blit(tc.width, tc.height, 128, 0, 0x10000, 0, tc.mode, 0x0D)
			r.startBlit()
			for i := 0; i < tc.dwords-1; i++ {
				r.e.MemWriteDWord(VGA_WINDOW_A0000, 0xFFFFFFFF)
				if r.e.BlitPhase() == BlitIdle {
					t.Fatalf("finished after %d dwords, want %d", i+1, tc.dwords)
				}
			}
			r.e.MemWriteDWord(VGA_WINDOW_A0000, 0xFFFFFFFF)
			if r.e.BlitPhase() != BlitIdle {
				t.Errorf("still %s after %d dwords", r.e.BlitPhase(), tc.dwords)
			}
		})
	}
}

// =============================================================================
// VRAM-fed transfers
// =============================================================================

func TestBlit_VRAMCopy(t *testing.T) {
	r := newCirrusTestRig(t)
	vram := r.e.VRAM()
	for y := uint32(0); y < 3; y++ {
		for x := uint32(0); x < 8; x++ {
			vram[0x100+y*16+x] = uint8(y<<4 | x)
		}
	}
	r.blit(7, 2, 32, 16, 0x8000, 0x100, 0x00, 0x0D)
	r.startBlit()

	if r.e.BlitPhase() != BlitIdle {
		t.Fatal("VRAM-fed blit should complete inside the start write")
	}
	for y := uint32(0); y < 3; y++ {
		for x := uint32(0); x < 8; x++ {
			if got, want := vram[0x8000+y*32+x], uint8(y<<4|x); got != want {
				t.Errorf("(%d,%d): got %02X, want %02X", x, y, got, want)
			}
		}
		if vram[0x8000+y*32+8] != 0 {
			t.Errorf("row %d overran", y)
		}
	}
	if !r.e.Dirty(0x8000) {
		t.Error("destination page not dirty")
	}
}

func TestBlit_VRAMCopyROP(t *testing.T) {
	r := newCirrusTestRig(t)
	vram := r.e.VRAM()
	copy(vram[0x100:], []byte{0xF0, 0x0F, 0xFF, 0x00})
	copy(vram[0x200:], []byte{0xFF, 0xFF, 0x0F, 0x0F})
	r.blit(3, 0, 0, 0, 0x200, 0x100, 0x00, 0x59)
	r.startBlit()

	want := [4]uint8{0x0F, 0xF0, 0xF0, 0x0F}
	var got [4]uint8
	copy(got[:], vram[0x200:])
	if got != want {
		t.Errorf("XOR blit: got % X, want % X", got, want)
	}
}

func TestBlit_PatternFill(t *testing.T) {
	r := newCirrusTestRig(t)
	vram := r.e.VRAM()
	for i := uint32(0); i < 64; i++ {
		vram[0x4000+i] = uint8(0x80 + i)
	}
	r.blit(15, 7, 16, 0, 0x6000, 0x4000, CL_BLT_MODE_PATTERN, 0x0D)
	r.startBlit()

	for y := uint32(0); y < 8; y++ {
		for x := uint32(0); x < 16; x++ {
			if got, want := vram[0x6000+y*16+x], uint8(0x80+y*8+x%8); got != want {
				t.Fatalf("(%d,%d): got %02X, want %02X", x, y, got, want)
			}
		}
	}
}

func TestBlit_MonoTransparent(t *testing.T) {
	r := newCirrusTestRig(t)
	vram := r.e.VRAM()
	vram[0x5000] = 0xA5
	for i := uint32(0); i < 8; i++ {
		vram[0x7000+i] = 0xEE
	}
	r.gc(VGA_GC_ENABLE_SR, 0x33)
	r.gc(VGA_GC_SET_RESET, 0x44)
	r.blit(7, 0, 8, 0, 0x7000, 0x5000, CL_BLT_MODE_MONO|CL_BLT_MODE_TRANSPARENT, 0x0D)
	r.startBlit()

	want := [8]uint8{0x33, 0xEE, 0x33, 0xEE, 0xEE, 0x33, 0xEE, 0x33}
	var got [8]uint8
	copy(got[:], vram[0x7000:])
	if got != want {
		t.Errorf("transparent expand: got % X, want % X", got, want)
	}
}

func TestBlit_MonoExpand16bpp(t *testing.T) {
	r := newCirrusTestRig(t)
	vram := r.e.VRAM()
	vram[0x5000] = 0xC0
	r.gc(VGA_GC_ENABLE_SR, 0x34)
	r.gc(CL_GC_FG_HI, 0x12)
	r.gc(VGA_GC_SET_RESET, 0x78)
	r.gc(CL_GC_BG_HI, 0x56)
	r.blit(7, 0, 8, 0, 0x9000, 0x5000, CL_BLT_MODE_MONO|CL_BLT_DEPTH_16<<4, 0x0D)
	r.startBlit()

	want := [8]uint8{0x34, 0x12, 0x34, 0x12, 0x78, 0x56, 0x78, 0x56}
	var got [8]uint8
	copy(got[:], vram[0x9000:])
	if got != want {
		t.Errorf("16bpp expand: got % X, want % X", got, want)
	}
}

// =============================================================================
// MMIO programming
// =============================================================================

func TestBlit_MMIOWindow(t *testing.T) {
	r := newCirrusTestRig(t)
	r.seq(CL_SEQ_CONFIG, CL_SR17_MMIO_ENABLE)
	copy(r.e.VRAM()[0x100:], []byte{1, 2, 3, 4})

	base := uint32(CL_MMIO_BASE)
	r.e.MemWriteWord(base+CL_MMIO_WIDTH, 3)
	r.e.MemWriteWord(base+CL_MMIO_HEIGHT, 0)
	r.e.MemWriteDWord(base+CL_MMIO_DST_ADDR, 0x200)
	r.e.MemWriteDWord(base+CL_MMIO_SRC_ADDR, 0x100)
	r.e.MemWriteByte(base+CL_MMIO_MODE, 0x00)
	r.e.MemWriteByte(base+CL_MMIO_ROP, 0x0D)

	regs := r.e.BlitRegisters()
	if regs.Width != 3 || regs.DstAddr != 0x200 || regs.SrcAddr != 0x100 || regs.ROP != 0x0D {
		t.Fatalf("registers: %+v", regs)
	}

	r.e.MemWriteByte(base+CL_MMIO_STATUS, CL_BLT_STATUS_START)
	want := [4]uint8{1, 2, 3, 4}
	var got [4]uint8
	copy(got[:], r.e.VRAM()[0x200:])
	if got != want {
		t.Errorf("MMIO blit: got % X, want % X", got, want)
	}
	if s := r.e.MemReadByte(base + CL_MMIO_STATUS); s != 0 {
		t.Errorf("MMIO status: got %02X, want 00", s)
	}
	if v := r.e.MemReadByte(base + CL_MMIO_WIDTH); v != 0xFF {
		t.Errorf("write-only register read: got %02X, want FF", v)
	}
}

func TestBlitPhase_String(t *testing.T) {
	for p, want := range map[BlitPhase]string{BlitIdle: "idle", BlitArmed: "armed", BlitTransferring: "transferring", 7: "unknown"} {
		if got := p.String(); got != want {
			t.Errorf("%d: got %q, want %q", int(p), got, want)
		}
	}
}
