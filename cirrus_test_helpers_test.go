// cirrus_test_helpers_test.go - Shared rig for Cirrus engine tests

package cirrus

import (
	"testing"
)

// recordingHost captures window remaps and interrupt changes.
type recordingHost struct {
	remaps int
	last   MappingState
	irq    bool
}

func (h *recordingHost) RemapWindows(m MappingState) {
	h.remaps++
	h.last = m
}

func (h *recordingHost) SetIRQ(asserted bool) {
	h.irq = asserted
}

type cirrusTestRig struct {
	e    *CirrusEngine
	host *recordingHost
}

// newCirrusTestRig builds a 4MB GD5434 on PCI.
func newCirrusTestRig(t *testing.T) *cirrusTestRig {
	t.Helper()
	return newCirrusVariantRig(t, VariantGD5434, 4<<20, BusPCI)
}

func newCirrusVariantRig(t *testing.T, v Variant, vramSize int, bus BusType) *cirrusTestRig {
	t.Helper()
	host := &recordingHost{}
	e, err := NewCirrusEngine(Config{Variant: v, VRAMSize: vramSize, Bus: bus, LFBBase: CL_DEFAULT_LFB_BASE}, host)
	if err != nil {
		t.Fatalf("NewCirrusEngine(%s, %d, %s): %v", v, vramSize, bus, err)
	}
	return &cirrusTestRig{e: e, host: host}
}

// newDefaultVariantRig picks the largest VRAM option and the first bus.
func newDefaultVariantRig(t *testing.T, v Variant) *cirrusTestRig {
	t.Helper()
	caps := v.Caps()
	return newCirrusVariantRig(t, v, caps.VRAMSizes[len(caps.VRAMSizes)-1], caps.Buses[0])
}

func (r *cirrusTestRig) seq(index, value uint8) {
	r.e.WriteRegister(BankSequencer, index, value)
}

func (r *cirrusTestRig) gc(index, value uint8) {
	r.e.WriteRegister(BankGraphics, index, value)
}

func (r *cirrusTestRig) crtc(index, value uint8) {
	r.e.WriteRegister(BankCRTC, index, value)
}

func (r *cirrusTestRig) attr(index, value uint8) {
	r.e.WriteRegister(BankAttribute, index, value)
}

// packedChain4 selects byte-linear VRAM access.
func (r *cirrusTestRig) packedChain4() {
	r.seq(VGA_SEQ_MEMMODE, VGA_SEQ_MEMMODE_CHAIN4)
	r.seq(CL_SEQ_EXT_MODE, r.e.seqRegs[CL_SEQ_EXT_MODE]|CL_SR07_PACKED_CHAIN4)
}

// planar selects plain four-plane addressing.
func (r *cirrusTestRig) planar() {
	r.seq(VGA_SEQ_MEMMODE, VGA_SEQ_MEMMODE_OE)
}

// setDACEntry programs one palette entry with 6-bit components.
func (r *cirrusTestRig) setDACEntry(index, red, green, blue uint8) {
	r.e.PortWrite(VGA_PORT_DAC_WINDEX, index)
	r.e.PortWrite(VGA_PORT_DAC_DATA, red)
	r.e.PortWrite(VGA_PORT_DAC_DATA, green)
	r.e.PortWrite(VGA_PORT_DAC_DATA, blue)
}

// blit programs the common blitter registers through the GR aliases.
func (r *cirrusTestRig) blit(width, height, dstPitch, srcPitch uint16, dst, src uint32, mode, rop uint8) {
	r.gc(CL_GC_BLT_WIDTH, uint8(width))
	r.gc(CL_GC_BLT_WIDTH+1, uint8(width>>8))
	r.gc(CL_GC_BLT_HEIGHT, uint8(height))
	r.gc(CL_GC_BLT_HEIGHT+1, uint8(height>>8))
	r.gc(CL_GC_BLT_DPITCH, uint8(dstPitch))
	r.gc(CL_GC_BLT_DPITCH+1, uint8(dstPitch>>8))
	r.gc(CL_GC_BLT_SPITCH, uint8(srcPitch))
	r.gc(CL_GC_BLT_SPITCH+1, uint8(srcPitch>>8))
	r.gc(CL_GC_BLT_DADDR, uint8(dst))
	r.gc(CL_GC_BLT_DADDR+1, uint8(dst>>8))
	r.gc(CL_GC_BLT_DADDR+2, uint8(dst>>16))
	r.gc(CL_GC_BLT_SADDR, uint8(src))
	r.gc(CL_GC_BLT_SADDR+1, uint8(src>>8))
	r.gc(CL_GC_BLT_SADDR+2, uint8(src>>16))
	r.gc(CL_GC_BLT_MODE, mode)
	r.gc(CL_GC_BLT_ROP, rop)
}

func (r *cirrusTestRig) startBlit() {
	r.gc(CL_GC_BLT_STATUS, CL_BLT_STATUS_START)
}
