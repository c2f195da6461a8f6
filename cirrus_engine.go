// cirrus_engine.go - CL-GD542x/543x controller state and lifecycle

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
cirrus_engine.go - Cirrus Logic SVGA controller

The engine models one graphics card. It owns the register banks, VRAM, the
blitter and the per-scanline cursor and overlay compositors. It has no
goroutines and takes no locks: every call runs to completion on the caller's
thread, and a host that shares the engine between threads must serialise
access itself.

Signal flow:
1. Host port I/O lands in PortRead/PortWrite (cirrus_ports.go).
2. Host memory accesses land in the MemRead and MemWrite calls (cirrus_memory.go), which
   route to the banked window, linear window, MMIO window or blitter.
3. Register writes that move a window recompute the mapping and call
   WindowHost.RemapWindows before returning.
4. The refresh driver calls RecalcTimings, then DrawCursorScanline and
   DrawOverlayScanline per visible line.
*/

package cirrus

import (
	"fmt"
	"math/bits"
)

// WindowHost is told whenever the set of decoded memory windows changes.
type WindowHost interface {
	RemapWindows(m MappingState)
}

// IRQHost is an optional extension of WindowHost for hosts that route the
// vertical retrace interrupt.
type IRQHost interface {
	SetIRQ(asserted bool)
}

// Config fixes the card at attach time.
type Config struct {
	Variant  Variant
	VRAMSize int
	Bus      BusType
	LFBBase  uint32 // initial PCI linear framebuffer BAR
}

// DefaultConfig is a 4MB GD5434 on PCI.
func DefaultConfig() Config {
	return Config{
		Variant:  VariantGD5434,
		VRAMSize: 4 << 20,
		Bus:      BusPCI,
		LFBBase:  CL_DEFAULT_LFB_BASE,
	}
}

type dispatchMode int

const (
	dispatchNormal  dispatchMode = iota
	dispatchBlitter              // CPU-fed blit owns the active window
)

// vertical retrace interrupt state
const (
	vblankIRQCleared = -1
	vblankIRQIdle    = 0
	vblankIRQPending = 1
)

// CirrusEngine is one emulated card.
type CirrusEngine struct {
	variant Variant
	caps    *VariantCaps
	bus     BusType
	host    WindowHost

	// Standard VGA registers
	miscOut   uint8
	seqIndex  uint8
	seqRegs   [CL_SEQ_REG_COUNT]uint8
	gcIndex   uint8
	gcRegs    [CL_GC_REG_COUNT]uint8
	crtcIndex uint8
	crtcRegs  [CL_CRTC_REG_COUNT]uint8
	attrIndex uint8
	attrRegs  [CL_ATTR_REG_COUNT]uint8
	attrFlip  bool
	status1   uint8

	// DAC state machine
	dacMask       uint8
	dacWriteIndex uint8
	dacReadIndex  uint8
	dacWritePhase uint8
	dacReadPhase  uint8
	dacStatus     uint8
	dacRGB        [3]uint8
	palette       [256 * 3]uint8 // 6-bit components
	pallook       [256]uint32    // 0x00RRGGBB
	cursorPal     [2]uint32

	// Hidden DAC
	hiddenDAC      uint8
	hiddenDACCount int

	// Decoded access modes
	writeMode        uint8
	readMode         bool
	chain4           bool
	chain2Write      bool
	chain2Read       bool
	readPlane        uint8
	setResetDisabled bool
	packedChain4     bool
	dpms             bool

	sr10Read, sr11Read uint8
	vportSync          bool

	// Memory
	vram       []byte
	vramMask   uint32
	vramMax    uint32
	dirty      []bool
	latch      [8]uint8 // planes 0-3, extended latches 4-7
	bank       [2]uint32
	mapping    MappingState
	dispatch   dispatchMode
	decodeMask uint32

	blt     BlitState
	cursor  CursorState
	overlay OverlayState
	timings Timings

	// Bus interfaces
	pciRegs   [CL_PCI_REG_COUNT]uint8
	lfbBase   uint32
	mmioBase  uint32
	gpioBase  uint32
	intLine   uint8
	posRegs   [8]uint8
	mcaEnable bool
	vblankIRQ int
}

// NewCirrusEngine builds a card. host may be nil.
func NewCirrusEngine(cfg Config, host WindowHost) (*CirrusEngine, error) {
	if cfg.Variant < 0 || cfg.Variant >= variantCount {
		return nil, &CirrusError{Operation: "create engine", Details: fmt.Sprintf("unknown variant %d", int(cfg.Variant))}
	}
	if cfg.VRAMSize <= 0 || bits.OnesCount(uint(cfg.VRAMSize)) != 1 {
		return nil, &CirrusError{Operation: "create engine", Details: fmt.Sprintf("VRAM size %d is not a power of two", cfg.VRAMSize)}
	}
	if cfg.VRAMSize < 256<<10 || cfg.VRAMSize > 4<<20 {
		return nil, &CirrusError{Operation: "create engine", Details: fmt.Sprintf("VRAM size %d outside 256KB-4MB", cfg.VRAMSize)}
	}
	caps := cfg.Variant.Caps()
	if !caps.SupportsVRAM(cfg.VRAMSize) {
		return nil, &CirrusError{Operation: "create engine", Details: fmt.Sprintf("%s does not ship with %dKB", caps.Name, cfg.VRAMSize>>10)}
	}
	if !caps.SupportsBus(cfg.Bus) {
		return nil, &CirrusError{Operation: "create engine", Details: fmt.Sprintf("%s cannot sit on %s", caps.Name, cfg.Bus)}
	}

	e := &CirrusEngine{
		variant: cfg.Variant,
		caps:    caps,
		bus:     cfg.Bus,
		host:    host,
		vram:    make([]byte, cfg.VRAMSize),
		vramMax: uint32(cfg.VRAMSize),
		dirty:   make([]bool, (cfg.VRAMSize+CL_DIRTY_PAGE_SIZE-1)>>CL_DIRTY_PAGE_SHIFT),
		lfbBase: cfg.LFBBase & caps.LFBMask,
	}
	e.vramMask = e.vramMax - 1
	e.Reset()
	return e, nil
}

// Reset restores power-on register state. VRAM contents survive.
func (e *CirrusEngine) Reset() {
	e.miscOut = 0
	e.seqIndex, e.gcIndex, e.crtcIndex, e.attrIndex = 0, 0, 0, 0
	e.seqRegs = [CL_SEQ_REG_COUNT]uint8{}
	e.gcRegs = [CL_GC_REG_COUNT]uint8{}
	e.crtcRegs = [CL_CRTC_REG_COUNT]uint8{}
	e.attrRegs = [CL_ATTR_REG_COUNT]uint8{}
	e.attrFlip = false
	e.status1 = 0

	e.dacMask = 0xFF
	e.dacWriteIndex, e.dacReadIndex = 0, 0
	e.dacWritePhase, e.dacReadPhase = 0, 0
	e.dacStatus = 0
	e.palette = [256 * 3]uint8{}
	e.pallook = [256]uint32{}
	e.cursorPal = [2]uint32{}
	e.hiddenDAC = 0
	e.hiddenDACCount = 0

	e.writeMode = 0
	e.readMode = false
	e.chain4 = false
	e.chain2Write = true
	e.chain2Read = false
	e.readPlane = 0
	e.setResetDisabled = false
	e.packedChain4 = false
	e.dpms = false
	e.sr10Read, e.sr11Read = 0, 0
	e.vportSync = false

	e.latch = [8]uint8{}
	e.bank = [2]uint32{0, 0x8000}
	e.dispatch = dispatchNormal
	e.decodeMask = 0x7FFFFF
	if e.variant == VariantAVGA2 {
		e.decodeMask = e.vramMask
	}

	// Default VCLK values
	e.seqRegs[0x0B] = 0x66
	e.seqRegs[0x0C] = 0x5B
	e.seqRegs[0x0D] = 0x45
	e.seqRegs[0x0E] = 0x7E
	e.seqRegs[0x1B] = 0x3B
	e.seqRegs[0x1C] = 0x2F
	e.seqRegs[0x1D] = 0x30
	e.seqRegs[0x1E] = 0x33
	e.seqRegs[VGA_SEQ_MAPMASK] = 0x0F
	e.gcRegs[VGA_GC_BITMASK] = 0xFF

	e.blt = BlitState{heightInternal: 0xFFFF}
	e.cursor = CursorState{YSize: 32}
	e.overlay = OverlayState{colorKeyCompare: 0xFF, hZoom: 256, vZoom: 256}

	e.pciRegs = [CL_PCI_REG_COUNT]uint8{}
	e.mmioBase, e.gpioBase = 0, 0
	e.intLine = 0
	e.pciRegs[0x04] = CL_PCI_COMMAND_RESET
	e.pciRegs[0x32] = 0x0C
	e.posRegs = [8]uint8{CL_MCA_POS0, CL_MCA_POS1}
	e.mcaEnable = false
	e.vblankIRQ = vblankIRQIdle

	e.recalcTimings()
	e.recalcMapping()
}

// Variant reports the chip the engine was built as.
func (e *CirrusEngine) Variant() Variant {
	return e.variant
}

// Caps exposes the capability descriptor in use.
func (e *CirrusEngine) Caps() *VariantCaps {
	return e.caps
}

// Bus reports the host bus.
func (e *CirrusEngine) Bus() BusType {
	return e.bus
}

// VRAM exposes video memory for the refresh driver. Callers must not retain
// it across engine calls that could be made from another thread.
func (e *CirrusEngine) VRAM() []byte {
	return e.vram
}

// VRAMMask is the VRAM size minus one.
func (e *CirrusEngine) VRAMMask() uint32 {
	return e.vramMask
}

// Dirty reports whether the 4KB page holding addr was written since the last
// ClearDirty.
func (e *CirrusEngine) Dirty(addr uint32) bool {
	return e.dirty[(addr&e.vramMask)>>CL_DIRTY_PAGE_SHIFT]
}

// DirtyPages copies the dirty vector into dst and returns the number of dirty
// pages. dst may be nil.
func (e *CirrusEngine) DirtyPages(dst []bool) int {
	n := 0
	for i, d := range e.dirty {
		if i < len(dst) {
			dst[i] = d
		}
		if d {
			n++
		}
	}
	return n
}

// ClearDirty is called by the refresh driver after consuming the dirty pages.
func (e *CirrusEngine) ClearDirty() {
	for i := range e.dirty {
		e.dirty[i] = false
	}
}

func (e *CirrusEngine) markDirty(addr uint32) {
	e.dirty[(addr&e.vramMask)>>CL_DIRTY_PAGE_SHIFT] = true
}

// Palette returns the 256-entry lookup table in 0x00RRGGBB.
func (e *CirrusEngine) Palette() *[256]uint32 {
	return &e.pallook
}

// PaletteEntry returns the 6-bit DAC components of index.
func (e *CirrusEngine) PaletteEntry(index uint8) (r, g, b uint8) {
	i := int(index) * 3
	return e.palette[i], e.palette[i+1], e.palette[i+2]
}

// CursorPalette returns the two hardware cursor colours.
func (e *CirrusEngine) CursorPalette() [2]uint32 {
	return e.cursorPal
}

// HiddenDAC returns the hidden DAC mode register.
func (e *CirrusEngine) HiddenDAC() uint8 {
	return e.hiddenDAC
}

// DACMask returns the pixel mask register.
func (e *CirrusEngine) DACMask() uint8 {
	return e.dacMask
}

// DPMS reports whether GR0E has blanked the display.
func (e *CirrusEngine) DPMS() bool {
	return e.dpms
}

// Expand6BitTo8Bit converts a DAC component to 8 bits.
func Expand6BitTo8Bit(val uint8) uint8 {
	val &= 0x3F
	return (val << 2) | (val >> 4)
}
