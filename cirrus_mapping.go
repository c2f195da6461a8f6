// cirrus_mapping.go - Bank registers and memory window decode

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

import (
	"github.com/intuitionamiga/CirrusEngine/internal/logger"
)

// Window is one decoded range of host address space.
type Window struct {
	Enabled bool
	Base    uint32
	Size    uint32
}

// Contains reports whether addr falls inside an enabled window.
func (w Window) Contains(addr uint32) bool {
	return w.Enabled && addr >= w.Base && addr-w.Base < w.Size
}

// MappingState is the set of windows the card decodes. It is derived from
// register contents and recomputed whenever one of them changes.
type MappingState struct {
	Banked     Window
	BankedMask uint32 // offset mask inside the banked window
	Linear     Window
	MMIO       Window
	DecodeMask uint32 // VRAM-side address mask applied after transforms

	// VRAMOverlap is set when the banked window sits at B8000, where an
	// enabled MMIO window shadows its first 256 bytes.
	VRAMOverlap bool
}

// Mapping returns the current window set.
func (e *CirrusEngine) Mapping() MappingState {
	return e.mapping
}

// recalcBanking derives the two bank offsets from GR09/GR0A/GR0B.
func (e *CirrusEngine) recalcBanking() {
	ext := e.gcRegs[CL_GC_EXT_MODE]
	e.bank[0] = e.bankOffset(e.gcRegs[CL_GC_BANK0])
	if ext&CL_GR0B_DUAL_BANK != 0 {
		e.bank[1] = e.bankOffset(e.gcRegs[CL_GC_BANK1])
	} else {
		e.bank[1] = e.bank[0] + 0x8000
	}
	// The linear window base includes the GR09 offset.
	if e.seqRegs[CL_SEQ_EXT_MODE]&CL_SR07_LFB_MASK != 0 {
		e.recalcMapping()
	}
}

func (e *CirrusEngine) bankOffset(reg uint8) uint32 {
	if e.gcRegs[CL_GC_EXT_MODE]&CL_GR0B_BANK_16K != 0 {
		return uint32(reg) << 14
	}
	return uint32(reg) << 12
}

// recalcMapping recomputes the window set and tells the host.
func (e *CirrusEngine) recalcMapping() {
	old := e.mapping
	e.mapping = e.computeMapping()
	e.decodeMask = e.mapping.DecodeMask

	m := &e.mapping
	if m.Banked.Enabled && m.Linear.Enabled {
		invariant(false, "banked %08X+%X and linear %08X+%X both enabled",
			m.Banked.Base, m.Banked.Size, m.Linear.Base, m.Linear.Size)
		m.Banked.Enabled = false
	}

	if old != e.mapping {
		logger.Logf(logger.Allow, "cirrus", "mapping banked=%v@%05X linear=%v@%08X+%X mmio=%v",
			m.Banked.Enabled, m.Banked.Base, m.Linear.Enabled, m.Linear.Base, m.Linear.Size, m.MMIO.Enabled)
	}
	if e.host != nil {
		e.host.RemapWindows(e.mapping)
	}
}

func (e *CirrusEngine) computeMapping() MappingState {
	m := MappingState{DecodeMask: e.decodeMask}

	if e.bus == BusPCI && e.caps.PCIMemGate && e.pciRegs[0x04]&CL_PCI_COMMAND_MEM == 0 {
		return m
	}
	if e.bus == BusMCA && (e.posRegs[2]&1 == 0 || !e.mcaEnable) {
		return m
	}

	mmio := e.caps.MMIOWindow && e.seqRegs[CL_SEQ_CONFIG]&CL_SR17_MMIO_ENABLE != 0
	if mmio {
		m.MMIO = Window{Enabled: true, Base: CL_MMIO_BASE, Size: CL_MMIO_SIZE}
	}

	if e.seqRegs[CL_SEQ_EXT_MODE]&CL_SR07_LFB_MASK == 0 {
		switch e.gcRegs[VGA_GC_MISC] & VGA_GC_MISC_MAP_MASK {
		case 0x0, 0x4:
			m.Banked = Window{Enabled: true, Base: VGA_WINDOW_A0000, Size: 0x10000}
			m.BankedMask = 0xFFFF
		case 0x8:
			m.Banked = Window{Enabled: true, Base: VGA_WINDOW_B0000, Size: 0x8000}
			m.BankedMask = 0x7FFF
		case 0xC:
			m.Banked = Window{Enabled: true, Base: VGA_WINDOW_B8000, Size: 0x8000}
			m.BankedMask = 0x7FFF
			m.VRAMOverlap = true
		}
		return m
	}

	offset := e.bankOffset(e.gcRegs[CL_GC_BANK0])
	var base, size, max uint32
	switch {
	case e.caps.LinearFromSR07 || (e.bus != BusPCI && e.bus != BusVLB):
		base = uint32(e.seqRegs[CL_SEQ_EXT_MODE]&CL_SR07_LFB_MASK) << 16
		size = 2 << 20
		if e.gcRegs[CL_GC_EXT_MODE]&CL_GR0B_BANK_16K != 0 {
			size = 1 << 20
		}
		max = 2 << 20
	case e.bus == BusPCI:
		base = e.lfbBase
		size = 4 << 20
		max = 4 << 20
	default:
		base = CL_VLB_LFB_BASE
		size = 4 << 20
		max = 4 << 20
	}
	if e.seqRegs[CL_SEQ_DRAM_CTRL]&CL_SR0F_FULL_DECODE != 0 {
		m.DecodeMask = max - 1
	} else {
		m.DecodeMask = max/2 - 1
	}
	m.Linear = Window{Enabled: true, Base: base + offset, Size: size}
	return m
}
