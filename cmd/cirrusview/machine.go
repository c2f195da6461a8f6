// machine.go - Card, host bus and port decode wired into one machine

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
The machine owns one card and the host bus it is plugged into. All card state
is guarded by the machine lock. Memory accesses go through the bus first and
take the lock inside the region callback, because a card access can move the
card's own windows and the bus must be free to remap them.

Port decode:

	0x3B0-0x3DF   VGA and Cirrus registers
	0x100-0x107   MCA POS registers (MCA only)
	0xCF8/0xCFC   PCI configuration mechanism #1 (PCI only)
*/

package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	cirrus "github.com/intuitionamiga/CirrusEngine"
	"github.com/intuitionamiga/CirrusEngine/internal/logger"
)

const (
	PCI_CONFIG_ADDRESS = 0xCF8
	PCI_CONFIG_DATA    = 0xCFC
	PCI_CONFIG_ENABLE  = 0x80000000
	PCI_CARD_DEVICE    = 3

	MCA_POS_FIRST = 0x100
	MCA_POS_LAST  = 0x107

	regionVRAM = "card.vram"
	regionMMIO = "card.mmio"
	regionROM  = "card.rom"
)

// Machine is a card on a host bus.
type Machine struct {
	mu   sync.Mutex
	card *cirrus.CirrusEngine
	bus  *hostBus
	rom  []byte

	pciAddr  uint32
	mapping  cirrus.MappingState
	romWin   cirrus.Window
	remaps   atomic.Uint64
	irq      atomic.Bool
	irqEdges atomic.Uint64
}

// NewMachine builds a card from cfg and plugs it in. rom may be nil, in
// which case a blank option ROM image is used.
func NewMachine(cfg cirrus.Config, rom []byte) (*Machine, error) {
	m := &Machine{bus: newHostBus(), rom: rom}
	if m.rom == nil {
		m.rom = blankOptionROM()
	}
	card, err := cirrus.NewCirrusEngine(cfg, m)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.card = card
	m.mapping = card.Mapping()
	m.mapWindowsLocked()
	m.updateROMLocked()
	m.mu.Unlock()
	logger.Logf(logger.Allow, "machine", "%s %dKB on %s", cfg.Variant, cfg.VRAMSize>>10, cfg.Bus)
	return m, nil
}

// blankOptionROM is a 32KB image with only the option ROM signature.
func blankOptionROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0], rom[1], rom[2] = 0x55, 0xAA, 0x40
	return rom
}

// RemapWindows is called by the card with the machine lock held.
func (m *Machine) RemapWindows(ms cirrus.MappingState) {
	m.mapping = ms
	m.remaps.Add(1)
	if m.card == nil {
		return
	}
	m.mapWindowsLocked()
}

// SetIRQ is called by the card with the machine lock held.
func (m *Machine) SetIRQ(asserted bool) {
	if m.irq.Swap(asserted) != asserted {
		if asserted {
			m.irqEdges.Add(1)
		}
		logger.Logf(logger.Allow, "machine", "irq %v", asserted)
	}
}

func (m *Machine) mapWindowsLocked() {
	m.bus.Unmap(regionVRAM)
	m.bus.Unmap(regionMMIO)

	ms := m.mapping
	if ms.MMIO.Enabled {
		m.mapCardWindow(regionMMIO, ms.MMIO)
	}
	if ms.Banked.Enabled {
		m.mapCardWindow(regionVRAM, ms.Banked)
	}
	if ms.Linear.Enabled {
		m.mapCardWindow(regionVRAM, ms.Linear)
	}
}

func (m *Machine) mapCardWindow(name string, w cirrus.Window) {
	m.bus.MapIO(name, w.Base, w.Base+w.Size-1, m.cardRead, m.cardWrite)
}

func (m *Machine) cardRead(addr uint32, size int) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch size {
	case 1:
		return uint32(m.card.MemReadByte(addr))
	case 2:
		return uint32(m.card.MemReadWord(addr))
	}
	return m.card.MemReadDWord(addr)
}

func (m *Machine) cardWrite(addr uint32, size int, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch size {
	case 1:
		m.card.MemWriteByte(addr, uint8(value))
	case 2:
		m.card.MemWriteWord(addr, uint16(value))
	default:
		m.card.MemWriteDWord(addr, value)
	}
}

// updateROMLocked follows the expansion ROM BAR, which moves through config
// space writes rather than the window host.
func (m *Machine) updateROMLocked() {
	w := m.card.ROMWindow()
	if w == m.romWin {
		return
	}
	m.romWin = w
	m.bus.Unmap(regionROM)
	if !w.Enabled {
		return
	}
	m.bus.MapIO(regionROM, w.Base, w.Base+w.Size-1, func(addr uint32, size int) uint32 {
		var v uint32
		for i := 0; i < size; i++ {
			off := int(addr-w.Base) + i
			b := uint32(0xFF)
			if off < len(m.rom) {
				b = uint32(m.rom[off])
			}
			v |= b << (8 * i)
		}
		return v
	}, nil)
	logger.Logf(logger.Allow, "machine", "option rom at %08x", w.Base)
}

// ===== Memory =====

func (m *Machine) Read8(addr uint32) uint8            { return m.bus.Read8(addr) }
func (m *Machine) Read16(addr uint32) uint16          { return m.bus.Read16(addr) }
func (m *Machine) Read32(addr uint32) uint32          { return m.bus.Read32(addr) }
func (m *Machine) Write8(addr uint32, v uint8)        { m.bus.Write8(addr, v) }
func (m *Machine) Write16(addr uint32, v uint16)      { m.bus.Write16(addr, v) }
func (m *Machine) Write32(addr uint32, v uint32)      { m.bus.Write32(addr, v) }
func (m *Machine) Regions() []ioRegion                { return m.bus.Regions() }
func (m *Machine) Mapping() cirrus.MappingState       { m.mu.Lock(); defer m.mu.Unlock(); return m.mapping }
func (m *Machine) IRQ() (asserted bool, edges uint64) { return m.irq.Load(), m.irqEdges.Load() }

// ===== Ports =====

// Out8 writes one byte to an I/O port.
func (m *Machine) Out8(port uint16, value uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case port >= 0x3B0 && port <= 0x3DF:
		m.card.PortWrite(port, value)
	case port >= MCA_POS_FIRST && port <= MCA_POS_LAST && m.card.Bus() == cirrus.BusMCA:
		m.card.MCAPOSWrite(port, value)
	case port >= PCI_CONFIG_DATA && port <= PCI_CONFIG_DATA+3:
		if off, ok := m.pciOffsetLocked(port); ok {
			m.card.PCIConfigWrite(off, value)
			m.updateROMLocked()
		}
	}
}

// In8 reads one byte from an I/O port. Undecoded ports float high.
func (m *Machine) In8(port uint16) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case port >= 0x3B0 && port <= 0x3DF:
		return m.card.PortRead(port)
	case port >= MCA_POS_FIRST && port <= MCA_POS_LAST && m.card.Bus() == cirrus.BusMCA:
		return m.card.MCAPOSRead(port)
	case port >= PCI_CONFIG_DATA && port <= PCI_CONFIG_DATA+3:
		if off, ok := m.pciOffsetLocked(port); ok {
			return m.card.PCIConfigRead(off)
		}
	}
	return 0xFF
}

// Out16 writes the low byte to port and the high byte to port+1, the way
// VGA index/data pairs are loaded.
func (m *Machine) Out16(port uint16, value uint16) {
	m.Out8(port, uint8(value))
	m.Out8(port+1, uint8(value>>8))
}

// Out32 handles the PCI configuration address and data dwords.
func (m *Machine) Out32(port uint16, value uint32) {
	if port == PCI_CONFIG_ADDRESS {
		m.mu.Lock()
		m.pciAddr = value
		m.mu.Unlock()
		return
	}
	for i := uint16(0); i < 4; i++ {
		m.Out8(port+i, uint8(value>>(8*i)))
	}
}

// In32 is the dword counterpart of Out32.
func (m *Machine) In32(port uint16) uint32 {
	if port == PCI_CONFIG_ADDRESS {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.pciAddr
	}
	var v uint32
	for i := uint16(0); i < 4; i++ {
		v |= uint32(m.In8(port+i)) << (8 * i)
	}
	return v
}

// pciOffsetLocked decodes the latched configuration address for a data
// port access. Only function 0 of the card's device on bus 0 answers.
func (m *Machine) pciOffsetLocked(port uint16) (uint8, bool) {
	if m.card.Bus() != cirrus.BusPCI || m.pciAddr&PCI_CONFIG_ENABLE == 0 {
		return 0, false
	}
	bus := (m.pciAddr >> 16) & 0xFF
	dev := (m.pciAddr >> 11) & 0x1F
	fn := (m.pciAddr >> 8) & 7
	if bus != 0 || dev != PCI_CARD_DEVICE || fn != 0 {
		return 0, false
	}
	return uint8(m.pciAddr&0xFC) | uint8(port&3), true
}

// PCIConfigAddress builds a mechanism #1 address for the card.
func PCIConfigAddress(offset uint8) uint32 {
	return PCI_CONFIG_ENABLE | PCI_CARD_DEVICE<<11 | uint32(offset&0xFC)
}

// ===== Card access =====

// Do runs fn with the machine lock held.
func (m *Machine) Do(fn func(card *cirrus.CirrusEngine)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.card)
}

// Reset pulls the card's reset line.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.card.Reset()
	if m.card.Bus() == cirrus.BusMCA {
		m.card.MCAReset()
	}
	m.updateROMLocked()
	logger.Log(logger.Allow, "machine", "reset")
}

// Describe is a one line summary for status displays.
func (m *Machine) Describe() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.card.Timings()
	return fmt.Sprintf("%s %dx%d %s", m.card.Variant(), t.HDisp, t.DispEnd, t.Render)
}

// Variant is the chip the card was built as.
func (m *Machine) Variant() cirrus.Variant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.card.Variant()
}
