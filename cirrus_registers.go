// cirrus_registers.go - Indexed register bank access

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

import "fmt"

// RegisterBank selects one of the index/data register files.
type RegisterBank int

const (
	BankSequencer RegisterBank = iota
	BankGraphics
	BankCRTC
	BankAttribute
)

var bankNames = [...]string{"seq", "gc", "crtc", "attr"}

func (b RegisterBank) String() string {
	if b < 0 || int(b) >= len(bankNames) {
		return fmt.Sprintf("bank(%d)", int(b))
	}
	return bankNames[b]
}

// BankSize is the number of indices a bank decodes.
func (b RegisterBank) BankSize() int {
	switch b {
	case BankSequencer:
		return CL_SEQ_REG_COUNT
	case BankGraphics:
		return CL_GC_REG_COUNT
	case BankCRTC:
		return CL_CRTC_REG_COUNT
	case BankAttribute:
		return CL_ATTR_REG_COUNT
	}
	return 0
}

func (e *CirrusEngine) crtcPorts() (uint16, uint16) {
	if e.miscOut&1 != 0 {
		return VGA_PORT_CRTC_INDEX, VGA_PORT_CRTC_DATA
	}
	return VGA_PORT_CRTC_INDEX_MONO, VGA_PORT_CRTC_DATA_MONO
}

// WriteRegister selects index in bank and writes value through the port
// path, so variant gating and side effects match a guest OUT pair. The bank's
// index register is left pointing at index.
func (e *CirrusEngine) WriteRegister(bank RegisterBank, index, value uint8) {
	switch bank {
	case BankSequencer:
		e.PortWrite(VGA_PORT_SEQ_INDEX, index)
		e.PortWrite(VGA_PORT_SEQ_DATA, value)
	case BankGraphics:
		e.PortWrite(VGA_PORT_GC_INDEX, index)
		e.PortWrite(VGA_PORT_GC_DATA, value)
	case BankCRTC:
		ip, dp := e.crtcPorts()
		e.PortWrite(ip, index)
		e.PortWrite(dp, value)
	case BankAttribute:
		e.attrFlip = false
		e.PortWrite(VGA_PORT_ATTR_INDEX, index|0x20)
		e.PortWrite(VGA_PORT_ATTR_INDEX, value)
	}
}

// ReadRegister selects index in bank and reads the data port.
func (e *CirrusEngine) ReadRegister(bank RegisterBank, index uint8) uint8 {
	switch bank {
	case BankSequencer:
		e.PortWrite(VGA_PORT_SEQ_INDEX, index)
		return e.PortRead(VGA_PORT_SEQ_DATA)
	case BankGraphics:
		e.PortWrite(VGA_PORT_GC_INDEX, index)
		return e.PortRead(VGA_PORT_GC_DATA)
	case BankCRTC:
		ip, dp := e.crtcPorts()
		e.PortWrite(ip, index)
		return e.PortRead(dp)
	case BankAttribute:
		e.attrFlip = false
		e.PortWrite(VGA_PORT_ATTR_INDEX, index|0x20)
		e.attrFlip = false
		return e.PortRead(VGA_PORT_ATTR_READ)
	}
	return 0xFF
}

// RegisterSnapshot is a raw copy of every bank, for monitors and tests.
type RegisterSnapshot struct {
	Misc      uint8
	Sequencer [CL_SEQ_REG_COUNT]uint8
	Graphics  [CL_GC_REG_COUNT]uint8
	CRTC      [CL_CRTC_REG_COUNT]uint8
	Attribute [CL_ATTR_REG_COUNT]uint8
	HiddenDAC uint8
}

// Snapshot copies the register banks without side effects.
func (e *CirrusEngine) Snapshot() RegisterSnapshot {
	return RegisterSnapshot{
		Misc:      e.miscOut,
		Sequencer: e.seqRegs,
		Graphics:  e.gcRegs,
		CRTC:      e.crtcRegs,
		Attribute: e.attrRegs,
		HiddenDAC: e.hiddenDAC,
	}
}
