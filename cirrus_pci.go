// cirrus_pci.go - PCI configuration space and MCA POS registers

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

// PCIConfigRead returns one byte of configuration space.
func (e *CirrusEngine) PCIConfigRead(offset uint8) uint8 {
	switch offset {
	case 0x00:
		return CL_PCI_VENDOR_LO
	case 0x01:
		return CL_PCI_VENDOR_HI
	case 0x02:
		return e.caps.PCIDeviceID
	case 0x03:
		return 0x00
	case 0x04:
		return e.pciRegs[0x04]
	case 0x07:
		return 0x00 // fast DEVSEL
	case 0x08, 0x09:
		return 0x00
	case 0x0A:
		return 0x00 // VGA compatible
	case 0x0B:
		return 0x03 // display controller
	case 0x10:
		return 0x08 // prefetchable memory BAR
	case 0x11, 0x12:
		return 0x00
	case 0x13:
		return uint8(e.lfbBase >> 24)
	case 0x14, 0x15, 0x16, 0x17:
		return uint8(e.mmioBase >> (8 * (offset - 0x14)))
	case 0x18, 0x19, 0x1A, 0x1B:
		return uint8(e.gpioBase >> (8 * (offset - 0x18)))
	case 0x30:
		return e.pciRegs[0x30] & CL_PCI_ROM_BAR_ENABLE
	case 0x31:
		return 0x00
	case 0x32, 0x33:
		return e.pciRegs[offset]
	case 0x3C:
		return e.intLine
	case 0x3D:
		return 0x01 // INTA
	}
	return 0x00
}

// PCIConfigWrite updates configuration space. Command and BAR writes move
// the memory windows.
func (e *CirrusEngine) PCIConfigWrite(offset uint8, value uint8) {
	switch offset {
	case 0x04:
		e.pciRegs[0x04] = value & CL_PCI_COMMAND_MASK
		e.recalcMapping()
	case 0x13:
		e.lfbBase = uint32(value) << 24 & e.caps.LFBMask
		e.recalcMapping()
	case 0x30, 0x32, 0x33:
		e.pciRegs[offset] = value
	case 0x3C:
		e.intLine = value
	}
}

// ROMWindow reports where the expansion ROM BAR currently decodes. The ROM
// contents are the host's business.
func (e *CirrusEngine) ROMWindow() Window {
	if e.pciRegs[0x30]&CL_PCI_ROM_BAR_ENABLE == 0 {
		return Window{}
	}
	base := uint32(e.pciRegs[0x32])<<16 | uint32(e.pciRegs[0x33])<<24
	return Window{Enabled: true, Base: base, Size: 0x8000}
}

// InterruptLine is the value firmware stored at config offset 0x3C.
func (e *CirrusEngine) InterruptLine() uint8 {
	return e.intLine
}

// MCAPOSRead returns a POS register; port is 0x100-0x107.
func (e *CirrusEngine) MCAPOSRead(port uint16) uint8 {
	return e.posRegs[port&7]
}

// MCAPOSWrite stores a POS register. POS 0 and 1 are the read-only card id.
func (e *CirrusEngine) MCAPOSWrite(port uint16, value uint8) {
	if port&7 < 2 {
		return
	}
	e.posRegs[port&7] = value
	e.recalcMapping()
}

// MCAReset disables the card the way the channel reset line does.
func (e *CirrusEngine) MCAReset() {
	e.mcaEnable = false
	e.MCAPOSWrite(0x102, 0)
}
