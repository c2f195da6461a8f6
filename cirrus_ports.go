// cirrus_ports.go - VGA and Cirrus extended register I/O ports

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

// resolvePort applies mono/colour address selection: with misc output bit 0
// clear the CRTC and status ports answer at 0x3Bx instead of 0x3Dx.
func (e *CirrusEngine) resolvePort(port uint16) uint16 {
	if ((port&0xFFF0) == 0x3D0 || (port&0xFFF0) == 0x3B0) && e.miscOut&1 == 0 {
		port ^= VGA_PORT_MONO_REMAP
	}
	return port
}

// portDecoded reports whether the card currently answers on port.
func (e *CirrusEngine) portDecoded(port uint16) bool {
	switch e.bus {
	case BusPCI:
		if e.caps.PCIMemGate && e.pciRegs[0x04]&CL_PCI_COMMAND_IO == 0 {
			return false
		}
	case BusMCA:
		if e.posRegs[2]&1 == 0 {
			return false
		}
		if port != VGA_PORT_MCA_ENABLE && !e.mcaEnable {
			return false
		}
	}
	return true
}

// PortWrite handles an OUT to 0x3B0-0x3DF.
func (e *CirrusEngine) PortWrite(port uint16, value uint8) {
	if !e.portDecoded(port) {
		return
	}
	port = e.resolvePort(port)

	switch port {
	case VGA_PORT_ATTR_INDEX:
		e.writeAttribute(value)
	case VGA_PORT_MISC_WRITE:
		e.miscOut = value
		e.recalcTimings()
	case VGA_PORT_MCA_ENABLE:
		if e.bus == BusMCA {
			e.mcaEnable = value&1 != 0
			e.recalcMapping()
		}

	case VGA_PORT_SEQ_INDEX:
		e.seqIndex = value
	case VGA_PORT_SEQ_DATA:
		e.writeSequencer(value)

	case VGA_PORT_DAC_MASK:
		if e.hiddenDACCount == 4 {
			e.hiddenDACCount = 0
			e.hiddenDAC = value
			logger.Logf(logger.Allow, "dac", "hidden DAC = %02X", value)
			e.recalcTimings()
			return
		}
		e.hiddenDACCount = 0
		e.dacMask = value
	case VGA_PORT_DAC_RINDEX:
		e.hiddenDACCount = 0
		e.dacReadIndex = value
		e.dacReadPhase = 0
		e.dacStatus = 3
	case VGA_PORT_DAC_WINDEX:
		e.hiddenDACCount = 0
		e.dacWriteIndex = value
		e.dacReadIndex = value - 1
		e.dacWritePhase = 0
		e.dacStatus = 0
	case VGA_PORT_DAC_DATA:
		e.hiddenDACCount = 0
		e.writeDACDataPort(value)

	case VGA_PORT_GC_INDEX:
		e.gcIndex = value
	case VGA_PORT_GC_DATA:
		e.writeGraphics(value)

	case VGA_PORT_CRTC_INDEX:
		e.crtcIndex = value & e.caps.crtcIndexMask()
	case VGA_PORT_CRTC_DATA:
		e.writeCRTC(value)
	}
}

// PortRead handles an IN from 0x3B0-0x3DF. Undecoded ports float high.
func (e *CirrusEngine) PortRead(port uint16) uint8 {
	if !e.portDecoded(port) {
		return 0xFF
	}
	port = e.resolvePort(port)

	switch port {
	case VGA_PORT_ATTR_INDEX:
		return e.attrIndex
	case VGA_PORT_ATTR_READ:
		return e.attrRegs[e.attrIndex&0x1F]
	case VGA_PORT_MISC_WRITE:
		if e.vblankIRQ > 0 {
			return 0x80
		}
		return 0x00
	case VGA_PORT_MCA_ENABLE:
		if e.bus == BusMCA {
			if e.mcaEnable {
				return 1
			}
			return 0
		}
		return 0xFF

	case VGA_PORT_SEQ_INDEX:
		idx := e.seqIndex & 0x1F
		switch idx {
		case CL_SEQ_CURSOR_X:
			return idx | e.sr10Read
		case CL_SEQ_CURSOR_Y:
			return idx | e.sr11Read
		}
		return idx
	case VGA_PORT_SEQ_DATA:
		return e.readSequencer()

	case VGA_PORT_DAC_MASK:
		if e.hiddenDACCount == 4 {
			e.hiddenDACCount = 0
			return e.hiddenDAC
		}
		e.hiddenDACCount++
		return e.dacMask
	case VGA_PORT_DAC_RINDEX:
		e.hiddenDACCount = 0
		return e.dacStatus
	case VGA_PORT_DAC_WINDEX:
		e.hiddenDACCount = 0
		return e.dacWriteIndex
	case VGA_PORT_DAC_DATA:
		e.hiddenDACCount = 0
		return e.readDACData()

	case VGA_PORT_FEATURE_READ:
		return 0
	case VGA_PORT_MISC_READ:
		return e.miscOut

	case VGA_PORT_GC_INDEX:
		return e.gcIndex
	case VGA_PORT_GC_DATA:
		idx := e.gcIndex & 0x3F
		if idx == CL_GC_BLT_STATUS {
			return e.blt.status
		}
		return e.gcRegs[idx]

	case VGA_PORT_CRTC_INDEX:
		return e.crtcIndex
	case VGA_PORT_CRTC_DATA:
		return e.readCRTC()

	case VGA_PORT_STATUS1:
		e.attrFlip = false
		e.status1 ^= 0x09
		return e.status1
	}
	return 0xFF
}

// ===== Sequencer =====

func (e *CirrusEngine) writeSequencer(value uint8) {
	idx := e.seqIndex & 0x1F
	if idx <= VGA_SEQ_MEMMODE+1 {
		e.seqRegs[idx] = value
		switch idx {
		case VGA_SEQ_CLKMODE:
			e.recalcTimings()
		case VGA_SEQ_MEMMODE:
			e.chain4 = value&VGA_SEQ_MEMMODE_CHAIN4 != 0
			e.chain2Write = value&VGA_SEQ_MEMMODE_OE == 0
		}
		return
	}

	e.seqRegs[idx] = value
	fine := uint16(e.seqIndex>>5) & 7
	switch idx {
	case CL_SEQ_CURSOR_X:
		e.cursor.X = int(uint16(value)<<3 | fine)
		e.sr10Read = e.seqIndex & 0xE0
	case CL_SEQ_CURSOR_Y:
		e.cursor.Y = int(uint16(value)<<3 | fine)
		e.sr11Read = e.seqIndex & 0xE0
	case CL_SEQ_CURSOR_ATTR:
		e.cursor.Enabled = value&CL_SR12_CURSOR_ENABLE != 0
		e.cursor.YSize = 32
		if value&CL_SR12_CURSOR_64 != 0 {
			e.cursor.YSize = 64
		}
		e.cursor.YOff = 0
		e.updateCursorAddr()
	case CL_SEQ_CURSOR_ADDR:
		e.updateCursorAddr()
	case CL_SEQ_EXT_MODE:
		if e.caps.SetResetDisable {
			e.setResetDisabled = value&1 != 0
		}
		e.packedChain4 = value&CL_SR07_PACKED_CHAIN4 != 0
		e.recalcTimings()
		// The linear window base lives in SR07 bits 4-7.
		e.recalcMapping()
	case CL_SEQ_DRAM_CTRL, CL_SEQ_CONFIG:
		e.recalcMapping()
	}
}

func (e *CirrusEngine) readSequencer() uint8 {
	idx := e.seqIndex & 0x1F
	if idx <= VGA_SEQ_MEMMODE+1 {
		return e.seqRegs[idx]
	}
	switch idx {
	case CL_SEQ_UNLOCK:
		if e.seqRegs[CL_SEQ_UNLOCK]&0x17 == CL_SEQ_UNLOCK_KEY {
			return CL_SEQ_UNLOCK_KEY
		}
		return 0x0F
	case CL_SEQ_CONFIG:
		if !e.caps.ExtendedRegs {
			break
		}
		v := e.seqRegs[CL_SEQ_CONFIG] &^ CL_SR17_BUSID_MASK
		return v | e.caps.BusIDs[e.bus]<<CL_SR17_BUSID_SHIFT
	}
	return e.seqRegs[idx]
}

// ===== Graphics controller =====

func (e *CirrusEngine) updateWriteMode() {
	if e.gcRegs[CL_GC_EXT_MODE]&CL_GR0B_WRITEMODE_EXT != 0 {
		e.writeMode = e.gcRegs[VGA_GC_MODE] & 7
	} else {
		e.writeMode = e.gcRegs[VGA_GC_MODE] & 3
	}
}

// gcMMIOMirror maps extended GR indices onto the blitter MMIO offsets.
var gcMMIOMirror = map[uint8]uint32{
	0x10: 0x01, 0x11: 0x05, 0x12: 0x02, 0x13: 0x06, 0x14: 0x03, 0x15: 0x07,
	0x20: 0x08, 0x21: 0x09, 0x22: 0x0A, 0x23: 0x0B, 0x24: 0x0C, 0x25: 0x0D, 0x26: 0x0E, 0x27: 0x0F,
	0x28: 0x10, 0x29: 0x11, 0x2A: 0x12,
	0x2C: 0x14, 0x2D: 0x15, 0x2E: 0x16,
	0x2F: 0x17, 0x30: 0x18, 0x31: 0x40, 0x32: 0x1A, 0x33: 0x1B,
}

func (e *CirrusEngine) writeGraphics(value uint8) {
	idx := e.gcIndex & 0x3F

	switch idx {
	case VGA_GC_SET_RESET:
		e.mmioWrite(CL_MMIO_BG_COLOR, value)
	case VGA_GC_ENABLE_SR:
		e.mmioWrite(CL_MMIO_FG_COLOR, value)
	case VGA_GC_MODE:
		e.gcRegs[VGA_GC_MODE] = value
		e.updateWriteMode()
		e.readMode = value&VGA_GC_MODE_READ_MODE != 0
		e.chain2Read = value&VGA_GC_MODE_CHAIN2 != 0
		return
	case VGA_GC_MISC:
		old := e.gcRegs[VGA_GC_MISC]
		e.gcRegs[VGA_GC_MISC] = value
		if old&VGA_GC_MISC_MAP_MASK != value&VGA_GC_MISC_MAP_MASK {
			e.recalcMapping()
		}
		return
	}

	if idx <= VGA_GC_BITMASK {
		e.gcRegs[idx] = value
		if idx == VGA_GC_READ_MAP {
			e.readPlane = value & 3
		}
		return
	}

	e.gcRegs[idx] = value
	if !e.caps.ExtendedRegs && idx > CL_GC_EXT_MODE {
		return
	}
	switch idx {
	case CL_GC_BANK0, CL_GC_BANK1, CL_GC_EXT_MODE:
		e.recalcBanking()
		e.updateWriteMode()
	case CL_GC_CKEY_CMP:
		e.overlay.colorKeyCompare = value
		e.updateOverlay()
	case CL_GC_CKEY_MASK:
		e.overlay.colorKeyMask = value
		e.updateOverlay()
	case CL_GC_POWER:
		sel := value & 0x06
		e.dpms = sel != 0 && e.miscOut&(sel<<5) != 0xC0
		e.recalcTimings()
	case CL_GC_TRANS_COL, CL_GC_TRANS_COL + 1, CL_GC_TRANS_MASK, CL_GC_TRANS_MASK + 1:
		if !e.caps.TransparentColour {
			return
		}
		shift := 8 * uint(idx&1)
		if idx < CL_GC_TRANS_MASK {
			e.blt.transCol = e.blt.transCol&^(0xFF<<shift) | uint16(value)<<shift
		} else {
			e.blt.transMask = e.blt.transMask&^(0xFF<<shift) | uint16(value)<<shift
		}
	default:
		if off, ok := gcMMIOMirror[idx]; ok {
			e.mmioWrite(off, value)
		}
	}
}

// ===== CRTC =====

func (e *CirrusEngine) writeCRTC(value uint8) {
	idx := e.crtcIndex
	protected := e.crtcRegs[VGA_CRTC_VRETRACE_END]&VGA_CRTC_VRE_PROTECT != 0
	if idx < VGA_CRTC_OVERFLOW && protected {
		return
	}
	if idx == VGA_CRTC_OVERFLOW && protected {
		value = e.crtcRegs[VGA_CRTC_OVERFLOW]&^0x10 | value&0x10
	}
	old := e.crtcRegs[idx]
	e.crtcRegs[idx] = value

	if idx == VGA_CRTC_VRETRACE_END {
		if value&VGA_CRTC_VRE_IRQ_CLEAR == 0 {
			if e.vblankIRQ > vblankIRQIdle {
				e.vblankIRQ = vblankIRQCleared
			}
		} else if e.vblankIRQ < vblankIRQIdle {
			e.vblankIRQ = vblankIRQIdle
		}
		e.updateIRQ()
		// Toggling only the IRQ bits does not move the display.
		if value&^0x30 == old&^0x30 {
			old = value
		}
	}

	e.writeOverlayCRTC(idx, old, value)

	if (idx < VGA_CRTC_CURSOR_HI || idx > VGA_CRTC_VRETRACE_ST) && old != value {
		e.recalcTimings()
	}
}

func (e *CirrusEngine) readCRTC() uint8 {
	idx := e.crtcIndex
	switch idx {
	case CL_CRTC_CHIP_ID:
		if e.caps.ChipID != 0 {
			return e.caps.ChipID
		}
	case CL_CRTC_CLASS_ID:
		if e.caps.ClassIDFF {
			return 0xFF
		}
	case CL_CRTC_VPORT_SYNC:
		if e.caps.VideoPortSync {
			e.vportSync = !e.vportSync
		}
		if e.vportSync {
			return 0x80
		}
		return 0x00
	}
	return e.crtcRegs[idx]
}

// ===== Attribute controller =====

func (e *CirrusEngine) writeAttribute(value uint8) {
	if !e.attrFlip {
		e.attrIndex = value & 0x3F
		e.attrFlip = true
		return
	}
	e.attrFlip = false
	idx := e.attrIndex & 0x1F
	old := e.attrRegs[idx]
	e.attrRegs[idx] = value
	if (idx == VGA_ATTR_MODE_CTRL || idx == VGA_ATTR_HPAN) && old != value {
		e.recalcTimings()
	}
}

// ===== DAC =====

// writeDACDataPort stores one DAC component. With SR12 bit 1 set, completing
// entry 0 or 15 of a group loads the cursor palette and leaves palette RAM as
// it was.
func (e *CirrusEngine) writeDACDataPort(value uint8) {
	if e.dacWritePhase != 2 || e.seqRegs[CL_SEQ_CURSOR_ATTR]&CL_SR12_CURSOR_PAL == 0 {
		e.writeDACData(value)
		return
	}

	idx := e.dacWriteIndex
	savedLook := e.pallook[idx]
	var savedPal [3]uint8
	copy(savedPal[:], e.palette[int(idx)*3:int(idx)*3+3])

	e.writeDACData(value)

	switch idx & 15 {
	case 0:
		e.cursorPal[0] = e.pallook[idx]
	case 15:
		e.cursorPal[1] = e.pallook[idx]
	}
	e.pallook[idx] = savedLook
	copy(e.palette[int(idx)*3:int(idx)*3+3], savedPal[:])
}

func (e *CirrusEngine) writeDACData(value uint8) {
	e.dacRGB[e.dacWritePhase] = value & 0x3F
	e.dacWritePhase++
	if e.dacWritePhase < 3 {
		return
	}
	idx := int(e.dacWriteIndex)
	e.palette[idx*3+0] = e.dacRGB[0]
	e.palette[idx*3+1] = e.dacRGB[1]
	e.palette[idx*3+2] = e.dacRGB[2]
	e.pallook[idx] = uint32(Expand6BitTo8Bit(e.dacRGB[0]))<<16 |
		uint32(Expand6BitTo8Bit(e.dacRGB[1]))<<8 |
		uint32(Expand6BitTo8Bit(e.dacRGB[2]))
	e.dacWritePhase = 0
	e.dacWriteIndex++
}

func (e *CirrusEngine) readDACData() uint8 {
	value := e.palette[int(e.dacReadIndex)*3+int(e.dacReadPhase)]
	e.dacReadPhase++
	if e.dacReadPhase >= 3 {
		e.dacReadPhase = 0
		e.dacReadIndex++
	}
	return value
}
