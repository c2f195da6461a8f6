// cirrus_mmio.go - Blitter register window (B8000, 256 bytes)

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

// setByte replaces byte n of v.
func setByte32(v uint32, n uint, b uint8) uint32 {
	return v&^(0xFF<<(8*n)) | uint32(b)<<(8*n)
}

func setByte16(v uint16, n uint, b uint8) uint16 {
	return v&^(0xFF<<(8*n)) | uint16(b)<<(8*n)
}

// mmioWrite stores one blitter register byte. GR mirrors land here too.
func (e *CirrusEngine) mmioWrite(off uint32, value uint8) {
	b := &e.blt
	wide := e.caps.TrueColour

	switch off {
	case CL_MMIO_BG_COLOR, CL_MMIO_BG_COLOR + 1, CL_MMIO_BG_COLOR + 2, CL_MMIO_BG_COLOR + 3:
		b.bgCol = e.setColourByte(b.bgCol, off-CL_MMIO_BG_COLOR, value, wide)
	case CL_MMIO_FG_COLOR, CL_MMIO_FG_COLOR + 1, CL_MMIO_FG_COLOR + 2, CL_MMIO_FG_COLOR + 3:
		b.fgCol = e.setColourByte(b.fgCol, off-CL_MMIO_FG_COLOR, value, wide)

	case CL_MMIO_WIDTH:
		b.width = setByte16(b.width, 0, value)
	case CL_MMIO_WIDTH + 1:
		b.width = setByte16(b.width, 1, value) & e.caps.blitWidthMask()
	case CL_MMIO_HEIGHT:
		b.height = setByte16(b.height, 0, value)
	case CL_MMIO_HEIGHT + 1:
		b.height = setByte16(b.height, 1, value) & e.caps.blitHeightMask()
	case CL_MMIO_DST_PITCH, CL_MMIO_DST_PITCH + 1:
		b.dstPitch = setByte16(b.dstPitch, uint(off-CL_MMIO_DST_PITCH), value)
	case CL_MMIO_SRC_PITCH, CL_MMIO_SRC_PITCH + 1:
		b.srcPitch = setByte16(b.srcPitch, uint(off-CL_MMIO_SRC_PITCH), value)

	case CL_MMIO_DST_ADDR, CL_MMIO_DST_ADDR + 1:
		b.dstAddr = setByte32(b.dstAddr, uint(off-CL_MMIO_DST_ADDR), value)
	case CL_MMIO_DST_ADDR + 2:
		b.dstAddr = setByte32(b.dstAddr, 2, value) & e.caps.blitAddrMask()
		if b.status&CL_BLT_STATUS_AUTOSTART != 0 {
			b.status |= CL_BLT_STATUS_START
			e.bltStart()
		}
	case CL_MMIO_SRC_ADDR, CL_MMIO_SRC_ADDR + 1:
		b.srcAddr = setByte32(b.srcAddr, uint(off-CL_MMIO_SRC_ADDR), value)
	case CL_MMIO_SRC_ADDR + 2:
		b.srcAddr = setByte32(b.srcAddr, 2, value) & e.caps.blitAddrMask()

	case CL_MMIO_MASK:
		b.mask = value
	case CL_MMIO_MODE:
		b.mode = value
		b.depth = (value >> 4) & e.caps.blitDepthMask()
	case CL_MMIO_ROP:
		b.rop = value
	case CL_MMIO_EXT:
		if e.caps.BlitExtensions {
			b.extensions = value & 7
		}
	case CL_MMIO_KEY_LO, CL_MMIO_KEY_HI:
		// Transparent key colour is not decoded.
	case CL_MMIO_STATUS:
		e.bltStatusWrite(value)
	}
}

// setColourByte updates a blitter colour. Chips without true colour keep
// 16 bits and clear the rest.
func (e *CirrusEngine) setColourByte(col uint32, n uint32, value uint8, wide bool) uint32 {
	if wide {
		return setByte32(col, uint(n), value)
	}
	if n > 1 {
		return col
	}
	return setByte32(col&0xFFFF, uint(n), value)
}

// mmioRead returns the status register; every other offset is write-only.
func (e *CirrusEngine) mmioRead(off uint32) uint8 {
	if off == CL_MMIO_STATUS {
		return e.blt.status
	}
	return 0xFF
}
