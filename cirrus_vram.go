// cirrus_vram.go - Planar VRAM write/read pipeline

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
Every CPU byte that reaches video memory passes through writeVRAM or readVRAM.
The address is first transformed by the addressing mode:

	GR0B bit 4 (enhanced 16-bit)  addr << 4
	GR0B bit 1 (X8 addressing)    addr << 3
	SR07 bit 0 with chain4        direct byte, one plane selected by addr & 3
	chain4                        plane = addr & 3, addr rebuilt in plane units
	chain2 (odd/even)             plane pair selected by addr & 1
	planar                        addr << 2

then masked with the decode mask. Writes beyond VRAM are dropped, reads return
0xFF. Write modes 0-3 are the VGA ALU programs; 4 and 5 are the Cirrus colour
expansion modes, one bit of the input per pixel.
*/

package cirrus

// Graphics controller ALU functions (GR03 bits 3-4)
const (
	aluSet = 0x00
	aluAND = 0x08
	aluOR  = 0x10
	aluXOR = 0x18
)

func rotateRight(v uint8, n uint8) uint8 {
	n &= 7
	return v>>n | v<<(8-n)
}

// aluCombine applies the GR03 function to one plane under bit mask m.
func aluCombine(fn, v, latch, m uint8) uint8 {
	switch fn {
	case aluAND:
		return (v | ^m) & latch
	case aluOR:
		return (v & m) | latch
	case aluXOR:
		return (v & m) ^ latch
	}
	return (v & m) | (latch &^ m)
}

// WriteByte writes one byte at a VRAM-side address (bank already applied).
func (e *CirrusEngine) WriteByte(addr uint32, value uint8) {
	e.writeVRAM(addr, value)
}

// ReadByte reads one byte at a VRAM-side address, loading the latches.
func (e *CirrusEngine) ReadByte(addr uint32) uint8 {
	return e.readVRAM(addr)
}

// Latches returns the 4 plane latches and the 4 extended latches.
func (e *CirrusEngine) Latches() [8]uint8 {
	return e.latch
}

func (e *CirrusEngine) writeVRAM(addr uint32, value uint8) {
	ext := e.gcRegs[CL_GC_EXT_MODE]
	planeMask := e.seqRegs[VGA_SEQ_MAPMASK]

	switch {
	case ext&CL_GR0B_ENHANCED_16BIT != 0:
		addr <<= 4
	case ext&CL_GR0B_X8_ADDRESSING != 0:
		addr <<= 3
	case e.chain4 && e.packedChain4 && e.writeMode < 4:
		planeMask = 1 << (addr & 3)
		addr &^= 3
	case e.chain4:
		planeMask = 1 << (addr & 3)
		addr = (addr&0xFFFC)<<2 | (addr&0x30000)>>14 | addr&^0x3FFFF
	case e.chain2Write:
		planeMask &^= 0x0A
		if addr&1 != 0 {
			planeMask <<= 1
		}
		addr &^= 1
		addr <<= 2
	default:
		addr <<= 2
	}

	addr &= e.decodeMask
	if addr >= e.vramMax {
		return
	}
	addr &= e.vramMask
	e.markDirty(addr)

	switch e.writeMode {
	case 4:
		e.writeColourExpand(addr, value&e.seqRegs[VGA_SEQ_MAPMASK], false)
	case 5:
		e.writeColourExpand(addr, value, true)
	case 1:
		e.writeLatches(addr, planeMask)
	case 0:
		e.writeMode0(addr, value, planeMask)
	case 2:
		e.writeMode2(addr, value, planeMask)
	case 3:
		e.writeMode3(addr, value, planeMask)
	}
}

func (e *CirrusEngine) putVRAM(addr uint32, value uint8) {
	e.vram[addr&e.vramMask] = value
}

// writeColourExpand handles write modes 4 and 5. Each of the 8 bits of
// SR02 selects one pixel, MSB first. Mode 4 writes the foreground colour
// where the input bit is set; mode 5 writes foreground or background for
// every enabled pixel. Enhanced 16-bit mode writes two bytes per pixel.
func (e *CirrusEngine) writeColourExpand(addr uint32, value uint8, mode5 bool) {
	wide := e.gcRegs[CL_GC_EXT_MODE]&CL_GR0B_ENHANCED_16BIT != 0
	enable := e.seqRegs[VGA_SEQ_MAPMASK]
	fgLo, fgHi := e.gcRegs[VGA_GC_ENABLE_SR], e.gcRegs[CL_GC_FG_HI]
	bgLo, bgHi := e.gcRegs[VGA_GC_SET_RESET], e.gcRegs[CL_GC_BG_HI]

	for n := uint32(0); n < 8; n++ {
		bit := uint8(0x80) >> n
		var lo, hi uint8
		if mode5 {
			if enable&bit == 0 {
				continue
			}
			lo, hi = bgLo, bgHi
			if value&bit != 0 {
				lo, hi = fgLo, fgHi
			}
		} else {
			if value&bit == 0 {
				continue
			}
			lo, hi = fgLo, fgHi
		}
		if wide {
			e.putVRAM(addr+n*2, lo)
			e.putVRAM(addr+n*2+1, hi)
		} else {
			e.putVRAM(addr+n, lo)
		}
	}
}

// writeLatches is write mode 1: the latches are copied back unchanged.
func (e *CirrusEngine) writeLatches(addr uint32, planeMask uint8) {
	ext := e.gcRegs[CL_GC_EXT_MODE]
	if ext&CL_GR0B_WRITEMODE_EXT == 0 {
		for p := uint32(0); p < 4; p++ {
			if planeMask&(1<<p) != 0 {
				e.putVRAM(addr|p, e.latch[p])
			}
		}
		return
	}
	n := uint32(4)
	if ext&CL_GR0B_8B_LATCHES != 0 {
		n = 8
	}
	for p := uint32(0); p < n; p++ {
		if planeMask&(0x80>>p) != 0 {
			e.putVRAM(addr|p, e.latch[p])
		}
	}
}

func (e *CirrusEngine) writeMode0(addr uint32, value, planeMask uint8) {
	rot := e.gcRegs[VGA_GC_DATA_ROTATE]
	if rot&7 != 0 {
		value = rotateRight(value, rot&7)
	}
	bitMask := e.gcRegs[VGA_GC_BITMASK]
	enableSR := e.gcRegs[VGA_GC_ENABLE_SR]
	if bitMask == 0xFF && rot&0x18 == 0 && (enableSR == 0 || e.setResetDisabled) {
		for p := uint32(0); p < 4; p++ {
			if planeMask&(1<<p) != 0 {
				e.putVRAM(addr|p, value)
			}
		}
		return
	}

	setReset := e.gcRegs[VGA_GC_SET_RESET]
	for p := uint32(0); p < 4; p++ {
		if planeMask&(1<<p) == 0 {
			continue
		}
		v := value
		if enableSR&(1<<p) != 0 {
			v = planeFill(setReset, p)
		}
		e.putVRAM(addr|p, aluCombine(rot&0x18, v, e.latch[p], bitMask))
	}
}

func (e *CirrusEngine) writeMode2(addr uint32, value, planeMask uint8) {
	fn := e.gcRegs[VGA_GC_DATA_ROTATE] & 0x18
	bitMask := e.gcRegs[VGA_GC_BITMASK]
	for p := uint32(0); p < 4; p++ {
		if planeMask&(1<<p) != 0 {
			e.putVRAM(addr|p, aluCombine(fn, planeFill(value, p), e.latch[p], bitMask))
		}
	}
}

// writeMode3 ANDs the rotated input into the bit mask and writes the
// set/reset colour.
func (e *CirrusEngine) writeMode3(addr uint32, value, planeMask uint8) {
	rot := e.gcRegs[VGA_GC_DATA_ROTATE]
	if rot&7 != 0 {
		value = rotateRight(value, rot&7)
	}
	bitMask := e.gcRegs[VGA_GC_BITMASK] & value
	setReset := e.gcRegs[VGA_GC_SET_RESET]
	for p := uint32(0); p < 4; p++ {
		if planeMask&(1<<p) != 0 {
			e.putVRAM(addr|p, aluCombine(rot&0x18, planeFill(setReset, p), e.latch[p], bitMask))
		}
	}
}

// planeFill expands bit p of v to a whole byte.
func planeFill(v uint8, p uint32) uint8 {
	if v&(1<<p) != 0 {
		return 0xFF
	}
	return 0
}

func (e *CirrusEngine) readVRAM(addr uint32) uint8 {
	ext := e.gcRegs[CL_GC_EXT_MODE]
	readPlane := uint32(e.readPlane)

	var latchAddr uint32
	switch {
	case ext&CL_GR0B_ENHANCED_16BIT != 0:
		latchAddr = addr << 4
		addr <<= 4
	case ext&CL_GR0B_X8_ADDRESSING != 0:
		latchAddr = addr << 3
		addr <<= 3
	case e.chain4 && e.packedChain4:
		addr &= e.decodeMask
		if addr >= e.vramMax {
			return 0xFF
		}
		return e.vram[addr&e.vramMask]
	case e.chain4:
		latchAddr = addr << 2
		readPlane = addr & 3
		addr = (addr&0xFFFC)<<2 | (addr&0x30000)>>14 | addr&^0x3FFFF
	case e.chain2Read:
		latchAddr = addr << 2
		readPlane = readPlane&2 | addr&1
		addr &^= 1
		addr <<= 2
	default:
		latchAddr = addr << 2
		addr <<= 2
	}
	latchAddr &= e.decodeMask
	addr &= e.decodeMask

	e.loadLatches(latchAddr, ext&CL_GR0B_8B_LATCHES != 0)

	if e.readMode {
		cmp := e.gcRegs[VGA_GC_COLOR_CMP]
		care := e.gcRegs[VGA_GC_COLOR_DONT]
		var acc uint8
		for p := uint32(0); p < 4; p++ {
			acc |= (e.latch[p] ^ planeFill(cmp, p)) & planeFill(care, p)
		}
		return ^acc
	}
	if addr >= e.vramMax {
		return 0xFF
	}
	return e.vram[(addr|readPlane)&e.vramMask]
}

func (e *CirrusEngine) loadLatches(latchAddr uint32, wide bool) {
	n := uint32(4)
	if wide {
		n = 8
	}
	if latchAddr >= e.vramMax {
		for p := uint32(0); p < n; p++ {
			e.latch[p] = 0xFF
		}
		return
	}
	latchAddr &= e.vramMask
	for p := uint32(0); p < n; p++ {
		e.latch[p] = e.vram[(latchAddr|p)&e.vramMask]
	}
}
