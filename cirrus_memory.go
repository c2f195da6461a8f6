// cirrus_memory.go - Host memory window dispatch

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
Host memory accesses enter through the MemRead and MemWrite calls with an
absolute bus address. The address is matched against the current MappingState:

	MMIO window    blitter registers (checked first: it shadows B8000)
	banked window  offset & BankedMask, bank[offset>>15] added
	linear window  the bus address itself, cut down by the decode mask

While a CPU-fed blit is armed the banked and linear windows feed the blitter:
16- and 32-bit writes become source data, byte writes are dropped and reads
float high.
*/

package cirrus

func (e *CirrusEngine) bankedAddr(addr uint32) uint32 {
	addr = (addr - e.mapping.Banked.Base) & e.mapping.BankedMask
	return (addr & CL_BANK_WINDOW_MASK) + e.bank[(addr>>15)&1]
}

// linearAddr keeps the absolute address; writeVRAM/readVRAM apply the
// decode mask, so a base that is not decode-aligned (SR07 on ISA) shows the
// VRAM it overlaps.
func (e *CirrusEngine) linearAddr(addr uint32) uint32 {
	return addr
}

// vramWindowAddr resolves addr against the banked and linear windows.
func (e *CirrusEngine) vramWindowAddr(addr uint32) (uint32, bool) {
	switch {
	case e.mapping.Banked.Contains(addr):
		return e.bankedAddr(addr), true
	case e.mapping.Linear.Contains(addr):
		return e.linearAddr(addr), true
	}
	return 0, false
}

// MemWriteByte handles an 8-bit host write.
func (e *CirrusEngine) MemWriteByte(addr uint32, value uint8) {
	if e.mapping.MMIO.Contains(addr) {
		e.mmioWrite(addr-e.mapping.MMIO.Base, value)
		return
	}
	vaddr, ok := e.vramWindowAddr(addr)
	if !ok || e.dispatch == dispatchBlitter {
		return
	}
	e.writeVRAM(vaddr, value)
}

// MemWriteWord handles a 16-bit host write.
func (e *CirrusEngine) MemWriteWord(addr uint32, value uint16) {
	if e.mapping.MMIO.Contains(addr) {
		off := addr - e.mapping.MMIO.Base
		e.mmioWrite(off, uint8(value))
		e.mmioWrite(off+1, uint8(value>>8))
		return
	}
	vaddr, ok := e.vramWindowAddr(addr)
	if !ok {
		return
	}
	if e.dispatch == dispatchBlitter {
		e.bltWriteWord(value)
		return
	}
	e.writeVRAM(vaddr, uint8(value))
	e.writeVRAM(vaddr+1, uint8(value>>8))
}

// MemWriteDWord handles a 32-bit host write.
func (e *CirrusEngine) MemWriteDWord(addr uint32, value uint32) {
	if e.mapping.MMIO.Contains(addr) {
		off := addr - e.mapping.MMIO.Base
		for i := uint32(0); i < 4; i++ {
			e.mmioWrite(off+i, uint8(value>>(8*i)))
		}
		return
	}
	vaddr, ok := e.vramWindowAddr(addr)
	if !ok {
		return
	}
	if e.dispatch == dispatchBlitter {
		e.bltWriteDWord(value)
		return
	}
	for i := uint32(0); i < 4; i++ {
		e.writeVRAM(vaddr+i, uint8(value>>(8*i)))
	}
}

// MemReadByte handles an 8-bit host read. Unmapped addresses read 0xFF.
func (e *CirrusEngine) MemReadByte(addr uint32) uint8 {
	if e.mapping.MMIO.Contains(addr) {
		return e.mmioRead(addr - e.mapping.MMIO.Base)
	}
	vaddr, ok := e.vramWindowAddr(addr)
	if !ok || e.dispatch == dispatchBlitter {
		return 0xFF
	}
	return e.readVRAM(vaddr)
}

// MemReadWord handles a 16-bit host read.
func (e *CirrusEngine) MemReadWord(addr uint32) uint16 {
	if e.mapping.MMIO.Contains(addr) {
		off := addr - e.mapping.MMIO.Base
		return uint16(e.mmioRead(off)) | uint16(e.mmioRead(off+1))<<8
	}
	vaddr, ok := e.vramWindowAddr(addr)
	if !ok || e.dispatch == dispatchBlitter {
		return 0xFFFF
	}
	return uint16(e.readVRAM(vaddr)) | uint16(e.readVRAM(vaddr+1))<<8
}

// MemReadDWord handles a 32-bit host read.
func (e *CirrusEngine) MemReadDWord(addr uint32) uint32 {
	if e.mapping.MMIO.Contains(addr) {
		off := addr - e.mapping.MMIO.Base
		var v uint32
		for i := uint32(0); i < 4; i++ {
			v |= uint32(e.mmioRead(off+i)) << (8 * i)
		}
		return v
	}
	vaddr, ok := e.vramWindowAddr(addr)
	if !ok || e.dispatch == dispatchBlitter {
		return 0xFFFFFFFF
	}
	var v uint32
	for i := uint32(0); i < 4; i++ {
		v |= uint32(e.readVRAM(vaddr+i)) << (8 * i)
	}
	return v
}
