// cirrus_blitter.go - BitBLT engine

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
cirrus_blitter.go - Cirrus Logic BitBLT engine

The blitter moves a width x height rectangle of bytes (register values are
count-1) from a source to a destination in VRAM, combining each byte with the
destination through a raster op.

Sources (GR30 bits 6-7):

	0x00  linear VRAM, advancing by src pitch per row
	0x40  8x8 pixel pattern tile
	0x80  1bpp mono expanded to fg/bg colour
	0xC0  1bpp mono pattern, 8 rows

GR30 bit 2 feeds the source from CPU writes to the memory window instead. The
engine is then Armed until the CPU pushes data, one 16- or 32-bit chunk per
write; every other transfer runs to completion inside the status write.

Multi-byte pixels are buffered so transparency and the left-edge skip count
apply to whole pixels.
*/

package cirrus

import (
	"github.com/intuitionamiga/CirrusEngine/internal/logger"
)

// BlitPhase is the externally visible blitter state.
type BlitPhase int

const (
	BlitIdle BlitPhase = iota
	BlitArmed
	BlitTransferring
)

func (p BlitPhase) String() string {
	switch p {
	case BlitIdle:
		return "idle"
	case BlitArmed:
		return "armed"
	case BlitTransferring:
		return "transferring"
	}
	return "unknown"
}

const bltHeightIdle = 0xFFFF

// BlitState holds the programmed parameters and the live counters of one
// transfer.
type BlitState struct {
	bgCol, fgCol        uint32
	transCol, transMask uint16
	width, height       uint16
	dstPitch, srcPitch  uint16
	dstAddr, srcAddr    uint32
	mask, mode, rop     uint8
	status, extensions  uint8
	depth               uint8

	dstAddrBackup, srcAddrBackup uint32
	widthBackup, heightInternal  uint16
	xCount, yCount               int
	fed                          bool

	group     [4]uint8
	groupLen  int
	groupMask bool

	memWordSel  bool
	memWordSave uint16
}

// BlitRegisters is a read-only view of the programmed blitter registers.
type BlitRegisters struct {
	BgColour, FgColour uint32
	Width, Height      uint16
	DstPitch, SrcPitch uint16
	DstAddr, SrcAddr   uint32
	Mask, Mode, ROP    uint8
	Extensions, Depth  uint8
	Status             uint8
	TransColour        uint16
	TransMask          uint16
}

// BlitRegisters returns the programmed blitter parameters.
func (e *CirrusEngine) BlitRegisters() BlitRegisters {
	b := &e.blt
	return BlitRegisters{
		BgColour: b.bgCol, FgColour: b.fgCol,
		Width: b.width, Height: b.height,
		DstPitch: b.dstPitch, SrcPitch: b.srcPitch,
		DstAddr: b.dstAddr, SrcAddr: b.srcAddr,
		Mask: b.mask, Mode: b.mode, ROP: b.rop,
		Extensions: b.extensions, Depth: b.depth,
		Status:      b.status,
		TransColour: b.transCol, TransMask: b.transMask,
	}
}

// BlitPhase reports where the blitter is in a transfer.
func (e *CirrusEngine) BlitPhase() BlitPhase {
	switch {
	case e.blt.status&CL_BLT_STATUS_BUSY == 0:
		return BlitIdle
	case e.dispatch == dispatchBlitter && !e.blt.fed:
		return BlitArmed
	}
	return BlitTransferring
}

type ropFunc func(s, d uint8) uint8

// ropTable holds the 16 raster ops the chip implements. Other codes leave
// the destination unchanged.
var ropTable = [256]ropFunc{
	0x00: func(s, d uint8) uint8 { return 0 },
	0x05: func(s, d uint8) uint8 { return s & d },
	0x06: func(s, d uint8) uint8 { return d },
	0x09: func(s, d uint8) uint8 { return s &^ d },
	0x0B: func(s, d uint8) uint8 { return ^d },
	0x0D: func(s, d uint8) uint8 { return s },
	0x0E: func(s, d uint8) uint8 { return 0xFF },
	0x50: func(s, d uint8) uint8 { return ^s & d },
	0x59: func(s, d uint8) uint8 { return s ^ d },
	0x6D: func(s, d uint8) uint8 { return s | d },
	0x90: func(s, d uint8) uint8 { return ^(s | d) },
	0x95: func(s, d uint8) uint8 { return ^(s ^ d) },
	0xAD: func(s, d uint8) uint8 { return s | ^d },
	0xD0: func(s, d uint8) uint8 { return ^s },
	0xD6: func(s, d uint8) uint8 { return ^s | d },
	0xDA: func(s, d uint8) uint8 { return ^(s & d) },
}

// ApplyROP combines source and destination bytes with raster op rop.
func ApplyROP(rop, s, d uint8) uint8 {
	if fn := ropTable[rop]; fn != nil {
		return fn(s, d)
	}
	return d
}

// ROPCodes lists the implemented raster op codes in ascending order.
func ROPCodes() []uint8 {
	var out []uint8
	for i, fn := range ropTable {
		if fn != nil {
			out = append(out, uint8(i))
		}
	}
	return out
}

// bltStatusWrite handles GR31 / MMIO 0x40.
func (e *CirrusEngine) bltStatusWrite(value uint8) {
	b := &e.blt
	b.status &^= CL_BLT_STATUS_START | CL_BLT_STATUS_RESET | CL_BLT_STATUS_AUTOSTART
	if !e.caps.BlitExtensions {
		value &= 0x7F
	}
	b.status |= value & (CL_BLT_STATUS_START | CL_BLT_STATUS_RESET | CL_BLT_STATUS_AUTOSTART)
	e.bltStart()
}

// bltStart arms the engine if the start bit is set. A reset bit aborts any
// transfer in flight first.
func (e *CirrusEngine) bltStart() {
	b := &e.blt
	if b.status&CL_BLT_STATUS_RESET != 0 {
		b.status &^= CL_BLT_STATUS_PROGRESS | CL_BLT_STATUS_START | CL_BLT_STATUS_BUSY
		if b.heightInternal != bltHeightIdle || e.dispatch == dispatchBlitter {
			logger.Logf(logger.Allow, "blitter", "reset aborts transfer at dst %06X", b.dstAddr)
			b.heightInternal = bltHeightIdle
			e.restoreDispatch()
		}
	}
	if b.status&CL_BLT_STATUS_START == 0 {
		return
	}
	b.status |= CL_BLT_STATUS_PROGRESS | CL_BLT_STATUS_BUSY

	b.dstAddrBackup = b.dstAddr
	b.srcAddrBackup = b.srcAddr
	b.widthBackup = b.width
	b.heightInternal = b.height
	b.xCount = 0
	b.yCount = 0
	if b.mode&CL_BLT_MODE_SRC_MASK == CL_BLT_MODE_SRC_MASK {
		b.yCount = int(b.srcAddr & 7)
	}
	b.groupLen = 0
	b.groupMask = false
	b.fed = false
	b.memWordSel = false

	logger.Logf(logger.Allow, "blitter", "start %dx%d mode %02X rop %02X dst %06X src %06X",
		int(b.width)+1, int(b.height)+1, b.mode, b.rop, b.dstAddr, b.srcAddr)

	if b.mode&CL_BLT_MODE_CPU_SOURCE != 0 {
		e.dispatch = dispatchBlitter
		e.recalcMapping()
		return
	}
	e.dispatch = dispatchNormal
	e.recalcMapping()
	e.bltRun(0, -1)
}

func (e *CirrusEngine) restoreDispatch() {
	if e.dispatch == dispatchBlitter {
		e.dispatch = dispatchNormal
		e.recalcMapping()
	}
}

func (e *CirrusEngine) bltFinish() {
	b := &e.blt
	if b.mode&CL_BLT_MODE_CPU_SOURCE != 0 {
		e.restoreDispatch()
	}
	b.status &= CL_BLT_STATUS_AUTOSTART
	logger.Logf(logger.Allow, "blitter", "complete")
}

// bltWriteWord takes a 16-bit CPU write. Two halves make one 32-bit chunk.
func (e *CirrusEngine) bltWriteWord(value uint16) {
	b := &e.blt
	if !b.memWordSel {
		b.memWordSave = value
	} else {
		e.bltFeed(uint32(b.memWordSave) | uint32(value)<<16)
	}
	b.memWordSel = !b.memWordSel
}

// bltWriteDWord takes a 32-bit CPU write and drops any pending half word.
func (e *CirrusEngine) bltWriteDWord(value uint32) {
	e.blt.memWordSel = false
	e.bltFeed(value)
}

func (e *CirrusEngine) bltFeed(value uint32) {
	if e.blt.mode&CL_BLT_MODE_MONO_EXPAND == CL_BLT_MODE_MONO_EXPAND {
		for i := 0; i < 4; i++ {
			e.bltRun((value>>(8*i))&0xFF, 8)
		}
		return
	}
	e.bltRun(value, 32)
}

// bltRun steps the engine. count is the number of CPU bits in cpuDat, or -1
// for a VRAM-fed transfer that runs to completion.
func (e *CirrusEngine) bltRun(cpuDat uint32, count int) {
	b := &e.blt
	if count >= 0 {
		if b.heightInternal == bltHeightIdle {
			b.status &= CL_BLT_STATUS_AUTOSTART
			return
		}
		b.fed = true
	}

	bpp := int(b.depth) + 1
	xMax := 8 * bpp
	skip := int(b.mask&7) * bpp
	vm := e.vramMask
	reverse := b.mode&CL_BLT_MODE_REVERSE != 0
	cpuFed := b.mode&CL_BLT_MODE_CPU_SOURCE != 0

	for count != 0 {
		var src uint8
		var mask bool
		sub := b.xCount % bpp
		shift := uint(sub * 8)

		if cpuFed {
			if b.mode&CL_BLT_MODE_MONO != 0 {
				mask = cpuDat&0x80 != 0
				src = e.bltColour(mask, shift)
				if sub == bpp-1 {
					cpuDat <<= 1
					count--
				}
			} else {
				src = uint8(cpuDat)
				cpuDat >>= 8
				count -= 8
				mask = true
			}
		} else {
			src, mask = e.bltSource(bpp, shift)
			count--
		}

		d := e.vram[(b.dstAddr+uint32(b.groupLen))&vm]
		b.group[b.groupLen] = ApplyROP(b.rop, src, d)
		b.groupLen++
		b.groupMask = b.groupMask || mask

		if b.groupLen >= bpp {
			commit := int(b.widthBackup)-int(b.width) >= skip &&
				!(b.mode&CL_BLT_MODE_TRANSPARENT != 0 && !b.groupMask)
			if commit {
				for i := 0; i < bpp; i++ {
					a := (b.dstAddr + uint32(i)) & vm
					e.vram[a] = b.group[i]
					e.markDirty(a)
				}
			} else if bpp == 1 {
				e.markDirty(b.dstAddr & vm)
			}
			if reverse {
				b.dstAddr -= uint32(bpp)
			} else {
				b.dstAddr += uint32(bpp)
			}
			b.groupLen = 0
			b.groupMask = false
		}

		b.xCount++
		if b.xCount == xMax {
			b.xCount = 0
			if b.mode&CL_BLT_MODE_SRC_MASK == CL_BLT_MODE_MONO {
				b.srcAddr++
			}
		}

		b.width--
		if b.width != 0xFFFF {
			continue
		}

		// End of row
		b.width = b.widthBackup
		if reverse {
			b.dstAddrBackup -= uint32(b.dstPitch)
		} else {
			b.dstAddrBackup += uint32(b.dstPitch)
		}
		b.dstAddr = b.dstAddrBackup

		switch b.mode & CL_BLT_MODE_SRC_MASK {
		case 0x00:
			if reverse {
				b.srcAddrBackup -= uint32(b.srcPitch)
			} else {
				b.srcAddrBackup += uint32(b.srcPitch)
			}
			b.srcAddr = b.srcAddrBackup
		case CL_BLT_MODE_MONO:
			if b.xCount != 0 {
				b.srcAddr++
			}
		}

		b.xCount = 0
		if reverse {
			b.yCount = (b.yCount - 1) & 7
		} else {
			b.yCount = (b.yCount + 1) & 7
		}

		b.heightInternal--
		if b.heightInternal == bltHeightIdle {
			b.groupLen = 0
			e.bltFinish()
			return
		}
		if cpuFed {
			// The rest of the chunk is discarded.
			b.groupLen = 0
			b.groupMask = false
			return
		}
	}
}

func (e *CirrusEngine) bltColour(fg bool, shift uint) uint8 {
	if fg {
		return uint8(e.blt.fgCol >> shift)
	}
	return uint8(e.blt.bgCol >> shift)
}

// bltSource produces one VRAM-fed source byte and its mask bit.
func (e *CirrusEngine) bltSource(bpp int, shift uint) (uint8, bool) {
	b := &e.blt
	vm := e.vramMask

	switch b.mode & CL_BLT_MODE_SRC_MASK {
	case 0x00:
		src := e.vram[b.srcAddr&vm]
		if b.mode&CL_BLT_MODE_REVERSE != 0 {
			b.srcAddr--
		} else {
			b.srcAddr++
		}
		return src, true

	case CL_BLT_MODE_PATTERN:
		var a uint32
		x, y := uint32(b.xCount), uint32(b.yCount)
		switch bpp {
		case 1:
			a = b.srcAddr&(vm&^7) + y<<3 + x&7
		case 2:
			a = b.srcAddr&(vm&^3) + y<<4 + x&15
		default:
			a = b.srcAddr&(vm&^3) + y<<5 + x&31
		}
		return e.vram[a&vm], true
	}

	// Mono sources
	if b.extensions&CL_BLT_EXT_SOLID != 0 {
		return uint8(b.fgCol >> shift), true
	}
	var bits uint8
	if b.mode&CL_BLT_MODE_SRC_MASK == CL_BLT_MODE_MONO {
		bits = e.vram[b.srcAddr&vm]
	} else {
		bits = e.vram[(b.srcAddr&vm&^7)|uint32(b.yCount)]
	}
	mask := bits&(0x80>>uint(b.xCount/bpp)) != 0
	if b.extensions&CL_BLT_EXT_INVERT != 0 {
		mask = !mask
	}
	return e.bltColour(mask, shift), mask
}
