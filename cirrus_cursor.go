// cirrus_cursor.go - Hardware cursor scanline compositor

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

// CursorState is the programmed hardware cursor plus the per-frame latch the
// compositor walks.
type CursorState struct {
	Enabled bool
	X, Y    int // SR10/SR11 with the fine bits from the index register
	XOff    int
	YOff    int
	YSize   int    // 32 or 64
	Addr    uint32 // pattern address in VRAM

	latch   cursorLatch
	linesOn int
	oddEven bool
}

type cursorLatch struct {
	x, xOff int
	addr    uint32
}

// Cursor returns the programmed cursor state.
func (e *CirrusEngine) Cursor() CursorState {
	c := e.cursor
	c.latch, c.linesOn, c.oddEven = cursorLatch{}, 0, false
	return c
}

func (e *CirrusEngine) updateCursorAddr() {
	sel := uint32(e.seqRegs[CL_SEQ_CURSOR_ADDR])
	if e.cursor.YSize == 64 {
		sel &= 0x3C
	} else {
		sel &= 0x3F
	}
	e.cursor.Addr = (CL_CURSOR_PATTERN_BASE + sel*CL_CURSOR_PATTERN_STEP) & e.vramMask
}

// DrawCursorScanline composites the cursor into buf for display line line.
// buf holds 0x00RRGGBB pixels with LINE_BORDER pixels before the first
// visible one. It reports whether the cursor touched the line.
func (e *CirrusEngine) DrawCursorScanline(line int, buf []uint32) bool {
	c := &e.cursor
	if c.Enabled && line == c.Y {
		c.latch = cursorLatch{x: c.X, xOff: c.XOff, addr: c.Addr}
		c.linesOn = c.YSize - c.YOff
		c.oddEven = false
	}
	if c.linesOn <= 0 {
		return false
	}

	t := &e.timings
	lineOffset := uint32(4)
	wide := e.seqRegs[CL_SEQ_CURSOR_ATTR]&CL_SR12_CURSOR_64 != 0
	if wide {
		lineOffset = 16
	}
	if t.Interlace && c.oddEven {
		c.latch.addr += lineOffset
	}

	offset := c.latch.x - c.latch.xOff
	if t.LineDouble {
		offset <<= 1
	}

	// plot applies the AND/XOR pair for one pixel.
	plot := func(andPlane, xorPlane uint8) {
		if offset >= c.latch.x {
			i := offset + LINE_BORDER - t.CursorExtraOffset
			if i >= 0 && i < len(buf) {
				if andPlane&0x80 != 0 {
					buf[i] = e.cursorPal[xorPlane>>7]
				} else if xorPlane&0x80 != 0 {
					buf[i] ^= 0xFFFFFF
				}
			}
		}
		offset++
	}

	mask := t.DisplayMask
	if wide {
		for x := 0; x < 64; x += 8 {
			xor := e.vram[c.latch.addr&mask]
			and := e.vram[(c.latch.addr+8)&mask]
			for xx := 0; xx < 8; xx++ {
				plot(and, xor)
				xor <<= 1
				and <<= 1
			}
			c.latch.addr++
		}
		c.latch.addr += 8
	} else {
		for x := 0; x < 32; x += 8 {
			xor := e.vram[c.latch.addr&mask]
			and := e.vram[(c.latch.addr+0x80)&mask]
			for xx := 0; xx < 8; xx++ {
				plot(and, xor)
				xor <<= 1
				and <<= 1
			}
			c.latch.addr++
		}
	}

	if t.Interlace && !c.oddEven {
		c.latch.addr += lineOffset
	}
	if t.Interlace {
		c.oddEven = !c.oddEven
	}
	c.linesOn--
	return true
}
