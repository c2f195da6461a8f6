// cirrus_pixel_decode.go - Overlay pixel formats to RGB samples

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
The overlay compositor keeps eight decoded samples in a ring. Each decode step
fills four slots (two for each half of a YUV 4:2:2 group) starting at the
write cursor. Channels are kept in output order: lo is bits 0-7 of the final
0x00RRGGBB word, mid bits 8-15, hi bits 16-23.

The YUV arithmetic is the chip's fixed-point approximation and is kept exactly,
including the 8-bit truncation of the scaled luma.
*/

package cirrus

// OverlayFormat is the CR3E bits 1-3 pixel format.
type OverlayFormat uint8

const (
	OverlayYUV422 OverlayFormat = 0
	OverlayCLUT   OverlayFormat = 2
	OverlayYUV211 OverlayFormat = 3
	OverlayRGB555 OverlayFormat = 4
	OverlayRGB565 OverlayFormat = 5
)

func (f OverlayFormat) String() string {
	switch f {
	case OverlayYUV422:
		return "yuv422"
	case OverlayCLUT:
		return "clut"
	case OverlayYUV211:
		return "yuv211"
	case OverlayRGB555:
		return "rgb555"
	case OverlayRGB565:
		return "rgb565"
	}
	return "none"
}

const sampleRingSize = 8

// sampleRing holds decoded overlay samples.
type sampleRing struct {
	lo, mid, hi [sampleRingSize]int
	write       int
}

// vramReader walks VRAM with wrap-around.
type vramReader struct {
	vram []byte
	mask uint32
	addr uint32
}

func (r *vramReader) next() uint8 {
	v := r.vram[r.addr&r.mask]
	r.addr++
	return v
}

func (r *vramReader) next16() uint16 {
	lo := uint16(r.next())
	return lo | uint16(r.next())<<8
}

func clampChannel(x int) int {
	if x&^0xFF != 0 {
		if x < 0 {
			return 0
		}
		return 0xFF
	}
	return x
}

// pixel returns slot i as 0x00RRGGBB.
func (s *sampleRing) pixel(i int) uint32 {
	return uint32(s.lo[i]) | uint32(s.mid[i])<<8 | uint32(s.hi[i])<<16
}

func (s *sampleRing) put(i, y, dLo, dMid, dHi int) {
	s.lo[i] = clampChannel(y + dLo)
	s.mid[i] = clampChannel(y - dMid)
	s.hi[i] = clampChannel(y + dHi)
}

// scaleLuma is the 8-bit truncated (298 * (y - 16)) >> 8.
func scaleLuma(y uint8) int {
	return int(uint8((298 * (int(y) - 16)) >> 8))
}

// decode consumes one group of source pixels in format f. Unknown formats
// leave the ring untouched.
func (s *sampleRing) decode(f OverlayFormat, src *vramReader, pallook *[256]uint32) {
	switch f {
	case OverlayYUV422:
		s.decodeYUV422(src)
	case OverlayCLUT:
		s.decodeCLUT(src, pallook)
	case OverlayYUV211:
		s.decodeYUV211(src)
	case OverlayRGB555:
		s.decodeRGB555(src)
	case OverlayRGB565:
		s.decodeRGB565(src)
	}
}

func (s *sampleRing) decodeYUV422(src *vramReader) {
	for c := 0; c < 2; c++ {
		u := int(int8(src.next() - 0x80))
		y1 := scaleLuma(src.next())
		v := int(int8(src.next() - 0x80))
		y2 := scaleLuma(src.next())

		dLo := (309 * v) >> 8
		dMid := (100*u + 208*v) >> 8
		dHi := (516 * u) >> 8

		s.put(s.write, y1, dLo, dMid, dHi)
		s.put(s.write+1, y2, dLo, dMid, dHi)
		s.write = (s.write + 2) & (sampleRingSize - 1)
	}
}

func (s *sampleRing) decodeYUV211(src *vramReader) {
	u := int(int8(src.next() - 0x80))
	y1 := scaleLuma(src.next())
	y2 := scaleLuma(src.next())
	v := int(int8(src.next() - 0x80))
	y3 := scaleLuma(src.next())
	y4 := scaleLuma(src.next())

	dLo := (309 * v) >> 8
	dMid := (100*u + 208*v) >> 8
	dHi := (516 * u) >> 8

	for i, y := range [4]int{y1, y2, y3, y4} {
		s.put(s.write+i, y, dLo, dMid, dHi)
	}
	s.write = (s.write + 4) & (sampleRingSize - 1)
}

func (s *sampleRing) decodeRGB555(src *vramReader) {
	for c := 0; c < 4; c++ {
		dat := int(src.next16())
		s.lo[s.write+c] = (dat&0x001F)<<3 | (dat&0x001F)>>2
		s.mid[s.write+c] = (dat&0x03E0)>>2 | (dat&0x03E0)>>7
		s.hi[s.write+c] = (dat&0x7C00)>>7 | (dat&0x7C00)>>12
	}
	s.write = (s.write + 4) & (sampleRingSize - 1)
}

func (s *sampleRing) decodeRGB565(src *vramReader) {
	for c := 0; c < 4; c++ {
		dat := int(src.next16())
		s.lo[s.write+c] = (dat&0x001F)<<3 | (dat&0x001F)>>2
		s.mid[s.write+c] = (dat&0x07E0)>>3 | (dat&0x07E0)>>9
		s.hi[s.write+c] = (dat&0xF800)>>8 | (dat&0xF800)>>13
	}
	s.write = (s.write + 4) & (sampleRingSize - 1)
}

func (s *sampleRing) decodeCLUT(src *vramReader, pallook *[256]uint32) {
	for c := 0; c < 4; c++ {
		col := pallook[src.next()]
		s.lo[s.write+c] = int(col & 0xFF)
		s.mid[s.write+c] = int((col >> 8) & 0xFF)
		s.hi[s.write+c] = int((col >> 16) & 0xFF)
	}
	s.write = (s.write + 4) & (sampleRingSize - 1)
}

// DecodeOverlayPixels decodes n pixels of format f from raw, without zoom.
// It is the building block the overlay compositor uses, exposed for tools
// that preview overlay surfaces.
func DecodeOverlayPixels(f OverlayFormat, raw []byte, pallook *[256]uint32, n int) []uint32 {
	out := make([]uint32, 0, n)
	if len(raw) == 0 {
		return out
	}
	buf := raw
	mask := uint32(len(raw) - 1)
	if len(raw)&(len(raw)-1) != 0 {
		size := 1
		for size < len(raw) {
			size <<= 1
		}
		buf = make([]byte, size)
		copy(buf, raw)
		mask = uint32(size - 1)
	}
	src := &vramReader{vram: buf, mask: mask}
	var ring sampleRing
	for len(out) < n {
		start := ring.write
		ring.decode(f, src, pallook)
		if ring.write == start {
			break
		}
		for i := 0; i < 4 && len(out) < n; i++ {
			out = append(out, ring.pixel((start+i)&(sampleRingSize-1)))
		}
	}
	return out
}
