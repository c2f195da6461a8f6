// cirrus_overlay.go - Video overlay register decode and scanline compositor

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
The overlay window is two horizontal regions: region 1 is primary graphics,
region 2 is the decoded video stream. Region sizes come from CR33-CR36 in
units scaled by the current depth. The stream is read from VRAM at the CR3A-CR3C
address, decoded into the sample ring and stretched by the CR31/CR32 zoom
accumulators. With occlusion on, a stream pixel is only drawn where the primary
pixel underneath equals the colour key.
*/

package cirrus

// OverlayState is the decoded overlay register set.
type OverlayState struct {
	enabled bool
	mode    OverlayFormat

	r1sz, r2sz, r2sdz uint16
	wvs, wve          uint16
	hZoom, vZoom      int
	addr              uint32
	pitch             uint32
	y                 int

	colorKeyCompare uint8
	colorKeyMask    uint8
	colorKeyMode    uint8
	ck              uint16
	occlusion       bool

	region1Size int
	region2Size int
	ySize       int

	// per-frame latch
	linesOn   int
	latchAddr uint32
	latchVAcc int
	latchHAcc int
}

// OverlayInfo is the externally visible overlay configuration.
type OverlayInfo struct {
	Enabled     bool
	Format      OverlayFormat
	Region1Size int // primary pixels before the stream
	Region2Size int // stream pixels
	StartLine   int
	Lines       int
	Addr        uint32
	Pitch       uint32
	HZoom       int
	VZoom       int
	Occlusion   bool
	ColourKey   uint16
}

// Overlay returns the current overlay configuration.
func (e *CirrusEngine) Overlay() OverlayInfo {
	o := &e.overlay
	return OverlayInfo{
		Enabled:     o.enabled,
		Format:      o.mode,
		Region1Size: o.region1Size,
		Region2Size: o.region2Size,
		StartLine:   o.y,
		Lines:       o.ySize,
		Addr:        o.addr,
		Pitch:       o.pitch,
		HZoom:       o.hZoom,
		VZoom:       o.vZoom,
		Occlusion:   o.occlusion,
		ColourKey:   o.ck,
	}
}

func (e *CirrusEngine) updateOverlay() {
	o := &e.overlay
	bpp := e.timings.BPP
	if bpp == 0 {
		bpp = 8
	}
	o.ySize = int(o.wve) - int(o.wvs) + 1
	o.region1Size = 32 * int(o.r1sz) / bpp
	o.region2Size = 32 * int(o.r2sz) / bpp

	o.occlusion = e.crtcRegs[CL_CRTC_OVL_CTRL]&0x80 != 0 && e.timings.BPP <= 16
	switch o.colorKeyMode {
	case 0:
		o.ck = uint16(o.colorKeyCompare)
	case 1:
		o.ck = uint16(o.colorKeyCompare) | uint16(o.colorKeyMask)<<8
	default:
		o.occlusion = false
	}
}

// writeOverlayCRTC decodes the overlay registers in the CRTC bank.
func (e *CirrusEngine) writeOverlayCRTC(idx, old, value uint8) {
	o := &e.overlay
	switch idx {
	case CL_CRTC_OVL_EXT:
		if (old>>3)&7 != (value>>3)&7 {
			o.colorKeyMode = (value >> 3) & 7
			e.updateOverlay()
		}
		return
	case CL_CRTC_OVL_HZOOM:
		o.hZoom = zoomValue(value)
	case CL_CRTC_OVL_VZOOM:
		o.vZoom = zoomValue(value)
	case CL_CRTC_OVL_R1SZ:
		o.r1sz = o.r1sz&^0xFF | uint16(value)
	case CL_CRTC_OVL_R2SZ:
		o.r2sz = o.r2sz&^0xFF | uint16(value)
	case CL_CRTC_OVL_R2SDZ:
		o.r2sdz = o.r2sdz&^0xFF | uint16(value)
	case CL_CRTC_OVL_SZHI:
		o.r1sz = o.r1sz&0xFF | uint16(value)<<8&0x300
		o.r2sz = o.r2sz&0xFF | uint16(value)<<6&0x300
		o.r2sdz = o.r2sdz&0xFF | uint16(value)<<4&0x300
	case CL_CRTC_OVL_WVS:
		o.wvs = o.wvs&^0xFF | uint16(value)
		o.y = int(o.wvs)
		return
	case CL_CRTC_OVL_WVE:
		o.wve = o.wve&^0xFF | uint16(value)
	case CL_CRTC_OVL_WVHI:
		o.wvs = o.wvs&0xFF | uint16(value)<<8&0x300
		o.wve = o.wve&0xFF | uint16(value)<<6&0x300
		o.y = int(o.wvs)
	case CL_CRTC_OVL_ADDR0:
		o.addr = o.addr&^0xFF | uint32(value)
	case CL_CRTC_OVL_ADDR1:
		o.addr = o.addr&^0xFF00 | uint32(value)<<8
	case CL_CRTC_OVL_ADDR2:
		o.addr = o.addr&^0x0F0000 | uint32(value)<<16&0x0F0000
		o.pitch = o.pitch&^0x100 | uint32(value&0x20)<<3
	case CL_CRTC_OVL_PITCH:
		o.pitch = o.pitch&^0xFF | uint32(value)
	case CL_CRTC_OVL_CTRL:
		o.mode = OverlayFormat((value >> 1) & 7)
		o.enabled = value&1 != 0
	default:
		return
	}
	e.updateOverlay()
}

func zoomValue(v uint8) int {
	if v == 0 {
		return 256
	}
	return int(v)
}

// DrawOverlayScanline composites the overlay into buf for display line line.
// lineStart is the VRAM address of the first primary pixel on the line; it
// is read for colour key occlusion. It reports whether the overlay touched
// the line.
func (e *CirrusEngine) DrawOverlayScanline(line int, lineStart uint32, buf []uint32) bool {
	o := &e.overlay
	if o.enabled && line == o.y {
		o.linesOn = o.ySize
		o.latchAddr = o.addr
		o.latchVAcc = 0
		o.latchHAcc = 0
	}
	if o.linesOn <= 0 {
		return false
	}
	o.linesOn--

	shift := 0
	if e.caps.Overlay4xAddr {
		shift = 2
	}
	t := &e.timings
	bytesPerPix := uint32((t.BPP + 7) / 8)
	src := &vramReader{vram: e.vram, mask: e.vramMask, addr: (o.latchAddr << shift) & e.vramMask}
	primary := lineStart + uint32(o.region1Size)*bytesPerPix

	var ring sampleRing
	ring.write = 4
	read := 4
	hAcc := o.latchHAcc
	ring.decode(o.mode, src, &e.pallook)

	p := o.region1Size + LINE_BORDER
	for x := 0; x < o.region2Size && x+o.region1Size < t.HDisp; x++ {
		draw := true
		if o.occlusion {
			switch bytesPerPix {
			case 1:
				draw = uint16(e.vram[primary&t.DisplayMask]) == o.ck
			case 2:
				draw = uint16(e.vram[primary&t.DisplayMask])|uint16(e.vram[(primary+1)&t.DisplayMask])<<8 == o.ck
			}
			primary += bytesPerPix
		}
		if draw && p >= 0 && p < len(buf) {
			buf[p] = ring.pixel(read)
		}
		p++

		hAcc += o.hZoom
		if hAcc >= 256 {
			if (read^(read+1))&^3 != 0 {
				ring.decode(o.mode, src, &e.pallook)
			}
			read = (read + 1) & (sampleRingSize - 1)
			hAcc -= 256
		}
	}

	o.latchVAcc += o.vZoom
	if o.latchVAcc >= 256 {
		o.latchVAcc -= 256
		o.latchAddr += o.pitch << 1
	}
	return true
}
