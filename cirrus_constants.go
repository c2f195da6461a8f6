// cirrus_constants.go - CL-GD542x/543x register indices, ports and bit definitions

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

// I/O ports (colour addressing; mono remaps 0x3Dx to 0x3Bx)
const (
	VGA_PORT_CRTC_INDEX_MONO = 0x3B4
	VGA_PORT_CRTC_DATA_MONO  = 0x3B5
	VGA_PORT_STATUS1_MONO    = 0x3BA
	VGA_PORT_ATTR_INDEX      = 0x3C0 // Attribute index/data (flip-flop)
	VGA_PORT_ATTR_READ       = 0x3C1
	VGA_PORT_MISC_WRITE      = 0x3C2 // Misc output write / input status 0 read
	VGA_PORT_MCA_ENABLE      = 0x3C3
	VGA_PORT_SEQ_INDEX       = 0x3C4
	VGA_PORT_SEQ_DATA        = 0x3C5
	VGA_PORT_DAC_MASK        = 0x3C6 // Pixel mask, also the hidden DAC register
	VGA_PORT_DAC_RINDEX      = 0x3C7
	VGA_PORT_DAC_WINDEX      = 0x3C8
	VGA_PORT_DAC_DATA        = 0x3C9
	VGA_PORT_FEATURE_READ    = 0x3CA
	VGA_PORT_MISC_READ       = 0x3CC
	VGA_PORT_GC_INDEX        = 0x3CE
	VGA_PORT_GC_DATA         = 0x3CF
	VGA_PORT_CRTC_INDEX      = 0x3D4
	VGA_PORT_CRTC_DATA       = 0x3D5
	VGA_PORT_STATUS1         = 0x3DA

	VGA_PORT_MONO_REMAP = 0x60
)

// Register bank sizes
const (
	CL_SEQ_REG_COUNT  = 0x40
	CL_GC_REG_COUNT   = 0x40
	CL_CRTC_REG_COUNT = 0x80
	CL_ATTR_REG_COUNT = 0x20
	CL_PCI_REG_COUNT  = 0x100
)

// Standard sequencer indices
const (
	VGA_SEQ_RESET   = 0x00
	VGA_SEQ_CLKMODE = 0x01
	VGA_SEQ_MAPMASK = 0x02
	VGA_SEQ_CHARMAP = 0x03
	VGA_SEQ_MEMMODE = 0x04
)

// Sequencer memory mode bits
const (
	VGA_SEQ_MEMMODE_OE     = 1 << 2 // Odd/even disable
	VGA_SEQ_MEMMODE_CHAIN4 = 1 << 3
)

// Cirrus extended sequencer indices
const (
	CL_SEQ_UNLOCK      = 0x06 // 0x12 unlocks the extensions
	CL_SEQ_EXT_MODE    = 0x07 // Packed chain4, clock divider, linear base (bits 4-7)
	CL_SEQ_VCLK0_NUM   = 0x0B // VCLK numerators 0x0B-0x0E
	CL_SEQ_DRAM_CTRL   = 0x0F
	CL_SEQ_CURSOR_X    = 0x10
	CL_SEQ_CURSOR_Y    = 0x11
	CL_SEQ_CURSOR_ATTR = 0x12
	CL_SEQ_CURSOR_ADDR = 0x13
	CL_SEQ_CONFIG      = 0x17 // Bus id (bits 3-5), MMIO enable (bit 2)
	CL_SEQ_VCLK0_DEN   = 0x1B // VCLK denominators 0x1B-0x1E

	CL_SEQ_UNLOCK_KEY = 0x12
)

// SR07 bits
const (
	CL_SR07_PACKED_CHAIN4 = 1 << 0
	CL_SR07_32BPP         = 1 << 3
	CL_SR07_LFB_MASK      = 0xF0
)

// SR12 bits
const (
	CL_SR12_CURSOR_ENABLE = 1 << 0
	CL_SR12_CURSOR_PAL    = 1 << 1 // DAC writes of entries 0/15 reach the cursor palette
	CL_SR12_CURSOR_64     = 1 << 2
)

// SR0F / SR17 bits
const (
	CL_SR0F_FULL_DECODE = 1 << 7
	CL_SR17_MMIO_ENABLE = 1 << 2
	CL_SR17_BUSID_SHIFT = 3
	CL_SR17_BUSID_MASK  = 7 << 3
)

// Standard graphics controller indices
const (
	VGA_GC_SET_RESET   = 0x00
	VGA_GC_ENABLE_SR   = 0x01
	VGA_GC_COLOR_CMP   = 0x02
	VGA_GC_DATA_ROTATE = 0x03
	VGA_GC_READ_MAP    = 0x04
	VGA_GC_MODE        = 0x05
	VGA_GC_MISC        = 0x06
	VGA_GC_COLOR_DONT  = 0x07
	VGA_GC_BITMASK     = 0x08
)

// Graphics controller mode bits
const (
	VGA_GC_MODE_READ_MODE = 1 << 3
	VGA_GC_MODE_CHAIN2    = 1 << 4
	VGA_GC_MODE_SHIFT_256 = 1 << 6

	VGA_GC_MISC_GRAPHICS = 1 << 0
	VGA_GC_MISC_MAP_MASK = 0x0C
)

// Cirrus extended graphics controller indices
const (
	CL_GC_BANK0       = 0x09
	CL_GC_BANK1       = 0x0A
	CL_GC_EXT_MODE    = 0x0B
	CL_GC_CKEY_CMP    = 0x0C
	CL_GC_CKEY_MASK   = 0x0D
	CL_GC_POWER       = 0x0E
	CL_GC_BG_HI       = 0x10
	CL_GC_FG_HI       = 0x11
	CL_GC_IRQ_CTRL    = 0x17
	CL_GC_BLT_WIDTH   = 0x20 // 0x20-0x21
	CL_GC_BLT_HEIGHT  = 0x22 // 0x22-0x23
	CL_GC_BLT_DPITCH  = 0x24 // 0x24-0x25
	CL_GC_BLT_SPITCH  = 0x26 // 0x26-0x27
	CL_GC_BLT_DADDR   = 0x28 // 0x28-0x2A
	CL_GC_BLT_SADDR   = 0x2C // 0x2C-0x2E
	CL_GC_BLT_MASK    = 0x2F
	CL_GC_BLT_MODE    = 0x30
	CL_GC_BLT_STATUS  = 0x31
	CL_GC_BLT_ROP     = 0x32
	CL_GC_BLT_EXT     = 0x33
	CL_GC_TRANS_COL   = 0x34 // 0x34-0x35
	CL_GC_TRANS_MASK  = 0x36 // 0x36-0x37
	CL_GC_IRQ_VSYNCEN = 1 << 2
)

// GR0B extended mode bits
const (
	CL_GR0B_DUAL_BANK      = 1 << 0
	CL_GR0B_X8_ADDRESSING  = 1 << 1
	CL_GR0B_WRITEMODE_EXT  = 1 << 2
	CL_GR0B_8B_LATCHES     = 1 << 3
	CL_GR0B_ENHANCED_16BIT = 1 << 4
	CL_GR0B_BANK_16K       = 1 << 5
)

// Standard CRTC indices
const (
	VGA_CRTC_HTOTAL       = 0x00
	VGA_CRTC_HDISPLAY     = 0x01
	VGA_CRTC_OVERFLOW     = 0x07
	VGA_CRTC_MAX_SCAN     = 0x09
	VGA_CRTC_START_HI     = 0x0C
	VGA_CRTC_START_LO     = 0x0D
	VGA_CRTC_CURSOR_HI    = 0x0E
	VGA_CRTC_CURSOR_LO    = 0x0F
	VGA_CRTC_VRETRACE_ST  = 0x10
	VGA_CRTC_VRETRACE_END = 0x11
	VGA_CRTC_VDISPLAY     = 0x12
	VGA_CRTC_OFFSET       = 0x13
	VGA_CRTC_MODE_CTRL    = 0x17

	VGA_CRTC_VRE_IRQ_CLEAR   = 1 << 4
	VGA_CRTC_VRE_IRQ_DISABLE = 1 << 5
	VGA_CRTC_VRE_PROTECT     = 1 << 7
)

// Cirrus extended CRTC indices
const (
	CL_CRTC_INTERLACE  = 0x1A
	CL_CRTC_EXT_DISP   = 0x1B
	CL_CRTC_OVL_EXT    = 0x1D
	CL_CRTC_CHIP_ID    = 0x27
	CL_CRTC_CLASS_ID   = 0x28
	CL_CRTC_OVL_HZOOM  = 0x31
	CL_CRTC_OVL_VZOOM  = 0x32
	CL_CRTC_OVL_R1SZ   = 0x33
	CL_CRTC_OVL_R2SZ   = 0x34
	CL_CRTC_OVL_R2SDZ  = 0x35
	CL_CRTC_OVL_SZHI   = 0x36
	CL_CRTC_OVL_WVS    = 0x37
	CL_CRTC_OVL_WVE    = 0x38
	CL_CRTC_OVL_WVHI   = 0x39
	CL_CRTC_OVL_ADDR0  = 0x3A
	CL_CRTC_OVL_ADDR1  = 0x3B
	CL_CRTC_OVL_ADDR2  = 0x3C
	CL_CRTC_OVL_PITCH  = 0x3D
	CL_CRTC_OVL_CTRL   = 0x3E
	CL_CRTC_VPORT_SYNC = 0x3F
)

// Attribute controller indices
const (
	VGA_ATTR_MODE_CTRL = 0x10
	VGA_ATTR_OVERSCAN  = 0x11
	VGA_ATTR_PLANE_EN  = 0x12
	VGA_ATTR_HPAN      = 0x13
	VGA_ATTR_COLOR_SEL = 0x14
)

// Memory windows
const (
	VGA_WINDOW_A0000 = 0xA0000
	VGA_WINDOW_B0000 = 0xB0000
	VGA_WINDOW_B8000 = 0xB8000

	CL_MMIO_BASE = 0xB8000
	CL_MMIO_SIZE = 0x100

	CL_VLB_LFB_BASE     = 128 << 20
	CL_DEFAULT_LFB_BASE = 0xE0000000

	CL_BANK_WINDOW_MASK = 0x7FFF
)

// Dirty page tracking
const (
	CL_DIRTY_PAGE_SHIFT = 12
	CL_DIRTY_PAGE_SIZE  = 1 << CL_DIRTY_PAGE_SHIFT
)

// Hardware cursor
const (
	CL_CURSOR_PATTERN_BASE = 0x3FC000
	CL_CURSOR_PATTERN_STEP = 256
)

// Blitter MMIO offsets (relative to the MMIO window)
const (
	CL_MMIO_BG_COLOR  = 0x00 // 0x00-0x03
	CL_MMIO_FG_COLOR  = 0x04 // 0x04-0x07
	CL_MMIO_WIDTH     = 0x08 // 0x08-0x09
	CL_MMIO_HEIGHT    = 0x0A // 0x0A-0x0B
	CL_MMIO_DST_PITCH = 0x0C // 0x0C-0x0D
	CL_MMIO_SRC_PITCH = 0x0E // 0x0E-0x0F
	CL_MMIO_DST_ADDR  = 0x10 // 0x10-0x12
	CL_MMIO_SRC_ADDR  = 0x14 // 0x14-0x16
	CL_MMIO_MASK      = 0x17
	CL_MMIO_MODE      = 0x18
	CL_MMIO_ROP       = 0x1A
	CL_MMIO_EXT       = 0x1B
	CL_MMIO_KEY_LO    = 0x1C
	CL_MMIO_KEY_HI    = 0x1D
	CL_MMIO_STATUS    = 0x40
)

// Blitter status bits (GR31)
const (
	CL_BLT_STATUS_BUSY      = 0x01
	CL_BLT_STATUS_START     = 0x02
	CL_BLT_STATUS_RESET     = 0x04
	CL_BLT_STATUS_PROGRESS  = 0x08
	CL_BLT_STATUS_AUTOSTART = 0x80
)

// Blitter mode bits (GR30)
const (
	CL_BLT_MODE_REVERSE     = 0x01
	CL_BLT_MODE_CPU_SOURCE  = 0x04
	CL_BLT_MODE_TRANSPARENT = 0x08
	CL_BLT_MODE_SRC_MASK    = 0xC0
	CL_BLT_MODE_PATTERN     = 0x40
	CL_BLT_MODE_MONO        = 0x80
	CL_BLT_MODE_MONO_EXPAND = CL_BLT_MODE_MONO | CL_BLT_MODE_CPU_SOURCE
)

// Blitter extension bits (GR33)
const (
	CL_BLT_EXT_INVERT = 0x02
	CL_BLT_EXT_SOLID  = 0x04
)

// Blitter depths
const (
	CL_BLT_DEPTH_8  = 0
	CL_BLT_DEPTH_16 = 1
	CL_BLT_DEPTH_24 = 2
	CL_BLT_DEPTH_32 = 3
)

// PCI configuration
const (
	CL_PCI_VENDOR_LO = 0x13
	CL_PCI_VENDOR_HI = 0x10

	CL_PCI_COMMAND_IO     = 0x01
	CL_PCI_COMMAND_MEM    = 0x02
	CL_PCI_COMMAND_MASK   = 0x23
	CL_PCI_COMMAND_RESET  = 0x07
	CL_PCI_ROM_BAR_ENABLE = 0x01
)

// MCA POS identification
const (
	CL_MCA_POS0 = 0x7B
	CL_MCA_POS1 = 0x91
)

// Timing
const (
	CL_REF_CLOCK_HZ = 14318184.0

	// Line buffers start this many pixels before the first visible pixel.
	LINE_BORDER = 32
)
