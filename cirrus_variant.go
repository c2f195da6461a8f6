// cirrus_variant.go - Per-chip capability descriptors for the CL-GD542x/543x family

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
Every behavioural difference between the supported chips is recorded here. The
engine never compares variants directly; it consults the VariantCaps of the
instance it was built with.
*/

package cirrus

import (
	"fmt"
	"strings"
)

// Variant identifies one member of the family. Order matches silicon generation.
type Variant int

const (
	VariantAVGA2 Variant = iota
	VariantGD5426
	VariantGD5428
	VariantGD5429
	VariantGD5430
	VariantGD5434
	VariantGD5436
	VariantGD5446
	VariantGD5446B
	variantCount
)

// BusType is the host bus the card is attached to.
type BusType int

const (
	BusISA BusType = iota
	BusVLB
	BusMCA
	BusPCI
	busCount
)

var busNames = [busCount]string{"isa", "vlb", "mca", "pci"}

func (b BusType) String() string {
	if b < 0 || b >= busCount {
		return fmt.Sprintf("bus(%d)", int(b))
	}
	return busNames[b]
}

// ParseBus accepts the lower-case names printed by String.
func ParseBus(name string) (BusType, error) {
	for i, n := range busNames {
		if strings.EqualFold(n, name) {
			return BusType(i), nil
		}
	}
	return 0, &CirrusError{Operation: "parse bus", Details: fmt.Sprintf("unknown bus %q", name)}
}

// VariantCaps describes what a chip implements.
type VariantCaps struct {
	Name        string
	ChipID      uint8 // CR27, 0 when CR27 reads back as stored
	PCIDeviceID uint8 // PCI config 0x02, 0xFF when the chip has no PCI interface

	VRAMSizes []int
	Buses     []BusType
	BusIDs    [busCount]uint8 // SR17 bits 3-5, 0 when the bus is not reported

	ExtendedRegs      bool // GR/SR indices above 0x0B decode (5426+)
	SetResetDisable   bool // SR07 disables set/reset in write mode 0 (5429+)
	MMIOWindow        bool // SR17 bit 2 maps the blitter at B8000 (5429+)
	LinearFromSR07    bool // linear window base comes from SR07 bits 4-7 (<= 5429)
	PCIMemGate        bool // PCI command memory bit gates the windows (5430+)
	ClassIDFF         bool // CR28 reads 0xFF (5430)
	TrueColour        bool // 32-bit blitter colours, 4 blit depths, 32bpp DAC mode (5434+)
	BlitExtensions    bool // GR1B / MMIO 0x1B and autostart status bit (5436+)
	DisplayStartBit19 bool // CR1D bit 7 (5436+)
	WideCRTCIndex     bool // CRTC index mask 0x7F (5446+)
	VideoPortSync     bool // CR3F vsync toggle (5446+)
	Overlay4xAddr     bool // overlay address in 4-byte units (5446+)
	Panning24Wide     bool // 24bpp pel panning in 2-pixel steps (5446+)
	CursorExtraOffset bool // cursor drawn 8 pixels early at 15/16bpp (<= 5428)
	TransparentColour bool // GR34-GR37 blitter transparency key (<= 5428)
	LFBMask           uint32
}

var cirrusVariants = [variantCount]VariantCaps{
	VariantAVGA2: {
		Name: "AVGA2", ChipID: 0x18, PCIDeviceID: 0xFF,
		VRAMSizes:         []int{256 << 10, 512 << 10},
		Buses:             []BusType{BusISA},
		CursorExtraOffset: true, TransparentColour: true, LinearFromSR07: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5426: {
		Name: "GD5426", ChipID: 0x90, PCIDeviceID: 0xFF,
		VRAMSizes:    []int{1 << 20, 2 << 20},
		Buses:        []BusType{BusISA, BusVLB, BusMCA},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 6, BusMCA: 5},
		ExtendedRegs: true, CursorExtraOffset: true, TransparentColour: true, LinearFromSR07: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5428: {
		Name: "GD5428", ChipID: 0x98, PCIDeviceID: 0xFF,
		VRAMSizes:    []int{1 << 20, 2 << 20},
		Buses:        []BusType{BusISA, BusVLB, BusMCA},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 6, BusMCA: 5},
		ExtendedRegs: true, CursorExtraOffset: true, TransparentColour: true, LinearFromSR07: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5429: {
		Name: "GD5429", ChipID: 0x9C, PCIDeviceID: 0xFF,
		VRAMSizes:    []int{1 << 20, 2 << 20},
		Buses:        []BusType{BusISA, BusVLB},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 5},
		ExtendedRegs: true, SetResetDisable: true, MMIOWindow: true, LinearFromSR07: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5430: {
		Name: "GD5430", ChipID: 0xA0, PCIDeviceID: 0xA0,
		VRAMSizes:    []int{1 << 20, 2 << 20},
		Buses:        []BusType{BusISA, BusVLB, BusPCI},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 6, BusPCI: 4},
		ExtendedRegs: true, SetResetDisable: true, MMIOWindow: true, PCIMemGate: true, ClassIDFF: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5434: {
		Name: "GD5434", ChipID: 0xA8, PCIDeviceID: 0xA8,
		VRAMSizes:    []int{2 << 20, 4 << 20},
		Buses:        []BusType{BusISA, BusVLB, BusPCI},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 6, BusPCI: 4},
		ExtendedRegs: true, SetResetDisable: true, MMIOWindow: true, PCIMemGate: true, TrueColour: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5436: {
		Name: "GD5436", ChipID: 0, PCIDeviceID: 0xFF,
		VRAMSizes:    []int{2 << 20, 4 << 20},
		Buses:        []BusType{BusISA, BusVLB, BusPCI},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 6, BusPCI: 4},
		ExtendedRegs: true, SetResetDisable: true, MMIOWindow: true, PCIMemGate: true, TrueColour: true,
		BlitExtensions: true, DisplayStartBit19: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5446: {
		Name: "GD5446", ChipID: 0xB8, PCIDeviceID: 0xB8,
		VRAMSizes:    []int{2 << 20, 4 << 20},
		Buses:        []BusType{BusPCI},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 6, BusPCI: 4},
		ExtendedRegs: true, SetResetDisable: true, MMIOWindow: true, PCIMemGate: true, TrueColour: true,
		BlitExtensions: true, DisplayStartBit19: true, WideCRTCIndex: true, VideoPortSync: true,
		Overlay4xAddr: true, Panning24Wide: true,
		LFBMask: 0xFF000000,
	},
	VariantGD5446B: {
		Name: "GD5446B", ChipID: 0xB8, PCIDeviceID: 0xB8,
		VRAMSizes:    []int{2 << 20, 4 << 20},
		Buses:        []BusType{BusPCI},
		BusIDs:       [busCount]uint8{BusISA: 7, BusVLB: 6, BusPCI: 4},
		ExtendedRegs: true, SetResetDisable: true, MMIOWindow: true, PCIMemGate: true, TrueColour: true,
		BlitExtensions: true, DisplayStartBit19: true, WideCRTCIndex: true, VideoPortSync: true,
		Overlay4xAddr: true, Panning24Wide: true,
		LFBMask: 0xFE000000,
	},
}

// Caps returns the descriptor for v. Unknown variants get the AVGA2 descriptor.
func (v Variant) Caps() *VariantCaps {
	if v < 0 || v >= variantCount {
		return &cirrusVariants[VariantAVGA2]
	}
	return &cirrusVariants[v]
}

func (v Variant) String() string {
	if v < 0 || v >= variantCount {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return cirrusVariants[v].Name
}

// ParseVariant accepts chip names with or without the "gd" prefix.
func ParseVariant(name string) (Variant, error) {
	want := strings.TrimPrefix(strings.ToLower(name), "cl-")
	for i := range cirrusVariants {
		n := strings.ToLower(cirrusVariants[i].Name)
		if want == n || "gd"+want == n {
			return Variant(i), nil
		}
	}
	return 0, &CirrusError{Operation: "parse variant", Details: fmt.Sprintf("unknown chip %q", name)}
}

// Variants lists every supported chip in generation order.
func Variants() []Variant {
	out := make([]Variant, variantCount)
	for i := range out {
		out[i] = Variant(i)
	}
	return out
}

// SupportsVRAM reports whether size is a configuration the chip shipped with.
func (c *VariantCaps) SupportsVRAM(size int) bool {
	for _, s := range c.VRAMSizes {
		if s == size {
			return true
		}
	}
	return false
}

// SupportsBus reports whether the chip can sit on bus.
func (c *VariantCaps) SupportsBus(bus BusType) bool {
	for _, b := range c.Buses {
		if b == bus {
			return true
		}
	}
	return false
}

// crtcIndexMask is the number of decoded CRTC index bits.
func (c *VariantCaps) crtcIndexMask() uint8 {
	if c.WideCRTCIndex {
		return 0x7F
	}
	return 0x3F
}

// blitWidthMask, blitHeightMask and blitAddrMask bound the blitter registers.
func (c *VariantCaps) blitWidthMask() uint16 {
	if c.TrueColour {
		return 0x1FFF
	}
	return 0x07FF
}

func (c *VariantCaps) blitHeightMask() uint16 {
	if c.TrueColour {
		return 0x07FF
	}
	return 0x03FF
}

func (c *VariantCaps) blitAddrMask() uint32 {
	if c.TrueColour {
		return 0x3FFFFF
	}
	return 0x1FFFFF
}

func (c *VariantCaps) blitDepthMask() uint8 {
	if c.TrueColour {
		return 3
	}
	return 1
}

// clockDividerMask selects the SR07 bits that divide VCLK.
func (c *VariantCaps) clockDividerMask() uint8 {
	if c.TrueColour {
		return 0x0E
	}
	return 0x06
}
