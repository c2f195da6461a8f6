// cirrus_engine_test.go - Construction, configuration parsing and reset

package cirrus

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCirrusEngine_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown variant", Config{Variant: variantCount, VRAMSize: 4 << 20, Bus: BusPCI}, "unknown variant"},
		{"negative variant", Config{Variant: -1, VRAMSize: 4 << 20, Bus: BusPCI}, "unknown variant"},
		{"3MB", Config{Variant: VariantGD5434, VRAMSize: 3 << 20, Bus: BusPCI}, "power of two"},
		{"8MB", Config{Variant: VariantGD5434, VRAMSize: 8 << 20, Bus: BusPCI}, "outside"},
		{"zero", Config{Variant: VariantGD5434, VRAMSize: 0, Bus: BusPCI}, "power of two"},
		{"AVGA2 4MB", Config{Variant: VariantAVGA2, VRAMSize: 4 << 20, Bus: BusISA}, "does not ship"},
		{"GD5446 ISA", Config{Variant: VariantGD5446, VRAMSize: 4 << 20, Bus: BusISA}, "cannot sit on isa"},
		{"GD5428 PCI", Config{Variant: VariantGD5428, VRAMSize: 2 << 20, Bus: BusPCI}, "cannot sit on pci"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := NewCirrusEngine(tc.cfg, nil)
			if err == nil {
				t.Fatalf("got engine %v, want error", e.Variant())
			}
			var ce *CirrusError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not a *CirrusError", err)
			}
			if ce.Operation != "create engine" {
				t.Errorf("operation: got %q", ce.Operation)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestNewCirrusEngine_EveryShippedConfig(t *testing.T) {
	for _, v := range Variants() {
		caps := v.Caps()
		for _, size := range caps.VRAMSizes {
			for _, bus := range caps.Buses {
				e, err := NewCirrusEngine(Config{Variant: v, VRAMSize: size, Bus: bus, LFBBase: CL_DEFAULT_LFB_BASE}, nil)
				if err != nil {
					t.Errorf("%s %dKB %s: %v", v, size>>10, bus, err)
					continue
				}
				if len(e.VRAM()) != size || e.VRAMMask() != uint32(size-1) {
					t.Errorf("%s: VRAM %d mask %X", v, len(e.VRAM()), e.VRAMMask())
				}
				if e.Variant() != v || e.Bus() != bus || e.Caps() != caps {
					t.Errorf("%s: identity mismatch", v)
				}
			}
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Variant != VariantGD5434 || cfg.VRAMSize != 4<<20 || cfg.Bus != BusPCI || cfg.LFBBase != CL_DEFAULT_LFB_BASE {
		t.Errorf("DefaultConfig: %+v", cfg)
	}
	if _, err := NewCirrusEngine(cfg, nil); err != nil {
		t.Errorf("DefaultConfig does not build: %v", err)
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
	}{
		{"GD5434", VariantGD5434},
		{"gd5446b", VariantGD5446B},
		{"5428", VariantGD5428},
		{"CL-GD5436", VariantGD5436},
		{"avga2", VariantAVGA2},
	}
	for _, tc := range tests {
		got, err := ParseVariant(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseVariant(%q): got %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseVariant("gd5480"); err == nil {
		t.Error("ParseVariant accepted an unknown chip")
	}
	if got := Variant(42).String(); got != "variant(42)" {
		t.Errorf("String: got %q", got)
	}
}

func TestParseBus(t *testing.T) {
	for _, b := range []BusType{BusISA, BusVLB, BusMCA, BusPCI} {
		got, err := ParseBus(strings.ToUpper(b.String()))
		if err != nil || got != b {
			t.Errorf("ParseBus(%q): got %v, %v", b.String(), got, err)
		}
	}
	if _, err := ParseBus("eisa"); err == nil {
		t.Error("ParseBus accepted eisa")
	}
}

func TestReset_KeepsVRAM(t *testing.T) {
	r := newCirrusTestRig(t)
	r.packedChain4()
	r.e.WriteByte(0x1234, 0x5A)
	r.gc(CL_GC_BANK0, 4)
	r.setHiddenDAC(0xC1)

	r.e.Reset()
	if got := r.e.VRAM()[0x1234]; got != 0x5A {
		t.Errorf("VRAM lost across reset: %02X", got)
	}
	if r.e.HiddenDAC() != 0 || r.e.Snapshot().Graphics[CL_GC_BANK0] != 0 {
		t.Error("registers survived reset")
	}
	if m := r.e.Mapping(); !m.Banked.Enabled || m.Banked.Base != VGA_WINDOW_A0000 {
		t.Errorf("mapping after reset: %+v", m)
	}
	if r.e.BlitPhase() != BlitIdle {
		t.Error("blitter not idle after reset")
	}
}

func TestExpand6BitTo8Bit(t *testing.T) {
	for in, want := range map[uint8]uint8{0x00: 0x00, 0x3F: 0xFF, 0x20: 0x82, 0x7F: 0xFF} {
		if got := Expand6BitTo8Bit(in); got != want {
			t.Errorf("Expand6BitTo8Bit(%02X): got %02X, want %02X", in, got, want)
		}
	}
}

func TestCirrusError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &CirrusError{Operation: "load", Details: "rom", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
	if got := err.Error(); got != "cirrus load failed: rom: boom" {
		t.Errorf("Error: got %q", got)
	}
}
