//go:build headless

// machine_test.go - Host bus, port decode and window wiring

package main

import (
	"testing"

	cirrus "github.com/intuitionamiga/CirrusEngine"
)

func TestHostBus_MapLookupUnmap(t *testing.T) {
	bus := newHostBus()
	var wrote uint32
	bus.MapIO("dev", 0xFFF0, 0x1000F, func(addr uint32, size int) uint32 {
		return addr - 0xFFF0
	}, func(addr uint32, size int, value uint32) {
		wrote = value
	})

	if got := bus.Read8(0xFFF4); got != 4 {
		t.Fatalf("Read8 low page = %d, want 4", got)
	}
	if got := bus.Read32(0x10004); got != 0x14 {
		t.Fatalf("Read32 high page = %#x, want 0x14", got)
	}
	bus.Write16(0x10000, 0xBEEF)
	if wrote != 0xBEEF {
		t.Fatalf("write callback saw %#x", wrote)
	}

	if got := bus.Read8(0x10010); got != 0xFF {
		t.Fatalf("unmapped Read8 = %#x, want 0xFF", got)
	}
	if got := bus.Read16(0x20000); got != 0xFFFF {
		t.Fatalf("unmapped Read16 = %#x, want 0xFFFF", got)
	}

	bus.Unmap("dev")
	if got := bus.Read32(0xFFF4); got != 0xFFFFFFFF {
		t.Fatalf("Read32 after Unmap = %#x", got)
	}
	if n := len(bus.Regions()); n != 0 {
		t.Fatalf("%d regions left after Unmap", n)
	}
}

func TestMachine_LinearWindowWritesVRAM(t *testing.T) {
	m := newTestMachine(t)
	base := setTestMode(t, m, "640x480x16")

	ms := m.Mapping()
	if !ms.Linear.Enabled || ms.Linear.Base != base {
		t.Fatalf("linear window %+v, SetMode returned %#x", ms.Linear, base)
	}
	if ms.Banked.Enabled {
		t.Fatal("banked window still decoded in a linear mode")
	}

	m.Write32(base+0x100, 0x11223344)
	want := []uint8{0x44, 0x33, 0x22, 0x11}
	for i, w := range want {
		if got := vramByte(m, 0x100+uint32(i)); got != w {
			t.Fatalf("vram[%#x] = %#x, want %#x", 0x100+i, got, w)
		}
	}
	if got := m.Read32(base + 0x100); got != 0x11223344 {
		t.Fatalf("Read32 back = %#x", got)
	}

	var regions []string
	for _, r := range m.Regions() {
		regions = append(regions, r.name)
	}
	if len(regions) != 1 || regions[0] != regionVRAM {
		t.Fatalf("bus regions = %v, want only %s", regions, regionVRAM)
	}
}

func TestMachine_RemapFollowsRegisters(t *testing.T) {
	m := newTestMachine(t)
	before := m.remaps.Load()

	// GR06 map select 2 moves the banked window to B0000
	m.Do(func(card *cirrus.CirrusEngine) {
		card.WriteRegister(cirrus.BankGraphics, cirrus.VGA_GC_MISC, 0x09)
	})
	if m.remaps.Load() == before {
		t.Fatal("no remap after a GR06 write")
	}
	ms := m.Mapping()
	if !ms.Banked.Enabled || ms.Banked.Base != cirrus.VGA_WINDOW_B0000 {
		t.Fatalf("banked window %+v, want B0000", ms.Banked)
	}

	m.Write8(cirrus.VGA_WINDOW_B0000, 0x5A)
	if got := m.Read8(cirrus.VGA_WINDOW_B0000); got != 0x5A {
		t.Fatalf("read back through B0000 = %#x", got)
	}
	if got := m.Read8(cirrus.VGA_WINDOW_A0000); got != 0xFF {
		t.Fatalf("A0000 still decoded: %#x", got)
	}
}

func TestMachine_PCIConfigMechanism(t *testing.T) {
	m := newTestMachine(t)

	m.Out32(PCI_CONFIG_ADDRESS, PCIConfigAddress(0x00))
	if got := m.In8(PCI_CONFIG_DATA); got != cirrus.CL_PCI_VENDOR_LO {
		t.Fatalf("vendor low = %#x", got)
	}
	if got := m.In8(PCI_CONFIG_DATA + 2); got != 0xA8 {
		t.Fatalf("device id = %#x, want 0xA8", got)
	}
	if got := m.In32(PCI_CONFIG_ADDRESS); got != PCIConfigAddress(0) {
		t.Fatalf("config address reads back %#x", got)
	}

	// another slot does not answer
	m.Out32(PCI_CONFIG_ADDRESS, PCI_CONFIG_ENABLE|(PCI_CARD_DEVICE+1)<<11)
	if got := m.In8(PCI_CONFIG_DATA); got != 0xFF {
		t.Fatalf("empty slot read %#x", got)
	}
}

func TestMachine_ROMFollowsBAR(t *testing.T) {
	m := newTestMachine(t)
	if got := m.Read8(0xC0000); got != 0xFF {
		t.Fatalf("ROM decoded before the BAR was enabled: %#x", got)
	}

	writeCfg := func(off, v uint8) {
		m.Out32(PCI_CONFIG_ADDRESS, PCIConfigAddress(off))
		m.Out8(PCI_CONFIG_DATA+uint16(off&3), v)
	}
	writeCfg(0x32, 0x0C)
	writeCfg(0x33, 0x00)
	writeCfg(0x30, cirrus.CL_PCI_ROM_BAR_ENABLE)

	if got := m.Read16(0xC0000); got != 0xAA55 {
		t.Fatalf("ROM signature = %#x, want 0xAA55", got)
	}

	writeCfg(0x30, 0)
	if got := m.Read8(0xC0000); got != 0xFF {
		t.Fatalf("ROM still decoded after disable: %#x", got)
	}
}

func TestMachine_ISACardIgnoresPCIPorts(t *testing.T) {
	m, err := NewMachine(cirrus.Config{Variant: cirrus.VariantGD5428, VRAMSize: 1 << 20, Bus: cirrus.BusISA}, nil)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.Out32(PCI_CONFIG_ADDRESS, PCIConfigAddress(0))
	if got := m.In8(PCI_CONFIG_DATA); got != 0xFF {
		t.Fatalf("ISA card answered config read: %#x", got)
	}
	if got := m.In8(0x102); got != 0xFF {
		t.Fatalf("ISA card answered POS read: %#x", got)
	}
}

func TestMachine_VBlankIRQ(t *testing.T) {
	m := newTestMachine(t)
	setTestMode(t, m, "640x480x8")
	m.Do(func(card *cirrus.CirrusEngine) {
		card.WriteRegister(cirrus.BankGraphics, cirrus.CL_GC_IRQ_CTRL, cirrus.CL_GC_IRQ_VSYNCEN)
		card.WriteRegister(cirrus.BankCRTC, cirrus.VGA_CRTC_VRETRACE_END, 0x0C|cirrus.VGA_CRTC_VRE_IRQ_CLEAR)
	})

	r := newFrameRenderer()
	m.Do(func(card *cirrus.CirrusEngine) { r.Render(card) })
	if asserted, edges := m.IRQ(); !asserted || edges != 1 {
		t.Fatalf("after vblank irq=%v edges=%d, want true 1", asserted, edges)
	}

	m.Do(func(card *cirrus.CirrusEngine) {
		card.WriteRegister(cirrus.BankCRTC, cirrus.VGA_CRTC_VRETRACE_END, 0x0C)
	})
	if asserted, _ := m.IRQ(); asserted {
		t.Fatal("irq still asserted after CR11 clear")
	}
}
