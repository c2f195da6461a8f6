// script.go - Lua scripting of port and memory traffic

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
Scripts drive the card the way a guest driver would: port writes, memory
writes through the decoded windows, and frames on demand. Every binding is a
global function:

	outb(port, v)  outw(port, v)  outl(port, v)  inb(port)  inl(port)
	poke8/16/32(addr, v)  peek8/16/32(addr)
	reg(bank, index [, v])  pci(offset [, v])  dac(i, r, g, b)
	mode(spec)  testcard([spec])  frame()  timings()  blit()
	screenshot(path)  reset()  sleep(ms)  log(msg)
*/

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	cirrus "github.com/intuitionamiga/CirrusEngine"
	"github.com/intuitionamiga/CirrusEngine/internal/logger"
)

type scriptHost struct {
	m   *Machine
	v   *viewer
	out io.Writer
}

func newScriptHost(m *Machine, v *viewer, out io.Writer) *scriptHost {
	return &scriptHost{m: m, v: v, out: out}
}

// newState builds an interpreter with the card bindings installed.
func (s *scriptHost) newState(ctx context.Context) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)
	for name, fn := range map[string]lua.LGFunction{
		"outb":       s.outb,
		"outw":       s.outw,
		"outl":       s.outl,
		"inb":        s.inb,
		"inl":        s.inl,
		"poke8":      s.poke(1),
		"poke16":     s.poke(2),
		"poke32":     s.poke(4),
		"peek8":      s.peek(1),
		"peek16":     s.peek(2),
		"peek32":     s.peek(4),
		"reg":        s.reg,
		"pci":        s.pci,
		"dac":        s.dac,
		"mode":       s.mode,
		"testcard":   s.testcard,
		"frame":      s.frame,
		"timings":    s.timings,
		"blit":       s.blit,
		"screenshot": s.screenshot,
		"reset":      s.reset,
		"sleep":      s.sleep,
		"log":        s.log,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L
}

// RunFile executes a script file.
func (s *scriptHost) RunFile(ctx context.Context, path string) error {
	L := s.newState(ctx)
	defer L.Close()
	logger.Logf(logger.Allow, "script", "running %s", path)
	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// RunString executes a chunk of source.
func (s *scriptHost) RunString(ctx context.Context, src string) error {
	L := s.newState(ctx)
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func checkU32(L *lua.LState, n int) uint32 {
	return uint32(L.CheckInt64(n))
}

func (s *scriptHost) outb(L *lua.LState) int {
	s.m.Out8(uint16(L.CheckInt(1)), uint8(L.CheckInt(2)))
	return 0
}

func (s *scriptHost) outw(L *lua.LState) int {
	s.m.Out16(uint16(L.CheckInt(1)), uint16(L.CheckInt(2)))
	return 0
}

func (s *scriptHost) outl(L *lua.LState) int {
	s.m.Out32(uint16(L.CheckInt(1)), checkU32(L, 2))
	return 0
}

func (s *scriptHost) inb(L *lua.LState) int {
	L.Push(lua.LNumber(s.m.In8(uint16(L.CheckInt(1)))))
	return 1
}

func (s *scriptHost) inl(L *lua.LState) int {
	L.Push(lua.LNumber(s.m.In32(uint16(L.CheckInt(1)))))
	return 1
}

func (s *scriptHost) poke(size int) lua.LGFunction {
	return func(L *lua.LState) int {
		addr, v := checkU32(L, 1), checkU32(L, 2)
		switch size {
		case 1:
			s.m.Write8(addr, uint8(v))
		case 2:
			s.m.Write16(addr, uint16(v))
		default:
			s.m.Write32(addr, v)
		}
		return 0
	}
}

func (s *scriptHost) peek(size int) lua.LGFunction {
	return func(L *lua.LState) int {
		addr := checkU32(L, 1)
		var v uint32
		switch size {
		case 1:
			v = uint32(s.m.Read8(addr))
		case 2:
			v = uint32(s.m.Read16(addr))
		default:
			v = s.m.Read32(addr)
		}
		L.Push(lua.LNumber(v))
		return 1
	}
}

func parseBank(name string) (cirrus.RegisterBank, bool) {
	for b := cirrus.BankSequencer; b <= cirrus.BankAttribute; b++ {
		if strings.EqualFold(b.String(), name) {
			return b, true
		}
	}
	return 0, false
}

// reg(bank, index) reads, reg(bank, index, v) writes.
func (s *scriptHost) reg(L *lua.LState) int {
	bank, ok := parseBank(L.CheckString(1))
	if !ok {
		L.ArgError(1, "bank must be seq, gc, crtc or attr")
		return 0
	}
	idx := uint8(L.CheckInt(2))
	if L.GetTop() >= 3 {
		v := uint8(L.CheckInt(3))
		s.m.Do(func(card *cirrus.CirrusEngine) { card.WriteRegister(bank, idx, v) })
		return 0
	}
	var v uint8
	s.m.Do(func(card *cirrus.CirrusEngine) { v = card.ReadRegister(bank, idx) })
	L.Push(lua.LNumber(v))
	return 1
}

// pci(offset) reads a config byte through mechanism #1; pci(offset, v)
// writes one.
func (s *scriptHost) pci(L *lua.LState) int {
	off := uint8(L.CheckInt(1))
	s.m.Out32(PCI_CONFIG_ADDRESS, PCIConfigAddress(off))
	port := uint16(PCI_CONFIG_DATA) + uint16(off&3)
	if L.GetTop() >= 2 {
		s.m.Out8(port, uint8(L.CheckInt(2)))
		return 0
	}
	L.Push(lua.LNumber(s.m.In8(port)))
	return 1
}

func (s *scriptHost) dac(L *lua.LState) int {
	s.m.SetDAC(uint8(L.CheckInt(1)), uint8(L.CheckInt(2)), uint8(L.CheckInt(3)), uint8(L.CheckInt(4)))
	return 0
}

func (s *scriptHost) mode(L *lua.LState) int {
	vm, err := parseMode(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	base, err := s.m.SetMode(vm)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(base))
	return 1
}

func (s *scriptHost) testcard(L *lua.LState) int {
	vm, err := parseMode(L.OptString(1, "640x480x16"))
	if err == nil {
		err = ShowTestCard(s.m, vm)
	}
	if err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// frame() renders and presents one frame and returns the frame count.
func (s *scriptHost) frame(L *lua.LState) int {
	s.v.Frame()
	L.Push(lua.LNumber(s.v.FrameCount()))
	return 1
}

func (s *scriptHost) timings(L *lua.LState) int {
	var t cirrus.Timings
	s.m.Do(func(card *cirrus.CirrusEngine) { t = card.RecalcTimings() })
	tbl := L.NewTable()
	tbl.RawSetString("width", lua.LNumber(t.HDisp))
	tbl.RawSetString("height", lua.LNumber(t.DispEnd))
	tbl.RawSetString("bpp", lua.LNumber(t.BPP))
	tbl.RawSetString("render", lua.LString(t.Render.String()))
	tbl.RawSetString("clock", lua.LNumber(t.PixelClock))
	tbl.RawSetString("start", lua.LNumber(t.StartAddr))
	tbl.RawSetString("offset", lua.LNumber(t.RowOffset))
	tbl.RawSetString("interlace", lua.LBool(t.Interlace))
	L.Push(tbl)
	return 1
}

func (s *scriptHost) blit(L *lua.LState) int {
	var phase cirrus.BlitPhase
	s.m.Do(func(card *cirrus.CirrusEngine) { phase = card.BlitPhase() })
	L.Push(lua.LString(phase.String()))
	return 1
}

func (s *scriptHost) screenshot(L *lua.LState) int {
	if err := s.v.Screenshot(L.CheckString(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *scriptHost) reset(L *lua.LState) int {
	s.m.Reset()
	return 0
}

func (s *scriptHost) sleep(L *lua.LState) int {
	d := time.Duration(L.CheckInt(1)) * time.Millisecond
	select {
	case <-time.After(d):
	case <-L.Context().Done():
		L.RaiseError("interrupted")
	}
	return 0
}

func (s *scriptHost) log(L *lua.LState) int {
	msg := L.CheckString(1)
	logger.Log(logger.Allow, "script", msg)
	if s.out != nil {
		fmt.Fprintln(s.out, msg)
	}
	return 0
}
