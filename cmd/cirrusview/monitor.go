// monitor.go - Terminal register monitor

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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	cirrus "github.com/intuitionamiga/CirrusEngine"
	"github.com/intuitionamiga/CirrusEngine/internal/logger"
)

type monitorStyles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	on     lipgloss.Style
	err    lipgloss.Style
}

func newMonitorStyles() monitorStyles {
	return monitorStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		label:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		value:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(15)),
		on:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(10)),
		err:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}

// MonitorCommand is a parsed command with name and arguments.
type MonitorCommand struct {
	Name string
	Args []string
}

// ParseCommand splits a raw input line into a command name and arguments.
func ParseCommand(input string) MonitorCommand {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return MonitorCommand{}
	}
	return MonitorCommand{Name: strings.ToLower(parts[0]), Args: parts[1:]}
}

// ParseNumber parses $hex, 0xhex, #decimal or bare hex.
func ParseNumber(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	base := 16
	switch {
	case s == "":
		return 0, false
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 10
	case strings.HasPrefix(s, "$"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, base, 32)
	return uint32(v), err == nil
}

type monitor struct {
	m      *Machine
	v      *viewer
	script *scriptHost
	st     monitorStyles
	out    io.Writer
}

func newMonitor(m *Machine, v *viewer, script *scriptHost, out io.Writer) *monitor {
	return &monitor{m: m, v: v, script: script, st: newMonitorStyles(), out: out}
}

// Run reads commands from stdin until quit, EOF or ctx ends.
func (mon *monitor) Run(ctx context.Context, in, out *os.File) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("monitor: raw mode: %w", err)
		}
		defer term.Restore(fd, old)
	}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, out}, "cirrus> ")
	mon.out = t

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		for {
			line, err := t.ReadLine()
			if err != nil {
				errc <- err
				return
			}
			lines <- line
		}
	}()

	fmt.Fprintln(mon.out, mon.st.header.Render("CirrusEngine monitor, 'help' lists commands"))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err == io.EOF {
				return nil
			}
			return err
		case line := <-lines:
			if mon.Exec(ctx, line) {
				return nil
			}
		}
	}
}

// Exec runs one command line and reports whether the monitor should exit.
func (mon *monitor) Exec(ctx context.Context, line string) bool {
	cmd := ParseCommand(line)
	var err error
	switch cmd.Name {
	case "":
	case "quit", "exit", "q":
		return true
	case "help", "?":
		mon.help()
	case "regs", "r":
		err = mon.regs(cmd.Args)
	case "timings", "t":
		mon.timings()
	case "map":
		mon.mapping()
	case "blit":
		mon.blit()
	case "cursor":
		mon.cursor()
	case "overlay":
		mon.overlay()
	case "out":
		err = mon.out8(cmd.Args)
	case "in":
		err = mon.in8(cmd.Args)
	case "poke":
		err = mon.poke(cmd.Args)
	case "peek":
		err = mon.peek(cmd.Args)
	case "pci":
		err = mon.pci(cmd.Args)
	case "mode":
		err = mon.mode(cmd.Args)
	case "testcard":
		err = mon.testcard(cmd.Args)
	case "frame":
		mon.v.Frame()
		mon.printf("frame %d\n", mon.v.FrameCount())
	case "shot":
		if len(cmd.Args) != 1 {
			err = fmt.Errorf("usage: shot FILE")
		} else {
			err = mon.v.Screenshot(cmd.Args[0])
		}
	case "lua":
		err = mon.script.RunString(ctx, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd.Name)))
	case "run":
		if len(cmd.Args) != 1 {
			err = fmt.Errorf("usage: run FILE")
		} else {
			err = mon.script.RunFile(ctx, cmd.Args[0])
		}
	case "log":
		n := 20
		if len(cmd.Args) > 0 {
			if v, ok := ParseNumber("#" + cmd.Args[0]); ok {
				n = int(v)
			}
		}
		logger.Tail(mon.out, n)
	case "reset":
		mon.m.Reset()
	default:
		err = fmt.Errorf("unknown command %q", cmd.Name)
	}
	if err != nil {
		fmt.Fprintln(mon.out, mon.st.err.Render(err.Error()))
	}
	return false
}

func (mon *monitor) printf(format string, args ...any) {
	fmt.Fprintf(mon.out, format, args...)
}

func (mon *monitor) field(label string, value any) string {
	return mon.st.label.Render(label+"=") + mon.st.value.Render(fmt.Sprint(value))
}

func (mon *monitor) flag(name string, on bool) string {
	if on {
		return mon.st.on.Render(name)
	}
	return mon.st.label.Render(name)
}

func (mon *monitor) help() {
	for _, l := range []string{
		"regs [seq|gc|crtc|attr]   dump register banks",
		"timings                   display geometry and depth",
		"map                       decoded memory windows",
		"blit | cursor | overlay   engine state",
		"out PORT VAL | in PORT    port I/O",
		"poke ADDR VAL [8|16|32]   bus write",
		"peek ADDR [8|16|32]       bus read",
		"pci [OFF [VAL]]           config space",
		"mode SPEC | testcard [SPEC]",
		"frame | shot FILE | log [N] | reset",
		"lua CODE | run FILE | quit",
	} {
		fmt.Fprintln(mon.out, l)
	}
}

func (mon *monitor) regs(args []string) error {
	banks := []cirrus.RegisterBank{cirrus.BankSequencer, cirrus.BankGraphics, cirrus.BankCRTC, cirrus.BankAttribute}
	if len(args) > 0 {
		b, ok := parseBank(args[0])
		if !ok {
			return fmt.Errorf("unknown bank %q", args[0])
		}
		banks = []cirrus.RegisterBank{b}
	}
	var snap cirrus.RegisterSnapshot
	mon.m.Do(func(card *cirrus.CirrusEngine) { snap = card.Snapshot() })
	for _, b := range banks {
		var regs []uint8
		switch b {
		case cirrus.BankSequencer:
			regs = snap.Sequencer[:]
		case cirrus.BankGraphics:
			regs = snap.Graphics[:]
		case cirrus.BankCRTC:
			regs = snap.CRTC[:]
		case cirrus.BankAttribute:
			regs = snap.Attribute[:]
		}
		fmt.Fprintln(mon.out, mon.st.header.Render(b.String()))
		for i := 0; i < len(regs); i += 16 {
			var sb strings.Builder
			fmt.Fprintf(&sb, "%s ", mon.st.label.Render(fmt.Sprintf("%02X:", i)))
			for _, v := range regs[i:min(i+16, len(regs))] {
				fmt.Fprintf(&sb, " %02X", v)
			}
			fmt.Fprintln(mon.out, sb.String())
		}
	}
	mon.printf("%s %s\n", mon.field("misc", fmt.Sprintf("%02X", snap.Misc)), mon.field("hdac", fmt.Sprintf("%02X", snap.HiddenDAC)))
	return nil
}

func (mon *monitor) timings() {
	var t cirrus.Timings
	mon.m.Do(func(card *cirrus.CirrusEngine) { t = card.RecalcTimings() })
	mon.printf("%s %s %s %s\n", mon.field("size", fmt.Sprintf("%dx%d", t.HDisp, t.DispEnd)),
		mon.field("total", fmt.Sprintf("%dx%d", t.HTotal, t.VTotal)),
		mon.field("render", t.Render), mon.field("bpp", t.BPP))
	mon.printf("%s %s %s %s\n", mon.field("start", fmt.Sprintf("%05X", t.StartAddr)),
		mon.field("offset", fmt.Sprintf("%03X", t.RowOffset)),
		mon.field("clock", fmt.Sprintf("%.3fMHz", t.PixelClock/1e6)),
		mon.field("pan", fmt.Sprintf("%d/%d", t.PanSrc, t.PanDst)))
	mon.printf("%s %s\n", mon.flag("interlace", t.Interlace), mon.flag("linedbl", t.LineDouble))
}

func (mon *monitor) mapping() {
	ms := mon.m.Mapping()
	win := func(name string, w cirrus.Window) {
		mon.printf("%s %s %s\n", mon.flag(fmt.Sprintf("%-7s", name), w.Enabled),
			mon.field("base", fmt.Sprintf("%08X", w.Base)), mon.field("size", fmt.Sprintf("%X", w.Size)))
	}
	win("banked", ms.Banked)
	win("linear", ms.Linear)
	win("mmio", ms.MMIO)
	mon.printf("%s\n", mon.field("decode", fmt.Sprintf("%06X", ms.DecodeMask)))
	for _, r := range mon.m.Regions() {
		mon.printf("  %08X-%08X %s\n", r.start, r.end, r.name)
	}
}

func (mon *monitor) blit() {
	var b cirrus.BlitRegisters
	var phase cirrus.BlitPhase
	mon.m.Do(func(card *cirrus.CirrusEngine) {
		b = card.BlitRegisters()
		phase = card.BlitPhase()
	})
	mon.printf("%s %s %s\n", mon.field("phase", phase), mon.field("size", fmt.Sprintf("%dx%d", int(b.Width)+1, int(b.Height)+1)),
		mon.field("status", fmt.Sprintf("%02X", b.Status)))
	mon.printf("%s %s %s %s\n", mon.field("dst", fmt.Sprintf("%06X", b.DstAddr)), mon.field("src", fmt.Sprintf("%06X", b.SrcAddr)),
		mon.field("dpitch", b.DstPitch), mon.field("spitch", b.SrcPitch))
	mon.printf("%s %s %s %s %s\n", mon.field("mode", fmt.Sprintf("%02X", b.Mode)), mon.field("rop", fmt.Sprintf("%02X", b.ROP)),
		mon.field("fg", fmt.Sprintf("%08X", b.FgColour)), mon.field("bg", fmt.Sprintf("%08X", b.BgColour)),
		mon.field("depth", b.Depth))
}

func (mon *monitor) cursor() {
	var c cirrus.CursorState
	var pal [2]uint32
	mon.m.Do(func(card *cirrus.CirrusEngine) {
		c = card.Cursor()
		pal = card.CursorPalette()
	})
	mon.printf("%s %s %s %s %s\n", mon.flag("enabled", c.Enabled), mon.field("pos", fmt.Sprintf("%d,%d", c.X, c.Y)),
		mon.field("size", c.YSize), mon.field("addr", fmt.Sprintf("%06X", c.Addr)),
		mon.field("colours", fmt.Sprintf("%06X/%06X", pal[0], pal[1])))
}

func (mon *monitor) overlay() {
	var o cirrus.OverlayInfo
	mon.m.Do(func(card *cirrus.CirrusEngine) { o = card.Overlay() })
	mon.printf("%s %s %s %s\n", mon.flag("enabled", o.Enabled), mon.field("format", o.Format),
		mon.field("regions", fmt.Sprintf("%d+%d", o.Region1Size, o.Region2Size)),
		mon.field("lines", fmt.Sprintf("%d+%d", o.StartLine, o.Lines)))
	mon.printf("%s %s %s %s\n", mon.field("addr", fmt.Sprintf("%06X", o.Addr)), mon.field("pitch", o.Pitch),
		mon.field("zoom", fmt.Sprintf("%d/%d", o.HZoom, o.VZoom)), mon.flag("occlusion", o.Occlusion))
}

func numbers(args []string, want int, usage string) ([]uint32, error) {
	if len(args) < want {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	out := make([]uint32, len(args))
	for i, a := range args {
		v, ok := ParseNumber(a)
		if !ok {
			return nil, fmt.Errorf("bad number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func (mon *monitor) out8(args []string) error {
	n, err := numbers(args, 2, "out PORT VAL")
	if err != nil {
		return err
	}
	mon.m.Out8(uint16(n[0]), uint8(n[1]))
	return nil
}

func (mon *monitor) in8(args []string) error {
	n, err := numbers(args, 1, "in PORT")
	if err != nil {
		return err
	}
	mon.printf("%s\n", mon.field(fmt.Sprintf("%04X", n[0]), fmt.Sprintf("%02X", mon.m.In8(uint16(n[0])))))
	return nil
}

// width takes the optional trailing access size, in decimal bits.
func width(args []string, at int) (int, error) {
	if len(args) <= at {
		return 8, nil
	}
	switch args[at] {
	case "8", "16", "32":
		w, _ := strconv.Atoi(args[at])
		return w, nil
	}
	return 0, fmt.Errorf("width must be 8, 16 or 32")
}

func (mon *monitor) poke(args []string) error {
	n, err := numbers(args[:min(len(args), 2)], 2, "poke ADDR VAL [8|16|32]")
	if err != nil {
		return err
	}
	w, err := width(args, 2)
	if err != nil {
		return err
	}
	switch w {
	case 8:
		mon.m.Write8(n[0], uint8(n[1]))
	case 16:
		mon.m.Write16(n[0], uint16(n[1]))
	default:
		mon.m.Write32(n[0], n[1])
	}
	return nil
}

func (mon *monitor) peek(args []string) error {
	n, err := numbers(args[:min(len(args), 1)], 1, "peek ADDR [8|16|32]")
	if err != nil {
		return err
	}
	w, err := width(args, 1)
	if err != nil {
		return err
	}
	var v uint32
	switch w {
	case 8:
		v = uint32(mon.m.Read8(n[0]))
	case 16:
		v = uint32(mon.m.Read16(n[0]))
	default:
		v = mon.m.Read32(n[0])
	}
	mon.printf("%s\n", mon.field(fmt.Sprintf("%08X", n[0]), fmt.Sprintf("%0*X", w/4, v)))
	return nil
}

// pci dumps the first 64 config bytes, reads one or writes one.
func (mon *monitor) pci(args []string) error {
	n, err := numbers(args, 0, "pci [OFF [VAL]]")
	if err != nil {
		return err
	}
	read := func(off uint8) uint8 {
		mon.m.Out32(PCI_CONFIG_ADDRESS, PCIConfigAddress(off))
		return mon.m.In8(PCI_CONFIG_DATA + uint16(off&3))
	}
	switch len(n) {
	case 0:
		for row := 0; row < 64; row += 16 {
			var sb strings.Builder
			sb.WriteString(mon.st.label.Render(fmt.Sprintf("%02X:", row)))
			for i := 0; i < 16; i++ {
				fmt.Fprintf(&sb, " %02X", read(uint8(row+i)))
			}
			fmt.Fprintln(mon.out, sb.String())
		}
	case 1:
		mon.printf("%s\n", mon.field(fmt.Sprintf("%02X", n[0]), fmt.Sprintf("%02X", read(uint8(n[0])))))
	default:
		off := uint8(n[0])
		mon.m.Out32(PCI_CONFIG_ADDRESS, PCIConfigAddress(off))
		mon.m.Out8(PCI_CONFIG_DATA+uint16(off&3), uint8(n[1]))
	}
	return nil
}

func (mon *monitor) mode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: mode WIDTHxHEIGHTxBPP | text")
	}
	vm, err := parseMode(args[0])
	if err != nil {
		return err
	}
	base, err := mon.m.SetMode(vm)
	if err != nil {
		return err
	}
	mon.printf("%s %s\n", mon.field("mode", vm), mon.field("fb", fmt.Sprintf("%08X", base)))
	return nil
}

func (mon *monitor) testcard(args []string) error {
	spec := "640x480x16"
	if len(args) > 0 {
		spec = args[0]
	}
	vm, err := parseMode(spec)
	if err != nil {
		return err
	}
	return ShowTestCard(mon.m, vm)
}
