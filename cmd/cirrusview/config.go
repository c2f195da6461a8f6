// config.go - Command line parsing for the viewer

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
	"flag"
	"fmt"
	"io"
	"strings"

	cirrus "github.com/intuitionamiga/CirrusEngine"
)

// hostConfig is everything the command line controls.
type hostConfig struct {
	card      cirrus.Config
	romPath   string
	script    string
	once      bool
	monitor   bool
	scale     int
	testcard  string
	logEcho   bool
	statsview bool
}

const usageLine = "Usage: cirrusview [-variant gd5434] [-vram KB] [-bus pci] [-testcard 640x480x16] [-script file.lua [-once]] [-monitor]"

// parseFlags turns args (without the program name) into a hostConfig.
// Omitted VRAM defaults to the largest size the chip shipped with, and an
// omitted bus to PCI, then VLB, then the chip's first bus.
func parseFlags(args []string, usage io.Writer) (hostConfig, error) {
	var (
		cfg     hostConfig
		variant string
		vramKB  int
		bus     string
		lfb     string
	)

	flagSet := flag.NewFlagSet("cirrusview", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&variant, "variant", "gd5434", "Chip: avga2, gd5426, gd5428, gd5429, gd5430, gd5434, gd5436, gd5446, gd5446b")
	flagSet.IntVar(&vramKB, "vram", 0, "VRAM size in KB (0 for the largest the chip shipped with)")
	flagSet.StringVar(&bus, "bus", "", "Host bus: isa, vlb, mca, pci")
	flagSet.StringVar(&lfb, "lfb", "0xE0000000", "Initial PCI linear framebuffer base")
	flagSet.StringVar(&cfg.romPath, "rom", "", "Option ROM image mapped at the expansion ROM BAR")
	flagSet.StringVar(&cfg.script, "script", "", "Lua script to run at start-up")
	flagSet.BoolVar(&cfg.once, "once", false, "Exit when the script finishes")
	flagSet.BoolVar(&cfg.monitor, "monitor", false, "Start the register monitor on the terminal")
	flagSet.IntVar(&cfg.scale, "scale", 1, "Window scale factor")
	flagSet.StringVar(&cfg.testcard, "testcard", "", "Show a test card in MODE (WIDTHxHEIGHTxBPP or text)")
	flagSet.BoolVar(&cfg.logEcho, "log", false, "Echo the log to stderr")
	flagSet.BoolVar(&cfg.statsview, "statsview", false, "Serve runtime statistics (statsview builds only)")

	flagSet.Usage = func() {
		fmt.Fprintln(usage, usageLine)
		flagSet.SetOutput(usage)
		flagSet.PrintDefaults()
		flagSet.SetOutput(io.Discard)
	}

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
		}
		return hostConfig{}, err
	}
	if flagSet.NArg() > 0 {
		return hostConfig{}, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}

	v, err := cirrus.ParseVariant(variant)
	if err != nil {
		return hostConfig{}, err
	}
	caps := v.Caps()
	cfg.card = cirrus.Config{Variant: v, LFBBase: cirrus.CL_DEFAULT_LFB_BASE}

	if vramKB == 0 {
		for _, s := range caps.VRAMSizes {
			cfg.card.VRAMSize = max(cfg.card.VRAMSize, s)
		}
	} else {
		cfg.card.VRAMSize = vramKB << 10
	}

	if bus == "" {
		cfg.card.Bus = caps.Buses[0]
		for _, b := range []cirrus.BusType{cirrus.BusPCI, cirrus.BusVLB} {
			if caps.SupportsBus(b) {
				cfg.card.Bus = b
				break
			}
		}
	} else if cfg.card.Bus, err = cirrus.ParseBus(bus); err != nil {
		return hostConfig{}, err
	}

	base, ok := ParseNumber(strings.TrimSpace(lfb))
	if !ok {
		return hostConfig{}, fmt.Errorf("bad -lfb %q", lfb)
	}
	cfg.card.LFBBase = base

	if cfg.scale < 1 || cfg.scale > 8 {
		return hostConfig{}, fmt.Errorf("-scale must be 1..8")
	}
	if cfg.testcard != "" {
		if _, err := parseMode(cfg.testcard); err != nil {
			return hostConfig{}, err
		}
	}
	if cfg.once && cfg.script == "" {
		return hostConfig{}, fmt.Errorf("-once needs -script")
	}
	return cfg, nil
}
