// viewer.go - Refresh loop tying the renderer to a display

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
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	cirrus "github.com/intuitionamiga/CirrusEngine"
	"github.com/intuitionamiga/CirrusEngine/internal/logger"
)

// errWindowClosed ends the run when the user closes the display.
var errWindowClosed = errors.New("display closed")

// viewer owns the renderer. Frames can be requested by the refresh loop,
// scripts and the monitor; the viewer lock orders them.
type viewer struct {
	mu    sync.Mutex
	m     *Machine
	r     *frameRenderer
	disp  display
	scale int
	last  *image.RGBA
}

func newViewer(m *Machine, scale int) (*viewer, error) {
	v := &viewer{m: m, r: newFrameRenderer(), scale: scale}
	disp, err := newDisplay(scale, v.statusLines)
	if err != nil {
		return nil, err
	}
	v.disp = disp
	return v, nil
}

// Frame renders one frame and presents it.
func (v *viewer) Frame() *image.RGBA {
	v.mu.Lock()
	defer v.mu.Unlock()
	var img *image.RGBA
	v.m.Do(func(card *cirrus.CirrusEngine) {
		img = v.r.Render(card)
	})
	v.last = img
	v.disp.Present(img)
	return img
}

// FrameCount is the number of frames rendered, including skipped ones.
func (v *viewer) FrameCount() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.r.frames + v.r.skipped
}

// Run refreshes at the mode's vertical rate until ctx ends or the display
// closes.
func (v *viewer) Run(ctx context.Context) error {
	if err := v.disp.Start(); err != nil {
		return err
	}
	defer v.disp.Stop()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-v.disp.Done():
			return errWindowClosed
		case <-ticker.C:
			v.Frame()
			ticker.Reset(v.framePeriod())
		}
	}
}

// framePeriod follows the programmed pixel clock, clamped to 20-120Hz.
func (v *viewer) framePeriod() time.Duration {
	var t cirrus.Timings
	v.m.Do(func(card *cirrus.CirrusEngine) { t = card.Timings() })
	hz := 60.0
	if t.HTotal > 0 && t.VTotal > 0 && t.PixelClock > 0 {
		hz = t.PixelClock / float64(t.HTotal*t.VTotal)
	}
	hz = min(max(hz, 20), 120)
	return time.Duration(float64(time.Second) / hz)
}

// Screenshot writes the last frame to path as a PNG.
func (v *viewer) Screenshot(path string) error {
	v.mu.Lock()
	img := v.last
	v.mu.Unlock()
	if img == nil {
		img = v.Frame()
	}
	data, err := encodeScreenshot(img, v.scale)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &DisplayError{Operation: "screenshot", Details: path, Err: err}
	}
	logger.Logf(logger.Allow, "display", "screenshot written to %s", path)
	return nil
}

func (v *viewer) statusLines() []statusLine {
	var t cirrus.Timings
	var phase cirrus.BlitPhase
	var cur, ovl bool
	var variant cirrus.Variant
	v.m.Do(func(card *cirrus.CirrusEngine) {
		t = card.Timings()
		phase = card.BlitPhase()
		cur = card.Cursor().Enabled
		ovl = card.Overlay().Enabled
		variant = card.Variant()
	})
	ms := v.m.Mapping()
	irq, _ := v.m.IRQ()
	return []statusLine{
		{label: variant.String(), tokens: []statusToken{
			{name: fmt.Sprintf("%dx%d", t.HDisp, t.DispEnd), enabled: true},
			{name: t.Render.String(), enabled: t.Render != cirrus.RenderBlank},
			{name: fmt.Sprintf("%.1fMHz", t.PixelClock/1e6), enabled: true},
		}},
		{label: "CARD ", tokens: []statusToken{
			{name: "BANK", enabled: ms.Banked.Enabled},
			{name: "LFB", enabled: ms.Linear.Enabled},
			{name: "MMIO", enabled: ms.MMIO.Enabled},
			{name: "BLT:" + phase.String(), enabled: phase != cirrus.BlitIdle},
			{name: "CUR", enabled: cur},
			{name: "OVL", enabled: ovl},
			{name: "IRQ", enabled: irq},
		}},
	}
}
