//go:build !headless

// display_ebiten.go - Ebiten window backend

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
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"

	"github.com/intuitionamiga/CirrusEngine/internal/logger"
)

type ebitenDisplay struct {
	running     atomic.Bool
	window      *ebiten.Image
	width       int
	height      int
	scale       int
	fullscreen  bool
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  atomic.Uint64
	vsyncChan   chan struct{}
	done        chan struct{}
	doneOnce    sync.Once

	status        func() []statusLine
	showStatusBar bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func newDisplay(scale int, status func() []statusLine) (display, error) {
	if scale < 1 {
		scale = 1
	}
	return &ebitenDisplay{
		width:         640,
		height:        480,
		scale:         scale,
		frameBuffer:   make([]byte, 640*480*4),
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		status:        status,
		showStatusBar: true,
	}, nil
}

func (ed *ebitenDisplay) Start() error {
	if ed.running.Swap(true) {
		return nil
	}
	ebiten.SetWindowSize(ed.width*ed.scale, ed.height*ed.scale)
	ebiten.SetWindowTitle("CirrusEngine (c) 2024 - 2026 Zayn Otley")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		defer ed.doneOnce.Do(func() { close(ed.done) })
		if err := ebiten.RunGame(ed); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// first Draw means the window is up
	<-ed.vsyncChan
	return nil
}

func (ed *ebitenDisplay) Stop() {
	ed.running.Store(false)
}

func (ed *ebitenDisplay) Done() <-chan struct{} {
	return ed.done
}

func (ed *ebitenDisplay) FrameCount() uint64 {
	return ed.frameCount.Load()
}

// Present copies frame into the back buffer, following mode changes.
func (ed *ebitenDisplay) Present(frame *image.RGBA) {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	ed.bufferMutex.Lock()
	resized := w != ed.width || h != ed.height
	if resized {
		ed.width, ed.height = w, h
		ed.frameBuffer = make([]byte, w*h*4)
	}
	for y := 0; y < h; y++ {
		copy(ed.frameBuffer[y*w*4:(y+1)*w*4], frame.Pix[y*frame.Stride:y*frame.Stride+w*4])
	}
	fullscreen := ed.fullscreen
	ed.bufferMutex.Unlock()

	// outside the lock: the game loop takes it in Layout
	if resized && !fullscreen {
		ebiten.SetWindowSize(w*ed.scale, h*ed.scale)
	}
}

func (ed *ebitenDisplay) Update() error {
	if ebiten.IsWindowBeingClosed() || !ed.running.Load() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ed.bufferMutex.Lock()
		ed.fullscreen = !ed.fullscreen
		fullscreen, w, h := ed.fullscreen, ed.width, ed.height
		ed.bufferMutex.Unlock()
		ebiten.SetFullscreen(fullscreen)
		if !fullscreen {
			ebiten.SetWindowSize(w*ed.scale, h*ed.scale)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		ed.bufferMutex.Lock()
		ed.showStatusBar = !ed.showStatusBar
		ed.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		ed.copyScreenshot()
	}
	return nil
}

// copyScreenshot puts the current frame on the clipboard as a PNG.
func (ed *ebitenDisplay) copyScreenshot() {
	ed.clipboardOnce.Do(func() {
		ed.clipboardOK = clipboard.Init() == nil
	})
	if !ed.clipboardOK {
		logger.Log(logger.Allow, "display", "clipboard unavailable")
		return
	}
	ed.bufferMutex.RLock()
	img := &image.RGBA{
		Pix:    append([]byte(nil), ed.frameBuffer...),
		Stride: ed.width * 4,
		Rect:   image.Rect(0, 0, ed.width, ed.height),
	}
	ed.bufferMutex.RUnlock()

	data, err := encodeScreenshot(img, ed.scale)
	if err != nil {
		logger.Logf(logger.Allow, "display", "%v", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
	logger.Logf(logger.Allow, "display", "screenshot %dx%d copied", img.Rect.Dx()*ed.scale, img.Rect.Dy()*ed.scale)
}

func (ed *ebitenDisplay) Draw(screen *ebiten.Image) {
	ed.bufferMutex.RLock()
	if ed.window == nil || ed.window.Bounds().Dx() != ed.width || ed.window.Bounds().Dy() != ed.height {
		ed.window = ebiten.NewImage(ed.width, ed.height)
	}
	ed.window.WritePixels(ed.frameBuffer)
	showStatusBar := ed.showStatusBar
	ed.bufferMutex.RUnlock()

	screen.DrawImage(ed.window, nil)
	if showStatusBar && ed.status != nil {
		ed.drawStatusBar(screen)
	}

	ed.frameCount.Add(1)
	select {
	case ed.vsyncChan <- struct{}{}:
	default:
	}
}

func (ed *ebitenDisplay) Layout(_, _ int) (int, int) {
	ed.bufferMutex.RLock()
	defer ed.bufferMutex.RUnlock()
	return ed.width, ed.height
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func (ed *ebitenDisplay) drawStatusBar(screen *ebiten.Image) {
	lines := ed.status()
	barHeight := 13*len(lines) + 5
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if barHeight >= h {
		return
	}
	y := h - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(w), float64(barHeight), color.RGBA{0, 0, 0, 180})
	for i, l := range lines {
		drawStatusLine(screen, 6, y+13*(i+1), l.label, l.tokens)
	}
}
