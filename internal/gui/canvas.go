//go:build ebiten

package gui

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/initcond"
	"github.com/san-kum/rdsim/internal/viz"
)

type mode int

const (
	modeDraw mode = iota
	modeRunning
	modePlay
)

var (
	uInk = color.RGBA{R: 40, G: 220, B: 120, A: 255}
	vInk = color.RGBA{R: 230, G: 60, B: 200, A: 255}
)

type runResult struct {
	series *dynamo.TimeSeries
	err    error
}

// Canvas lets the user paint an initial condition, runs it and plays the
// result back in the same window.
type Canvas struct {
	cfg     *config.Config
	cm      *viz.Colormap
	scale   int
	painter *GridPainter

	mode    mode
	strokes Strokes
	session viz.Session
	frames  int
	done    chan runResult
	cancel  context.CancelFunc
	status  string
}

func NewCanvas(cfg *config.Config, cm *viz.Colormap, scale int) *Canvas {
	return &Canvas{
		cfg:     cfg,
		cm:      cm,
		scale:   max(scale, 1),
		painter: NewGridPainter(cfg.Width, cfg.Height),
		status:  "left: U  right: V  enter: run  c: clear",
	}
}

func (c *Canvas) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if c.cancel != nil {
			c.cancel()
		}
		return ebiten.Termination
	}

	switch c.mode {
	case modeDraw:
		c.updateDraw()
	case modeRunning:
		select {
		case r := <-c.done:
			c.cancel()
			if r.err != nil {
				c.status = "run failed: " + r.err.Error()
				c.mode = modeDraw
				return nil
			}
			c.session = viz.NewSession(r.series)
			c.mode = modePlay
			c.status = "space: pause  s: species  d: draw again"
		default:
		}
	case modePlay:
		c.updatePlay()
	}
	return nil
}

func (c *Canvas) updateDraw() {
	mx, my := ebiten.CursorPosition()
	p := initcond.Point{X: mx, Y: my}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		c.strokes.Extend(dynamo.U, p)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		c.strokes.Extend(dynamo.V, p)
	default:
		c.strokes.End()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		c.strokes.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		c.start()
	}
}

func (c *Canvas) start() {
	field, err := c.strokes.Field(c.cfg.Width, c.cfg.Height, c.scale)
	if err != nil {
		c.status = err.Error()
		return
	}
	exp := experiment.New(c.cfg)
	if err := exp.Setup(field, nil); err != nil {
		c.status = err.Error()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan runResult, 1)
	c.mode = modeRunning
	c.status = "running"
	go func() {
		res, err := exp.Run(ctx, nil)
		if err != nil {
			c.done <- runResult{err: err}
			return
		}
		c.done <- runResult{series: res.Series}
	}()
}

func (c *Canvas) updatePlay() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		c.session = c.session.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		c.session = c.session.SwitchSpecies()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		c.session = c.session.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		c.session = c.session.Prev()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		c.mode = modeDraw
		c.strokes.Clear()
		c.status = "left: U  right: V  enter: run  c: clear"
		return
	}

	c.frames++
	if c.session.Playing && c.frames >= max(ebiten.TPS()/c.session.FPS, 1) {
		c.frames = 0
		c.session = c.session.Next()
	}
}

func (c *Canvas) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	switch c.mode {
	case modeDraw, modeRunning:
		for _, p := range c.strokes.U {
			screen.Set(p.X, p.Y, uInk)
		}
		for _, p := range c.strokes.V {
			screen.Set(p.X, p.Y, vInk)
		}
	case modePlay:
		if f := c.session.Current(); f != nil {
			c.painter.Blit(screen, f, c.session.Species, c.cm, c.scale)
		}
		c.status = fmt.Sprintf("%s t=%g  frame %d/%d", c.session.Species, c.session.Time(), c.session.Frame+1, c.session.Len())
	}
	ebitenutil.DebugPrint(screen, c.status)
}

func (c *Canvas) Layout(outsideWidth, outsideHeight int) (int, int) {
	return c.cfg.Width * c.scale, c.cfg.Height * c.scale
}

// RunCanvas opens the drawing window and blocks until it is closed.
func RunCanvas(cfg *config.Config, cm *viz.Colormap, scale int) error {
	c := NewCanvas(cfg, cm, scale)
	ebiten.SetWindowSize(cfg.Width*c.scale, cfg.Height*c.scale)
	ebiten.SetWindowTitle("rdsim")
	return ebiten.RunGame(c)
}
