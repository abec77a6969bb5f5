package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/raylight/pkg/render"
	"github.com/taigrr/raylight/pkg/scene"
)

const barWidth = 24

// hud is the status line under the preview. The bar eases toward the real
// progress with a critically damped spring so row bursts don't jump.
type hud struct {
	name   string
	spring harmonica.Spring
	pos    float64
	vel    float64

	line  lipgloss.Style
	title lipgloss.Style
	fill  lipgloss.Style
	empty lipgloss.Style
	dim   lipgloss.Style
}

func newHUD(name string, fps int) *hud {
	bg := lipgloss.Color("#1e1e28")
	return &hud{
		name:   name,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		line:   lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#e0e0e0")),
		title:  lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#ffffff")).Bold(true),
		fill:   lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#5fd787")),
		empty:  lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#4e4e4e")),
		dim:    lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#8a8a8a")).Faint(true),
	}
}

// update advances the spring one frame toward target.
func (h *hud) update(target float64) {
	h.pos, h.vel = h.spring.Update(h.pos, h.vel, target)
	h.pos = min(max(h.pos, 0), 1)
}

// view renders the status line padded to exactly width cells.
func (h *hud) view(width int, p render.Progress, elapsed time.Duration, finished bool) string {
	filled := int(h.pos*barWidth + 0.5)
	filled = min(max(filled, 0), barWidth)
	bar := h.fill.Render(strings.Repeat("█", filled)) + h.empty.Render(strings.Repeat("░", barWidth-filled))

	hint := "esc to stop"
	if finished {
		hint = "done, any key to exit"
	}
	text := h.title.Render(" "+h.name+" ") + bar +
		h.line.Render(fmt.Sprintf(" %3.0f%%  %d/%d rows  %s  ", 100*p.Fraction(), p.RowsDone, p.RowsTotal, elapsed.Round(time.Second))) +
		h.dim.Render(hint)

	text = lipgloss.NewStyle().MaxWidth(width).Render(text)
	if pad := width - lipgloss.Width(text); pad > 0 {
		text += h.line.Render(strings.Repeat(" ", pad))
	}
	return text
}

// fitRect centers the largest area with the image's aspect ratio inside a
// cols x rows cell grid. Each cell holds two pixel rows.
func fitRect(imgW, imgH, cols, rows int) uv.Rectangle {
	if imgW <= 0 || imgH <= 0 || cols <= 0 || rows <= 0 {
		return uv.Rect(0, 0, 0, 0)
	}
	w := cols
	h := (imgH*w/imgW + 1) / 2
	if h > rows {
		h = rows
		w = max(1, imgW*2*h/imgH)
	}
	h = max(h, 1)
	return uv.Rect((cols-w)/2, (rows-h)/2, w, h)
}

type renderResult struct {
	fb    *render.Framebuffer
	stats render.Stats
	err   error
}

// renderWithPreview runs the render in the background and shows the image
// filling in on a full-screen terminal session. Esc or ctrl+c cancels.
func renderWithPreview(ctx context.Context, cam *render.Camera, sc *scene.Scene, fps int, opts []render.Option) (*render.Framebuffer, render.Stats, error) {
	fps = max(fps, 1)
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, render.Stats{}, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, render.Stats{}, fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var progress atomic.Pointer[render.Progress]
	progress.Store(&render.Progress{})
	r := render.NewRenderer(cam, sc.World, append(opts, render.WithProgress(func(p render.Progress) {
		// Rows finish out of order, keep the furthest.
		for {
			old := progress.Load()
			if p.RowsDone <= old.RowsDone || progress.CompareAndSwap(old, &p) {
				return
			}
		}
	}))...)

	results := make(chan renderResult, 1)
	start := time.Now()
	go func() {
		fb, stats, err := r.Render(ctx)
		results <- renderResult{fb, stats, err}
	}()

	h := newHUD(sc.Name, fps)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var (
		res      renderResult
		finished bool
		elapsed  time.Duration
		stopped  <-chan struct{} // set once finished so a signal still exits
	)
	draw := func() error {
		p := *progress.Load()
		if !finished {
			elapsed = time.Since(start)
		}
		h.update(p.Fraction())

		if fb := r.Framebuffer(); fb != nil {
			area := fitRect(fb.Width, fb.Height, width, height-1)
			fb.Resample(area.Dx(), 2*area.Dy()).Draw(term, area)
		}
		status := h.view(width, p, elapsed, finished)
		uv.NewStyledString(status).Draw(term, uv.Rect(0, height-1, width, 1))
		return term.Display()
	}

	for {
		select {
		case res = <-results:
			if res.err != nil {
				return res.fb, res.stats, res.err
			}
			finished = true
			stopped = ctx.Done()
			if err := draw(); err != nil {
				return res.fb, res.stats, fmt.Errorf("display: %w", err)
			}

		case <-stopped:
			return res.fb, res.stats, nil

		case <-ticker.C:
			if err := draw(); err != nil {
				cancel()
				if !finished {
					res = <-results
				}
				return res.fb, res.stats, fmt.Errorf("display: %w", err)
			}

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
			case uv.KeyPressEvent:
				if finished {
					return res.fb, res.stats, nil
				}
				if ev.MatchString("escape", "ctrl+c") {
					cancel()
				}
			}
		}
	}
}
