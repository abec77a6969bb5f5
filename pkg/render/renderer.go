package render

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/taigrr/raylight/pkg/geometry"
	"golang.org/x/sync/errgroup"
)

// Logger receives human-readable status lines.
type Logger interface {
	Printf(format string, args ...any)
}

type writerLogger struct {
	w io.Writer
}

// NewWriterLogger returns a Logger printing one line per call to w.
func NewWriterLogger(w io.Writer) Logger {
	return writerLogger{w: w}
}

func (l writerLogger) Printf(format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(l.w, format, args...)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

// Progress is reported after each finished row.
type Progress struct {
	RowsDone  int
	RowsTotal int
}

// Fraction returns the completed share in [0, 1].
func (p Progress) Fraction() float64 {
	if p.RowsTotal == 0 {
		return 1
	}
	return float64(p.RowsDone) / float64(p.RowsTotal)
}

// Stats summarizes a finished render.
type Stats struct {
	Pixels   int
	Samples  int
	Workers  int
	Duration time.Duration
}

// Renderer renders a world through a camera, one row per task.
type Renderer struct {
	cam      *Camera
	world    geometry.Hittable
	workers  int
	seed     int64
	progress func(Progress)
	log      Logger

	fb atomic.Pointer[Framebuffer]
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers bounds the number of rows rendered at once. Values below 1
// select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		r.workers = n
	}
}

// WithSeed sets the base seed of every row's random stream.
func WithSeed(seed int64) Option {
	return func(r *Renderer) { r.seed = seed }
}

// WithProgress registers a callback run after each row. It is called from
// worker goroutines and may run concurrently with itself.
func WithProgress(fn func(Progress)) Option {
	return func(r *Renderer) { r.progress = fn }
}

// WithLogger sets the status logger. The default writes to stderr.
func WithLogger(l Logger) Option {
	return func(r *Renderer) {
		if l == nil {
			l = NopLogger
		}
		r.log = l
	}
}

// NewRenderer creates a renderer. The world must not be mutated while a
// render is running.
func NewRenderer(cam *Camera, world geometry.Hittable, opts ...Option) *Renderer {
	r := &Renderer{
		cam:     cam,
		world:   world,
		workers: runtime.NumCPU(),
		seed:    1,
		log:     NewWriterLogger(os.Stderr),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Framebuffer returns the image being rendered, or nil before Render has
// started. Rows appear in it as they complete.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb.Load()
}

// rowSeed derives a row's stream so the image depends only on the seed,
// never on scheduling.
func rowSeed(seed int64, row int) int64 {
	// splitmix64 finalizer
	z := uint64(seed) + uint64(row+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// Render initializes the camera and fills a new framebuffer. Rows are
// scheduled from the last index down to 0. On cancellation the rows
// finished so far are kept and the context error is returned.
func (r *Renderer) Render(ctx context.Context) (*Framebuffer, Stats, error) {
	if err := r.cam.Initialize(); err != nil {
		return nil, Stats{}, fmt.Errorf("initialize camera: %w", err)
	}

	start := time.Now()
	width, height := r.cam.ImageWidth, r.cam.Height()
	fb := NewFramebuffer(width, height)
	r.fb.Store(fb)

	stats := Stats{
		Pixels:  width * height,
		Samples: width * height * r.cam.SamplesPerPixel,
		Workers: r.workers,
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for j := height - 1; j >= 0; j-- {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := r.renderRow(gctx, fb, j); err != nil {
				return err
			}
			n := int(done.Add(1))
			r.log.Printf("Scanlines remaining: %d", height-n)
			if r.progress != nil {
				r.progress(Progress{RowsDone: n, RowsTotal: height})
			}
			return nil
		})
	}

	err := g.Wait()
	stats.Duration = time.Since(start)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return fb, stats, fmt.Errorf("render: %w", err)
	}

	r.log.Printf("Done.")
	return fb, stats, nil
}

// renderRow traces every pixel of row j into a private buffer and
// publishes it only when the whole row is done.
func (r *Renderer) renderRow(ctx context.Context, fb *Framebuffer, j int) error {
	rng := rand.New(rand.NewSource(rowSeed(r.seed, j)))
	row := make([]byte, 4*fb.Width)

	for i := range fb.Width {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := ToRGBA(r.cam.SampleColor(i, j, r.world, rng))
		row[4*i], row[4*i+1], row[4*i+2], row[4*i+3] = c.R, c.G, c.B, c.A
	}

	fb.SetRow(j, row)
	return nil
}
