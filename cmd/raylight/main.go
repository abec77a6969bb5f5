// raylight - Monte Carlo path tracer
// Renders built-in or JSON scenes of spheres, triangles and imported meshes
// to PNG, JPEG or PPM, optionally with a live terminal preview.
//
// Usage:
//
//	raylight render [scene.json] [flags]
//	raylight scenes
//	raylight inspect <model.obj|model.glb>
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/raylight/pkg/render"
	"github.com/taigrr/raylight/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fang prints the error itself.
	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "raylight",
		Short: "Monte Carlo path tracer",
		Long: "raylight renders scenes of spheres, triangles and imported meshes with a\n" +
			"recursive path tracer (diffuse, metal and glass materials, thin-lens defocus).",
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newScenesCmd(), newInspectCmd())
	return root
}

type renderOptions struct {
	scene   string
	out     string
	ppm     string
	width   int
	spp     int
	depth   int
	seed    int64
	workers int
	preview bool
	quiet   bool
	fps     int
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a scene to an image",
		Example: "  raylight render --scene materials --out materials.png\n" +
			"  raylight render my-scene.json --spp 200 --preview\n" +
			"  raylight render --ppm - > image.ppm",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.scene, "scene", "demo", "built-in scene (see `raylight scenes`)")
	f.StringVarP(&opts.out, "out", "o", "output.png", "output image (.png, .jpg or .ppm); empty to skip")
	f.StringVar(&opts.ppm, "ppm", "", "also write a plain P3 PPM here (- for stdout)")
	f.IntVarP(&opts.width, "width", "w", 0, "override image width")
	f.IntVarP(&opts.spp, "spp", "s", 0, "override samples per pixel")
	f.IntVarP(&opts.depth, "depth", "d", 0, "override maximum bounce depth")
	f.Int64Var(&opts.seed, "seed", 1, "random seed (same seed gives the same image)")
	f.IntVarP(&opts.workers, "workers", "j", 0, "render workers (0 uses every CPU)")
	f.BoolVarP(&opts.preview, "preview", "p", false, "show the image in the terminal while it renders")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	f.IntVar(&opts.fps, "fps", 30, "preview refresh rate")
	return cmd
}

func runRender(cmd *cobra.Command, args []string, opts renderOptions) error {
	var (
		sc  *scene.Scene
		err error
	)
	if len(args) == 1 {
		sc, err = scene.Load(args[0])
	} else {
		sc, err = scene.Builtin(opts.scene)
	}
	if err != nil {
		return err
	}

	// Flags only override the scene when set explicitly.
	params := sc.Camera
	flags := cmd.Flags()
	if flags.Changed("width") {
		params.ImageWidth = opts.width
	}
	if flags.Changed("spp") {
		params.SamplesPerPixel = opts.spp
	}
	if flags.Changed("depth") {
		params.MaxDepth = opts.depth
	}

	var logger render.Logger = render.NewWriterLogger(cmd.ErrOrStderr())
	if opts.quiet || opts.preview {
		logger = render.NopLogger
	}
	if !opts.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded: %s (%d objects, %d triangles)\n",
			sc.Name, sc.World.Len(), sc.Triangles)
	}

	cam := render.NewCamera(params)
	renderOpts := []render.Option{
		render.WithWorkers(opts.workers),
		render.WithSeed(opts.seed),
		render.WithLogger(logger),
	}

	var (
		fb    *render.Framebuffer
		stats render.Stats
	)
	if opts.preview {
		fb, stats, err = renderWithPreview(cmd.Context(), cam, sc, opts.fps, renderOpts)
	} else {
		fb, stats, err = render.NewRenderer(cam, sc.World, renderOpts...).Render(cmd.Context())
	}
	if fb == nil {
		return err
	}
	// A cancelled render still saves what finished.
	renderErr := err

	if !opts.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Rendered %dx%d, %d samples on %d workers in %s\n",
			fb.Width, fb.Height, stats.Samples, stats.Workers, stats.Duration.Round(time.Millisecond))
	}

	if opts.out != "" {
		if err := fb.SaveImage(opts.out); err != nil {
			return err
		}
		if !opts.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", opts.out)
		}
	}
	if opts.ppm != "" {
		if err := writePPM(cmd.OutOrStdout(), fb, opts.ppm); err != nil {
			return err
		}
	}
	return renderErr
}

func writePPM(stdout io.Writer, fb *render.Framebuffer, path string) error {
	if path == "-" {
		return fb.WritePPM(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ppm: %w", err)
	}
	if err := fb.WritePPM(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range scene.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, scene.Describe(name))
			}
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <model.obj|model.glb>",
		Short: "Print vertex and triangle counts and bounds of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, err := scene.LoadMesh(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", filepath.Base(args[0]))
			fmt.Fprintf(out, "  vertices:  %d\n", mesh.VertexCount())
			fmt.Fprintf(out, "  triangles: %d (%d non-degenerate)\n", mesh.TriangleCount(), len(mesh.Triangles()))
			fmt.Fprintf(out, "  bounds:    %v .. %v\n", mesh.BoundsMin, mesh.BoundsMax)
			fmt.Fprintf(out, "  size:      %v\n", mesh.Size())
			return nil
		},
	}
}
