// Command glowdemo renders the album-art glow of an image file.
package main

import (
	"context"
	"flag"
	"image"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/glow"
	"github.com/gogpu/glow/internal/imageio"
	"github.com/gogpu/glow/runloop"
)

func main() {
	var (
		input   = flag.String("in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
		output  = flag.String("out", "glow.png", "output PNG file")
		radius  = flag.Float64("radius", glow.DefaultRadius, "blur radius in pixels")
		maxSide = flag.Int("max", 0, "downsize the input so its longest side is at most this many pixels (0 keeps it)")
		verbose = flag.Bool("v", false, "log transform diagnostics")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		glow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	src, format, err := imageio.Load(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}
	src = imageio.Fit(src, *maxSide)
	log.Printf("Loaded %s (%s, %dx%d)", *input, format, src.Bounds().Dx(), src.Bounds().Dy())

	// The main goroutine acts as the primary context: it owns the loop and
	// receives the result there.
	loop := runloop.New()
	ctx := loop.Context(context.Background())
	g := glow.New(glow.WithRadius(*radius))

	start := time.Now()
	var runErr error
	g.ApplyAsync(ctx, src, func(out *image.RGBA, err error) {
		defer loop.Stop()
		if err != nil {
			runErr = err
			return
		}
		runErr = imageio.SavePNG(*output, out)
		if runErr == nil {
			log.Printf("Glow saved to %s (%dx%d) in %v", *output, out.Bounds().Dx(), out.Bounds().Dy(), time.Since(start))
		}
	})

	if err := loop.Run(context.Background()); err != nil {
		log.Fatalf("Run loop: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Failed to render glow: %v", runErr)
	}
}
