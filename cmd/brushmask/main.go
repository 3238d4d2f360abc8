// seehuhn.de/go/brushmask - brush masks for image text removal
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Brushmask replays brush strokes recorded over an image, writes the
// resulting mask, and removes or blurs the marked regions.
//
// Usage:
//
//	brushmask -in photo.jpg -strokes strokes.json [-op remove|blur] [-out dir]
//
// The strokes file holds the display size the strokes were recorded at,
// and the strokes in display coordinates.
package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/brushmask"
	"seehuhn.de/go/brushmask/config"
	"seehuhn.de/go/brushmask/imageio"
	"seehuhn.de/go/brushmask/raster"
	"seehuhn.de/go/brushmask/service"
	"seehuhn.de/go/brushmask/session"
)

func main() {
	var in, strokesFile, configFile, outDir, op, mode, url string
	var maskOnly, initConfig bool

	flag.StringVar(&in, "in", "", "input image (png, jpg, gif, bmp, webp)")
	flag.StringVar(&strokesFile, "strokes", "", "JSON file with the recorded strokes (default: process detected text)")
	flag.StringVar(&configFile, "config", config.GetConfigPath(), "configuration file")
	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&op, "op", "", "operation: remove or blur (default from config)")
	flag.StringVar(&mode, "mode", "", "processing backend: local or remote (default from config)")
	flag.StringVar(&url, "url", "", "server URL for the remote backend")
	flag.BoolVar(&maskOnly, "mask-only", false, "only write the mask and the overlay preview")
	flag.BoolVar(&initConfig, "init-config", false, "write the default configuration file and exit")
	flag.Parse()

	if initConfig {
		if err := config.Default().SaveToFile(configFile); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", configFile)
		return
	}
	if in == "" {
		log.Fatalf("usage: %s -in image [-strokes strokes.json] [-op remove|blur] [-out dir] [-mode local|remote] [-url server_url]",
			filepath.Base(os.Args[0]))
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal(err)
	}
	if outDir != "" {
		cfg.Output.OutputDir = outDir
	}
	if op != "" {
		cfg.Service.Operation = op
	}
	if mode != "" {
		cfg.Service.Mode = mode
	}
	if url != "" {
		cfg.Service.URL = url
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if strokesFile == "" {
		err = runDetected(cfg, in)
	} else {
		err = run(cfg, in, strokesFile, maskOnly)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// runDetected processes the text regions which the backend finds in the
// image.
func runDetected(cfg *config.Config, in string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	operation, err := session.ParseOperation(cfg.Service.Operation)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.Timeout())
	defer cancel()
	resp, err := processor(cfg).Process(ctx, &session.Request{
		Source:     data,
		SourceName: filepath.Base(in),
		Operation:  operation,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New(resp.Error)
	}

	img, err := imageio.Decode(resp.Processed)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.OutputDir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	fname := filepath.Join(cfg.Output.OutputDir, base+"_"+string(operation)+"."+cfg.Output.Format)
	if err := imageio.Save(fname, img, cfg.Output.Quality); err != nil {
		return err
	}
	log.Printf("wrote %s", fname)
	return nil
}

func run(cfg *config.Config, in, strokesFile string, maskOnly bool) error {
	rec, err := brushmask.LoadRecording(strokesFile)
	if err != nil {
		return err
	}
	src, err := imageio.Open(in, cfg.Display.MaxWidth, cfg.Display.MaxHeight)
	if err != nil {
		return err
	}
	// The strokes define the display space.
	src.DisplayWidth = rec.DisplayWidth
	src.DisplayHeight = rec.DisplayHeight

	overlayColor, err := cfg.Brush.OverlayColor()
	if err != nil {
		return err
	}

	ctl := session.New(processor(cfg))
	if err := ctl.Load(src); err != nil {
		return err
	}
	canvas := raster.NewCanvas(int(rec.DisplayWidth), int(rec.DisplayHeight))
	ctl.Attach(canvas, overlayColor)
	if err := replay(ctl, rec.Strokes); err != nil {
		return err
	}
	operation, err := session.ParseOperation(cfg.Service.Operation)
	if err != nil {
		return err
	}
	if err := ctl.SetOperation(operation); err != nil {
		return err
	}
	log.Printf("session %s: %d strokes over %dx%d image shown at %gx%g",
		ctl.ID(), len(rec.Strokes), src.NativeWidth, src.NativeHeight, src.DisplayWidth, src.DisplayHeight)

	if err := os.MkdirAll(cfg.Output.OutputDir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	outPath := func(suffix, ext string) string {
		return filepath.Join(cfg.Output.OutputDir, base+"_"+suffix+"."+ext)
	}

	mask, err := ctl.Mask()
	if err != nil {
		return err
	}
	if err := imageio.Save(outPath("mask", "png"), mask, 0); err != nil {
		return err
	}
	if cfg.Output.Overlay {
		preview := imaging.Overlay(src.Preview(), canvas.Image(), image.Pt(0, 0), 1.0)
		if err := imageio.Save(outPath("overlay", "png"), preview, 0); err != nil {
			return err
		}
	}
	if maskOnly {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.Timeout())
	defer cancel()
	resp, err := ctl.Proceed(ctx)
	if err != nil {
		log.Printf("processing failed: %v", err)
		return errors.New(ctl.Message())
	}

	img, err := imageio.Decode(resp.Processed)
	if err != nil {
		return err
	}
	fname := outPath(string(operation), cfg.Output.Format)
	if err := imageio.Save(fname, img, cfg.Output.Quality); err != nil {
		return err
	}
	log.Printf("wrote %s", fname)
	if resp.ResultID != "" {
		log.Printf("result %s", resp.ResultID)
	}
	return nil
}

// replay feeds the recorded strokes to the session as pointer events. The
// brush is set before every point so that the recorded sizes and
// opacities are reproduced.
func replay(ctl *session.Controller, strokes []brushmask.Stroke) error {
	var origin vec.Vec2
	for _, stroke := range strokes {
		for i, p := range stroke {
			if err := ctl.SetBrush(brushmask.Brush{Size: p.Size, Opacity: p.Opacity}); err != nil {
				return err
			}
			pos := vec.Vec2{X: p.X, Y: p.Y}
			if i == 0 {
				ctl.PointerDown(pos, origin)
			} else {
				ctl.PointerMove(pos, origin)
			}
		}
		ctl.PointerUp()
	}
	return nil
}

func processor(cfg *config.Config) session.Processor {
	if cfg.Service.Mode == config.ModeRemote {
		return service.NewClient(cfg.Service.URL, cfg.Service.Timeout())
	}
	l := service.NewLocal(nil)
	l.Quality = cfg.Output.Quality
	return l
}
