// seehuhn.de/go/tinyps - a tiny PostScript renderer
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
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

// Tinyps runs a PostScript program and writes the resulting pages to
// image files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"seehuhn.de/go/tinyps"
	"seehuhn.de/go/tinyps/device"
	"seehuhn.de/go/tinyps/fonts"
)

var (
	widthArg        = flag.Int("width", tinyps.DefaultWidth, "page width in pixels")
	heightArg       = flag.Int("height", tinyps.DefaultHeight, "page height in pixels")
	oversamplingArg = flag.Int("oversampling", 1, "samples per pixel in each direction")
	transparentArg  = flag.Bool("transparent", false, "start pages transparent instead of white")
	fontsArg        = flag.String("fonts", "", "directory with additional .ttf fonts")
	outArg          = flag.String("out", "page", "prefix for the output file names")
	svgArg          = flag.Bool("svg", false, "also write SVG pages")
	canvasArg       = flag.Bool("canvas", false, "also render pages with the vector rasterizer")
	quietArg        = flag.Bool("q", false, "do not print text and the final report")
	traceArg        = flag.String("trace", "Error", "trace level [Debug|Info|Error]")
)

func main() {
	flag.CommandLine.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: %s [options] <file.ps> [<library.ps>...]\n",
			filepath.Base(os.Args[0]))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Use \"-\" to read the program from standard input.")
		fmt.Fprintln(out, "Library files can be loaded by the program using")
		fmt.Fprintln(out, "the \"run\" operator, with the file name as the argument.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.CommandLine.Usage()
		os.Exit(1)
	}

	err := setupTracing(*traceArg)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	err = run(args[0], args[1:])
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.tinyps":        level,
		"trace.tinyps.device": level,
	}
	err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true))
	if err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	for _, key := range []string{"tinyps", "tinyps.device"} {
		t := tracing.Select(key)
		switch level {
		case "Debug":
			t.SetTraceLevel(tracing.LevelDebug)
		case "Info":
			t.SetTraceLevel(tracing.LevelInfo)
		case "Error":
			t.SetTraceLevel(tracing.LevelError)
		default:
			return fmt.Errorf("invalid trace level %q", level)
		}
	}
	return nil
}

func run(fname string, libs []string) error {
	code, err := readSource(fname)
	if err != nil {
		return err
	}

	var src fonts.Source = fonts.Builtin
	if *fontsArg != "" {
		src = fonts.Chain{fonts.Dir(*fontsArg), fonts.Builtin}
	}
	env := tinyps.NewEnv(src)
	for _, lib := range libs {
		data, err := os.ReadFile(lib)
		if err != nil {
			return err
		}
		env.Files[filepath.Base(lib)] = string(data)
	}

	ctx := tinyps.NewContext(env)
	ctx.Width = *widthArg
	ctx.Height = *heightArg
	ctx.Config.Set("oversampling", float64(*oversamplingArg))
	if *transparentArg {
		ctx.Config.Set("transparent", 1)
	}
	if *quietArg {
		ctx.Config.Set("console", 0)
	}

	raw := device.NewRaw(ctx.Width, ctx.Height)
	ctx.AddDevice(raw)
	var svg *device.SVG
	if *svgArg {
		ctx.Config.Set("svg", 1)
		svg = device.NewSVG(ctx.Width, ctx.Height)
		svg.Fonts = src
		ctx.AddDevice(svg)
	}
	var canvas *device.Canvas
	if *canvasArg {
		ctx.Config.Set("canvas", 1)
		canvas = device.NewCanvas(ctx.Width, ctx.Height)
		ctx.AddDevice(canvas)
	}
	ctx.AddDevice(device.NewConsole(os.Stdout))

	runErr := ctx.Run(code)

	pages := raw.Pages
	if len(pages) == 0 {
		pages = append(pages, raw.Image().NRGBA())
	}
	for i, page := range pages {
		err := writePNG(fmt.Sprintf("%s-%d.png", *outArg, i+1), page)
		if err != nil {
			return err
		}
	}
	if svg != nil {
		for i, doc := range svg.Pages {
			err := writeFile(fmt.Sprintf("%s-%d.svg", *outArg, i+1), []byte(doc))
			if err != nil {
				return err
			}
		}
	}
	if canvas != nil {
		pages := canvas.Pages
		if len(pages) == 0 {
			pages = append(pages, canvas.Image())
		}
		for i, page := range pages {
			err := writePNG(fmt.Sprintf("%s-canvas-%d.png", *outArg, i+1), page)
			if err != nil {
				return err
			}
		}
	}

	if !*quietArg {
		err := ctx.Report(os.Stdout)
		if err != nil {
			return err
		}
	}
	return runErr
}

func readSource(fname string) (string, error) {
	var data []byte
	var err error
	if fname == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(fname)
	}
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

func writePNG(fname string, img image.Image) error {
	data, err := device.EncodePNG(img)
	if err != nil {
		return err
	}
	return writeFile(fname, data)
}

func writeFile(fname string, data []byte) error {
	err := os.WriteFile(fname, data, 0o644)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot create %q: output directory does not exist", fname)
	} else if err != nil {
		return err
	}
	pterm.Info.Println("wrote", fname)
	return nil
}
