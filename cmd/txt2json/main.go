// Command txt2json converts a building text description into the resolved
// model document.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"plan-converter/internal/converter/emitter"
	"plan-converter/internal/converter/graph"
	"plan-converter/internal/converter/mapper"
	"plan-converter/internal/converter/models"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	in      string
	out     string
	format  emitter.Format
	svg     string
	planner string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger := log.New(stderr, "", 0)
	if err := convert(opts, logger); err != nil {
		logger.Printf("[CLI] %v", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Converted '%s' → '%s'\n", opts.in, opts.out)
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("txt2json", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "building.txt", "building description to read")
	out := fs.String("out", "parseddata.json", "model document to write")
	format := fs.String("format", "json", "output format: json or yaml")
	svg := fs.String("svg", "", "also write an SVG preview to this path")
	planner := fs.String("planner", "", "also write a react-planner scene to this path")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	f, err := emitter.ParseFormat(*format)
	if err != nil {
		return options{}, err
	}

	return options{in: *in, out: *out, format: f, svg: *svg, planner: *planner}, nil
}

func convert(opts options, logger *log.Logger) error {
	src, err := os.Open(opts.in)
	if err != nil {
		return err
	}
	defer src.Close()

	model, diags, err := mapper.New().Convert(src)
	for _, d := range diags {
		logger.Printf("[CLI] %s", d)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", opts.in, err)
	}

	doc, err := emitter.Marshal(model, opts.format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, doc, 0644); err != nil {
		return err
	}

	if opts.svg != "" {
		if err := writeSVG(opts.svg, model); err != nil {
			return err
		}
	}
	if opts.planner != "" {
		if err := writePlanner(opts.planner, model); err != nil {
			return err
		}
	}
	return nil
}

func writeSVG(path string, model *models.Model) error {
	svg, err := mapper.NewRenderer().Render(model)
	if err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

func writePlanner(path string, model *models.Model) error {
	scene, err := graph.NewGraphBuilder().Build(model)
	if err != nil {
		return fmt.Errorf("build planner scene: %w", err)
	}
	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
