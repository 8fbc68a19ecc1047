package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-bbox/internal/bbox"
	"github.com/a3tai/pdf-bbox/internal/logger"
	"github.com/a3tai/pdf-bbox/internal/report"
)

const usageLine = "Usage: get-bounding-box <pdf_path>"

var errUsage = errors.New("expected exactly one PDF path")

// newRootCmd builds the command. Report output goes to stdout; logs, errors
// and usage go to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-bounding-box <pdf_path>",
		Short: "Measure the drawn figure on the first page of a PDF",
		Long: `Reads the first page of a PDF, pools every curve, rectangle and line into
one bounding box and prints the page size, object counts, the box
coordinates and the figure size in points, inches and millimetres.

Text and images are ignored. With --mm-only just the rounded width and
height in millimetres are printed, or "none" when the page has no
drawing objects.`,
		Example: `  # Full diagnostic report
  get-bounding-box caja-120.pdf

  # Rounded millimetres only, for scripts
  get-bounding-box --mm-only caja-120.pdf`,
		Version: fmt.Sprintf("%s (built %s, commit %s)", version, buildTime, gitCommit),
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasure(cmd, args[0], stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().Bool("mm-only", false, "Print only '<width_mm> <height_mm>' rounded to 0.1 mm")
	cmd.Flags().String("loglevel", "warn", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().String("logformat", "console", "Log format (console, json)")

	return cmd
}

func runMeasure(cmd *cobra.Command, path string, stdout, stderr io.Writer) error {
	mmOnly, _ := cmd.Flags().GetBool("mm-only")
	level, _ := cmd.Flags().GetString("loglevel")
	format, _ := cmd.Flags().GetString("logformat")

	logCfg := logger.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = format
	closer, err := logger.Setup(logCfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	log := logger.WithComponent("get-bounding-box")
	log.Debug().Str("path", path).Bool("mm_only", mmOnly).Msg("measuring")

	result, err := bbox.NewExtractor(nil, bbox.WithLogger(log)).Extract(path)
	if err != nil {
		return err
	}

	if mmOnly {
		return writeMillimeters(stdout, result)
	}
	return report.Write(stdout, result)
}

func writeMillimeters(w io.Writer, result *bbox.Result) error {
	if !result.Found {
		_, err := fmt.Fprintln(w, "none")
		return err
	}
	dims := result.Rounded()
	_, err := fmt.Fprintf(w, "%.1f %.1f\n", dims.WidthMm, dims.HeightMm)
	return err
}

// run executes the command and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, usageLine)
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
