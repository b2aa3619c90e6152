// Command rssched solves one rolling-stock scheduling instance from a JSON
// input file and writes the result to output/output_<basename>.json.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/rssched/solver"
	"github.com/katalvlaran/rssched/transport"
)

func main() {
	root := &cobra.Command{
		Use:           "rssched <input_file.json>",
		Short:         "Solve a rolling-stock scheduling instance",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inputPath string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrapf(err, "open input %s", inputPath)
	}
	var in transport.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return errors.Wrapf(err, "parse input %s", inputPath)
	}

	result, err := solver.Solve(context.Background(), logger, in)
	if err != nil {
		return errors.Wrap(err, "solve")
	}

	outPath := filepath.Join("output", "output_"+filepath.Base(inputPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrapf(err, "create output directory for %s", outPath)
	}
	encoded, err := json.MarshalIndent(result.Output, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return errors.Wrapf(err, "write output %s", outPath)
	}
	logger.Info("output written", zap.String("path", outPath))
	return nil
}
