// Package main implements the jsqueeze CLI (§6 "External interfaces"): a
// thin cobra wrapper around pkg/jsqueeze, the same relationship the teacher
// repo's cmd/esbuild has to pkg/api. Flag names and the exit code contract
// are grounded on the teacher's CLI catalog; the cobra.Command shape is
// grounded on cue-lang-cue's cmd/cue/cmd package, the only example repo in
// the pack that drives a real CLI through cobra.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsqueeze/jsqueeze/internal/config"
	"github.com/jsqueeze/jsqueeze/pkg/jsqueeze"
)

var (
	flagOutput  string
	flagConfig  string
	flagVerbose bool
	flagWatch   bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsqueeze [flags] <input.js>",
		Short: "jsqueeze minifies a single JavaScript source file",
		Long: `jsqueeze reads one JavaScript file, renames local identifiers to the
shortest available name, eliminates statically-dead code, folds constant
expressions, and writes the minified result to stdout or -o.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runRoot,
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write minified output to this path instead of stdout")
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a jsqueeze.yaml configuration file")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print per-pass rewrite statistics to stderr")
	cmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "re-minify whenever the input file changes")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if flagWatch {
		return runWatch(cmd, inputPath)
	}
	return minifyFile(cmd.OutOrStdout(), cmd.ErrOrStderr(), inputPath)
}

// minifyFile reads inputPath, runs it through pkg/jsqueeze, and writes the
// result to -o or stdout. Shared by the one-shot path and each iteration of
// --watch.
func minifyFile(stdout, stderr io.Writer, inputPath string) error {
	contents, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %q: %w", inputPath, err)
	}

	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	options, err := toAPIOptions(inputPath, cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	result, err := jsqueeze.Minify(string(contents), options)
	if err != nil {
		return err
	}

	if flagVerbose {
		printStats(stderr, result.PassRewrites)
	}

	if flagOutput == "" {
		_, err = stdout.Write(result.JS)
		return err
	}
	if err := os.WriteFile(flagOutput, result.JS, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", flagOutput, err)
	}
	if options.SourceMap == jsqueeze.SourceMapExternal && result.Map != nil {
		if err := os.WriteFile(flagOutput+".map", result.Map, 0o644); err != nil {
			return fmt.Errorf("writing source map: %w", err)
		}
	}
	return nil
}

// loadConfig reads the explicit -c path if given, otherwise a jsqueeze.yaml
// in the current directory if one happens to exist (§6): a missing file in
// either case falls back to config.Config's documented zero-value defaults.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Load("jsqueeze.yaml")
}

// toAPIOptions translates the configuration record into the public API's
// Options shape, since the CLI and the in-process API share the same
// underlying configuration surface but the API deliberately doesn't expose
// internal/config's types directly (§6).
func toAPIOptions(inputPath string, cfg config.Config) (jsqueeze.Options, error) {
	resolved, err := config.Resolve(cfg)
	if err != nil {
		return jsqueeze.Options{}, err
	}
	options := jsqueeze.Options{
		SourceFile: inputPath,
		MaxLineLen: resolved.MaxLineLen,
		AsciiOnly:  cfg.CharsetEscapes == "ascii_only" || cfg.CharsetEscapes == "AsciiOnly" || cfg.CharsetEscapes == "ascii-only",
	}
	switch cfg.Format {
	case "readable", "Readable":
		options.Format = jsqueeze.FormatReadable
	case "pretty", "Pretty":
		options.Format = jsqueeze.FormatPretty
	}
	switch cfg.Semicolon {
	case "always", "Always":
		options.Semicolon = jsqueeze.SemicolonAlways
	case "remove", "Remove":
		options.Semicolon = jsqueeze.SemicolonRemove
	}
	switch cfg.Quote {
	case "single", "Single":
		options.Quote = jsqueeze.QuoteSingle
	case "double", "Double":
		options.Quote = jsqueeze.QuoteDouble
	}
	switch cfg.PreserveComments {
	case "license", "License":
		options.PreserveComments = jsqueeze.PreserveCommentsLicense
	case "all", "All":
		options.PreserveComments = jsqueeze.PreserveCommentsAll
	}
	switch cfg.SourceMap {
	case "inline", "Inline":
		options.SourceMap = jsqueeze.SourceMapInline
	case "file", "File", "indexed", "Indexed":
		options.SourceMap = jsqueeze.SourceMapExternal
	}
	switch cfg.MappingGranularity {
	case "statement", "Statement":
		options.StatementMappings = true
	}
	return options, nil
}

// printStats reports each pass's rewrite count (§4.2).
func printStats(w io.Writer, rewrites map[string]int) {
	order := []string{
		"identifier-renaming",
		"dead-code-elimination",
		"expression-simplification",
		"property-minification",
		"function-minification",
	}
	for _, name := range order {
		fmt.Fprintf(w, "%s: %d rewrites\n", name, rewrites[name])
	}
}
