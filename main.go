// stylegen builds validated styleable models from annotated Java sources.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/cobra"

	"github.com/phobologic/stylegen/internal/aggregate"
	"github.com/phobologic/stylegen/internal/config"
	"github.com/phobologic/stylegen/internal/diag"
	"github.com/phobologic/stylegen/internal/discover"
	"github.com/phobologic/stylegen/internal/filter"
	"github.com/phobologic/stylegen/internal/graph"
	"github.com/phobologic/stylegen/internal/lang"
	"github.com/phobologic/stylegen/internal/model"
	"github.com/phobologic/stylegen/internal/processor"
	"github.com/phobologic/stylegen/internal/render"
	"github.com/phobologic/stylegen/internal/scan"
	"github.com/phobologic/stylegen/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(context.Background())
}

type options struct {
	configFile   string
	format       string
	cache        string
	maxFileSize  string
	include      []string
	exclude      []string
	includeTests bool
	verbose      bool
	noColor      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "stylegen [flags] [root]",
		Short: "Build styleable models from annotated Java sources",
		Long: `stylegen scans Java sources for @Styleable classes and their @Attr,
@StyleableChild, @Style, @BeforeStyle and @AfterStyle members, validates them
and prints one model per styleable class. Each Java package is processed as
one round; errors from every round are reported together at the end.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return generate(cmd, opts, root, stdout, stderr)
		},
	}
	cmd.SetVersionTemplate("stylegen {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "config file (default <root>/"+config.FileName+")")
	f.StringVarP(&opts.format, "format", "f", "", "output format: toon, yaml or table")
	f.StringVar(&opts.cache, "cache", "", "cache file path")
	f.StringVar(&opts.maxFileSize, "max-file-size", "", "skip files larger than this (e.g. 1MB)")
	f.StringSliceVarP(&opts.include, "include", "i", nil, "only report classes matching these globs")
	f.StringSliceVarP(&opts.exclude, "exclude", "x", nil, "do not report classes matching these globs")
	f.BoolVar(&opts.includeTests, "include-tests", false, "scan test source sets too")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored diagnostics")
	f.BoolP("version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCmd(stdout, stderr))
	return cmd
}

// loadConfig reads the project configuration and applies flags that were
// set explicitly on the command line.
func loadConfig(cmd *cobra.Command, opts options, root string) (*config.Config, error) {
	cfg, err := config.NewLoader(root, opts.configFile).Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("cache") {
		cfg.Cache = opts.cache
	}
	if flags.Changed("max-file-size") {
		cfg.MaxFileSize = opts.maxFileSize
	}
	if flags.Changed("include") {
		cfg.Include = opts.include
	}
	if flags.Changed("exclude") {
		cfg.Exclude = opts.exclude
	}
	if flags.Changed("include-tests") {
		cfg.IncludeTests = opts.includeTests
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func generate(cmd *cobra.Command, opts options, root string, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := loadConfig(cmd, opts, root)
	if err != nil {
		return err
	}
	maxFileSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	reporter := diag.NewWriterReporter(stderr, opts.noColor)

	matcher, err := filter.New(cfg.Include, cfg.Exclude)
	if err != nil {
		return err
	}

	// Discover files
	files, err := discover.Files(root, discover.Options{
		Languages:    []string{"java"},
		IncludeTests: cfg.IncludeTests,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no java sources found")
	}
	logger.Debug("discovered sources", "root", root, "files", len(files))

	// Check cache freshness
	var key string
	if cfg.Cache != "" {
		if key, err = cacheKey(cfg, files); err != nil {
			return err
		}
		if data, ok := readCache(cfg.Cache, key, root, files); ok {
			logger.Debug("using cached output", "cache", cfg.Cache)
			_, _ = stdout.Write(data)
			return nil
		}
	}

	// Filter by size
	files = filterBySize(root, files, maxFileSize, logger)
	if len(files) == 0 {
		return fmt.Errorf("no java sources found (all exceeded size limit)")
	}

	// Scan files concurrently
	results := scanFilesConcurrent(root, files, cfg.Markers, logger)

	// One round per package, then the final round
	proc := processor.New(reporter, processor.WithLogger(logger))
	for _, in := range rounds(results) {
		if _, err := proc.Process(ctx, in); err != nil {
			return err
		}
	}
	if err := proc.Finish(); err != nil {
		return err
	}

	models := proc.Models()
	order, err := graph.GenerationOrder(models)
	if err != nil {
		return err
	}

	report := matcher.Select(&model.Report{
		Root:       filepath.Base(root),
		Styleables: models,
		Edges:      graph.ChildEdges(models),
		Order:      order,
	})

	output, err := encode(cfg.Format, report)
	if err != nil {
		return err
	}

	// Write cache
	if cfg.Cache != "" {
		if err := writeCache(cfg.Cache, key, output); err != nil {
			logger.Warn("writing cache failed", "cache", cfg.Cache, "err", err)
		}
	}

	_, _ = stdout.Write(output)
	return nil
}

func encode(format string, report *model.Report) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "yaml":
		if err := render.YAML(&buf, report); err != nil {
			return nil, err
		}
	case "table":
		if err := render.Table(&buf, report); err != nil {
			return nil, err
		}
	default:
		buf.WriteString(toon.Encode(report))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// rounds groups scan results into one aggregation input per package,
// ordered by package name. Files keep their discovery order.
func rounds(results []*scan.Result) []aggregate.Input {
	byPackage := make(map[string]*aggregate.Input)
	for _, r := range results {
		in, ok := byPackage[r.Package]
		if !ok {
			in = &aggregate.Input{}
			byPackage[r.Package] = in
		}
		in.Marked = append(in.Marked, r.Marked...)
		in.Declarations = append(in.Declarations, r.Declarations...)
	}

	pkgs := make([]string, 0, len(byPackage))
	for pkg := range byPackage {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	inputs := make([]aggregate.Input, 0, len(pkgs))
	for _, pkg := range pkgs {
		inputs = append(inputs, *byPackage[pkg])
	}
	return inputs
}

func filterBySize(root string, files []discover.FileEntry, maxSize uint64, logger *slog.Logger) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if uint64(fi.Size()) > maxSize {
			logger.Warn("skipped large file", "path", f.Path, "size", humanize.Bytes(uint64(fi.Size())), "limit", humanize.Bytes(maxSize))
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func scanFilesConcurrent(root string, files []discover.FileEntry, markers scan.Markers, logger *slog.Logger) []*scan.Result {
	type result struct {
		index int
		res   *scan.Result
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser
			parsers := make(map[string]*sitter.Parser)

			for idx := range work {
				f := files[idx]
				l := lang.Languages[f.Language]
				p, ok := parsers[f.Language]
				if !ok {
					p = l.NewParser()
					parsers[f.Language] = p
				}

				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					logger.Warn("failed to read source", "path", f.Path, "err", err)
					continue
				}

				res, err := scan.File(l, p, markers, source, f.Path)
				if err != nil {
					logger.Warn("failed to scan source", "path", f.Path, "err", err)
					continue
				}
				results <- result{index: idx, res: res}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([]*scan.Result, len(files))
	for r := range results {
		indexed[r.index] = r.res
	}

	var scanned []*scan.Result
	for _, r := range indexed {
		if r != nil {
			scanned = append(scanned, r)
		}
	}
	return scanned
}
