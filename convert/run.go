// Package convert implements the "inline" command: it finds HTML sources,
// runs every document through the inliner and writes results.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"smover/config"
	"smover/htmldoc"
	"smover/inliner"
	"smover/state"
)

// Fatal outcomes for a single document, no output is written.
var (
	ErrInputRead   = errors.New("unable to read input")
	ErrOutputWrite = errors.New("unable to write output")
)

// options are per run settings combined from configuration and command line.
type options struct {
	doc   inliner.Options
	stats bool
	out   io.Writer // where statistics go
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) != 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	if out := cmd.String("output"); len(out) != 0 {
		if env.Output, err = filepath.Abs(out); err != nil {
			return err
		}
	}

	opts := buildOptions(cmd, env.Cfg)
	opts.out = cmd.Root().Writer

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, opts, log)
}

// buildOptions merges command line flags on top of configuration.
func buildOptions(cmd *cli.Command, cfg *config.Config) options {
	opts := options{
		doc: inliner.Options{
			Capitalize:   cfg.Document.CapitalizeHeadings || cmd.Bool("capitalic"),
			CollectStats: cfg.Document.Stats || cmd.Bool("stat"),
		},
	}
	opts.stats = opts.doc.CollectStats

	class := cfg.Document.PreClass
	if cmd.IsSet("ascii-class") {
		class = cmd.String("ascii-class")
	}
	if cfg.Document.WrapPre || cmd.Bool("ascii") || cmd.IsSet("ascii-class") {
		opts.doc.PreClass = class
	}
	return opts
}

// process decides whether source is a single file or a directory.
func process(ctx context.Context, src, dst string, opts options, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: input source was not found (%s): %w", ErrInputRead, src, err)
	}

	if fi.IsDir() {
		if len(env.Output) != 0 {
			return errors.New("output file name could only be specified for a single input file")
		}
		if len(dst) == 0 {
			dst = src
		}
		return processDir(ctx, src, dst, opts, log)
	}

	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: unexpected path mode for (%s)", ErrInputRead, src)
	}
	if len(dst) == 0 {
		dst = filepath.Dir(src)
	}
	return processFile(ctx, src, filepath.Base(src), dst, opts, log)
}

// processDir walks directory tree finding html files and processes them in
// natural order. Failures of individual files do not stop processing.
func processDir(ctx context.Context, dir, dst string, opts options, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !isHTMLFile(path) {
			log.Debug("Skipping file, not recognized as html", zap.String("file", path))
			return nil
		}
		if isOutputFile(path, env) {
			log.Debug("Skipping file, looks like previous output", zap.String("file", path))
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}

	if len(files) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}
	sort.Sort(natural.StringSlice(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processFile(ctx, path, rel, dst, opts, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			env.Collect(fmt.Errorf("%s: %w", path, err))
		}
	}
	return nil
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

func isOutputFile(path string, env *state.LocalEnv) bool {
	suffix := env.Cfg.Output.Suffix
	if len(suffix) == 0 || len(env.Cfg.Output.NameTemplate) != 0 {
		return false
	}
	return strings.HasSuffix(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), suffix)
}

// processFile processes single HTML document. "src" is part of the source
// path (always including file name) relative to the original path. "dst" is
// the destination directory.
func processFile(ctx context.Context, path, src, dst string, opts options, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	runID, err := uuid.NewV7()
	if err != nil {
		runID = uuid.New()
	}
	log = log.With(zap.Stringer("run", runID))

	var outputName string

	log.Info("Inlining starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Inlining ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("inlining panic: %v", r)
		} else if rerr == nil {
			log.Info("Inlining completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("source-%s%s", runID, filepath.Ext(path)), path)
	}

	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	res, err := inliner.New(log).Process(doc, opts.doc)
	if err != nil {
		return fmt.Errorf("unable to process (%s): %w", src, err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("resolution-%s.txt", runID), []byte(inliner.Dump(res)))
	}
	if env.Batch {
		for _, w := range res.Warnings {
			env.Collect(fmt.Errorf("%s: %w", src, w))
		}
	}

	var buf bytes.Buffer
	if err := htmldoc.Render(&buf, doc); err != nil {
		return fmt.Errorf("unable to process (%s): %w", src, err)
	}

	outputName = buildOutputPath(src, dst, env)
	if err := prepareOutput(outputName, env, log); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := writeFileAtomic(outputName, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s%s", runID, filepath.Ext(outputName)), outputName)
	}

	if opts.stats && !env.Batch && opts.out != nil {
		if _, err := fmt.Fprintf(opts.out, "\n%s\n", src); err == nil {
			_, err = res.Tally.WriteTo(opts.out)
			if err != nil {
				log.Warn("Unable to print statistics", zap.Error(err))
			}
		}
	}
	return nil
}
