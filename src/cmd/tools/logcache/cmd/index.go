// Copyright (c) 2026 The ttcnlog logcache Authors.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ttcnlog/logcache/src/logcache/extract"
	"github.com/ttcnlog/logcache/src/logcache/schema"
	"github.com/ttcnlog/logcache/src/x/instrument"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type indexResult struct {
	md        schema.LogMetaData
	testCases int
	err       error
}

func newIndexCommand(a *app) *cobra.Command {
	var (
		force     bool
		keepGoing bool
	)
	cmd := &cobra.Command{
		Use:   "index FILE...",
		Short: "Extract and cache log files",
		Long: `Index extracts every given log file whose cache is missing or out of date.
Files are extracted concurrently, bounded by extraction.maxConcurrent.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			reporter := instrument.NewDirectorySizeReporter(a.iopts,
				a.opts.StoreOptions().CacheDirectory())
			if err := reporter.Start(); err != nil {
				return err
			}

			var (
				g, gctx = errgroup.WithContext(ctx)
				results = make([]indexResult, len(args))
			)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					lf, err := a.logFile(path)
					if err != nil {
						results[i].err = err
						return err
					}
					res, err := a.index(gctx, lf, force)
					results[i] = res
					if err != nil && !keepGoing {
						return err
					}
					return nil
				})
			}
			// Per file errors are kept in results.
			_ = g.Wait()
			err := reporter.Stop()
			size := reporter.Report()

			out := cmd.OutOrStdout()
			for i, res := range results {
				if res.err != nil {
					fmt.Fprintf(out, "%s: %v\n", args[i], res.err)
					err = multierr.Append(err, res.err)
					continue
				}
				if res.md.FilePath == "" {
					continue
				}
				fmt.Fprintf(out, "%s: %d records, %d test cases, generation %s\n",
					args[i], res.md.Records, res.testCases, res.md.GenerationID)
			}
			fmt.Fprintf(out, "cache: %d bytes in %d files, %d bytes available\n",
				size.Bytes, size.Files, size.FileSystem.Avail)
			a.logger.Info("cache directory size",
				zap.Int64("bytes", size.Bytes),
				zap.Int64("files", size.Files),
				zap.Uint64("fileSystemAvail", size.FileSystem.Avail))
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Discard existing caches and extract again")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Keep extracting other files after a failure")
	return cmd
}

func (a *app) index(ctx context.Context, lf schema.LogFile, force bool) (indexResult, error) {
	if force {
		if err := a.engine.Invalidate(ctx, lf); err != nil {
			return indexResult{err: err}, err
		}
	}

	last := 0
	h, err := a.engine.Open(ctx, lf, func(p extract.Progress) {
		if p.Percent-last >= 10 || p.Percent == 100 {
			last = p.Percent
			a.logger.Debug("extracting",
				zap.Stringer("logFile", lf),
				zap.Int("percent", p.Percent),
				zap.String("testCase", p.TestCase))
		}
	})
	if err != nil {
		return indexResult{err: err}, err
	}
	res := indexResult{md: h.MetaData(), testCases: len(h.TestCases())}
	return res, h.Close()
}
