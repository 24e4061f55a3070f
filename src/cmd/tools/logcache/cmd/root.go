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

// Package cmd implements the logcache command line tool.
package cmd

import (
	"io"
	"os"

	"github.com/ttcnlog/logcache/src/cmd/tools/logcache/config"
	"github.com/ttcnlog/logcache/src/logcache/engine"
	"github.com/ttcnlog/logcache/src/logcache/schema"
	xconfig "github.com/ttcnlog/logcache/src/x/config"
	"github.com/ttcnlog/logcache/src/x/config/configflag"
	"github.com/ttcnlog/logcache/src/x/instrument"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type app struct {
	cfgFlags  configflag.Options
	workspace string
	cacheDir  string

	cfg         config.Configuration
	iopts       instrument.Options
	opts        engine.Options
	logger      *zap.Logger
	scopeCloser io.Closer
	engine      *engine.Engine
}

// NewRootCommand returns the logcache root command.
func NewRootCommand() *cobra.Command {
	a := &app{}
	a.cfgFlags.Optional = true

	root := &cobra.Command{
		Use:   "logcache",
		Short: "Index and cache TTCN-3 execution logs",
		Long: `logcache extracts the records and test cases of TTCN-3 execution logs once
and keeps them in a cache next to the workspace, so that later reads seek
directly into the log file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	a.cfgFlags.RegisterFlagSet(flags)
	flags.StringVarP(&a.workspace, "workspace", "w", "", "Workspace root, overrides the configuration")
	flags.StringVar(&a.cacheDir, "cache-dir", "", "Cache directory, overrides the configuration")

	root.AddCommand(
		newIndexCommand(a),
		newInfoCommand(a),
		newTestCasesCommand(a),
		newReadCommand(a),
		newClearCommand(a),
		newVerifyCommand(a),
	)
	for _, cmd := range root.Commands() {
		runE := cmd.RunE
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return multierr.Append(runE(cmd, args), a.close())
		}
	}
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) init() error {
	if err := a.cfgFlags.Load(&a.cfg, xconfig.Options{}); err != nil {
		return err
	}
	if a.workspace != "" {
		a.cfg.Workspace = a.workspace
	}
	if a.cacheDir != "" {
		a.cfg.Cache.Directory = a.cacheDir
	}

	logger, err := a.cfg.Logging.BuildLogger()
	if err != nil {
		return err
	}
	scope, closer := a.cfg.Metrics.NewRootScope()
	a.logger = logger
	a.scopeCloser = closer
	a.iopts = instrument.NewOptions().
		SetLogger(logger).
		SetMetricsScope(scope).
		SetReportInterval(a.cfg.Metrics.ReportIntervalOrDefault())

	a.opts, err = a.cfg.NewEngineOptions(a.iopts)
	if err != nil {
		return err
	}
	a.engine, err = engine.New(a.opts)
	return err
}

func (a *app) close() error {
	var err error
	if a.scopeCloser != nil {
		err = multierr.Append(err, a.scopeCloser.Close())
	}
	if a.logger != nil {
		// Syncing stderr fails on some platforms.
		_ = a.logger.Sync()
	}
	return err
}

func (a *app) logFile(path string) (schema.LogFile, error) {
	workspace, err := a.cfg.WorkspaceOrDefault()
	if err != nil {
		return schema.LogFile{}, err
	}
	return schema.NewLogFile(workspace, path)
}
