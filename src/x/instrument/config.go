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

package instrument

import (
	"io"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfiguration configures the zap logger.
type LoggingConfiguration struct {
	// Level is the minimum enabled level, e.g. "info" or "debug".
	Level string `yaml:"level"`

	// Encoding is either "json" or "console".
	Encoding string `yaml:"encoding" validate:"regexp=^(json|console)?$"`

	// File, if set, is written to in addition to stderr.
	File string `yaml:"file"`
}

// BuildLogger builds a new logger based on the configuration.
func (cfg LoggingConfiguration) BuildLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = encoding
	zapCfg.Sampling = nil
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.File)
	}
	return zapCfg.Build()
}

// MetricsConfiguration configures the metrics root scope.
type MetricsConfiguration struct {
	// Prefix is prepended to every metric name.
	Prefix string `yaml:"prefix"`

	// ReportInterval is the interval at which metrics are reported.
	ReportInterval time.Duration `yaml:"reportInterval"`
}

// NewRootScope creates a new root scope. Metrics are kept in memory until a
// reporter is attached by the caller.
func (cfg MetricsConfiguration) NewRootScope() (tally.Scope, io.Closer) {
	interval := cfg.ReportInterval
	if interval <= 0 {
		interval = defaultReportInterval
	}
	return tally.NewRootScope(tally.ScopeOptions{
		Prefix:   cfg.Prefix,
		Reporter: tally.NullStatsReporter,
	}, interval)
}

// ReportIntervalOrDefault returns the configured report interval or the default.
func (cfg MetricsConfiguration) ReportIntervalOrDefault() time.Duration {
	if cfg.ReportInterval <= 0 {
		return defaultReportInterval
	}
	return cfg.ReportInterval
}
