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

// Package config holds the YAML configuration of the logcache tool.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ttcnlog/logcache/src/logcache/engine"
	"github.com/ttcnlog/logcache/src/logcache/extract"
	"github.com/ttcnlog/logcache/src/logcache/format"
	"github.com/ttcnlog/logcache/src/logcache/persist/fs"
	"github.com/ttcnlog/logcache/src/x/instrument"

	"github.com/c2h5oh/datasize"
)

var errWorkspaceNotAbsolute = errors.New("workspace must be an absolute path")

// Configuration is the configuration of the logcache tool.
type Configuration struct {
	// Logging configuration.
	Logging instrument.LoggingConfiguration `yaml:"logging"`

	// Metrics configuration.
	Metrics instrument.MetricsConfiguration `yaml:"metrics"`

	// Workspace is the root directory holding one directory per project.
	// Log files outside of it are cached as external files.
	Workspace string `yaml:"workspace"`

	// Cache configures the cache store.
	Cache CacheConfiguration `yaml:"cache"`

	// Extraction configures log file extraction.
	Extraction ExtractionConfiguration `yaml:"extraction"`

	// Format configures log file format detection.
	Format FormatConfiguration `yaml:"format"`
}

// CacheConfiguration configures the cache store.
type CacheConfiguration struct {
	// Directory is the root of the cache tree.
	Directory string `yaml:"directory"`

	// WriterBufferSize is the buffer size used writing the record index.
	WriterBufferSize datasize.ByteSize `yaml:"writerBufferSize"`

	// ReaderBufferSize is the buffer size used verifying cache files.
	ReaderBufferSize datasize.ByteSize `yaml:"readerBufferSize"`
}

// ExtractionConfiguration configures log file extraction.
type ExtractionConfiguration struct {
	// MaxConcurrent is the number of log files extracted at the same time.
	MaxConcurrent int `yaml:"maxConcurrent" validate:"min=0"`

	// ReaderBufferSize is the buffer size used scanning log files.
	ReaderBufferSize datasize.ByteSize `yaml:"readerBufferSize"`

	// MaxParseFailures bounds the parse failures kept per extraction.
	MaxParseFailures int `yaml:"maxParseFailures" validate:"min=0"`
}

// FormatConfiguration configures log file format detection.
type FormatConfiguration struct {
	SingleModeMarkers   []string          `yaml:"singleModeMarkers"`
	ParallelModeMarkers []string          `yaml:"parallelModeMarkers"`
	GenericStartMarker  *string           `yaml:"genericStartMarker"`
	MaxFirstLineLength  datasize.ByteSize `yaml:"maxFirstLineLength"`
}

// WorkspaceOrDefault returns the configured workspace or the working
// directory.
func (c Configuration) WorkspaceOrDefault() (string, error) {
	if c.Workspace == "" {
		return os.Getwd()
	}
	if !filepath.IsAbs(c.Workspace) {
		return "", errWorkspaceNotAbsolute
	}
	return filepath.Clean(c.Workspace), nil
}

// NewEngineOptions returns engine options reflecting the configuration.
// Unset values keep their defaults.
func (c Configuration) NewEngineOptions(iopts instrument.Options) (engine.Options, error) {
	storeOpts := c.Cache.newStoreOptions(fs.NewOptions())
	formatOpts := c.Format.newFormatOptions(format.NewOptions())
	extractOpts := c.Extraction.newExtractOptions(extract.NewOptions())

	opts := engine.NewOptions().
		SetInstrumentOptions(iopts).
		SetStoreOptions(storeOpts).
		SetFormatOptions(formatOpts).
		SetExtractOptions(extractOpts)
	if c.Extraction.MaxConcurrent > 0 {
		opts = opts.SetMaxConcurrentExtractions(c.Extraction.MaxConcurrent)
	}

	for _, validate := range []func() error{
		storeOpts.Validate,
		formatOpts.Validate,
		extractOpts.Validate,
		opts.Validate,
	} {
		if err := validate(); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func (c CacheConfiguration) newStoreOptions(opts fs.Options) fs.Options {
	if c.Directory != "" {
		opts = opts.SetCacheDirectory(c.Directory)
	}
	if c.WriterBufferSize > 0 {
		opts = opts.SetWriterBufferSize(int(c.WriterBufferSize.Bytes()))
	}
	if c.ReaderBufferSize > 0 {
		opts = opts.SetReaderBufferSize(int(c.ReaderBufferSize.Bytes()))
	}
	return opts
}

func (c ExtractionConfiguration) newExtractOptions(opts extract.Options) extract.Options {
	if c.ReaderBufferSize > 0 {
		opts = opts.SetReaderBufferSize(int(c.ReaderBufferSize.Bytes()))
	}
	if c.MaxParseFailures > 0 {
		opts = opts.SetMaxParseFailures(c.MaxParseFailures)
	}
	return opts
}

func (c FormatConfiguration) newFormatOptions(opts format.Options) format.Options {
	if len(c.SingleModeMarkers) > 0 {
		opts = opts.SetSingleModeMarkers(c.SingleModeMarkers)
	}
	if len(c.ParallelModeMarkers) > 0 {
		opts = opts.SetParallelModeMarkers(c.ParallelModeMarkers)
	}
	if c.GenericStartMarker != nil {
		opts = opts.SetGenericStartMarker(*c.GenericStartMarker)
	}
	if c.MaxFirstLineLength > 0 {
		opts = opts.SetMaxFirstLineLength(int(c.MaxFirstLineLength.Bytes()))
	}
	return opts
}
