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

package fs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ttcnlog/logcache/src/x/instrument"
)

const (
	// defaultWriterBufferSize is the default buffer size for writing the
	// record index.
	defaultWriterBufferSize = 65536

	// defaultReaderBufferSize is the default buffer size for reading cache files.
	defaultReaderBufferSize = 65536
)

var (
	defaultCacheDirectory   = filepath.Join(os.TempDir(), "logcache")
	defaultNewFileMode      = os.FileMode(0666)
	defaultNewDirectoryMode = os.ModeDir | os.FileMode(0755)

	errInstrumentOptionsNotSet = errors.New("instrument options not set")
	errCacheDirectoryNotSet    = errors.New("cache directory not set")
	errInvalidWriterBufferSize = errors.New("writer buffer size must be at least the size of a record")
	errInvalidReaderBufferSize = errors.New("reader buffer size must be positive")
)

// Options represents the options for the cache store.
type Options interface {
	// Validate validates the options.
	Validate() error

	// SetInstrumentOptions sets the instrumentation options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrumentation options.
	InstrumentOptions() instrument.Options

	// SetCacheDirectory sets the root directory of all cache files.
	SetCacheDirectory(value string) Options

	// CacheDirectory returns the root directory of all cache files.
	CacheDirectory() string

	// SetNewFileMode sets the new file mode.
	SetNewFileMode(value os.FileMode) Options

	// NewFileMode returns the new file mode.
	NewFileMode() os.FileMode

	// SetNewDirectoryMode sets the new directory mode.
	SetNewDirectoryMode(value os.FileMode) Options

	// NewDirectoryMode returns the new directory mode.
	NewDirectoryMode() os.FileMode

	// SetWriterBufferSize sets the buffer size for writing the record index.
	SetWriterBufferSize(value int) Options

	// WriterBufferSize returns the buffer size for writing the record index.
	WriterBufferSize() int

	// SetReaderBufferSize sets the buffer size for reading cache files.
	SetReaderBufferSize(value int) Options

	// ReaderBufferSize returns the buffer size for reading cache files.
	ReaderBufferSize() int
}

type options struct {
	instrumentOpts   instrument.Options
	cacheDirectory   string
	newFileMode      os.FileMode
	newDirectoryMode os.FileMode
	writerBufferSize int
	readerBufferSize int
}

// NewOptions creates a new set of cache store options.
func NewOptions() Options {
	return &options{
		instrumentOpts:   instrument.NewOptions(),
		cacheDirectory:   defaultCacheDirectory,
		newFileMode:      defaultNewFileMode,
		newDirectoryMode: defaultNewDirectoryMode,
		writerBufferSize: defaultWriterBufferSize,
		readerBufferSize: defaultReaderBufferSize,
	}
}

func (o *options) Validate() error {
	if o.instrumentOpts == nil {
		return errInstrumentOptionsNotSet
	}
	if o.cacheDirectory == "" {
		return errCacheDirectoryNotSet
	}
	if o.writerBufferSize < recordSize {
		return errInvalidWriterBufferSize
	}
	if o.readerBufferSize <= 0 {
		return errInvalidReaderBufferSize
	}
	return nil
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.instrumentOpts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}

func (o *options) SetCacheDirectory(value string) Options {
	opts := *o
	opts.cacheDirectory = value
	return &opts
}

func (o *options) CacheDirectory() string {
	return o.cacheDirectory
}

func (o *options) SetNewFileMode(value os.FileMode) Options {
	opts := *o
	opts.newFileMode = value
	return &opts
}

func (o *options) NewFileMode() os.FileMode {
	return o.newFileMode
}

func (o *options) SetNewDirectoryMode(value os.FileMode) Options {
	opts := *o
	opts.newDirectoryMode = value
	return &opts
}

func (o *options) NewDirectoryMode() os.FileMode {
	return o.newDirectoryMode
}

func (o *options) SetWriterBufferSize(value int) Options {
	opts := *o
	opts.writerBufferSize = value
	return &opts
}

func (o *options) WriterBufferSize() int {
	return o.writerBufferSize
}

func (o *options) SetReaderBufferSize(value int) Options {
	opts := *o
	opts.readerBufferSize = value
	return &opts
}

func (o *options) ReaderBufferSize() int {
	return o.readerBufferSize
}
