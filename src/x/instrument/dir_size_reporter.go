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
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	xos "github.com/ttcnlog/logcache/src/x/os"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

var (
	errDirSizeReporterAlreadyRunning = errors.New("directory size reporter: already running")
	errDirSizeReporterNotStarted     = errors.New("directory size reporter: not running")
)

// DirectorySize is the result of walking a directory tree. FileSystem is
// zero when the stats of the file system holding the tree are unavailable.
type DirectorySize struct {
	Bytes      int64
	Files      int64
	FileSystem xos.FileSystemStats
}

// DirectorySizeReporter periodically emits the size of a directory tree.
type DirectorySizeReporter struct {
	sync.Mutex
	running  bool
	doneCh   chan struct{}
	wg       sync.WaitGroup
	dir      string
	interval time.Duration
	logger   *zap.Logger

	bytes       tally.Gauge
	files       tally.Gauge
	walkErrors  tally.Counter
	fsTotal     tally.Gauge
	fsAvail     tally.Gauge
	fsErrors    tally.Counter
	lastReading DirectorySize
}

// NewDirectorySizeReporter returns a reporter for the given directory. Metrics
// are emitted under the "directory" sub scope every report interval.
func NewDirectorySizeReporter(opts Options, dir string) *DirectorySizeReporter {
	scope := opts.MetricsScope().SubScope("directory")
	return &DirectorySizeReporter{
		dir:        dir,
		interval:   opts.ReportInterval(),
		logger:     opts.Logger(),
		bytes:      scope.Gauge("bytes"),
		files:      scope.Gauge("files"),
		walkErrors: scope.Counter("walk-errors"),
		fsTotal:    scope.Gauge("filesystem-total-bytes"),
		fsAvail:    scope.Gauge("filesystem-avail-bytes"),
		fsErrors:   scope.Counter("filesystem-errors"),
	}
}

// Report walks the directory once and emits its size. A missing directory
// has size zero.
func (r *DirectorySizeReporter) Report() DirectorySize {
	var size DirectorySize
	err := filepath.Walk(r.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.Mode().IsRegular() {
			size.Bytes += info.Size()
			size.Files++
		}
		return nil
	})
	if err != nil {
		r.walkErrors.Inc(1)
		r.logger.Warn("could not walk directory", zap.String("dir", r.dir), zap.Error(err))
	}
	r.bytes.Update(float64(size.Bytes))
	r.files.Update(float64(size.Files))

	stats, err := xos.GetFileSystemStats(r.dir)
	switch {
	case err == nil:
		size.FileSystem = stats
		r.fsTotal.Update(float64(stats.Total))
		r.fsAvail.Update(float64(stats.Avail))
	case !os.IsNotExist(err):
		r.fsErrors.Inc(1)
	}

	r.Lock()
	r.lastReading = size
	r.Unlock()
	return size
}

// Last returns the most recent reading.
func (r *DirectorySizeReporter) Last() DirectorySize {
	r.Lock()
	defer r.Unlock()
	return r.lastReading
}

// Start starts a goroutine that reports the directory size until Stop.
func (r *DirectorySizeReporter) Start() error {
	r.Lock()
	defer r.Unlock()

	if r.running {
		return errDirSizeReporterAlreadyRunning
	}
	r.running = true
	r.doneCh = make(chan struct{})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			r.Report()
			select {
			case <-r.doneCh:
				return
			case <-ticker.C:
			}
		}
	}()
	return nil
}

// Stop stops reporting and waits for the reporting goroutine to exit.
func (r *DirectorySizeReporter) Stop() error {
	r.Lock()
	if !r.running {
		r.Unlock()
		return errDirSizeReporterNotStarted
	}
	r.running = false
	close(r.doneCh)
	r.Unlock()

	r.wg.Wait()
	return nil
}
