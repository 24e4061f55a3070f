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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func TestDirectorySizeReporterReport(t *testing.T) {
	testScope := tally.NewTestScope("", nil)
	opts := NewOptions().SetMetricsScope(testScope)

	tempDir, err := ioutil.TempDir("", "dirsizetest")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "project"), 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(tempDir, "project", "a.index"), make([]byte, 32), 0666))
	require.NoError(t, ioutil.WriteFile(filepath.Join(tempDir, "b.property"), make([]byte, 10), 0666))

	reporter := NewDirectorySizeReporter(opts, tempDir)
	size := reporter.Report()
	assert.Equal(t, int64(42), size.Bytes)
	assert.Equal(t, int64(2), size.Files)
	assert.Equal(t, size, reporter.Last())

	bytes, ok := testScope.Snapshot().Gauges()["directory.bytes+"]
	require.True(t, ok)
	assert.Equal(t, float64(42), bytes.Value())

	files, ok := testScope.Snapshot().Gauges()["directory.files+"]
	require.True(t, ok)
	assert.Equal(t, float64(2), files.Value())
}

func TestDirectorySizeReporterMissingDirectory(t *testing.T) {
	reporter := NewDirectorySizeReporter(NewOptions(), filepath.Join(os.TempDir(), "does-not-exist-dirsizetest"))
	assert.Equal(t, DirectorySize{}, reporter.Report())
}

func TestDirectorySizeReporterStartStop(t *testing.T) {
	testScope := tally.NewTestScope("", nil)
	every := 10 * time.Millisecond
	opts := NewOptions().SetMetricsScope(testScope).SetReportInterval(every)

	tempDir, err := ioutil.TempDir("", "dirsizetest")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)
	require.NoError(t, ioutil.WriteFile(filepath.Join(tempDir, "x"), make([]byte, 5), 0666))

	reporter := NewDirectorySizeReporter(opts, tempDir)
	require.Equal(t, errDirSizeReporterNotStarted, reporter.Stop())
	require.NoError(t, reporter.Start())
	require.Equal(t, errDirSizeReporterAlreadyRunning, reporter.Start())

	require.Eventually(t, func() bool {
		return reporter.Last().Bytes == 5
	}, time.Second, every)

	require.NoError(t, reporter.Stop())
	require.Equal(t, errDirSizeReporterNotStarted, reporter.Stop())
}
