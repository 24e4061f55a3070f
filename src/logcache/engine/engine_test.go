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

package engine

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ttcnlog/logcache/src/logcache/extract"
	"github.com/ttcnlog/logcache/src/logcache/format"
	"github.com/ttcnlog/logcache/src/logcache/persist/fs"
	"github.com/ttcnlog/logcache/src/logcache/schema"
	"github.com/ttcnlog/logcache/src/logcache/seek"
	"github.com/ttcnlog/logcache/src/x/clock"
	"github.com/ttcnlog/logcache/src/x/instrument"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

const testStartLine = "10:13:45.123456 TTCN-3 Test Executor started in single mode.\n"

type testEnv struct {
	workspace string
	cacheDir  string
	scope     tally.TestScope
	engine    *Engine
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	workspace, err := ioutil.TempDir("", "workspace")
	require.NoError(t, err)
	cacheDir, err := ioutil.TempDir("", "cache")
	require.NoError(t, err)

	if opts == nil {
		opts = NewOptions()
	}
	scope := tally.NewTestScope("", nil)
	opts = opts.
		SetInstrumentOptions(instrument.NewOptions().SetMetricsScope(scope)).
		SetStoreOptions(opts.StoreOptions().SetCacheDirectory(cacheDir))
	e, err := New(opts)
	require.NoError(t, err)
	return &testEnv{
		workspace: workspace,
		cacheDir:  cacheDir,
		scope:     scope,
		engine:    e,
	}
}

func (e *testEnv) Close() {
	os.RemoveAll(e.workspace)
	os.RemoveAll(e.cacheDir)
}

func testLogLines(records int) []string {
	lines := []string{testStartLine, "10:13:45.200000 Test case TC_1 started.\n"}
	for i := len(lines); i < records-1; i++ {
		lines = append(lines, fmt.Sprintf("10:13:46.%06d message %d\n", i, i))
	}
	return append(lines, "10:13:47.000000 Test case TC_1 finished. Verdict: pass\n")
}

func (e *testEnv) writeLog(t *testing.T, rel string, lines []string) schema.LogFile {
	path := filepath.Join(e.workspace, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(strings.Join(lines, "")), 0666))
	lf, err := schema.NewLogFile(e.workspace, path)
	require.NoError(t, err)
	return lf
}

func (e *testEnv) counter(name string, tags map[string]string) int64 {
	for _, c := range e.scope.Snapshot().Counters() {
		if c.Name() != name {
			continue
		}
		match := true
		for k, v := range tags {
			if c.Tags()[k] != v {
				match = false
			}
		}
		if match {
			return c.Value()
		}
	}
	return 0
}

func (e *testEnv) requireNoCacheFiles(t *testing.T, lf schema.LogFile) {
	for _, f := range e.engine.Store().Paths(lf).CacheFiles() {
		require.False(t, fs.FileExists(f), f)
	}
}

func TestOpenExtractsAndCaches(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lf := env.writeLog(t, "proj/logs/run.log", testLogLines(100))
	require.Equal(t, StateUnknown, env.engine.State(lf))

	h, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	require.Equal(t, StateCached, env.engine.State(lf))

	md := h.MetaData()
	require.Equal(t, int64(100), md.Records)
	require.Equal(t, schema.SingleMode, md.ExecutionMode)
	require.Equal(t, "proj", md.ProjectName)
	expected := []schema.TestCase{{
		Name:              "TC_1",
		SequenceNumber:    1,
		Verdict:           schema.VerdictPass,
		StartRecordNumber: 1,
		NumberOfRecords:   99,
	}}
	require.True(t, cmp.Equal(expected, h.TestCases()), cmp.Diff(expected, h.TestCases()))

	rec, err := h.Record(5)
	require.NoError(t, err)
	require.Equal(t, 5, rec.Number)
	require.Equal(t, "message 5", rec.Message)

	records, err := h.TestCaseRecords(h.TestCases()[0])
	require.NoError(t, err)
	require.Len(t, records, 99)
	require.NoError(t, h.Close())

	h, err = env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	require.True(t, cmp.Equal(md, h.MetaData()), cmp.Diff(md, h.MetaData()))
	require.NoError(t, h.Close())

	require.Equal(t, int64(1), env.counter("engine.cache-hits", nil))
	require.Equal(t, int64(1), env.counter("engine.cache-misses", nil))
	require.Equal(t, int64(1), env.counter("engine.extraction.count", map[string]string{"result": "success"}))
	require.Equal(t, int64(100), env.counter("engine.extraction.records-indexed", nil))
}

func TestOpenRecordsExtractionLatency(t *testing.T) {
	var (
		mu  sync.Mutex
		now = time.Unix(1700000000, 0)
	)
	step := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(10 * time.Millisecond)
		return now
	}
	c := clock.NewOffsetClock(time.Unix(0, 0), step)
	env := newTestEnv(t, NewOptions().SetNowFn(c.Now))
	defer env.Close()

	lf := env.writeLog(t, "proj/logs/run.log", testLogLines(10))
	h, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	// The extractor shares the clock and reads it twice inside the
	// engine's own measurement.
	timers := env.scope.Snapshot().Timers()
	engineTimer, ok := timers["engine.extraction.latency+"]
	require.True(t, ok)
	require.Equal(t, []time.Duration{30 * time.Millisecond}, engineTimer.Values())
	extractTimer, ok := timers["extract.duration+"]
	require.True(t, ok)
	require.Equal(t, []time.Duration{10 * time.Millisecond}, extractTimer.Values())
}

func TestOpenAfterAppend(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lines := testLogLines(100)
	lf := env.writeLog(t, "proj/run.log", lines)

	h, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	f, err := os.OpenFile(lf.Path, os.O_APPEND|os.O_WRONLY, 0666)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err := fmt.Fprintf(f, "10:13:48.%06d appended %d\n", i, i)
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	valid, err := env.engine.IsValid(context.Background(), lf)
	require.NoError(t, err)
	require.False(t, valid)
	require.Equal(t, StateStale, env.engine.State(lf))

	h, err = env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	defer h.Close()
	require.Equal(t, int64(150), h.MetaData().Records)

	rec, err := h.Record(149)
	require.NoError(t, err)
	require.Equal(t, "appended 49", rec.Message)

	valid, err = env.engine.IsValid(context.Background(), lf)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestOpenCanceled(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lf := env.writeLog(t, "proj/run.log", testLogLines(5000))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var last extract.Progress
	_, err := env.engine.Open(ctx, lf, func(p extract.Progress) {
		last = p
		if p.Percent >= 30 {
			cancel()
		}
	})
	require.Equal(t, extract.ErrCanceled, err)
	require.True(t, last.Percent < 100)
	require.Equal(t, StateUnknown, env.engine.State(lf))
	env.requireNoCacheFiles(t, lf)
	require.Equal(t, int64(1), env.counter("engine.extraction.count", map[string]string{"result": "canceled"}))

	h, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	require.Equal(t, StateCached, env.engine.State(lf))
}

func TestOpenCanceledBeforeStart(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lf := env.writeLog(t, "proj/run.log", testLogLines(10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.engine.Open(ctx, lf, nil)
	require.Equal(t, extract.ErrCanceled, err)
	env.requireNoCacheFiles(t, lf)
}

func TestOpenWhileExtracting(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lf := env.writeLog(t, "proj/run.log", testLogLines(1000))
	var (
		nestedOpenErr       error
		nestedInvalidateErr error
		once                sync.Once
	)
	h, err := env.engine.Open(context.Background(), lf, func(p extract.Progress) {
		once.Do(func() {
			require.Equal(t, StateExtracting, env.engine.State(lf))
			_, nestedOpenErr = env.engine.Open(context.Background(), lf, nil)
			nestedInvalidateErr = env.engine.Invalidate(context.Background(), lf)
		})
	})
	require.NoError(t, err)
	defer h.Close()

	require.Equal(t, ErrExtractionRunning, nestedOpenErr)
	require.Equal(t, ErrExtractionRunning, nestedInvalidateErr)
	require.Equal(t, int64(1), env.counter("engine.extraction.rejected", nil))
}

func TestOpenFormatError(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lf := env.writeLog(t, "proj/run.log", []string{"no time stamp here\n"})
	_, err := env.engine.Open(context.Background(), lf, nil)
	kind, ok := format.IsFormatError(err)
	require.True(t, ok)
	require.Equal(t, format.NoTimeStamp, kind)
	require.Equal(t, StateUnknown, env.engine.State(lf))
	require.Equal(t, int64(1), env.counter("engine.extraction.count", map[string]string{"result": "failed"}))
}

func TestHandleOutOfDate(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lf := env.writeLog(t, "proj/run.log", testLogLines(100))
	h, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Records(95, 10)
	require.True(t, errors.Is(err, fs.ErrIndexOutOfDate), err)
	require.Equal(t, StateStale, env.engine.State(lf))

	_, err = h.Records(1<<60, 1)
	require.True(t, errors.Is(err, fs.ErrIndexOutOfDate), err)

	h2, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	defer h2.Close()
	require.Equal(t, StateCached, env.engine.State(lf))

	require.NoError(t, os.Truncate(lf.Path, 100))
	_, err = h2.Record(99)
	require.True(t, errors.Is(err, seek.ErrRecordOutOfDate), err)
	require.Equal(t, StateStale, env.engine.State(lf))
	require.Equal(t, int64(3), env.counter("engine.stale-on-read", nil))
}

func TestInvalidate(t *testing.T) {
	env := newTestEnv(t, nil)
	defer env.Close()

	lf := env.writeLog(t, "proj/run.log", testLogLines(100))
	h, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, env.engine.Invalidate(context.Background(), lf))
	require.NoError(t, env.engine.Invalidate(context.Background(), lf))
	require.Equal(t, StateUnknown, env.engine.State(lf))
	env.requireNoCacheFiles(t, lf)

	// The open handle still reads its generation.
	rec, err := h.Record(50)
	require.NoError(t, err)
	require.Equal(t, "message 50", rec.Message)

	h2, err := env.engine.Open(context.Background(), lf, nil)
	require.NoError(t, err)
	require.NoError(t, h2.Close())
	require.Equal(t, int64(2), env.counter("engine.cache-misses", nil))
}

func TestOpenConcurrently(t *testing.T) {
	env := newTestEnv(t, NewOptions().SetMaxConcurrentExtractions(1))
	defer env.Close()

	var files []schema.LogFile
	for i := 0; i < 4; i++ {
		files = append(files, env.writeLog(t, fmt.Sprintf("proj/run%d.log", i), testLogLines(200+i)))
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		for _, lf := range files {
			wg.Add(1)
			go func(lf schema.LogFile) {
				defer wg.Done()
				h, err := env.engine.Open(context.Background(), lf, nil)
				if err == ErrExtractionRunning {
					return
				}
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, lf.Path, h.MetaData().FilePath)
				assert.NoError(t, h.Close())
			}(lf)
		}
	}
	wg.Wait()

	for i, lf := range files {
		h, err := env.engine.Open(context.Background(), lf, nil)
		require.NoError(t, err)
		require.Equal(t, int64(200+i), h.MetaData().Records)
		require.NoError(t, h.Close())
	}
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, NewOptions().Validate())
	require.Equal(t, errInvalidMaxConcurrentExtractions, NewOptions().SetMaxConcurrentExtractions(0).Validate())
	require.Equal(t, errStoreOptionsNotSet, NewOptions().SetStoreOptions(nil).Validate())
	require.Equal(t, errFormatOptionsNotSet, NewOptions().SetFormatOptions(nil).Validate())
	require.Equal(t, errExtractOptionsNotSet, NewOptions().SetExtractOptions(nil).Validate())
	require.Equal(t, errInstrumentOptionsNotSet, NewOptions().SetInstrumentOptions(nil).Validate())
	require.Equal(t, errNowFnNotSet, NewOptions().SetNowFn(nil).Validate())

	_, err := New(NewOptions().SetMaxConcurrentExtractions(-1))
	require.Error(t, err)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "cached", StateCached.String())
	require.Equal(t, "State(9)", State(9).String())
}
