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

// Package engine ties format detection, extraction and the cache store
// together. It owns the per log file state and makes sure a log file is
// extracted by one caller at a time.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/ttcnlog/logcache/src/logcache/extract"
	"github.com/ttcnlog/logcache/src/logcache/format"
	"github.com/ttcnlog/logcache/src/logcache/persist/fs"
	"github.com/ttcnlog/logcache/src/logcache/schema"
	"github.com/ttcnlog/logcache/src/logcache/seek"

	"github.com/uber-go/tally"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrExtractionRunning is returned when a log file is already being
// extracted. The call is not queued.
var ErrExtractionRunning = errors.New("extraction already running")

type engineMetrics struct {
	cacheHits          tally.Counter
	cacheMisses        tally.Counter
	extractSuccess     tally.Counter
	extractFailed      tally.Counter
	extractCanceled    tally.Counter
	extractRejected    tally.Counter
	recordsIndexed     tally.Counter
	staleOnRead        tally.Counter
	extractLatency     tally.Timer
	extractionsRunning tally.Gauge
}

func newEngineMetrics(scope tally.Scope) engineMetrics {
	extractScope := scope.SubScope("extraction")
	return engineMetrics{
		cacheHits:          scope.Counter("cache-hits"),
		cacheMisses:        scope.Counter("cache-misses"),
		extractSuccess:     extractScope.Tagged(map[string]string{"result": "success"}).Counter("count"),
		extractFailed:      extractScope.Tagged(map[string]string{"result": "failed"}).Counter("count"),
		extractCanceled:    extractScope.Tagged(map[string]string{"result": "canceled"}).Counter("count"),
		extractRejected:    extractScope.Counter("rejected"),
		recordsIndexed:     extractScope.Counter("records-indexed"),
		staleOnRead:        scope.Counter("stale-on-read"),
		extractLatency:     extractScope.Timer("latency"),
		extractionsRunning: extractScope.Gauge("running"),
	}
}

// Engine opens log files, extracting and caching them when needed.
type Engine struct {
	opts      Options
	store     fs.Store
	detector  *format.Detector
	extractor *extract.Extractor
	slots     *semaphore.Weighted
	logger    *zap.Logger
	metrics   engineMetrics

	mu      sync.Mutex
	running int64
	files   map[string]*fileState
}

// New returns a new engine.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	iopts := opts.InstrumentOptions()
	store, err := fs.NewStore(opts.StoreOptions().SetInstrumentOptions(iopts))
	if err != nil {
		return nil, err
	}
	detector, err := format.NewDetector(opts.FormatOptions().SetInstrumentOptions(iopts))
	if err != nil {
		return nil, err
	}
	extractor, err := extract.NewExtractor(opts.ExtractOptions().
		SetInstrumentOptions(iopts).
		SetNowFn(opts.NowFn()))
	if err != nil {
		return nil, err
	}
	return &Engine{
		opts:      opts,
		store:     store,
		detector:  detector,
		extractor: extractor,
		slots:     semaphore.NewWeighted(int64(opts.MaxConcurrentExtractions())),
		logger:    iopts.Logger(),
		metrics:   newEngineMetrics(iopts.MetricsScope().SubScope("engine")),
		files:     make(map[string]*fileState),
	}, nil
}

// Store returns the cache store of the engine.
func (e *Engine) Store() fs.Store {
	return e.store
}

func (e *Engine) fileState(lf schema.LogFile) *fileState {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.files[lf.Path]
	if !ok {
		f = newFileState()
		e.files[lf.Path] = f
	}
	return f
}

// State returns the state of a log file. A cached log file only turns
// stale once its cache is checked again.
func (e *Engine) State(lf schema.LogFile) State {
	return e.fileState(lf).load()
}

// IsValid checks whether the cache of a log file is fresh.
func (e *Engine) IsValid(ctx context.Context, lf schema.LogFile) (bool, error) {
	rule := e.store.SchedulingRule(lf)
	if err := rule.LockContext(ctx); err != nil {
		return false, err
	}
	defer rule.Unlock()

	_, err := e.store.CheckFreshness(lf)
	if err != nil {
		e.fileState(lf).markStale()
		return false, nil
	}
	return true, nil
}

// Open returns a handle on the cached extraction results of a log file,
// extracting it first if its cache is not fresh. Extraction is canceled
// through ctx, in which case no cache files are left behind and
// extract.ErrCanceled is returned. A second Open of a log file while it is
// being extracted returns ErrExtractionRunning.
func (e *Engine) Open(
	ctx context.Context,
	lf schema.LogFile,
	progressFn extract.ProgressFn,
) (*Handle, error) {
	state := e.fileState(lf)
	if state.extracting.Load() {
		e.metrics.extractRejected.Inc(1)
		return nil, ErrExtractionRunning
	}

	rule := e.store.SchedulingRule(lf)
	if err := rule.LockContext(ctx); err != nil {
		return nil, extract.ErrCanceled
	}
	defer rule.Unlock()

	h, err := e.openCached(lf, state)
	if err == nil {
		e.metrics.cacheHits.Inc(1)
		state.store(StateCached)
		return h, nil
	}
	if !errors.Is(err, fs.ErrCacheAbsent) && !errors.Is(err, fs.ErrCacheStale) {
		e.logger.Warn("could not load cache, extracting again",
			zap.Stringer("logFile", lf), zap.Error(err))
	}
	state.markStale()
	e.metrics.cacheMisses.Inc(1)

	if !state.extracting.CAS(false, true) {
		e.metrics.extractRejected.Inc(1)
		return nil, ErrExtractionRunning
	}
	defer state.extracting.Store(false)

	md, testCases, err := e.extract(ctx, lf, state, progressFn)
	if err != nil {
		state.store(StateUnknown)
		return nil, err
	}
	h, err = e.newHandle(lf, state, md, testCases)
	if err != nil {
		state.store(StateUnknown)
		return nil, err
	}
	state.store(StateCached)
	return h, nil
}

func (e *Engine) openCached(lf schema.LogFile, state *fileState) (*Handle, error) {
	md, err := e.store.CheckFreshness(lf)
	if err != nil {
		return nil, err
	}
	testCases, err := e.store.ReadTestCases(lf)
	if err != nil {
		return nil, err
	}
	return e.newHandle(lf, state, md, testCases)
}

// extract runs a full extraction of a log file into a new cache generation.
// The scheduling rule of the log file must be held.
func (e *Engine) extract(
	ctx context.Context,
	lf schema.LogFile,
	state *fileState,
	progressFn extract.ProgressFn,
) (schema.LogMetaData, []schema.TestCase, error) {
	if err := e.slots.Acquire(ctx, 1); err != nil {
		e.metrics.extractCanceled.Inc(1)
		return schema.LogMetaData{}, nil, extract.ErrCanceled
	}
	defer e.slots.Release(1)

	e.mu.Lock()
	e.running++
	e.metrics.extractionsRunning.Update(float64(e.running))
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running--
		e.metrics.extractionsRunning.Update(float64(e.running))
		e.mu.Unlock()
	}()

	nowFn := e.opts.NowFn()
	start := nowFn()
	state.store(StateDetecting)
	md, err := e.detector.Detect(lf)
	if err != nil {
		e.metrics.extractFailed.Inc(1)
		return schema.LogMetaData{}, nil, err
	}

	state.store(StateExtracting)
	w, err := e.store.NewGenerationWriter(lf)
	if err != nil {
		e.metrics.extractFailed.Inc(1)
		return schema.LogMetaData{}, nil, err
	}
	res, err := e.extractor.Extract(ctx, md, w, progressFn)
	if err != nil {
		if abortErr := w.Abort(); abortErr != nil {
			e.logger.Error("could not clear cache of aborted extraction",
				zap.Stringer("logFile", lf), zap.Error(abortErr))
		}
		if err == extract.ErrCanceled {
			e.metrics.extractCanceled.Inc(1)
			e.logger.Info("extraction canceled", zap.Stringer("logFile", lf))
		} else {
			e.metrics.extractFailed.Inc(1)
		}
		return schema.LogMetaData{}, nil, err
	}

	committed, err := w.Commit(res.MetaData, res.TestCases)
	if err != nil {
		e.metrics.extractFailed.Inc(1)
		return schema.LogMetaData{}, nil, err
	}

	e.metrics.extractSuccess.Inc(1)
	e.metrics.recordsIndexed.Inc(int64(res.Records))
	took := nowFn().Sub(start)
	e.metrics.extractLatency.Record(took)
	if res.FailedDuringExtraction {
		fields := []zap.Field{
			zap.Stringer("logFile", lf),
			zap.Int("parseFailures", res.NumParseFailures),
		}
		if len(res.ParseFailures) > 0 {
			fields = append(fields,
				zap.Int("firstRecord", res.ParseFailures[0].RecordNumber),
				zap.String("firstReason", res.ParseFailures[0].Reason))
		}
		e.logger.Warn("records could not be parsed during extraction", fields...)
	}
	e.logger.Info("extracted log file",
		zap.Stringer("logFile", lf),
		zap.String("generation", committed.GenerationID),
		zap.Int64("records", committed.Records),
		zap.Int("testCases", len(res.TestCases)),
		zap.Duration("took", took))
	return committed, res.TestCases, nil
}

// Invalidate removes the cache of a log file.
func (e *Engine) Invalidate(ctx context.Context, lf schema.LogFile) error {
	state := e.fileState(lf)
	if state.extracting.Load() {
		return ErrExtractionRunning
	}
	rule := e.store.SchedulingRule(lf)
	if err := rule.LockContext(ctx); err != nil {
		return err
	}
	defer rule.Unlock()

	if err := e.store.ClearCache(lf); err != nil {
		return err
	}
	state.store(StateUnknown)
	return nil
}

func (e *Engine) newHandle(
	lf schema.LogFile,
	state *fileState,
	md schema.LogMetaData,
	testCases []schema.TestCase,
) (*Handle, error) {
	index, err := fs.OpenIndexReader(e.store.Paths(lf).RecordIndex)
	if err != nil {
		return nil, err
	}
	if index.Records() != md.Records {
		index.Close()
		return nil, fs.ErrCacheStale
	}
	reader, err := seek.NewReader(md)
	if err != nil {
		return nil, multierr.Append(err, index.Close())
	}
	return &Handle{
		engine:    e,
		state:     state,
		lf:        lf,
		md:        md,
		testCases: testCases,
		index:     index,
		reader:    reader,
	}, nil
}
