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
	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

type storeMetrics struct {
	fresh          tally.Counter
	stale          tally.Counter
	absent         tally.Counter
	corruptRemoved tally.Counter
	generations    tally.Counter
	aborted        tally.Counter
	indexOutOfDate tally.Counter
}

func newStoreMetrics(scope tally.Scope) storeMetrics {
	freshness := scope.SubScope("freshness")
	return storeMetrics{
		fresh:          freshness.Counter("fresh"),
		stale:          freshness.Counter("stale"),
		absent:         freshness.Counter("absent"),
		corruptRemoved: scope.Counter("corrupt-removed"),
		generations:    scope.Counter("generations-committed"),
		aborted:        scope.Counter("generations-aborted"),
		indexOutOfDate: scope.Counter("index-out-of-date"),
	}
}

type store struct {
	opts    Options
	logger  *zap.Logger
	metrics storeMetrics
	rules   *ruleRegistry
}

// NewStore returns a new cache store.
func NewStore(opts Options) (Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	iopts := opts.InstrumentOptions()
	return &store{
		opts:    opts,
		logger:  iopts.Logger(),
		metrics: newStoreMetrics(iopts.MetricsScope().SubScope("cache")),
		rules:   newRuleRegistry(),
	}, nil
}

func (s *store) Paths(lf schema.LogFile) FilePaths {
	return CacheFilePaths(s.opts.CacheDirectory(), lf)
}

func (s *store) SchedulingRule(lf schema.LogFile) Rule {
	return s.rules.rule(s.Paths(lf))
}
