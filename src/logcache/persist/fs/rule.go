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
	"context"
	"sync"
)

// ruleKey identifies a log file by all the files a cache operation touches.
type ruleKey struct {
	logFile     string
	metaData    string
	testCases   string
	recordIndex string
}

type ruleEntry struct {
	sem  chan struct{}
	refs int
}

// ruleRegistry hands out rules keyed by log file. Entries are reference
// counted by holders and waiters and removed once unused.
type ruleRegistry struct {
	sync.Mutex
	entries map[ruleKey]*ruleEntry
}

func newRuleRegistry() *ruleRegistry {
	return &ruleRegistry{entries: make(map[ruleKey]*ruleEntry)}
}

func (r *ruleRegistry) rule(paths FilePaths) Rule {
	return &rule{
		registry: r,
		key: ruleKey{
			logFile:     paths.LogFile,
			metaData:    paths.MetaData,
			testCases:   paths.TestCases,
			recordIndex: paths.RecordIndex,
		},
	}
}

func (r *ruleRegistry) acquire(key ruleKey) *ruleEntry {
	r.Lock()
	defer r.Unlock()
	e, ok := r.entries[key]
	if !ok {
		e = &ruleEntry{sem: make(chan struct{}, 1)}
		r.entries[key] = e
	}
	e.refs++
	return e
}

func (r *ruleRegistry) release(key ruleKey) {
	r.Lock()
	defer r.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, key)
	}
}

func (r *ruleRegistry) len() int {
	r.Lock()
	defer r.Unlock()
	return len(r.entries)
}

type rule struct {
	registry *ruleRegistry
	key      ruleKey
}

func (r *rule) Lock() {
	e := r.registry.acquire(r.key)
	e.sem <- struct{}{}
}

func (r *rule) LockContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := r.registry.acquire(r.key)
	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		r.registry.release(r.key)
		return ctx.Err()
	}
}

func (r *rule) TryLock() bool {
	e := r.registry.acquire(r.key)
	select {
	case e.sem <- struct{}{}:
		return true
	default:
		r.registry.release(r.key)
		return false
	}
}

func (r *rule) Unlock() {
	r.registry.Lock()
	e, ok := r.registry.entries[r.key]
	r.registry.Unlock()
	if !ok {
		panic("fs: unlock of unlocked rule")
	}
	select {
	case <-e.sem:
	default:
		panic("fs: unlock of unlocked rule")
	}
	r.registry.release(r.key)
}
