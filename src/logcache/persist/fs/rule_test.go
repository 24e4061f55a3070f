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
	"testing"
	"time"

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/stretchr/testify/require"
)

func TestRuleSerializesSameLogFile(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	lf := schema.LogFile{Path: "/ws/proj/a.log", ProjectName: "proj", ProjectRelativePath: "a.log"}
	other := schema.LogFile{Path: "/ws/proj/b.log", ProjectName: "proj", ProjectRelativePath: "b.log"}

	r1 := env.store.SchedulingRule(lf)
	r2 := env.store.SchedulingRule(lf)
	r3 := env.store.SchedulingRule(other)

	r1.Lock()
	require.False(t, r2.TryLock())
	require.True(t, r3.TryLock())
	r3.Unlock()

	var (
		wg       sync.WaitGroup
		acquired = make(chan struct{})
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		r2.Lock()
		close(acquired)
		r2.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("rule acquired while held")
	case <-time.After(50 * time.Millisecond):
	}
	r1.Unlock()
	wg.Wait()

	registry := env.store.(*store).rules
	require.Equal(t, 0, registry.len())
}

func TestRuleLockContext(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	lf := schema.LogFile{Path: "/ws/proj/a.log", ProjectName: "proj", ProjectRelativePath: "a.log"}
	r := env.store.SchedulingRule(lf)
	r.Lock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, env.store.SchedulingRule(lf).LockContext(ctx))

	r.Unlock()
	require.NoError(t, env.store.SchedulingRule(lf).LockContext(context.Background()))
	env.store.SchedulingRule(lf).Unlock()
	require.Equal(t, 0, env.store.(*store).rules.len())
}

func TestRuleUnlockOfUnlocked(t *testing.T) {
	registry := newRuleRegistry()
	r := registry.rule(FilePaths{LogFile: "a.log"})
	require.Panics(t, func() { r.Unlock() })
}
