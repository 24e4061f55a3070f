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

// Package clock provides time sources that can be swapped out in tests.
package clock

import "time"

// NowFn returns the current time.
type NowFn func() time.Time

// OffsetClock is a clock that starts at a fixed time and advances at the
// rate of an underlying clock.
type OffsetClock struct {
	nowFn       NowFn
	offsetTime  time.Time
	initialTime time.Time
}

// NewOffsetClock returns a clock that reports offsetTime plus the time
// elapsed on nowFn since construction.
func NewOffsetClock(offsetTime time.Time, nowFn NowFn) OffsetClock {
	return OffsetClock{
		nowFn:       nowFn,
		offsetTime:  offsetTime,
		initialTime: nowFn(),
	}
}

// Now returns the offset time.
func (c OffsetClock) Now() time.Time {
	return c.offsetTime.Add(c.nowFn().Sub(c.initialTime))
}
