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

package seek

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLines = []string{
	"10:13:45.123456 mtc EXECUTOR_COMPONENT TTCN-3 Main Test Component started.\n",
	"10:13:45.200000 mtc USER_UNQUALIFIED foo.ttcn:12(testcase:TC_1) hello\n  world\n",
	"10:13:46.000000 hc PORTEVENT_DUALRECV bar.ttcn:7 received\n",
}

func writeTestLog(t *testing.T) (schema.LogMetaData, []schema.RecordIndex, func()) {
	dir, err := ioutil.TempDir("", "seek")
	require.NoError(t, err)
	path := filepath.Join(dir, "test.log")
	require.NoError(t, ioutil.WriteFile(path, []byte(strings.Join(testLines, "")), 0666))

	var (
		indexes []schema.RecordIndex
		offset  int64
	)
	for i, l := range testLines {
		indexes = append(indexes, schema.RecordIndex{
			FileOffset:   offset,
			RecordLength: int32(len(l)),
			RecordNumber: int32(i),
		})
		offset += int64(len(l))
	}
	md := schema.LogMetaData{
		FilePath:            path,
		TimeStampFormat:     schema.TimeFormat,
		ExecutionMode:       schema.ParallelMode,
		HasLoggedEventTypes: true,
		FileFormat:          schema.FileFormatV2,
	}
	return md, indexes, func() { os.RemoveAll(dir) }
}

func TestRead(t *testing.T) {
	md, indexes, cleanup := writeTestLog(t)
	defer cleanup()

	r, err := NewReader(md)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Read(indexes[1])
	require.NoError(t, err)
	assert.Equal(t, Record{
		Number:       1,
		TimeStamp:    "10:13:45.200000",
		ComponentRef: "mtc",
		EventType:    "USER_UNQUALIFIED",
		SourceInfo:   "foo.ttcn:12(testcase:TC_1)",
		Message:      "hello\n  world",
		Raw:          []byte(testLines[1]),
		Parsed:       true,
	}, rec)

	rec, err = r.Read(indexes[2])
	require.NoError(t, err)
	assert.Equal(t, "hc", rec.ComponentRef)
	assert.Equal(t, "bar.ttcn:7", rec.SourceInfo)
	assert.Equal(t, "received", rec.Message)

	raw, err := r.ReadRaw(indexes[0])
	require.NoError(t, err)
	assert.Equal(t, testLines[0], string(raw))
}

func TestReadUnparsed(t *testing.T) {
	md, _, cleanup := writeTestLog(t)
	defer cleanup()

	r, err := NewReader(md)
	require.NoError(t, err)
	defer r.Close()

	// Starts in the middle of a time stamp.
	rec, err := r.Read(schema.RecordIndex{FileOffset: 3, RecordLength: 10, RecordNumber: 7})
	require.NoError(t, err)
	assert.False(t, rec.Parsed)
	assert.Equal(t, 7, rec.Number)
	assert.Equal(t, testLines[0][3:13], rec.Message)
}

func TestReadOutOfDate(t *testing.T) {
	md, indexes, cleanup := writeTestLog(t)
	defer cleanup()

	r, err := NewReader(md)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, os.Truncate(md.FilePath, indexes[2].FileOffset+5))
	_, err = r.Read(indexes[2])
	require.True(t, errors.Is(err, ErrRecordOutOfDate), err)

	_, err = r.Read(schema.RecordIndex{FileOffset: 1 << 30, RecordLength: 1})
	require.True(t, errors.Is(err, ErrRecordOutOfDate), err)

	_, err = r.Read(schema.RecordIndex{FileOffset: -1, RecordLength: 1})
	require.Equal(t, errInvalidRecordIndex, err)
}

func TestReadConcurrently(t *testing.T) {
	md, indexes, cleanup := writeTestLog(t)
	defer cleanup()

	r, err := NewReader(md)
	require.NoError(t, err)
	defer r.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				idx := indexes[(i+j)%len(indexes)]
				raw, err := r.ReadRaw(idx)
				assert.NoError(t, err)
				assert.Equal(t, testLines[idx.RecordNumber], string(raw))
			}
		}(i)
	}
	wg.Wait()
}

func TestReadAfterClose(t *testing.T) {
	md, indexes, cleanup := writeTestLog(t)
	defer cleanup()

	r, err := NewReader(md)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Read(indexes[0])
	require.Equal(t, errReaderClosed, err)
}

func TestNewReaderMissingFile(t *testing.T) {
	_, err := NewReader(schema.LogMetaData{FilePath: "/does/not/exist.log"})
	require.True(t, os.IsNotExist(err))
}
