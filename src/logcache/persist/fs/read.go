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
	"io/ioutil"
	"os"

	"github.com/ttcnlog/logcache/src/logcache/digest"
	"github.com/ttcnlog/logcache/src/logcache/persist/fs/msgpack"
	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errInvalidRecordSpan = errors.New("record span must not be negative")

func (s *store) ReadMetaData(lf schema.LogFile) (schema.LogMetaData, error) {
	path := s.Paths(lf).MetaData
	payload, err := s.readPayload(path)
	if err != nil {
		return schema.LogMetaData{}, err
	}
	dec := msgpack.NewDecoder()
	dec.Reset(payload)
	md, err := dec.DecodeLogMetaData()
	if err != nil {
		return schema.LogMetaData{}, s.removeCorrupt(path, err)
	}
	return md, nil
}

func (s *store) ReadTestCases(lf schema.LogFile) ([]schema.TestCase, error) {
	path := s.Paths(lf).TestCases
	payload, err := s.readPayload(path)
	if err != nil {
		return nil, err
	}
	dec := msgpack.NewDecoder()
	dec.Reset(payload)
	testCases, err := dec.DecodeTestCases()
	if err != nil {
		return nil, s.removeCorrupt(path, err)
	}
	return testCases, nil
}

// readPayload reads a digested cache file and returns the payload once the
// digest matches.
func (s *store) readPayload(path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrCacheAbsent
	}
	if err != nil {
		return nil, err
	}
	payload, err := digest.SplitTrailer(data)
	if err != nil {
		return nil, s.removeCorrupt(path, err)
	}
	return payload, nil
}

// removeCorrupt removes an undecodable cache file so that the next
// extraction starts from scratch.
func (s *store) removeCorrupt(path string, cause error) error {
	s.metrics.corruptRemoved.Inc(1)
	s.logger.Warn("removing corrupt cache file",
		zap.String("path", path), zap.Error(cause))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Error("could not remove corrupt cache file",
			zap.String("path", path), zap.Error(err))
	}
	return ErrCacheAbsent
}

func (s *store) ReadRecords(lf schema.LogFile, start, count int) ([]schema.RecordIndex, error) {
	records, err := ReadRecordsFrom(s.Paths(lf).RecordIndex, start, count)
	if errors.Is(err, ErrIndexOutOfDate) {
		s.metrics.indexOutOfDate.Inc(1)
	}
	return records, err
}

// ReadRecordsFrom reads count entries of a record index file starting at
// record number start. ErrIndexOutOfDate is returned if the span exceeds the
// file, no partial result is returned.
func ReadRecordsFrom(indexPath string, start, count int) ([]schema.RecordIndex, error) {
	r, err := OpenIndexReader(indexPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadRecords(start, count)
}

func (s *store) Verify(lf schema.LogFile) error {
	md, err := s.ReadMetaData(lf)
	if err != nil {
		return err
	}
	fd, err := os.Open(s.Paths(lf).RecordIndex)
	if os.IsNotExist(err) {
		return ErrCacheAbsent
	}
	if err != nil {
		return err
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return err
	}
	if expected := md.Records * recordSize; info.Size() != expected {
		return errors.Wrapf(ErrCacheStale, "record index is %d bytes, expected %d",
			info.Size(), expected)
	}
	if err := digest.Validate(fd, s.opts.ReaderBufferSize(), md.IndexDigest); err != nil {
		return errors.Wrap(err, "record index digest")
	}
	return nil
}
