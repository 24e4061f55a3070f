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
	"fmt"
	"os"

	"github.com/ttcnlog/logcache/src/logcache/digest"
	"github.com/ttcnlog/logcache/src/logcache/persist/fs/msgpack"
	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type writerState int

const (
	writerOpen writerState = iota
	writerCommitted
	writerAborted
)

var errWriterNotOpen = errors.New("generation writer not open")

type generationWriter struct {
	store *store
	lf    schema.LogFile
	paths FilePaths
	state writerState

	indexFdWithDigest digest.FdWithDigestWriter
	buf               [recordSize]byte
	records           int64
}

func (s *store) NewGenerationWriter(lf schema.LogFile) (GenerationWriter, error) {
	if err := s.ClearCache(lf); err != nil {
		return nil, err
	}
	paths := s.Paths(lf)
	if err := os.MkdirAll(paths.Dir(), s.opts.NewDirectoryMode()); err != nil {
		return nil, err
	}
	fd, err := OpenWritable(paths.RecordIndex, s.opts.NewFileMode())
	if err != nil {
		return nil, err
	}
	w := &generationWriter{
		store:             s,
		lf:                lf,
		paths:             paths,
		indexFdWithDigest: digest.NewFdWithDigestWriter(s.opts.WriterBufferSize()),
	}
	w.indexFdWithDigest.Reset(fd)
	return w, nil
}

func (w *generationWriter) WriteRecordIndex(r schema.RecordIndex) error {
	if w.state != writerOpen {
		return errWriterNotOpen
	}
	if int64(r.RecordNumber) != w.records {
		return fmt.Errorf("record index out of order: expected record %d, got %d",
			w.records, r.RecordNumber)
	}
	encodeRecordIndex(w.buf[:], r)
	if _, err := w.indexFdWithDigest.Write(w.buf[:]); err != nil {
		return errors.Wrap(err, "could not write record index")
	}
	w.records++
	return nil
}

func (w *generationWriter) Records() int64 {
	return w.records
}

func (w *generationWriter) Commit(
	md schema.LogMetaData,
	testCases []schema.TestCase,
) (schema.LogMetaData, error) {
	if w.state != writerOpen {
		return schema.LogMetaData{}, errWriterNotOpen
	}
	committed, err := w.commit(md, testCases)
	if err != nil {
		if abortErr := w.Abort(); abortErr != nil {
			err = multierr.Append(err, abortErr)
		}
		return schema.LogMetaData{}, err
	}
	w.state = writerCommitted
	w.store.metrics.generations.Inc(1)
	w.store.logger.Debug("committed cache generation",
		zap.Stringer("logFile", w.lf),
		zap.String("generation", committed.GenerationID),
		zap.Int64("records", committed.Records))
	return committed, nil
}

func (w *generationWriter) commit(
	md schema.LogMetaData,
	testCases []schema.TestCase,
) (schema.LogMetaData, error) {
	if err := w.indexFdWithDigest.Flush(); err != nil {
		return md, errors.Wrap(err, "could not flush record index")
	}
	if err := w.indexFdWithDigest.Fd().Sync(); err != nil {
		return md, errors.Wrap(err, "could not sync record index")
	}
	indexDigest := w.indexFdWithDigest.Digest().Sum32()
	if err := w.indexFdWithDigest.Close(); err != nil {
		return md, errors.Wrap(err, "could not close record index")
	}

	md.FilePath = w.lf.Path
	md.ProjectName = w.lf.ProjectName
	md.ProjectRelativePath = w.lf.ProjectRelativePath
	md.Version = schema.CacheVersion
	md.Records = w.records
	md.IndexDigest = indexDigest
	if md.GenerationID == "" {
		md.GenerationID = uuid.New()
	}

	enc := msgpack.NewEncoder()
	if err := enc.EncodeTestCases(testCases); err != nil {
		return md, errors.Wrap(err, "could not encode test cases")
	}
	if err := w.writeFile(w.paths.TestCases, enc.Bytes()); err != nil {
		return md, errors.Wrap(err, "could not write test cases")
	}

	enc.Reset()
	if err := enc.EncodeLogMetaData(md); err != nil {
		return md, errors.Wrap(err, "could not encode metadata")
	}
	// The metadata file marks the generation complete so it is written last
	// and only appears once fully on disk.
	tmp := w.paths.tempMetaData()
	if err := w.writeFile(tmp, enc.Bytes()); err != nil {
		return md, errors.Wrap(err, "could not write metadata")
	}
	if err := os.Rename(tmp, w.paths.MetaData); err != nil {
		return md, errors.Wrap(err, "could not rename metadata")
	}
	if err := syncDir(w.paths.Dir()); err != nil {
		return md, errors.Wrap(err, "could not sync cache directory")
	}
	return md, nil
}

func (w *generationWriter) writeFile(path string, payload []byte) error {
	fd, err := OpenWritable(path, w.store.opts.NewFileMode())
	if err != nil {
		return err
	}
	if _, err := fd.Write(digest.AppendTrailer(payload)); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Sync(); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func (w *generationWriter) Abort() error {
	if w.state != writerOpen {
		return nil
	}
	w.state = writerAborted
	w.store.metrics.aborted.Inc(1)
	// Close errors are irrelevant since the files are removed.
	w.indexFdWithDigest.Close()
	return w.store.ClearCache(w.lf)
}

func (s *store) FillCache(
	lf schema.LogFile,
	md schema.LogMetaData,
	testCases []schema.TestCase,
	records []schema.RecordIndex,
) (schema.LogMetaData, error) {
	w, err := s.NewGenerationWriter(lf)
	if err != nil {
		return schema.LogMetaData{}, err
	}
	for _, r := range records {
		if err := w.WriteRecordIndex(r); err != nil {
			return schema.LogMetaData{}, multierr.Append(err, w.Abort())
		}
	}
	return w.Commit(md, testCases)
}
