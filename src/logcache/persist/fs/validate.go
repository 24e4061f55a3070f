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
	"os"

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *store) IsValid(lf schema.LogFile) bool {
	_, err := s.CheckFreshness(lf)
	return err == nil
}

func (s *store) CheckFreshness(lf schema.LogFile) (schema.LogMetaData, error) {
	md, err := s.checkFreshness(lf)
	switch {
	case err == nil:
		s.metrics.fresh.Inc(1)
	case errors.Is(err, ErrCacheAbsent):
		s.metrics.absent.Inc(1)
	default:
		s.metrics.stale.Inc(1)
		s.logger.Debug("cache is stale", zap.Stringer("logFile", lf), zap.Error(err))
	}
	return md, err
}

func (s *store) checkFreshness(lf schema.LogFile) (schema.LogMetaData, error) {
	paths := s.Paths(lf)
	md, err := s.ReadMetaData(lf)
	if err != nil {
		return schema.LogMetaData{}, err
	}
	// The cache is named after the log file only, a moved or renamed log
	// file may find the cache of another one.
	if md.FilePath != lf.Path {
		return md, errors.Wrapf(ErrCacheStale, "cached for %s", md.FilePath)
	}
	if md.ProjectName != lf.ProjectName || md.ProjectRelativePath != lf.ProjectRelativePath {
		return md, errors.Wrapf(ErrCacheStale, "cached for %s/%s",
			md.ProjectName, md.ProjectRelativePath)
	}
	indexInfo, err := os.Stat(paths.RecordIndex)
	if err != nil {
		return md, ErrCacheAbsent
	}
	if !FileExists(paths.TestCases) {
		return md, ErrCacheAbsent
	}
	if md.Version != schema.CacheVersion {
		return md, errors.Wrapf(ErrCacheStale, "cache version %s, current %s",
			md.Version, schema.CacheVersion)
	}
	logInfo, err := os.Stat(lf.Path)
	if err != nil {
		return md, errors.Wrap(ErrCacheStale, err.Error())
	}
	if logInfo.Size() != md.Size {
		return md, errors.Wrapf(ErrCacheStale, "size changed from %d to %d",
			md.Size, logInfo.Size())
	}
	if logInfo.ModTime().UnixNano() != md.LastModified {
		return md, errors.Wrap(ErrCacheStale, "modification time changed")
	}
	if expected := md.Records * recordSize; indexInfo.Size() != expected {
		return md, errors.Wrapf(ErrCacheStale, "record index is %d bytes, expected %d",
			indexInfo.Size(), expected)
	}
	return md, nil
}
