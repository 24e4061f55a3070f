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
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/cespare/xxhash/v2"
)

const (
	metaDataFileSuffix    = ".property"
	testCasesFileSuffix   = ".index"
	recordIndexFileSuffix = ".lrindex"
	tempFileSuffix        = ".tmp"

	// externalDirName holds the caches of log files outside of any project.
	externalDirName = "_external"

	recordSize = schema.RecordSize
)

// FilePaths are the locations of a log file and its companion cache files.
type FilePaths struct {
	LogFile     string
	MetaData    string
	TestCases   string
	RecordIndex string
}

// CacheFilePaths returns the companion file paths of a log file under the
// given cache directory. The cache mirrors the project relative folder of
// the log file, log files outside of a project are grouped by a hash of
// their absolute directory.
func CacheFilePaths(cacheDir string, lf schema.LogFile) FilePaths {
	var dir string
	if lf.InProject() {
		dir = filepath.Join(cacheDir, lf.ProjectName, filepath.Dir(filepath.FromSlash(lf.ProjectRelativePath)))
	} else {
		dir = filepath.Join(cacheDir, externalDirName,
			fmt.Sprintf("%016x", xxhash.Sum64String(filepath.Dir(lf.Path))))
	}
	prefix := filepath.Join(dir, lf.BaseName())
	return FilePaths{
		LogFile:     lf.Path,
		MetaData:    prefix + metaDataFileSuffix,
		TestCases:   prefix + testCasesFileSuffix,
		RecordIndex: prefix + recordIndexFileSuffix,
	}
}

// Dir returns the directory holding the cache files.
func (p FilePaths) Dir() string {
	return filepath.Dir(p.MetaData)
}

// CacheFiles returns the cache files including the temporary metadata file.
func (p FilePaths) CacheFiles() []string {
	return []string{p.MetaData, p.TestCases, p.RecordIndex, p.tempMetaData()}
}

func (p FilePaths) tempMetaData() string {
	return p.MetaData + tempFileSuffix
}

// OpenWritable opens a file for writing and truncating as necessary.
func OpenWritable(filePath string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

// FileExists returns whether a file exists at the given path.
func FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

func encodeRecordIndex(b []byte, r schema.RecordIndex) {
	binary.BigEndian.PutUint64(b[0:8], uint64(r.FileOffset))
	binary.BigEndian.PutUint32(b[8:12], uint32(r.RecordLength))
	binary.BigEndian.PutUint32(b[12:16], uint32(r.RecordNumber))
}

func decodeRecordIndex(b []byte) schema.RecordIndex {
	return schema.RecordIndex{
		FileOffset:   int64(binary.BigEndian.Uint64(b[0:8])),
		RecordLength: int32(binary.BigEndian.Uint32(b[8:12])),
		RecordNumber: int32(binary.BigEndian.Uint32(b[12:16])),
	}
}

// syncDir persists the directory entries of dir.
func syncDir(dir string) error {
	fd, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := fd.Sync(); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
