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

package schema

import (
	"errors"
	"path/filepath"
	"strings"
)

var errEmptyLogFilePath = errors.New("log file path is empty")

// LogFile is the identity of a log file: its absolute location plus its
// logical location inside the owning workspace.
type LogFile struct {
	Path                string
	ProjectName         string
	ProjectRelativePath string
}

// NewLogFile resolves the identity of the log file at path. When the file
// lives beneath workspaceRoot the first path element below the root is the
// project name and the remainder is the project relative path, otherwise the
// project name is empty and the relative path is the base name.
func NewLogFile(workspaceRoot, path string) (LogFile, error) {
	if path == "" {
		return LogFile{}, errEmptyLogFilePath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return LogFile{}, err
	}
	lf := LogFile{Path: abs, ProjectRelativePath: filepath.Base(abs)}
	if workspaceRoot == "" {
		return lf, nil
	}
	root, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return LogFile{}, err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return lf, nil
	}
	parts := strings.SplitN(filepath.ToSlash(rel), "/", 2)
	if len(parts) < 2 {
		return lf, nil
	}
	lf.ProjectName = parts[0]
	lf.ProjectRelativePath = parts[1]
	return lf, nil
}

// InProject returns whether the log file belongs to a workspace project.
func (f LogFile) InProject() bool {
	return f.ProjectName != ""
}

// BaseName returns the file name without the log extension.
func (f LogFile) BaseName() string {
	return strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
}

func (f LogFile) String() string {
	if f.InProject() {
		return f.ProjectName + "/" + f.ProjectRelativePath
	}
	return f.Path
}
