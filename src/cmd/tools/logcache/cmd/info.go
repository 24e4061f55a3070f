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

package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/ttcnlog/logcache/src/logcache/persist/fs"
	"github.com/ttcnlog/logcache/src/logcache/schema"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

type cacheInfo struct {
	LogFile       string `yaml:"logFile"`
	Project       string `yaml:"project,omitempty"`
	State         string `yaml:"state"`
	Reason        string `yaml:"reason,omitempty"`
	MetaData      string `yaml:"metaData"`
	Index         string `yaml:"index"`
	TestCases     string `yaml:"testCases"`
	Generation    string `yaml:"generation,omitempty"`
	Version       string `yaml:"version,omitempty"`
	Size          int64  `yaml:"size,omitempty"`
	LastModified  string `yaml:"lastModified,omitempty"`
	Records       int64  `yaml:"records,omitempty"`
	TimeStamps    string `yaml:"timeStamps,omitempty"`
	ExecutionMode string `yaml:"executionMode,omitempty"`
	FileFormat    string `yaml:"fileFormat,omitempty"`
	ParseFailures bool   `yaml:"parseFailures,omitempty"`
}

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show the cache state of a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf, err := a.logFile(args[0])
			if err != nil {
				return err
			}
			info, err := a.cacheInfo(cmd.Context(), lf)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(info)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// cacheInfo reads the cache state under the scheduling rule, since reading
// corrupt cache files removes them.
func (a *app) cacheInfo(ctx context.Context, lf schema.LogFile) (cacheInfo, error) {
	store := a.engine.Store()
	rule := store.SchedulingRule(lf)
	if err := rule.LockContext(ctx); err != nil {
		return cacheInfo{}, err
	}
	defer rule.Unlock()

	paths := store.Paths(lf)
	info := cacheInfo{
		LogFile:   lf.Path,
		Project:   lf.ProjectName,
		MetaData:  paths.MetaData,
		Index:     paths.RecordIndex,
		TestCases: paths.TestCases,
	}

	md, err := store.CheckFreshness(lf)
	switch {
	case err == nil:
		info.State = "fresh"
	case errors.Is(err, fs.ErrCacheAbsent):
		info.State = "absent"
		return info, nil
	default:
		info.State = "stale"
		info.Reason = err.Error()
		if md, err = store.ReadMetaData(lf); err != nil {
			return info, nil
		}
	}

	info.Generation = md.GenerationID
	info.Version = md.Version
	info.Size = md.Size
	info.LastModified = time.Unix(0, md.LastModified).UTC().Format(time.RFC3339Nano)
	info.Records = md.Records
	info.TimeStamps = md.TimeStampFormat.String()
	info.ExecutionMode = md.ExecutionMode.String()
	info.FileFormat = md.FileFormat.String()
	info.ParseFailures = md.FailedDuringExtraction
	return info, nil
}
