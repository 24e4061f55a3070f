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
	"fmt"
	"strconv"

	"github.com/ttcnlog/logcache/src/logcache/seek"

	"github.com/spf13/cobra"
)

const defaultReadCount = 20

func newReadCommand(a *app) *cobra.Command {
	var (
		raw      bool
		testCase string
	)
	cmd := &cobra.Command{
		Use:   "read FILE [START [COUNT]]",
		Short: "Print records of a log file",
		Long: `Read prints records of a log file by record number, seeking into the log
file through the cached record index.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, count := 0, defaultReadCount
			var err error
			if len(args) > 1 {
				if start, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid start record %q: %v", args[1], err)
				}
			}
			if len(args) > 2 {
				if count, err = strconv.Atoi(args[2]); err != nil {
					return fmt.Errorf("invalid record count %q: %v", args[2], err)
				}
			}

			lf, err := a.logFile(args[0])
			if err != nil {
				return err
			}
			h, err := a.engine.Open(cmd.Context(), lf, nil)
			if err != nil {
				return err
			}
			defer h.Close()

			if testCase != "" {
				found := false
				for _, tc := range h.TestCases() {
					if tc.Name == testCase {
						start, count = tc.StartRecordNumber, tc.NumberOfRecords
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("no test case %s in %s", testCase, lf)
				}
			}
			if remaining := int(h.MetaData().Records) - start; count > remaining {
				count = remaining
			}

			out := cmd.OutOrStdout()
			for n := start; n < start+count; n++ {
				rec, err := h.Record(n)
				if err != nil {
					return err
				}
				if raw || !rec.Parsed {
					fmt.Fprintf(out, "%d\t%s", rec.Number, rec.Raw)
					continue
				}
				fmt.Fprintln(out, formatRecord(rec))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print records as they appear in the log file")
	cmd.Flags().StringVarP(&testCase, "testcase", "t", "", "Print the records of the first test case with this name")
	return cmd
}

func formatRecord(rec seek.Record) string {
	s := fmt.Sprintf("%d\t%s", rec.Number, rec.TimeStamp)
	for _, field := range []string{rec.ComponentRef, rec.EventType, rec.SourceInfo} {
		if field != "" {
			s += " " + field
		}
	}
	return s + "\t" + rec.Message
}
