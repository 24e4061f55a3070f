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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTestCasesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "testcases FILE",
		Short: "List the test cases of a log file",
		Long:  "Testcases lists the test cases of a log file, extracting it first if needed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf, err := a.logFile(args[0])
			if err != nil {
				return err
			}
			h, err := a.engine.Open(cmd.Context(), lf, nil)
			if err != nil {
				return err
			}
			defer h.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSEQ\tVERDICT\tFIRST\tRECORDS")
			for _, tc := range h.TestCases() {
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\n",
					tc.Name, tc.SequenceNumber, tc.Verdict, tc.StartRecordNumber, tc.NumberOfRecords)
			}
			return w.Flush()
		},
	}
}
