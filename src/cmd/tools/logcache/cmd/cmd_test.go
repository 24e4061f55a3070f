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
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	workspace string
	cacheDir  string
	configs   []string
}

func newTestEnv(t *testing.T) *testEnv {
	workspace, err := ioutil.TempDir("", "workspace")
	require.NoError(t, err)
	cacheDir, err := ioutil.TempDir("", "cache")
	require.NoError(t, err)

	config := filepath.Join(cacheDir, "config.yaml")
	require.NoError(t, ioutil.WriteFile(config, []byte("logging:\n  level: error\n"), 0666))
	return &testEnv{workspace: workspace, cacheDir: cacheDir, configs: []string{config}}
}

func (e *testEnv) Close() {
	os.RemoveAll(e.workspace)
	os.RemoveAll(e.cacheDir)
}

func (e *testEnv) writeLog(t *testing.T, rel string) string {
	var b strings.Builder
	b.WriteString("10:13:45.000001 EXECUTOR_RUNTIME TTCN-3 Test Executor started in single mode.\n")
	b.WriteString("10:13:45.000002 USER_UNQUALIFIED foo.ttcn:10(testcase:TC_A) Test case TC_A started.\n")
	b.WriteString("10:13:45.000003 USER_UNQUALIFIED foo.ttcn:11(testcase:TC_A) hello\n")
	b.WriteString("10:13:45.000004 USER_UNQUALIFIED foo.ttcn:12(testcase:TC_A) Test case TC_A finished. Verdict: fail\n")
	b.WriteString("10:13:45.000005 USER_UNQUALIFIED foo.ttcn:20(testcase:TC_B) Test case TC_B started.\n")
	b.WriteString("continued line\n")
	b.WriteString("10:13:45.000006 USER_UNQUALIFIED foo.ttcn:21(testcase:TC_B) Test case TC_B finished. Verdict: pass\n")

	path := filepath.Join(e.workspace, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(b.String()), 0666))
	return path
}

func (e *testEnv) run(args ...string) (string, error) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(ioutil.Discard)

	flags := []string{"-w", e.workspace, "--cache-dir", e.cacheDir}
	for _, c := range e.configs {
		flags = append(flags, "-f", c)
	}
	root.SetArgs(append(args, flags...))
	err := root.Execute()
	return out.String(), err
}

func TestIndexInfoAndClear(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	path := env.writeLog(t, "proj/logs/run.log")

	out, err := env.run("info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "state: absent")
	assert.Contains(t, out, "project: proj")

	out, err = env.run("index", path)
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("%s: 6 records, 2 test cases", path))

	// The cache holds the config file and the three cache files.
	assert.Contains(t, out, " bytes in 4 files, ")

	out, err = env.run("info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "state: fresh")
	assert.Contains(t, out, "records: 6")
	assert.Contains(t, out, "executionMode: single")

	out, err = env.run("verify", path)
	require.NoError(t, err)
	assert.Equal(t, path+": ok\n", out)

	out, err = env.run("clear", path)
	require.NoError(t, err)
	assert.Equal(t, path+": cleared\n", out)

	out, err = env.run("info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "state: absent")
}

func TestInfoTakesSchedulingRule(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	path := env.writeLog(t, "proj/run.log")

	a := &app{workspace: env.workspace, cacheDir: env.cacheDir}
	a.cfgFlags.ConfigFiles.Value = env.configs
	require.NoError(t, a.init())
	defer a.close()

	lf, err := a.logFile(path)
	require.NoError(t, err)
	rule := a.engine.Store().SchedulingRule(lf)
	rule.Lock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = a.cacheInfo(ctx, lf)
	require.Equal(t, context.DeadlineExceeded, err)

	rule.Unlock()
	info, err := a.cacheInfo(context.Background(), lf)
	require.NoError(t, err)
	assert.Equal(t, "absent", info.State)
}

func TestIndexReportsFailures(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	good := env.writeLog(t, "proj/good.log")
	bad := filepath.Join(env.workspace, "proj", "bad.txt")
	require.NoError(t, ioutil.WriteFile(bad, []byte("x\n"), 0666))

	out, err := env.run("index", "--keep-going", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, good+": 6 records")
	assert.Contains(t, out, bad+": invalid log file")
}

func TestTestCases(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	path := env.writeLog(t, "proj/run.log")

	out, err := env.run("testcases", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "SEQ", "VERDICT", "FIRST", "RECORDS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"TC_A", "1", "fail", "1", "3"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"TC_B", "1", "pass", "4", "2"}, strings.Fields(lines[2]))
}

func TestRead(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	path := env.writeLog(t, "proj/run.log")

	out, err := env.run("read", path, "2", "1")
	require.NoError(t, err)
	assert.Equal(t, "2\t10:13:45.000003 USER_UNQUALIFIED foo.ttcn:11(testcase:TC_A)\thello\n", out)

	out, err = env.run("read", "--raw", "--testcase", "TC_B", path)
	require.NoError(t, err)
	assert.Equal(t,
		"4\t10:13:45.000005 USER_UNQUALIFIED foo.ttcn:20(testcase:TC_B) Test case TC_B started.\ncontinued line\n"+
			"5\t10:13:45.000006 USER_UNQUALIFIED foo.ttcn:21(testcase:TC_B) Test case TC_B finished. Verdict: pass\n",
		out)

	_, err = env.run("read", path, "x")
	require.Error(t, err)

	_, err = env.run("read", "--testcase", "TC_Z", path)
	require.Error(t, err)
}

func TestVerifyWithoutCache(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()
	path := env.writeLog(t, "proj/run.log")

	out, err := env.run("verify", path)
	require.Error(t, err)
	assert.Contains(t, out, path+": ")
}
