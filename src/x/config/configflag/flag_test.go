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

package configflag

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ttcnlog/logcache/src/x/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Foo int    `yaml:"foo"`
	Bar string `yaml:"bar"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0666))
	return path
}

func TestFlagStringSliceOverridesDefaults(t *testing.T) {
	configFiles := FlagStringSlice{Value: []string{"default.yaml"}}
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	flags.VarP(&configFiles, "config", "f", "config files")
	require.NoError(t, flags.Parse([]string{"-f", "file1.yaml", "-f", "file2.yaml"}))
	require.Equal(t, []string{"file1.yaml", "file2.yaml"}, configFiles.Value)
	require.Equal(t, "[file1.yaml file2.yaml]", configFiles.String())
}

func TestLoadMergesFilesAndDumps(t *testing.T) {
	dir, err := ioutil.TempDir("", "configflag")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	first := writeFile(t, dir, "a.yaml", "foo: 1\nbar: one\n")
	second := writeFile(t, dir, "b.yaml", "bar: two\n")

	var (
		opts  Options
		flags = pflag.NewFlagSet("config", pflag.ContinueOnError)
		out   bytes.Buffer
	)
	opts.RegisterFlagSet(flags)
	opts.stdout = &out
	require.NoError(t, flags.Parse([]string{"-f", first, "--config", second, "-d"}))

	var cfg testConfig
	require.NoError(t, opts.Load(&cfg, config.Options{}))
	require.Equal(t, testConfig{Foo: 1, Bar: "two"}, cfg)
	require.Equal(t, "foo: 1\nbar: two\n", out.String())
}

func TestLoadWithoutFiles(t *testing.T) {
	var (
		opts Options
		cfg  = testConfig{Foo: 7}
	)
	require.Equal(t, errNoConfigFiles, opts.Load(&cfg, config.Options{}))

	opts.Optional = true
	require.NoError(t, opts.Load(&cfg, config.Options{}))
	require.Equal(t, 7, cfg.Foo)
}
