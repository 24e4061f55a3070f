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

// Package configflag registers the configuration file flags of a command.
package configflag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ttcnlog/logcache/src/x/config"

	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*FlagStringSlice)(nil)

	errNoConfigFiles = errors.New("-f is required (no config files provided)")
)

// Options represents the values of config command line flags.
type Options struct {
	// ConfigFiles (-f) is a list of config files to load.
	ConfigFiles FlagStringSlice

	// ShouldDumpConfig (-d) causes Load to print the loaded config.
	ShouldDumpConfig bool

	// Optional is set when a command may run on defaults alone.
	Optional bool

	stdout io.Writer
}

// RegisterFlagSet registers the config flags with the given flagset.
func (opts *Options) RegisterFlagSet(flags *pflag.FlagSet) {
	flags.VarP(&opts.ConfigFiles, "config", "f", "Configuration files to load")
	flags.BoolVarP(&opts.ShouldDumpConfig, "dump-config", "d", false, "Dump loaded configuration to stdout")
}

// Load loads the configuration files into target. Without any -f files
// target is left untouched if the flags are optional.
func (opts *Options) Load(target interface{}, loadOpts config.Options) error {
	if len(opts.ConfigFiles.Value) == 0 {
		if opts.Optional {
			return nil
		}
		return errNoConfigFiles
	}

	if err := config.LoadFiles(target, opts.ConfigFiles.Value, loadOpts); err != nil {
		return fmt.Errorf("unable to load config from %s: %v", opts.ConfigFiles.Value, err)
	}

	if opts.ShouldDumpConfig {
		w := opts.stdout
		if w == nil {
			w = os.Stdout
		}
		if err := config.Dump(target, w); err != nil {
			return fmt.Errorf("failed to dump config: %v", err)
		}
	}
	return nil
}

// FlagStringSlice represents a slice of strings. When used as a flag variable,
// it allows for multiple string values. For example, it can be used like this:
//
//	var configFiles FlagStringSlice
//	flags.VarP(&configFiles, "config", "f", "configuration file(s)")
//
// Then it can be invoked like this:
//
//	./app -f file1.yaml -f file2.yaml -f valueN.yaml
//
// Finally, when the flags are parsed, the variable contains all the values.
type FlagStringSlice struct {
	Value []string

	overridden bool
}

// String returns a string implementation of the slice.
func (i *FlagStringSlice) String() string {
	if i == nil {
		return ""
	}
	return fmt.Sprintf("%v", i.Value)
}

// Set appends a string value to the slice.
func (i *FlagStringSlice) Set(value string) error {
	// on first call, reset
	// afterwards, append. Defaults are overridden by explicitly specified flags.
	if !i.overridden {
		i.overridden = true
		i.Value = nil
	}

	i.Value = append(i.Value, value)
	return nil
}

// Type returns the flag type shown in usage.
func (i *FlagStringSlice) Type() string {
	return "file"
}
