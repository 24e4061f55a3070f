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

// Package test contains test helpers shared across packages.
package test

import (
	"io/ioutil"
	"math/rand"
	"os"
)

// CorruptFile rewrites the file at path, zeroing a random range of bytes
// with the given probability. The same seed corrupts the same bytes. It
// returns the number of bytes that changed.
func CorruptFile(path string, corruptionProbability float64, seed int64) (int, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, err
	}
	rng := rand.New(rand.NewSource(seed))
	if len(data) == 0 || rng.Float64() >= corruptionProbability {
		return 0, nil
	}

	var (
		byteStart  = rng.Intn(len(data))
		byteOffset = 1 + rng.Intn(len(data)-byteStart)
		changed    int
	)
	for i := byteStart; i < byteStart+byteOffset; i++ {
		if data[i] != 0 {
			changed++
		}
		data[i] = 0
	}
	return changed, writeFile(path, data)
}

// FlipByte inverts the bits of the byte at offset in the file at path.
func FlipByte(path string, offset int64) error {
	fd, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	b := make([]byte, 1)
	if _, err := fd.ReadAt(b, offset); err != nil {
		fd.Close()
		return err
	}
	b[0] ^= 0xff
	if _, err := fd.WriteAt(b, offset); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, info.Mode())
}
