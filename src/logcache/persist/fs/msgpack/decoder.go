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

package msgpack

import (
	"bytes"
	"fmt"

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"gopkg.in/vmihailenco/msgpack.v2"
)

// Smallest possible encoding of a test case: array header, empty name and
// four positive fixints.
const minEncodedTestCaseLen = 6

var emptyLogMetaData schema.LogMetaData

// Decoder decodes persisted msgpack encoded cache objects.
type Decoder struct {
	reader *bytes.Reader
	dec    *msgpack.Decoder
	err    error
}

// NewDecoder creates a new decoder.
func NewDecoder() *Decoder {
	reader := bytes.NewReader(nil)
	return &Decoder{
		reader: reader,
		dec:    msgpack.NewDecoder(reader),
	}
}

// Reset resets the data to decode from.
func (dec *Decoder) Reset(data []byte) {
	dec.reader.Reset(data)
	dec.dec.Reset(dec.reader)
	dec.err = nil
}

// DecodeLogMetaData decodes the metadata of a log file.
func (dec *Decoder) DecodeLogMetaData() (schema.LogMetaData, error) {
	if dec.err != nil {
		return emptyLogMetaData, dec.err
	}
	_, numFieldsToSkip := dec.decodeRootObject(logMetaDataVersion, logMetaDataType)
	md := dec.decodeLogMetaData()
	dec.skip(numFieldsToSkip)
	if dec.err != nil {
		return emptyLogMetaData, dec.err
	}
	return md, nil
}

// DecodeTestCases decodes an ordered list of test cases.
func (dec *Decoder) DecodeTestCases() ([]schema.TestCase, error) {
	if dec.err != nil {
		return nil, dec.err
	}
	_, numFieldsToSkip := dec.decodeRootObject(testCaseListVersion, testCaseListType)
	numFieldsToSkipList, _, ok := dec.checkNumFieldsFor(testCaseListType)
	if !ok {
		return nil, dec.err
	}
	n := dec.decodeVarint()
	if dec.err != nil {
		return nil, dec.err
	}
	if n < 0 || n > int64(dec.reader.Len()/minEncodedTestCaseLen) {
		return nil, fmt.Errorf("invalid number of test cases: %d", n)
	}
	testCases := make([]schema.TestCase, 0, n)
	for i := int64(0); i < n; i++ {
		tc := dec.decodeTestCase()
		if dec.err != nil {
			return nil, dec.err
		}
		testCases = append(testCases, tc)
	}
	dec.skip(numFieldsToSkipList)
	dec.skip(numFieldsToSkip)
	if dec.err != nil {
		return nil, dec.err
	}
	return testCases, nil
}

func (dec *Decoder) decodeLogMetaData() schema.LogMetaData {
	numFieldsToSkip, _, ok := dec.checkNumFieldsFor(logMetaDataType)
	if !ok {
		return emptyLogMetaData
	}
	var md schema.LogMetaData
	md.FilePath = dec.decodeString()
	md.ProjectName = dec.decodeString()
	md.ProjectRelativePath = dec.decodeString()
	md.Version = dec.decodeString()
	md.Size = dec.decodeVarint()
	md.LastModified = dec.decodeVarint()
	md.TimeStampFormat = schema.TimeStampFormat(dec.decodeVarint())
	md.ExecutionMode = schema.ExecutionMode(dec.decodeVarint())
	md.HasLoggedEventTypes = dec.decodeBool()
	md.FileFormat = schema.FileFormat(dec.decodeVarint())
	md.GenerationID = dec.decodeString()
	md.FailedDuringExtraction = dec.decodeBool()
	md.Records = dec.decodeVarint()
	md.IndexDigest = uint32(dec.decodeVarUint())
	dec.skip(numFieldsToSkip)
	if dec.err != nil {
		return emptyLogMetaData
	}
	return md
}

func (dec *Decoder) decodeTestCase() schema.TestCase {
	numFieldsToSkip, _, ok := dec.checkNumFieldsFor(testCaseType)
	if !ok {
		return schema.TestCase{}
	}
	var tc schema.TestCase
	tc.Name = dec.decodeString()
	tc.SequenceNumber = int(dec.decodeVarint())
	tc.Verdict = schema.Verdict(dec.decodeVarint())
	tc.StartRecordNumber = int(dec.decodeVarint())
	tc.NumberOfRecords = int(dec.decodeVarint())
	dec.skip(numFieldsToSkip)
	return tc
}

func (dec *Decoder) decodeRootObject(expectedVersion int, expectedType objectType) (version int, numFieldsToSkip int) {
	version = dec.checkVersion(expectedVersion)
	if dec.err != nil {
		return 0, 0
	}
	numFieldsToSkip, _, ok := dec.checkNumFieldsFor(rootObjectType)
	if !ok {
		return 0, 0
	}
	actualType := dec.decodeObjectType()
	if dec.err != nil {
		return 0, 0
	}
	if expectedType != actualType {
		dec.err = fmt.Errorf("object type mismatch: expected %v actual %v", expectedType, actualType)
		return 0, 0
	}
	return version, numFieldsToSkip
}

func (dec *Decoder) checkVersion(expected int) int {
	version := int(dec.decodeVarint())
	if dec.err != nil {
		return 0
	}
	if version > expected {
		dec.err = fmt.Errorf("version mismatch: expected %d actual %d", expected, version)
		return 0
	}
	return version
}

func (dec *Decoder) checkNumFieldsFor(objType objectType) (numToSkip int, actual int, ok bool) {
	actual = dec.decodeNumObjectFields()
	if dec.err != nil {
		return 0, 0, false
	}
	min, curr := numFieldsForType(objType)
	if min > actual {
		dec.err = fmt.Errorf("number of fields mismatch: expected minimum of %d actual %d", min, actual)
		return 0, 0, false
	}

	numToSkip = actual - curr
	if numToSkip < 0 {
		numToSkip = 0
	}
	return numToSkip, actual, true
}

func (dec *Decoder) skip(numFields int) {
	if dec.err != nil {
		return
	}
	if numFields < 0 {
		dec.err = fmt.Errorf("number of fields to skip is %d", numFields)
		return
	}
	for i := 0; i < numFields; i++ {
		if err := dec.dec.Skip(); err != nil {
			dec.err = err
			return
		}
	}
}

func (dec *Decoder) decodeNumObjectFields() int {
	return dec.decodeArrayLen()
}

func (dec *Decoder) decodeObjectType() objectType {
	return objectType(dec.decodeVarint())
}

func (dec *Decoder) decodeVarint() int64 {
	if dec.err != nil {
		return 0
	}
	value, err := dec.dec.DecodeInt64()
	dec.err = err
	return value
}

func (dec *Decoder) decodeVarUint() uint64 {
	if dec.err != nil {
		return 0
	}
	value, err := dec.dec.DecodeUint64()
	dec.err = err
	return value
}

func (dec *Decoder) decodeBool() bool {
	if dec.err != nil {
		return false
	}
	value, err := dec.dec.DecodeBool()
	dec.err = err
	return value
}

func (dec *Decoder) decodeString() string {
	if dec.err != nil {
		return ""
	}
	value, err := dec.dec.DecodeString()
	dec.err = err
	return value
}

func (dec *Decoder) decodeArrayLen() int {
	if dec.err != nil {
		return 0
	}
	value, err := dec.dec.DecodeArrayLen()
	dec.err = err
	return value
}
