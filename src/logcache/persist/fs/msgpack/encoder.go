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

	"github.com/ttcnlog/logcache/src/logcache/schema"

	"gopkg.in/vmihailenco/msgpack.v2"
)

type encodeVersionFn func(version int)
type encodeNumObjectFieldsForFn func(objType objectType)
type encodeVarintFn func(value int64)
type encodeVarUintFn func(value uint64)
type encodeBoolFn func(value bool)
type encodeStringFn func(value string)

// Encoder encodes cache objects in msgpack format.
type Encoder struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
	err error

	encodeVersionFn            encodeVersionFn
	encodeNumObjectFieldsForFn encodeNumObjectFieldsForFn
	encodeVarintFn             encodeVarintFn
	encodeVarUintFn            encodeVarUintFn
	encodeBoolFn               encodeBoolFn
	encodeStringFn             encodeStringFn
}

// NewEncoder creates a new encoder.
func NewEncoder() *Encoder {
	buf := bytes.NewBuffer(nil)
	enc := &Encoder{
		buf: buf,
		enc: msgpack.NewEncoder(buf),
	}

	enc.encodeVersionFn = enc.encodeVersion
	enc.encodeNumObjectFieldsForFn = enc.encodeNumObjectFieldsFor
	enc.encodeVarintFn = enc.encodeVarint
	enc.encodeVarUintFn = enc.encodeVarUint
	enc.encodeBoolFn = enc.encodeBool
	enc.encodeStringFn = enc.encodeString
	return enc
}

// Reset resets the buffer.
func (enc *Encoder) Reset() {
	enc.buf.Truncate(0)
	enc.err = nil
}

// Bytes returns the encoded bytes.
func (enc *Encoder) Bytes() []byte { return enc.buf.Bytes() }

// EncodeLogMetaData encodes the metadata of a log file.
func (enc *Encoder) EncodeLogMetaData(md schema.LogMetaData) error {
	if enc.err != nil {
		return enc.err
	}
	enc.encodeRootObject(logMetaDataVersion, logMetaDataType)
	enc.encodeNumObjectFieldsForFn(logMetaDataType)
	enc.encodeStringFn(md.FilePath)
	enc.encodeStringFn(md.ProjectName)
	enc.encodeStringFn(md.ProjectRelativePath)
	enc.encodeStringFn(md.Version)
	enc.encodeVarintFn(md.Size)
	enc.encodeVarintFn(md.LastModified)
	enc.encodeVarintFn(int64(md.TimeStampFormat))
	enc.encodeVarintFn(int64(md.ExecutionMode))
	enc.encodeBoolFn(md.HasLoggedEventTypes)
	enc.encodeVarintFn(int64(md.FileFormat))
	enc.encodeStringFn(md.GenerationID)
	enc.encodeBoolFn(md.FailedDuringExtraction)
	enc.encodeVarintFn(md.Records)
	enc.encodeVarUintFn(uint64(md.IndexDigest))
	return enc.err
}

// EncodeTestCases encodes an ordered list of test cases.
func (enc *Encoder) EncodeTestCases(testCases []schema.TestCase) error {
	if enc.err != nil {
		return enc.err
	}
	enc.encodeRootObject(testCaseListVersion, testCaseListType)
	enc.encodeNumObjectFieldsForFn(testCaseListType)
	enc.encodeVarintFn(int64(len(testCases)))
	for _, tc := range testCases {
		enc.encodeTestCase(tc)
	}
	return enc.err
}

func (enc *Encoder) encodeTestCase(tc schema.TestCase) {
	enc.encodeNumObjectFieldsForFn(testCaseType)
	enc.encodeStringFn(tc.Name)
	enc.encodeVarintFn(int64(tc.SequenceNumber))
	enc.encodeVarintFn(int64(tc.Verdict))
	enc.encodeVarintFn(int64(tc.StartRecordNumber))
	enc.encodeVarintFn(int64(tc.NumberOfRecords))
}

func (enc *Encoder) encodeRootObject(version int, objType objectType) {
	enc.encodeVersionFn(version)
	enc.encodeNumObjectFieldsForFn(rootObjectType)
	enc.encodeObjectType(objType)
}

func (enc *Encoder) encodeVersion(version int) {
	enc.encodeVarintFn(int64(version))
}

func (enc *Encoder) encodeNumObjectFieldsFor(objType objectType) {
	_, curr := numFieldsForType(objType)
	enc.encodeArrayLen(curr)
}

func (enc *Encoder) encodeObjectType(objType objectType) {
	enc.encodeVarintFn(int64(objType))
}

func (enc *Encoder) encodeVarint(value int64) {
	if enc.err != nil {
		return
	}
	enc.err = enc.enc.EncodeInt64(value)
}

func (enc *Encoder) encodeVarUint(value uint64) {
	if enc.err != nil {
		return
	}
	enc.err = enc.enc.EncodeUint64(value)
}

func (enc *Encoder) encodeBool(value bool) {
	if enc.err != nil {
		return
	}
	enc.err = enc.enc.EncodeBool(value)
}

func (enc *Encoder) encodeString(value string) {
	if enc.err != nil {
		return
	}
	enc.err = enc.enc.EncodeString(value)
}

func (enc *Encoder) encodeArrayLen(value int) {
	if enc.err != nil {
		return
	}
	enc.err = enc.enc.EncodeArrayLen(value)
}
