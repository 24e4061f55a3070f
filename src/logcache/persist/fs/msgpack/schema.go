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

// Package msgpack encodes and decodes the cache metadata and test case list
// files. Every file holds a root object carrying an encoding version and an
// object type, so that newer fields can be appended without breaking older
// readers.
package msgpack

import "fmt"

type objectType int

const (
	// Adding any new object types will need to be added to the end of the list.
	unknownType objectType = iota
	rootObjectType
	logMetaDataType
	testCaseListType
	testCaseType

	// Total number of object types.
	numObjectTypes = iota
)

const (
	// Current versions of the encoded objects. A decoder refuses objects with
	// a newer version than it knows.
	logMetaDataVersion  = 1
	testCaseListVersion = 1
)

var numFieldsByType = [numObjectTypes]struct {
	min  int
	curr int
}{
	rootObjectType:   {min: 1, curr: 1},
	logMetaDataType:  {min: 14, curr: 14},
	testCaseListType: {min: 1, curr: 1},
	testCaseType:     {min: 5, curr: 5},
}

func numFieldsForType(objType objectType) (min int, curr int) {
	if objType <= unknownType || int(objType) >= numObjectTypes {
		panic(fmt.Sprintf("unknown object type: %d", objType))
	}
	f := numFieldsByType[objType]
	return f.min, f.curr
}

func (t objectType) String() string {
	switch t {
	case rootObjectType:
		return "root"
	case logMetaDataType:
		return "logMetaData"
	case testCaseListType:
		return "testCaseList"
	case testCaseType:
		return "testCase"
	}
	return fmt.Sprintf("objectType(%d)", int(t))
}
