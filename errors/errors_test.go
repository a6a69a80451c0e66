/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors_test

import (
	"errors"
	"testing"

	liberr "github.com/nabbar/webserv/errors"
)

const testCode = liberr.MinAvailable + 1

func init() {
	liberr.RegisterIdFctMessage(testCode, func(code liberr.CodeError) string {
		if code == testCode {
			return "test error message"
		}
		return liberr.NullMessage
	})
}

func TestNewAttachesCodeAndMessage(t *testing.T) {
	e := liberr.New(uint16(testCode), "boom")

	if e.Code() != uint16(testCode) {
		t.Fatalf("expected code %d, got %d", testCode, e.Code())
	}
	if e.StringError() != "boom" {
		t.Fatalf("unexpected message: %q", e.StringError())
	}
}

func TestCodeErrorMessageLookup(t *testing.T) {
	if got := liberr.CodeError(testCode).Message(); got != "test error message" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestErrorAddBuildsHierarchy(t *testing.T) {
	root := liberr.New(uint16(testCode), "root")
	child := liberr.New(uint16(testCode)+1, "child")

	root.Add(child)

	if !root.HasParent() {
		t.Fatal("expected root to report a parent after Add")
	}
	if !root.HasCode(liberr.CodeError(testCode) + 1) {
		t.Fatal("expected HasCode to find the child's code")
	}
}

func TestErrorIsCodeAndHasError(t *testing.T) {
	e := liberr.New(uint16(testCode), "disk full")

	if !e.IsCode(liberr.CodeError(testCode)) {
		t.Fatal("expected IsCode to match its own code")
	}
	if !e.HasError(errors.New("disk full")) {
		t.Fatal("expected HasError to match on message text")
	}
}

func TestIfErrorReturnsNilWithoutParents(t *testing.T) {
	if got := liberr.IfError(uint16(testCode), "wrapped"); got != nil {
		t.Fatalf("expected nil with no parent errors, got %v", got)
	}
}

func TestIfErrorReturnsErrorWithParent(t *testing.T) {
	got := liberr.IfError(uint16(testCode), "wrapped", errors.New("cause"))
	if got == nil {
		t.Fatal("expected a non-nil error when a parent is supplied")
	}
}

func TestGetParentCodeCollectsHierarchy(t *testing.T) {
	root := liberr.New(uint16(testCode), "root")
	root.Add(liberr.New(uint16(testCode)+2, "child"))

	codes := root.GetParentCode()
	if len(codes) != 2 {
		t.Fatalf("expected 2 distinct codes, got %v", codes)
	}
}

func TestUnwrapExposesParents(t *testing.T) {
	root := liberr.New(uint16(testCode), "root")
	child := liberr.New(uint16(testCode)+3, "child")
	root.Add(child)

	unwrapped := root.Unwrap()
	if len(unwrapped) != 1 {
		t.Fatalf("expected exactly one unwrapped parent, got %d", len(unwrapped))
	}
}
