/**
 * Copyright (c) 2026, The Gqlassert Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/gqlassert/gqlassert/value"

	jsoniter "github.com/json-iterator/go"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Location contains a line number and a column number pointing at the beginning of an associated
// syntax element. Both are positive numbers starting from 1.
type Location struct {
	Line   uint
	Column uint
}

// Path is the sequence of response keys leading to the field which produced an error. Each key is
// either a string (a field name) or an int (a list index).
type Path []interface{}

// Clone makes a copy of the path with one extra slot of capacity.
func (path Path) Clone() Path {
	if len(path) == 0 {
		return nil
	}
	keys := make(Path, len(path), len(path)+1)
	copy(keys, path)
	return keys
}

// String serializes a Path to a more readable format, e.g. "hero.friends[1].name".
func (path Path) String() string {
	var b strings.Builder
	for _, key := range path {
		switch key := key.(type) {
		case string:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(key)

		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(key))
			b.WriteByte(']')

			// Other types should never happen.
		}
	}
	return b.String()
}

// An Error describes a failure found while executing a GraphQL operation. It carries the fields
// the response format defines: a message, optional source locations and an optional response path.
type Error struct {
	Message   string
	Locations []Location
	Path      Path
}

var _ error = (*Error)(nil)

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Locations) > 0 {
		loc := e.Locations[0]
		fmt.Fprintf(&b, " (line %d, column %d)", loc.Line, loc.Column)
	}
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Path.String())
	}
	return b.String()
}

// ToValue renders the error as its wire mapping: {"message", "locations", "path"} with empty
// locations and path omitted. An empty locations list is never emitted.
func (e *Error) ToValue() value.Value {
	fields := []value.ObjectField{
		value.FieldOf("message", value.String(e.Message)),
	}
	if len(e.Locations) > 0 {
		locations := make([]value.Value, len(e.Locations))
		for i, loc := range e.Locations {
			locations[i] = value.ObjectOf(
				value.FieldOf("line", value.Int(int64(loc.Line))),
				value.FieldOf("column", value.Int(int64(loc.Column))),
			)
		}
		fields = append(fields, value.FieldOf("locations", value.ListOf(locations...)))
	}
	if len(e.Path) > 0 {
		keys := make([]value.Value, len(e.Path))
		for i, key := range e.Path {
			switch key := key.(type) {
			case string:
				keys[i] = value.String(key)
			case int:
				keys[i] = value.Int(int64(key))
			}
		}
		fields = append(fields, value.FieldOf("path", value.ListOf(keys...)))
	}
	return value.ObjectOf(fields...)
}

// Errors wraps a list of Error. Wrapped in a struct instead of a plain slice so that callers check
// errs.HaveOccurred() rather than comparing against nil (an empty list means no error).
type Errors struct {
	Errors []*Error
}

// HaveOccurred returns true if the list is non-empty.
func (errs Errors) HaveOccurred() bool {
	return len(errs.Errors) > 0
}

// Append adds errors to the end of the list in place.
func (errs *Errors) Append(e ...*Error) {
	errs.Errors = append(errs.Errors, e...)
}

// ToValue renders the list as a JSON-like sequence of error mappings.
func (errs Errors) ToValue() value.Value {
	items := make([]value.Value, len(errs.Errors))
	for i, err := range errs.Errors {
		items[i] = err.ToValue()
	}
	return value.ListOf(items...)
}

// An ErrorHandler converts an error returned by a resolver into a response Error. The position is
// that of the field which produced the error and may be nil.
type ErrorHandler func(err error, pos *ast.Position, path Path) *Error

// DefaultErrorHandler reports the resolver error verbatim: the response message equals
// err.Error() with no further categorization. The field position is attached only when it still
// carries source text; a document whose source was detached produces errors without locations.
func DefaultErrorHandler(err error, pos *ast.Position, path Path) *Error {
	e := &Error{
		Message: err.Error(),
		Path:    path,
	}
	if pos != nil && pos.Src != nil {
		e.Locations = []Location{{Line: uint(pos.Line), Column: uint(pos.Column)}}
	}
	return e
}

// A Violation is a structured validation failure produced before execution: a message plus
// optional source positions.
type Violation struct {
	Message   string
	Locations []Location
}

// ViolationsError reports that a query failed validation. It is returned before any field
// executes and carries every violation found.
type ViolationsError struct {
	Violations []Violation
}

var _ error = (*ViolationsError)(nil)

// Error implements Go's error interface.
func (e *ViolationsError) Error() string {
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.Message
	}
	return fmt.Sprintf("query validation failed with %d violation(s): %s",
		len(e.Violations), strings.Join(messages, "; "))
}

// violationsError converts the validator's error list into a ViolationsError.
func violationsError(list gqlerror.List) *ViolationsError {
	violations := make([]Violation, len(list))
	for i, err := range list {
		violations[i] = Violation{
			Message:   err.Message,
			Locations: locationsOf(err),
		}
	}
	return &ViolationsError{Violations: violations}
}

// locationsOf pulls line/column pairs out of a gqlerror.
func locationsOf(err *gqlerror.Error) []Location {
	if len(err.Locations) == 0 {
		return nil
	}
	locations := make([]Location, len(err.Locations))
	for i, loc := range err.Locations {
		locations[i] = Location{Line: uint(loc.Line), Column: uint(loc.Column)}
	}
	return locations
}

// errorMarshaller implements jsoniter.ValEncoder to encode Error to JSON.
type errorMarshaller struct{}

var _ jsoniter.ValEncoder = errorMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (errorMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return (*Error)(ptr) == nil
}

// Encode implements jsoniter.ValEncoder.
func (errorMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	value.WriteTo(stream, (*Error)(ptr).ToValue())
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(e)
}

func init() {
	jsoniter.RegisterTypeEncoder("engine.Error", errorMarshaller{})
}
