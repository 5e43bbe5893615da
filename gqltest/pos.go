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

package gqltest

import (
	"fmt"

	"github.com/gqlassert/gqlassert/engine"
	"github.com/gqlassert/gqlassert/value"
)

// Pos is a (line, column) source location, 1-indexed on both axes.
type Pos struct {
	Line   uint
	Column uint
}

// Location converts the Pos to the engine's location type.
func (p Pos) Location() engine.Location {
	return engine.Location{Line: p.Line, Column: p.Column}
}

// PosOfLocation converts an engine location to a Pos. The conversion is lossless in both
// directions.
func PosOfLocation(loc engine.Location) Pos {
	return Pos{Line: loc.Line, Column: loc.Column}
}

// ToValue renders the Pos as its wire mapping {"line", "column"}.
func (p Pos) ToValue() value.Value {
	return value.ObjectOf(
		value.FieldOf("line", value.Int(int64(p.Line))),
		value.FieldOf("column", value.Int(int64(p.Column))),
	)
}

// PosFromValue reads a Pos back from its wire mapping.
func PosFromValue(v value.Value) (Pos, error) {
	line, ok := v.Field("line")
	if !ok || line.Kind() != value.KindNumber {
		return Pos{}, fmt.Errorf("gqltest: location mapping has no numeric \"line\": %s", v)
	}
	column, ok := v.Field("column")
	if !ok || column.Kind() != value.KindNumber {
		return Pos{}, fmt.Errorf("gqltest: location mapping has no numeric \"column\": %s", v)
	}
	return Pos{Line: uint(line.Float()), Column: uint(column.Float())}, nil
}

// ErrSpec describes an expected error in containment mode: a substring to find in the error's
// message plus the ordered list of positions the error must report. An empty Positions list
// matches only errors that report no locations; an error carrying an empty-but-present locations
// list counts as reporting none.
type ErrSpec struct {
	Message   string
	Positions []Pos
}

// Err builds an ErrSpec.
func Err(message string, positions ...Pos) ErrSpec {
	return ErrSpec{Message: message, Positions: positions}
}

// matches reports whether spec accepts an error with the given message and locations.
func (spec ErrSpec) matches(message string, locations []engine.Location) bool {
	if !containsSubstring(message, spec.Message) {
		return false
	}
	if len(spec.Positions) == 0 {
		return len(locations) == 0
	}
	if len(locations) != len(spec.Positions) {
		return false
	}
	for i, pos := range spec.Positions {
		if PosOfLocation(locations[i]) != pos {
			return false
		}
	}
	return true
}
