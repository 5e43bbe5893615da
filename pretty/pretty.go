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

// Package pretty renders values as indented JSON for assertion-failure diagnostics.
package pretty

import (
	"io"

	"github.com/gqlassert/gqlassert/value"

	jsoniter "github.com/json-iterator/go"
)

// indentConfig writes with two-space indention. Registered type encoders are global in jsoniter so
// value.Value encodes through the same encoder as the compact form.
var indentConfig = jsoniter.Config{
	IndentionStep: 2,
	EscapeHTML:    false,
}.Froze()

// Print renders v as indented JSON. Rendering is deterministic: object fields appear in stored
// order and numbers without a fractional part print as integers.
func Print(v value.Value) string {
	stream := indentConfig.BorrowStream(nil)
	defer indentConfig.ReturnStream(stream)

	value.WriteTo(stream, v)
	if stream.Error != nil {
		return "<" + stream.Error.Error() + ">"
	}
	return string(stream.Buffer())
}

// Fprint writes the indented rendering of v to w.
func Fprint(w io.Writer, v value.Value) error {
	stream := indentConfig.BorrowStream(w)
	defer indentConfig.ReturnStream(stream)

	value.WriteTo(stream, v)
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}
