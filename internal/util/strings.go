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

package util

import (
	"strings"
)

// Dedent removes the common leading indentation of a multi-line string literal, taking the
// indentation of the first non-empty line as the unit. Leading newlines and trailing spaces and
// tabs are removed first. It keeps SDL and query literals readable in test sources.
func Dedent(s string) string {
	s = strings.TrimLeft(s, "\n")
	s = strings.TrimRight(s, " \t")

	indent := s
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			indent = s[:i]
			break
		}
	}
	if len(indent) == 0 {
		return s
	}
	return strings.ReplaceAll(s[len(indent):], "\n"+indent, "\n")
}

// CamelCase converts a GraphQL name ("/[_A-Za-z][_0-9A-Za-z]*/") to upper camel case, e.g.
// "camel_case" becomes "CamelCase". Used to match GraphQL field names against exported Go struct
// fields.
func CamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	upperNext := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			if c >= 'a' && c <= 'z' {
				c = c - 'a' + 'A'
			}
			upperNext = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
