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
	"github.com/gqlassert/gqlassert/engine"

	jsoniter "github.com/json-iterator/go"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"
)

// MatchResponseJSON matches an *engine.Response against a JSON document.
//
//	Expect(resp).Should(MatchResponseJSON(`{
//	  "data": { "hello": "world" }
//	}`))
func MatchResponseJSON(expected string) types.GomegaMatcher {
	stringify := func(resp *engine.Response) ([]byte, error) {
		return jsoniter.Marshal(resp)
	}
	return gomega.WithTransform(stringify, gomega.MatchJSON(expected))
}

// ErrorFieldsMatcher sets up fields of an engine.Error to match.
type ErrorFieldsMatcher func(gstruct.Fields)

// MessageEqual matches the message in an engine.Error to be the same as the specified string.
func MessageEqual(s string) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Message"] = gomega.Equal(s)
	}
}

// MessageContainSubstring matches the message in an engine.Error to contain the specified string.
func MessageContainSubstring(s string) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Message"] = gomega.ContainSubstring(s)
	}
}

// LocationEqual matches the locations in the error to contain only the specified location.
func LocationEqual(location engine.Location) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Locations"] = gomega.Equal([]engine.Location{location})
	}
}

// LocationsEqual matches the locations in the error to equal the given sequence, in order.
func LocationsEqual(locations []engine.Location) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Locations"] = gomega.Equal(locations)
	}
}

// NoLocations matches an error that reports no locations.
func NoLocations() ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Locations"] = gomega.BeEmpty()
	}
}

// PathEqual matches the response path in the error.
func PathEqual(path engine.Path) ErrorFieldsMatcher {
	return func(fields gstruct.Fields) {
		fields["Path"] = gomega.Equal(path)
	}
}

// MatchResponseError matches an *engine.Error with the given fields.
//
//	Expect(err).Should(MatchResponseError(
//	  MessageContainSubstring("boom"),
//	  NoLocations(),
//	))
func MatchResponseError(matchers ...ErrorFieldsMatcher) types.GomegaMatcher {
	fields := gstruct.Fields{}
	for _, matcher := range matchers {
		matcher(fields)
	}
	return gstruct.PointTo(gstruct.MatchFields(gstruct.IgnoreExtras, fields))
}

// ContainError matches an *engine.Error the way an ErrSpec does: the message by substring
// containment and the locations by exact ordered equality. An empty position list matches only
// errors that report no locations.
func ContainError(substring string, positions ...Pos) types.GomegaMatcher {
	spec := Err(substring, positions...)
	accepted := func(err *engine.Error) bool {
		return spec.matches(err.Message, err.Locations)
	}
	return gomega.WithTransform(accepted, gomega.BeTrue())
}

// ConsistOfResponseErrors matches an engine.Errors like an array of engine.Error's with Gomega's
// ConsistOf.
//
//	Expect(resp.Errors).Should(ConsistOfResponseErrors(
//	  MatchResponseError(MessageContainSubstring("boom")),
//	))
func ConsistOfResponseErrors(matchers ...interface{}) types.GomegaMatcher {
	return gstruct.MatchAllFields(gstruct.Fields{
		"Errors": gomega.ConsistOf(matchers...),
	})
}
