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

package util_test

import (
	"github.com/gqlassert/gqlassert/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Dedent", func() {
	It("strips the common indentation of a literal", func() {
		Expect(util.Dedent(`
			type Query {
				hello: String
			}
		`)).Should(Equal("type Query {\n\thello: String\n}\n"))
	})

	It("keeps deeper indentation relative to the first line", func() {
		Expect(util.Dedent("  a\n    b\n  c\n")).Should(Equal("a\n  b\nc\n"))
	})

	It("leaves unindented text alone", func() {
		Expect(util.Dedent("a\nb\n")).Should(Equal("a\nb\n"))
	})

	It("drops leading newlines and trailing spaces", func() {
		Expect(util.Dedent("\n\nx\n  ")).Should(Equal("x\n"))
	})
})

var _ = Describe("CamelCase", func() {
	It("upper-cases the first letter", func() {
		Expect(util.CamelCase("hello")).Should(Equal("Hello"))
	})

	It("converts snake case", func() {
		Expect(util.CamelCase("camel_case")).Should(Equal("CamelCase"))
		Expect(util.CamelCase("__type_name")).Should(Equal("TypeName"))
	})

	It("leaves already-camel names alone", func() {
		Expect(util.CamelCase("AlreadyCamel")).Should(Equal("AlreadyCamel"))
	})
})
