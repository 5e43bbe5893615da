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
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// A Validator checks a query document against a schema before execution and returns the
// violations found, if any.
type Validator func(schema *ast.Schema, doc *ast.QueryDocument) gqlerror.List

// DefaultValidator runs the full spec-compliant rule set.
func DefaultValidator(schema *ast.Schema, doc *ast.QueryDocument) gqlerror.List {
	return validator.Validate(schema, doc)
}

// NoopValidator accepts every document.
func NoopValidator(schema *ast.Schema, doc *ast.QueryDocument) gqlerror.List {
	return nil
}

// ParseQuery parses a query string. A syntax error is returned as the parser produced it, with
// its source locations intact.
func ParseQuery(query string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: query})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// StripSource detaches the document from its source text: every position keeps its line and
// column but no longer references the source. Errors raised against a stripped document carry no
// locations (see DefaultErrorHandler) and diagnostics cannot quote the query.
func StripSource(doc *ast.QueryDocument) {
	stripPos(doc.Position)
	for _, op := range doc.Operations {
		stripPos(op.Position)
		for _, v := range op.VariableDefinitions {
			stripPos(v.Position)
		}
		stripDirectives(op.Directives)
		stripSelectionSet(op.SelectionSet)
	}
	for _, frag := range doc.Fragments {
		stripPos(frag.Position)
		stripDirectives(frag.Directives)
		stripSelectionSet(frag.SelectionSet)
	}
}

func stripSelectionSet(set ast.SelectionSet) {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *ast.Field:
			stripPos(sel.Position)
			for _, arg := range sel.Arguments {
				stripPos(arg.Position)
				stripValue(arg.Value)
			}
			stripDirectives(sel.Directives)
			stripSelectionSet(sel.SelectionSet)

		case *ast.FragmentSpread:
			stripPos(sel.Position)
			stripDirectives(sel.Directives)

		case *ast.InlineFragment:
			stripPos(sel.Position)
			stripDirectives(sel.Directives)
			stripSelectionSet(sel.SelectionSet)
		}
	}
}

func stripDirectives(directives ast.DirectiveList) {
	for _, d := range directives {
		stripPos(d.Position)
		for _, arg := range d.Arguments {
			stripPos(arg.Position)
			stripValue(arg.Value)
		}
	}
}

func stripValue(v *ast.Value) {
	if v == nil {
		return
	}
	stripPos(v.Position)
	for _, child := range v.Children {
		stripPos(child.Position)
		stripValue(child.Value)
	}
}

func stripPos(pos *ast.Position) {
	if pos != nil {
		pos.Src = nil
	}
}
