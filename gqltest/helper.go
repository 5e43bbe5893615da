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

// Package gqltest asserts the outcome of executing GraphQL queries: it parses a query, runs it
// against a schema and root value, and compares the response (or its error list, or the
// validation violations) with expectations. Every assertion failure carries a pretty-printed dump
// of the actual outcome.
package gqltest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gqlassert/gqlassert/engine"
	"github.com/gqlassert/gqlassert/pretty"
	"github.com/gqlassert/gqlassert/value"

	"github.com/google/go-cmp/cmp"
	"github.com/onsi/ginkgo"
)

// FailHandler reports an assertion failure. It matches the signature of ginkgo.Fail and
// gomega's fail handlers; a handler may panic (ginkgo does) or record and return.
type FailHandler func(message string, callerSkip ...int)

// DefaultTimeout bounds how long a single query execution may block. The helper applies it to
// the execution future; an expired wait fails the assertion instead of hanging the suite.
const DefaultTimeout = 10 * time.Second

// Helper executes queries against one schema and asserts on the results. Each call builds its
// arguments afresh and holds no mutable state, so a Helper may be shared between test cases.
type Helper struct {
	schema  *engine.Schema
	timeout time.Duration

	// retainSource keeps the query source attached during execution, so resolver errors carry
	// source locations.
	retainSource bool

	fail FailHandler
}

// HelperOption configures a Helper.
type HelperOption func(*Helper)

// WithFailHandler routes assertion failures to the given handler instead of ginkgo.Fail.
func WithFailHandler(fail FailHandler) HelperOption {
	return func(h *Helper) { h.fail = fail }
}

// WithTimeout overrides DefaultTimeout. Zero disables the timeout entirely.
func WithTimeout(timeout time.Duration) HelperOption {
	return func(h *Helper) { h.timeout = timeout }
}

// WithRetainSource keeps query source text attached during execution, so resolver errors report
// the failing field's location.
func WithRetainSource() HelperOption {
	return func(h *Helper) { h.retainSource = true }
}

// New builds a Helper for the given schema.
func New(schema *engine.Schema, opts ...HelperOption) *Helper {
	h := &Helper{
		schema:  schema,
		timeout: DefaultTimeout,
		fail:    ginkgo.Fail,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// queryConfig collects per-query settings; the zero value plus defaults below is a validated
// query with no variables against a nil root.
type queryConfig struct {
	variables     map[string]interface{}
	operationName string
	rootValue     interface{}
	ctx           context.Context
	validate      bool
}

// QueryOption configures one query execution.
type QueryOption func(*queryConfig)

// WithVariables supplies variable bindings.
func WithVariables(variables map[string]interface{}) QueryOption {
	return func(cfg *queryConfig) { cfg.variables = variables }
}

// WithOperation selects the operation to run in a multi-operation document.
func WithOperation(name string) QueryOption {
	return func(cfg *queryConfig) { cfg.operationName = name }
}

// WithRootValue sets the root value the query executes against.
func WithRootValue(rootValue interface{}) QueryOption {
	return func(cfg *queryConfig) { cfg.rootValue = rootValue }
}

// WithContext sets the context passed to resolvers.
func WithContext(ctx context.Context) QueryOption {
	return func(cfg *queryConfig) { cfg.ctx = ctx }
}

// WithoutValidation executes the query with the no-op validator.
func WithoutValidation() QueryOption {
	return func(cfg *queryConfig) { cfg.validate = false }
}

// ExecuteQuery parses and runs a query, blocking until execution completes. A syntax error fails
// the caller immediately; validation violations and execution-level failures are returned as the
// error. Response errors raised by resolvers are part of the returned response, not the error.
func (h *Helper) ExecuteQuery(query string, opts ...QueryOption) (*engine.Response, error) {
	cfg := queryConfig{ctx: context.Background(), validate: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := engine.ParseQuery(query)
	if err != nil {
		h.fail(fmt.Sprintf("failed to parse query: %s\nquery was:\n%s", err, query))
		return nil, err
	}

	validate := engine.DefaultValidator
	if !cfg.validate {
		validate = engine.NoopValidator
	}

	ctx := cfg.ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result := engine.Execute(ctx, engine.ExecuteParams{
		Schema:         h.schema,
		Document:       doc,
		OperationName:  cfg.operationName,
		VariableValues: cfg.variables,
		RootValue:      cfg.rootValue,
		Validator:      validate,
		StripSource:    !h.retainSource,
	})

	resolved, err := result.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return resolved.(*engine.Response), nil
}

// mustExecute runs the query and turns any surfaced failure into an assertion failure.
func (h *Helper) mustExecute(query string, opts []QueryOption) (*engine.Response, bool) {
	resp, err := h.ExecuteQuery(query, opts...)
	if err != nil {
		h.fail(fmt.Sprintf("query execution failed: %s\nquery was:\n%s", err, query))
		return nil, false
	}
	if resp == nil {
		return nil, false
	}
	return resp, true
}

// AssertResult runs the query and asserts the whole response equals expected structurally. On
// mismatch the failure carries the pretty-printed actual response and a diff.
func (h *Helper) AssertResult(query string, expected value.Value, opts ...QueryOption) {
	resp, ok := h.mustExecute(query, opts)
	if !ok {
		return
	}

	actual := resp.ToValue()
	if !value.Equal(actual, expected) {
		h.fail(fmt.Sprintf(
			"query result mismatch\nexpected:\n%s\nactual:\n%s\ndiff (-expected +actual):\n%s",
			pretty.Print(expected), pretty.Print(actual), cmp.Diff(expected.ToGo(), actual.ToGo())))
	}
}

// AssertErrorsExact runs the query and asserts the "data" entry equals expectedData exactly and
// the error list holds exactly the expected errors: same count, each expected error present as an
// exact structural match, in any order.
func (h *Helper) AssertErrorsExact(query string, expectedData value.Value, expectedErrors []engine.Error, opts ...QueryOption) {
	resp, ok := h.mustExecute(query, opts)
	if !ok {
		return
	}

	if !h.assertData(resp, expectedData) {
		return
	}

	actual := resp.Errors.Errors
	if len(actual) != len(expectedErrors) {
		h.failErrors(resp, fmt.Sprintf("expected exactly %d error(s), got %d", len(expectedErrors), len(actual)))
		return
	}

	matched := make([]bool, len(actual))
	for _, expected := range expectedErrors {
		found := false
		for i, err := range actual {
			if matched[i] || !value.Equal(expected.ToValue(), err.ToValue()) {
				continue
			}
			matched[i] = true
			found = true
			break
		}
		if !found {
			h.failErrors(resp, fmt.Sprintf("expected error not present: %s", pretty.Print(expected.ToValue())))
			return
		}
	}
}

// AssertErrorsContain runs the query and asserts the "data" entry equals expectedData exactly,
// the error count equals len(expected), and each expectation matches at least one actual error:
// the message by substring containment, the positions by exact ordered equality (an empty
// position list matches only errors reporting no locations).
func (h *Helper) AssertErrorsContain(query string, expectedData value.Value, expected []ErrSpec, opts ...QueryOption) {
	resp, ok := h.mustExecute(query, opts)
	if !ok {
		return
	}

	if !h.assertData(resp, expectedData) {
		return
	}

	actual := resp.Errors.Errors
	if len(actual) != len(expected) {
		h.failErrors(resp, fmt.Sprintf("expected exactly %d error(s), got %d", len(expected), len(actual)))
		return
	}

	for _, spec := range expected {
		found := false
		for _, err := range actual {
			if spec.matches(err.Message, err.Locations) {
				found = true
				break
			}
		}
		if !found {
			h.failErrors(resp, fmt.Sprintf("no error matches %q at %+v", spec.Message, spec.Positions))
			return
		}
	}
}

// AssertViolationsContain runs block, requires it to fail with validation violations, and asserts
// the violation count equals len(expected) with each expectation matching at least one violation
// by message substring and, when positions are given, exact ordered position equality. A
// violation without location information never matches an expectation with positions.
func (h *Helper) AssertViolationsContain(block func() error, expected []ErrSpec) {
	err := block()
	if err == nil {
		h.fail("expected validation violations, but the block succeeded")
		return
	}

	var verr *engine.ViolationsError
	if !errors.As(err, &verr) {
		h.fail(fmt.Sprintf("expected validation violations, got: %s", err))
		return
	}

	violations := verr.Violations
	if len(violations) != len(expected) {
		h.failViolations(violations, fmt.Sprintf("expected exactly %d violation(s), got %d", len(expected), len(violations)))
		return
	}

	for _, spec := range expected {
		found := false
		for _, violation := range violations {
			if spec.matches(violation.Message, violation.Locations) {
				found = true
				break
			}
		}
		if !found {
			h.failViolations(violations, fmt.Sprintf("no violation matches %q at %+v", spec.Message, spec.Positions))
			return
		}
	}
}

// assertData checks the response's "data" entry against expectedData, failing with a dump on
// mismatch.
func (h *Helper) assertData(resp *engine.Response, expectedData value.Value) bool {
	responseValue := resp.ToValue()
	actualData, ok := responseValue.Field("data")
	if !ok {
		h.fail(fmt.Sprintf("response carries no data\nactual response:\n%s", pretty.Print(responseValue)))
		return false
	}
	if !value.Equal(actualData, expectedData) {
		h.fail(fmt.Sprintf(
			"query data mismatch\nexpected:\n%s\nactual response:\n%s\ndiff (-expected +actual):\n%s",
			pretty.Print(expectedData), pretty.Print(responseValue),
			cmp.Diff(expectedData.ToGo(), actualData.ToGo())))
		return false
	}
	return true
}

func (h *Helper) failErrors(resp *engine.Response, message string) {
	h.fail(fmt.Sprintf("%s\nactual response:\n%s", message, pretty.Print(resp.ToValue())))
}

func (h *Helper) failViolations(violations []engine.Violation, message string) {
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\nactual violations:")
	for _, violation := range violations {
		fmt.Fprintf(&b, "\n  - %s %+v", violation.Message, violation.Locations)
	}
	h.fail(b.String())
}

func containsSubstring(s, substring string) bool {
	return strings.Contains(s, substring)
}
