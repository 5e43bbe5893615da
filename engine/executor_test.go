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

package engine_test

import (
	"context"
	"errors"

	"github.com/gqlassert/gqlassert/engine"
	"github.com/gqlassert/gqlassert/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/vektah/gqlparser/v2/ast"
)

var _ = Describe("Execute", func() {
	Describe("a simple query", func() {
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: "type Query { hello: String }",
			Resolvers: engine.ResolverMap{
				"Query.hello": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return "world", nil
				},
			},
		})

		It("resolves through the bound resolver", func() {
			resp := mustRun(schema, "{ hello }")
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"hello": "world"}}`))
		})

		It("honors field aliases", func() {
			resp := mustRun(schema, "{ greeting: hello }")
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"greeting": "world"}}`))
		})

		It("resolves __typename without a resolver", func() {
			resp := mustRun(schema, "{ __typename hello }")
			Expect(responseJSON(resp)).Should(
				MatchJSON(`{"data": {"__typename": "Query", "hello": "world"}}`))
		})

		It("executes repeatedly with equal results", func() {
			first := responseJSON(mustRun(schema, "{ hello }"))
			second := responseJSON(mustRun(schema, "{ hello }"))
			Expect(first).Should(Equal(second))
		})
	})

	Describe("the default field resolver", func() {
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: util.Dedent(`
				type Query {
					droid: Droid
				}
				type Droid {
					name: String
					primary_function: String
					beeps: Boolean
				}
			`),
		})

		It("reads map sources by field name", func() {
			resp := mustRun(schema, "{ droid { name beeps } }", func(params *engine.ExecuteParams) {
				params.RootValue = map[string]interface{}{
					"droid": map[string]interface{}{"name": "R2-D2", "beeps": true},
				}
			})
			Expect(responseJSON(resp)).Should(
				MatchJSON(`{"data": {"droid": {"name": "R2-D2", "beeps": true}}}`))
		})

		It("reads struct sources by camel-cased field name", func() {
			type droid struct {
				Name            string
				PrimaryFunction string
			}
			resp := mustRun(schema, "{ droid { name primary_function } }", func(params *engine.ExecuteParams) {
				params.RootValue = map[string]interface{}{
					"droid": droid{Name: "R2-D2", PrimaryFunction: "astromech"},
				}
			})
			Expect(responseJSON(resp)).Should(MatchJSON(
				`{"data": {"droid": {"name": "R2-D2", "primary_function": "astromech"}}}`))
		})

		It("invokes func-typed entries", func() {
			resp := mustRun(schema, "{ droid { name } }", func(params *engine.ExecuteParams) {
				params.RootValue = map[string]interface{}{
					"droid": map[string]interface{}{
						"name": func(ctx context.Context) (interface{}, error) {
							return "C-3PO", nil
						},
					},
				}
			})
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"droid": {"name": "C-3PO"}}}`))
		})

		It("resolves a missing entry to null", func() {
			resp := mustRun(schema, "{ droid { name } }", func(params *engine.ExecuteParams) {
				params.RootValue = map[string]interface{}{
					"droid": map[string]interface{}{},
				}
			})
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"droid": {"name": null}}}`))
		})
	})

	Describe("arguments and variables", func() {
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: `type Query { greet(name: String = "world"): String }`,
			Resolvers: engine.ResolverMap{
				"Query.greet": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return "hello " + info.ArgumentValues()["name"].(string), nil
				},
			},
		})

		It("passes literal arguments to the resolver", func() {
			resp := mustRun(schema, `{ greet(name: "there") }`)
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"greet": "hello there"}}`))
		})

		It("applies declared defaults for omitted arguments", func() {
			resp := mustRun(schema, "{ greet }")
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"greet": "hello world"}}`))
		})

		It("binds variables", func() {
			resp := mustRun(schema, "query ($who: String) { greet(name: $who) }",
				func(params *engine.ExecuteParams) {
					params.VariableValues = map[string]interface{}{"who": "you"}
				})
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"greet": "hello you"}}`))
		})

		It("turns a coercion failure into a request error without data", func() {
			resp := mustRun(schema, "query ($who: String!) { greet(name: $who) }")
			Expect(resp.Errors.HaveOccurred()).Should(BeTrue())
			_, hasData := resp.ToValue().Field("data")
			Expect(hasData).Should(BeFalse())
		})
	})

	Describe("fragments and directives", func() {
		characterSDL := util.Dedent(`
			type Query {
				hero: Character
			}
			interface Character {
				name: String
			}
			type Human implements Character {
				name: String
				home: String
			}
			type Droid implements Character {
				name: String
				primaryFunction: String
			}
		`)
		schema := engine.MustNewSchema(&engine.SchemaConfig{SDL: characterSDL})

		luke := map[string]interface{}{
			"hero": map[string]interface{}{
				"__typename": "Human",
				"name":       "Luke",
				"home":       "Tatooine",
			},
		}

		It("spreads named fragments", func() {
			resp := mustRun(schema, util.Dedent(`
				{
					hero {
						...heroName
					}
				}
				fragment heroName on Character {
					name
				}
			`), func(params *engine.ExecuteParams) {
				params.RootValue = luke
			})
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"hero": {"name": "Luke"}}}`))
		})

		It("applies inline fragments only to matching concrete types", func() {
			resp := mustRun(schema, util.Dedent(`
				{
					hero {
						name
						... on Human { home }
						... on Droid { primaryFunction }
					}
				}
			`), func(params *engine.ExecuteParams) {
				params.RootValue = luke
			})
			Expect(responseJSON(resp)).Should(
				MatchJSON(`{"data": {"hero": {"name": "Luke", "home": "Tatooine"}}}`))
		})

		It("resolves concrete types through a type resolver", func() {
			withResolver := engine.MustNewSchema(&engine.SchemaConfig{
				SDL: characterSDL,
				TypeResolvers: map[string]engine.TypeResolverFunc{
					"Character": func(ctx context.Context, v interface{}) (string, error) {
						return "Droid", nil
					},
				},
			})
			resp := mustRun(withResolver, "{ hero { __typename name } }",
				func(params *engine.ExecuteParams) {
					params.RootValue = map[string]interface{}{
						"hero": map[string]interface{}{"name": "R2-D2"},
					}
				})
			Expect(responseJSON(resp)).Should(
				MatchJSON(`{"data": {"hero": {"__typename": "Droid", "name": "R2-D2"}}}`))
		})

		It("honors @skip and @include", func() {
			resp := mustRun(schema, util.Dedent(`
				query ($yes: Boolean!) {
					a: hero @include(if: $yes) { name }
					b: hero @skip(if: $yes) { name }
				}
			`), func(params *engine.ExecuteParams) {
				params.RootValue = luke
				params.VariableValues = map[string]interface{}{"yes": true}
			})
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"a": {"name": "Luke"}}}`))
		})
	})

	Describe("error handling", func() {
		boom := errors.New("boom")
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: util.Dedent(`
				type Query {
					hello: String
					boom: String
				}
			`),
			Resolvers: engine.ResolverMap{
				"Query.hello": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return "world", nil
				},
				"Query.boom": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return nil, boom
				},
			},
		})

		It("records a resolver error and nulls the field", func() {
			resp := mustRun(schema, "{ hello boom }")
			Expect(responseJSON(resp)).Should(MatchJSON(util.Dedent(`
				{
					"data": {"hello": "world", "boom": null},
					"errors": [
						{
							"message": "boom",
							"locations": [{"line": 1, "column": 9}],
							"path": ["boom"]
						}
					]
				}
			`)))
		})

		It("drops locations when the document's source is stripped", func() {
			resp := mustRun(schema, "{ boom }", func(params *engine.ExecuteParams) {
				params.StripSource = true
			})
			Expect(responseJSON(resp)).Should(MatchJSON(
				`{"data": {"boom": null}, "errors": [{"message": "boom", "path": ["boom"]}]}`))
		})

		It("routes resolver errors through a custom handler", func() {
			resp := mustRun(schema, "{ boom }", func(params *engine.ExecuteParams) {
				params.ErrorHandler = func(err error, pos *ast.Position, path engine.Path) *engine.Error {
					return &engine.Error{Message: "wrapped: " + err.Error(), Path: path}
				}
			})
			Expect(resp.Errors.Errors).Should(HaveLen(1))
			Expect(resp.Errors.Errors[0].Message).Should(Equal("wrapped: boom"))
		})

		It("fails the future on validation violations", func() {
			_, err := run(schema, "{ nope }")
			var verr *engine.ViolationsError
			Expect(errors.As(err, &verr)).Should(BeTrue())
			Expect(verr.Violations).Should(HaveLen(1))
			Expect(verr.Violations[0].Message).Should(
				ContainSubstring(`Cannot query field "nope" on type "Query".`))
			Expect(verr.Violations[0].Locations).Should(
				Equal([]engine.Location{{Line: 1, Column: 3}}))
		})

		It("reports unknown fields as response errors when validation is skipped", func() {
			resp := mustRun(schema, "{ hello nope }", func(params *engine.ExecuteParams) {
				params.Validator = engine.NoopValidator
			})
			Expect(responseJSON(resp)).Should(MatchJSON(util.Dedent(`
				{
					"data": {"hello": "world"},
					"errors": [
						{
							"message": "Cannot query field \"nope\" on type \"Query\".",
							"locations": [{"line": 1, "column": 9}],
							"path": ["nope"]
						}
					]
				}
			`)))
		})
	})

	Describe("non-null propagation", func() {
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: util.Dedent(`
				type Query {
					hero: Character
					lead: Character!
				}
				type Character {
					name: String!
					nickname: String
				}
			`),
		})

		It("nulls the nearest nullable ancestor", func() {
			resp := mustRun(schema, "{ hero { name } }", func(params *engine.ExecuteParams) {
				params.RootValue = map[string]interface{}{
					"hero": map[string]interface{}{},
				}
			})
			Expect(responseJSON(resp)).Should(MatchJSON(util.Dedent(`
				{
					"data": {"hero": null},
					"errors": [
						{
							"message": "Cannot return null for non-nullable field hero.name.",
							"locations": [{"line": 1, "column": 10}],
							"path": ["hero", "name"]
						}
					]
				}
			`)))
		})

		It("nulls the whole data tree when the root field is non-nullable", func() {
			resp := mustRun(schema, "{ lead { name } }", func(params *engine.ExecuteParams) {
				params.RootValue = map[string]interface{}{
					"lead": map[string]interface{}{},
				}
			})
			Expect(responseJSON(resp)).Should(MatchJSON(util.Dedent(`
				{
					"data": null,
					"errors": [
						{
							"message": "Cannot return null for non-nullable field lead.name.",
							"locations": [{"line": 1, "column": 10}],
							"path": ["lead", "name"]
						}
					]
				}
			`)))
		})

		It("records one error per failed subtree", func() {
			resp := mustRun(schema, "{ lead { name nickname } }", func(params *engine.ExecuteParams) {
				params.RootValue = map[string]interface{}{
					"lead": map[string]interface{}{},
				}
			})
			Expect(resp.Errors.Errors).Should(HaveLen(1))
		})
	})

	Describe("operation selection", func() {
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: util.Dedent(`
				type Query {
					hello: String
				}
				type Subscription {
					ticks: Int
				}
			`),
			Resolvers: engine.ResolverMap{
				"Query.hello": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return "world", nil
				},
			},
		})

		It("requires an operation name for multi-operation documents", func() {
			_, err := run(schema, "query A { hello } query B { hello }")
			Expect(err).Should(MatchError(ContainSubstring("operation name required")))
		})

		It("selects the named operation", func() {
			resp := mustRun(schema, "query A { a: hello } query B { b: hello }",
				func(params *engine.ExecuteParams) {
					params.OperationName = "B"
				})
			Expect(responseJSON(resp)).Should(MatchJSON(`{"data": {"b": "world"}}`))
		})

		It("rejects an unknown operation name", func() {
			_, err := run(schema, "query A { hello }", func(params *engine.ExecuteParams) {
				params.OperationName = "C"
			})
			Expect(err).Should(MatchError(ContainSubstring(`unknown operation "C"`)))
		})

		It("rejects subscriptions", func() {
			_, err := run(schema, "subscription { ticks }")
			Expect(err).Should(MatchError(ContainSubstring("subscriptions are not supported")))
		})
	})
})
