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
	"fmt"

	"github.com/gqlassert/gqlassert/engine"
	"github.com/gqlassert/gqlassert/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("deferred resolution", func() {
	userSDL := util.Dedent(`
		type Query {
			users: [User]
			user(id: ID!): User
		}
		type User {
			id: ID!
			name: String
			friend: User
		}
	`)

	users := map[string]map[string]interface{}{
		"1": {"id": "1", "name": "Luke", "friendID": "2"},
		"2": {"id": "2", "name": "Leia", "friendID": "1"},
		"3": {"id": "3", "name": "Han"},
	}

	// newUserLoader records every batch it serves.
	newUserLoader := func(batches *[][]interface{}) *engine.Loader {
		return engine.NewLoader("users", func(ctx context.Context, keys []interface{}) ([]interface{}, error) {
			*batches = append(*batches, keys)
			results := make([]interface{}, len(keys))
			for i, key := range keys {
				user, ok := users[key.(string)]
				if !ok {
					results[i] = fmt.Errorf("no user with id %v", key)
					continue
				}
				results[i] = user
			}
			return results, nil
		})
	}

	newSchema := func(loader *engine.Loader) *engine.Schema {
		return engine.MustNewSchema(&engine.SchemaConfig{
			SDL: userSDL,
			Resolvers: engine.ResolverMap{
				"Query.users": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return []interface{}{
						engine.Defer(loader, "1"),
						engine.Defer(loader, "2"),
						engine.Defer(loader, "3"),
					}, nil
				},
				"Query.user": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return engine.Defer(loader, info.ArgumentValues()["id"]), nil
				},
				"User.friend": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					friendID, ok := source.(map[string]interface{})["friendID"]
					if !ok {
						return nil, nil
					}
					return engine.Defer(loader, friendID), nil
				},
			},
		})
	}

	It("batches all keys of one wave into a single call", func() {
		var batches [][]interface{}
		schema := newSchema(newUserLoader(&batches))

		resp := mustRun(schema, "{ users { name } }")
		Expect(responseJSON(resp)).Should(MatchJSON(
			`{"data": {"users": [{"name": "Luke"}, {"name": "Leia"}, {"name": "Han"}]}}`))
		Expect(batches).Should(Equal([][]interface{}{{"1", "2", "3"}}))
	})

	It("flushes one wave per nesting depth", func() {
		var batches [][]interface{}
		schema := newSchema(newUserLoader(&batches))

		resp := mustRun(schema, `{ users { name friend { name } } }`)
		Expect(responseJSON(resp)).Should(MatchJSON(util.Dedent(`
			{
				"data": {
					"users": [
						{"name": "Luke", "friend": {"name": "Leia"}},
						{"name": "Leia", "friend": {"name": "Luke"}},
						{"name": "Han", "friend": null}
					]
				}
			}
		`)))
		Expect(batches).Should(Equal([][]interface{}{
			{"1", "2", "3"},
			{"2", "1"},
		}))
	})

	It("fails only the element whose result is an error", func() {
		var batches [][]interface{}
		schema := newSchema(newUserLoader(&batches))

		resp := mustRun(schema, `{ a: user(id: "1") { name } b: user(id: "9") { name } }`,
			func(params *engine.ExecuteParams) {
				params.StripSource = true
			})
		Expect(responseJSON(resp)).Should(MatchJSON(util.Dedent(`
			{
				"data": {"a": {"name": "Luke"}, "b": null},
				"errors": [{"message": "no user with id 9", "path": ["b"]}]
			}
		`)))
		Expect(batches).Should(Equal([][]interface{}{{"1", "9"}}))
	})

	It("fails the whole request when a batch returns too few results", func() {
		loader := engine.NewLoader("broken", func(ctx context.Context, keys []interface{}) ([]interface{}, error) {
			return nil, nil
		})
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: userSDL,
			Resolvers: engine.ResolverMap{
				"Query.user": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return engine.Defer(loader, info.ArgumentValues()["id"]), nil
				},
			},
		})

		_, err := run(schema, `{ user(id: "1") { name } }`)
		Expect(err).Should(MatchError(ContainSubstring(
			`deferred loader "broken" returned 0 results for 1 keys`)))
	})

	It("fails the whole request when the batch call errors", func() {
		loader := engine.NewLoader("down", func(ctx context.Context, keys []interface{}) ([]interface{}, error) {
			return nil, errors.New("store unreachable")
		})
		schema := engine.MustNewSchema(&engine.SchemaConfig{
			SDL: userSDL,
			Resolvers: engine.ResolverMap{
				"Query.user": func(ctx context.Context, source interface{}, info engine.ResolveInfo) (interface{}, error) {
					return engine.Defer(loader, info.ArgumentValues()["id"]), nil
				},
			},
		})

		_, err := run(schema, `{ user(id: "1") { name } }`)
		Expect(err).Should(MatchError(ContainSubstring(`deferred loader "down": store unreachable`)))
	})

	It("exposes the loader's name", func() {
		Expect(engine.NewLoader("users", nil).Name()).Should(Equal("users"))
	})
})
