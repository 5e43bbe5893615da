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
	"context"
	"fmt"
	"reflect"

	"github.com/gqlassert/gqlassert/internal/util"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ResolveInfo carries per-field information into resolvers.
type ResolveInfo struct {
	field     *ast.Field
	args      map[string]interface{}
	path      Path
	rootValue interface{}
}

// FieldName returns the name of the field being resolved.
func (info ResolveInfo) FieldName() string {
	return info.field.Name
}

// ResponseKey returns the alias under which the field appears in the response, or the field name
// when no alias was given.
func (info ResolveInfo) ResponseKey() string {
	if info.field.Alias != "" {
		return info.field.Alias
	}
	return info.field.Name
}

// ArgumentValues returns the coerced argument values for the field.
func (info ResolveInfo) ArgumentValues() map[string]interface{} {
	return info.args
}

// Path returns the response path of the field being resolved.
func (info ResolveInfo) Path() Path {
	return info.path
}

// RootValue returns the root value the execution started from.
func (info ResolveInfo) RootValue() interface{} {
	return info.rootValue
}

// FieldResolverFunc resolves a field value from its source object.
type FieldResolverFunc func(ctx context.Context, source interface{}, info ResolveInfo) (interface{}, error)

// ResolverMap binds resolvers to fields, keyed "Type.field".
type ResolverMap map[string]FieldResolverFunc

// TypeResolverFunc resolves the concrete object type name for a value of an interface or union
// type.
type TypeResolverFunc func(ctx context.Context, v interface{}) (string, error)

// SchemaConfig describes a schema to build with NewSchema.
type SchemaConfig struct {
	// SDL is the schema definition to load.
	SDL string

	// Resolvers provides field resolvers keyed "Type.field". Fields without an entry use the
	// default field resolver.
	Resolvers ResolverMap

	// TypeResolvers provides concrete-type resolution for interface and union types, keyed by the
	// abstract type name. An abstract value without a type resolver falls back to a "__typename"
	// entry on a map source.
	TypeResolvers map[string]TypeResolverFunc
}

// Schema pairs a parsed schema definition with the resolvers that serve it.
type Schema struct {
	ast           *ast.Schema
	resolvers     ResolverMap
	typeResolvers map[string]TypeResolverFunc
}

// NewSchema loads the SDL in config and builds a Schema.
func NewSchema(config *SchemaConfig) (*Schema, error) {
	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: "schema", Input: config.SDL})
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return &Schema{
		ast:           parsed,
		resolvers:     config.Resolvers,
		typeResolvers: config.TypeResolvers,
	}, nil
}

// MustNewSchema is NewSchema that panics on failure. Intended for test fixtures.
func MustNewSchema(config *SchemaConfig) *Schema {
	schema, err := NewSchema(config)
	if err != nil {
		panic(err)
	}
	return schema
}

// AST returns the underlying parsed schema.
func (s *Schema) AST() *ast.Schema {
	return s.ast
}

// resolverFor returns the resolver bound to typeName.fieldName, or the default field resolver.
func (s *Schema) resolverFor(typeName, fieldName string) FieldResolverFunc {
	if resolver, ok := s.resolvers[typeName+"."+fieldName]; ok {
		return resolver
	}
	return defaultFieldResolver
}

// defaultFieldResolver is used when no resolver is bound to a field. For a map source it looks up
// the field name; for a struct source it looks up the exported field matching the name in camel
// case. A value of a supported func type is invoked and its result used. A missing entry resolves
// to null.
func defaultFieldResolver(ctx context.Context, source interface{}, info ResolveInfo) (interface{}, error) {
	switch source := source.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		v, ok := source[info.FieldName()]
		if !ok {
			return nil, nil
		}
		return resolveValueOrFunc(ctx, source, v, info)
	}

	rv := reflect.ValueOf(source)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		mv := rv.MapIndex(reflect.ValueOf(info.FieldName()))
		if !mv.IsValid() {
			return nil, nil
		}
		return resolveValueOrFunc(ctx, source, mv.Interface(), info)

	case reflect.Struct:
		fv := rv.FieldByName(util.CamelCase(info.FieldName()))
		if !fv.IsValid() {
			return nil, nil
		}
		return resolveValueOrFunc(ctx, source, fv.Interface(), info)
	}

	return nil, fmt.Errorf("default resolver cannot resolve %q from source of type %T",
		info.FieldName(), source)
}

// resolveValueOrFunc invokes v when it is one of the supported resolver func forms, and returns it
// as-is otherwise.
func resolveValueOrFunc(ctx context.Context, source, v interface{}, info ResolveInfo) (interface{}, error) {
	switch f := v.(type) {
	case func(ctx context.Context) (interface{}, error):
		return f(ctx)
	case func(ctx context.Context, source interface{}) (interface{}, error):
		return f(ctx, source)
	case func(ctx context.Context, source interface{}, info ResolveInfo) (interface{}, error):
		return f(ctx, source, info)
	}
	return v, nil
}
