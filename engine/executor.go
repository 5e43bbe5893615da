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

	"github.com/gqlassert/gqlassert/future"
	"github.com/gqlassert/gqlassert/value"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"
)

// ExecuteParams bundles the inputs to Execute.
type ExecuteParams struct {
	Schema   *Schema
	Document *ast.QueryDocument

	// OperationName selects the operation to run. Required when the document holds more than one.
	OperationName string

	// VariableValues are the raw variable bindings; they are coerced against the operation's
	// variable definitions before execution.
	VariableValues map[string]interface{}

	// RootValue is the source value the root selection set resolves against.
	RootValue interface{}

	// ErrorHandler converts resolver errors into response errors. Defaults to DefaultErrorHandler.
	ErrorHandler ErrorHandler

	// Validator checks the document before execution. Defaults to DefaultValidator; use
	// NoopValidator to skip validation.
	Validator Validator

	// StripSource detaches the document from its source text after validation, so resolver errors
	// report no locations.
	StripSource bool
}

// Response is the outcome of executing an operation: the data tree plus any field errors.
type Response struct {
	Data   value.Value
	Errors Errors

	// hasData distinguishes "data": null from a request that failed before execution began.
	hasData bool
}

// ToValue renders the response as its wire mapping: a "data" entry (absent when the request
// failed before execution) and an "errors" entry when any error occurred.
func (r *Response) ToValue() value.Value {
	var fields []value.ObjectField
	if r.hasData {
		fields = append(fields, value.FieldOf("data", r.Data))
	}
	if r.Errors.HaveOccurred() {
		fields = append(fields, value.FieldOf("errors", r.Errors.ToValue()))
	}
	return value.ObjectOf(fields...)
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	return r.ToValue().MarshalJSON()
}

// Execute runs the operation asynchronously and returns a future resolving to *Response.
//
// The future fails with *ViolationsError when validation rejects the document, and with an
// execution-level error when the request itself is unusable (unknown operation, unsupported
// operation type, a deferred batch that misbehaves). Field-level failures never fail the future;
// they are reported in Response.Errors.
//
// Execution is deterministic: fields run serially in selection order, with deferred batches
// flushed between waves. Repeated execution with deterministic resolvers yields structurally
// equal responses.
func Execute(ctx context.Context, params ExecuteParams) *future.Future {
	return future.Go(func() (interface{}, error) {
		return execute(ctx, params)
	})
}

func execute(ctx context.Context, params ExecuteParams) (*Response, error) {
	schema := params.Schema
	doc := params.Document
	if schema == nil {
		return nil, fmt.Errorf("execute: no schema provided")
	}
	if doc == nil {
		return nil, fmt.Errorf("execute: no document provided")
	}

	validate := params.Validator
	if validate == nil {
		validate = DefaultValidator
	}
	if violations := validate(schema.ast, doc); len(violations) > 0 {
		return nil, violationsError(violations)
	}

	if params.StripSource {
		StripSource(doc)
	}

	op, err := operationFor(doc, params.OperationName)
	if err != nil {
		return nil, err
	}

	var rootDef *ast.Definition
	switch op.Operation {
	case ast.Query:
		rootDef = schema.ast.Query
	case ast.Mutation:
		rootDef = schema.ast.Mutation
	case ast.Subscription:
		return nil, fmt.Errorf("execute: subscriptions are not supported")
	}
	if rootDef == nil {
		return nil, fmt.Errorf("execute: schema defines no %s type", op.Operation)
	}

	vars, coerceErr := validator.VariableValues(schema.ast, op, params.VariableValues)
	if coerceErr != nil {
		// A request error: no field executed, so the response carries no data entry.
		resp := &Response{}
		resp.Errors.Append(&Error{Message: coerceErr.Error()})
		return resp, nil
	}

	handler := params.ErrorHandler
	if handler == nil {
		handler = DefaultErrorHandler
	}

	e := &execution{
		ctx:          ctx,
		schema:       schema,
		doc:          doc,
		vars:         vars,
		rootValue:    params.RootValue,
		errorHandler: handler,
	}

	root := &resultNode{}
	e.executeSelectionSet(rootDef, op.SelectionSet, params.RootValue, nil, root)

	// Deferred batches are flushed depth-wise: everything a wave queued is dispatched before any
	// result from that wave executes its own sub-selections.
	for len(e.deferred) > 0 {
		tasks := e.deferred
		e.deferred = nil
		if err := e.flushDeferred(tasks); err != nil {
			return nil, err
		}
	}

	return &Response{Data: root.toValue(), Errors: e.errs, hasData: true}, nil
}

// operationFor selects the operation to execute.
func operationFor(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, fmt.Errorf("execute: document defines %d operations, operation name required",
				len(doc.Operations))
		}
		return doc.Operations[0], nil
	}
	op := doc.Operations.ForName(name)
	if op == nil {
		return nil, fmt.Errorf("execute: unknown operation %q", name)
	}
	return op, nil
}

//===----------------------------------------------------------------------------------------====//
// result tree
//===----------------------------------------------------------------------------------------====//

type resultKind uint8

const (
	resultNil resultKind = iota
	resultLeaf
	resultObject
	resultList
	// resultPending marks a node owned by a queued deferred task.
	resultPending
)

// resultNode is one node of the mutable result tree built during execution. Deferred fields keep
// a pointer to their node and fill it in when their batch completes.
type resultNode struct {
	parent *resultNode
	kind   resultKind
	leaf   value.Value
	fields []resultField
	items  []*resultNode

	// rejectNull is set for nodes of non-null type; a null here propagates to the parent.
	rejectNull bool
}

type resultField struct {
	name string
	node *resultNode
}

func (n *resultNode) toValue() value.Value {
	switch n.kind {
	case resultLeaf:
		return n.leaf
	case resultObject:
		fields := make([]value.ObjectField, len(n.fields))
		for i, field := range n.fields {
			fields[i] = value.FieldOf(field.name, field.node.toValue())
		}
		return value.ObjectOf(fields...)
	case resultList:
		items := make([]value.Value, len(n.items))
		for i, item := range n.items {
			items[i] = item.toValue()
		}
		return value.ListOf(items...)
	}
	return value.Null()
}

// discarded reports whether the node or any ancestor has been nulled out, meaning any pending
// work under it must not run.
func (n *resultNode) discarded() bool {
	for ; n != nil; n = n.parent {
		if n.kind == resultNil {
			return true
		}
	}
	return false
}

//===----------------------------------------------------------------------------------------====//
// execution
//===----------------------------------------------------------------------------------------====//

type execution struct {
	ctx          context.Context
	schema       *Schema
	doc          *ast.QueryDocument
	vars         map[string]interface{}
	rootValue    interface{}
	errorHandler ErrorHandler

	errs     Errors
	deferred []*deferredTask
}

type deferredTask struct {
	loader     *Loader
	key        interface{}
	node       *resultNode
	typ        *ast.Type
	selections ast.SelectionSet
	pos        *ast.Position
	path       Path
}

// appendError records a field error and nulls the field, propagating the null past non-null
// ancestors. At most one error is recorded per failed subtree: when an ancestor already failed
// the error is discarded.
func (e *execution) appendError(err *Error, node *resultNode) {
	if node.parent != nil && node.parent.kind == resultNil {
		return
	}
	e.errs.Append(err)
	node.kind = resultNil
	node.fields = nil
	node.items = nil
	propagateNull(node)
}

// propagateNull nulls enclosing values until a nullable one absorbs the null.
func propagateNull(node *resultNode) {
	for node.rejectNull && node.parent != nil {
		node = node.parent
		node.kind = resultNil
		node.fields = nil
		node.items = nil
	}
}

// fieldError builds an engine-generated error. Unlike resolver errors these always carry the
// node's line and column when a position exists.
func fieldError(message string, pos *ast.Position, path Path) *Error {
	err := &Error{Message: message, Path: path}
	if pos != nil && pos.Line > 0 {
		err.Locations = []Location{{Line: uint(pos.Line), Column: uint(pos.Column)}}
	}
	return err
}

func (e *execution) executeSelectionSet(objectDef *ast.Definition, selections ast.SelectionSet, source interface{}, path Path, node *resultNode) {
	node.kind = resultObject

	for _, group := range e.collectFields(objectDef, selections, map[string]bool{}) {
		field := group.fields[0]
		fieldPath := append(path.Clone(), group.responseKey)

		child := &resultNode{parent: node}
		node.fields = append(node.fields, resultField{name: group.responseKey, node: child})

		if field.Name == "__typename" {
			child.kind = resultLeaf
			child.leaf = value.String(objectDef.Name)
			continue
		}

		fieldDef := objectDef.Fields.ForName(field.Name)
		if fieldDef == nil {
			// Reachable only when validation was skipped.
			node.fields = node.fields[:len(node.fields)-1]
			e.errs.Append(fieldError(
				fmt.Sprintf("Cannot query field %q on type %q.", field.Name, objectDef.Name),
				field.Position, fieldPath))
			continue
		}
		child.rejectNull = fieldDef.Type.NonNull

		args, argErr := e.argumentValues(fieldDef, field)
		if argErr != nil {
			e.appendError(fieldError(argErr.Error(), field.Position, fieldPath), child)
			continue
		}

		info := ResolveInfo{
			field:     field,
			args:      args,
			path:      fieldPath,
			rootValue: e.rootValue,
		}
		resolver := e.schema.resolverFor(objectDef.Name, field.Name)
		resolved, err := resolver(e.ctx, source, info)
		if err != nil {
			e.appendError(e.errorHandler(err, field.Position, fieldPath), child)
			continue
		}

		e.completeValue(fieldDef.Type, mergeSelectionSets(group.fields), resolved, child, fieldPath, field.Position)
	}
}

func (e *execution) completeValue(typ *ast.Type, selections ast.SelectionSet, v interface{}, node *resultNode, path Path, pos *ast.Position) {
	if deferred, ok := v.(deferredValue); ok {
		node.kind = resultPending
		e.deferred = append(e.deferred, &deferredTask{
			loader:     deferred.loader,
			key:        deferred.key,
			node:       node,
			typ:        typ,
			selections: selections,
			pos:        pos,
			path:       path,
		})
		return
	}

	if isNullish(v) {
		if typ.NonNull {
			e.appendError(fieldError(
				fmt.Sprintf("Cannot return null for non-nullable field %s.", path.String()),
				pos, path), node)
			return
		}
		node.kind = resultNil
		return
	}

	// List type.
	if typ.Elem != nil {
		items, err := listItems(v)
		if err != nil {
			e.appendError(fieldError(err.Error(), pos, path), node)
			return
		}
		node.kind = resultList
		for i, item := range items {
			child := &resultNode{parent: node, rejectNull: typ.Elem.NonNull}
			node.items = append(node.items, child)
			e.completeValue(typ.Elem, selections, item, child, append(path.Clone(), i), pos)
			if node.kind != resultList {
				// A non-null item failed and nulled the whole list.
				return
			}
		}
		return
	}

	def := e.schema.ast.Types[typ.NamedType]
	if def == nil {
		e.appendError(fieldError(fmt.Sprintf("Unknown type %q.", typ.NamedType), pos, path), node)
		return
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		leaf, err := value.FromGo(v)
		if err != nil {
			e.appendError(fieldError(
				fmt.Sprintf("cannot serialize value for field %s: %s", path.String(), err),
				pos, path), node)
			return
		}
		node.kind = resultLeaf
		node.leaf = leaf

	case ast.Object:
		e.executeSelectionSet(def, selections, v, path, node)

	case ast.Interface, ast.Union:
		concrete, err := e.resolveConcreteType(def, v)
		if err != nil {
			e.appendError(fieldError(err.Error(), pos, path), node)
			return
		}
		e.executeSelectionSet(concrete, selections, v, path, node)

	default:
		e.appendError(fieldError(
			fmt.Sprintf("cannot complete value of %s type %q", def.Kind, def.Name),
			pos, path), node)
	}
}

// resolveConcreteType finds the object type behind a value of abstract type, through the schema's
// type resolver or a "__typename" entry on a map source.
func (e *execution) resolveConcreteType(abstract *ast.Definition, v interface{}) (*ast.Definition, error) {
	var typeName string
	if resolve, ok := e.schema.typeResolvers[abstract.Name]; ok {
		name, err := resolve(e.ctx, v)
		if err != nil {
			return nil, err
		}
		typeName = name
	} else if m, ok := v.(map[string]interface{}); ok {
		typeName, _ = m["__typename"].(string)
	}
	if typeName == "" {
		return nil, fmt.Errorf("cannot resolve concrete type for abstract type %q", abstract.Name)
	}

	def := e.schema.ast.Types[typeName]
	if def == nil || def.Kind != ast.Object {
		return nil, fmt.Errorf("abstract type %q resolved to %q which is not an object type",
			abstract.Name, typeName)
	}
	return def, nil
}

// flushDeferred dispatches one wave of deferred tasks, one batch call per loader. Tasks whose
// nodes were discarded by null propagation are dropped without fetching.
func (e *execution) flushDeferred(tasks []*deferredTask) error {
	// Group by loader, preserving first-seen order.
	var loaders []*Loader
	groups := map[*Loader][]*deferredTask{}
	for _, task := range tasks {
		if task.node.discarded() {
			continue
		}
		if _, seen := groups[task.loader]; !seen {
			loaders = append(loaders, task.loader)
		}
		groups[task.loader] = append(groups[task.loader], task)
	}

	for _, loader := range loaders {
		group := groups[loader]
		keys := make([]interface{}, len(group))
		for i, task := range group {
			keys[i] = task.key
		}

		results, err := loader.batch(e.ctx, keys)
		if err != nil {
			return fmt.Errorf("deferred loader %q: %w", loader.name, err)
		}
		if len(results) != len(keys) {
			return fmt.Errorf("deferred loader %q returned %d results for %d keys",
				loader.name, len(results), len(keys))
		}

		for i, task := range group {
			if task.node.discarded() {
				continue
			}
			if err, ok := results[i].(error); ok {
				e.appendError(e.errorHandler(err, task.pos, task.path), task.node)
				continue
			}
			e.completeValue(task.typ, task.selections, results[i], task.node, task.path, task.pos)
		}
	}
	return nil
}

//===----------------------------------------------------------------------------------------====//
// field collection
//===----------------------------------------------------------------------------------------====//

type fieldGroup struct {
	responseKey string
	fields      []*ast.Field
}

// collectFields groups the selections that apply to objectDef by response key, expanding
// fragments and honoring @skip and @include.
func (e *execution) collectFields(objectDef *ast.Definition, selections ast.SelectionSet, visited map[string]bool) []*fieldGroup {
	var (
		groups []*fieldGroup
		index  = map[string]*fieldGroup{}
	)

	var visit func(ast.SelectionSet)
	visit = func(selections ast.SelectionSet) {
		for _, sel := range selections {
			switch sel := sel.(type) {
			case *ast.Field:
				if e.skipped(sel.Directives) {
					continue
				}
				key := sel.Name
				if sel.Alias != "" {
					key = sel.Alias
				}
				group, ok := index[key]
				if !ok {
					group = &fieldGroup{responseKey: key}
					index[key] = group
					groups = append(groups, group)
				}
				group.fields = append(group.fields, sel)

			case *ast.FragmentSpread:
				if e.skipped(sel.Directives) || visited[sel.Name] {
					continue
				}
				frag := e.doc.Fragments.ForName(sel.Name)
				if frag == nil {
					e.errs.Append(fieldError(fmt.Sprintf("Unknown fragment %q.", sel.Name), sel.Position, nil))
					continue
				}
				if !e.typeApplies(frag.TypeCondition, objectDef) {
					continue
				}
				visited[sel.Name] = true
				visit(frag.SelectionSet)

			case *ast.InlineFragment:
				if e.skipped(sel.Directives) {
					continue
				}
				if sel.TypeCondition != "" && !e.typeApplies(sel.TypeCondition, objectDef) {
					continue
				}
				visit(sel.SelectionSet)
			}
		}
	}
	visit(selections)

	return groups
}

// skipped evaluates @skip and @include on a selection.
func (e *execution) skipped(directives ast.DirectiveList) bool {
	if d := directives.ForName("skip"); d != nil && e.directiveIf(d) {
		return true
	}
	if d := directives.ForName("include"); d != nil && !e.directiveIf(d) {
		return true
	}
	return false
}

func (e *execution) directiveIf(d *ast.Directive) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false
	}
	v, err := arg.Value.Value(e.vars)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

// typeApplies reports whether a fragment with the given type condition spreads into objectDef.
func (e *execution) typeApplies(condition string, objectDef *ast.Definition) bool {
	if condition == objectDef.Name {
		return true
	}
	conditionDef := e.schema.ast.Types[condition]
	if conditionDef == nil {
		return false
	}
	for _, possible := range e.schema.ast.GetPossibleTypes(conditionDef) {
		if possible.Name == objectDef.Name {
			return true
		}
	}
	return false
}

// argumentValues coerces the provided arguments against the field definition, applying declared
// defaults for omitted arguments.
func (e *execution) argumentValues(fieldDef *ast.FieldDefinition, field *ast.Field) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	for _, def := range fieldDef.Arguments {
		provided := field.Arguments.ForName(def.Name)
		if provided == nil {
			if def.DefaultValue != nil {
				v, err := def.DefaultValue.Value(nil)
				if err != nil {
					return nil, fmt.Errorf("invalid default for argument %q: %s", def.Name, err)
				}
				args[def.Name] = v
			}
			continue
		}
		v, err := provided.Value.Value(e.vars)
		if err != nil {
			return nil, fmt.Errorf("invalid value for argument %q: %s", def.Name, err)
		}
		args[def.Name] = v
	}
	return args, nil
}

func mergeSelectionSets(fields []*ast.Field) ast.SelectionSet {
	if len(fields) == 1 {
		return fields[0].SelectionSet
	}
	var merged ast.SelectionSet
	for _, field := range fields {
		merged = append(merged, field.SelectionSet...)
	}
	return merged
}

// listItems flattens any slice or array into []interface{}.
func listItems(v interface{}) ([]interface{}, error) {
	if items, ok := v.([]interface{}); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list value, got %T", v)
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

// isNullish returns true for nil interfaces and typed nils.
func isNullish(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
