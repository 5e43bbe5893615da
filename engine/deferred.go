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
)

// BatchFunc fetches the values for a batch of keys in one call. It must return exactly one result
// per key, in key order. A result element that is an error marks that key's field as failed
// without failing the batch.
type BatchFunc func(ctx context.Context, keys []interface{}) ([]interface{}, error)

// A Loader batches deferred field resolutions of one kind. Resolvers hand keys to the executor
// via Defer; between execution waves the executor calls the batch function once with every key
// collected during the wave.
type Loader struct {
	name  string
	batch BatchFunc
}

// NewLoader builds a Loader. The name appears in failure messages only.
func NewLoader(name string, batch BatchFunc) *Loader {
	return &Loader{name: name, batch: batch}
}

// Name returns the loader's name.
func (l *Loader) Name() string {
	return l.name
}

// deferredValue is the sentinel a resolver returns to defer its field to a batch.
type deferredValue struct {
	loader *Loader
	key    interface{}
}

// Defer marks a field for batched resolution: the field's value becomes the loader's result for
// key, fetched together with every other key deferred to the same loader in the same wave.
func Defer(loader *Loader, key interface{}) interface{} {
	return deferredValue{loader: loader, key: key}
}
