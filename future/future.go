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

package future

import (
	"context"
)

// A Future represents an asynchronous computation that completes exactly once with either a value
// or an error. Unlike a bare channel the result can be observed by any number of goroutines, each
// with its own deadline.
//
// Futures produced by this package are inert containers; Go is the only constructor that spawns
// work.
type Future struct {
	done  chan struct{}
	value interface{}
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete stores the result and unblocks waiters. Completing twice panics: a Future is a
// single-assignment container.
func (f *Future) complete(value interface{}, err error) {
	select {
	case <-f.done:
		panic("future: completed twice")
	default:
	}
	f.value = value
	f.err = err
	close(f.done)
}

// Go runs fn in a new goroutine and returns a Future that completes with its result.
func Go(fn func() (interface{}, error)) *Future {
	f := newFuture()
	go func() {
		f.complete(fn())
	}()
	return f
}

// Ready returns an already-completed Future holding value.
func Ready(value interface{}) *Future {
	f := newFuture()
	f.complete(value, nil)
	return f
}

// Err returns an already-failed Future holding err.
func Err(err error) *Future {
	f := newFuture()
	f.complete(nil, err)
	return f
}

// Wait blocks until the Future completes or ctx is done. On ctx expiry the ctx error is returned
// and the underlying computation keeps running; its eventual result remains observable by other
// waiters.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed when the Future completes. It composes with select loops the same
// way ctx.Done does.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Join returns a Future which aggregates the results of the inputs into an []interface{} in the
// same order as they're given. It fails with the first error among the inputs, checked in order.
func Join(futures ...*Future) *Future {
	return Go(func() (interface{}, error) {
		results := make([]interface{}, len(futures))
		for i, input := range futures {
			<-input.done
			if input.err != nil {
				return nil, input.err
			}
			results[i] = input.value
		}
		return results, nil
	})
}
