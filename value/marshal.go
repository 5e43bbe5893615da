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

package value

import (
	"math"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// valueMarshaller implements jsoniter.ValEncoder to encode a Value to JSON.
type valueMarshaller struct{}

var _ jsoniter.ValEncoder = valueMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (valueMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return false
}

// Encode implements jsoniter.ValEncoder.
func (valueMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	WriteTo(stream, *(*Value)(ptr))
}

// WriteTo writes v to the given jsoniter stream. Numbers without a fractional part are written as
// integers.
func WriteTo(stream *jsoniter.Stream, v Value) {
	switch v.kind {
	case KindNull:
		stream.WriteNil()

	case KindBool:
		stream.WriteBool(v.b)

	case KindNumber:
		if i := int64(v.num); float64(i) == v.num && math.Abs(v.num) < (1<<53) {
			stream.WriteInt64(i)
		} else {
			stream.WriteFloat64(v.num)
		}

	case KindString:
		stream.WriteString(v.str)

	case KindList:
		stream.WriteArrayStart()
		for i, item := range v.list {
			if i > 0 {
				stream.WriteMore()
			}
			WriteTo(stream, item)
		}
		stream.WriteArrayEnd()

	case KindObject:
		stream.WriteObjectStart()
		for i, field := range v.fields {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(field.Name)
			WriteTo(stream, field.Value)
		}
		stream.WriteObjectEnd()
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(v)
}

// String renders the Value as compact JSON. Intended for debugging; encoding errors surface as an
// error string.
func (v Value) String() string {
	encoded, err := jsoniter.MarshalToString(v)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return encoded
}

func init() {
	jsoniter.RegisterTypeEncoder("value.Value", valueMarshaller{})
}
