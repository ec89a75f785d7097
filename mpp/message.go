package mpp

import "unsafe"

// A Message is the type-erased view of a typed message: exactly what a
// transfer needs, and nothing else.
type Message interface {
	// Addr returns the base address of the first element.
	Addr() unsafe.Pointer

	// Count returns the number of elements of the message's datatype.
	Count() int

	// Type returns the element datatype.
	Type() Datatype

	// Tag returns the application tag the message travels under.
	Tag() int
}

// A Msg wraps a caller value for transfer. The value is borrowed, not
// copied: the caller keeps ownership, must keep it alive, and must not
// mutate it from the moment an operation is issued until that operation
// completes.
//
// The transfer descriptor is derived the first time the message is used in
// an operation and cached, so wrapping a value costs nothing by itself. A
// Msg is not safe for concurrent use.
type Msg[T any] struct {
	value *T
	tag   int

	described bool
	desc      TypeDesc
}

// NewMsg wraps the value at v under tag. The message borrows v.
func NewMsg[T any](v *T, tag int) *Msg[T] {
	msgValueMustBeValid(v)

	return &Msg[T]{value: v, tag: tag}
}

// NewValMsg copies v into a value owned by the message, for senders that
// cannot lend their buffer out. The descriptor addresses the held copy.
func NewValMsg[T any](v T, tag int) *Msg[T] {
	return &Msg[T]{value: &v, tag: tag}
}

func msgValueMustBeValid[T any](v *T) {
	if v == nil {
		panic("message value must not be nil")
	}
}

// Value returns the wrapped value.
func (m *Msg[T]) Value() *T {
	return m.value
}

// Tag returns the application tag.
func (m *Msg[T]) Tag() int {
	return m.tag
}

// Addr returns the base address of the first element.
func (m *Msg[T]) Addr() unsafe.Pointer {
	return m.describe().Base
}

// Count returns the number of elements the message covers.
func (m *Msg[T]) Count() int {
	return m.describe().Count
}

// Type returns the element datatype.
func (m *Msg[T]) Type() Datatype {
	return m.describe().Type
}

func (m *Msg[T]) describe() TypeDesc {
	if !m.described {
		m.desc = DescribeValue(m.value)
		m.described = true
	}

	return m.desc
}

var _ Message = (*Msg[int])(nil)
