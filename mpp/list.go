package mpp

import "unsafe"

// A List is a singly linked sequence whose nodes live in separate
// allocations. Its transfer descriptor records every node's placement, so a
// whole list still moves in a single structured transfer. Node values must
// be scalars or contiguous sequences.
type List[T any] struct {
	head *listNode[T]
	tail *listNode[T]
	n    int
}

type listNode[T any] struct {
	value T
	next  *listNode[T]
}

// NewList builds a list holding vs in order.
func NewList[T any](vs ...T) *List[T] {
	l := &List[T]{}
	for _, v := range vs {
		l.PushBack(v)
	}

	return l
}

// PushBack appends v to the end of the list.
func (l *List[T]) PushBack(v T) {
	node := &listNode[T]{value: v}
	if l.tail == nil {
		l.head = node
	} else {
		l.tail.next = node
	}

	l.tail = node
	l.n++
}

// Len returns the number of nodes in the list.
func (l *List[T]) Len() int {
	return l.n
}

// Values returns the node values in list order.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.n)
	for node := l.head; node != nil; node = node.next {
		out = append(out, node.value)
	}

	return out
}

// TypeDesc walks the nodes once and commits their placement as a single
// structured datatype: the base address is the first node's first element,
// and every node contributes one offset, count, and wire type block.
func (l *List[T]) TypeDesc() TypeDesc {
	layout := &StructLayout{}
	var base unsafe.Pointer
	var elem Datatype

	for node := l.head; node != nil; node = node.next {
		d := DescribeValue(&node.value)
		if d.Type.Structured() {
			panic("list node values must be scalars or contiguous sequences")
		}

		elem = d.Type
		if d.Count == 0 {
			continue
		}

		if base == nil {
			base = d.Base
		}

		layout.Offsets = append(layout.Offsets, int(uintptr(d.Base)-uintptr(base)))
		layout.Counts = append(layout.Counts, d.Count)
		layout.Types = append(layout.Types, d.Type.Wire())
	}

	if base == nil {
		if l.head == nil {
			var zero T
			elem = DescribeValue(&zero).Type
		}

		return TypeDesc{Type: elem}
	}

	return TypeDesc{
		Type:  StructuredType(layout),
		Count: 1,
		Base:  base,
	}
}

var _ Describable = (*List[int])(nil)
