package mpp

import (
	"fmt"
	"reflect"
	"strconv"
	"unsafe"
)

// A WireType identifies one of the fixed-size element encodings a substrate
// can transfer.
type WireType int

// The wire types a substrate understands. WireInt and WireUint take the
// platform word size.
const (
	WireInvalid WireType = iota
	WireBool
	WireInt8
	WireInt16
	WireInt32
	WireInt64
	WireInt
	WireUint8
	WireUint16
	WireUint32
	WireUint64
	WireUint
	WireFloat32
	WireFloat64
	WireComplex64
	WireComplex128
)

// scalarWireTypes is the explicit kind table that drives scalar derivation.
// A kind absent from this table is not a transferable scalar, no matter how
// it is laid out in memory.
var scalarWireTypes = map[reflect.Kind]WireType{
	reflect.Bool:       WireBool,
	reflect.Int8:       WireInt8,
	reflect.Int16:      WireInt16,
	reflect.Int32:      WireInt32,
	reflect.Int64:      WireInt64,
	reflect.Int:        WireInt,
	reflect.Uint8:      WireUint8,
	reflect.Uint16:     WireUint16,
	reflect.Uint32:     WireUint32,
	reflect.Uint64:     WireUint64,
	reflect.Uint:       WireUint,
	reflect.Float32:    WireFloat32,
	reflect.Float64:    WireFloat64,
	reflect.Complex64:  WireComplex64,
	reflect.Complex128: WireComplex128,
}

var wireTypeNames = map[WireType]string{
	WireBool:       "bool",
	WireInt8:       "int8",
	WireInt16:      "int16",
	WireInt32:      "int32",
	WireInt64:      "int64",
	WireInt:        "int",
	WireUint8:      "uint8",
	WireUint16:     "uint16",
	WireUint32:     "uint32",
	WireUint64:     "uint64",
	WireUint:       "uint",
	WireFloat32:    "float32",
	WireFloat64:    "float64",
	WireComplex64:  "complex64",
	WireComplex128: "complex128",
}

// Size returns the number of bytes one element of the wire type occupies.
func (t WireType) Size() int {
	switch t {
	case WireBool, WireInt8, WireUint8:
		return 1
	case WireInt16, WireUint16:
		return 2
	case WireInt32, WireUint32, WireFloat32:
		return 4
	case WireInt64, WireUint64, WireFloat64, WireComplex64:
		return 8
	case WireComplex128:
		return 16
	case WireInt, WireUint:
		return strconv.IntSize / 8
	}

	panic(fmt.Sprintf("wire type %d has no size", int(t)))
}

func (t WireType) String() string {
	if name, ok := wireTypeNames[t]; ok {
		return name
	}

	return "invalid"
}

// A StructLayout places the blocks of a structured datatype. The three
// slices are parallel: block i holds Counts[i] elements of Types[i],
// starting Offsets[i] bytes after the transfer base address. Offsets are
// relative to the first logical element and may be negative.
type StructLayout struct {
	Offsets []int
	Counts  []int
	Types   []WireType
}

// A Datatype describes the element encoding of a transfer. A plain datatype
// names a single wire type. A structured datatype carries a layout placing
// several blocks at fixed byte offsets from the transfer base, so one
// substrate operation moves a whole non-contiguous value; structured
// datatypes always transfer as a single unit.
type Datatype struct {
	wire   WireType
	layout *StructLayout
}

// PlainType returns the datatype for elements of wire type w.
func PlainType(w WireType) Datatype {
	return Datatype{wire: w}
}

// StructuredType returns a datatype carrying the given layout.
func StructuredType(layout *StructLayout) Datatype {
	return Datatype{layout: layout}
}

// Wire returns the wire type of a plain datatype, WireInvalid for a
// structured one.
func (d Datatype) Wire() WireType {
	return d.wire
}

// Structured reports whether the datatype carries a block layout.
func (d Datatype) Structured() bool {
	return d.layout != nil
}

// Layout returns the block layout, nil for plain datatypes.
func (d Datatype) Layout() *StructLayout {
	return d.layout
}

// UnitBytes returns the number of payload bytes one element of the datatype
// occupies.
func (d Datatype) UnitBytes() int {
	if d.layout == nil {
		return d.wire.Size()
	}

	total := 0
	for i, c := range d.layout.Counts {
		total += c * d.layout.Types[i].Size()
	}

	return total
}

func (d Datatype) String() string {
	if d.layout != nil {
		return fmt.Sprintf("struct<%d>", len(d.layout.Offsets))
	}

	return d.wire.String()
}

// A TypeDesc is the complete transfer recipe for one value: the element
// datatype, the element count, and the base address of the first element.
// Empty sequences describe to a zero count with a nil base.
type TypeDesc struct {
	Type  Datatype
	Count int
	Base  unsafe.Pointer
}

// Describable lets a type contribute its own transfer descriptor, extending
// derivation beyond the built-in scalar and sequence shapes.
type Describable interface {
	TypeDesc() TypeDesc
}

// DescribeValue derives the transfer descriptor for the value at v.
//
// Scalars resolve through the explicit kind table. Slices and arrays
// describe a contiguous block starting at their first element, with nested
// arrays flattening into a larger count. Jagged slices produce a structured
// datatype recording every row's placement, so scattered rows still move in
// one transfer. Values implementing Describable provide their own
// descriptor.
//
// Strings, maps, pointers-to-pointers, and structs without a Describable
// implementation are not transferable; deriving them panics, since
// transferability is a property of the type rather than a runtime
// condition.
func DescribeValue(v any) TypeDesc {
	if d, ok := v.(Describable); ok {
		return d.TypeDesc()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		panic("value to describe must be a non-nil pointer")
	}

	elem := rv.Elem()
	if w, ok := scalarWireTypes[elem.Kind()]; ok {
		return TypeDesc{
			Type:  PlainType(w),
			Count: 1,
			Base:  unsafe.Pointer(rv.Pointer()),
		}
	}

	switch elem.Kind() {
	case reflect.Slice:
		return describeSlice(elem)
	case reflect.Array:
		return describeArray(rv, elem)
	}

	panic(fmt.Sprintf("type %v is not transferable", elem.Type()))
}

// contiguousElem resolves the wire type and flattened element count of a
// fully contiguous element type. Arrays nest; anything else must be a
// scalar from the kind table.
func contiguousElem(t reflect.Type) (WireType, int, bool) {
	if w, ok := scalarWireTypes[t.Kind()]; ok {
		return w, 1, true
	}

	if t.Kind() == reflect.Array {
		w, per, ok := contiguousElem(t.Elem())
		if !ok {
			return WireInvalid, 0, false
		}

		return w, per * t.Len(), true
	}

	return WireInvalid, 0, false
}

func describeSlice(v reflect.Value) TypeDesc {
	elemType := v.Type().Elem()

	if w, per, ok := contiguousElem(elemType); ok {
		count := v.Len() * per
		if count == 0 {
			return TypeDesc{Type: PlainType(w)}
		}

		return TypeDesc{
			Type:  PlainType(w),
			Count: count,
			Base:  unsafe.Pointer(v.Pointer()),
		}
	}

	if elemType.Kind() == reflect.Slice {
		return describeJagged(v)
	}

	panic(fmt.Sprintf("slice element type %v is not transferable", elemType))
}

func describeArray(ptr, v reflect.Value) TypeDesc {
	if w, per, ok := contiguousElem(v.Type()); ok {
		if per == 0 {
			return TypeDesc{Type: PlainType(w)}
		}

		return TypeDesc{
			Type:  PlainType(w),
			Count: per,
			Base:  unsafe.Pointer(ptr.Pointer()),
		}
	}

	if v.Type().Elem().Kind() == reflect.Slice {
		return describeJagged(v)
	}

	panic(fmt.Sprintf("array element type %v is not transferable", v.Type().Elem()))
}

// describeJagged commits a structured datatype for a sequence whose rows are
// separately allocated slices. One walk records every non-empty row's byte
// offset from the first row's first element, together with the row's count
// and wire type.
func describeJagged(v reflect.Value) TypeDesc {
	rowType := v.Type().Elem()
	w, per, ok := contiguousElem(rowType.Elem())
	if !ok {
		panic(fmt.Sprintf("row element type %v is not transferable", rowType.Elem()))
	}

	layout := &StructLayout{}
	var base unsafe.Pointer

	for i := 0; i < v.Len(); i++ {
		row := v.Index(i)
		if row.Len() == 0 {
			continue
		}

		addr := unsafe.Pointer(row.Pointer())
		if base == nil {
			base = addr
		}

		layout.Offsets = append(layout.Offsets, int(uintptr(addr)-uintptr(base)))
		layout.Counts = append(layout.Counts, row.Len()*per)
		layout.Types = append(layout.Types, w)
	}

	if base == nil {
		return TypeDesc{Type: PlainType(w)}
	}

	return TypeDesc{
		Type:  StructuredType(layout),
		Count: 1,
		Base:  base,
	}
}
