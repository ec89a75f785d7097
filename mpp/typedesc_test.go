package mpp

import (
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type selfDescribed struct {
	desc TypeDesc
}

func (d *selfDescribed) TypeDesc() TypeDesc {
	return d.desc
}

var _ = Describe("DescribeValue", func() {
	It("should describe a scalar", func() {
		v := 4.2

		desc := DescribeValue(&v)

		Expect(desc.Type.Wire()).To(Equal(WireFloat64))
		Expect(desc.Type.Structured()).To(BeFalse())
		Expect(desc.Count).To(Equal(1))
		Expect(desc.Base).To(Equal(unsafe.Pointer(&v)))
	})

	It("should describe every scalar kind through the table", func() {
		b := true
		Expect(DescribeValue(&b).Type.Wire()).To(Equal(WireBool))

		i8 := int8(1)
		Expect(DescribeValue(&i8).Type.Wire()).To(Equal(WireInt8))

		u16 := uint16(1)
		Expect(DescribeValue(&u16).Type.Wire()).To(Equal(WireUint16))

		i := 1
		Expect(DescribeValue(&i).Type.Wire()).To(Equal(WireInt))

		c := complex128(1)
		Expect(DescribeValue(&c).Type.Wire()).To(Equal(WireComplex128))
	})

	It("should describe a slice as one contiguous block", func() {
		s := []int32{2, 4, 6, 8}

		desc := DescribeValue(&s)

		Expect(desc.Type.Wire()).To(Equal(WireInt32))
		Expect(desc.Count).To(Equal(4))
		Expect(desc.Base).To(Equal(unsafe.Pointer(&s[0])))
	})

	It("should describe an empty slice with a zero count", func() {
		var s []float32

		desc := DescribeValue(&s)

		Expect(desc.Type.Wire()).To(Equal(WireFloat32))
		Expect(desc.Count).To(Equal(0))
		Expect(desc.Base).To(BeNil())
	})

	It("should describe an array", func() {
		a := [3]uint64{7, 8, 9}

		desc := DescribeValue(&a)

		Expect(desc.Type.Wire()).To(Equal(WireUint64))
		Expect(desc.Count).To(Equal(3))
		Expect(desc.Base).To(Equal(unsafe.Pointer(&a[0])))
	})

	It("should flatten nested arrays into one count", func() {
		a := [2][3]int32{{1, 2, 3}, {4, 5, 6}}

		desc := DescribeValue(&a)

		Expect(desc.Type.Wire()).To(Equal(WireInt32))
		Expect(desc.Count).To(Equal(6))
		Expect(desc.Base).To(Equal(unsafe.Pointer(&a[0][0])))
	})

	It("should flatten a slice of arrays into one count", func() {
		s := [][2]float64{{1, 2}, {3, 4}, {5, 6}}

		desc := DescribeValue(&s)

		Expect(desc.Type.Wire()).To(Equal(WireFloat64))
		Expect(desc.Count).To(Equal(6))
		Expect(desc.Base).To(Equal(unsafe.Pointer(&s[0][0])))
	})

	It("should describe a jagged slice as one structured unit", func() {
		rows := [][]float64{{1}, {}, {2, 3}}

		desc := DescribeValue(&rows)

		Expect(desc.Type.Structured()).To(BeTrue())
		Expect(desc.Count).To(Equal(1))
		Expect(desc.Base).To(Equal(unsafe.Pointer(&rows[0][0])))

		layout := desc.Type.Layout()
		Expect(layout.Counts).To(Equal([]int{1, 2}))
		Expect(layout.Types).To(Equal([]WireType{WireFloat64, WireFloat64}))
		Expect(layout.Offsets[0]).To(Equal(0))

		wantOffset := int(uintptr(unsafe.Pointer(&rows[2][0])) -
			uintptr(unsafe.Pointer(&rows[0][0])))
		Expect(layout.Offsets[1]).To(Equal(wantOffset))
	})

	It("should report the payload size of a structured datatype", func() {
		rows := [][]int64{{1, 2}, {3}}

		desc := DescribeValue(&rows)

		Expect(desc.Type.UnitBytes()).To(Equal(24))
	})

	It("should describe a jagged slice with only empty rows as empty", func() {
		rows := [][]int32{{}, {}}

		desc := DescribeValue(&rows)

		Expect(desc.Type.Structured()).To(BeFalse())
		Expect(desc.Type.Wire()).To(Equal(WireInt32))
		Expect(desc.Count).To(Equal(0))
		Expect(desc.Base).To(BeNil())
	})

	It("should let a value describe itself", func() {
		v := 3
		d := &selfDescribed{desc: TypeDesc{
			Type:  PlainType(WireInt),
			Count: 1,
			Base:  unsafe.Pointer(&v),
		}}

		desc := DescribeValue(d)

		Expect(desc).To(Equal(d.desc))
	})

	It("should panic on a string", func() {
		s := "hello"
		Expect(func() { DescribeValue(&s) }).To(Panic())
	})

	It("should panic on a map", func() {
		m := map[int]int{}
		Expect(func() { DescribeValue(&m) }).To(Panic())
	})

	It("should panic on a plain struct", func() {
		v := struct{ A int }{}
		Expect(func() { DescribeValue(&v) }).To(Panic())
	})

	It("should panic on a slice of strings", func() {
		s := []string{"a"}
		Expect(func() { DescribeValue(&s) }).To(Panic())
	})

	It("should panic on a non-pointer", func() {
		Expect(func() { DescribeValue(42) }).To(Panic())
	})

	It("should panic on a nil pointer", func() {
		var p *int
		Expect(func() { DescribeValue(p) }).To(Panic())
	})
})

var _ = Describe("WireType", func() {
	It("should size the platform word types by the platform word", func() {
		Expect(WireInt.Size()).To(Equal(WireUint.Size()))
		Expect(WireInt.Size()).To(BeNumerically(">=", 4))
	})

	It("should size the fixed types by their width", func() {
		Expect(WireInt8.Size()).To(Equal(1))
		Expect(WireFloat32.Size()).To(Equal(4))
		Expect(WireComplex128.Size()).To(Equal(16))
	})

	It("should panic when sizing an invalid type", func() {
		Expect(func() { WireInvalid.Size() }).To(Panic())
	})
})
