package mpp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("List", func() {
	It("should keep values in insertion order", func() {
		l := NewList(1, 2, 3)
		l.PushBack(4)

		Expect(l.Len()).To(Equal(4))
		Expect(l.Values()).To(Equal([]int{1, 2, 3, 4}))
	})

	It("should describe its nodes as one structured unit", func() {
		l := NewList[int32](10, 20, 30)

		desc := l.TypeDesc()

		Expect(desc.Type.Structured()).To(BeTrue())
		Expect(desc.Count).To(Equal(1))
		Expect(desc.Base).NotTo(BeNil())

		layout := desc.Type.Layout()
		Expect(layout.Counts).To(Equal([]int{1, 1, 1}))
		Expect(layout.Types).To(Equal(
			[]WireType{WireInt32, WireInt32, WireInt32}))
		Expect(layout.Offsets[0]).To(Equal(0))
	})

	It("should count all elements of sequence-valued nodes", func() {
		l := NewList([]float64{1, 2}, []float64{3, 4, 5})

		desc := l.TypeDesc()

		layout := desc.Type.Layout()
		Expect(layout.Counts).To(Equal([]int{2, 3}))
		Expect(desc.Type.UnitBytes()).To(Equal(40))
	})

	It("should skip empty node values", func() {
		l := NewList([]int{}, []int{7}, []int{})

		desc := l.TypeDesc()

		layout := desc.Type.Layout()
		Expect(layout.Counts).To(Equal([]int{1}))
		Expect(layout.Offsets).To(Equal([]int{0}))
	})

	It("should describe an empty list with a zero count", func() {
		l := NewList[float32]()

		desc := l.TypeDesc()

		Expect(desc.Type.Structured()).To(BeFalse())
		Expect(desc.Type.Wire()).To(Equal(WireFloat32))
		Expect(desc.Count).To(Equal(0))
		Expect(desc.Base).To(BeNil())
	})

	It("should panic when a node value is not contiguous", func() {
		l := NewList([][]int{{1}, {2, 3}})

		Expect(func() { l.TypeDesc() }).To(Panic())
	})
})
