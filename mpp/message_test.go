package mpp

import (
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Msg", func() {
	It("should borrow the wrapped value", func() {
		v := []int32{1, 2, 3}
		m := NewMsg(&v, 5)

		Expect(m.Value()).To(BeIdenticalTo(&v))
		Expect(m.Tag()).To(Equal(5))
		Expect(m.Addr()).To(Equal(unsafe.Pointer(&v[0])))
		Expect(m.Count()).To(Equal(3))
		Expect(m.Type().Wire()).To(Equal(WireInt32))
	})

	It("should panic when wrapping a nil value", func() {
		Expect(func() { NewMsg[int](nil, 0) }).To(Panic())
	})

	It("should derive the descriptor once and reuse it", func() {
		v := []int64{1, 2}
		m := NewMsg(&v, 0)

		first := m.Addr()

		v = append(v, 3)

		Expect(m.Addr()).To(Equal(first))
		Expect(m.Count()).To(Equal(2))
	})

	It("should give a value message its own copy", func() {
		v := 10
		m := NewValMsg(v, 1)

		v = 99

		Expect(*m.Value()).To(Equal(10))
		Expect(m.Addr()).NotTo(Equal(unsafe.Pointer(&v)))
	})

	It("should describe an empty sequence with a zero count", func() {
		var v []float64
		m := NewMsg(&v, 0)

		Expect(m.Count()).To(Equal(0))
		Expect(m.Addr()).To(BeNil())
		Expect(m.Type().Wire()).To(Equal(WireFloat64))
	})
})
