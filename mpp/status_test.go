package mpp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("Status", func() {
	var (
		mockCtrl  *gomock.Controller
		substrate *MockSubstrate
		comm      *Communicator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		substrate = NewMockSubstrate(mockCtrl)
		comm = NewCommunicator(substrate, nil)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should expose the completion record", func() {
		rec := Completion{Source: 3, Tag: 9, Code: 1}
		status := newStatus(comm, rec, PlainType(WireInt32))

		Expect(status.Source().Rank()).To(Equal(3))
		Expect(status.Tag()).To(Equal(9))
		Expect(status.ErrorCode()).To(Equal(1))
	})

	It("should derive the count on every call", func() {
		rec := Completion{Source: 1, Bytes: 16}
		dt := PlainType(WireInt32)
		status := newStatus(comm, rec, dt)

		substrate.EXPECT().ReceivedCount(rec, dt).Return(4).Times(2)

		Expect(status.Count()).To(Equal(4))
		Expect(status.Count()).To(Equal(4))
	})
})
