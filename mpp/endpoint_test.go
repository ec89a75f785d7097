package mpp

import (
	"errors"
	"unsafe"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/tsubame/hooking"
)

type hookRecorder struct {
	ctxs []hooking.HookCtx
}

func (r *hookRecorder) Func(ctx hooking.HookCtx) {
	r.ctxs = append(r.ctxs, ctx)
}

var _ = Describe("Endpoint", func() {
	var (
		mockCtrl  *gomock.Controller
		substrate *MockSubstrate
		comm      *Communicator
		recorder  *hookRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		substrate = NewMockSubstrate(mockCtrl)
		substrate.EXPECT().Initialized().Return(true).AnyTimes()
		substrate.EXPECT().GroupRank(gomock.Any()).Return(0).AnyTimes()
		substrate.EXPECT().GroupSize(gomock.Any()).Return(4).AnyTimes()

		comm = NewCommunicator(substrate, nil)
		recorder = &hookRecorder{}
		comm.AcceptHook(recorder)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should send through the substrate", func() {
		v := []int32{1, 2, 3}
		m := NewMsg(&v, 9)

		substrate.EXPECT().
			Send(m.Addr(), 3, PlainType(WireInt32), 2, 9, nil).
			Return(nil)

		err := comm.Peer(2).Send(m)

		Expect(err).To(BeNil())
	})

	It("should raise transfer hooks around a send", func() {
		v := 4.2
		m := NewMsg(&v, 1)

		substrate.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		comm.Peer(3).Send(m)

		Expect(recorder.ctxs).To(HaveLen(2))
		Expect(recorder.ctxs[0].Pos).To(BeIdenticalTo(HookPosTransferStart))
		Expect(recorder.ctxs[1].Pos).To(BeIdenticalTo(HookPosTransferDone))

		tr := recorder.ctxs[0].Item.(Transfer)
		Expect(tr.ID).NotTo(BeEmpty())
		Expect(tr.Kind).To(Equal(KindSend))
		Expect(tr.Local).To(Equal(0))
		Expect(tr.Peer).To(Equal(3))
		Expect(tr.Tag).To(Equal(1))
		Expect(tr.Count).To(Equal(1))

		Expect(recorder.ctxs[1].Detail).To(BeNil())
	})

	It("should wrap a failed send", func() {
		v := 1
		cause := errors.New("link down")

		substrate.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cause)

		err := comm.Peer(3).Send(NewMsg(&v, 0))

		var terr *TransferError
		Expect(errors.As(err, &terr)).To(BeTrue())
		Expect(terr.Kind).To(Equal(KindSend))
		Expect(terr.Peer).To(Equal(3))
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(Equal(
			"rank 0: failed to send message to destination rank 3: link down"))

		Expect(recorder.ctxs[1].Detail).To(Equal(err))
	})

	It("should send an owned copy through the generic helper", func() {
		substrate.EXPECT().
			Send(gomock.Any(), 1, PlainType(WireInt), 1, 5, nil).
			DoAndReturn(func(addr unsafe.Pointer, _ int, _ Datatype,
				_, _ int, _ Group) error {
				Expect(*(*int)(addr)).To(Equal(42))
				return nil
			})

		err := Send(comm.Peer(1), 42, 5)

		Expect(err).To(BeNil())
	})

	It("should receive and rebind the source", func() {
		var v float64

		substrate.EXPECT().
			Recv(unsafe.Pointer(&v), 1, PlainType(WireFloat64), 2, 7, nil).
			Return(Completion{Source: 2, Tag: 7, Bytes: 8}, nil)

		status, err := comm.Peer(2).Recv(NewMsg(&v, 7))

		Expect(err).To(BeNil())
		Expect(status.Source().Rank()).To(Equal(2))
		Expect(status.Tag()).To(Equal(7))
	})

	It("should pass the wildcard source through", func() {
		var v int

		substrate.EXPECT().
			Recv(gomock.Any(), gomock.Any(), gomock.Any(),
				AnySource, gomock.Any(), gomock.Any()).
			Return(Completion{Source: 3}, nil)

		status, err := Recv(comm.Peer(AnySource), &v, 0)

		Expect(err).To(BeNil())
		Expect(status.Source().Rank()).To(Equal(3))
	})

	It("should wrap a failed receive", func() {
		var v int
		cause := errors.New("truncated")

		substrate.EXPECT().
			Recv(gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any()).
			Return(Completion{}, cause)

		_, err := Recv(comm.Peer(AnySource), &v, 0)

		Expect(err.Error()).To(Equal(
			"rank 0: failed to receive message from any source: truncated"))
	})

	It("should fail synchronously when a post is rejected", func() {
		var v int
		cause := errors.New("no slots")

		substrate.EXPECT().
			PostRecv(gomock.Any(), gomock.Any(), gomock.Any(),
				1, 3, gomock.Any()).
			Return(nil, cause)

		req, err := RecvAsync(comm.Peer(1), &v, 3)

		Expect(req).To(BeNil())

		var perr *PostError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(Equal(
			"rank 0: failed to post receive from source rank 1: no slots"))

		Expect(recorder.ctxs).To(HaveLen(2))
		Expect(recorder.ctxs[1].Pos).To(BeIdenticalTo(HookPosTransferDone))
		Expect(recorder.ctxs[1].Detail).To(Equal(err))
	})
})
