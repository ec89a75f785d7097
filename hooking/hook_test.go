package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingHook struct {
	ctxs []HookCtx
}

func (h *countingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("HookableBase", func() {
	var (
		hookable *HookableBase
		pos      *HookPos
	)

	BeforeEach(func() {
		hookable = NewHookableBase()
		pos = &HookPos{Name: "Somewhere"}
	})

	It("should start with no hooks", func() {
		Expect(hookable.NumHooks()).To(Equal(0))
		Expect(hookable.Hooks()).To(BeEmpty())
	})

	It("should register hooks in order", func() {
		hook1 := &countingHook{}
		hook2 := &countingHook{}

		hookable.AcceptHook(hook1)
		hookable.AcceptHook(hook2)

		Expect(hookable.NumHooks()).To(Equal(2))
		Expect(hookable.Hooks()[0]).To(BeIdenticalTo(hook1))
		Expect(hookable.Hooks()[1]).To(BeIdenticalTo(hook2))
	})

	It("should panic when a hook is registered twice", func() {
		hook := &countingHook{}
		hookable.AcceptHook(hook)

		Expect(func() { hookable.AcceptHook(hook) }).To(Panic())
	})

	It("should invoke every hook with the context", func() {
		hook1 := &countingHook{}
		hook2 := &countingHook{}
		hookable.AcceptHook(hook1)
		hookable.AcceptHook(hook2)

		ctx := HookCtx{Pos: pos, Item: "item"}
		hookable.InvokeHook(ctx)

		Expect(hook1.ctxs).To(HaveLen(1))
		Expect(hook2.ctxs).To(HaveLen(1))
		Expect(hook1.ctxs[0].Pos).To(BeIdenticalTo(pos))
		Expect(hook1.ctxs[0].Item).To(Equal("item"))
	})
})
