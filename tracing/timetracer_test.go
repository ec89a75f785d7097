package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TotalTimeTracer", func() {
	var (
		timeTeller *testTimeTeller
		tracer     *TotalTimeTracer
	)

	BeforeEach(func() {
		timeTeller = &testTimeTeller{}
		tracer = NewTotalTimeTracer(timeTeller, KindFilter("send"))
	})

	It("should accumulate the time of filtered tasks", func() {
		timeTeller.SetCurrentTime(1.0)
		tracer.StartTask(Task{ID: "a", Kind: "send"})

		timeTeller.SetCurrentTime(3.0)
		tracer.EndTask(Task{ID: "a"})

		timeTeller.SetCurrentTime(10.0)
		tracer.StartTask(Task{ID: "b", Kind: "send"})

		timeTeller.SetCurrentTime(10.5)
		tracer.EndTask(Task{ID: "b"})

		Expect(tracer.TotalTime()).To(Equal(TimeInSec(2.5)))
	})

	It("should skip tasks the filter rejects", func() {
		timeTeller.SetCurrentTime(1.0)
		tracer.StartTask(Task{ID: "a", Kind: "recv"})

		timeTeller.SetCurrentTime(5.0)
		tracer.EndTask(Task{ID: "a"})

		Expect(tracer.TotalTime()).To(Equal(TimeInSec(0)))
	})

	It("should ignore ends without a matching start", func() {
		timeTeller.SetCurrentTime(4.0)
		tracer.EndTask(Task{ID: "ghost"})

		Expect(tracer.TotalTime()).To(Equal(TimeInSec(0)))
	})
})

var _ = Describe("AverageTimeTracer", func() {
	var (
		timeTeller *testTimeTeller
		tracer     *AverageTimeTracer
	)

	BeforeEach(func() {
		timeTeller = &testTimeTeller{}
		tracer = NewAverageTimeTracer(timeTeller, AllTasks)
	})

	It("should report zero with no completed tasks", func() {
		Expect(tracer.AverageTime()).To(Equal(TimeInSec(0)))
		Expect(tracer.TaskCount()).To(Equal(uint64(0)))
	})

	It("should average the completed task durations", func() {
		timeTeller.SetCurrentTime(0.0)
		tracer.StartTask(Task{ID: "a", Kind: "send"})

		timeTeller.SetCurrentTime(2.0)
		tracer.EndTask(Task{ID: "a"})

		timeTeller.SetCurrentTime(10.0)
		tracer.StartTask(Task{ID: "b", Kind: "recv"})

		timeTeller.SetCurrentTime(14.0)
		tracer.EndTask(Task{ID: "b"})

		Expect(tracer.TaskCount()).To(Equal(uint64(2)))
		Expect(tracer.AverageTime()).To(Equal(TimeInSec(3.0)))
	})
})
