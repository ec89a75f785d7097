package tracing

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tsubame/datarecording"
)

// testTimeTeller reports whatever time the test sets.
type testTimeTeller struct {
	currentTime TimeInSec
}

func (t *testTimeTeller) CurrentTime() TimeInSec {
	return t.currentTime
}

func (t *testTimeTeller) SetCurrentTime(time TimeInSec) {
	t.currentTime = time
}

var _ = Describe("DBTracer", func() {
	var (
		timeTeller   *testTimeTeller
		dataRecorder datarecording.DataRecorder
		dbFile       string
		tracer       *DBTracer
	)

	BeforeEach(func() {
		timeTeller = &testTimeTeller{}

		path := filepath.Join(GinkgoT().TempDir(), "trace_test")
		dbFile = path + ".sqlite3"
		dataRecorder = datarecording.NewDataRecorder(path)

		tracer = NewDBTracer(timeTeller, dataRecorder)
	})

	AfterEach(func() {
		dataRecorder.Close()
	})

	It("should reject tasks missing required fields", func() {
		Expect(func() {
			tracer.StartTask(Task{Kind: "send", What: "w", Where: "rank-0"})
		}).To(Panic())

		Expect(func() {
			tracer.StartTask(Task{ID: "1", What: "w", Where: "rank-0"})
		}).To(Panic())

		Expect(func() {
			tracer.StartTask(Task{ID: "1", Kind: "send", Where: "rank-0"})
		}).To(Panic())

		Expect(func() {
			tracer.StartTask(Task{ID: "1", Kind: "send", What: "w"})
		}).To(Panic())
	})

	It("should write one row per completed task", func() {
		task := Task{ID: "t1", Kind: "send", What: "int x1", Where: "rank-0"}

		timeTeller.SetCurrentTime(100.0)
		tracer.StartTask(task)

		timeTeller.SetCurrentTime(250.0)
		tracer.EndTask(Task{ID: "t1"})

		dataRecorder.Flush()

		reader := datarecording.NewReader(dbFile)
		defer reader.Close()
		reader.MapTable("trace", taskTableEntry{})

		results, total, err := reader.Query(
			context.Background(), "trace", datarecording.QueryParams{})

		Expect(err).To(BeNil())
		Expect(total).To(Equal(1))

		row := results[0].(*taskTableEntry)
		Expect(row.ID).To(Equal("t1"))
		Expect(row.Kind).To(Equal("send"))
		Expect(row.Location).To(Equal("rank-0"))
		Expect(row.StartTime).To(Equal(100.0))
		Expect(row.EndTime).To(Equal(250.0))
	})

	It("should ignore completions it never saw start", func() {
		tracer.EndTask(Task{ID: "ghost"})

		Expect(tracer.tracingTasks).To(BeEmpty())
	})

	It("should track tasks until they end", func() {
		tracer.StartTask(Task{ID: "t1", Kind: "k", What: "w", Where: "l"})

		Expect(tracer.tracingTasks).To(HaveKey("t1"))

		tracer.EndTask(Task{ID: "t1"})

		Expect(tracer.tracingTasks).To(BeEmpty())
	})

	It("should drop in-flight tasks on terminate", func() {
		tracer.StartTask(Task{ID: "t1", Kind: "k", What: "w", Where: "l"})

		tracer.Terminate()

		Expect(tracer.tracingTasks).To(BeNil())
	})
})
