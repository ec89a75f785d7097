package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// A runInfo row describes one property of the recorded run.
type runInfo struct {
	Property string
	Value    string
}

// runRecorder logs how the recording run was launched and when it ended.
type runRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []runInfo
}

func newRunRecorder(recorder DataRecorder) *runRecorder {
	r := &runRecorder{
		tableName: "run_info",
		recorder:  recorder,
	}

	r.recorder.CreateTable(r.tableName, runInfo{})

	return r
}

// start captures launch time, command line, and working directory.
func (r *runRecorder) start() {
	startTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	r.entries = append(r.entries, runInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	r.entries = append(r.entries, runInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	r.entries = append(r.entries, runInfo{"Working Directory", filepath.Dir(ex)})
}

// end writes the collected properties together with the end time.
func (r *runRecorder) end() {
	for _, entry := range r.entries {
		r.recorder.InsertData(r.tableName, entry)
	}

	endTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	r.recorder.InsertData(r.tableName, runInfo{"End Time", endTime})

	r.entries = nil

	r.recorder.Flush()
}
