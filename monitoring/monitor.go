// Package monitoring turns a messaging run into a small web server, so live
// transfer traffic, progress, and process health can be watched from
// outside.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/tsubame/mpp"
)

// Monitor serves a live view of registered communicators: transfer
// counters, progress bars, process resources, and on-demand CPU profiles.
type Monitor struct {
	communicators []*mpp.Communicator
	counters      []*transferCounter
	portNumber    int
	openBrowser   bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserLaunch makes StartServer open the dashboard in the local
// browser.
func (m *Monitor) WithBrowserLaunch() *Monitor {
	m.openBrowser = true

	return m
}

// RegisterCommunicator registers a communicator to be monitored and starts
// counting its transfers.
func (m *Monitor) RegisterCommunicator(c *mpp.Communicator) {
	counter := &transferCounter{}
	c.AcceptHook(counter)

	m.communicators = append(m.communicators, c)
	m.counters = append(m.counters, counter)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        mpp.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server, on the configured port or
// a random free one.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/communicators", m.listCommunicators)
	r.HandleFunc("/api/communicator/{index}", m.listCommunicatorDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/traffic", m.reportTraffic)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/", m.indexPage)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring messaging run with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}
}

func (m *Monitor) indexPage(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `<html><body>
<h1>Tsubame Monitor</h1>
<ul>
<li><a href="/api/communicators">communicators</a></li>
<li><a href="/api/traffic">traffic</a></li>
<li><a href="/api/progress">progress</a></li>
<li><a href="/api/resource">resource</a></li>
<li><a href="/api/profile">profile</a></li>
</ul>
</body></html>`)
}

type communicatorRsp struct {
	Index int `json:"index"`
	Rank  int `json:"rank"`
	Size  int `json:"size"`
}

func (m *Monitor) listCommunicators(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]communicatorRsp, 0, len(m.communicators))
	for i, c := range m.communicators {
		rsp = append(rsp, communicatorRsp{Index: i, Rank: c.Rank(), Size: c.Size()})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listCommunicatorDetails(
	w http.ResponseWriter,
	r *http.Request,
) {
	indexStr := mux.Vars(r)["index"]

	c := m.findCommunicatorOr404(w, indexStr)
	if c == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type fieldReq struct {
	CommIndex int    `json:"comm_index"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	dieOnErr(err)

	c := m.findCommunicatorOr404(w, strconv.Itoa(req.CommIndex))
	if c == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	dieOnErr(err)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) findCommunicatorOr404(
	w http.ResponseWriter,
	indexStr string,
) *mpp.Communicator {
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 || index >= len(m.communicators) {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Communicator not found"))
		dieOnErr(err)

		return nil
	}

	return m.communicators[index]
}

func (m *Monitor) reportTraffic(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]trafficRsp, 0, len(m.counters))
	for i, counter := range m.counters {
		t := counter.snapshot()
		t.Index = i
		rsp = append(rsp, t)
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bytes, err := json.Marshal(m.progressBars)
	m.progressBarsLock.Unlock()
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
