// Package monitoring serves the state of a test run over HTTP, which helps
// when a long run drives real hardware.
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
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/microcotb/instrumentation/hooking"
	"github.com/sarchlab/microcotb/runner"
	"github.com/sarchlab/microcotb/sched"
	"github.com/sarchlab/microcotb/timing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// A StatusSource reports the progress of a run. *runner.Runner implements
// it.
type StatusSource interface {
	Status() runner.Status
}

// Monitor turns a test run into a small web server.
type Monitor struct {
	source          StatusSource
	portNumber      int
	openBrowser     bool
	profileDuration time.Duration

	nowLock sync.Mutex
	now     timing.TimeValue

	progress *progress
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		now:             timing.Zero(timing.NS),
		progress:        &progress{},
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithOpenBrowser makes StartServer open the monitor in a browser.
func (m *Monitor) WithOpenBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterRunner follows the runner's progress. Pass the *runner.Runner; its
// hooks keep the progress counts current.
func (m *Monitor) RegisterRunner(r interface {
	StatusSource
	hooking.Hookable
}) {
	m.source = r
	r.AcceptHook(m)
}

// RegisterContext samples the virtual time of ctx after every advance.
func (m *Monitor) RegisterContext(ctx *sched.Context) {
	ctx.AcceptHook(m)
}

// Func receives hooks from the runner and the scheduling context.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case sched.HookPosAfterAdvance:
		m.setNow(ctx.Item.(timing.TimeValue))
	case sched.HookPosReset:
		m.setNow(timing.Zero(timing.NS))
	case runner.HookPosTestStart:
		m.progress.testStarted()
	case runner.HookPosTestEnd:
		res := ctx.Item.(runner.Result)
		m.progress.testFinished(res.Outcome != runner.Skipped)
	}
}

func (m *Monitor) setNow(now timing.TimeValue) {
	m.nowLock.Lock()
	defer m.nowLock.Unlock()

	m.now = now
}

// Now returns the last virtual time seen.
func (m *Monitor) Now() timing.TimeValue {
	m.nowLock.Lock()
	defer m.nowLock.Unlock()

	return m.now
}

// Router returns the HTTP handler of the monitor.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.nowHandler)
	r.HandleFunc("/api/tests", m.listTests)
	r.HandleFunc("/api/test/{name}", m.testDetails)
	r.HandleFunc("/api/progress", m.listProgress)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer starts serving in the background and returns the URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring tests with %s\n", url)

	go func() {
		err := http.Serve(listener, m.Router())
		dieOnErr(err)
	}()

	if m.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}

	return url
}

type nowRsp struct {
	Now  float64 `json:"now"`
	Unit string  `json:"unit"`
}

func (m *Monitor) nowHandler(w http.ResponseWriter, _ *http.Request) {
	now := m.Now()
	writeJSON(w, nowRsp{Now: now.Magnitude(), Unit: now.Unit().String()})
}

type testRsp struct {
	Name      string  `json:"name"`
	Stage     int     `json:"stage"`
	Outcome   string  `json:"outcome"`
	Message   string  `json:"message,omitempty"`
	SimTimeNS float64 `json:"sim_time_ns"`
}

type statusRsp struct {
	Running   string    `json:"running"`
	Total     int       `json:"total"`
	Completed []testRsp `json:"completed"`
}

func (m *Monitor) status() runner.Status {
	if m.source == nil {
		return runner.Status{}
	}

	return m.source.Status()
}

func (m *Monitor) listTests(w http.ResponseWriter, _ *http.Request) {
	st := m.status()

	rsp := statusRsp{
		Running:   st.Running,
		Total:     st.Total,
		Completed: make([]testRsp, 0, len(st.Completed)),
	}

	for _, res := range st.Completed {
		rsp.Completed = append(rsp.Completed, testRsp{
			Name:      res.Name,
			Stage:     res.Stage,
			Outcome:   res.Outcome.String(),
			Message:   res.FailureMessage,
			SimTimeNS: res.SimTime.In(timing.NS),
		})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) testDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	res, found := m.findResult(name)
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Test not found"))
		dieOnErr(err)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(res)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findResult(name string) (*runner.Result, bool) {
	st := m.status()

	for i := range st.Completed {
		if st.Completed[i].Name == name {
			return &st.Completed[i], true
		}
	}

	return nil, false
}

func (m *Monitor) listProgress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.progress.snapshot(m.status().Total))
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

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
