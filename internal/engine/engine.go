/*
Package engine drives a name-server under test. It owns the UDP socket, the input stream, the
in-flight table and the run configuration, and runs the single-goroutine admit/expire/drain loop:

	for keepSending() || outstanding > 0 {
	        while keepSending() && outstanding < limit { admit next input line }
	        retire timed-out queries
	        drain responses
	}

Interleaving between sending and receiving comes from the bounded blocking poll in
processResponses, not from concurrency - there is exactly one goroutine and no locks. Expirations
are always checked before responses are drained so a response that arrives after its query expired
is reported as a stray, never as a completion.
*/
package engine

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/markdingo/queryflood/internal/constants"
	"github.com/markdingo/queryflood/internal/flight"
	"github.com/markdingo/queryflood/internal/osutil"
	"github.com/markdingo/queryflood/internal/qinput"
	"github.com/markdingo/queryflood/internal/reporter"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/ratelimit"
)

var consts = constants.Get()

// maxResponseSize is the largest datagram accepted off the socket. Only the first two bytes are
// ever examined but the whole response has to land somewhere.
const maxResponseSize = 8192

// Config carries the tunable options into New. The *SetByCommandLine fields record which options
// the command line set explicitly; an in-stream directive for such an option is rejected while the
// run is still in its setup phase.
type Config struct {
	Server           string        // Hostname or address of the server under test
	Port             uint          // UDP port on the server
	MaxOutstanding   uint          // In-flight query ceiling
	QueryTimeout     time.Duration // Per-query expiry
	IgnoreDirectives bool          // Ignore in-stream configuration changes entirely
	RunOnce          bool          // One pass through the input
	TimeLimit        time.Duration // Overall run limit - zero means unlimited
	QueriesPerSecond uint          // Admission pacing - zero means unlimited
	SocketBufferKB   uint          // Send and receive buffer sizes

	ServerSetByCommandLine         bool
	PortSetByCommandLine           bool
	MaxOutstandingSetByCommandLine bool
	TimeoutSetByCommandLine        bool
}

// Engine owns all run state. Construct with New, drive with Run, then collect Snapshot. None of
// the state is shared: every field is owned by the goroutine calling Run.
type Engine struct {
	cfg Config
	out io.Writer
	err io.Writer

	conn    *net.UDPConn
	raddr   *net.UDPAddr
	server  string // Current server name, tracked so a no-op directive skips re-resolution
	input   *qinput.Stream
	table   *flight.Table
	limiter ratelimit.Limiter
	latency *hdrhistogram.Histogram

	sig       chan os.Signal
	reporters []reporter.Reporter

	setupPhase bool
	stopped    bool
	eofSeen    bool

	nextID          uint16
	sent            int
	timedOut        int
	runsThroughFile int

	programStart time.Time
	firstQuery   time.Time
	endOfRun     time.Time

	recvBuf []byte
}

// New resolves the target server, opens the query socket and prepares the engine. Any error here
// is a setup failure: the caller should report it and exit non-zero without starting the run.
// sig may be nil when no signal handling is wanted (tests mostly).
func New(cfg Config, input *qinput.Stream, sig chan os.Signal, out, errW io.Writer) (*Engine, error) {
	e := &Engine{
		cfg:          cfg,
		out:          out,
		err:          errW,
		input:        input,
		sig:          sig,
		table:        flight.New(int(cfg.MaxOutstanding)),
		setupPhase:   true,
		programStart: time.Now(),
		recvBuf:      make([]byte, maxResponseSize),
	}

	if err := e.setServer(cfg.Server); err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP(consts.DNSUDPTransport, nil) // Ephemeral local port
	if err != nil {
		return nil, fmt.Errorf("cannot open query socket: %w", err)
	}
	e.conn = conn

	bufSize := int(cfg.SocketBufferKB) * 1024
	if err := conn.SetReadBuffer(bufSize); err != nil {
		fmt.Fprintln(e.err, "Warning: could not set socket receive buffer:", err)
	}
	if err := conn.SetWriteBuffer(bufSize); err != nil {
		fmt.Fprintln(e.err, "Warning: could not set socket send buffer:", err)
	}

	if cfg.QueriesPerSecond > 0 {
		e.limiter = ratelimit.New(int(cfg.QueriesPerSecond))
	} else {
		e.limiter = ratelimit.NewUnlimited()
	}

	// Latencies recorded in microseconds; an hour comfortably exceeds any plausible timeout
	e.latency = hdrhistogram.New(1, time.Hour.Microseconds(), 3)

	e.reporters = []reporter.Reporter{e, e.table}

	return e, nil
}

// Close releases the query socket. The input stream belongs to the caller.
func (e *Engine) Close() error {
	if e.conn == nil {
		return nil
	}

	return e.conn.Close()
}

// Run executes the load-generation loop until admission has stopped and no queries remain
// outstanding, then stamps the end-of-run time. Per-query failures never abort the run.
func (e *Engine) Run() {
	for e.keepSending() || e.table.Outstanding() > 0 {
		for e.keepSending() && e.table.Outstanding() < e.table.Limit() {
			e.checkSignals()
			if e.stopped {
				break
			}
			line := e.input.NextLine()
			switch line.Kind {
			case qinput.EOF:
				e.eofSeen = true
			case qinput.Directive:
				e.applyDirective(line.Text)
			case qinput.Query:
				e.sendQuery(line.Text)
			}
		}

		e.retireOldQueries()
		e.processResponses()
		e.checkSignals()
	}

	e.endOfRun = time.Now()
}

// keepSending says whether the loop should admit more queries. Once it returns false due to EOF,
// the time limit or a stop signal, it latches and never returns true again.
//
// Side effect: at EOF, when the input is to be iterated multiple times and the time limit has not
// passed, the input is rewound and the run-through counter advances.
func (e *Engine) keepSending() bool {
	if e.stopped {
		return false
	}

	limited := e.timeLimitReached()
	if !e.eofSeen && !limited {
		return true
	}

	if e.eofSeen && !e.cfg.RunOnce && !limited {
		if err := e.input.Rewind(); err == nil {
			e.eofSeen = false
			e.runsThroughFile++
			return true
		}
		fmt.Fprintln(e.err, "Warning: cannot rewind input:", e.input.Name())
	}

	if e.eofSeen {
		e.runsThroughFile++
	}
	e.stopped = true

	return false
}

// timeLimitReached compares elapsed run time against the configured limit. During the setup phase
// the limit is measured from program start and padded with a grace period so a stuck setup still
// bounds total runtime; once queries are flowing the limit applies exactly, measured from the
// first query.
func (e *Engine) timeLimitReached() bool {
	if e.cfg.TimeLimit == 0 {
		return false
	}

	now := time.Now()
	if e.setupPhase {
		return now.Sub(e.programStart) >= e.cfg.TimeLimit+consts.HardTimeoutExtra
	}

	return now.Sub(e.firstQuery) >= e.cfg.TimeLimit
}

// checkSignals polls the signal channel without blocking. A report signal produces an interim
// status report; anything else stops admission - outstanding queries still drain normally.
func (e *Engine) checkSignals() {
	select {
	case s := <-e.sig:
		if osutil.IsReportSignal(s) {
			e.interimReport()
			break
		}
		fmt.Fprintln(e.out, "\nSignal", s)
		e.stopped = true
	default:
	}
}

// interimReport prints one prefixed line per reporter.
func (e *Engine) interimReport() {
	for _, r := range e.reporters {
		for _, line := range strings.Split(r.Report(false), "\n") {
			if len(line) > 0 {
				fmt.Fprintf(e.out, "Status %s: %s\n", r.Name(), line)
			}
		}
	}
}

// Stats is a snapshot of the engine's accounting, normally taken after Run returns.
type Stats struct {
	Sent        int
	Completed   int
	TimedOut    int
	Outstanding int

	RunsThroughFile int

	ProgramStart time.Time
	FirstQuery   time.Time
	EndOfRun     time.Time

	Latency *hdrhistogram.Histogram // Microsecond latencies of completed queries
}

// Snapshot returns the current accounting. Completed is derived: every sent query is either
// completed, timed out or still outstanding.
func (e *Engine) Snapshot() Stats {
	outstanding := e.table.Outstanding()

	return Stats{
		Sent:            e.sent,
		Completed:       e.sent - e.timedOut - outstanding,
		TimedOut:        e.timedOut,
		Outstanding:     outstanding,
		RunsThroughFile: e.runsThroughFile,
		ProgramStart:    e.programStart,
		FirstQuery:      e.firstQuery,
		EndOfRun:        e.endOfRun,
		Latency:         e.latency,
	}
}

// Name is part of the reporter.Reporter interface.
func (e *Engine) Name() string {
	return "Engine"
}

// Report is part of the reporter.Reporter interface. The engine's counters are cumulative for the
// whole run so resetCounters is ignored.
func (e *Engine) Report(resetCounters bool) string {
	st := e.Snapshot()

	return fmt.Sprintf("sent=%d completed=%d lost=%d outstanding=%d runs=%d",
		st.Sent, st.Completed, st.TimedOut, st.Outstanding, st.RunsThroughFile)
}
