// Drive a name-server under test with a stream of UDP DNS queries
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/markdingo/queryflood/internal/constants"
	"github.com/markdingo/queryflood/internal/engine"
	"github.com/markdingo/queryflood/internal/osutil"
	"github.com/markdingo/queryflood/internal/qinput"

	"github.com/google/gops/agent"
)

// Program-wide variables
var (
	consts = constants.Get()
	cfg    *config

	stdout io.Writer // All I/O goes via these writers
	stderr io.Writer

	stopChannel chan os.Signal
	flagSet     *flag.FlagSet
)

//////////////////////////////////////////////////////////////////////

func fatal(args ...interface{}) int {
	fmt.Fprint(stderr, "Fatal: ", consts.FloodProgramName, ": ")
	fmt.Fprintln(stderr, args...)

	return 1
}

func stopMain() {
	stopChannel <- os.Interrupt
}

//////////////////////////////////////////////////////////////////////
// main wrappers make it easy for test programs
//////////////////////////////////////////////////////////////////////

// mainInit resets everything such that mainExecute() can be called multiple times in one program
// execution. stopChannel is buffered as the reader may disappear if there is a fatal error and
// multiple writers may try and write to the channel and we don't want those writers to stall
// forever.
func mainInit(out io.Writer, err io.Writer) {
	cfg = &config{}
	stdout = out
	stderr = err
	stopChannel = make(chan os.Signal, 4) // All reasonable signals cause us to stop or report
	osutil.SignalNotify(stopChannel)
}

func main() {
	mainInit(os.Stdout, os.Stderr)
	os.Exit(mainExecute(os.Args))
}

func mainExecute(args []string) int {
	flagSet = flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	err := parseCommandLine(args)
	if err != nil {
		return 1 // Error already printed by the flag package
	}
	if cfg.help {
		usage(stdout)
		return 0
	}
	if cfg.version {
		fmt.Fprintln(stdout, consts.FloodProgramName, "Version:", consts.Version)
		return 0
	}

	// Track which options arrived on the command line. In-stream directives may not override
	// them before the first query is sent, and -l needs "absent" distinguished from "zero".

	var limitSet bool
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			cfg.serverSet = true
		case "p":
			cfg.portSet = true
		case "q":
			cfg.queriesSet = true
		case "t":
			cfg.timeoutSet = true
		case "l":
			limitSet = true
		}
	})

	// Validate option values

	if cfg.port == 0 || cfg.port >= consts.MaxPort {
		return fatal("Server port (-p) must be between 1 and", consts.MaxPort-1, "not", cfg.port)
	}
	if cfg.maxOutstanding == 0 {
		return fatal("Maximum outstanding queries (-q) must be GT zero")
	}
	if cfg.timeout == 0 {
		return fatal("Query timeout (-t) must be GT zero")
	}
	if cfg.bufferKB == 0 {
		return fatal("Socket buffer size (-b) must be GT zero")
	}
	if limitSet && cfg.timeLimit == 0 {
		return fatal("Run time limit (-l) must be GT zero")
	}

	// Make sure there is no residual goop on the command line

	if flagSet.NArg() > 0 {
		return fatal("Don't know what to do with residual goop on command line:", flagSet.Arg(0))
	}

	if !cfg.runOnce && !limitSet {
		cfg.runOnce = true // Neither -1 nor -l means a single pass through the input
	}

	// gops and go pprof diagnostics

	if cfg.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fatal(err)
		}
		defer agent.Close()
	}

	if len(cfg.cpuprofile) > 0 {
		f, err := os.Create(cfg.cpuprofile)
		if err != nil {
			return fatal(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	var memProfileFile *os.File
	if len(cfg.memprofile) > 0 {
		memProfileFile, err = os.Create(cfg.memprofile)
		if err != nil {
			return fatal(err)
		}
		defer memProfileFile.Close()
	}

	fmt.Fprintln(stdout, consts.PackageName, consts.Version)

	// Open the input and construct the engine. Any failure from here back is a setup failure
	// and the run never starts.

	input, err := qinput.Open(cfg.datafile)
	if err != nil {
		return fatal("Unable to open datafile:", err)
	}
	defer input.Close()

	eng, err := engine.New(engine.Config{
		Server:           cfg.server,
		Port:             cfg.port,
		MaxOutstanding:   cfg.maxOutstanding,
		QueryTimeout:     time.Duration(cfg.timeout) * time.Second,
		IgnoreDirectives: cfg.ignoreDirectives,
		RunOnce:          cfg.runOnce,
		TimeLimit:        time.Duration(cfg.timeLimit) * time.Second,
		QueriesPerSecond: cfg.qps,
		SocketBufferKB:   cfg.bufferKB,

		ServerSetByCommandLine:         cfg.serverSet,
		PortSetByCommandLine:           cfg.portSet,
		MaxOutstandingSetByCommandLine: cfg.queriesSet,
		TimeoutSetByCommandLine:        cfg.timeoutSet,
	}, input, stopChannel, stdout, stderr)
	if err != nil {
		return fatal(err)
	}
	defer eng.Close()

	if cfg.verbose {
		fmt.Fprintln(stdout, consts.FloodProgramName, consts.Version, "Starting:",
			cfg.server, "port", cfg.port, "input", input.Name())
	}

	fmt.Fprintln(stdout, "[Status] Processing input data")
	eng.Run()
	fmt.Fprintln(stdout, "[Status] Testing complete")

	printStatistics(stdout, cfg, eng.Snapshot())

	// Memory profile is written at the end of the program

	if memProfileFile != nil {
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(memProfileFile); err != nil {
			return fatal(err)
		}
	}

	return 0
}
