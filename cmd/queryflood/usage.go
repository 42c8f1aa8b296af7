package main

import (
	"fmt"
	"io"
	"text/template"
)

// The "flag" package is not tty aware so we've arbitrarily picked 100 columns as a conservative tty
// width for the usage output.

const usageMessageTemplate = `
NAME
          {{.FloodProgramName}} -- a DNS query load generator

SYNOPSIS
          {{.FloodProgramName}} [options]

DESCRIPTION
          {{.FloodProgramName}} drives a single name-server with UDP DNS queries read from a data
          file (or stdin), keeping a bounded number of queries outstanding, correlating
          responses back to queries by transaction id and expiring queries which go
          unanswered for too long. At the end of the run it reports aggregate throughput
          and loss statistics.

          Responses are not validated beyond their transaction id - this is a load
          generator, not a conformance tester. There is no retransmission and no TCP
          fallback.

          Each significant input line holds one query as "domain qtype", e.g:

            example.com A
            example.net MX

          Blank lines and lines starting with ';' are skipped. Lines starting with '#'
          are in-stream configuration directives of the form "# name value" where name is
          one of server, port, maxqueries or maxwait. Before the first query is sent a
          directive is rejected when the same option was set on the command line, and all
          directives are ignored under -n.

EXAMPLES
          One pass over a query file against a resolver on localhost:

            $ {{.FloodProgramName}} -d queries.txt -1

          Thirty seconds of sustained load, 100 queries in flight, capped at 5000 qps:

            $ {{.FloodProgramName}} -d queries.txt -s ns1.example.net -l 30 -q 100 -Q 5000

OPTIONS
          [-1hnv] [-d datafile] [-s server] [-p port] [-q max-outstanding]

          [-t timeout] [-l limit] [-b bufsize] [-Q rate]

          [--gops] [--cpu-profile file] [--mem-profile file]

          [--version]
`

//////////////////////////////////////////////////////////////////////

func usage(out io.Writer) {
	tmpl, err := template.New("usage").Parse(usageMessageTemplate)
	if err != nil {
		panic(err) // We've messed up our template
	}
	err = tmpl.Execute(out, consts)
	if err != nil {
		panic(err) // We've messed up our template
	}
	flagSet.SetOutput(out)
	flagSet.PrintDefaults()
	fmt.Fprintln(out, "\nVersion:", consts.Version)
}

// parseCommandLine sets up the flags-to-config mapping and parses the supplied command line
// arguments. It starts from scratch each time to make it easier for test wrappers to use.
func parseCommandLine(args []string) error {
	flagSet.BoolVar(&cfg.help, "h", false, "Print usage message to Stdout then exit(0)")
	flagSet.BoolVar(&cfg.version, "version", false, "Print version and exit")
	flagSet.BoolVar(&cfg.verbose, "v", false, "Verbose startup output")

	flagSet.StringVar(&cfg.datafile, "d", "", "Input data `file` (default stdin)")
	flagSet.StringVar(&cfg.server, "s", consts.DefaultServer, "DNS `server` to query")
	flagSet.UintVar(&cfg.port, "p", 53, "UDP `port` on which to query the server")
	flagSet.UintVar(&cfg.maxOutstanding, "q", consts.DefaultMaxOutstanding,
		"Maximum `number` of queries outstanding")
	flagSet.UintVar(&cfg.timeout, "t", consts.DefaultQueryTimeout,
		"Query completion timeout in `seconds`")
	flagSet.BoolVar(&cfg.ignoreDirectives, "n", false, "Ignore in-stream configuration changes")
	flagSet.UintVar(&cfg.timeLimit, "l", 0, "Overall run time `limit` in seconds")
	flagSet.BoolVar(&cfg.runOnce, "1", false,
		"Run through the input only once (default: multiple iff -l given)")
	flagSet.UintVar(&cfg.bufferKB, "b", consts.DefaultBufferSize, "Socket buffer size in `kilobytes`")
	flagSet.UintVar(&cfg.qps, "Q", 0, "Maximum queries per second admitted (default unlimited)")

	// gops and go pprof settings
	flagSet.BoolVar(&cfg.gops, "gops", false, "Start github.com/google/gops agent")
	flagSet.StringVar(&cfg.cpuprofile, "cpu-profile", "", "Write CPU profile to `file`")
	flagSet.StringVar(&cfg.memprofile, "mem-profile", "", "Write memory profile to `file`")

	return flagSet.Parse(args[1:])
}
