// Reply to DNS queries with a minimal matching-id response - a stub target for queryflood
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/markdingo/queryflood/internal/constants"
	"github.com/markdingo/queryflood/internal/osutil"
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

// maxQuerySize is the largest datagram accepted off the socket. Queries from queryflood are never
// bigger than the classic 512 octet limit but strangers may send anything.
const maxQuerySize = 8192

//////////////////////////////////////////////////////////////////////

func fatal(args ...interface{}) int {
	fmt.Fprint(stderr, "Fatal: ", consts.EchoProgramName, ": ")
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
// execution.
func mainInit(out io.Writer, err io.Writer) {
	cfg = &config{}
	stdout = out
	stderr = err
	stopChannel = make(chan os.Signal, 4)
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
		fmt.Fprintln(stdout, consts.EchoProgramName, "Version:", consts.Version)
		return 0
	}

	if cfg.drop > 100 {
		return fatal("Drop percentage (--drop) must be between 0 and 100, not", cfg.drop)
	}

	// Make sure there is no residual goop on the command line

	if flagSet.NArg() > 0 {
		return fatal("Don't know what to do with residual goop on command line:", flagSet.Arg(0))
	}

	addr, err := net.ResolveUDPAddr(consts.DNSUDPTransport, cfg.listenAddress)
	if err != nil {
		return fatal(err)
	}
	conn, err := net.ListenUDP(consts.DNSUDPTransport, addr)
	if err != nil {
		return fatal(err)
	}
	defer conn.Close()

	// Shed any root privileges once the possibly privileged port is open. This is a no-op
	// call if all three options are empty strings.

	err = dropPrivileges(cfg.setuidName, cfg.setgidName, cfg.chrootDir)
	if err != nil {
		return fatal(err)
	}

	if cfg.verbose {
		fmt.Fprintln(stdout, consts.EchoProgramName, consts.Version,
			"listening on", conn.LocalAddr())
		fmt.Fprintln(stdout, "Running as:", runningAs())
	}

	go func() { // Any signal closes the socket which in turn ends serve()
		s := <-stopChannel
		if cfg.verbose {
			fmt.Fprintln(stdout, "\nSignal", s)
		}
		conn.Close()
	}()

	seen, dropped := serve(conn, cfg.drop, cfg.delay)
	fmt.Fprintf(stdout, "%s: %d queries received, %d dropped\n",
		consts.EchoProgramName, seen, dropped)

	return 0
}

// serve echoes every datagram back to its sender with the QR bit set, so the reply carries the
// same transaction id as the query. A drop percentage silently swallows that fraction of queries
// and a delay defers each reply - both exist to exercise timeout and loss accounting in the load
// generator. serve returns when the socket is closed.
func serve(conn *net.UDPConn, drop uint, delay time.Duration) (seen, dropped int) {
	buf := make([]byte, maxQuerySize)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		seen++

		if drop > 0 && uint(rand.Intn(100)) < drop {
			dropped++
			continue
		}

		resp := make([]byte, n)
		copy(resp, buf[:n])
		if n >= 3 {
			resp[2] |= 0x80 // QR - turn the query into a response
		}

		if delay > 0 {
			go func(b []byte, ra *net.UDPAddr) {
				time.Sleep(delay)
				conn.WriteToUDP(b, ra)
			}(resp, raddr)
			continue
		}

		if _, err := conn.WriteToUDP(resp, raddr); err != nil {
			fmt.Fprintln(stderr, "Warning: could not send response:", err)
		}
	}
}
