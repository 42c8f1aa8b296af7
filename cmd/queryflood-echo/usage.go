package main

import (
	"fmt"
	"io"
	"text/template"
)

const usageMessageTemplate = `
NAME
          {{.EchoProgramName}} -- a stub responder for {{.FloodProgramName}}

SYNOPSIS
          {{.EchoProgramName}} [options]

DESCRIPTION
          {{.EchoProgramName}} listens for UDP DNS queries and echoes each one straight back
          with the QR bit set, so every reply carries the transaction id of its query.
          That is all {{.FloodProgramName}} needs to count a query as completed, which makes
          this program a convenient target for exercising the load generator without a
          real name-server.

          --drop and --delay simulate a lossy or slow server for exercising timeout and
          loss accounting.

EXAMPLES
          $ {{.EchoProgramName}} -a 127.0.0.1:53000

          Drop a fifth of all queries and delay the rest by 20ms:

            $ {{.EchoProgramName}} -a 127.0.0.1:53000 --drop 20 --delay 20ms

OPTIONS
          [-hv] [-a listen-address] [--drop percentage] [--delay duration]

          [--setuid user] [--setgid group] [--chroot directory]

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
// arguments.
func parseCommandLine(args []string) error {
	flagSet.BoolVar(&cfg.help, "h", false, "Print usage message to Stdout then exit(0)")
	flagSet.BoolVar(&cfg.version, "version", false, "Print version and exit")
	flagSet.BoolVar(&cfg.verbose, "v", false, "Verbose startup output")

	flagSet.StringVar(&cfg.listenAddress, "a", "127.0.0.1:"+consts.DNSDefaultPort,
		"Listen `address` for inbound queries")
	flagSet.UintVar(&cfg.drop, "drop", 0, "`Percentage` of queries to swallow without replying")
	flagSet.DurationVar(&cfg.delay, "delay", 0, "Defer each reply by `duration`")

	flagSet.StringVar(&cfg.setuidName, "setuid", "", "Downgrade to `user` after opening the socket")
	flagSet.StringVar(&cfg.setgidName, "setgid", "", "Downgrade to `group` after opening the socket")
	flagSet.StringVar(&cfg.chrootDir, "chroot", "", "Chroot to `directory` after opening the socket")

	return flagSet.Parse(args[1:])
}
