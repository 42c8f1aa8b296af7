package engine

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Directive names accepted from the input stream.
const (
	dirServer     = "server"
	dirPort       = "port"
	dirMaxQueries = "maxqueries"
	dirMaxWait    = "maxwait"
)

// applyDirective applies an in-stream configuration change of the form "# <name> <value>".
// Directives for options already set on the command line are rejected during the setup phase;
// once queries are flowing the stream may change anything. Every failure mode warns and leaves
// the current configuration untouched.
func (e *Engine) applyDirective(text string) {
	if e.cfg.IgnoreDirectives {
		fmt.Fprintln(e.err, "Ignoring configuration change:", text)
		return
	}

	fields := strings.Fields(text[1:]) // Strip the leading directive character
	if len(fields) == 0 {
		fmt.Fprintln(e.err, "Invalid config: No directive present:", text)
		return
	}
	if len(fields) == 1 {
		fmt.Fprintln(e.err, "Invalid config: No value present:", text)
		return
	}
	if len(fields) > 2 {
		fmt.Fprintln(e.err, "Config warning: trailing garbage:", text)
	}
	name := fields[0]
	value := fields[1]

	switch name {
	case dirServer:
		if e.cfg.ServerSetByCommandLine && e.setupPhase {
			fmt.Fprintln(e.err, "Config change overridden by command line:", name)
			return
		}
		if err := e.setServer(value); err != nil {
			fmt.Fprintf(e.err, "Set server error: unable to change the server name to '%s': %s\n",
				value, err)
		}

	case dirPort:
		if e.cfg.PortSetByCommandLine && e.setupPhase {
			fmt.Fprintln(e.err, "Config change overridden by command line:", name)
			return
		}
		port, ok := parsePositiveUint(value)
		if !ok || port > consts.MaxPort {
			fmt.Fprintf(e.err, "Invalid config: Bad value for %s: %s\n", name, value)
			return
		}
		e.setPort(port)

	case dirMaxQueries:
		if e.cfg.MaxOutstandingSetByCommandLine && e.setupPhase {
			fmt.Fprintln(e.err, "Config change overridden by command line:", name)
			return
		}
		limit, ok := parsePositiveUint(value)
		if !ok {
			fmt.Fprintf(e.err, "Invalid config: Bad value for %s: %s\n", name, value)
			return
		}
		e.table.Resize(int(limit))

	case dirMaxWait:
		if e.cfg.TimeoutSetByCommandLine && e.setupPhase {
			fmt.Fprintln(e.err, "Config change overridden by command line:", name)
			return
		}
		secs, ok := parsePositiveUint(value)
		if !ok {
			fmt.Fprintf(e.err, "Invalid config: Bad value for %s: %s\n", name, value)
			return
		}
		e.cfg.QueryTimeout = time.Duration(secs) * time.Second

	default:
		fmt.Fprintln(e.err, "Invalid config: Bad directive:", name)
	}
}

// parsePositiveUint accepts strictly positive decimal integers.
func parsePositiveUint(s string) (uint, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}

	return uint(v), true
}

// setServer resolves the server name against the current port and redirects subsequent datagrams
// to it. On failure the previous server, if any, remains in use. Re-setting the current name skips
// re-resolution.
func (e *Engine) setServer(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("null server name")
	}
	if name == e.server {
		return nil
	}

	addr, err := net.ResolveUDPAddr(consts.DNSUDPTransport,
		net.JoinHostPort(name, strconv.FormatUint(uint64(e.cfg.Port), 10)))
	if err != nil {
		return err
	}

	e.server = name
	e.raddr = addr

	return nil
}

// setPort redirects subsequent datagrams to a new port on the current server.
func (e *Engine) setPort(port uint) {
	e.cfg.Port = port
	if e.raddr != nil {
		e.raddr.Port = int(port)
	}
}
