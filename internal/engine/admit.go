package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/markdingo/queryflood/internal/qcodec"
)

// parseQuery splits an input line into its domain and query type. Exactly the first two
// whitespace-separated tokens are significant.
func parseQuery(text string) (name string, qType uint16, err error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("Invalid query input format: %s", text)
	}

	qType, ok := qcodec.TypeCode(fields[1])
	if !ok {
		return "", 0, fmt.Errorf("Query type not understood: %s", fields[1])
	}

	return fields[0], qType, nil
}

// sendQuery admits one query line: parse, pace, encode, send, register. A failure at any step
// warns and abandons the line without registering a slot - a query that never left the socket must
// not sit in the table until it times out.
func (e *Engine) sendQuery(text string) {
	name, qType, err := parseQuery(text)
	if err != nil {
		fmt.Fprintln(e.err, "Warning:", err)
		return
	}

	e.limiter.Take() // No-op unless -Q capped the admission rate

	e.nextID++ // Ids only advance for parsed queries; a name that then fails to encode still uses one
	wire, err := qcodec.Encode(e.nextID, name, qType)
	if err != nil {
		fmt.Fprintln(e.err, "Warning:", err)
		return
	}

	now := time.Now()
	n, err := e.conn.WriteToUDP(wire, e.raddr)
	if err != nil {
		fmt.Fprintf(e.err, "Warning: failed to send query packet: %s %d: %s\n", name, qType, err)
		return
	}
	if n != len(wire) {
		fmt.Fprintf(e.err, "Warning: incomplete packet sent: %s %d\n", name, qType)
		return
	}

	if e.setupPhase {
		e.firstQuery = now
		e.setupPhase = false
		fmt.Fprintln(e.out, "[Status] Sending queries")
	}

	// Admission is gated on outstanding < limit so a full table here is a broken invariant,
	// not an operational condition.
	if err := e.table.Reserve(e.nextID, now); err != nil {
		fmt.Fprintln(e.err, "Unexpected error: in-flight table has no free slot")
		return
	}

	e.sent++
}
