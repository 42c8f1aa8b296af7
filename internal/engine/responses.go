package engine

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/markdingo/queryflood/internal/qcodec"
)

// immediatePollWait approximates a non-blocking socket poll. A read deadline of now-or-earlier
// never reads even when data is queued, so the shortest practical poll is a small positive wait.
const immediatePollWait = time.Millisecond

// retireOldQueries releases every query that has been outstanding longer than the timeout,
// counting each as lost. The clock is sampled once for the whole sweep.
func (e *Engine) retireOldQueries() {
	now := time.Now()
	for _, id := range e.table.Expire(now, e.cfg.QueryTimeout) {
		e.timedOut++
		fmt.Fprintf(e.out, "[Timeout] Query timed out: msg id %d\n", id)
	}
}

// processResponses drains whatever responses have arrived. The first read may block for up to the
// blocking wait, but only when the in-flight pool is full - if the loop could instead be sending,
// or has nothing outstanding, the receiver must not hold it up. After one response arrives the
// rest of the backlog is drained with immediate polls.
func (e *Engine) processResponses() {
	wait := consts.ResponseBlockingWait
	outstanding := e.table.Outstanding()
	if outstanding == 0 || outstanding < e.table.Limit() {
		wait = immediatePollWait
	}

	if e.processSingleResponse(wait) {
		for e.processSingleResponse(immediatePollWait) {
		}
	}
}

// processSingleResponse waits up to wait for one datagram, extracts its transaction id and
// releases the matching slot. Returns false when nothing arrived within the wait.
func (e *Engine) processSingleResponse(wait time.Duration) bool {
	e.conn.SetReadDeadline(time.Now().Add(wait))
	n, _, err := e.conn.ReadFromUDP(e.recvBuf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return false
		}
		fmt.Fprintln(e.err, "Warning: error receiving datagram:", err)
		return false
	}

	id := qcodec.ExtractID(e.recvBuf[:n])
	sentAt, ok := e.table.Release(id)
	if !ok {
		fmt.Fprintf(e.err, "Warning: Received a response with an unexpected (maybe timed out) id: %d\n", id)
		return true
	}

	us := time.Since(sentAt).Microseconds()
	if us < 1 {
		us = 1
	}
	e.latency.RecordValue(us)

	return true
}
