//go:build windows && !unix
// +build windows,!unix

package osutil

import (
	"os"
	"os/signal"
)

// SignalNotify sends the interrupt signal to the supplied channel. Windows has no USR1 so interim
// reports are not available there.
func SignalNotify(c chan os.Signal) {
	signal.Notify(c, os.Interrupt)
}

// IsReportSignal says whether the signal asks for an interim status report rather than a shutdown.
func IsReportSignal(s os.Signal) bool {
	return false
}
