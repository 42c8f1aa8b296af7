package constants

import (
	"testing"
)

// Get() must return a copy, not the shared struct, otherwise one caller can corrupt the constants
// seen by every other caller.
func TestGetReturnsCopy(t *testing.T) {
	c1 := Get()
	c1.FloodProgramName = "scribble"
	c1.DefaultMaxOutstanding = 99999

	c2 := Get()
	if c2.FloodProgramName != "queryflood" {
		t.Error("Get() does not protect FloodProgramName, got", c2.FloodProgramName)
	}
	if c2.DefaultMaxOutstanding != 20 {
		t.Error("Get() does not protect DefaultMaxOutstanding, got", c2.DefaultMaxOutstanding)
	}
}

// The original tool's defaults are part of the external contract so pin them down.
func TestDefaults(t *testing.T) {
	c := Get()
	if c.DefaultServer != "localhost" {
		t.Error("Default server should be localhost, not", c.DefaultServer)
	}
	if c.DNSDefaultPort != "53" {
		t.Error("Default port should be 53, not", c.DNSDefaultPort)
	}
	if c.DefaultQueryTimeout != 5 {
		t.Error("Default query timeout should be 5s, not", c.DefaultQueryTimeout)
	}
	if c.CommentChar != ';' || c.DirectiveChar != '#' {
		t.Error("Input syntax characters have changed:", c.CommentChar, c.DirectiveChar)
	}
}
