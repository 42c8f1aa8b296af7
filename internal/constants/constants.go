/*
Package constants provides common values used across all queryflood packages. Usage is to call the
global Get() function which returns the Constants by value ensuring that any modifications made
(accidental or otherwise) will not affect other modules when they call Get().

Typically usage:

    consts := constants.Get()
    fmt.Println("I am", consts.FloodProgramName, "querying port", consts.DNSDefaultPort)

The primary reason for making this a constructed struct rather than the more typical const () block
is so that it can be fed directly into templating packages for printing usage messages.
*/
package constants

import "time"

// Constants contains the system-wide constants
type Constants struct {
	FloodProgramName string // Package related constants
	EchoProgramName  string
	Version          string
	PackageName      string
	PackageURL       string

	DefaultServer         string // Query target defaults
	DefaultMaxOutstanding uint
	DefaultQueryTimeout   uint // seconds
	DefaultBufferSize     uint // kilobytes

	CommentChar   byte // Input stream syntax
	DirectiveChar byte

	HardTimeoutExtra     time.Duration // Setup-phase grace on top of the -l limit
	ResponseBlockingWait time.Duration // Longest single wait on the response socket

	MaxDomainName uint // Longest accepted query domain in octets
	MaxUDPMessage uint // Classic DNS over UDP message limit
	MaxPort       uint

	DNSDefaultPort  string // DNS related constants
	DNSUDPTransport string // Suitable for the "net" package, but just to make sure we're
	//                        consistent across the whole package.
}

var readOnlyConstants *Constants

// createReadOnlyConstants creates a read-only copy of the Constants which is copied whenever a
// caller asks for the constants set. The main reason for returning a struct is so that callers can
// inspect and/or use packages that introspect - particularly */template packages.
func createReadOnlyConstants() {
	readOnlyConstants = &Constants{
		FloodProgramName: "queryflood",
		EchoProgramName:  "queryflood-echo",
		Version:          "v0.1.0",
		PackageName:      "QueryFlood DNS Load Generator",
		PackageURL:       "https://github.com/markdingo/queryflood",

		DefaultServer:         "localhost",
		DefaultMaxOutstanding: 20,
		DefaultQueryTimeout:   5,
		DefaultBufferSize:     32,

		CommentChar:   ';',
		DirectiveChar: '#',

		HardTimeoutExtra:     time.Second * 5,
		ResponseBlockingWait: time.Millisecond * 100,

		MaxDomainName: 255,
		MaxUDPMessage: 512,
		MaxPort:       65535,

		DNSDefaultPort:  "53",
		DNSUDPTransport: "udp",
	}
}

func init() {
	createReadOnlyConstants()
}

// Get returns a copy of the Constant struct. Return by value so internal values cannot be
// inadvertently changed by callers.
func Get() Constants {
	return *readOnlyConstants
}
