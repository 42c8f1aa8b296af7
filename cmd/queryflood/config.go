package main

type config struct {
	help    bool
	version bool
	verbose bool

	datafile         string
	server           string
	port             uint
	maxOutstanding   uint
	timeout          uint // seconds
	ignoreDirectives bool
	timeLimit        uint // seconds - zero means no limit
	runOnce          bool
	bufferKB         uint
	qps              uint

	gops       bool
	cpuprofile string
	memprofile string

	serverSet  bool // Set via flagSet.Visit after parsing
	portSet    bool
	queriesSet bool
	timeoutSet bool
}
