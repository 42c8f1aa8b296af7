package main

import (
	"time"
)

type config struct {
	help    bool
	version bool
	verbose bool

	listenAddress string
	drop          uint // Percentage of queries to swallow
	delay         time.Duration

	setuidName string
	setgidName string
	chrootDir  string
}
