package main

import (
	"testing"
)

var usageTestCases = []testCase{
	{[]string{"-h"}, []string{"NAME", "SYNOPSIS", "DESCRIPTION", "OPTIONS",
		"queryflood", "Version:"}, ""},
}

func TestUsage(t *testing.T) {
	for tx, tc := range usageTestCases {
		runTest(t, tx, tc)
	}
}
