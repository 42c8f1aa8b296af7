//go:build windows
// +build windows

package main

import (
	"fmt"
)

// dropPrivileges has no Windows implementation - refuse rather than silently keep running with
// whatever rights the process started with.
func dropPrivileges(userName, groupName, jailDir string) error {
	if len(userName) > 0 || len(groupName) > 0 || len(jailDir) > 0 {
		return fmt.Errorf("privilege dropping is not supported on windows")
	}

	return nil
}

func runningAs() string {
	return "windows process"
}
