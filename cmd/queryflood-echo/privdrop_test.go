package main

import (
	"testing"
)

// With no user, group or jail requested the drop must be a no-op that never fails, whatever the
// privileges of the test runner.
func TestDropPrivilegesNoop(t *testing.T) {
	if err := dropPrivileges("", "", ""); err != nil {
		t.Error("Empty drop should be a no-op, got", err)
	}
}

func TestDropPrivilegesBadNames(t *testing.T) {
	if err := dropPrivileges("no-such-user-xyzzy", "", ""); err == nil {
		t.Error("Unknown user should fail")
	}
	if err := dropPrivileges("", "no-such-group-xyzzy", ""); err == nil {
		t.Error("Unknown group should fail")
	}
}

func TestRunningAs(t *testing.T) {
	if len(runningAs()) == 0 {
		t.Error("runningAs should always describe something")
	}
}
