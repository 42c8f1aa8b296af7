//go:build !windows
// +build !windows

package main

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// dropPrivileges sheds root once the listen socket is open. The echo responder is the only part of
// this suite that may need a privileged bind (port 53) and nothing it does after the bind needs
// root. Both names are resolved before the jail cuts off /etc, then the process is jailed, then
// the group and finally the user are dropped - after the setuid the downgrade cannot be undone.
//
// Since Go 1.16 setuid/setgid apply to every thread of the process, so Linux needs no special
// casing here.
func dropPrivileges(userName, groupName, jailDir string) error {
	uid, err := lookupID(userName, func(name string) (string, error) {
		u, err := user.Lookup(name)
		if err != nil {
			return "", err
		}
		return u.Uid, nil
	})
	if err != nil {
		return fmt.Errorf("cannot become user %s: %w", userName, err)
	}

	gid, err := lookupID(groupName, func(name string) (string, error) {
		g, err := user.LookupGroup(name)
		if err != nil {
			return "", err
		}
		return g.Gid, nil
	})
	if err != nil {
		return fmt.Errorf("cannot become group %s: %w", groupName, err)
	}

	if len(jailDir) > 0 {
		if err := os.Chdir(jailDir); err != nil {
			return fmt.Errorf("cannot enter jail %s: %w", jailDir, err)
		}
		if err := unix.Chroot("."); err != nil {
			return fmt.Errorf("cannot take jail %s as root directory: %w", jailDir, err)
		}
	}

	if gid >= 0 {
		// Keep only the target group - a responder has no use for supplementaries
		if err := unix.Setgroups([]int{gid}); err != nil {
			return fmt.Errorf("cannot shed supplementary groups: %w", err)
		}
		if err := unix.Setgid(gid); err != nil {
			return fmt.Errorf("cannot become group %s: %w", groupName, err)
		}
	}

	if uid >= 0 {
		if err := unix.Setuid(uid); err != nil {
			return fmt.Errorf("cannot become user %s: %w", userName, err)
		}
	}

	return nil
}

// lookupID resolves a symbolic name to a numeric id via the supplied lookup. An empty name means
// "leave alone" and resolves to -1.
func lookupID(name string, lookup func(string) (string, error)) (int, error) {
	if len(name) == 0 {
		return -1, nil
	}

	s, err := lookup(name)
	if err != nil {
		return -1, err
	}

	return strconv.Atoi(s)
}

// runningAs describes the identity the responder ended up with, for the verbose startup line.
func runningAs() string {
	cwd, _ := os.Getwd()

	return fmt.Sprintf("uid %d, gid %d, root %s", os.Geteuid(), os.Getegid(), cwd)
}
