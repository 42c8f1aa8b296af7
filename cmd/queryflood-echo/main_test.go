package main

import (
	"bytes"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

type testCase struct {
	args   []string
	stdout []string
	stderr string
}

var mainTestCases = []testCase{
	{[]string{"--version"}, []string{"queryflood-echo Version:"}, ""},
	{[]string{"-h"}, []string{"NAME", "SYNOPSIS", "OPTIONS", "queryflood-echo"}, ""},

	{[]string{"-zz"}, []string{}, "not defined"},
	{[]string{"--drop", "101"}, []string{}, "must be between 0 and 100"},
	{[]string{"residual"}, []string{}, "residual goop"},
	{[]string{"-a", "not-an-address"}, []string{}, "missing port"},
}

func TestMain(t *testing.T) {
	for tx, tc := range mainTestCases {
		t.Run(fmt.Sprintf("%d", tx), func(t *testing.T) {
			args := append([]string{"queryflood-echo"}, tc.args...)
			out := &bytes.Buffer{}
			err := &bytes.Buffer{}
			mainInit(out, err)
			ec := mainExecute(args)

			outStr := out.String()
			errStr := err.String()

			if ec != 0 && len(tc.stderr) == 0 {
				t.Error("Unexpected non-zero exit code", ec, outStr, errStr)
			}
			if len(tc.stderr) > 0 && !strings.Contains(errStr, tc.stderr) {
				t.Error("Stderr expected:\n", tc.stderr, "Got:\n", errStr, args)
			}
			for _, o := range tc.stdout {
				if !strings.Contains(outStr, o) {
					t.Error("Stdout expected:\n", o, "Got:\n", outStr, args)
				}
			}
		})
	}
}

func startServe(t *testing.T, drop uint, delay time.Duration) (*net.UDPConn, chan [2]int) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}

	counts := make(chan [2]int, 1)
	go func() {
		seen, dropped := serve(conn, drop, delay)
		counts <- [2]int{seen, dropped}
	}()

	return conn, counts
}

func sendQuery(t *testing.T, to net.Addr, id0, id1 byte) *net.UDPConn {
	t.Helper()
	client, err := net.DialUDP("udp", nil, to.(*net.UDPAddr))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })

	query := []byte{id0, id1, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if _, err := client.Write(query); err != nil {
		t.Fatal("Could not send query:", err)
	}

	return client
}

func TestServeEchoesWithQRSet(t *testing.T) {
	conn, counts := startServe(t, 0, 0)
	client := sendQuery(t, conn.LocalAddr(), 0xAB, 0xCD)

	buf := make([]byte, 512)
	client.SetReadDeadline(time.Now().Add(time.Second * 2))
	n, err := client.Read(buf)
	if err != nil {
		t.Fatal("No response from serve:", err)
	}
	if n < 3 || buf[0] != 0xAB || buf[1] != 0xCD {
		t.Error("Response does not carry the query's transaction id:", buf[:n])
	}
	if buf[2]&0x80 == 0 {
		t.Error("Response does not have QR set")
	}

	conn.Close()
	got := <-counts
	if got[0] != 1 || got[1] != 0 {
		t.Error("Expected 1 seen/0 dropped, got", got)
	}
}

func TestServeDropsEverything(t *testing.T) {
	conn, counts := startServe(t, 100, 0)
	client := sendQuery(t, conn.LocalAddr(), 0x00, 0x01)

	buf := make([]byte, 512)
	client.SetReadDeadline(time.Now().Add(time.Millisecond * 300))
	if _, err := client.Read(buf); err == nil {
		t.Error("A full drop rate should never reply")
	}

	conn.Close()
	got := <-counts
	if got[0] != 1 || got[1] != 1 {
		t.Error("Expected 1 seen/1 dropped, got", got)
	}
}

func TestServeDelaysReply(t *testing.T) {
	conn, _ := startServe(t, 0, time.Millisecond*100)
	defer conn.Close()
	client := sendQuery(t, conn.LocalAddr(), 0x77, 0x88)

	start := time.Now()
	buf := make([]byte, 512)
	client.SetReadDeadline(time.Now().Add(time.Second * 2))
	if _, err := client.Read(buf); err != nil {
		t.Fatal("No response from serve:", err)
	}
	if elapsed := time.Since(start); elapsed < time.Millisecond*100 {
		t.Error("Reply arrived before the configured delay:", elapsed)
	}
}

func TestMainStops(t *testing.T) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	mainInit(out, errBuf)

	done := make(chan int, 1)
	go func() { done <- mainExecute([]string{"queryflood-echo", "-a", "127.0.0.1:0"}) }()

	time.Sleep(time.Millisecond * 100) // Let the socket open
	stopMain()

	select {
	case ec := <-done:
		if ec != 0 {
			t.Error("Expected a clean exit, got", ec, errBuf.String())
		}
	case <-time.After(time.Second * 5):
		t.Fatal("mainExecute did not stop on signal")
	}
	if !strings.Contains(out.String(), "queries received") {
		t.Error("Missing final count line:", out.String())
	}
}
