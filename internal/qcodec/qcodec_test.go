package qcodec

import (
	"strings"
	"testing"

	"github.com/miekg/dns"
)

func TestEncode(t *testing.T) {
	wire, err := Encode(0xBEEF, "example.com", dns.TypeMX)
	if err != nil {
		t.Fatal("Encode failed:", err)
	}

	if got := ExtractID(wire); got != 0xBEEF {
		t.Errorf("Caller id not stamped into the message: %#x", got)
	}

	var m dns.Msg
	if err := m.Unpack(wire); err != nil {
		t.Fatal("Encode produced an unparseable message:", err)
	}
	if m.Id != 0xBEEF {
		t.Errorf("Unpacked id %#x", m.Id)
	}
	if len(m.Question) != 1 {
		t.Fatal("Expected exactly one question, got", len(m.Question))
	}
	q := m.Question[0]
	if q.Name != "example.com." || q.Qtype != dns.TypeMX || q.Qclass != dns.ClassINET {
		t.Error("Bad question section:", q.Name, q.Qtype, q.Qclass)
	}
	if m.Response || m.Opcode != dns.OpcodeQuery {
		t.Error("Not a standard query:", m.Response, m.Opcode)
	}
	if uint(len(wire)) > 512 {
		t.Error("Message exceeds the classic UDP limit:", len(wire))
	}
}

func TestEncodeIdDecoupledFromAllocation(t *testing.T) {
	// Repeated encodes of the same question must carry exactly the ids the caller supplied,
	// whatever the message constructor picked internally.
	for _, id := range []uint16{0, 1, 0xFFFF} {
		wire, err := Encode(id, "example.org", dns.TypeA)
		if err != nil {
			t.Fatal("Encode failed:", err)
		}
		if got := ExtractID(wire); got != id {
			t.Errorf("Expected id %d, got %d", id, got)
		}
	}
}

func TestEncodeRejectsLongName(t *testing.T) {
	long := strings.Repeat("a", 256)
	if _, err := Encode(1, long, dns.TypeA); err == nil {
		t.Error("Name over 255 octets should fail")
	}
}

func TestEncodeRejectsBadLabel(t *testing.T) {
	bad := strings.Repeat("x", 64) + ".example.com" // Single label over 63 octets
	if _, err := Encode(1, bad, dns.TypeA); err == nil {
		t.Error("Label over 63 octets should fail to pack")
	}
}

func TestExtractIDRunt(t *testing.T) {
	if ExtractID([]byte{0xFF}) != 0 {
		t.Error("Runt datagram should yield id 0")
	}
	if ExtractID(nil) != 0 {
		t.Error("Empty datagram should yield id 0")
	}
	if ExtractID([]byte{0x12, 0x34}) != 0x1234 {
		t.Error("Two bytes are enough for an id")
	}
}

func TestTypeCodes(t *testing.T) {
	cases := []struct {
		s    string
		code uint16
	}{
		{"A", 1}, {"NS", 2}, {"MD", 3}, {"MF", 4}, {"CNAME", 5}, {"SOA", 6},
		{"MB", 7}, {"MG", 8}, {"MR", 9}, {"NULL", 10}, {"WKS", 11}, {"PTR", 12},
		{"HINFO", 13}, {"MINFO", 14}, {"MX", 15}, {"TXT", 16}, {"AAAA", 28},
		{"AXFR", 252}, {"MAILB", 253}, {"MAILA", 254}, {"*", 255}, {"ANY", 255},
	}
	for _, tc := range cases {
		code, ok := TypeCode(tc.s)
		if !ok || code != tc.code {
			t.Errorf("TypeCode(%q) = %d,%v want %d", tc.s, code, ok, tc.code)
		}
	}
}

func TestTypeCodesAreCaseSensitive(t *testing.T) {
	for _, s := range []string{"a", "mx", "Any", "aaaa", ""} {
		if _, ok := TypeCode(s); ok {
			t.Errorf("TypeCode(%q) should not match", s)
		}
	}
}
