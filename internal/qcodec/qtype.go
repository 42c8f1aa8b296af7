package qcodec

import (
	"github.com/miekg/dns"
)

// qTypeCodes maps input-file query type mnemonics to wire codes. The set and the case-sensitivity
// are inherited from the original BIND tooling rather than from the full IANA registry - note WKS
// which pre-dates the types known to the dns package.
var qTypeCodes = map[string]uint16{
	"A":     dns.TypeA,
	"NS":    dns.TypeNS,
	"MD":    dns.TypeMD,
	"MF":    dns.TypeMF,
	"CNAME": dns.TypeCNAME,
	"SOA":   dns.TypeSOA,
	"MB":    dns.TypeMB,
	"MG":    dns.TypeMG,
	"MR":    dns.TypeMR,
	"NULL":  dns.TypeNULL,
	"WKS":   11,
	"PTR":   dns.TypePTR,
	"HINFO": dns.TypeHINFO,
	"MINFO": dns.TypeMINFO,
	"MX":    dns.TypeMX,
	"TXT":   dns.TypeTXT,
	"AAAA":  dns.TypeAAAA,
	"AXFR":  dns.TypeAXFR,
	"MAILB": dns.TypeMAILB,
	"MAILA": dns.TypeMAILA,
	"*":     dns.TypeANY,
	"ANY":   dns.TypeANY,
}

// TypeCode converts a query type mnemonic from the input file to its wire code. Matching is
// case-sensitive: "a" is not a valid query type even though "A" is.
func TypeCode(s string) (uint16, bool) {
	code, ok := qTypeCodes[s]

	return code, ok
}
