/*
Package qcodec builds outbound DNS query messages and correlates inbound responses. It is
deliberately asymmetric: Encode produces a complete query datagram but ExtractID only ever looks at
the first two bytes of a response. The load generator correlates replies by transaction id, it does
not parse them.

The transaction id is supplied by the caller and written over whatever id the message constructor
chose, so id allocation policy stays out of this package.
*/
package qcodec

import (
	"encoding/binary"
	"fmt"

	"github.com/markdingo/queryflood/internal/constants"

	"github.com/miekg/dns"
)

var consts = constants.Get()

// Encode constructs a standard qClass=IN query datagram for the name and query type, then stamps
// the caller's transaction id over bytes 0-1. The result must fit the classic DNS over UDP limit
// of 512 octets as this tool never negotiates EDNS0.
func Encode(id uint16, name string, qType uint16) ([]byte, error) {
	if uint(len(name)) > consts.MaxDomainName {
		return nil, fmt.Errorf("Query domain too long: %s", name)
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qType)

	wire, err := m.Pack()
	if err != nil {
		return nil, fmt.Errorf("Failed to create query packet: %s %d: %w", name, qType, err)
	}
	if uint(len(wire)) > consts.MaxUDPMessage {
		return nil, fmt.Errorf("Query packet exceeds %d octets: %s", consts.MaxUDPMessage, name)
	}

	binary.BigEndian.PutUint16(wire[0:2], id) // Caller owns the transaction id
	return wire, nil
}

// ExtractID reads the transaction id from the first two bytes of a datagram. No other validation
// occurs - correlation is the only goal. A runt datagram yields id zero which at worst produces a
// stray-response warning in the engine.
func ExtractID(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}

	return binary.BigEndian.Uint16(b[0:2])
}
