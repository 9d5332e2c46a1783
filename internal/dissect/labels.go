package dissect

// Link and network tier codes (EtherTypes).
const (
	EtherTypeIPv4 ProtocolID = 0x0800
	EtherTypeARP  ProtocolID = 0x0806
	EtherTypeRARP ProtocolID = 0x8035
	EtherTypeVLAN ProtocolID = 0x8100
	EtherTypeIPX  ProtocolID = 0x8138
	EtherTypeIPv6 ProtocolID = 0x86DD
	EtherTypeMPLS ProtocolID = 0x8847

	// etherTypeMin is the largest value that is still an 802.3 length field.
	etherTypeMin ProtocolID = 0x0600
)

// Transport tier codes (IP protocol numbers).
const (
	IPProtocolICMP ProtocolID = 1
	IPProtocolIGMP ProtocolID = 2
	IPProtocolTCP  ProtocolID = 6
	IPProtocolIGRP ProtocolID = 9
	IPProtocolUDP  ProtocolID = 17
	IPProtocolGRE  ProtocolID = 47
	IPProtocolESP  ProtocolID = 50
)

// Application tier codes (ports).
const (
	PortHTTP  ProtocolID = 80
	PortHTTPS ProtocolID = 443
)

// LinkTypeEthernet is the protocol code reported by the Ethernet layer itself.
const LinkTypeEthernet ProtocolID = 1

var etherTypeNames = map[ProtocolID]string{
	EtherTypeIPv4: "IPv4",
	EtherTypeARP:  "ARP",
	EtherTypeRARP: "RARP",
	EtherTypeIPX:  "IPX",
	EtherTypeVLAN: "802.1Q VLAN",
	EtherTypeIPv6: "IPv6",
	EtherTypeMPLS: "MPLS Unicast",
}

var ipProtocolNames = map[ProtocolID]string{
	IPProtocolICMP: "ICMP",
	IPProtocolIGMP: "IGMP",
	IPProtocolTCP:  "TCP",
	IPProtocolIGRP: "IGRP",
	IPProtocolUDP:  "UDP",
	IPProtocolGRE:  "GRE",
	IPProtocolESP:  "ESP",
}

var portNames = map[ProtocolID]string{
	1:         "TCPMUX",
	7:         "ECHO",
	9:         "DISCARD",
	13:        "DAYTIME",
	17:        "QOTD",
	20:        "FTP",
	21:        "FTP",
	22:        "SSH",
	23:        "TELNET",
	25:        "SMTP",
	37:        "TIME",
	53:        "DNS",
	PortHTTP:  "HTTP",
	109:       "POP2",
	110:       "POP3",
	111:       "RPC",
	143:       "IMAP4",
	PortHTTPS: "HTTPS",
}

// namesFor returns the label table for codes carried by a layer of tier t.
func namesFor(t Tier) map[ProtocolID]string {
	switch t {
	case TierLink, TierNetwork:
		return etherTypeNames
	case TierTransport:
		return ipProtocolNames
	case TierApplication:
		return portNames
	}
	return nil
}

// ProtocolName returns the well-known name of code on tier t.
func ProtocolName(t Tier, code ProtocolID) (string, bool) {
	name, ok := namesFor(t)[code]
	return name, ok
}
