package wake

import (
	"fmt"
	"net"
)

// DefaultMagicPacketFunc returns a Func that wakes backendID (a MAC address
// such as "40:A8:F0:67:CA:21") by broadcasting a standard Wake-on-LAN magic
// packet to broadcastAddr (typically the subnet broadcast address on UDP
// port 9, e.g. "192.168.1.255:9").
//
// This is the concrete implementation the original deployment reached for
// via the `wakeonlan` shell command; reimplemented here as a native UDP
// send so the core has no external process dependency.
func DefaultMagicPacketFunc(broadcastAddr string) Func {
	return func(backendID string) error {
		return SendMagicPacket(backendID, broadcastAddr)
	}
}

// SendMagicPacket sends a Wake-on-LAN magic packet for the given MAC
// address to broadcastAddr.
func SendMagicPacket(macAddr, broadcastAddr string) error {
	mac, err := net.ParseMAC(macAddr)
	if err != nil {
		return fmt.Errorf("wake: invalid MAC address %q: %w", macAddr, err)
	}
	if len(mac) != 6 {
		return fmt.Errorf("wake: MAC address %q is not 6 bytes", macAddr)
	}

	packet := make([]byte, 0, 6+16*6)
	for i := 0; i < 6; i++ {
		packet = append(packet, 0xFF)
	}
	for i := 0; i < 16; i++ {
		packet = append(packet, mac...)
	}

	addr, err := net.ResolveUDPAddr("udp", broadcastAddr)
	if err != nil {
		return fmt.Errorf("wake: resolving broadcast address %q: %w", broadcastAddr, err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("wake: dialing broadcast address %q: %w", broadcastAddr, err)
	}
	defer conn.Close()

	_, err = conn.Write(packet)
	return err
}
