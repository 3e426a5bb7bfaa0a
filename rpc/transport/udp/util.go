package udp

import (
	"net"
)

// upgradeConnection applies the socket buffer size to a UDP connection.
// A size of zero keeps the operating system default.
func upgradeConnection(conn *net.UDPConn, bufferSize int) error {
	if bufferSize <= 0 {
		return nil
	}
	if err := conn.SetReadBuffer(bufferSize); err != nil {
		return err
	}
	return conn.SetWriteBuffer(bufferSize)
}
