// Package base provides the protocol-agnostic implementation of the datagram
// transport. It is extended with protocol-specific connectors for udp and
// unix datagram sockets.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific
//     socket creation (binding, address resolution, socket options).
//
//   - serverTransport: wraps the listening net.PacketConn. Receive blocks
//     without an application-level timeout; Close unblocks it and Receive then
//     returns transport.ErrClosed.
//
//   - clientTransport: wraps the client's bound net.PacketConn. Receive is
//     bounded by a read deadline and returns transport.ErrTimeout when it
//     expires. Datagrams from peers other than the server are dropped. Drain
//     discards responses that arrive after their request already timed out,
//     so they are not mistaken for the answer to the next request.
//
// Thread Safety:
//
//	Both transports assume a single request loop. Close may be called from
//	another goroutine to stop a blocked server Receive.
package base
