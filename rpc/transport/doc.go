// Package transport defines the interfaces of the datagram transport used by
// the benchmark. It is treated as a primitive with send, receive and timeout
// semantics; all protocol logic lives in the server and client packages.
//
// Key Components:
//
//   - IRPCServerTransport: binds an endpoint, blocks in Receive until a request
//     datagram arrives and sends the response back to the requesting peer.
//
//   - IRPCClientTransport: binds a local socket, sends a request datagram to
//     the server and waits for the response with a bounded timeout.
//
//   - ErrTimeout / ErrClosed: the two conditions callers act upon. Every other
//     error is a transport failure.
//
// Implementations are provided by the udp and unix packages on top of the
// protocol-agnostic base package.
package transport
