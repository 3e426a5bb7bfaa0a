// Package udp implements the datagram transport over UDP sockets. This is the
// default transport of the benchmark.
//
// The server binds the configured endpoint (default 0.0.0.0:7777). The client
// binds its own local address (default 0.0.0.0:8888) so replies reach a known
// port, and sends every request to the resolved server address.
package udp
