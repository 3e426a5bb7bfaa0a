// Package rpc provides the request/response layer of the benchmark. It
// carries SET and GET commands from the load generating client to the server
// and the fixed-size response frames back.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Command protocol, status codes, configuration structures,
//     and logging.
//
//   - transport: Datagram communication abstractions with pluggable
//     implementations (UDP, Unix datagram sockets).
//
//   - serializer: Request encoding with two formats (Text, Binary) and the
//     response frame codec.
//
//   - client: The load generator, its statistics, and an RPC store that
//     implements store.IStore against a remote server.
//
//   - server: The request processor that times every request through its
//     receive, parse, process and send stages, and its backend adapter.
package rpc
