// Package unix implements the datagram transport over Unix domain datagram
// sockets (unixgram). It measures the request loop without the IP stack when
// server and client run on the same host.
//
// Endpoints are socket paths. Both sides remove a stale socket file before
// binding and delete their socket file on Close.
package unix
