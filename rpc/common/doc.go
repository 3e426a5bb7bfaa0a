// Package common provides the data structures and utilities shared by the
// benchmark server and the load generator.
//
// The package focuses on:
//   - The decoded request (Command) and the response status
//   - Configuration structures for server and client
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - Command: a single SET or GET request with key, value and the number of
//     value bytes it carries. NewSetCommand and NewGetCommand build valid
//     commands.
//
//   - OpCode: the operation of a command. String returns the upper case wire
//     token. ParseOpCode accepts user input in any case.
//
//   - Status: the result code sent back in the response frame next to the
//     value. StatusFromError maps store errors to a status, Status.Err maps
//     it back on the client side.
//
//   - ServerConfig / ClientConfig: validated configuration for both sides,
//     printed at startup in a sectioned layout.
//
//   - Logger: a logger factory for Dragonboat's logger package that prints
//     "LEVEL | name | message" lines. InitLoggers sets the level of all
//     loggers used in this module.
package common
