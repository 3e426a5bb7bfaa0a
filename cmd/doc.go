// Package cmd implements the command-line interface of kvbench. It provides
// a small command tree for running the benchmark server and the load
// generating client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the request processor with the selected backend
//   - bench: Runs a SET or GET benchmark against a server and prints the summary
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable KVBENCH_<FLAG>
// (e.g. KVBENCH_LOG_LEVEL=debug). Variables in .env and .env.local are loaded
// first.
//
// See kvbench -help for a list of all commands.
package cmd
