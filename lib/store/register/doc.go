// Package register implements the hardware storage backend of the benchmark
// server. Commands are executed by an external accelerator whose registers are
// mapped into the process.
//
// Key Components:
//
//   - Layout: a typed descriptor of the register map (name, offset and width of
//     every field). DefaultLayout is the map of the reference device. All
//     accesses go through the named fields, never through raw offsets.
//
//   - IRegisterBank: the single accessor for 32 bit register reads and writes.
//     OpenDevice maps a sysfs PCIe resource with mmap and locks it exclusively,
//     NewMemoryBank provides plain memory and NewSimulatedBank emulates the
//     device for benchmarking without hardware.
//
//   - NewRegisterStore: a store.IStore that runs the SET and GET handshakes.
//
// Protocol:
//
//	SET: write set-key, write set-value, assert write-enable. No acknowledgement.
//	GET: write get-key, assert read-request, poll ready until it reads 1,
//	     read result, clear ready.
//
// Polling:
//
//	The ready flag is polled in a tight loop without yielding the processor.
//	This keeps the reaction time minimal at the cost of a fully used core.
//	With Options.Timeout > 0 the loop gives up with store.ErrDeviceTimeout once
//	the timeout elapses; the clock is only read every few polls. With a zero
//	timeout the loop never gives up, which reproduces the original device
//	protocol and hangs forever if the device never answers.
//
// The register store is not thread-safe and takes ownership of its bank.
package register
