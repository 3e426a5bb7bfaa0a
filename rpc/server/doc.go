// Package server implements the request processor of the benchmark server.
// It owns one storage backend and answers datagram requests one at a time,
// timestamping every stage of a request.
//
// The package focuses on:
//   - A strictly sequential request loop with no locking on the backend
//   - Per-stage latency instrumentation that stays out of the measured phases
//   - Best-effort service: a bad request is answered and logged, never fatal
//
// Key Components:
//
//   - RequestProcessor: runs the loop AwaitRequest -> Decoding -> Dispatching ->
//     Responding. The receive has no application-level timeout. Serve returns
//     when its context is cancelled and releases the transport and the backend
//     on every exit path.
//
//   - IRPCServerAdapter / NewIStoreServerAdapter: dispatches a decoded command
//     to store.IStore and maps backend errors to a response status.
//
//   - NewStore: creates the backend selected at startup (array, register or
//     the simulated register device).
//
//   - Metrics: request and response counters plus per-phase latency histograms
//     (VictoriaMetrics), and a per-peer request table (xsync). When a metrics
//     endpoint is configured they are served over HTTP on /metrics and /peers,
//     together with the pprof handlers. All updates happen after the response
//     was handed to the transport.
//
// Response Status:
//
//	Every request is answered with one frame. The status byte distinguishes
//	ok, malformed, key out of range, device timeout and internal error, so a
//	client can tell a failed request from a zero value.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Transport: "udp",
//	  Endpoint:  "0.0.0.0:7777",
//	  FrameSize: common.DefaultFrameSize,
//	  Backend:   common.BackendArray,
//	  Capacity:  65536,
//	  Warmup:    10,
//	  BatchSize: 100000,
//	}
//
//	s, err := server.NewStore(config)
//	if err != nil {
//	  log.Fatal(err)
//	}
//	p, err := server.NewRequestProcessor(config, s, udp.NewUDPServerTransport(), serializer.NewTextSerializer())
//	if err != nil {
//	  log.Fatal(err)
//	}
//	if err := p.Serve(ctx); err != nil {
//	  log.Fatal(err)
//	}
package server
