package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/ValentinKolb/kvbench/lib/timing"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/serializer"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// maxRequestSize is the receive buffer size. A text request is at most
// "SET:4294967295:4294967295" plus padding, anything longer is truncated by
// the socket and rejected by the decoder.
const maxRequestSize = 512

// RequestProcessor owns one storage backend and answers requests one at a
// time: receive, decode, dispatch, respond. Every transition is timestamped.
//
//	AwaitRequest -> Decoding -> Dispatching -> Responding -> AwaitRequest
//
// A processor is single-threaded; the backend is never touched concurrently.
type RequestProcessor struct {
	config     common.ServerConfig
	store      store.IStore
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	adapter    IRPCServerAdapter

	recorder *timing.Recorder
	metrics  *processorMetrics
	peers    *peerTable

	// buffers reused for every request
	reqBuf  []byte
	respBuf []byte

	lastBatch timing.BatchStats
}

// NewRequestProcessor creates a processor for the given backend, transport
// and request codec. The processor takes ownership of the store and closes it
// when Serve returns.
//
// Usage:
//
//	p, err := server.NewRequestProcessor(config, store, udp.NewUDPServerTransport(), serializer.NewTextSerializer())
//	if err != nil {
//		return err
//	}
//	return p.Serve(ctx)
func NewRequestProcessor(
	config common.ServerConfig,
	s store.IStore,
	t transport.IRPCServerTransport,
	ser serializer.IRPCSerializer,
) (*RequestProcessor, error) {
	if s == nil || t == nil || ser == nil {
		return nil, fmt.Errorf("store, transport and serializer are required")
	}
	if config.FrameSize < common.MinFrameSize {
		return nil, fmt.Errorf("frame size must be at least %d bytes, got %d", common.MinFrameSize, config.FrameSize)
	}

	recorder, err := timing.NewRecorder(config.Warmup, config.BatchSize)
	if err != nil {
		return nil, err
	}

	return &RequestProcessor{
		config:     config,
		store:      s,
		transport:  t,
		serializer: ser,
		adapter:    NewIStoreServerAdapter(),
		recorder:   recorder,
		metrics:    newProcessorMetrics(s.Name()),
		peers:      newPeerTable(),
		reqBuf:     make([]byte, maxRequestSize),
		respBuf:    make([]byte, config.FrameSize),
	}, nil
}

// Listen binds the transport. Serve calls it when it was not called before.
func (p *RequestProcessor) Listen() error {
	if p.transport.Addr() != nil {
		return nil
	}
	return p.transport.Listen(p.config)
}

// Addr returns the address the processor listens on, nil before Listen.
func (p *RequestProcessor) Addr() net.Addr {
	return p.transport.Addr()
}

// Serve runs the request loop until ctx is cancelled. There is no timeout on
// the wait for a request; cancelling ctx closes the transport, which unblocks
// the receive. The backend and the transport are released on every exit
// path. A single bad request never ends the loop.
func (p *RequestProcessor) Serve(ctx context.Context) error {
	if err := p.Listen(); err != nil {
		_ = p.store.Close()
		return err
	}

	// teardown on every exit path
	defer func() {
		if closeErr := p.transport.Close(); closeErr != nil {
			Logger.Warningf("failed to close transport: %v", closeErr)
		}
		if closeErr := p.store.Close(); closeErr != nil {
			Logger.Warningf("failed to close %s backend: %v", p.store.Name(), closeErr)
		}
		if pending := p.recorder.Pending(); pending > 0 {
			Logger.Infof("partial %s", p.recorder.Flush())
		}
		Logger.Infof("request processor stopped")
	}()

	if p.config.MetricsEndpoint != "" {
		_, stopMetrics, err := startMetricsServer(p.config.MetricsEndpoint, p.metrics, p.peers)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	stop := context.AfterFunc(ctx, func() {
		_ = p.transport.Close()
	})
	defer stop()

	Logger.Infof("serving requests with the %s backend on %s", p.store.Name(), p.transport.Addr())

	for {
		err := p.handleRequest()
		switch {
		case err == nil:
		case errors.Is(err, transport.ErrClosed):
			if ctx.Err() != nil {
				return nil
			}
			return err
		default:
			p.metrics.recvErrors.Inc()
			Logger.Errorf("receive failed: %v", err)
		}
	}
}

// handleRequest processes exactly one request. It only returns receive
// errors; decode and backend failures are answered with a status frame.
func (p *RequestProcessor) handleRequest() error {
	rec := p.recorder

	// AwaitRequest
	rec.Mark(timing.StageStart)
	n, peer, err := p.transport.Receive(p.reqBuf)
	if err != nil {
		return err
	}
	rec.Mark(timing.StageReceived)

	// Decoding
	var cmd common.Command
	decodeErr := p.serializer.Deserialize(p.reqBuf[:n], &cmd)
	rec.Mark(timing.StageParsed)

	// Dispatching
	var resp serializer.Response
	if decodeErr != nil {
		resp.Status = common.StatusMalformed
	} else {
		resp = p.adapter.Handle(&cmd, p.store)
	}
	rec.Mark(timing.StageProcessed)

	// Responding
	_ = serializer.EncodeResponse(p.respBuf, resp)
	sendErr := p.transport.Reply(peer, p.respBuf)
	rec.Mark(timing.StageSent)

	// everything below is outside the measured phases
	p.record(peer, &cmd, resp, decodeErr, sendErr)
	return nil
}

// record updates the statistics of a finished request
func (p *RequestProcessor) record(peer net.Addr, cmd *common.Command, resp serializer.Response, decodeErr, sendErr error) {
	p.peers.inc(peer)

	if decodeErr != nil {
		Logger.Warningf("malformed request from %s: %v", peer, decodeErr)
	} else if resp.Status != common.StatusOK {
		Logger.Warningf("%s from %s failed: %s", cmd, peer, resp.Status)
	} else {
		Logger.Debugf("%s from %s -> %d", cmd, peer, resp.Value)
	}

	if sendErr != nil {
		p.metrics.sendErrors.Inc()
		Logger.Errorf("failed to send response to %s: %v", peer, sendErr)
		return
	}

	sample := p.recorder.Sample()
	p.metrics.observe(cmd.Op, resp.Status, sample)

	if p.recorder.Accumulate(sample) {
		p.lastBatch = p.recorder.Flush()
		p.metrics.observeBatch(p.lastBatch)
		Logger.Infof("%s", p.lastBatch)
	}
}

// LastBatch returns the statistics of the most recently flushed batch.
// It must not be called concurrently with Serve.
func (p *RequestProcessor) LastBatch() timing.BatchStats {
	return p.lastBatch
}

// Peers returns the number of requests received per client address.
// It is safe to call while Serve is running.
func (p *RequestProcessor) Peers() map[string]int64 {
	return p.peers.snapshot()
}
