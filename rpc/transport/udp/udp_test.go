package udp

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/transport"
)

func listen(t *testing.T) transport.IRPCServerTransport {
	t.Helper()
	server := NewUDPServerTransport()
	if err := server.Listen(common.ServerConfig{Endpoint: "127.0.0.1:0"}); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	t.Cleanup(func() { _ = server.Close() })
	return server
}

func connect(t *testing.T, endpoint string) transport.IRPCClientTransport {
	t.Helper()
	client := NewUDPClientTransport()
	if err := client.Connect(common.ClientConfig{Endpoint: endpoint, Bind: "127.0.0.1:0"}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRequestResponse(t *testing.T) {
	server := listen(t)
	client := connect(t, server.Addr().String())

	if err := client.Send([]byte("GET:5")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	buf := make([]byte, 64)
	n, peer, err := server.Receive(buf)
	if err != nil {
		t.Fatalf("server Receive failed: %v", err)
	}
	if string(buf[:n]) != "GET:5" {
		t.Errorf("server received %q, want GET:5", buf[:n])
	}

	if err := server.Reply(peer, []byte("ok")); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	n, err = client.Receive(buf, time.Second)
	if err != nil {
		t.Fatalf("client Receive failed: %v", err)
	}
	if string(buf[:n]) != "ok" {
		t.Errorf("client received %q, want ok", buf[:n])
	}
}

func TestReceiveTimeout(t *testing.T) {
	server := listen(t)
	client := connect(t, server.Addr().String())

	start := time.Now()
	_, err := client.Receive(make([]byte, 16), 50*time.Millisecond)
	if !errors.Is(err, transport.ErrTimeout) {
		t.Fatalf("Receive error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Receive blocked for %s", elapsed)
	}

	// the transport stays usable after a timeout
	if err := client.Send([]byte("x")); err != nil {
		t.Errorf("Send after timeout failed: %v", err)
	}
}

func TestDrainDiscardsLateResponses(t *testing.T) {
	server := listen(t)
	client := connect(t, server.Addr().String())

	if err := client.Send([]byte("GET:1")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	buf := make([]byte, 64)
	_, peer, err := server.Receive(buf)
	if err != nil {
		t.Fatalf("server Receive failed: %v", err)
	}

	// two late answers are queued before the client looks again
	_ = server.Reply(peer, []byte("late-1"))
	_ = server.Reply(peer, []byte("late-2"))
	time.Sleep(20 * time.Millisecond)

	if drained := client.Drain(); drained != 2 {
		t.Errorf("Drain() = %d, want 2", drained)
	}
	if _, err := client.Receive(buf, 20*time.Millisecond); !errors.Is(err, transport.ErrTimeout) {
		t.Errorf("Receive after drain error = %v, want ErrTimeout", err)
	}
}

func TestStrayDatagramsAreIgnored(t *testing.T) {
	server := listen(t)
	client := connect(t, server.Addr().String())

	// a third party that is not the server sends to the client
	other, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket failed: %v", err)
	}
	defer other.Close()
	if _, err := other.WriteTo([]byte("spoofed"), client.Addr()); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	if err := client.Send([]byte("GET:1")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	buf := make([]byte, 64)
	_, peer, err := server.Receive(buf)
	if err != nil {
		t.Fatalf("server Receive failed: %v", err)
	}
	_ = server.Reply(peer, []byte("real"))

	n, err := client.Receive(buf, time.Second)
	if err != nil {
		t.Fatalf("client Receive failed: %v", err)
	}
	if string(buf[:n]) != "real" {
		t.Errorf("client received %q, want the server response", buf[:n])
	}
}

func TestServerCloseUnblocksReceive(t *testing.T) {
	server := listen(t)

	done := make(chan error, 1)
	go func() {
		_, _, err := server.Receive(make([]byte, 16))
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := server.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, transport.ErrClosed) {
			t.Errorf("Receive error = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Receive did not return after Close")
	}
}

func TestConnectErrors(t *testing.T) {
	tests := []struct {
		name   string
		config common.ClientConfig
	}{
		{"bad endpoint", common.ClientConfig{Endpoint: "not-an-endpoint", Bind: "127.0.0.1:0"}},
		{"bad bind", common.ClientConfig{Endpoint: "127.0.0.1:7777", Bind: "bind:address:x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewUDPClientTransport()
			if err := client.Connect(tt.config); err == nil {
				_ = client.Close()
				t.Errorf("Connect succeeded, want error")
			}
		})
	}
}
