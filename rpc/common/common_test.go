package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ValentinKolb/kvbench/lib/store"
)

func TestParseOpCode(t *testing.T) {
	tests := []struct {
		in      string
		want    OpCode
		wantErr bool
	}{
		{"set", OpSet, false},
		{"SET", OpSet, false},
		{"Get", OpGet, false},
		{" get ", OpGet, false},
		{"del", OpUnknown, true},
		{"", OpUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOpCode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOpCode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOpCode(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandConstructors(t *testing.T) {
	set := NewSetCommand(5, 42)
	if set.Op != OpSet || set.Key != 5 || set.Value != 42 || set.ValueLen != store.ValueWidth {
		t.Errorf("NewSetCommand(5, 42) = %+v", set)
	}
	if set.String() != "SET:5:42" {
		t.Errorf("String() = %q, want SET:5:42", set.String())
	}

	get := NewGetCommand(5)
	if get.Op != OpGet || get.Key != 5 || get.ValueLen != 0 {
		t.Errorf("NewGetCommand(5) = %+v", get)
	}
	if get.String() != "GET:5" {
		t.Errorf("String() = %q, want GET:5", get.String())
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusOK},
		{"out of range", store.NewError(store.RetCKeyOutOfRange, "key 7"), StatusKeyOutOfRange},
		{"wrapped timeout", fmt.Errorf("get: %w", store.ErrDeviceTimeout), StatusDeviceTimeout},
		{"internal", store.NewError(store.RetCInternalError, "boom"), StatusInternalError},
		{"foreign", errors.New("boom"), StatusInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFromError(tt.err); got != tt.want {
				t.Errorf("StatusFromError(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusErr(t *testing.T) {
	if StatusOK.Err() != nil {
		t.Errorf("StatusOK.Err() = %v, want nil", StatusOK.Err())
	}
	if !errors.Is(StatusKeyOutOfRange.Err(), store.ErrKeyOutOfRange) {
		t.Errorf("StatusKeyOutOfRange.Err() does not match ErrKeyOutOfRange")
	}
	if !errors.Is(StatusDeviceTimeout.Err(), store.ErrDeviceTimeout) {
		t.Errorf("StatusDeviceTimeout.Err() does not match ErrDeviceTimeout")
	}
	if StatusMalformed.Err() == nil {
		t.Errorf("StatusMalformed.Err() = nil, want error")
	}
}

func validServerConfig() ServerConfig {
	return ServerConfig{
		Transport:     TransportUDP,
		Endpoint:      "0.0.0.0:7777",
		FrameSize:     DefaultFrameSize,
		Backend:       BackendArray,
		Capacity:      100,
		DeviceTimeout: time.Second,
		Warmup:        10,
		BatchSize:     100000,
		LogLevel:      "info",
	}
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ServerConfig)
		wantErr bool
	}{
		{"valid", func(c *ServerConfig) {}, false},
		{"bad transport", func(c *ServerConfig) { c.Transport = "tcp" }, true},
		{"bad endpoint", func(c *ServerConfig) { c.Endpoint = "7777" }, true},
		{"unix endpoint", func(c *ServerConfig) { c.Transport = TransportUnix; c.Endpoint = "/tmp/kvbench.sock" }, false},
		{"small frame", func(c *ServerConfig) { c.FrameSize = 4 }, true},
		{"bad backend", func(c *ServerConfig) { c.Backend = "disk" }, true},
		{"zero capacity", func(c *ServerConfig) { c.Capacity = 0 }, true},
		{"register without path", func(c *ServerConfig) { c.Backend = BackendRegister }, true},
		{"negative timeout", func(c *ServerConfig) { c.Backend = BackendSim; c.DeviceTimeout = -1 }, true},
		{"zero batch", func(c *ServerConfig) { c.BatchSize = 0 }, true},
		{"bad log level", func(c *ServerConfig) { c.LogLevel = "verbose" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validServerConfig()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientConfigValidate(t *testing.T) {
	valid := func() ClientConfig {
		return ClientConfig{
			Transport:   TransportUDP,
			Endpoint:    "127.0.0.1:7777",
			Bind:        "0.0.0.0:8888",
			FrameSize:   DefaultFrameSize,
			Timeout:     2 * time.Second,
			Op:          OpSet,
			Requests:    100000,
			KeySpace:    16384,
			PayloadSize: 4,
			LogLevel:    "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr bool
	}{
		{"valid", func(c *ClientConfig) {}, false},
		{"zero timeout", func(c *ClientConfig) { c.Timeout = 0 }, true},
		{"unknown op", func(c *ClientConfig) { c.Op = OpUnknown }, true},
		{"zero requests", func(c *ClientConfig) { c.Requests = 0 }, true},
		{"zero key space", func(c *ClientConfig) { c.KeySpace = 0 }, true},
		{"negative rate", func(c *ClientConfig) { c.Rate = -1 }, true},
		{"verify set", func(c *ClientConfig) { c.Verify = true }, true},
		{"verify get", func(c *ClientConfig) { c.Verify = true; c.Op = OpGet }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "ERROR"} {
		if _, err := ParseLogLevel(level); err != nil {
			t.Errorf("ParseLogLevel(%q) error = %v", level, err)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Errorf("ParseLogLevel(loud) succeeded, want error")
	}
	if err := InitLoggers("loud"); err == nil {
		t.Errorf("InitLoggers(loud) succeeded, want error")
	}
}
