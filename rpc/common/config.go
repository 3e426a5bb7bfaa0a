package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/kvbench/lib/store/array"
)

// --------------------------------------------------------------------------
// Backend and transport selection
// --------------------------------------------------------------------------

type BackendType string

const (
	BackendArray    BackendType = "array"    // in-process slot array
	BackendRegister BackendType = "register" // memory mapped accelerator
	BackendSim      BackendType = "sim"      // register protocol against a simulated device
)

// ParseBackendType validates a backend name.
func ParseBackendType(name string) (BackendType, error) {
	switch b := BackendType(strings.ToLower(name)); b {
	case BackendArray, BackendRegister, BackendSim:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q, must be one of array, register, sim", name)
	}
}

const (
	TransportUDP  = "udp"
	TransportUnix = "unix"
)

func validateTransport(transport string) error {
	switch transport {
	case TransportUDP, TransportUnix:
		return nil
	default:
		return fmt.Errorf("unknown transport %q, must be one of udp, unix", transport)
	}
}

func validateEndpoint(transport, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if transport == TransportUDP {
		if _, _, err := net.SplitHostPort(endpoint); err != nil {
			return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the benchmark server.
type ServerConfig struct {
	// Transport settings
	Transport    string
	Endpoint     string
	FrameSize    int
	SocketBuffer int // 0 keeps the OS default

	// Backend selection, fixed at startup
	Backend BackendType

	// Array backend
	Capacity int

	// Register backend
	DevicePath    string
	DeviceSize    uint32
	DeviceTimeout time.Duration
	SimReadyPolls int

	// Instrumentation
	Warmup          int
	BatchSize       int
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// Validate checks the configuration for invalid values.
func (c *ServerConfig) Validate() error {
	if err := validateTransport(c.Transport); err != nil {
		return err
	}
	if err := validateEndpoint(c.Transport, c.Endpoint); err != nil {
		return err
	}
	if c.FrameSize < MinFrameSize {
		return fmt.Errorf("frame size must be at least %d bytes, got %d", MinFrameSize, c.FrameSize)
	}
	if c.SocketBuffer < 0 {
		return fmt.Errorf("socket buffer must not be negative, got %d", c.SocketBuffer)
	}
	if _, err := ParseBackendType(string(c.Backend)); err != nil {
		return err
	}
	if (c.Backend == BackendArray || c.Backend == BackendSim) && (c.Capacity < 1 || c.Capacity > array.MaxCapacity) {
		return fmt.Errorf("capacity must be between 1 and %d, got %d", array.MaxCapacity, c.Capacity)
	}
	if c.Backend == BackendRegister && c.DevicePath == "" {
		return fmt.Errorf("device path must not be empty for the register backend")
	}
	if c.Backend != BackendArray && c.DeviceTimeout < 0 {
		return fmt.Errorf("device timeout must not be negative, got %s", c.DeviceTimeout)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warm-up must not be negative, got %d", c.Warmup)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Server")
	addField("Transport", c.Transport)
	addField("Endpoint", c.Endpoint)
	addField("Frame Size", fmt.Sprintf("%d bytes", c.FrameSize))

	addSection("Backend")
	addField("Type", string(c.Backend))
	switch c.Backend {
	case BackendArray:
		addField("Capacity", strconv.Itoa(c.Capacity))
	case BackendRegister:
		addField("Device", c.DevicePath)
		addField("Device Size", fmt.Sprintf("%d bytes", c.DeviceSize))
		addField("Poll Timeout", formatTimeout(c.DeviceTimeout))
	case BackendSim:
		addField("Capacity", strconv.Itoa(c.Capacity))
		addField("Ready After", fmt.Sprintf("%d polls", c.SimReadyPolls))
		addField("Poll Timeout", formatTimeout(c.DeviceTimeout))
	}

	addSection("Instrumentation")
	addField("Warm-up", fmt.Sprintf("%d samples", c.Warmup))
	addField("Batch Size", fmt.Sprintf("%d samples", c.BatchSize))
	if c.MetricsEndpoint != "" {
		addField("Metrics", fmt.Sprintf("http://%s/metrics", c.MetricsEndpoint))
	} else {
		addField("Metrics", "disabled")
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters of the load generator.
type ClientConfig struct {
	// Transport settings
	Transport    string
	Endpoint     string
	Bind         string
	FrameSize    int
	SocketBuffer int // 0 keeps the OS default
	Timeout      time.Duration

	// Workload
	Op          OpCode
	Requests    int
	KeySpace    uint32
	PayloadSize int
	Rate        int
	Verify      bool

	// Output
	CSVPath  string
	LogLevel string
}

// Validate checks the configuration for invalid values.
func (c *ClientConfig) Validate() error {
	if err := validateTransport(c.Transport); err != nil {
		return err
	}
	if err := validateEndpoint(c.Transport, c.Endpoint); err != nil {
		return err
	}
	if c.FrameSize < MinFrameSize {
		return fmt.Errorf("frame size must be at least %d bytes, got %d", MinFrameSize, c.FrameSize)
	}
	if c.SocketBuffer < 0 {
		return fmt.Errorf("socket buffer must not be negative, got %d", c.SocketBuffer)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Op != OpSet && c.Op != OpGet {
		return fmt.Errorf("test must be set or get")
	}
	if c.Requests < 1 {
		return fmt.Errorf("requests must be at least 1, got %d", c.Requests)
	}
	if c.KeySpace < 1 {
		return fmt.Errorf("key space must be at least 1")
	}
	if c.PayloadSize < 1 {
		return fmt.Errorf("payload size must be at least 1, got %d", c.PayloadSize)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %d", c.Rate)
	}
	if c.Verify && c.Op != OpGet {
		return fmt.Errorf("verify is only supported for the get test")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Transport", c.Transport)
	addField("Server", c.Endpoint)
	addField("Bind", c.Bind)
	addField("Timeout", c.Timeout.String())
	addField("Frame Size", fmt.Sprintf("%d bytes", c.FrameSize))

	addSection("Workload")
	addField("Test", c.Op.String())
	addField("Requests", strconv.Itoa(c.Requests))
	addField("Key Space", strconv.FormatUint(uint64(c.KeySpace), 10))
	addField("Payload Size", fmt.Sprintf("%d bytes", c.PayloadSize))
	if c.Rate > 0 {
		addField("Rate", fmt.Sprintf("%d req/s", c.Rate))
	} else {
		addField("Rate", "unlimited")
	}
	addField("Verify", strconv.FormatBool(c.Verify))

	return sb.String()
}

func formatTimeout(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
