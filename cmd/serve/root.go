package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cmdUtil "github.com/ValentinKolb/kvbench/cmd/util"
	"github.com/ValentinKolb/kvbench/lib/store/array"
	"github.com/ValentinKolb/kvbench/lib/store/register"
	"github.com/ValentinKolb/kvbench/lib/timing"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the benchmark server",
		Long:    `Start the benchmark server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is KVBENCH_<flag> (e.g. KVBENCH_BACKEND=register). The server runs until it receives SIGINT or SIGTERM.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:7777", cmdUtil.WrapString("The address on which the server will listen (e.g. 0.0.0.0:7777 for udp, /tmp/kvbench.sock for unix)"))

	key = "backend"
	ServeCmd.PersistentFlags().String(key, string(common.BackendArray), cmdUtil.WrapString("Storage backend: array (in-memory slots), register (memory mapped accelerator) or sim (register protocol against a simulated device)"))

	key = "capacity"
	ServeCmd.PersistentFlags().Int(key, array.DefaultCapacity, cmdUtil.WrapString("Number of keys of the array and sim backends. Keys at or beyond the capacity are rejected"))

	key = "device-path"
	ServeCmd.PersistentFlags().String(key, register.DefaultDevicePath, cmdUtil.WrapString("(register backend) Path of the device resource to map"))

	key = "device-size"
	ServeCmd.PersistentFlags().Uint32(key, register.DefaultDeviceSize, cmdUtil.WrapString("(register and sim backend) Size of the mapped register region in bytes"))

	key = "device-timeout"
	ServeCmd.PersistentFlags().Duration(key, register.DefaultTimeout, cmdUtil.WrapString("(register and sim backend) How long a GET polls the ready flag before failing. 0 polls forever"))

	key = "sim-ready-polls"
	ServeCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("(sim backend) Number of polls that see the ready flag cleared before it is raised. Negative values never raise it"))

	key = "frame-size"
	ServeCmd.PersistentFlags().Int(key, common.DefaultFrameSize, cmdUtil.WrapString("Size of every response datagram in bytes"))

	key = "socket-buffer"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Socket read and write buffer size in bytes (0 keeps the OS default)"))

	key = "warmup"
	ServeCmd.PersistentFlags().Int(key, timing.DefaultWarmup, cmdUtil.WrapString("Number of requests whose timings are discarded before aggregation starts"))

	key = "batch-size"
	ServeCmd.PersistentFlags().Int(key, timing.DefaultBatchSize, cmdUtil.WrapString("Number of requests per reported batch of mean stage timings"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of the HTTP endpoint serving /metrics, /peers and /debug/pprof (empty disables it)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	backend, err := common.ParseBackendType(viper.GetString("backend"))
	if err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Transport = viper.GetString("transport")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.FrameSize = viper.GetInt("frame-size")
	serveCmdConfig.SocketBuffer = viper.GetInt("socket-buffer")
	serveCmdConfig.Backend = backend
	serveCmdConfig.Capacity = viper.GetInt("capacity")
	serveCmdConfig.DevicePath = viper.GetString("device-path")
	serveCmdConfig.DeviceSize = viper.GetUint32("device-size")
	serveCmdConfig.DeviceTimeout = viper.GetDuration("device-timeout")
	serveCmdConfig.SimReadyPolls = viper.GetInt("sim-ready-polls")
	serveCmdConfig.Warmup = viper.GetInt("warmup")
	serveCmdConfig.BatchSize = viper.GetInt("batch-size")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return serveCmdConfig.Validate()
}

// run starts the benchmark server
func run(cmd *cobra.Command, _ []string) error {
	// the configuration is valid, errors from here on are not usage errors
	cmd.SilenceUsage = true

	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	backend, err := server.NewStore(*serveCmdConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize %s backend: %w", serveCmdConfig.Backend, err)
	}

	processor, err := server.NewRequestProcessor(*serveCmdConfig, backend, t, s)
	if err != nil {
		_ = backend.Close()
		return err
	}

	fmt.Print(serveCmdConfig.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return processor.Serve(ctx)
}
