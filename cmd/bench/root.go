package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	cmdUtil "github.com/ValentinKolb/kvbench/cmd/util"
	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/ValentinKolb/kvbench/rpc/client"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultBind is the default local address of the udp client
const defaultBind = "0.0.0.0:8888"

var (
	benchCmdConfig = &common.ClientConfig{}
	BenchCmd       = &cobra.Command{
		Use:   "bench",
		Short: "Run a latency benchmark against a server",
		Long: `Send a fixed number of SET or GET requests to a benchmark server, one at a time,
and report the round-trip times and throughput. Requests that time out are counted and
skipped. The configuration can be set via command line flags or environment variables
(e.g. KVBENCH_REQUESTS=1000).`,
		Example: `  kvbench bench --test set --requests 100000
  kvbench bench --test get --verify --endpoint 10.0.0.2:7777 --csv results.csv`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	key := "endpoint"
	BenchCmd.PersistentFlags().String(key, "127.0.0.1:7777", cmdUtil.WrapString("The address of the benchmark server (host:port for udp, socket path for unix)"))

	key = "bind"
	BenchCmd.PersistentFlags().String(key, defaultBind, cmdUtil.WrapString("Local address the client binds to. For the unix transport a temporary socket is used unless set"))

	key = "test"
	BenchCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The benchmark to run: set or get (case-insensitive)"))

	key = "requests"
	BenchCmd.PersistentFlags().Int(key, 100_000, cmdUtil.WrapString("Number of requests to send"))

	key = "payload-size"
	BenchCmd.PersistentFlags().Int(key, store.ValueWidth, cmdUtil.WrapString("Bytes counted per successful response for the throughput figure"))

	key = "key-space"
	BenchCmd.PersistentFlags().Uint32(key, client.DefaultKeySpace, cmdUtil.WrapString("Number of distinct keys; the key counter wraps to 0 at this value"))

	key = "timeout"
	BenchCmd.PersistentFlags().Duration(key, 2*time.Second, cmdUtil.WrapString("How long to wait for each response"))

	key = "frame-size"
	BenchCmd.PersistentFlags().Int(key, common.DefaultFrameSize, cmdUtil.WrapString("Size of the receive buffer for responses in bytes"))

	key = "socket-buffer"
	BenchCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Socket read and write buffer size in bytes (0 keeps the OS default)"))

	key = "rate"
	BenchCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Maximum requests per second (0 is unlimited)"))

	key = "verify"
	BenchCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("(get only) Check that every key returns the value written by a previous set run"))

	key = "csv"
	BenchCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Path of a CSV file to export the results to"))

	key = "log-level"
	BenchCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the client configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	op, err := common.ParseOpCode(viper.GetString("test"))
	if err != nil {
		return err
	}

	benchCmdConfig.Transport = viper.GetString("transport")
	benchCmdConfig.Endpoint = viper.GetString("endpoint")
	benchCmdConfig.Bind = viper.GetString("bind")
	benchCmdConfig.FrameSize = viper.GetInt("frame-size")
	benchCmdConfig.SocketBuffer = viper.GetInt("socket-buffer")
	benchCmdConfig.Timeout = viper.GetDuration("timeout")
	benchCmdConfig.Op = op
	benchCmdConfig.Requests = viper.GetInt("requests")
	benchCmdConfig.KeySpace = viper.GetUint32("key-space")
	benchCmdConfig.PayloadSize = viper.GetInt("payload-size")
	benchCmdConfig.Rate = viper.GetInt("rate")
	benchCmdConfig.Verify = viper.GetBool("verify")
	benchCmdConfig.CSVPath = viper.GetString("csv")
	benchCmdConfig.LogLevel = viper.GetString("log-level")

	// the udp default is not a socket path
	if benchCmdConfig.Transport == common.TransportUnix && benchCmdConfig.Bind == defaultBind {
		benchCmdConfig.Bind = ""
	}

	return benchCmdConfig.Validate()
}

// run executes the benchmark and prints the summary
func run(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	if err := common.InitLoggers(benchCmdConfig.LogLevel); err != nil {
		return err
	}

	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetClientTransport()
	if err != nil {
		return err
	}

	fmt.Print(benchCmdConfig.String())

	generator, err := client.NewLoadGenerator(*benchCmdConfig, t, s)
	if err != nil {
		return fmt.Errorf("failed to set up the client: %w", err)
	}
	defer generator.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats := generator.Run(ctx)
	fmt.Print(stats.String())

	// Write results to csv is specified
	if csvPath := benchCmdConfig.CSVPath; csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, stats, benchCmdConfig); err != nil {
			return err
		}
		fmt.Println("Export complete")
	}

	return nil
}

// writeResultsToCSV writes the benchmark results as a single row to a CSV file
func writeResultsToCSV(csvPath string, stats *client.BenchmarkStats, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write header
	header := []string{
		"RunID", "Test", "Transport", "Endpoint", "Requests",
		"Attempted", "Succeeded", "Timeouts", "SendErrors", "ReceiveErrors",
		"ServerErrors", "Mismatches", "AvgRTTUs", "AvgRTTAttemptedUs",
		"MinRTTUs", "P50RTTUs", "P90RTTUs", "P99RTTUs", "MaxRTTUs",
		"ThroughputMiBs", "RequestsPerSec", "ElapsedSec", "Interrupted",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	us := func(d time.Duration) string {
		return strconv.FormatFloat(float64(d)/float64(time.Microsecond), 'f', 3, 64)
	}

	row := []string{
		stats.RunID,
		stats.Op.String(),
		config.Transport,
		config.Endpoint,
		strconv.Itoa(config.Requests),
		strconv.Itoa(stats.Attempted),
		strconv.Itoa(stats.Succeeded),
		strconv.Itoa(stats.Timeouts),
		strconv.Itoa(stats.SendErrors),
		strconv.Itoa(stats.ReceiveErrors),
		strconv.Itoa(stats.ServerErrors),
		strconv.Itoa(stats.Mismatches),
		us(stats.AvgRTT()),
		us(stats.AvgRTTAttempted()),
		us(stats.MinRTT),
		us(stats.Percentile(50)),
		us(stats.Percentile(90)),
		us(stats.Percentile(99)),
		us(stats.MaxRTT),
		strconv.FormatFloat(stats.Throughput(), 'f', 6, 64),
		strconv.FormatFloat(stats.RequestsPerSecond(), 'f', 0, 64),
		strconv.FormatFloat(stats.Elapsed.Seconds(), 'f', 3, 64),
		strconv.FormatBool(stats.Interrupted),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}
