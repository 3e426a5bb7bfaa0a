package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/kvbench/cmd/bench"
	"github.com/ValentinKolb/kvbench/cmd/serve"
	"github.com/ValentinKolb/kvbench/cmd/util"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/serializer"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvbench",
		Short: "key-value store latency benchmark",
		Long: fmt.Sprintf(`kvbench (v%s)

A request/response latency benchmark for a minimal key-value store.
The server answers SET and GET datagrams from an in-memory array or a
memory-mapped accelerator and reports per-stage timings, the client
measures round-trip times and throughput.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvbench v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, serializer.SerializerText, util.WrapString("request encoding to use (text, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, common.TransportUDP, util.WrapString("transport to use (udp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
