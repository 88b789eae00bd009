package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vortex",
	Short: "Echo node for a Maelstrom-style test harness",
	Long: `vortex reads JSON messages from stdin and writes one correlated reply
per message to stdout. It answers init and echo requests and stops at the
end of input or at the first error.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logFile, _ := cmd.Flags().GetString("log-file")
		logLevel, _ := cmd.Flags().GetString("log-level")

		closeLog, err := setupLogging(logFile, logLevel)
		if err != nil {
			return err
		}
		defer closeLog()

		n := NewNode()
		return n.Run(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().String("log-file", "", "append logs to this file instead of stderr")
	rootCmd.Flags().String("log-level", log.InfoLevel.String(), "log level (trace, debug, info, warn, error)")
}

// setupLogging points the standard logger away from stdout, which carries
// the protocol. The returned func restores stderr and closes the file.
func setupLogging(path, level string) (func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)

	if path == "" {
		log.SetOutput(os.Stderr)
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithField("phase", Phase(err)).Fatal(err)
	}
}
