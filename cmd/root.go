package cmd

import (
	"context"

	"camect-relay/config"
	"camect-relay/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "camect-relay",
	Short: "Relay Camect hub detections to an NX Witness server",
	Long: `Forwards person detections from a Camect hub to the NX Witness generic
event API and serves a small HTTP endpoint to arm and disarm the relay.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsConfig(cmd) {
			return nil
		}
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		log.Init(cfg.LogLevel)
		return nil
	},
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	defer log.Sync()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	return 0
}

// Commands that never touch the hub or the VMS run without a config.
var configFree = map[string]bool{
	"help":             true,
	"version":          true,
	"completion":       true,
	"__complete":       true,
	"__completeNoDesc": true,
}

func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil && c.HasParent(); c = c.Parent() {
		if configFree[c.Name()] {
			return false
		}
	}
	return true
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is camect-relay.yaml next to the binary or in $HOME)")
}
