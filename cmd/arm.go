package cmd

import (
	"fmt"

	"camect-relay/control"
	"camect-relay/nx"

	"github.com/spf13/cobra"
)

// One-shot commands only post the rule pairs; with a service unit configured
// they also drive it. There is no in-process relay to gate here.
func oneShotController() *control.Controller {
	return control.NewController(cfg.Rules, nx.NewClient(cfg.VMS), selectHook(cfg.Control.ServiceUnit, nil))
}

var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Post the arm rule pair to the VMS once",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := oneShotController().Arm(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Armed.")
		return nil
	},
}

var disarmCmd = &cobra.Command{
	Use:   "disarm",
	Short: "Post the disarm rule pair to the VMS once",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := oneShotController().Disarm(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Disarmed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(armCmd)
	rootCmd.AddCommand(disarmCmd)
}
