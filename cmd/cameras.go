package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"camect-relay/camect"

	"github.com/spf13/cobra"
)

var jsonOutput bool

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List the hub's cameras and which ones are relayed",
	RunE: func(cmd *cobra.Command, args []string) error {
		hub := camect.NewClient(cfg.Hub)
		cams, err := hub.ListCameras(cmd.Context())
		if err != nil {
			return fmt.Errorf("error fetching cameras: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cams)
		}

		if len(cams) == 0 {
			fmt.Println("No cameras found.")
			return nil
		}

		relayed := map[string]string{}
		for _, c := range cfg.Cameras {
			relayed[c.Name] = c.Caption
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tMAKE\tIP\tMAC\tRELAYED AS")
		fmt.Fprintln(w, "----\t----\t--\t---\t----------")
		for _, c := range cams {
			as := relayed[c.Name]
			if as == "" {
				as = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Make, c.IPAddr, c.MACAddr, as)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(camerasCmd)
	camerasCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
}
