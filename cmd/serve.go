package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"camect-relay/alarm"
	"camect-relay/camect"
	"camect-relay/control"
	"camect-relay/log"
	"camect-relay/nx"

	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveRelay   bool
	serveControl bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [port]",
	Short: "Run the event relay and the control endpoint",
	Example: `  camect-relay serve
  camect-relay serve 8081
  camect-relay serve --control=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := resolvePort(args, cmd.Flags().Changed("port"), servePort, cfg.Listen.Port)
		if err != nil {
			return err
		}
		cfg.Listen.Port = port
		if err := checkModes(serveRelay, serveControl); err != nil {
			return err
		}

		ctx := cmd.Context()
		vms := nx.NewClient(cfg.VMS)
		relay := alarm.NewAlarm(cfg, vms)
		hook := selectHook(cfg.Control.ServiceUnit, relay)

		var services []func(context.Context) error
		if serveRelay {
			hub := camect.NewClient(cfg.Hub)
			if err := hub.Validate(); err != nil {
				return err
			}
			services = append(services, func(ctx context.Context) error {
				logHub(ctx, hub)
				log.Infof("Relaying %d cameras, relay %s", len(cfg.Cameras), relay.State())
				return hub.Listen(ctx, relay.Dispatch)
			})
		}
		if serveControl {
			ctl := control.NewController(cfg.Rules, vms, hook)
			srv := control.NewServer(ctl, func() string { return relay.State().String() })
			services = append(services, func(ctx context.Context) error {
				return srv.ListenAndServe(ctx, cfg.ListenAddr())
			})
		}

		err = runServices(ctx, services...)
		log.Infoln("Goodbye!")
		return err
	},
}

// runServices starts every service on its own goroutine and waits for all of
// them. The first failure cancels the rest and is returned.
func runServices(ctx context.Context, services ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errc := make(chan error, len(services))
	for _, run := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				cancel()
				errc <- err
			}
		}()
	}
	wg.Wait()
	close(errc)
	return <-errc
}

// resolvePort picks the control port: a positional argument wins over
// --port, which wins over listen.port.
func resolvePort(args []string, flagSet bool, flagPort, configured int) (int, error) {
	port := configured
	if len(args) == 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid port %q: %w", args[0], err)
		}
		port = p
	} else if flagSet {
		port = flagPort
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

func checkModes(relay, ctl bool) error {
	if !relay && !ctl {
		return errors.New("nothing to run: both --relay and --control are disabled")
	}
	return nil
}

// selectHook drives a systemd unit when one is configured, the in-process
// relay gate otherwise.
func selectHook(unit string, relay control.Lifecycle) control.Lifecycle {
	if unit != "" {
		return control.NewSystemdUnit(unit)
	}
	return relay
}

// logHub prints what the hub reports about itself. Failures are not fatal;
// the listener keeps retrying on its own.
func logHub(ctx context.Context, hub *camect.Client) {
	info, err := hub.GetHomeInfo(ctx)
	if err != nil {
		log.Warnf("Hub info unavailable: %v", err)
		return
	}
	log.Infof("Hub %q in mode %q", info.Name, info.Mode)

	cams, err := hub.ListCameras(ctx)
	if err != nil {
		log.Warnf("Hub camera list unavailable: %v", err)
		return
	}
	for _, c := range cams {
		log.Infof("%s(%s) @%s(%s)", c.Name, c.Make, c.IPAddr, c.MACAddr)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "control endpoint port (overrides listen.port)")
	serveCmd.Flags().BoolVar(&serveRelay, "relay", true, "subscribe to hub events and forward them")
	serveCmd.Flags().BoolVar(&serveControl, "control", true, "serve the arm/disarm endpoint")
}
