package control

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"camect-relay/log"
)

// SystemdUnit drives a separately installed relay unit through systemctl.
type SystemdUnit struct {
	Unit string
	run  func(ctx context.Context, name string, args ...string) error
}

func NewSystemdUnit(unit string) *SystemdUnit {
	return &SystemdUnit{Unit: unit, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (s *SystemdUnit) Start(ctx context.Context) error {
	return s.systemctl(ctx, "enable", "start")
}

func (s *SystemdUnit) Stop(ctx context.Context) error {
	return s.systemctl(ctx, "disable", "stop")
}

func (s *SystemdUnit) systemctl(ctx context.Context, verbs ...string) error {
	for _, verb := range verbs {
		log.Debugf("systemctl %s %s", verb, s.Unit)
		if err := s.run(ctx, "systemctl", verb, s.Unit); err != nil {
			return err
		}
	}
	return nil
}
