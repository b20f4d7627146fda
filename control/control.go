package control

import (
	"context"
	"fmt"

	"camect-relay/config"
	"camect-relay/log"
)

// RuleSink stores an event rule on the VMS.
type RuleSink interface {
	SaveEventRule(ctx context.Context, body []byte) error
}

// Lifecycle starts and stops whatever consumes hub events.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Controller flips the VMS alert rules. There is no arm state: every call
// resends its pair, in order, whatever came before.
type Controller struct {
	rules config.RulePayloads
	sink  RuleSink
	hook  Lifecycle
}

func NewController(rules config.RulePayloads, sink RuleSink, hook Lifecycle) *Controller {
	return &Controller{rules: rules, sink: sink, hook: hook}
}

func (c *Controller) Arm(ctx context.Context) error {
	log.Infoln("ARM")
	if c.hook != nil {
		if err := c.hook.Start(ctx); err != nil {
			return fmt.Errorf("start relay: %w", err)
		}
	}
	return c.send(ctx, "arm", c.rules.ArmDisable, c.rules.ArmEnable)
}

func (c *Controller) Disarm(ctx context.Context) error {
	log.Infoln("DISARM")
	if c.hook != nil {
		if err := c.hook.Stop(ctx); err != nil {
			return fmt.Errorf("stop relay: %w", err)
		}
	}
	return c.send(ctx, "disarm", c.rules.DisarmDisable, c.rules.DisarmEnable)
}

func (c *Controller) send(ctx context.Context, action string, payloads ...[]byte) error {
	for i, body := range payloads {
		if err := c.sink.SaveEventRule(ctx, body); err != nil {
			return fmt.Errorf("%s rule %d/%d: %w", action, i+1, len(payloads), err)
		}
	}
	return nil
}
