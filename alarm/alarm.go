package alarm

import (
	"context"
	"sync/atomic"

	"camect-relay/camect"
	"camect-relay/config"
	"camect-relay/log"

	"github.com/google/uuid"
)

type State int32

const (
	STATE_DISARMED State = iota
	STATE_ARMED
)

func (s State) String() string {
	if s == STATE_ARMED {
		return "armed"
	}
	return "disarmed"
}

// Sink records a generic event on the VMS.
type Sink interface {
	CreateEvent(ctx context.Context, caption, cameraID string) error
}

// Call is one outbound createEvent request.
type Call struct {
	Camera *config.CameraConfig
}

// Route returns the calls an event produces: one per camera whose name
// equals the event's camera name, in config order, and only when label is
// among the detected objects.
func Route(cameras []*config.CameraConfig, label string, evt camect.Event) []Call {
	if !evt.Has(label) {
		return nil
	}
	var calls []Call
	for _, cam := range cameras {
		if cam.Name == evt.CameraName {
			calls = append(calls, Call{Camera: cam})
		}
	}
	return calls
}

// Alarm forwards hub detections to the VMS while armed.
type Alarm struct {
	cameras []*config.CameraConfig
	label   string
	vmsURL  string
	sink    Sink
	state   atomic.Int32
}

func NewAlarm(conf *config.Config, sink Sink) *Alarm {
	a := Alarm{
		cameras: conf.Cameras,
		label:   conf.Relay.Label,
		vmsURL:  conf.VMS.URL,
		sink:    sink,
	}
	if conf.Relay.StartArmed {
		a.state.Store(int32(STATE_ARMED))
	}
	return &a
}

// WebhookURL is where a routed call lands on the VMS.
func (a *Alarm) WebhookURL(c Call) string {
	return c.Camera.WebhookURL(a.vmsURL)
}

func (a *Alarm) State() State {
	return State(a.state.Load())
}

// Start opens the relay. It satisfies the control lifecycle hook.
func (a *Alarm) Start(ctx context.Context) error {
	if prev := State(a.state.Swap(int32(STATE_ARMED))); prev != STATE_ARMED {
		log.Infoln("Relay armed.")
	}
	return nil
}

// Stop closes the relay; events are dropped until the next Start.
func (a *Alarm) Stop(ctx context.Context) error {
	if prev := State(a.state.Swap(int32(STATE_DISARMED))); prev != STATE_DISARMED {
		log.Infoln("Relay disarmed.")
	}
	return nil
}

// Dispatch sends one createEvent per routed camera. Failures are logged and
// dropped; a failed call does not stop the ones after it.
func (a *Alarm) Dispatch(ctx context.Context, evt camect.Event) {
	l := log.With("event", uuid.NewString(), "camera", evt.CameraName)

	if evt.CameraName == "" {
		l.Warnf("Skipping alert without camera name: %q", evt.Description)
		return
	}
	if a.State() != STATE_ARMED {
		l.Debugf("Relay disarmed, dropping %v", evt.DetectedObjects)
		return
	}

	calls := Route(a.cameras, a.label, evt)
	if len(calls) == 0 {
		l.Debugf("No route for %v", evt.DetectedObjects)
		return
	}

	for _, c := range calls {
		l.Infof("%s has detected a %s", c.Camera.Caption, a.label)
		l.Debugf("GET %s", a.WebhookURL(c))
		if err := a.sink.CreateEvent(ctx, c.Camera.Caption, c.Camera.ID); err != nil {
			l.Errorf("Forward to %s failed: %v", c.Camera.Caption, err)
		}
	}
}
