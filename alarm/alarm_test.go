package alarm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"camect-relay/camect"
	"camect-relay/config"
)

type call struct {
	caption  string
	cameraID string
}

type fakeSink struct {
	calls []call
	fail  map[string]error
}

func (f *fakeSink) CreateEvent(ctx context.Context, caption, cameraID string) error {
	f.calls = append(f.calls, call{caption, cameraID})
	return f.fail[caption]
}

func testCameras() []*config.CameraConfig {
	var cams []*config.CameraConfig
	for i := 1; i <= 8; i++ {
		cams = append(cams, &config.CameraConfig{
			ID:      fmt.Sprintf("id-%d", i),
			Name:    fmt.Sprint(i),
			Caption: fmt.Sprintf("cam%d", i),
		})
	}
	return cams
}

func newTestAlarm(sink Sink, armed bool) *Alarm {
	return NewAlarm(&config.Config{
		Cameras: testCameras(),
		Relay:   config.RelayConfig{Label: "person", StartArmed: armed},
	}, sink)
}

func Test_RouteOwnCamera(t *testing.T) {
	cams := testCameras()
	for _, cam := range cams {
		evt := camect.Event{DetectedObjects: []string{"person", "car"}, CameraName: cam.Name}
		calls := Route(cams, "person", evt)
		if len(calls) != 1 {
			t.Fatalf("camera %s: %d calls, want 1", cam.Name, len(calls))
		}
		if calls[0].Camera.ID != cam.ID {
			t.Errorf("camera %s routed to %s", cam.Name, calls[0].Camera.ID)
		}
	}
}

func Test_RouteWithoutPerson(t *testing.T) {
	cams := testCameras()
	for _, name := range []string{"1", "3", "8", "unknown", ""} {
		evt := camect.Event{DetectedObjects: []string{"car", "dog"}, CameraName: name}
		if calls := Route(cams, "person", evt); len(calls) != 0 {
			t.Errorf("camera %q: %d calls, want 0", name, len(calls))
		}
	}
}

func Test_RouteUnknownCamera(t *testing.T) {
	evt := camect.Event{DetectedObjects: []string{"person"}, CameraName: "Garage"}
	if calls := Route(testCameras(), "person", evt); len(calls) != 0 {
		t.Errorf("%d calls, want 0", len(calls))
	}
}

func Test_RouteExactName(t *testing.T) {
	cams := []*config.CameraConfig{
		{ID: "id-1", Name: "1", Caption: "cam1"},
		{ID: "id-10", Name: "10", Caption: "cam10"},
	}
	calls := Route(cams, "person", camect.Event{DetectedObjects: []string{"person"}, CameraName: "10"})
	if len(calls) != 1 || calls[0].Camera.ID != "id-10" {
		t.Errorf("calls = %+v, want only id-10", calls)
	}
}

func Test_RouteDuplicateNames(t *testing.T) {
	cams := []*config.CameraConfig{
		{ID: "a", Name: "porch", Caption: "front"},
		{ID: "b", Name: "yard", Caption: "yard"},
		{ID: "c", Name: "porch", Caption: "porch-wide"},
	}
	calls := Route(cams, "person", camect.Event{DetectedObjects: []string{"person"}, CameraName: "porch"})
	if len(calls) != 2 || calls[0].Camera.ID != "a" || calls[1].Camera.ID != "c" {
		t.Errorf("calls = %+v, want a then c", calls)
	}
}

func Test_Dispatch(t *testing.T) {
	sink := &fakeSink{}
	a := newTestAlarm(sink, true)

	a.Dispatch(context.Background(), camect.Event{DetectedObjects: []string{"person", "car"}, CameraName: "3"})
	a.Dispatch(context.Background(), camect.Event{DetectedObjects: []string{"car"}, CameraName: "3"})

	if len(sink.calls) != 1 {
		t.Fatalf("%d calls, want 1", len(sink.calls))
	}
	if sink.calls[0] != (call{"cam3", "id-3"}) {
		t.Errorf("call = %+v", sink.calls[0])
	}
}

func Test_DispatchFailureContinues(t *testing.T) {
	sink := &fakeSink{fail: map[string]error{"front": errors.New("connection refused")}}
	a := NewAlarm(&config.Config{
		Cameras: []*config.CameraConfig{
			{ID: "a", Name: "porch", Caption: "front"},
			{ID: "c", Name: "porch", Caption: "porch-wide"},
		},
		Relay: config.RelayConfig{Label: "person", StartArmed: true},
	}, sink)

	a.Dispatch(context.Background(), camect.Event{DetectedObjects: []string{"person"}, CameraName: "porch"})

	if len(sink.calls) != 2 {
		t.Fatalf("%d calls, want 2", len(sink.calls))
	}
}

func Test_DispatchDisarmed(t *testing.T) {
	sink := &fakeSink{}
	a := newTestAlarm(sink, false)
	evt := camect.Event{DetectedObjects: []string{"person"}, CameraName: "1"}

	a.Dispatch(context.Background(), evt)
	if len(sink.calls) != 0 {
		t.Fatalf("%d calls while disarmed, want 0", len(sink.calls))
	}

	a.Start(context.Background())
	a.Dispatch(context.Background(), evt)
	if len(sink.calls) != 1 {
		t.Fatalf("%d calls after Start, want 1", len(sink.calls))
	}

	a.Stop(context.Background())
	a.Dispatch(context.Background(), evt)
	if len(sink.calls) != 1 {
		t.Fatalf("%d calls after Stop, want 1", len(sink.calls))
	}
}

func Test_DispatchMissingCamera(t *testing.T) {
	sink := &fakeSink{}
	a := newTestAlarm(sink, true)

	a.Dispatch(context.Background(), camect.Event{DetectedObjects: []string{"person"}})
	if len(sink.calls) != 0 {
		t.Errorf("%d calls, want 0", len(sink.calls))
	}
}

func Test_State(t *testing.T) {
	a := newTestAlarm(&fakeSink{}, true)
	if a.State() != STATE_ARMED || a.State().String() != "armed" {
		t.Errorf("state = %v", a.State())
	}
	a.Stop(context.Background())
	a.Stop(context.Background())
	if a.State() != STATE_DISARMED || a.State().String() != "disarmed" {
		t.Errorf("state = %v", a.State())
	}
}

func Test_WebhookURLPerCamera(t *testing.T) {
	a := NewAlarm(&config.Config{
		VMS:     config.VMSConfig{URL: "http://nx.local:7001"},
		Cameras: testCameras(),
		Relay:   config.RelayConfig{Label: "person", StartArmed: true},
	}, &fakeSink{})

	seen := map[string]bool{}
	for _, cam := range testCameras() {
		calls := Route(a.cameras, "person", camect.Event{DetectedObjects: []string{"person"}, CameraName: cam.Name})
		if len(calls) != 1 {
			t.Fatalf("camera %s: %d calls, want 1", cam.Name, len(calls))
		}
		got := a.WebhookURL(calls[0])
		if want := cam.WebhookURL("http://nx.local:7001"); got != want {
			t.Errorf("camera %s: url = %s, want %s", cam.Name, got, want)
		}
		if seen[got] {
			t.Errorf("camera %s shares webhook %s with another camera", cam.Name, got)
		}
		seen[got] = true
	}
}
