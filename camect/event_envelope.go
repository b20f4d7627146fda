package camect

// Event is one frame from the hub's event stream. Alerts carry the labels the
// hub detected and the camera they came from.
type Event struct {
	Type            string   `json:"type"`
	Description     string   `json:"desc"`
	URL             string   `json:"url"`
	CameraID        string   `json:"cam_id"`
	CameraName      string   `json:"cam_name"`
	DetectedObjects []string `json:"detected_obj"`
	Mode            string   `json:"mode,omitempty"`
}

const (
	EVENT_ALERT = "alert"
	EVENT_MODE  = "mode"
)

func (e Event) Has(label string) bool {
	for _, obj := range e.DetectedObjects {
		if obj == label {
			return true
		}
	}
	return false
}
