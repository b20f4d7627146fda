package config

import (
	"encoding/json"
	"net/url"
	"strings"
)

type CameraConfig struct {
	ID      string `mapstructure:"id"`
	Name    string `mapstructure:"name"`
	Caption string `mapstructure:"caption"`
}

type eventMetadata struct {
	CameraRefs []string `json:"cameraRefs"`
}

// EventQuery returns the createEvent query for a caption and camera reference.
func EventQuery(caption, cameraID string) url.Values {
	meta, _ := json.Marshal(eventMetadata{CameraRefs: []string{cameraID}})
	q := url.Values{}
	q.Set("caption", caption)
	q.Set("metadata", string(meta))
	return q
}

// WebhookURL is the generic-event URL on the VMS for this camera.
func (c *CameraConfig) WebhookURL(vmsBase string) string {
	return strings.TrimRight(vmsBase, "/") + "/api/createEvent?" + EventQuery(c.Caption, c.ID).Encode()
}
