package camect

type CameraListEnvelope struct {
	Camera []Camera `json:"camera"`
}

type Camera struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	IPAddr   string `json:"ip_addr"`
	MACAddr  string `json:"mac_addr"`
	Disabled bool   `json:"disabled"`
}

type HomeInfo struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}
