package config

import "time"

type Config struct {
	LogLevel    LogLevel        `mapstructure:"-"`
	LoglevelStr string          `mapstructure:"loglevel"`
	Listen      ListenConfig    `mapstructure:"listen"`
	VMS         VMSConfig       `mapstructure:"vms"`
	Hub         HubConfig       `mapstructure:"hub"`
	Relay       RelayConfig     `mapstructure:"relay"`
	Control     ControlConfig   `mapstructure:"control"`
	RuleFiles   RuleFiles       `mapstructure:"rules"`
	Cameras     []*CameraConfig `mapstructure:"cameras"`

	Rules RulePayloads `mapstructure:"-"`
}

type ListenConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// VMSConfig addresses the NX Witness server that receives generic events
// and rule updates.
type VMSConfig struct {
	URL      string        `mapstructure:"url"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// HubConfig addresses the Camect hub. Host may carry a scheme; https is
// assumed otherwise.
type HubConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Insecure bool   `mapstructure:"insecure"`
}

type RelayConfig struct {
	Label      string `mapstructure:"label"`
	StartArmed bool   `mapstructure:"start_armed"`
}

type ControlConfig struct {
	ServiceUnit string `mapstructure:"service_unit"`
}

type RuleFiles struct {
	ArmDisable    string `mapstructure:"arm_disable"`
	ArmEnable     string `mapstructure:"arm_enable"`
	DisarmDisable string `mapstructure:"disarm_disable"`
	DisarmEnable  string `mapstructure:"disarm_enable"`
}

// RulePayloads holds the saveEventRule bodies, read verbatim at load time.
type RulePayloads struct {
	ArmDisable    []byte
	ArmEnable     []byte
	DisarmDisable []byte
	DisarmEnable  []byte
}
