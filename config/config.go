package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LogLevel int

const (
	LOG_DEBUG LogLevel = iota
	LOG_INFO
	LOG_WARN
	LOG_ERROR
)

const (
	configName = "camect-relay"
	envPrefix  = "CAMECT_RELAY"
)

var (
	loglevel   string        = "info"
	listenPort int           = 8080
	vmsURL     string        = "http://localhost:7001"
	vmsUser    string        = "admin"
	vmsTimeout time.Duration = 10 * time.Second
	hubHost    string        = "camect.local:443"
	hubUser    string        = "admin"
	relayLabel string        = "person"
)

var ruleDefaults = map[string]string{
	"rules.arm_disable":    "json/inschakelen_disable.json",
	"rules.arm_enable":     "json/uitschakelen_enable.json",
	"rules.disarm_disable": "json/uitschakelen_disable.json",
	"rules.disarm_enable":  "json/inschakelen_enable.json",
}

// Error is a configuration problem. It is fatal at startup.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LOG_DEBUG, nil
	case "", "info":
		return LOG_INFO, nil
	case "warn", "warning":
		return LOG_WARN, nil
	case "error":
		return LOG_ERROR, nil
	}
	return LOG_INFO, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) String() string {
	switch l {
	case LOG_DEBUG:
		return "debug"
	case LOG_WARN:
		return "warn"
	case LOG_ERROR:
		return "error"
	}
	return "info"
}

// Load reads the config file at path, or camect-relay.{yaml,json} next to the
// executable or in $HOME when path is empty. A .env file in the working
// directory and CAMECT_RELAY_* variables override file values. Relative rule
// paths resolve against the config file's directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &Error{Key: ".env", Err: err}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		if exe, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(exe))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, &Error{Key: "file", Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Key: "decode", Err: err}
	}

	base := ""
	if used := v.ConfigFileUsed(); used != "" {
		base = filepath.Dir(used)
	}
	if err := cfg.finish(base); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", loglevel)
	v.SetDefault("listen.host", "")
	v.SetDefault("listen.port", listenPort)
	v.SetDefault("vms.url", vmsURL)
	v.SetDefault("vms.user", vmsUser)
	v.SetDefault("vms.password", "")
	v.SetDefault("vms.timeout", vmsTimeout)
	v.SetDefault("hub.host", hubHost)
	v.SetDefault("hub.user", hubUser)
	v.SetDefault("hub.password", "")
	v.SetDefault("hub.insecure", true)
	v.SetDefault("relay.label", relayLabel)
	v.SetDefault("relay.start_armed", true)
	v.SetDefault("control.service_unit", "")
	for k, p := range ruleDefaults {
		v.SetDefault(k, p)
	}
}

func (cfg *Config) finish(base string) error {
	var err error
	if cfg.LogLevel, err = ParseLogLevel(cfg.LoglevelStr); err != nil {
		return &Error{Key: "loglevel", Err: err}
	}
	if cfg.VMS.URL == "" {
		return &Error{Key: "vms.url", Err: errors.New("must be set")}
	}
	cfg.VMS.URL = strings.TrimRight(cfg.VMS.URL, "/")
	if cfg.VMS.Timeout <= 0 {
		cfg.VMS.Timeout = vmsTimeout
	}
	if cfg.Listen.Port <= 0 || cfg.Listen.Port > 65535 {
		return &Error{Key: "listen.port", Err: fmt.Errorf("out of range: %d", cfg.Listen.Port)}
	}
	if cfg.Relay.Label == "" {
		cfg.Relay.Label = relayLabel
	}

	for i, cam := range cfg.Cameras {
		if cam == nil || cam.ID == "" || cam.Name == "" {
			return &Error{Key: fmt.Sprintf("cameras[%d]", i), Err: errors.New("id and name are required")}
		}
		if cam.Caption == "" {
			cam.Caption = "cam" + cam.Name
		}
	}

	files := []struct {
		key  string
		path string
		dst  *[]byte
	}{
		{"rules.arm_disable", cfg.RuleFiles.ArmDisable, &cfg.Rules.ArmDisable},
		{"rules.arm_enable", cfg.RuleFiles.ArmEnable, &cfg.Rules.ArmEnable},
		{"rules.disarm_disable", cfg.RuleFiles.DisarmDisable, &cfg.Rules.DisarmDisable},
		{"rules.disarm_enable", cfg.RuleFiles.DisarmEnable, &cfg.Rules.DisarmEnable},
	}
	for _, f := range files {
		p := f.path
		if p == "" {
			return &Error{Key: f.key, Err: errors.New("must be set")}
		}
		if !filepath.IsAbs(p) && base != "" {
			p = filepath.Join(base, p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return &Error{Key: f.key, Err: err}
		}
		*f.dst = data
	}

	return nil
}

// ListenAddr is the host:port the control endpoint binds to.
func (cfg *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Listen.Host, cfg.Listen.Port)
}
