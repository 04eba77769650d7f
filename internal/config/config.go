package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Name        string        `toml:"name"`
	Addr        string        `toml:"addr"`
	CorsOrigins []string      `toml:"cors_origins"`
	Serial      SerialConfig  `toml:"serial"`
	Drive       DriveConfig   `toml:"drive"`
	Groups      []GroupConfig `toml:"group"`
	MQTT        MQTTConfig    `toml:"mqtt"`
	Ingest      IngestConfig  `toml:"ingest"`
}

type SerialConfig struct {
	Port string `toml:"port"`
	Baud int    `toml:"baud"`
}

type DriveConfig struct {
	FrontSprocketTeeth float64 `toml:"front_sprocket_teeth"`
	RearSprocketTeeth  float64 `toml:"rear_sprocket_teeth"`
	WheelDiameterIn    float64 `toml:"wheel_diameter_in"`
}

// GroupConfig maps one display name to the signal names it aggregates in the
// export document.
type GroupConfig struct {
	Display string   `toml:"display"`
	Signals []string `toml:"signals"`
}

type MQTTConfig struct {
	Enabled  bool   `toml:"enabled"`
	Broker   string `toml:"broker"`
	Topic    string `toml:"topic"`
	ClientID string `toml:"client_id"`
}

type IngestConfig struct {
	MaxConnectAttempts int `toml:"max_connect_attempts"`
}

func Load(path string) (Config, error) {
	var cfg Config
	if err := loadToml(path, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "telemctl"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Drive.FrontSprocketTeeth == 0 {
		cfg.Drive.FrontSprocketTeeth = 16.0
	}
	if cfg.Drive.RearSprocketTeeth == 0 {
		cfg.Drive.RearSprocketTeeth = 50.0
	}
	if cfg.Drive.WheelDiameterIn == 0 {
		cfg.Drive.WheelDiameterIn = 25.7
	}
	if cfg.MQTT.Enabled && cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = cfg.Name
	}
	if cfg.MQTT.Enabled && cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "telemetry/samples"
	}
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	if strings.TrimSpace(cfg.Serial.Port) == "" {
		return fmt.Errorf("config missing serial port")
	}
	if cfg.Serial.Baud <= 0 {
		return fmt.Errorf("config serial baud must be positive")
	}
	if cfg.Drive.FrontSprocketTeeth <= 0 || cfg.Drive.RearSprocketTeeth <= 0 {
		return fmt.Errorf("config drive sprocket teeth must be positive")
	}
	if cfg.Drive.WheelDiameterIn <= 0 {
		return fmt.Errorf("config drive wheel diameter must be positive")
	}
	seen := make(map[string]struct{}, len(cfg.Groups))
	for i, g := range cfg.Groups {
		if err := validateGroup(g); err != nil {
			return fmt.Errorf("group[%d] invalid: %w", i, err)
		}
		// Duplicate display names would silently shadow each other in the
		// export document.
		if _, dup := seen[g.Display]; dup {
			return fmt.Errorf("group[%d] duplicate display %q", i, g.Display)
		}
		seen[g.Display] = struct{}{}
	}
	if cfg.MQTT.Enabled && strings.TrimSpace(cfg.MQTT.Broker) == "" {
		return fmt.Errorf("config mqtt enabled without broker")
	}
	return nil
}

func validateGroup(g GroupConfig) error {
	if strings.TrimSpace(g.Display) == "" {
		return fmt.Errorf("display is required")
	}
	if len(g.Signals) == 0 {
		return fmt.Errorf("signals are required")
	}
	for _, name := range g.Signals {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty signal name")
		}
	}
	return nil
}
