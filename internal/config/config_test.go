package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write test config: %v", err)
	}
	return path
}

const validConfig = `
mqtt:
  broker: "192.168.1.10"
  port: 1883
  username: "bridge"
  password: "secret"
homeassistant:
  device_id: "sprsun_heatpump"
  device_name: "SPRSUN Heat Pump"
  status_topic: "sprsun/bridge/status"
  diagnostic_topic: "sprsun/bridge/diagnostic"
modbus:
  connection: tcp
  host: "192.168.1.50"
  port: 4196
  slave_id: 1
polling:
  default_interval: 30000
  group_intervals:
    sensors: 10000
`

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MQTT.Broker != "192.168.1.10" {
		t.Errorf("broker = %s", cfg.MQTT.Broker)
	}
	if cfg.Modbus.Host != "192.168.1.50" {
		t.Errorf("host = %s", cfg.Modbus.Host)
	}
	if cfg.Modbus.Port != 4196 {
		t.Errorf("port = %d", cfg.Modbus.Port)
	}
}

func TestDefaultsApplied(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Modbus.Timeout != 5000 {
		t.Errorf("default timeout = %d, expected 5000", cfg.Modbus.Timeout)
	}
	if cfg.Modbus.Baudrate != 19200 {
		t.Errorf("default baudrate = %d, expected 19200", cfg.Modbus.Baudrate)
	}
	if cfg.MQTT.ClientID != "sprsun_modbus_bridge" {
		t.Errorf("default client id = %s", cfg.MQTT.ClientID)
	}
	if cfg.HomeAssistant.DiscoveryPrefix != "homeassistant" {
		t.Errorf("default discovery prefix = %s", cfg.HomeAssistant.DiscoveryPrefix)
	}
	if cfg.HomeAssistant.BaseTopic != "sprsun" {
		t.Errorf("default base topic = %s", cfg.HomeAssistant.BaseTopic)
	}
}

func TestGroupInterval(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if got := cfg.GroupInterval("sensors"); got != 10000 {
		t.Errorf("sensors interval = %d, expected 10000", got)
	}
	if got := cfg.GroupInterval("power"); got != 30000 {
		t.Errorf("power interval = %d, expected default 30000", got)
	}
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "missing broker",
			mutate: func(c *Config) { c.MQTT.Broker = "" },
		},
		{
			name:   "missing tcp host",
			mutate: func(c *Config) { c.Modbus.Host = "" },
		},
		{
			name: "serial without device",
			mutate: func(c *Config) {
				c.Modbus.Connection = ConnectionSerial
				c.Modbus.SerialPort = ""
			},
		},
		{
			name:   "unknown connection type",
			mutate: func(c *Config) { c.Modbus.Connection = "udp" },
		},
		{
			name:   "missing device id",
			mutate: func(c *Config) { c.HomeAssistant.DeviceID = "" },
		},
		{
			name:   "negative group interval",
			mutate: func(c *Config) { c.Polling.GroupIntervals = map[string]int{"sensors": -1} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, validConfig)
			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should have failed")
			}
		})
	}
}

func TestCredentialsFromEnvironment(t *testing.T) {
	t.Setenv("MQTT_USERNAME", "env_user")
	t.Setenv("MQTT_PASSWORD", "env_pass")

	path := writeConfig(t, `
mqtt:
  broker: "192.168.1.10"
  port: 1883
homeassistant:
  device_id: "sprsun_heatpump"
  status_topic: "sprsun/bridge/status"
  diagnostic_topic: "sprsun/bridge/diagnostic"
modbus:
  connection: tcp
  host: "192.168.1.50"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MQTT.Username != "env_user" || cfg.MQTT.Password != "env_pass" {
		t.Errorf("credentials not taken from environment: %s/%s", cfg.MQTT.Username, cfg.MQTT.Password)
	}
}
