package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sprsun-modbus-bridge/internal/logger"
)

// Modbus connection kinds supported by the reader
const (
	ConnectionTCP    = "tcp"
	ConnectionSerial = "serial"
)

// Config represents the complete application configuration
// Follows SRP - only responsible for configuration management
type Config struct {
	MQTT          MQTTConfig           `yaml:"mqtt"`
	HomeAssistant HAConfig             `yaml:"homeassistant"`
	Modbus        ModbusConfig         `yaml:"modbus"`
	Polling       PollingConfig        `yaml:"polling"`
	Logging       logger.LoggingConfig `yaml:"logging"`
}

// MQTTConfig contains MQTT broker settings
type MQTTConfig struct {
	Broker     string `yaml:"broker"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	ClientID   string `yaml:"client_id"`
	RetryDelay int    `yaml:"retry_delay"` // Delay between connection retries in milliseconds
}

// HAConfig contains Home Assistant MQTT Discovery settings
type HAConfig struct {
	DiscoveryPrefix string `yaml:"discovery_prefix"`
	DeviceName      string `yaml:"device_name"`
	DeviceID        string `yaml:"device_id"`
	Manufacturer    string `yaml:"manufacturer"`
	Model           string `yaml:"model"`
	StatusTopic     string `yaml:"status_topic"`
	DiagnosticTopic string `yaml:"diagnostic_topic"`
	BaseTopic       string `yaml:"base_topic"`
}

// ModbusConfig contains heat pump connection settings
type ModbusConfig struct {
	Connection     string `yaml:"connection"`  // "tcp" or "serial"
	Host           string `yaml:"host"`        // tcp only
	Port           int    `yaml:"port"`        // tcp only
	SerialPort     string `yaml:"serial_port"` // serial only, e.g. /dev/ttyUSB0
	Baudrate       int    `yaml:"baudrate"`    // serial only
	SlaveID        uint8  `yaml:"slave_id"`
	RegisterOffset uint16 `yaml:"register_offset"` // controllers with a shifted map, e.g. +2000
	Timeout        int    `yaml:"timeout"`         // transaction timeout in milliseconds
}

// PollingConfig contains per-group poll intervals in milliseconds.
// Groups missing from the map fall back to DefaultInterval.
type PollingConfig struct {
	DefaultInterval int            `yaml:"default_interval"`
	GroupIntervals  map[string]int `yaml:"group_intervals"`
}

// LoadConfig loads configuration from specified file
func LoadConfig(configPath string) (*Config, error) {
	// Try to find configuration file in different locations
	paths := []string{
		configPath,
		"/etc/sprsun-modbus-bridge/config.yaml",
		"/etc/sprsun-modbus-bridge.yaml",
		"./config.yaml",
	}

	var data []byte
	var err error
	var usedPath string

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err = os.ReadFile(path)
		if err == nil {
			usedPath = path
			break
		}
	}

	if err != nil {
		return nil, fmt.Errorf("cannot read configuration file from any of the locations: %v. Last error: %w", paths, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing configuration from %s: %w", usedPath, err)
	}

	config.applyDefaults()

	// Configuration validation
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", usedPath, err)
	}

	return &config, nil
}

// applyDefaults fills optional fields. Credentials left empty in the file
// are taken from the environment so they can live in an .env file instead.
func (c *Config) applyDefaults() {
	if c.MQTT.Username == "" {
		c.MQTT.Username = os.Getenv("MQTT_USERNAME")
	}
	if c.MQTT.Password == "" {
		c.MQTT.Password = os.Getenv("MQTT_PASSWORD")
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "sprsun_modbus_bridge"
	}
	if c.Modbus.Connection == "" {
		c.Modbus.Connection = ConnectionTCP
	}
	if c.Modbus.Port == 0 {
		c.Modbus.Port = 502
	}
	if c.Modbus.Baudrate == 0 {
		c.Modbus.Baudrate = 19200
	}
	if c.Modbus.SlaveID == 0 {
		c.Modbus.SlaveID = 1
	}
	if c.Modbus.Timeout == 0 {
		c.Modbus.Timeout = 5000
	}
	if c.Polling.DefaultInterval == 0 {
		c.Polling.DefaultInterval = 30000
	}
	if c.HomeAssistant.DiscoveryPrefix == "" {
		c.HomeAssistant.DiscoveryPrefix = "homeassistant"
	}
	if c.HomeAssistant.BaseTopic == "" {
		c.HomeAssistant.BaseTopic = "sprsun"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MQTT.Broker == "" {
		return fmt.Errorf("MQTT broker is not specified")
	}
	if c.MQTT.Port <= 0 {
		return fmt.Errorf("MQTT port must be positive")
	}
	switch c.Modbus.Connection {
	case ConnectionTCP:
		if c.Modbus.Host == "" {
			return fmt.Errorf("Modbus host is not specified for tcp connection")
		}
	case ConnectionSerial:
		if c.Modbus.SerialPort == "" {
			return fmt.Errorf("Modbus serial port is not specified for serial connection")
		}
	default:
		return fmt.Errorf("unknown Modbus connection type: %s", c.Modbus.Connection)
	}
	if c.Modbus.Timeout <= 0 {
		return fmt.Errorf("Modbus timeout must be positive")
	}
	if c.Polling.DefaultInterval <= 0 {
		return fmt.Errorf("polling default interval must be positive")
	}
	for group, interval := range c.Polling.GroupIntervals {
		if interval <= 0 {
			return fmt.Errorf("polling interval for group %s must be positive", group)
		}
	}
	if c.HomeAssistant.DeviceID == "" {
		return fmt.Errorf("Home Assistant device ID is not specified")
	}
	if c.HomeAssistant.StatusTopic == "" {
		return fmt.Errorf("Home Assistant status topic is not specified")
	}
	if c.HomeAssistant.DiagnosticTopic == "" {
		return fmt.Errorf("Home Assistant diagnostic topic is not specified")
	}
	return nil
}

// GroupInterval returns the poll interval for a register group in milliseconds
func (c *Config) GroupInterval(group string) int {
	if interval, ok := c.Polling.GroupIntervals[group]; ok {
		return interval
	}
	return c.Polling.DefaultInterval
}
