package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	HttpPort         int    `json:"http_port"`
	FossifyAPIURL    string `json:"fossify_api_url"`
	FossifyAuthToken string `json:"fossify_auth_token"`
	BridgeSecret     string `json:"bridge_secret"`
	MmsgateURL       string `json:"mmsgate_url"`
}

// ReadConfigJson reads json formatted configuration from the given file
func ReadConfigJson(configFile string) (*Config, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	cfg := new(Config)

	if err = json.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	if cfg.HttpPort == 0 {
		cfg.HttpPort = 5000
	}
	if cfg.MmsgateURL == "" {
		cfg.MmsgateURL = "http://mmsgate:38443"
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"fossify_api_url", c.FossifyAPIURL},
		{"fossify_auth_token", c.FossifyAuthToken},
		{"bridge_secret", c.BridgeSecret},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	// refuse to start on the placeholder secret
	if c.BridgeSecret == "change-me" {
		return fmt.Errorf("bridge_secret still set to placeholder value")
	}
	return nil
}
