package main

import (
	"encoding/json"
	"os"
	"time"
)

type Config struct {
	RedisAddr        string        `json:"redis_addr"`
	CheckIntervalStr string        `json:"check_interval"`
	CheckInterval    time.Duration `json:"-"`
	AlertCooldownStr string        `json:"alert_cooldown"`
	AlertCooldown    time.Duration `json:"-"`
	StartupGraceStr  string        `json:"startup_grace"`
	StartupGrace     time.Duration `json:"-"`

	BridgeHealthURL string `json:"bridge_health_url"`
	MmsgateAddr     string `json:"mmsgate_addr"`

	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	SMTPFrom     string `json:"smtp_from"`
	SMTPTo       string `json:"smtp_to"`
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

	cfg.CheckInterval, err = durationOrDefault(cfg.CheckIntervalStr, time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AlertCooldown, err = durationOrDefault(cfg.AlertCooldownStr, time.Minute*5)
	if err != nil {
		return nil, err
	}
	cfg.StartupGrace, err = durationOrDefault(cfg.StartupGraceStr, time.Second*30)
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.BridgeHealthURL == "" {
		cfg.BridgeHealthURL = "http://sms-bridge:5000/health"
	}
	if cfg.MmsgateAddr == "" {
		cfg.MmsgateAddr = "mmsgate:38443"
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}

	return cfg, nil
}

func durationOrDefault(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
