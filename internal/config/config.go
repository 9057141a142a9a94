// SPDX-License-Identifier: MIT

// Package config loads service configuration with precedence ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the service.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`

	// Session store (Redis primary, in-memory fallback).
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	// Order store.
	DBPath string `yaml:"db_path"`

	// AI capability (DeepSeek speaks the OpenAI wire protocol).
	DeepSeekAPIKey  string `yaml:"deepseek_api_key"`
	DeepSeekBaseURL string `yaml:"deepseek_base_url"`
	Model           string `yaml:"model"`
	MenuPath        string `yaml:"menu_path"`

	// Admin notifications over Twilio WhatsApp.
	TwilioAccountSID string `yaml:"twilio_account_sid"`
	TwilioAuthToken  string `yaml:"twilio_auth_token"`
	TwilioFromNumber string `yaml:"twilio_from_number"`
	AdminNumber      string `yaml:"admin_number"`

	// Business-hours gate. Open == Close disables the gate.
	Timezone  string `yaml:"timezone"`
	OpenHour  int    `yaml:"open_hour"`
	CloseHour int    `yaml:"close_hour"`

	// Guard data.
	Blocklist []string `yaml:"blocklist"`

	// Pacing delay bounds for the first turn of a session. Zero disables.
	GreetDelayMin time.Duration `yaml:"greet_delay_min"`
	GreetDelayMax time.Duration `yaml:"greet_delay_max"`

	// Webhook rate limit (requests per minute per IP, 0 disables).
	RateLimitRPM int `yaml:"rate_limit_rpm"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ListenAddr:      ":8080",
		LogLevel:        "info",
		RedisAddr:       "localhost:6379",
		SessionTTL:      time.Hour,
		DBPath:          "veci.sqlite",
		DeepSeekBaseURL: "https://api.deepseek.com",
		Model:           "deepseek-chat",
		MenuPath:        "data/menu.md",
		Timezone:        "America/Guayaquil",
		OpenHour:        8,
		CloseHour:       20,
		GreetDelayMin:   2 * time.Second,
		GreetDelayMax:   4 * time.Second,
		RateLimitRPM:    60,
	}
}

// Load assembles configuration with precedence ENV > file > defaults.
// filePath may be empty, in which case the file layer is skipped.
func Load(filePath string) (Config, error) {
	cfg := Defaults()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", filePath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", filePath, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = ParseString("VECI_LISTEN", c.ListenAddr)
	c.LogLevel = ParseString("VECI_LOG_LEVEL", c.LogLevel)

	c.RedisAddr = ParseString("VECI_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = ParseString("VECI_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = ParseInt("VECI_REDIS_DB", c.RedisDB)
	c.SessionTTL = ParseDuration("VECI_SESSION_TTL", c.SessionTTL)

	c.DBPath = ParseString("VECI_DB_PATH", c.DBPath)

	c.DeepSeekAPIKey = ParseString("DEEPSEEK_API_KEY", c.DeepSeekAPIKey)
	c.DeepSeekBaseURL = ParseString("DEEPSEEK_BASE_URL", c.DeepSeekBaseURL)
	c.Model = ParseString("VECI_MODEL", c.Model)
	c.MenuPath = ParseString("VECI_MENU_PATH", c.MenuPath)

	c.TwilioAccountSID = ParseString("TWILIO_ACCOUNT_SID", c.TwilioAccountSID)
	c.TwilioAuthToken = ParseString("TWILIO_AUTH_TOKEN", c.TwilioAuthToken)
	c.TwilioFromNumber = ParseString("TWILIO_FROM_NUMBER", c.TwilioFromNumber)
	c.AdminNumber = ParseString("VECI_ADMIN_NUMBER", c.AdminNumber)

	c.Timezone = ParseString("VECI_TIMEZONE", c.Timezone)
	c.OpenHour = ParseInt("VECI_OPEN_HOUR", c.OpenHour)
	c.CloseHour = ParseInt("VECI_CLOSE_HOUR", c.CloseHour)

	c.Blocklist = ParseCSV("VECI_BLOCKLIST", c.Blocklist)

	c.GreetDelayMin = ParseDuration("VECI_GREET_DELAY_MIN", c.GreetDelayMin)
	c.GreetDelayMax = ParseDuration("VECI_GREET_DELAY_MAX", c.GreetDelayMax)

	c.RateLimitRPM = ParseInt("VECI_RATE_LIMIT_RPM", c.RateLimitRPM)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.OpenHour < 0 || c.OpenHour > 23 || c.CloseHour < 0 || c.CloseHour > 23 {
		return fmt.Errorf("config: business hours out of range: open=%d close=%d", c.OpenHour, c.CloseHour)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session TTL must be positive, got %s", c.SessionTTL)
	}
	if c.GreetDelayMin < 0 || c.GreetDelayMax < c.GreetDelayMin {
		return fmt.Errorf("config: invalid greet delay bounds [%s, %s]", c.GreetDelayMin, c.GreetDelayMax)
	}
	return nil
}

// Location resolves the configured business timezone. Validate guarantees it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
