package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the operational configuration of the bot
type Config struct {
	Username         string           `yaml:"username" json:"username" jsonschema:"description=Reddit account name"`
	Password         string           `yaml:"password" json:"password,omitempty" jsonschema:"description=Reddit account password (can use environment variable)"`
	Subreddit        string           `yaml:"subreddit" json:"subreddit" jsonschema:"description=Default target subreddit for feeds without their own"`
	Submit           bool             `yaml:"submit" json:"submit,omitempty" jsonschema:"default=false,description=Submit posts to reddit; log them only if false"`
	SleepTime        time.Duration    `yaml:"sleep_time" json:"sleep_time,omitempty" jsonschema:"default=10m,description=Base interval between cycles"`
	Signature        string           `yaml:"signature" json:"signature,omitempty" jsonschema:"description=Text appended to the last segment of every post"`
	MaxSegmentLength int              `yaml:"max_segment_length" json:"max_segment_length,omitempty" jsonschema:"default=8000,minimum=100,description=Maximum length of a post or reply body"`
	ReplyDelay       time.Duration    `yaml:"reply_delay" json:"reply_delay,omitempty" jsonschema:"default=5s,description=Delay between chained replies"`
	RetentionMonths  int              `yaml:"retention_months" json:"retention_months,omitempty" jsonschema:"default=18,minimum=1,description=Seen stories missing from feeds are forgotten after this many months"`
	API              APIConfig        `yaml:"api" json:"api" jsonschema:"description=Reddit API connection"`
	Moderation       ModerationConfig `yaml:"moderation" json:"moderation,omitempty" jsonschema:"description=Removal of own poorly scored submissions"`
	Alert            AlertConfig      `yaml:"alert" json:"alert,omitempty" jsonschema:"description=Operator alerts on long backoff"`
	Mirror           MirrorConfig     `yaml:"mirror" json:"mirror,omitempty" jsonschema:"description=External copy of the feed document"`
	Server           ServerConfig     `yaml:"server" json:"server,omitempty" jsonschema:"description=Status server"`
}

// APIConfig holds reddit API connection parameters
type APIConfig struct {
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent sent to reddit and feed hosts"`
	ClientID     string        `yaml:"client_id" json:"client_id,omitempty" jsonschema:"description=Reddit script app id"`
	ClientSecret string        `yaml:"client_secret" json:"client_secret,omitempty" jsonschema:"description=Reddit script app secret (can use environment variable)"`
	AuthURL      string        `yaml:"auth_url" json:"auth_url,omitempty" jsonschema:"default=https://www.reddit.com/api/v1/access_token,description=OAuth token endpoint"`
	BaseURL      string        `yaml:"base_url" json:"base_url,omitempty" jsonschema:"default=https://oauth.reddit.com,description=API base URL"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout,omitempty" jsonschema:"default=20s,description=Timeout for every feed and API request"`
}

const defaultThreshold = -4

// ModerationConfig defines the sweep of own submissions
type ModerationConfig struct {
	Limit     int  `yaml:"limit" json:"limit,omitempty" jsonschema:"default=25,minimum=1,description=Number of recent submissions to check"`
	Threshold *int `yaml:"threshold" json:"threshold,omitempty" jsonschema:"default=-4,description=Submissions scoring at or below this are deleted"`
}

// DeleteThreshold returns the configured threshold, -4 if not set
func (m ModerationConfig) DeleteThreshold() int {
	if m.Threshold == nil {
		return defaultThreshold
	}
	return *m.Threshold
}

// AlertConfig defines where operator alerts go
type AlertConfig struct {
	To      string `yaml:"to" json:"to,omitempty" jsonschema:"description=Alert destination address; alerts are off if empty"`
	NatsURL string `yaml:"nats_url" json:"nats_url,omitempty" jsonschema:"description=NATS server to publish alerts to"`
	Subject string `yaml:"subject" json:"subject,omitempty" jsonschema:"default=feed2reddit.alert,description=NATS subject for alerts"`
}

// MirrorConfig defines the external store for the feed document
type MirrorConfig struct {
	DSN string `yaml:"dsn" json:"dsn,omitempty" jsonschema:"description=redis:// url or sqlite file; no mirror if empty"`
	Key string `yaml:"key" json:"key,omitempty" jsonschema:"default=feeds,description=Key of the document in the store"`
}

// ServerConfig defines the status server
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen,omitempty" jsonschema:"description=Status server listen address; disabled if empty"`
	Timeout time.Duration `yaml:"timeout" json:"timeout,omitempty" jsonschema:"default=30s,description=Status server timeout"`
}

// Load reads configuration from a YAML file and fills defaults.
// Validate is left to the caller as runtime overrides may supply required fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	if c.SleepTime == 0 {
		c.SleepTime = 10 * time.Minute
	}
	if c.MaxSegmentLength == 0 {
		c.MaxSegmentLength = 8000
	}
	if c.ReplyDelay == 0 {
		c.ReplyDelay = 5 * time.Second
	}
	if c.RetentionMonths == 0 {
		c.RetentionMonths = 18
	}

	// set defaults for api
	if c.API.AuthURL == "" {
		c.API.AuthURL = "https://www.reddit.com/api/v1/access_token"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://oauth.reddit.com"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 20 * time.Second
	}

	if c.Moderation.Limit == 0 {
		c.Moderation.Limit = 25
	}
	if c.Moderation.Threshold == nil {
		threshold := defaultThreshold
		c.Moderation.Threshold = &threshold
	}

	if c.Alert.Subject == "" {
		c.Alert.Subject = "feed2reddit.alert"
	}
	if c.Mirror.Key == "" {
		c.Mirror.Key = "feeds"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
}

// Validate checks configuration for correctness, then verifies it against the embedded schema
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Subreddit == "" {
		return fmt.Errorf("subreddit is required")
	}
	if c.API.UserAgent == "" {
		return fmt.Errorf("api.user_agent is required")
	}
	if c.SleepTime < time.Second {
		return fmt.Errorf("sleep_time must be at least 1 second")
	}
	if c.MaxSegmentLength < 100 {
		return fmt.Errorf("max_segment_length must be at least 100")
	}
	if c.RetentionMonths < 1 {
		return fmt.Errorf("retention_months must be at least 1")
	}
	if c.Moderation.Limit < 1 {
		return fmt.Errorf("moderation.limit must be at least 1")
	}
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if err := VerifyAgainstEmbeddedSchema(c); err != nil {
		// log warning but don't fail - schema validation is supplementary
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}
	return nil
}
