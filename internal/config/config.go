package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Model   ModelConfig   `yaml:"model"`
	Audio   AudioConfig   `yaml:"audio"`
	Summary SummaryConfig `yaml:"summary"`
	Workers WorkersConfig `yaml:"workers"`
	Storage StorageConfig `yaml:"storage"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	MaxClients int    `yaml:"max_clients"`
}

type ModelConfig struct {
	Dir           string `yaml:"dir"`
	Name          string `yaml:"name"`
	ArchiveURL    string `yaml:"archive_url"`
	ArchiveSHA256 string `yaml:"archive_sha256"`
	RecognizerBin string `yaml:"recognizer_bin"`
	SampleRate    int    `yaml:"sample_rate"`
}

type AudioConfig struct {
	MaxChunkBytes int64    `yaml:"max_chunk_bytes"`
	Formats       []string `yaml:"formats"`
}

type SummaryConfig struct {
	WordThreshold   int      `yaml:"word_threshold"`
	IntervalSeconds int      `yaml:"interval_seconds"`
	SentenceCount   int      `yaml:"sentence_count"`
	GeminiModel     string   `yaml:"gemini_model"`
	GeminiAPIKeys   []string `yaml:"gemini_api_keys"`
}

type WorkersConfig struct {
	MaxConcurrent       int `yaml:"max_concurrent"`
	ChunkTimeoutSeconds int `yaml:"chunk_timeout_seconds"`
}

type StorageConfig struct {
	SessionsDir        string `yaml:"sessions_dir"`
	MaxSessionAgeHours int    `yaml:"max_session_age_hours"`
}

type ImportConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dir         string `yaml:"dir"`
	ArchivedDir string `yaml:"archived_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file, validates it and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	if c.Model.RecognizerBin == "" {
		return fmt.Errorf("model.recognizer_bin is required")
	}
	if c.Model.ArchiveURL == "" {
		return fmt.Errorf("model.archive_url is required")
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.MaxClients == 0 {
		c.Server.MaxClients = 10
	}
	if c.Model.Dir == "" {
		c.Model.Dir = "models"
	}
	if c.Model.SampleRate == 0 {
		c.Model.SampleRate = 16000
	}
	if c.Audio.MaxChunkBytes == 0 {
		c.Audio.MaxChunkBytes = 10 * 1024 * 1024
	}
	if len(c.Audio.Formats) == 0 {
		c.Audio.Formats = []string{".webm", ".ogg", ".wav", ".mp3", ".m4a"}
	}
	if c.Summary.WordThreshold == 0 {
		c.Summary.WordThreshold = 200
	}
	if c.Summary.IntervalSeconds == 0 {
		c.Summary.IntervalSeconds = 30
	}
	if c.Summary.SentenceCount == 0 {
		c.Summary.SentenceCount = 3
	}
	if c.Summary.GeminiModel == "" {
		c.Summary.GeminiModel = "gemini-2.5-flash"
	}
	if c.Workers.MaxConcurrent == 0 {
		c.Workers.MaxConcurrent = 2
	}
	if c.Workers.ChunkTimeoutSeconds == 0 {
		c.Workers.ChunkTimeoutSeconds = 30
	}
	if c.Storage.SessionsDir == "" {
		c.Storage.SessionsDir = "sessions"
	}
	if c.Storage.MaxSessionAgeHours == 0 {
		c.Storage.MaxSessionAgeHours = 24
	}
	if c.Import.Dir == "" {
		c.Import.Dir = "data/import"
	}
	if c.Import.ArchivedDir == "" {
		c.Import.ArchivedDir = "data/archived"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// ModelPath returns the directory the unpacked speech model lives in.
func (c *Config) ModelPath() string {
	return filepath.Join(c.Model.Dir, c.Model.Name)
}

// SupportsFormat reports whether ext is an accepted upload extension.
func (c *Config) SupportsFormat(ext string) bool {
	for _, f := range c.Audio.Formats {
		if f == ext {
			return true
		}
	}
	return false
}
