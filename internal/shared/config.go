package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Token       TokenConfig       `toml:"token"`
	Database    DatabaseConfig    `toml:"database"`
	Cache       CacheConfig       `toml:"cache"`
	Features    FeaturesConfig    `toml:"features"`
	Server      ServerConfig      `toml:"server"`
	Stats       StatsConfig       `toml:"stats"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// TokenConfig is the persisted form of the caller-owned access credential.
// The core never writes it; the CLI saves it back here after a refresh.
type TokenConfig struct {
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
	ExpiresAt    int64  `toml:"expires_at"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CacheConfig holds per-domain freshness windows, in minutes.
type CacheConfig struct {
	TopArtistsTTL      int `toml:"top_artists_ttl"`
	TopTracksTTL       int `toml:"top_tracks_ttl"`
	NewReleasesTTL     int `toml:"new_releases_ttl"`
	FollowedArtistsTTL int `toml:"followed_artists_ttl"`
	SearchesTTL        int `toml:"searches_ttl"`
}

// TTL returns the freshness window for a cache domain as a [time.Duration].
func (c CacheConfig) TTL(domain string) time.Duration {
	minutes := 0
	switch domain {
	case "top-artists":
		minutes = c.TopArtistsTTL
	case "top-tracks":
		minutes = c.TopTracksTTL
	case "new-releases":
		minutes = c.NewReleasesTTL
	case "followed-artists":
		minutes = c.FollowedArtistsTTL
	case "searches":
		minutes = c.SearchesTTL
	}
	return time.Duration(minutes) * time.Minute
}

// FeaturesConfig contains settings for the audio feature enrichment API.
type FeaturesConfig struct {
	BaseURL string `toml:"base_url"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StatsConfig contains analytics settings.
type StatsConfig struct {
	TimeZone string `toml:"time_zone"`
}

// Location resolves the configured analytics time zone, defaulting to UTC.
func (s StatsConfig) Location() *time.Location {
	if s.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// envOverrides are the environment variables layered on top of the TOML
// file when present. Credentials can live entirely in the environment.
type envOverrides struct {
	ClientID        string `envconfig:"SPOTIFY_CLIENT_ID"`
	ClientSecret    string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	RedirectURI     string `envconfig:"SPOTIFY_REDIRECT_URI"`
	FeaturesBaseURL string `envconfig:"RECCOBEATS_BASE_URL"`
	DatabasePath    string `envconfig:"SOUNDSCOPE_DB_PATH"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

func (c *Config) applyEnv() {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return
	}

	if env.ClientID != "" {
		c.Credentials.Spotify.ClientID = env.ClientID
	}
	if env.ClientSecret != "" {
		c.Credentials.Spotify.ClientSecret = env.ClientSecret
	}
	if env.RedirectURI != "" {
		c.Credentials.Spotify.RedirectURI = env.RedirectURI
	}
	if env.FeaturesBaseURL != "" {
		c.Features.BaseURL = env.FeaturesBaseURL
	}
	if env.DatabasePath != "" {
		c.Database.Path = env.DatabasePath
	}
}

// Save writes the configuration back to disk. Used by the CLI to persist a
// rotated token triple after a refresh.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
