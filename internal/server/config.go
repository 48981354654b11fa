package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
	Redis  *RedisSettings `hcl:"redis,block"`
	Auth   *AuthSettings  `hcl:"auth,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains defaults applied to every created game
type GameSettings struct {
	// PartnerTimeoutSeconds bounds how long a partnership may stay
	// unresolved once the captain has hit; 0 disables the timer.
	PartnerTimeoutSeconds int `hcl:"partner_timeout_seconds,optional"`
	MinPlayers            int `hcl:"min_players,optional"`
	MaxPlayers            int `hcl:"max_players,optional"`
}

// RedisSettings configures the optional round repository
type RedisSettings struct {
	Addr     string `hcl:"addr,optional"`
	Password string `hcl:"password,optional"`
	DB       int    `hcl:"db,optional"`
}

// AuthSettings configures optional external token validation
type AuthSettings struct {
	URL         string `hcl:"url"`
	AdminSecret string `hcl:"admin_secret,optional"`
	// FailOpen allows connections through when the auth service is
	// unreachable. Invalid tokens are still rejected.
	FailOpen bool `hcl:"fail_open,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			PartnerTimeoutSeconds: 60,
			MinPlayers:            4,
			MaxPlayers:            6,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.PartnerTimeoutSeconds == 0 {
		config.Game.PartnerTimeoutSeconds = 60
	}
	if config.Game.MinPlayers == 0 {
		config.Game.MinPlayers = 4
	}
	if config.Game.MaxPlayers == 0 {
		config.Game.MaxPlayers = 6
	}
	if config.Redis != nil && config.Redis.Addr == "" {
		config.Redis.Addr = "localhost:6379"
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2, got %d", c.Game.MinPlayers)
	}
	if c.Game.MaxPlayers > 6 {
		return fmt.Errorf("max players must be at most 6, got %d", c.Game.MaxPlayers)
	}
	if c.Game.MinPlayers > c.Game.MaxPlayers {
		return fmt.Errorf("min players %d exceeds max players %d", c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	if c.Game.PartnerTimeoutSeconds < 0 {
		return fmt.Errorf("partner timeout must not be negative")
	}
	if c.Auth != nil && c.Auth.URL == "" {
		return fmt.Errorf("auth block requires a url")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
