package configuration

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

const defaultConfigPath = "config/config.json"

type MongoConfig struct {
	Uri                string `json:"uri"`
	Database           string `json:"database"`
	MessagesCollection string `json:"messagesCollection"`
	UsersCollection    string `json:"usersCollection"`
	SocketRoute        string `json:"socketRoute"`
}

type ServerConfig struct {
	AppPort    int `json:"app_port"`
	SocketPort int `json:"socket_port"`
}

type Config struct {
	ChatDatabase MongoConfig  `json:"mongo"`
	Server       ServerConfig `json:"server"`
}

// envOverrides are environment knobs applied on top of the JSON file so a
// deployment can point at a different Mongo or port set without editing the
// file. Prefix CHAT_, e.g. CHAT_MONGO_URI.
type envOverrides struct {
	MongoURI   string `envconfig:"MONGO_URI"`
	Database   string `envconfig:"MONGO_DATABASE"`
	AppPort    int    `envconfig:"APP_PORT"`
	SocketPort int    `envconfig:"SOCKET_PORT"`
}

// ConfigPath resolves the config file location from CHAT_CONFIG, defaulting
// to config/config.json relative to the working directory.
func ConfigPath() string {
	if p := os.Getenv("CHAT_CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

func LoadConfig(configPath string) (*Config, error) {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	err = json.Unmarshal(file, &config)
	if err != nil {
		return nil, err
	}

	var env envOverrides
	if err := envconfig.Process("chat", &env); err != nil {
		return nil, fmt.Errorf("failed to read env overrides: %w", err)
	}
	config.applyOverrides(env)

	if config.ChatDatabase.SocketRoute == "" {
		config.ChatDatabase.SocketRoute = "ws"
	}

	return &config, nil
}

func (c *Config) applyOverrides(env envOverrides) {
	if env.MongoURI != "" {
		c.ChatDatabase.Uri = env.MongoURI
	}
	if env.Database != "" {
		c.ChatDatabase.Database = env.Database
	}
	if env.AppPort != 0 {
		c.Server.AppPort = env.AppPort
	}
	if env.SocketPort != 0 {
		c.Server.SocketPort = env.SocketPort
	}
}
