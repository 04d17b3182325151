package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jo-hoe/sialiccatalog/internal/backend/assets"
	"github.com/jo-hoe/sialiccatalog/internal/backend/catalog"
	"github.com/jo-hoe/sialiccatalog/internal/backend/commandstructure"
	"github.com/jo-hoe/sialiccatalog/internal/backend/images"
	"github.com/jo-hoe/sialiccatalog/internal/backend/notification"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Catalog struct {
	Path       string `yaml:"path"`
	NameColumn string `yaml:"nameColumn"`
}

type Images struct {
	URLPrefix string        `yaml:"urlPrefix"`
	Extension string        `yaml:"extension"`
	Store     assets.Config `yaml:"store"`
	// Pipeline runs over every served compound image.
	Pipeline []commandstructure.CommandConfig `yaml:"pipeline"`
}

type Downloads struct {
	Store assets.Config `yaml:"store"`
}

// Redis enables the asset existence cache when Address is set.
type Redis struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Notification struct {
	SMTP    notification.SMTPConfig `yaml:"smtp"`
	Timeout time.Duration           `yaml:"timeout"`
}

type ServiceConfig struct {
	Port         int          `yaml:"port"`
	Database     Database     `yaml:"database"`
	Catalog      Catalog      `yaml:"catalog"`
	Images       Images       `yaml:"images"`
	Downloads    Downloads    `yaml:"downloads"`
	Redis        Redis        `yaml:"redis"`
	Notification Notification `yaml:"notification"`
}

const (
	defaultPort                = 8080
	defaultNotificationTimeout = 10 * time.Second
)

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	config.applyEnvironment()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

func (c *ServiceConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.ConnectionString == "" && c.Database.Type == "sqlite" {
		c.Database.ConnectionString = "questions.db"
	}
	if c.Catalog.NameColumn == "" {
		c.Catalog.NameColumn = catalog.DefaultNameColumn
	}
	if c.Images.URLPrefix == "" {
		c.Images.URLPrefix = images.DefaultURLPrefix
	}
	if c.Images.Extension == "" {
		c.Images.Extension = images.DefaultExtension
	}
	if c.Notification.Timeout <= 0 {
		c.Notification.Timeout = defaultNotificationTimeout
	}
}

// applyEnvironment lets deployments keep mail credentials out of the file.
func (c *ServiceConfig) applyEnvironment() {
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.Notification.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Notification.SMTP.Password = v
	}
	if v := os.Getenv("TO_EMAIL"); v != "" {
		c.Notification.SMTP.To = v
	}
}

func (c *ServiceConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	return validateCommands(c.Images.Pipeline)
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []commandstructure.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		// Validate name is not empty
		if cmd.Name == "" {
			return fmt.Errorf("pipeline command at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate pipeline command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true

		if !commandstructure.DefaultRegistry.IsRegistered(cmd.Name) {
			return fmt.Errorf("unknown pipeline command %s (available: %s)",
				cmd.Name, strings.Join(commandstructure.DefaultRegistry.GetRegisteredNames(), ", "))
		}
	}

	return nil
}
