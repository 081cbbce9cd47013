package config

import (
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabonline/boot/core/reflect"
	"github.com/kochabonline/boot/log"
)

// Pre-defined environment key replacer to avoid repeated creation
var envKeyReplacer = strings.NewReplacer(".", "_")

type Config struct {
	viper *viper.Viper
	Path  []string // Path is the path to the configuration file, can be multiple paths.
	Name  string   // Name is the name of the configuration file with extension.
	Dest  any      // Dest is the destination where the configuration will be unmarshalled.
}

type Option func(*Config)

func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

func WithPath(path ...string) Option {
	return func(c *Config) {
		c.Path = path
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

func WithDest(dest any) Option {
	return func(c *Config) {
		c.Dest = dest
	}
}

func New(opts ...Option) (*Config, error) {
	c := &Config{
		Path:  []string{"."},
		viper: viper.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.Dest != nil {
		if err := reflect.SetDefaultTag(c.Dest); err != nil {
			return nil, err
		}
	}

	c.configureViper()

	return c, nil
}

// configureViper configures the default settings for the viper instance
func (c *Config) configureViper() {
	extension := path.Ext(c.Name)
	configType := strings.TrimPrefix(extension, ".")

	for _, configPath := range c.Path {
		c.viper.AddConfigPath(configPath)
	}

	c.viper.SetConfigName(strings.TrimSuffix(c.Name, extension))
	c.viper.SetConfigType(configType)
	c.viper.AutomaticEnv()
	c.viper.SetEnvKeyReplacer(envKeyReplacer)
}

func (c *Config) GetViper() *viper.Viper {
	return c.viper
}

func (c *Config) ReadInConfig() error {
	if err := c.viper.ReadInConfig(); err != nil {
		return err
	}

	if c.Dest == nil {
		return nil
	}

	return c.viper.Unmarshal(c.Dest)
}

// UnmarshalKey decodes one configuration section into target.
func (c *Config) UnmarshalKey(key string, target any) error {
	return c.viper.UnmarshalKey(key, target)
}

// WatchConfig reloads and re-unmarshals the file whenever it changes on disk.
func (c *Config) WatchConfig() error {
	c.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Msgf("config file changed: %s", e.Name)
		if err := c.ReadInConfig(); err != nil {
			log.Error().Err(err).Msg("failed to reload config")
		}
	})
	c.viper.WatchConfig()
	return nil
}
