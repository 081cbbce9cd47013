package redis

import (
	"strconv"
	"strings"

	"github.com/kochabonline/boot/core/reflect"
)

type Config struct {
	Host     string `json:"host" mapstructure:"host" default:"localhost"`
	Port     int    `json:"port" mapstructure:"port" default:"6379"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db" default:"0"`
	Protocol int    `json:"protocol" mapstructure:"protocol" default:"3"`
	PoolSize int    `json:"poolSize" mapstructure:"poolSize"`
}

type ClusterConfig struct {
	Addrs    []string `json:"addrs" mapstructure:"addrs" default:"localhost:6379"`
	Password string   `json:"password" mapstructure:"password"`
	Protocol int      `json:"protocol" mapstructure:"protocol" default:"3"`
	PoolSize int      `json:"poolSize" mapstructure:"poolSize"`
}

func (c *Config) init() error {
	return reflect.SetDefaultTag(c)
}

func (c *Config) Addr() string {
	var builder strings.Builder
	builder.WriteString(c.Host)
	builder.WriteString(":")
	builder.WriteString(strconv.Itoa(c.Port))
	return builder.String()
}

func (c *ClusterConfig) init() error {
	return reflect.SetDefaultTag(c)
}
