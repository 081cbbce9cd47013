package http

import "github.com/kochabonline/boot/core/reflect"

type Options struct {
	Metrics MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health  HealthOption  `json:"health" mapstructure:"health"`
}

type MetricsOption struct {
	Enabled                   bool   `json:"enabled" mapstructure:"enabled"`
	Path                      string `json:"path" mapstructure:"path" default:"/metrics"`
	EnabledGoCollector        bool   `json:"enabledGoCollector" mapstructure:"enabledGoCollector"`
	EnabledBuildInfoCollector bool   `json:"enabledBuildInfoCollector" mapstructure:"enabledBuildInfoCollector"`
}

func (m *MetricsOption) init() error {
	return reflect.SetDefaultTag(m)
}

type HealthOption struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path" default:"/health"`
}

func (h *HealthOption) init() error {
	return reflect.SetDefaultTag(h)
}
