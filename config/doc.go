// Package config provides configuration loading for ssekit services.
//
// Configuration is layered: a config.yml file provides the base, a .env
// file and process environment variables override it, and the result is
// unmarshaled into a typed struct via viper.
//
//	type DaemonConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
//	var cfg DaemonConfig
//	err := config.LoadConfig("ssekitd", &cfg)
package config
