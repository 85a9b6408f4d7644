package config

import "gopkg.in/yaml.v3"

// Marshal renders cfg as YAML using the same keys the loader reads.
func Marshal(cfg *ServerConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
