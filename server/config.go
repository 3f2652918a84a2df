package server

import (
	"os"
	"time"

	"github.com/cenkalti/quad/quadtree"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config for Server.
type Config struct {
	// Host to listen for RPC server
	RPCHost string `yaml:"rpc_host"`
	// Listen port for RPC server. Zero picks a random port.
	RPCPort int `yaml:"rpc_port"`
	// Time to wait for ongoing requests before shutting down RPC HTTP server.
	RPCShutdownTimeout time.Duration `yaml:"rpc_shutdown_timeout"`
	// One of debug, info, notice, warning, error, critical.
	LogLevel string `yaml:"log_level"`
	// Shape and domain of the index.
	Index quadtree.Config `yaml:"index"`
}

// DefaultConfig for Server.
var DefaultConfig = Config{
	RPCHost:            "127.0.0.1",
	RPCPort:            7247,
	RPCShutdownTimeout: 5 * time.Second,
	LogLevel:           "info",
	Index:              quadtree.DefaultConfig,
}

// LoadConfig reads a YAML file and overrides the fields in DefaultConfig.
// A missing file is not an error, defaults are returned.
func LoadConfig(filename string) (*Config, error) {
	c := DefaultConfig
	filename, err := homedir.Expand(filename)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return &c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config")
	}
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %s", filename)
	}
	return &c, nil
}
