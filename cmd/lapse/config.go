// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"

	"braces.dev/errtrace"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	applicationName = "lapse"

	fileFlag = "file"
	nameFlag = "name"
)

// Config is the non-timer portion of the daemon's configuration.  Timer definitions are
// decoded separately, by timer.FromViper.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	// Level is any level zap can parse, e.g. debug or info.
	Level string `mapstructure:"level"`

	Development bool `mapstructure:"development"`
}

type MetricsConfig struct {
	// Address is where metrics and timer status are served.  If empty, no server is started.
	Address string `mapstructure:"address"`

	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

var defaults = map[string]interface{}{
	"log.level":         "info",
	"metrics.address":   ":9090",
	"metrics.namespace": applicationName,
}

type viperOption func(*viper.Viper) error

// standardPaths adds the usual *nix configuration locations and environment binding.
func standardPaths(name string) viperOption {
	return func(v *viper.Viper) error {
		v.AddConfigPath(fmt.Sprintf("/etc/%s", name))
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", name))
		v.AddConfigPath(".")
		v.SetConfigName(name)
		v.SetEnvPrefix(name)
		v.AutomaticEnv()
		return nil
	}
}

// bindConfig uses the file flag, if set, as the exact configuration file.  Otherwise,
// the name flag, if set, replaces the configuration name.
func bindConfig(fs *pflag.FlagSet) viperOption {
	return func(v *viper.Viper) error {
		if f := fs.Lookup(fileFlag); f != nil && len(f.Value.String()) > 0 {
			v.SetConfigFile(f.Value.String())
		} else if f := fs.Lookup(nameFlag); f != nil && len(f.Value.String()) > 0 {
			v.SetConfigName(f.Value.String())
		}

		return nil
	}
}

func applyDefaults(d map[string]interface{}) viperOption {
	return func(v *viper.Viper) error {
		for key, value := range d {
			v.SetDefault(key, value)
		}

		return nil
	}
}

func configure(v *viper.Viper, o ...viperOption) (*viper.Viper, error) {
	for _, f := range o {
		if err := f(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP(fileFlag, "f", "", "the fully qualified configuration file, overrides --name")
	fs.StringP(nameFlag, "n", name, "the configuration file name, searched for in the standard locations")
	return fs
}

// newViper parses the command line and reads the configuration it points to.  A missing
// configuration file is not an error when it was only searched for by name.
func newViper(name string, arguments []string) (*viper.Viper, error) {
	fs := newFlagSet(name)
	if err := fs.Parse(arguments); err != nil {
		return nil, errtrace.Wrap(err)
	}

	v, err := configure(viper.New(),
		standardPaths(name),
		bindConfig(fs),
		applyDefaults(defaults),
	)

	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errtrace.Wrap(fmt.Errorf("unable to read configuration: %w", err))
		}
	}

	return v, nil
}

func provideConfig(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errtrace.Wrap(fmt.Errorf("unable to decode configuration: %w", err))
	}

	return c, nil
}
