// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// DefaultPeriod is the period of a Repeating timer created without one.
	DefaultPeriod = 100 * time.Millisecond

	// DefaultTimeout is the timeout of a OneShot timer created without one.
	DefaultTimeout = time.Second

	// DefaultKey is the configuration key FromViper reads when no key is supplied.
	DefaultKey = "timers"
)

// RepeatingConfig describes a Repeating timer.  When passed to NewRepeating, zero-valued
// fields take defaults.  When passed to Renew, zero-valued fields are inherited.
type RepeatingConfig struct {
	// ID is the opaque identifier of the timer.  If unset, a ksuid is generated.
	ID string `json:"id" mapstructure:"id"`

	// Period is the tick interval.  Non-positive values mean DefaultPeriod.
	Period time.Duration `json:"period" mapstructure:"period"`

	// Exact selects the phase-reset resume policy.  See the package documentation.
	Exact bool `json:"exact" mapstructure:"exact"`
}

// OneShotConfig describes a OneShot timer, with the same zero value semantics as RepeatingConfig.
type OneShotConfig struct {
	// ID is the opaque identifier of the timer.  If unset, a ksuid is generated.
	ID string `json:"id" mapstructure:"id"`

	// Timeout is how long the timer runs before firing.  Non-positive values mean DefaultTimeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Configs is the set of timers described by a configuration source.
type Configs struct {
	Repeating []RepeatingConfig `json:"repeating" mapstructure:"repeating"`
	OneShot   []OneShotConfig   `json:"oneshot" mapstructure:"oneshot"`
}

func newID(id string) string {
	if len(id) > 0 {
		return id
	}

	return ksuid.New().String()
}

func orDuration(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}

	return fallback
}

func orString(s, fallback string) string {
	if len(s) > 0 {
		return s
	}

	return fallback
}

var durationType = reflect.TypeOf(time.Duration(0))

// MillisecondsHookFunc returns a decode hook that reads bare numbers as a count of milliseconds
// when decoding into a time.Duration.  Strings are left for mapstructure.StringToTimeDurationHookFunc.
func MillisecondsHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType || from == durationType {
			return data, nil
		}

		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			ms, err := cast.ToInt64E(data)
			if err != nil {
				return nil, err
			}

			return time.Duration(ms) * time.Millisecond, nil

		default:
			return data, nil
		}
	}
}

// DecodeHook is the hook used to decode timer configuration.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		MillisecondsHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// FromViper decodes the timer definitions under key, or DefaultKey if key is empty.
// A nil Viper or a missing key yields an empty Configs.
func FromViper(v *viper.Viper, key string) (Configs, error) {
	var c Configs
	if v == nil {
		return c, nil
	}

	if len(key) == 0 {
		key = DefaultKey
	}

	if err := v.UnmarshalKey(key, &c, viper.DecodeHook(DecodeHook())); err != nil {
		return Configs{}, fmt.Errorf("unable to decode timer configuration at %q: %w", key, err)
	}

	return c, nil
}
