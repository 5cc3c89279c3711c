// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// lapse runs a configured set of pausable timers, logging each firing and serving
// Prometheus metrics along with the state of every timer.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"braces.dev/errtrace"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/spf13/viper"
	"github.com/xmidt-org/lapse/clock"
	"github.com/xmidt-org/lapse/concurrent"
	"github.com/xmidt-org/lapse/timer"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func provideLogger(c Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if len(c.Log.Level) > 0 {
		level, err := zap.ParseAtomicLevel(c.Log.Level)
		if err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("invalid log level: %w", err))
		}

		zc.Level = level
	}

	l, err := zc.Build()
	return l, errtrace.Wrap(err)
}

// newApp assembles the daemon.  The metrics provider is passed in so that tests can avoid
// registering with the global Prometheus registry.
func newApp(v *viper.Viper, p provider.Provider, o ...fx.Option) *fx.App {
	return fx.New(
		fx.Supply(v),
		fx.Provide(
			func() provider.Provider { return p },
			clock.System,
			provideConfig,
			provideLogger,
			timer.NewMeasures,
			provideTimers,
			provideHandler,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Invoke(registerTimers, registerServer),
		fx.Options(o...),
	)
}

func run(arguments []string) error {
	v, err := newViper(applicationName, arguments)
	if err != nil {
		return errtrace.Wrap(err)
	}

	c, err := provideConfig(v)
	if err != nil {
		return errtrace.Wrap(err)
	}

	app := newApp(v, provider.NewPrometheusProvider(c.Metrics.Namespace, c.Metrics.Subsystem))
	if err := app.Err(); err != nil {
		return errtrace.Wrap(err)
	}

	_, err = serve(app, app.Done())
	return errtrace.Wrap(err)
}

// serve starts app, waits for a signal, then stops app.  The signal that ended the wait
// is returned.
func serve(app *fx.App, signals <-chan os.Signal) (os.Signal, error) {
	var stopErr error
	s, err := concurrent.Await(
		concurrent.RunnableFunc(func(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
			startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return errtrace.Wrap(err)
			}

			waitGroup.Add(1)
			go func() {
				defer waitGroup.Done()
				<-shutdown

				stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
				defer cancel()
				stopErr = app.Stop(stopCtx)
			}()

			return nil
		}),
		signals,
	)

	if err != nil {
		return nil, err
	}

	return s, errtrace.Wrap(stopErr)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", applicationName, errtrace.FormatString(err))
		os.Exit(1)
	}
}
