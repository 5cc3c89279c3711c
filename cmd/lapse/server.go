// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"braces.dev/errtrace"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xmidt-org/sallust"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// logRequests places a request-scoped logger into each request's context.
func logRequests(logger *zap.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			requestLogger := logger.With(
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.String("remoteAddr", request.RemoteAddr),
			)

			requestLogger.Debug("request")
			next.ServeHTTP(response, request.WithContext(sallust.With(request.Context(), requestLogger)))
		})
	}
}

// statusHandler serves the state of every configured timer as JSON.
type statusHandler struct {
	timers *Timers
}

func (sh statusHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	response.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(response).Encode(sh.timers.Status()); err != nil {
		sallust.Get(request.Context()).Error("unable to write timer status", zap.Error(err))
	}
}

func provideHandler(logger *zap.Logger, ts *Timers) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.Handle("/timers", statusHandler{timers: ts}).Methods(http.MethodGet)

	return alice.New(logRequests(logger)).Then(router)
}

// registerServer serves h at the configured metrics address for the life of the application.
func registerServer(lc fx.Lifecycle, logger *zap.Logger, c Config, h http.Handler) {
	if len(c.Metrics.Address) == 0 {
		logger.Info("no metrics address configured")
		return
	}

	server := &http.Server{
		Addr:              c.Metrics.Address,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			l, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return errtrace.Wrap(err)
			}

			logger.Info("serving", zap.Stringer("address", l.Addr()))
			go func() {
				if err := server.Serve(l); !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server exited", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return errtrace.Wrap(server.Shutdown(ctx))
		},
	})
}
