// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

// mockHTTPServer blocks in ListenAndServe until Shutdown unless listenErr is set.
type mockHTTPServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	stopCh      chan struct{}
	shutdowns   atomic.Int32
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{started: make(chan struct{}, 1), stopCh: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.started <- struct{}{}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdowns.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), timeout)
		if svc.timeout != DefaultShutdownTimeout {
			t.Errorf("timeout %v: got %v, want %v", timeout, svc.timeout, DefaultShutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newMockHTTPServer(), time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	tests := []struct {
		name          string
		listenErr     error
		shutdownErr   error
		cancel        bool
		wantErr       error
		wantShutdowns int32
	}{
		{name: "graceful shutdown", cancel: true, wantErr: context.Canceled, wantShutdowns: 1},
		{name: "listen fails", listenErr: errors.New("address already in use"), wantShutdowns: 0},
		{name: "shutdown fails", cancel: true, shutdownErr: errors.New("connections still open"), wantShutdowns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newMockHTTPServer()
			server.listenErr = tt.listenErr
			server.shutdownErr = tt.shutdownErr
			svc := NewHTTPServerService(server, time.Second)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- svc.Serve(ctx) }()

			<-server.started
			if tt.cancel {
				cancel()
			}

			var err error
			select {
			case err = <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("Serve() did not return")
			}

			switch {
			case tt.listenErr != nil:
				if !errors.Is(err, tt.listenErr) {
					t.Errorf("Serve() error = %v, want %v", err, tt.listenErr)
				}
			case tt.shutdownErr != nil:
				if !errors.Is(err, tt.shutdownErr) {
					t.Errorf("Serve() error = %v, want %v", err, tt.shutdownErr)
				}
			default:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Serve() error = %v, want %v", err, tt.wantErr)
				}
			}
			if got := server.shutdowns.Load(); got != tt.wantShutdowns {
				t.Errorf("Shutdown calls = %d, want %d", got, tt.wantShutdowns)
			}
		})
	}
}
