package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

type fakeServer struct {
	addr string

	listenErr   error
	shutdownErr error

	listenCalled   chan struct{}
	shutdownCalled bool
	closeCalled    bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{addr: ":0", listenCalled: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	close(f.listenCalled)
	return f.listenErr
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdownCalled = true
	return f.shutdownErr
}

func (f *fakeServer) Close() error {
	f.closeCalled = true
	return nil
}

func (f *fakeServer) Addr() string { return f.addr }

func TestRun_BootstrapFail(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	build := func() (httpServer, func(), error) {
		return nil, nil, errors.New("boom")
	}

	if err := Run(build, sigCh, zerolog.Nop()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_OnSignal_GracefulShutdown(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	fs := newFakeServer()
	fs.listenErr = http.ErrServerClosed

	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	if err := Run(build, sigCh, zerolog.Nop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.shutdownCalled {
		t.Fatalf("expected Shutdown called")
	}
	if fs.closeCalled {
		t.Fatalf("did not expect Close on clean shutdown")
	}
	if !cleanupCalled {
		t.Fatalf("expected cleanup called")
	}
}

func TestRun_ShutdownFailure_ForcesClose(t *testing.T) {
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	fs := newFakeServer()
	fs.listenErr = http.ErrServerClosed
	fs.shutdownErr = context.DeadlineExceeded

	build := func() (httpServer, func(), error) {
		return fs, func() {}, nil
	}

	if err := Run(build, sigCh, zerolog.Nop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.closeCalled {
		t.Fatalf("expected Close after failed shutdown")
	}
}

func TestRun_ServerCrash(t *testing.T) {
	sigCh := make(chan os.Signal, 1)

	fs := newFakeServer()
	fs.listenErr = errors.New("address in use")

	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	if err := Run(build, sigCh, zerolog.Nop()); err == nil {
		t.Fatalf("expected error on crash")
	}
	if fs.shutdownCalled {
		t.Fatalf("did not expect Shutdown after crash")
	}
	if !cleanupCalled {
		t.Fatalf("expected cleanup called")
	}
}
