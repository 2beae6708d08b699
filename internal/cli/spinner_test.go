package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner(context.Background(), "Retrieving")
	var buf bytes.Buffer
	s.out = &buf
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after a normal Stop")
	}
	if !bytes.Contains(buf.Bytes(), []byte("Retrieving")) {
		t.Errorf("spinner never drew its message: %q", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Retrieving")
	s.out = &bytes.Buffer{}
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpin(t *testing.T) {
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	v, err := spin(context.Background(), "working", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Errorf("spin() = %d, %v", v, err)
	}

	boom := errors.New("boom")
	if _, err := spin(context.Background(), "failing", func() (int, error) { return 0, boom }); err != boom {
		t.Errorf("spin() error = %v, want boom", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("failing")) {
		t.Errorf("failure not reported: %q", buf.String())
	}
}
