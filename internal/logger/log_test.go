// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
)

func TestNew(t *testing.T) {
	if l := New(slog.LevelInfo); l == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLogger(t *testing.T) {
	levels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	messages := map[slog.Level]string{
		slog.LevelDebug: "pipeline debug",
		slog.LevelInfo:  "pipeline info",
		slog.LevelWarn:  "pipeline warn",
		slog.LevelError: "pipeline error",
	}
	for _, min := range levels {
		t.Run(min.String(), func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewLogger(min, buf)
			l.Debug(messages[slog.LevelDebug])
			l.Info(messages[slog.LevelInfo])
			l.Warn(messages[slog.LevelWarn])
			l.Error(messages[slog.LevelError])

			for level, msg := range messages {
				logged := bytes.Contains(buf.Bytes(), []byte(msg))
				if level >= min && !logged {
					t.Errorf("expected %q to be logged at minimum level %s", msg, min)
				}
				if level < min && logged {
					t.Errorf("did not expect %q to be logged at minimum level %s", msg, min)
				}
			}
		})
	}
}

func TestErr(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := NewLogger(slog.LevelDebug, buf)
	want := "location lookup failed"
	l.Error("run failed", Err(errors.New(want)))

	if !bytes.Contains(buf.Bytes(), []byte(`error="`+want+`"`)) {
		t.Errorf("expected log output to contain %q, got: %q", want, buf.String())
	}
}
