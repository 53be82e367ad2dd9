package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput("debug", "json", &buf)

	logger.WithField("collection", "inventory").Debug("listed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry["collection"] != "inventory" {
		t.Errorf("expected collection field, got %v", entry["collection"])
	}
	if entry["msg"] != "listed" {
		t.Errorf("expected msg listed, got %v", entry["msg"])
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	logger := NewWithOutput("loud", "text", &bytes.Buffer{})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %s", logger.GetLevel())
	}
}
