package observability

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogger_LevelAndJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "warn")

	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	l.Warn().Int64("hotel_id", 7).Msg("shown")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON line: %v (%q)", err, buf.String())
	}
	if line["message"] != "shown" || line["service"] != "hotel-pricing" || line["hotel_id"] != 7.0 {
		t.Fatalf("unexpected fields: %v", line)
	}
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "loud")
	l.Info().Msg("ok")
	if buf.Len() == 0 {
		t.Fatalf("expected info output")
	}
}
