package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevel(t *testing.T) {
	defer func() { logger = logger.Level(zerolog.TraceLevel) }()

	tests := []struct {
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"bogus", zerolog.WarnLevel, true},
	}
	for _, tt := range tests {
		err := SetLevel(tt.level)
		if (err != nil) != tt.wantErr {
			t.Fatalf("SetLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
		}
		if got := Logger().GetLevel(); got != tt.want {
			t.Errorf("SetLevel(%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	log := Logger()
	log.Warn().Str("quantity", "first_cell_height").Msg("calculation failed")

	if !strings.Contains(buf.String(), "calculation failed") {
		t.Errorf("output = %q, want message", buf.String())
	}
	if !strings.Contains(buf.String(), "first_cell_height") {
		t.Errorf("output = %q, want field", buf.String())
	}
}
