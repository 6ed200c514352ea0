package renderer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/loaders"
)

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		debug   bool
		info    bool
		warn    bool
	}{
		{"default", false, false, false, true, true},
		{"verbose", true, false, true, true, true},
		{"quiet", false, true, false, false, true},
		{"verbose wins", true, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, LevelFromFlags(tt.verbose, tt.quiet))
			core.Debugf(logger, "debug line\n")
			logger.Printf("info line\n")
			core.Warnf(logger, "warn line\n")
			core.Errorf(logger, "error line\n")

			out := buf.String()
			if strings.Contains(out, "debug line") != tt.debug {
				t.Errorf("debug shown = %v, want %v", !tt.debug, tt.debug)
			}
			if strings.Contains(out, "info line") != tt.info {
				t.Errorf("info shown = %v, want %v", !tt.info, tt.info)
			}
			if strings.Contains(out, "warn line") != tt.warn {
				t.Errorf("warn shown = %v, want %v", !tt.warn, tt.warn)
			}
			if !strings.Contains(out, "error line") {
				t.Errorf("errors should always be shown, got %q", out)
			}
		})
	}
}

func TestLeveledHelpersFallBackToPrintf(t *testing.T) {
	logger := &recordingLogger{}
	core.Debugf(logger, "a\n")
	core.Warnf(logger, "b\n")
	core.Errorf(logger, "c\n")
	assert.Equal(t, []string{"a\n", "b\n", "c\n"}, logger.lines)
}

func TestQuietKeepsAssetFallbackWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelFromFlags(false, true))

	loaders.LoadAssets(t.TempDir(), logger)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "Using procedural fallback for "+loaders.GalaxyFile)
}
