package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"shipdate/internal/simulation"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleOutcomes() map[time.Time]simulation.Outcome {
	return map[time.Time]simulation.Outcome{
		date(2024, time.June, 3): {Total: 40, Probability: 0.4},
		date(2024, time.June, 4): {Total: 47, Probability: 0.87},
		date(2024, time.June, 5): {Total: 13, Probability: 1.0},
	}
}

func TestPercentileDate(t *testing.T) {
	outcomes := sampleOutcomes()

	if d, ok := PercentileDate(outcomes, 0.5); !ok || !d.Equal(date(2024, time.June, 4)) {
		t.Errorf("Expected P50 on 2024-06-04, got %s (ok=%v)", d.Format("2006-01-02"), ok)
	}
	if d, ok := PercentileDate(outcomes, 0.95); !ok || !d.Equal(date(2024, time.June, 5)) {
		t.Errorf("Expected P95 on 2024-06-05, got %s (ok=%v)", d.Format("2006-01-02"), ok)
	}

	// A run with failed iterations never reaches 1.0.
	short := map[time.Time]simulation.Outcome{
		date(2024, time.June, 3): {Total: 40, Probability: 0.4},
	}
	if _, ok := PercentileDate(short, 0.95); ok {
		t.Error("Expected P95 to be unreachable")
	}
}

func TestRender(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	Render(&buf, "Example", sampleOutcomes())
	out := buf.String()

	for _, want := range []string{
		"Forecast for Example",
		"2024-06-03",
		"40",
		"87.0%",
		"85% (commitment)",
		"2024-06-04",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRender_EmptyOutcomes(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	Render(&buf, "Example", nil)
	if !strings.Contains(buf.String(), "No successful iterations") {
		t.Errorf("Expected empty-run message, got: %s", buf.String())
	}
}
