package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReportsPhasesInOrder(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("walk")
	time.Sleep(time.Millisecond)
	tm.End(a, "")
	b := tm.Begin("evaluate")
	tm.End(b, "2 files")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "walk" || report.Phases[1].Name != "evaluate" {
		t.Fatalf("phase order wrong: %+v", report.Phases)
	}
	if report.Phases[0].DurationMS <= 0 {
		t.Fatalf("walk duration must be positive, got %f", report.Phases[0].DurationMS)
	}
	if report.Phases[1].Note != "2 files" {
		t.Fatalf("note lost: %+v", report.Phases[1])
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Fatalf("total %f below first phase %f", report.TotalMS, report.Phases[0].DurationMS)
	}
}

func TestTimerEndIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(-1, "")
	tm.End(3, "")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", got)
	}
}

func TestSummaryContainsTotal(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "")
	if s := tm.Summary(); !strings.Contains(s, "total") || !strings.Contains(s, "parse") {
		t.Fatalf("summary missing lines:\n%s", s)
	}
}
