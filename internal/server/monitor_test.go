package server

import (
	"testing"

	"github.com/lox/liarsbar/internal/game"
)

type testMonitor struct {
	startCalls  int
	roundCalls  int
	endCalls    int
	lastSummary game.RoundSummary
	lastResult  MatchResult
}

func (tm *testMonitor) OnMatchStart(string, []string) {
	tm.startCalls++
}

func (tm *testMonitor) OnRoundResolved(_ string, _ int, summary game.RoundSummary) {
	tm.roundCalls++
	tm.lastSummary = summary
}

func (tm *testMonitor) OnMatchEnd(result MatchResult) {
	tm.endCalls++
	tm.lastResult = result
}

func TestNewMultiMatchMonitor(t *testing.T) {
	m1 := &testMonitor{}
	m2 := &testMonitor{}

	monitor := NewMultiMatchMonitor(nil, m1, m2)

	monitor.OnMatchStart("ABC123", []string{"alice", "bob"})
	monitor.OnRoundResolved("ABC123", 1, game.RoundSummary{Result: game.ResultLiar, Loser: "bob"})
	monitor.OnMatchEnd(MatchResult{MatchID: "ABC123", Winner: "alice"})

	if m1.startCalls != 1 || m2.startCalls != 1 {
		t.Fatalf("expected both monitors to receive start event, got m1=%d m2=%d", m1.startCalls, m2.startCalls)
	}
	if m1.roundCalls != 1 || m2.roundCalls != 1 {
		t.Fatalf("expected both monitors to receive round event, got m1=%d m2=%d", m1.roundCalls, m2.roundCalls)
	}
	if m1.lastSummary.Loser != "bob" || m2.lastSummary.Loser != "bob" {
		t.Fatalf("expected round summary propagation")
	}
	if m1.endCalls != 1 || m2.endCalls != 1 {
		t.Fatalf("expected both monitors to receive end event, got m1=%d m2=%d", m1.endCalls, m2.endCalls)
	}
	if m1.lastResult.Winner != "alice" || m2.lastResult.Winner != "alice" {
		t.Fatalf("expected result propagation")
	}
}

func TestNewMultiMatchMonitorReturnsNullWhenEmpty(t *testing.T) {
	monitor := NewMultiMatchMonitor(nil)

	if _, ok := monitor.(NullMatchMonitor); !ok {
		t.Fatalf("expected null match monitor when no monitors provided")
	}
}

func TestNewMultiMatchMonitorReturnsMonitorWhenSingle(t *testing.T) {
	m := &testMonitor{}
	monitor := NewMultiMatchMonitor(m)

	if monitor != m {
		t.Fatalf("expected single monitor to be returned directly")
	}
}
