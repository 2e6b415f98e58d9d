package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseResearch, "research"},
		{PhaseImplement, "implement"},
		{PhaseTest, "test"},
		{PhaseVerify, "verify"},
		{PhaseShip, "ship"},
		{PhaseMeta, "meta"},
		{PhaseUtility, "utility"},
		{Phase(0), ""},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestParsePhase(t *testing.T) {
	for p := PhaseResearch; p <= PhaseUtility; p++ {
		if got := ParsePhase(p.String()); got != p {
			t.Errorf("ParsePhase(%q) = %d, want %d", p.String(), got, p)
		}
	}

	if got := ParsePhase("nonsense"); got != 0 {
		t.Errorf("ParsePhase(nonsense) = %d, want 0", got)
	}
}

func TestCallEvent_ContentID(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := &CallEvent{Session: "s1", Tool: "resolve_gap", Timestamp: ts}
	b := &CallEvent{Session: "s1", Tool: "resolve_gap", Timestamp: ts}
	c := &CallEvent{Session: "s1", Tool: "resolve_gap", Timestamp: ts.Add(time.Second)}

	if a.ContentID() != b.ContentID() {
		t.Errorf("identical events produced different IDs")
	}
	if a.ContentID() == c.ContentID() {
		t.Errorf("events at different times produced the same ID")
	}
}
