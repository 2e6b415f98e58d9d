package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Phase identifies where a tool sits in the agent workflow.
type Phase int

const (
	// PhaseResearch covers exploration and information gathering tools.
	PhaseResearch Phase = iota + 1
	// PhaseImplement covers code and artifact producing tools.
	PhaseImplement
	// PhaseTest covers test execution tools.
	PhaseTest
	// PhaseVerify covers verification and gap-checking tools.
	PhaseVerify
	// PhaseShip covers release and delivery tools.
	PhaseShip
	// PhaseMeta covers tools that operate on the tool system itself.
	PhaseMeta
	// PhaseUtility covers general-purpose helper tools.
	PhaseUtility
)

// String returns the lowercase name of the phase, or "" for unknown values.
func (p Phase) String() string {
	switch p {
	case PhaseResearch:
		return "research"
	case PhaseImplement:
		return "implement"
	case PhaseTest:
		return "test"
	case PhaseVerify:
		return "verify"
	case PhaseShip:
		return "ship"
	case PhaseMeta:
		return "meta"
	case PhaseUtility:
		return "utility"
	}
	return ""
}

// ParsePhase converts a phase name to its Phase value.
// Returns 0 for unknown names.
func ParsePhase(name string) Phase {
	for p := PhaseResearch; p <= PhaseUtility; p++ {
		if p.String() == name {
			return p
		}
	}
	return 0
}

// ComplexityTier is an optional coarse effort estimate for a tool.
type ComplexityTier int

const (
	// ComplexityLow marks tools that complete in a single call.
	ComplexityLow ComplexityTier = iota + 1
	// ComplexityMedium marks tools that usually need follow-up calls.
	ComplexityMedium
	// ComplexityHigh marks tools that drive multi-step workflows.
	ComplexityHigh
)

// Guidance tells a caller what to do after selecting a tool.
type Guidance struct {
	NextAction     string   `json:"next_action"`
	SuggestedTools []string `json:"suggested_tools,omitempty"`
	Methodology    string   `json:"methodology,omitempty"`
	Tip            string   `json:"tip,omitempty"`
}

// ToolEntry describes a single capability in the catalog.
// Entries are loaded once at startup and never mutated.
type ToolEntry struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags"`
	Phase       Phase          `json:"-"`
	PhaseName   string         `json:"phase,omitempty"`
	Guidance    Guidance       `json:"guidance"`
	Complexity  ComplexityTier `json:"complexity,omitempty"`
}

// RankedResult is a single entry in the ranked output of a search.
type RankedResult struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Score       float64  `json:"score"`
	Reasons     []string `json:"reasons,omitempty"`
	Guidance    Guidance `json:"guidance"`
	Phase       string   `json:"phase,omitempty"`
	Tags        []string `json:"tags"`
}

// CallEvent records a single tool invocation inside a session.
// Events are appended to the call log and mined for co-occurrence.
type CallEvent struct {
	Id         ID
	Session    string
	Tool       string
	Timestamp  time.Time // When the call happened
	InsertedAt time.Time // When the event was appended to the log
}

// ContentID returns the deterministic ID for this event based on its
// session, tool, and timestamp.
func (e *CallEvent) ContentID() ID {
	return IDFromContent(e.Session + "|" + e.Tool + "|" + e.Timestamp.UTC().Format(time.RFC3339Nano))
}
