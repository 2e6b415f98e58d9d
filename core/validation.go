// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateToolEntry validates a ToolEntry according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Category must not be empty
//
// NOT validated:
//   - Tags (an untagged tool is legal, it just ranks on name and text)
//   - Phase and Complexity (0 means unspecified)
func ValidateToolEntry(entry *ToolEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidToolEntry)
	}

	if entry.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidToolEntry, ErrEmptyToolName)
	}

	if entry.Category == "" {
		return fmt.Errorf("%w: %w", ErrInvalidToolEntry, ErrEmptyCategory)
	}

	return nil
}

// ValidateCallEvent validates a CallEvent according to domain rules.
//
// Validation rules:
//   - Session must not be empty
//   - Tool must not be empty
//   - Timestamp must not be in the future
func ValidateCallEvent(event *CallEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidCallEvent)
	}

	if event.Session == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCallEvent, ErrEmptySession)
	}

	if event.Tool == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCallEvent, ErrEmptyToolName)
	}

	if !IsValidTimestamp(event.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidCallEvent, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}

// NormalizeTags lowercases tags, trims whitespace, and collapses duplicates
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		out = append(out, cleaned)
	}
	return out
}
