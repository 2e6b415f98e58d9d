package catalog

import (
	"strings"
	"unicode"

	"github.com/poiesic/toolrank/core"
)

// Stop words filtered from document and query tokens before vector weighting
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// Document is the textual surface of a tool used for lexical and dense
// matching. It is derived once per entry and cached by the catalog.
type Document struct {
	// Name is the tool identifier, lowercased.
	Name string

	// Segments are the identifier split on word boundaries (_ and -).
	Segments []string

	// Tags is the normalized tag set.
	Tags []string

	// TagSet is Tags as a membership map.
	TagSet map[string]bool

	// Category is the lowercased category.
	Category string

	// Description is the lowercased free-text description.
	Description string

	// Tokens is the dense-vector surface: identifier segments, tags,
	// category, and short-guidance tokens with stop words removed.
	Tokens []string

	// Combined is the full lowercased text (name, tags, category,
	// description, guidance) used for phrase matching.
	Combined string
}

func newDocument(entry *core.ToolEntry) *Document {
	name := strings.ToLower(entry.Name)
	category := strings.ToLower(entry.Category)
	description := strings.ToLower(entry.Description)
	segments := SegmentName(name)

	tagSet := make(map[string]bool, len(entry.Tags))
	for _, tag := range entry.Tags {
		tagSet[tag] = true
	}

	guidance := strings.ToLower(strings.Join([]string{
		entry.Guidance.NextAction,
		entry.Guidance.Methodology,
		entry.Guidance.Tip,
	}, " "))

	tokens := make([]string, 0, len(segments)+len(entry.Tags)+8)
	tokens = append(tokens, segments...)
	tokens = append(tokens, entry.Tags...)
	tokens = append(tokens, Tokenize(category)...)
	tokens = append(tokens, Tokenize(guidance)...)

	combined := strings.Join([]string{
		strings.ReplaceAll(name, "_", " "),
		strings.Join(entry.Tags, " "),
		category,
		description,
		guidance,
	}, " ")

	return &Document{
		Name:        name,
		Segments:    segments,
		Tags:        entry.Tags,
		TagSet:      tagSet,
		Category:    category,
		Description: description,
		Tokens:      tokens,
		Combined:    combined,
	}
}

// SegmentName splits a tool identifier into its word-boundary segments.
// "capture_screenshot" becomes ["capture", "screenshot"].
func SegmentName(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
}

// Tokenize lowercases text, splits on whitespace and punctuation, and
// removes stop words and single-character fragments.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})

	filtered := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) > 1 && !stopWords[word] {
			filtered = append(filtered, word)
		}
	}
	return filtered
}

// QueryTokens lowercases and whitespace-tokenizes a raw query without
// stop-word filtering. Lexical signals match stop words too ("the fix").
func QueryTokens(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
