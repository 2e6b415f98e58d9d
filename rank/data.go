package rank

// DefaultSynonyms maps query words to domain-vocabulary equivalents.
// Expansion is one directional and single hop.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"verify":   {"check", "validate", "confirm", "test"},
		"check":    {"verify", "validate", "inspect"},
		"test":     {"verify", "check", "validate"},
		"fix":      {"repair", "resolve", "patch"},
		"resolve":  {"fix", "repair", "close"},
		"find":     {"search", "locate", "discover"},
		"search":   {"find", "query", "lookup"},
		"capture":  {"screenshot", "snapshot", "record"},
		"screen":   {"screenshot", "display", "ui"},
		"browse":   {"navigate", "open", "visit"},
		"run":      {"execute", "launch", "invoke"},
		"analyze":  {"inspect", "examine", "review"},
		"document": {"write", "record", "describe"},
		"debug":    {"diagnose", "troubleshoot", "trace"},
	}
}

// DefaultClusters groups categories that commonly serve the same workflow.
// A tool gains a boost when another top-ranked tool belongs to the same
// cluster.
func DefaultClusters() map[string][]string {
	return map[string][]string{
		"verification": {"verification", "quality_gate", "flywheel"},
		"browsing":     {"ui_testing", "navigation", "web"},
		"analysis":     {"analysis", "research", "inspection"},
		"delivery":     {"deployment", "release", "quality_gate"},
	}
}
