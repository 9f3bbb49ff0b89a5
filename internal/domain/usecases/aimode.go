package usecases

import "github.com/0xcro3dile/wikibot-go/internal/domain/ports"

// AIMode is the process-wide generative-text capability: enabled with a
// generator, or disabled. Chosen once at startup and never changed.
type AIMode struct {
	generator ports.TextGenerator
}

// AIEnabled returns a mode backed by gen. A nil gen yields a disabled mode.
func AIEnabled(gen ports.TextGenerator) AIMode {
	return AIMode{generator: gen}
}

// AIDisabled returns the mode used when no generative credential is configured.
func AIDisabled() AIMode {
	return AIMode{}
}

// Enabled reports whether AI-backed paths are reachable.
func (m AIMode) Enabled() bool {
	return m.generator != nil
}

// Provider names the backing generator, or "disabled".
func (m AIMode) Provider() string {
	if m.generator == nil {
		return "disabled"
	}
	return m.generator.Name()
}
