package form

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
)

const (
	keyConfigured    = "✅ API key configured on server"
	keyNotConfigured = "❌ API key not configured on server"
)

// SetProvider switches the active provider panel
func (c *Controller) SetProvider(p Provider) error {
	if _, err := ParseProvider(string(p)); err != nil {
		return err
	}
	c.state.Provider = p
	return nil
}

// ProviderConfig returns the configuration attached to an extraction
func (c *Controller) ProviderConfig() api.ProviderConfig {
	return api.ProviderConfig{Model: c.state.Panel().Selected}
}

// SelectModel selects a model of a provider. A name not among the options is
// added to them.
func (c *Controller) SelectModel(p Provider, name string) error {
	panel, ok := c.state.Panels[p]
	if !ok {
		return fmt.Errorf("unknown provider %q", p)
	}
	if name == "" {
		return fmt.Errorf("empty model name")
	}
	if !panel.hasOption(name) {
		panel.Options = append(panel.Options, ModelOption{Value: name, Label: name})
	}
	panel.Selected = name
	return nil
}

// CycleModel moves the selection of the current provider by delta,
// wrapping around and skipping placeholders. A disabled selector is left
// alone.
func (c *Controller) CycleModel(delta int) {
	panel := c.state.Panel()
	if panel.Disabled {
		return
	}

	var values []string
	current := -1
	for _, o := range panel.Options {
		if o.Value == "" {
			continue
		}
		if o.Value == panel.Selected {
			current = len(values)
		}
		values = append(values, o.Value)
	}
	if len(values) == 0 {
		return
	}
	if current < 0 {
		panel.Selected = values[0]
		return
	}

	n := len(values)
	panel.Selected = values[((current+delta)%n+n)%n]
}

// ApplyServerConfig applies the server-side provider defaults. The local
// provider only records its default; it is selected by model discovery.
func (c *Controller) ApplyServerConfig(cfg *api.ServerConfig) {
	if cfg == nil {
		return
	}

	if cfg.Ollama != nil && cfg.Ollama.DefaultModel != "" {
		c.state.Panels[ProviderOllama].DefaultModel = cfg.Ollama.DefaultModel
	}
	c.applyHosted(ProviderOpenAI, cfg.OpenAI)
	c.applyHosted(ProviderDeepSeek, cfg.DeepSeek)
}

func (c *Controller) applyHosted(p Provider, d *api.ProviderDefaults) {
	if d == nil {
		return
	}
	panel := c.state.Panels[p]

	if d.DefaultModel != "" {
		panel.DefaultModel = d.DefaultModel
		if !panel.hasOption(d.DefaultModel) {
			panel.Options = append([]ModelOption{{Value: d.DefaultModel, Label: d.DefaultModel}}, panel.Options...)
		}
		panel.Selected = d.DefaultModel
	}

	configured := d.APIKeyConfigured != nil && *d.APIKeyConfigured
	panel.KeyConfigured = &configured
	if configured {
		panel.Status = keyConfigured
	} else {
		panel.Status = keyNotConfigured
	}
}

// ModelMatch is a model option matching a filter query
type ModelMatch struct {
	Option         ModelOption
	Score          int
	MatchedIndexes []int
}

type optionSource []ModelOption

func (s optionSource) String(i int) string {
	return strings.ToLower(s[i].Label)
}

func (s optionSource) Len() int {
	return len(s)
}

// FilterModels fuzzy-matches the options of the current provider. An empty
// query returns every selectable option.
func (c *Controller) FilterModels(query string) []ModelMatch {
	var options []ModelOption
	for _, o := range c.state.Panel().Options {
		if o.Value != "" {
			options = append(options, o)
		}
	}

	if strings.TrimSpace(query) == "" {
		matches := make([]ModelMatch, len(options))
		for i, o := range options {
			matches[i] = ModelMatch{Option: o}
		}
		return matches
	}

	found := fuzzy.FindFrom(strings.ToLower(query), optionSource(options))
	matches := make([]ModelMatch, len(found))
	for i, m := range found {
		matches[i] = ModelMatch{
			Option:         options[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return matches
}
