// Package form holds the job posting form: its state and the controller that
// drives input acquisition, provider selection and submission.
package form

import (
	"fmt"
	"time"
)

// Mode is the input channel feeding a submission
type Mode string

const (
	ModeText Mode = "text"
	ModeURL  Mode = "url"
	ModePDF  Mode = "pdf"
)

// Modes lists the input modes in display order
var Modes = []Mode{ModeText, ModeURL, ModePDF}

// ParseMode converts a string to a Mode
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown input mode %q", s)
}

// Provider is a backend model source
type Provider string

const (
	ProviderOllama   Provider = "ollama"
	ProviderOpenAI   Provider = "openai"
	ProviderDeepSeek Provider = "deepseek"
)

// Providers lists the providers in display order
var Providers = []Provider{ProviderOllama, ProviderOpenAI, ProviderDeepSeek}

// ParseProvider converts a string to a Provider
func ParseProvider(s string) (Provider, error) {
	for _, p := range Providers {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Hosted reports whether the provider is a hosted API whose key lives on the server
func (p Provider) Hosted() bool {
	return p == ProviderOpenAI || p == ProviderDeepSeek
}

// ModelOption is one entry of a provider's model selector. Placeholder
// entries have an empty Value.
type ModelOption struct {
	Value string
	Label string
}

// ProviderPanel is the configuration panel of one provider
type ProviderPanel struct {
	Options  []ModelOption
	Selected string
	Status   string
	Disabled bool

	// DefaultModel is the server default recorded at load
	DefaultModel string

	// KeyConfigured is reported for hosted providers only
	KeyConfigured *bool
}

func (p *ProviderPanel) hasOption(value string) bool {
	for _, o := range p.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// SelectedFile is the PDF chosen for pdf mode
type SelectedFile struct {
	Path string
	Name string
	Size int64
	Type string
}

// URLPreview is a successful URL preview
type URLPreview struct {
	Title  string
	URL    string
	Text   string
	Length int
}

// Success is the banner shown after a completed extraction
type Success struct {
	Provider      string
	ContentLength int
	CompletedAt   time.Time
	Warnings      []string
}

// State is everything the form displays. It is mutated only by the
// Controller, from a single goroutine.
type State struct {
	Mode     Mode
	Provider Provider
	Panels   map[Provider]*ProviderPanel

	Text    string
	URL     string
	File    *SelectedFile
	Preview *URLPreview

	PreviewLoading bool

	Submitting  bool
	LoadingText string

	Result        string
	ResultVisible bool

	Error   string
	Success *Success
}

// Panel returns the panel of the current provider
func (s *State) Panel() *ProviderPanel {
	return s.Panels[s.Provider]
}

// PreviewLabel is the label of the preview button
func (s *State) PreviewLabel() string {
	if s.PreviewLoading {
		return "Loading..."
	}
	return "Preview"
}

// SubmitDisabled reports whether a submission is in flight
func (s *State) SubmitDisabled() bool {
	return s.Submitting
}
