package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
)

// Backend is the part of the extraction API the form uses
type Backend interface {
	Config(ctx context.Context) (*api.ServerConfig, error)
	Models(ctx context.Context) ([]api.Model, error)
	PreviewURL(ctx context.Context, rawURL string) (*api.URLPreview, error)
	Extract(ctx context.Context, req api.ExtractRequest) (*api.ExtractResult, error)
}

// Options configures a Controller
type Options struct {
	DefaultMode     Mode
	DefaultProvider Provider

	// HostedModels are the built-in option lists of the hosted providers
	HostedModels map[Provider][]string

	// SamplePosting preloads the text input with an example posting
	SamplePosting bool

	Logger zerolog.Logger

	// Now defaults to time.Now
	Now func() time.Time
}

// Ticket identifies one submission or preview. Only the latest ticket of
// each kind may update the state.
type Ticket struct {
	Seq uint64
	ID  string
}

// Controller owns the form state. Network calls are split in three steps so
// the blocking part can run off the event loop: Begin mutates the state and
// returns what the call needs, the call itself touches nothing, Complete
// applies the outcome. The one-shot methods chain the three.
type Controller struct {
	backend Backend
	state   *State
	logger  zerolog.Logger
	now     func() time.Time

	seq           uint64
	latestSubmit  uint64
	latestPreview uint64
}

// NewController creates a controller with the initial form state
func NewController(backend Backend, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultMode == "" {
		opts.DefaultMode = ModeText
	}
	if opts.DefaultProvider == "" {
		opts.DefaultProvider = ProviderOllama
	}

	state := &State{
		Mode:     opts.DefaultMode,
		Provider: opts.DefaultProvider,
		Panels:   make(map[Provider]*ProviderPanel, len(Providers)),
	}
	for _, p := range Providers {
		panel := &ProviderPanel{}
		for _, name := range opts.HostedModels[p] {
			panel.Options = append(panel.Options, ModelOption{Value: name, Label: name})
		}
		if len(panel.Options) > 0 {
			panel.Selected = panel.Options[0].Value
		}
		state.Panels[p] = panel
	}
	if opts.SamplePosting {
		state.Text = SamplePosting
	}

	return &Controller{
		backend: backend,
		state:   state,
		logger:  opts.Logger.With().Str("component", "form").Logger(),
		now:     opts.Now,
	}
}

// State returns the form state. Callers must not modify it.
func (c *Controller) State() *State {
	return c.state
}

// ShowError replaces the error banner
func (c *Controller) ShowError(msg string) {
	c.state.Error = msg
}

// DismissError hides the error banner
func (c *Controller) DismissError() {
	c.state.Error = ""
}

func (c *Controller) issue() Ticket {
	c.seq++
	return Ticket{Seq: c.seq, ID: uuid.NewString()}
}

// FetchConfig performs the config request. It does not touch the state.
func (c *Controller) FetchConfig(ctx context.Context) (*api.ServerConfig, error) {
	return c.backend.Config(ctx)
}

// CompleteConfig applies a fetched configuration. A failure is logged and
// leaves the form unconfigured but usable.
func (c *Controller) CompleteConfig(cfg *api.ServerConfig, err error) error {
	if err != nil {
		c.logger.Error().Err(err).Msg("error loading config")
		return err
	}
	c.ApplyServerConfig(cfg)
	return nil
}

// LoadConfig fetches and applies the server configuration
func (c *Controller) LoadConfig(ctx context.Context) error {
	return c.CompleteConfig(c.FetchConfig(ctx))
}

// Initialize loads the server configuration and then discovers the local
// models, whether or not the configuration could be loaded.
func (c *Controller) Initialize(ctx context.Context) error {
	cfgErr := c.LoadConfig(ctx)
	_, modelsErr := c.DiscoverModels(ctx)
	return errors.Join(cfgErr, modelsErr)
}

// BeginDiscovery disables the local model selector while models load
func (c *Controller) BeginDiscovery() {
	panel := c.state.Panels[ProviderOllama]
	panel.Disabled = true
	panel.Status = "Loading models..."
}

// CompleteDiscovery fills the local model selector. The selector is enabled
// again whatever the outcome.
func (c *Controller) CompleteDiscovery(models []api.Model, err error) {
	panel := c.state.Panels[ProviderOllama]
	defer func() { panel.Disabled = false }()

	if err != nil {
		c.logger.Error().Err(err).Msg("error loading models")
		panel.Options = []ModelOption{{Label: "Error loading models"}}
		panel.Selected = ""
		panel.Status = "Error: " + err.Error()
		return
	}

	if len(models) == 0 {
		panel.Options = []ModelOption{{Label: "No models available"}}
		panel.Selected = ""
		panel.Status = "No models found. Make sure Ollama is running and has models installed."
		return
	}

	panel.Options = make([]ModelOption, len(models))
	defaultFound := false
	for i, m := range models {
		panel.Options[i] = ModelOption{
			Value: m.Name,
			Label: fmt.Sprintf("%s (%s)", m.Name, FormatBytes(m.Size)),
		}
		if panel.DefaultModel != "" && m.Name == panel.DefaultModel {
			defaultFound = true
		}
	}
	if defaultFound {
		panel.Selected = panel.DefaultModel
	} else {
		panel.Selected = panel.Options[0].Value
	}

	status := fmt.Sprintf("Found %d model(s)", len(models))
	if panel.DefaultModel != "" {
		if defaultFound {
			status += fmt.Sprintf(" - Default model '%s' selected", panel.DefaultModel)
		} else {
			status += fmt.Sprintf(" - Default model '%s' not found", panel.DefaultModel)
		}
	}
	panel.Status = status

	c.logger.Info().Int("count", len(models)).Str("selected", panel.Selected).Msg("models loaded")
}

// FetchModels performs the model list request. It does not touch the state.
func (c *Controller) FetchModels(ctx context.Context) ([]api.Model, error) {
	return c.backend.Models(ctx)
}

// DiscoverModels lists the local models and fills the selector
func (c *Controller) DiscoverModels(ctx context.Context) ([]api.Model, error) {
	c.BeginDiscovery()
	models, err := c.FetchModels(ctx)
	c.CompleteDiscovery(models, err)
	return models, err
}
