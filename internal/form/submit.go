package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
	"github.com/sarrajlassi/jobanalyzer/internal/render"
)

// Submission is an extraction started by BeginSubmit
type Submission struct {
	Ticket  Ticket
	Request api.ExtractRequest
}

// BeginSubmit resolves the content of the active mode and puts the form in
// its loading state. An input error is shown in the error banner and no
// submission is started.
func (c *Controller) BeginSubmit() (*Submission, error) {
	content, err := c.Content()
	if err != nil {
		c.ShowError(err.Error())
		return nil, err
	}

	t := c.issue()
	c.latestSubmit = t.Seq

	sub := &Submission{
		Ticket: t,
		Request: api.ExtractRequest{
			Provider:  string(c.state.Provider),
			Config:    c.ProviderConfig(),
			InputType: string(c.state.Mode),
			Content:   content,
		},
	}

	c.state.Submitting = true
	c.state.LoadingText = fmt.Sprintf("Processing with %s...", strings.ToUpper(string(c.state.Provider)))
	c.state.ResultVisible = false
	c.state.Error = ""
	c.state.Success = nil

	c.logger.Info().
		Str("request_id", t.ID).
		Str("provider", sub.Request.Provider).
		Str("model", sub.Request.Config.Model).
		Str("input_type", sub.Request.InputType).
		Int("content_length", len(content)).
		Msg("submitting job posting")

	return sub, nil
}

// Send performs the extraction request. It does not touch the state.
func (c *Controller) Send(ctx context.Context, sub *Submission) (*api.ExtractResult, error) {
	return c.backend.Extract(api.WithRequestID(ctx, sub.Ticket.ID), sub.Request)
}

// CompleteSubmit renders the result with a success banner, or shows the
// failure banner. The loading state is released on both paths.
func (c *Controller) CompleteSubmit(sub *Submission, res *api.ExtractResult, err error) error {
	if sub.Ticket.Seq != c.latestSubmit {
		c.logger.Debug().Str("request_id", sub.Ticket.ID).Msg("dropping stale extraction")
		return ErrStale
	}
	defer func() {
		c.state.Submitting = false
		c.state.LoadingText = ""
	}()

	var formatted string
	if err == nil {
		formatted, err = render.Format(res.Data)
	}
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", sub.Ticket.ID).Msg("extraction failed")
		c.ShowError("Failed to extract job information: " + err.Error())
		return err
	}

	c.state.Result = formatted
	c.state.ResultVisible = true
	c.state.Success = &Success{
		Provider:      strings.ToUpper(res.Provider),
		ContentLength: res.ContentLength,
		CompletedAt:   c.now(),
		Warnings:      render.Inspect(res.Data),
	}

	c.logger.Info().
		Str("request_id", sub.Ticket.ID).
		Int("content_length", res.ContentLength).
		Int("warnings", len(c.state.Success.Warnings)).
		Msg("extraction complete")
	return nil
}

// Submit sends the current form content for extraction
func (c *Controller) Submit(ctx context.Context) (*api.ExtractResult, error) {
	sub, err := c.BeginSubmit()
	if err != nil {
		return nil, err
	}
	res, err := c.Send(ctx, sub)
	if err := c.CompleteSubmit(sub, res, err); err != nil {
		return nil, err
	}
	return res, nil
}
