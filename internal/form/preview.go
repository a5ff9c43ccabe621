package form

import (
	"context"
	"errors"
	"strings"

	"github.com/sarrajlassi/jobanalyzer/internal/api"
)

// ErrStale is returned when a completion arrives after a newer request of
// the same kind was started. The state is left untouched.
var ErrStale = errors.New("superseded by a newer request")

// PreviewRequest is a preview started by BeginPreview
type PreviewRequest struct {
	Ticket Ticket
	URL    string
}

// BeginPreview validates the URL and marks the preview button busy. A blank
// or malformed URL is reported in the error banner without any request.
func (c *Controller) BeginPreview() (*PreviewRequest, error) {
	raw := strings.TrimSpace(c.state.URL)
	if raw == "" {
		err := &EmptyInputError{Mode: ModeURL, Message: "Please enter a URL first."}
		c.ShowError(err.Error())
		return nil, err
	}
	if err := validateURL(raw); err != nil {
		c.ShowError(err.Error())
		return nil, err
	}

	t := c.issue()
	c.latestPreview = t.Seq
	c.state.PreviewLoading = true
	return &PreviewRequest{Ticket: t, URL: raw}, nil
}

// FetchPreview performs the preview request. It does not touch the state.
func (c *Controller) FetchPreview(ctx context.Context, req *PreviewRequest) (*api.URLPreview, error) {
	return c.backend.PreviewURL(api.WithRequestID(ctx, req.Ticket.ID), req.URL)
}

// CompletePreview stores the preview, or clears it and shows the error. The
// button is released on both paths.
func (c *Controller) CompletePreview(req *PreviewRequest, preview *api.URLPreview, err error) error {
	if req.Ticket.Seq != c.latestPreview {
		c.logger.Debug().Str("request_id", req.Ticket.ID).Msg("dropping stale preview")
		return ErrStale
	}
	c.state.PreviewLoading = false

	if err != nil {
		c.logger.Error().Err(err).Str("request_id", req.Ticket.ID).Str("url", req.URL).Msg("error fetching url")
		c.state.Preview = nil
		c.ShowError("Error fetching URL: " + err.Error())
		return err
	}

	c.state.Preview = &URLPreview{
		Title:  preview.Title,
		URL:    preview.URL,
		Text:   preview.Preview,
		Length: preview.Length,
	}
	return nil
}

// PreviewURL previews the current URL
func (c *Controller) PreviewURL(ctx context.Context) (*URLPreview, error) {
	req, err := c.BeginPreview()
	if err != nil {
		return nil, err
	}
	preview, err := c.FetchPreview(ctx, req)
	if err := c.CompletePreview(req, preview, err); err != nil {
		return nil, err
	}
	return c.state.Preview, nil
}
