package form

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const pdfMIME = "application/pdf"

// SetMode switches the active input mode
func (c *Controller) SetMode(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	c.state.Mode = mode
	return nil
}

// SetText replaces the pasted job posting
func (c *Controller) SetText(text string) {
	c.state.Text = text
}

// SetURL replaces the job posting URL. The stored preview is kept until the
// next preview attempt.
func (c *Controller) SetURL(raw string) {
	c.state.URL = raw
}

// Content resolves the submission content of the active mode
func (c *Controller) Content() (string, error) {
	switch c.state.Mode {
	case ModeURL:
		u := strings.TrimSpace(c.state.URL)
		if u == "" {
			return "", &EmptyInputError{Mode: ModeURL, Message: "Please enter and preview a URL first."}
		}
		return u, nil

	case ModePDF:
		if c.state.File == nil {
			return "", ErrNoFileSelected
		}
		data, err := os.ReadFile(c.state.File.Path)
		if err != nil {
			return "", &FileReadError{Path: c.state.File.Path, Err: err}
		}
		return "data:" + c.state.File.Type + ";base64," + base64.StdEncoding.EncodeToString(data), nil

	default:
		if strings.TrimSpace(c.state.Text) == "" {
			return "", &EmptyInputError{Mode: ModeText, Message: "Please enter a job posting to analyze."}
		}
		return c.state.Text, nil
	}
}

// SelectFile chooses the PDF for pdf mode. The file type is sniffed from its
// content; anything but a PDF is rejected and the previous selection kept.
func (c *Controller) SelectFile(path string) (*SelectedFile, error) {
	path = expandHome(strings.TrimSpace(path))

	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &UnsupportedFileError{Path: path, Type: "a directory"}
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	if !mt.Is(pdfMIME) {
		return nil, &UnsupportedFileError{Path: path, Type: mt.String()}
	}

	c.state.File = &SelectedFile{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
		Type: pdfMIME,
	}
	c.logger.Debug().Str("file", path).Int64("size", info.Size()).Msg("pdf selected")
	return c.state.File, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &InvalidURLError{URL: raw, Err: err}
	}
	if u.Scheme == "" {
		return &InvalidURLError{URL: raw}
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return &InvalidURLError{URL: raw}
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
