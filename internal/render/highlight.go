package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// Highlighter colors JSON text for the terminal
type Highlighter struct {
	lexer   chroma.Lexer
	style   *chroma.Style
	profile termenv.Profile
}

// NewHighlighter creates a highlighter using the named chroma style. Unknown
// styles fall back to chroma's default. The Ascii profile disables color.
func NewHighlighter(theme string, profile termenv.Profile) *Highlighter {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		lexer:   chroma.Coalesce(lexer),
		style:   style,
		profile: profile,
	}
}

// Highlight returns text with ANSI colors. The text is returned unchanged
// when color is disabled or tokenising fails.
func (h *Highlighter) Highlight(text string) string {
	if h.profile == termenv.Ascii || text == "" {
		return text
	}

	iterator, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var result strings.Builder
	for _, token := range iterator.Tokens() {
		result.WriteString(h.formatToken(token.Value, h.style.Get(token.Type)))
	}
	return result.String()
}

func (h *Highlighter) formatToken(value string, entry chroma.StyleEntry) string {
	if !entry.Colour.IsSet() && entry.Bold != chroma.Yes && entry.Italic != chroma.Yes {
		return value
	}

	// Style each line separately so escapes never span a newline
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		s := h.profile.String(line)
		if entry.Colour.IsSet() {
			s = s.Foreground(h.profile.Color(entry.Colour.String()))
		}
		if entry.Bold == chroma.Yes {
			s = s.Bold()
		}
		if entry.Italic == chroma.Yes {
			s = s.Italic()
		}
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}
