// Package report renders a ScoreCard to the supported output formats.
// Rendering is purely presentational and never feeds back into scoring.
package report

import (
	"io"
	"strings"

	apperrors "oascore.io/oascore/internal/pkg/errors"

	"oascore.io/oascore/internal/judge"
)

// Format selects an output renderer.
type Format string

const (
	FormatConsole  Format = "console"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatConsole:
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", apperrors.BadRequest(apperrors.CodeReportFormatInvalid,
			"unsupported report format: "+s)
	}
}

// Render writes the card to w in the given format.
func Render(w io.Writer, card *judge.ScoreCard, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, card)
	case FormatMarkdown:
		return WriteMarkdown(w, card)
	case FormatHTML:
		return WriteHTML(w, card)
	case FormatConsole:
		return WriteConsole(w, card)
	default:
		return apperrors.BadRequest(apperrors.CodeReportFormatInvalid,
			"unsupported report format: "+string(format))
	}
}
