package report

import (
	"encoding/json"
	"io"

	apperrors "oascore.io/oascore/internal/pkg/errors"

	"oascore.io/oascore/internal/judge"
)

// WriteJSON emits the card as indented JSON.
func WriteJSON(w io.Writer, card *judge.ScoreCard) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(card); err != nil {
		return apperrors.Wrap(err, apperrors.CodeReportWriteFailed, "encode scorecard", 500)
	}
	return nil
}
