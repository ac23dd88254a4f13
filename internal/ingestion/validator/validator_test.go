package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		doc    ingestion.Document
		fields []string
	}{
		{name: "valid", path: "data/a.json", doc: ingestion.Document{Title: "T", Text: "body"}},
		{name: "missing title", path: "data/a.json", doc: ingestion.Document{Text: "body"}, fields: []string{"title"}},
		{name: "blank text", path: "data/a.json", doc: ingestion.Document{Title: "T", Text: "  "}, fields: []string{"text"}},
		{name: "reserved path", path: "data/a;b.json", doc: ingestion.Document{Title: "T", Text: "x"}, fields: []string{"path"}},
		{name: "long title", path: "a.json", doc: ingestion.Document{Title: strings.Repeat("t", 2000), Text: "x"}, fields: []string{"title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.path, &tt.doc)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			for _, f := range tt.fields {
				assert.Contains(t, ve.Fields, f)
			}
		})
	}
}
