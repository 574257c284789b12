package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/printing"
	"github.com/tijara/backend/internal/infrastructure/locale"
)

//go:embed templates/*.html
var templateFS embed.FS

const deliveryNoteTemplate = "delivery_note.html"

// DeliveryNoteTemplate renders a delivery note view model to HTML
type DeliveryNoteTemplate struct {
	tmpl *template.Template
}

// NewDeliveryNoteTemplate parses the embedded template with French formatting
func NewDeliveryNoteTemplate(f *locale.Formatter) (*DeliveryNoteTemplate, error) {
	if f == nil {
		f = locale.French()
	}
	tmpl, err := template.New(deliveryNoteTemplate).
		Funcs(funcMap(f)).
		ParseFS(templateFS, "templates/"+deliveryNoteTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse delivery note template: %w", err)
	}
	return &DeliveryNoteTemplate{tmpl: tmpl}, nil
}

// Render executes the template
func (t *DeliveryNoteTemplate) Render(note *printing.DeliveryNote) (string, error) {
	if note == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "delivery note is nil", nil)
	}
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, deliveryNoteTemplate, note); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "execute delivery note template", err)
	}
	return buf.String(), nil
}

func funcMap(f *locale.Formatter) template.FuncMap {
	return template.FuncMap{
		"money":        f.Money,
		"quantity":     f.QuantityWithUnit,
		"date":         f.Date,
		"optionalDate": f.OptionalDate,
		"yesNo":        locale.YesNo,
		"join":         strings.Join,
		"number": func(d decimal.Decimal) string {
			if d.IsInteger() {
				return f.Number(d, 0)
			}
			return f.Number(d, 3)
		},
		"logo": logoURL,
	}
}

// logoURL lets http(s) and inline image URLs through; anything else renders
// as an empty src so the image is hidden as a failed load.
func logoURL(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "data:image/") {
		return template.URL(raw)
	}
	return ""
}
