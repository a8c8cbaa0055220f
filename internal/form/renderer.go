// internal/form/renderer.go
//
// Forms subsystem: HTML field renderer.
//
// Context
//   Given a parsed FormDef this file converts its fields into plain,
//   accessible HTML.  Server-side validation errors are written next to the
//   field they belong to and flagged with aria-invalid, so the page works
//   without JavaScript.  Secret fields (passwords) are never prefilled.
//
// Workflow
//   •  RenderFields looks up the FormDef by ID and writes each field via
//      writeField, followed by the hidden CSRF input.
//   •  The caller receives template.HTML so the surrounding page template
//      does not double-escape the markup.
//
// Style
//   Output HTML carries no framework classes.  Each input gets id="fld-{name}"
//   and is wrapped in <div class="form-field"> for consistent styling.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
)

// TokenField is the hidden input carrying the CSRF token.
const TokenField = "csrf_token"

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	// Prefill provides initial field values keyed by field name.  Ignored
	// for secret fields.
	Prefill map[string]string
	// Errors holds one message per failing field.
	Errors map[string]string
	// Token is the CSRF token to embed.  Empty omits the hidden input.
	Token string
}

// RenderFields returns the field markup for formID.
func RenderFields(formID string, opts RenderOptions) (template.HTML, error) {
	fd, ok := GetFormDef(formID)
	if !ok {
		return "", fmt.Errorf("RenderFields: unknown form %q", formID)
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="form-fields">` + "\n")
	for i := range fd.Fields {
		writeField(&buf, &fd.Fields[i], opts)
	}
	if opts.Token != "" {
		buf.WriteString(`<input type="hidden" name="` + TokenField + `" value="` + html.EscapeString(opts.Token) + `">` + "\n")
	}
	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// writeField emits one labelled input, its error slot, and its attributes.
func writeField(buf *bytes.Buffer, f *FieldDef, opts RenderOptions) {
	name := html.EscapeString(f.Name)
	id := "fld-" + name
	msg := opts.Errors[f.Name]

	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label for="` + id + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	buf.WriteString(`<input id="` + id + `" name="` + name + `" type="` + f.Type + `"`)
	if !f.Secret {
		if val := opts.Prefill[f.Name]; val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
	}
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Autocomplete != "" {
		buf.WriteString(` autocomplete="` + html.EscapeString(f.Autocomplete) + `"`)
	}
	if msg != "" {
		buf.WriteString(` aria-invalid="true" aria-describedby="err-` + name + `"`)
	}
	buf.WriteString(`>` + "\n")

	// Error slot is always present so client-side updates have a target.
	buf.WriteString(`<span class="error" id="err-` + name + `" aria-live="polite">` + html.EscapeString(msg) + `</span>` + "\n")
	buf.WriteString(`</div>` + "\n")
}
