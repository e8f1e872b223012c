// Package form renders and parses the profile selection form surface.
// The rendered fragment is embedded by the host framework's spawn page;
// parsing consumes the submitted field map the host hands back.
package form

import (
	"embed"
	"html/template"
	"strings"

	"github.com/conn-castle/spawn-layer/internal/catalog"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	selectTemplate = template.Must(template.ParseFS(templateFS, "templates/select.html.tmpl"))
	emptyTemplate  = template.Must(template.ParseFS(templateFS, "templates/empty.html.tmpl"))
)

// FieldProfile is the submitted form field carrying the chosen key.
const FieldProfile = "profile"

// FieldPayload is the submitted form field carrying an edited payload.
const FieldPayload = "payload"

// Selection is a parsed form submission.
type Selection struct {
	// Key is the chosen catalog key (first entry's key when the
	// submission carried none, "" when the catalog was empty too).
	Key string

	// Payload is the user-edited payload, "" when untouched.
	Payload string
}

type selectData struct {
	Entries      []catalog.Entry
	HasPayload   bool
	Payloads     map[string]string
	FirstPayload string
}

// Render produces the selection fragment: a select element listing every
// entry by label and key with the first entry pre-selected, plus an
// editable payload textarea when any entry carries one. An empty catalog
// renders the fallback "nothing available" fragment instead of a
// selector with zero options.
func Render(entries []catalog.Entry) (string, error) {
	var out strings.Builder
	if len(entries) == 0 {
		if err := emptyTemplate.Execute(&out, nil); err != nil {
			return "", err
		}
		return out.String(), nil
	}

	data := selectData{Entries: entries}
	for _, e := range entries {
		if e.Payload != "" {
			data.HasPayload = true
			break
		}
	}
	if data.HasPayload {
		data.Payloads = make(map[string]string, len(entries))
		for _, e := range entries {
			data.Payloads[e.Key] = e.Payload
		}
		data.FirstPayload = entries[0].Payload
	}
	if err := selectTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// ParseSelection extracts the chosen key and any edited payload from
// submitted fields. A missing or empty profile field falls back to the
// first catalog entry's key.
func ParseSelection(formData map[string][]string, entries []catalog.Entry) Selection {
	sel := Selection{}
	if values := formData[FieldProfile]; len(values) > 0 && values[0] != "" {
		sel.Key = values[0]
	} else if len(entries) > 0 {
		sel.Key = entries[0].Key
	}
	if values := formData[FieldPayload]; len(values) > 0 {
		sel.Payload = values[0]
	}
	return sel
}
