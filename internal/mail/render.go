package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"strings"

	"github.com/briancappello/starter/internal/config"
)

//go:embed templates
var templateFS embed.FS

// Renderer executes embedded HTML templates with site values injected.
type Renderer struct {
	tmpl *template.Template
	site config.SiteConfig
	from string
}

// NewRenderer parses the embedded templates.
func NewRenderer(site config.SiteConfig, from string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join": func(base, path string) string {
			return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
		},
	}).ParseFS(templateFS, "templates/email/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, site: site, from: from}, nil
}

// Render produces the Email for msg. Templates see the message data plus
// SiteName and BaseURL.
func (r *Renderer) Render(msg Message) (Email, error) {
	if len(msg.To) == 0 {
		return Email{}, ErrNoRecipients
	}

	data := make(map[string]any, len(msg.Data)+2)
	maps.Copy(data, msg.Data)
	data["SiteName"] = r.site.Name
	data["BaseURL"] = strings.TrimRight(r.site.BaseURL, "/")
	if msg.BaseURL != "" {
		data["BaseURL"] = strings.TrimRight(msg.BaseURL, "/")
	}

	name := strings.TrimPrefix(msg.Template, "email/")
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return Email{}, fmt.Errorf("mail: render %s: %w", msg.Template, err)
	}

	return Email{
		From:    r.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    buf.String(),
	}, nil
}
