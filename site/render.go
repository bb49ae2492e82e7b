package site

import (
	"embed"
	"html/template"
	"io"
	"strings"
	"unicode"

	"github.com/adammarchelino/portfolio/contact"
	"github.com/adammarchelino/portfolio/model"
)

const PageTemplate = "page.html"

//go:embed templates/*.html
var templateFS embed.FS

// Assets holds the stylesheet and script of the page.
//
//go:embed assets
var Assets embed.FS

var funcs = template.FuncMap{
	"initial":     initial,
	"when":        when,
	"statusClass": statusClass,
}

type Templates struct {
	t *template.Template
}

func LoadTemplates() (*Templates, error) {
	t, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{t: t}, nil
}

func (t *Templates) Render(w io.Writer, name string, data interface{}) error {
	return t.t.ExecuteTemplate(w, name, data)
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

func when(msg model.Message) string {
	if msg.Pending() {
		return "..."
	}
	return msg.Timestamp.Local().Format("02/01/2006 15.04")
}

func statusClass(kind contact.StatusKind) string {
	switch kind {
	case contact.KindSuccess:
		return "status status-success"
	case contact.KindError:
		return "status status-error"
	default:
		return "status status-info"
	}
}
