package api

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/layouts/*.html templates/pages/*.html
var templatesFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		// svg marks chart markup produced by dashboard.RenderSVG as safe.
		"svg": func(s string) template.HTML { return template.HTML(s) },
		"since": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return time.Since(*t).Round(time.Second).String()
		},
	}

	return template.New("base").Funcs(funcs).ParseFS(templatesFS,
		"templates/layouts/*.html",
		"templates/pages/*.html",
	)
}
