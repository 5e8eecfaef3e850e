// Package renderer turns engine reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// funcs are the formatting helpers available to every template.
var funcs = template.FuncMap{
	// rate formats a fractional rate as a percentage (0.1234 -> "12.34%").
	"rate": func(v float64) string { return fmt.Sprintf("%.2f%%", 100*v) },
	// num formats a float with two decimals.
	"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

// renderTemplate executes one embedded template file against data.
func renderTemplate(name, file string, data any) string {
	content, err := templates.ReadFile(file)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", file, err)
	}
	tmpl, err := template.New(name).Funcs(funcs).Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", file, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
