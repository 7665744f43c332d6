package llm

import (
	"bytes"
	"text/template"
)

var systemPromptTmpl = template.Must(template.New("systemPrompt").Funcs(template.FuncMap{"inc": inc}).Parse(
	`You are a conversation partner for a course on machine learning.
Answer the user's messages directly and concisely.
{{- if .HasRules }}

Follow these rules strictly:
{{- range $idx, $rule := .Rules }}
{{ inc $idx }}. {{ $rule }}
{{- end }}
{{- end }}
`))

// inc is a small helper for 1-based numbering in templates
func inc(i int) int { return i + 1 }

// BuildSystemPrompt constructs the system instruction with responder rules.
func BuildSystemPrompt(rules []string) string {
	data := struct {
		Rules    []string
		HasRules bool
	}{
		Rules:    rules,
		HasRules: len(rules) > 0,
	}

	var buf bytes.Buffer
	_ = systemPromptTmpl.Execute(&buf, data)
	return buf.String()
}
