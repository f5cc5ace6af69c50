package notifications

var commonTemplates = map[string]string{
	`default`: `
{{- with .Verdict -}}
{{- if eq .Class "failed" -}}
### 🚨 Service check failed - {{ $.Manifest }}
{{- else if eq .Class "stale" -}}
### ⬆️ Update available - {{ $.Manifest }}
{{- else -}}
### ✅ No update needed - {{ $.Manifest }}
{{- end }}
**Service:** {{ .Service }}
**Image:** {{ .Image }}
**Current version:** {{ .DeclaredVersion }}
{{- if .Error }}
**Error:** {{ .Error }}
{{- else }}
**Latest version:** {{ .LatestVersion }}
{{- end -}}
{{- end -}}`,

	`porcelain.v1`: `
{{- with .Verdict -}}
{{ .Service }} ({{ .Image }}): {{ .State }}
{{- with .LatestVersion }} {{ . }}{{ end }}
{{- with .Error }} Error: {{ . }}{{ end }}
{{- end -}}`,

	`json.v1`: `{{ . | ToJSON }}`,
}
