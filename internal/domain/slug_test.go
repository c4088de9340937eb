package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "typescript", "typescript"},
		{"mixed case", "TypeScript", "typescript"},
		{"spaces", "Visual Basic", "visual-basic"},
		{"symbols collapse", "C++", "c"},
		{"sharp", "C#", "c"},
		{"dots", "ASP.NET", "asp-net"},
		{"digits kept", "HTML5 Canvas", "html5-canvas"},
		{"leading symbol", "@angular/cli", "angular-cli"},
		{"consecutive separators", "self  hosted -- tools", "self-hosted-tools"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	// Topics and languages are matched by slug across runs; the same name
	// must always produce the same slug.
	assert.Equal(t, Slugify("Jupyter Notebook"), Slugify("Jupyter Notebook"))
	assert.Equal(t, "jupyter-notebook", Slugify("Jupyter Notebook"))
}
