package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompts(t *testing.T) {
	keys := []string{"extract-profile", "recommend-career", "generate-questions", "targeted-questions"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			prompt, err := Get("tools.json", key)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
		})
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("tools.json", "does-not-exist")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "extract-profile")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	template := "Role: {{.TargetRole}}, Level: {{.DifficultyLevel}}"
	result := Format(template, map[string]string{
		"TargetRole":      "SRE",
		"DifficultyLevel": "advanced",
	})
	assert.Equal(t, "Role: SRE, Level: advanced", result)
}

func TestFormat_PlaceholdersSubstituted(t *testing.T) {
	prompt := MustGet("tools.json", "generate-questions")
	formatted := Format(prompt, map[string]string{
		"ProfileText":     "profile here",
		"TargetRole":      "Data Engineer",
		"DifficultyLevel": "intermediate",
	})
	assert.Contains(t, formatted, "profile here")
	assert.Contains(t, formatted, "Data Engineer")
	assert.NotContains(t, formatted, "{{.ProfileText}}")
}
