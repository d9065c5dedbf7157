package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionHeaders(content string) []string {
	var sections []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}
	return sections
}

func TestWriteConfigOrdered(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), configPath))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)

	sections := sectionHeaders(string(content))
	require.NotEmpty(t, sections)
	assert.IsNonDecreasing(t, sections)

	var decoded Config
	require.NoError(t, toml.Unmarshal(content, &decoded))
	assert.Equal(t, DefaultConfig().Session, decoded.Session)
	assert.Equal(t, DefaultConfig().Suspension.DenyPatterns, decoded.Suspension.DenyPatterns)
}

func TestWriteConfigOrdered_NilConfig(t *testing.T) {
	assert.Error(t, WriteConfigOrdered(nil, filepath.Join(t.TempDir(), "config.toml")))
}

func TestSortTOMLSections(t *testing.T) {
	input := `title = 'x'

[suspension]
placeholder_url = 'omni://suspended'

[logging]
level = 'info'

[session]
max_sessions_local = 50
`

	result := sortTOMLSections(input)

	assert.Equal(t, []string{"[logging]", "[session]", "[suspension]"}, sectionHeaders(result))
	assert.True(t, strings.HasPrefix(result, "title = 'x'\n\n[logging]"))
	assert.True(t, strings.HasSuffix(result, "max_sessions_local = 50\n"))
	assert.Empty(t, sortTOMLSections(""))
}
