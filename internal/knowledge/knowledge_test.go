package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: Ada Lovelace
description: Analyst
summary: Wrote the first program.
skills:
  - Mathematics
  - Poetry
work:
  - company: Analytical Engine Co
    title: Programmer
    start: "1842"
    end: ""
    description: Notes on the engine.
education:
  - school: Home
    degree: Private tutoring
    start: "1830"
    end: "1835"
projects:
  - title: Note G
    dates: "1843"
    description: Bernoulli numbers.
    technologies: [Punch cards, Engine]
certifications: []
contact:
  email: ada@example.com
  github: https://github.com/ada
  linkedin: https://linkedin.com/in/ada
`

func TestDefaultIsValid(t *testing.T) {
	kb := Default()

	require.NoError(t, kb.Validate())
	assert.Len(t, kb.Skills, 11)
	assert.Len(t, kb.Work, 3)
	assert.Empty(t, kb.Work[0].End, "current position has no end date")
	assert.Len(t, kb.Projects, 6)
	assert.Len(t, kb.Certifications, 3)
	assert.NotEmpty(t, kb.Contact.GitHub)
	assert.NotEmpty(t, kb.Contact.LinkedIn)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	kb, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", kb.Name)
	assert.Equal(t, []string{"Mathematics", "Poetry"}, kb.Skills)
	require.Len(t, kb.Work, 1)
	assert.Equal(t, "Analytical Engine Co", kb.Work[0].Company)
	assert.Equal(t, "", kb.Work[0].End)
	require.Len(t, kb.Projects, 1)
	assert.Equal(t, []string{"Punch cards", "Engine"}, kb.Projects[0].Technologies)
	assert.Equal(t, "https://github.com/ada", kb.Contact.GitHub)
}

func TestLoadRejectsMissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("description: nobody\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	kb, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default().Name, kb.Name)
}
