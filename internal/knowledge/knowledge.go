// Package knowledge holds the biographical data that grounds the chatbot's answers.
//
// A KnowledgeBase is built once at process start and then only read, so a
// single value can be shared across concurrent requests.
package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingName is returned when a knowledge base has no subject name
var ErrMissingName = errors.New("knowledge base: name is required")

// KnowledgeBase describes the portfolio owner
type KnowledgeBase struct {
	Name           string          `mapstructure:"name" json:"name"`
	Description    string          `mapstructure:"description" json:"description"`
	Summary        string          `mapstructure:"summary" json:"summary"`
	Skills         []string        `mapstructure:"skills" json:"skills"`
	Work           []WorkEntry     `mapstructure:"work" json:"work"`
	Education      []Education     `mapstructure:"education" json:"education"`
	Projects       []Project       `mapstructure:"projects" json:"projects"`
	Certifications []Certification `mapstructure:"certifications" json:"certifications"`
	Contact        Contact         `mapstructure:"contact" json:"contact"`
}

// WorkEntry is one position in the work history. An empty End means the
// position is still held.
type WorkEntry struct {
	Company     string `mapstructure:"company" json:"company"`
	Title       string `mapstructure:"title" json:"title"`
	Location    string `mapstructure:"location" json:"location,omitempty"`
	Start       string `mapstructure:"start" json:"start"`
	End         string `mapstructure:"end" json:"end"`
	Description string `mapstructure:"description" json:"description"`
}

// Education is one entry of the education history
type Education struct {
	School string `mapstructure:"school" json:"school"`
	Degree string `mapstructure:"degree" json:"degree"`
	Start  string `mapstructure:"start" json:"start"`
	End    string `mapstructure:"end" json:"end"`
}

// Project is a portfolio project
type Project struct {
	Title        string   `mapstructure:"title" json:"title"`
	Dates        string   `mapstructure:"dates" json:"dates"`
	Description  string   `mapstructure:"description" json:"description"`
	Technologies []string `mapstructure:"technologies" json:"technologies"`
}

// Certification is a professional certification
type Certification struct {
	Title       string `mapstructure:"title" json:"title"`
	Dates       string `mapstructure:"dates" json:"dates"`
	Description string `mapstructure:"description" json:"description"`
}

// Contact holds the public contact details
type Contact struct {
	Email    string `mapstructure:"email" json:"email"`
	GitHub   string `mapstructure:"github" json:"github"`
	LinkedIn string `mapstructure:"linkedin" json:"linkedin"`
}

// Validate checks the fields the prompt cannot do without
func (kb KnowledgeBase) Validate() error {
	if strings.TrimSpace(kb.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Load reads a knowledge base from a YAML, JSON or TOML file
func Load(path string) (KnowledgeBase, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return KnowledgeBase{}, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}

	var kb KnowledgeBase
	if err := v.Unmarshal(&kb); err != nil {
		return KnowledgeBase{}, fmt.Errorf("failed to decode knowledge base %s: %w", path, err)
	}

	if err := kb.Validate(); err != nil {
		return KnowledgeBase{}, err
	}

	return kb, nil
}

// LoadOrDefault loads the file at path, or returns Default when path is empty
func LoadOrDefault(path string) (KnowledgeBase, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
