package answer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Persona configures the assistant's name and canned phrasing. It is loaded
// from a YAML file so the tone can be tweaked without a rebuild.
type Persona struct {
	Name         string `yaml:"name"`
	Preamble     string `yaml:"preamble"`
	NoMatchReply string `yaml:"no_match_reply"`
	MaxSnippets  int    `yaml:"max_snippets"`
}

// DefaultPersona returns the built-in assistant persona.
func DefaultPersona() *Persona {
	return &Persona{
		Name:         "Milky",
		Preamble:     "Here is what I found in your documents:",
		NoMatchReply: "I could not find anything about that in the uploaded documents.",
		MaxSnippets:  5,
	}
}

// LoadPersona reads a persona YAML file. A missing file yields the default
// persona; a present-but-invalid file is an error. Unset fields fall back to
// defaults.
func LoadPersona(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPersona(), nil
		}
		return nil, fmt.Errorf("reading persona file: %w", err)
	}

	p := &Persona{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing persona file: %w", err)
	}

	def := DefaultPersona()
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.NoMatchReply == "" {
		p.NoMatchReply = def.NoMatchReply
	}
	if p.MaxSnippets <= 0 {
		p.MaxSnippets = def.MaxSnippets
	}

	return p, nil
}
