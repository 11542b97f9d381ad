// Package yaml reads and writes category definitions as YAML seed files.
package yaml

import (
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/lookat"
	"gopkg.in/yaml.v3"
)

var (
	_ lookat.CategoryDecoder = (*Seed)(nil)
	_ lookat.CategoryEncoder = (*Seed)(nil)
)

// document is the on-disk layout:
//
//	categories:
//	  - name: Technology
//	    sources:
//	      - name: Example
//	        url: https://example.com/rss
type document struct {
	Categories []category `yaml:"categories"`
}

type category struct {
	Name    string   `yaml:"name"`
	Sources []source `yaml:"sources,omitempty"`
}

type source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Seed converts between YAML seed files and categories.
type Seed struct{}

// NewSeed creates a YAML seed codec.
func NewSeed() *Seed {
	return &Seed{}
}

// DecodeCategories parses a seed file. Unknown keys are rejected.
func (s *Seed) DecodeCategories(r io.Reader) ([]*lookat.Category, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, lookat.Errorf(lookat.EINVALID, "empty seed file")
		}
		return nil, lookat.Errorf(lookat.EINVALID, "parsing seed file: %v", err)
	}

	categories := make([]*lookat.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		out := &lookat.Category{Name: c.Name, Sources: make([]lookat.FeedSource, 0, len(c.Sources))}
		for _, src := range c.Sources {
			out.Sources = append(out.Sources, lookat.FeedSource{Name: src.Name, URL: src.URL})
		}
		if err := out.Validate(); err != nil {
			return nil, err
		}
		categories = append(categories, out)
	}
	return categories, nil
}

// EncodeCategories writes categories as a seed file.
func (s *Seed) EncodeCategories(w io.Writer, categories []*lookat.Category) error {
	doc := document{Categories: make([]category, 0, len(categories))}
	for _, c := range categories {
		out := category{Name: c.Name}
		for _, src := range c.Sources {
			out.Sources = append(out.Sources, source{Name: src.Name, URL: src.URL})
		}
		doc.Categories = append(doc.Categories, out)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing seed file: %w", err)
	}
	return enc.Close()
}
