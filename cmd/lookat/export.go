package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/etree"
	"github.com/fwojciec/lookat/yaml"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	categories, err := deps.Categories.FindCategories(deps.Ctx, lookat.CategoryFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lookat.ErrorMessage(err))
		return err
	}

	var enc lookat.CategoryEncoder = yaml.NewSeed()
	if c.Format == "opml" {
		enc = etree.NewOPML()
	}

	var w io.Writer = deps.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		defer f.Close()
		w = f
	}

	if err := enc.EncodeCategories(w, categories); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
