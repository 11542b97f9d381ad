package main

import (
	"fmt"

	"github.com/fwojciec/lookat"
)

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	categories, err := deps.Categories.FindCategories(deps.Ctx, lookat.CategoryFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lookat.ErrorMessage(err))
		return err
	}

	if len(categories) == 0 {
		fmt.Fprintln(deps.Stdout, "No categories found. Use 'lookat import' to create some.")
		return nil
	}

	for _, cat := range categories {
		fmt.Fprintf(deps.Stdout, "%s (%d sources)\n", cat.Name, len(cat.Sources))
		for _, src := range cat.Sources {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", src.Name, src.URL)
		}
	}
	return nil
}
