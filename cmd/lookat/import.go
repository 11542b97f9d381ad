package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/etree"
	"github.com/fwojciec/lookat/yaml"
)

// Run executes the import command. Categories that already exist are
// left untouched.
func (c *ImportCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer f.Close()

	categories, err := decoderFor(c.Format, c.File).DecodeCategories(f)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lookat.ErrorMessage(err))
		return err
	}

	var created, existing int
	for _, cat := range categories {
		err := deps.Categories.CreateCategory(deps.Ctx, cat)
		switch {
		case lookat.ErrorCode(err) == lookat.ECONFLICT:
			existing++
			fmt.Fprintf(deps.Stdout, "  exists %s\n", cat.Name)
		case err != nil:
			fmt.Fprintf(deps.Stderr, "error: %s\n", lookat.ErrorMessage(err))
			return err
		default:
			created++
			fmt.Fprintf(deps.Stdout, "  added %s (%d sources)\n", cat.Name, len(cat.Sources))
		}
	}

	fmt.Fprintf(deps.Stdout, "Imported %d categories (%d already existed)\n", created, existing)
	return nil
}

// decoderFor selects the seed decoder for format, detecting by file
// extension when format is "auto".
func decoderFor(format, path string) lookat.CategoryDecoder {
	if format == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".opml", ".xml":
			format = "opml"
		default:
			format = "yaml"
		}
	}
	if format == "opml" {
		return etree.NewOPML()
	}
	return yaml.NewSeed()
}
