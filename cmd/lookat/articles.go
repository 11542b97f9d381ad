package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/lookat"
)

// Run executes the articles command.
func (c *ArticlesCmd) Run(deps *Dependencies) error {
	filter := lookat.ArticleFilter{Limit: c.Limit}
	if c.Category != "" {
		filter.Category = &c.Category
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lookat.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'lookat run' to fetch feeds.")
		return nil
	}

	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = a.Link
		}
		fmt.Fprintf(deps.Stdout, "%s  [%s] %s\n    %s (%s)\n",
			a.PubDate.Format("2006-01-02 15:04"), a.Category, title, a.Link, a.Source)
	}
	return nil
}
