package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/secguide"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	passages, err := deps.Retriever.Retrieve(deps.Ctx, c.Query, secguide.RetrieveOptions{
		KFinal:      c.K,
		KCandidates: c.Candidates,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	if c.JSON {
		if passages == nil {
			passages = []*secguide.Passage{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(passages)
	}

	if len(passages) == 0 {
		fmt.Fprintln(deps.Stdout, "No relevant guidance found.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, secguide.FormatContext(passages))
	return nil
}
