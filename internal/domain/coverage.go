package domain

import "sort"

// UnpricedModels returns the ids in providerIDs that have no catalog model,
// sorted and without duplicates.
func UnpricedModels(c *Catalog, providerIDs []string) []string {
	priced := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		priced[m.ID] = true
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, id := range providerIDs {
		if id == "" || priced[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	sort.Strings(out)
	return out
}
