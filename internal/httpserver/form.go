package httpserver

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// parseBracketForm nests form values addressed with bracket keys, so
// "models[0][pricing][1][id]=x" becomes
// {"models": {"0": {"pricing": {"1": {"id": "x"}}}}}.
// When a key repeats, its last value wins. Empty brackets ("tags[]") are
// numbered in order of appearance.
func parseBracketForm(values url.Values) map[string]any {
	root := make(map[string]any)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}

		path := splitBracketKey(key)
		if len(path) == 0 {
			continue
		}

		if path[len(path)-1] == "" {
			for _, v := range vals {
				assign(root, path, v)
			}
			continue
		}
		assign(root, path, vals[len(vals)-1])
	}

	return root
}

// splitBracketKey splits "a[b][c]" into ["a", "b", "c"]. A key with
// unbalanced brackets is treated as a plain name.
func splitBracketKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		if key == "" {
			return nil
		}
		return []string{key}
	}

	path := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}

	return path
}

func assign(node map[string]any, path []string, value string) {
	for i, segment := range path {
		last := i == len(path)-1

		if segment == "" {
			segment = nextIndex(node)
		}

		if last {
			node[segment] = value
			return
		}

		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
}

func nextIndex(node map[string]any) string {
	return strconv.Itoa(len(node))
}
