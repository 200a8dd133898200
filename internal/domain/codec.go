package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeCatalog decodes stored catalog bytes through the lenient merge.
func DecodeCatalog(data []byte) (*Catalog, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return MergeCatalog(raw), nil
}

func decodeObject(data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedCatalog)
	}

	return obj, nil
}

// EncodeCatalog renders the catalog in its persisted form: indented JSON with
// HTML characters left unescaped and a trailing newline.
func EncodeCatalog(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	return buf.Bytes(), nil
}
