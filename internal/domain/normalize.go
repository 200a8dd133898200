package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const unspecifiedModel = "unspecified"

// MergeCatalog builds a catalog from a decoded, possibly malformed structure.
// Fields that type-check are kept; anything missing or wrong-typed falls back
// to the defaults. It never fails.
func MergeCatalog(raw any) *Catalog {
	out := DefaultCatalog()

	root, ok := asFields(raw)
	if !ok {
		return out
	}

	if meta, isMap := asFields(root["meta"]); isMap {
		if v, isNum := asNumber(meta["usd_to_jpy"]); isNum {
			out.Meta.USDToJPY = v
		}
		out.Meta.LastUpdated, _ = meta["last_updated"].(string)
		out.Meta.ExchangeRateSource, _ = meta["exchange_rate_source"].(string)
		out.Meta.Notes, _ = meta["notes"].(string)
	}

	for _, entry := range orderedEntries(root["models"]) {
		fields, isMap := asFields(entry)
		if !isMap {
			continue
		}
		out.Models = append(out.Models, mergeModel(fields))
	}

	return out
}

func mergeModel(fields map[string]any) Model {
	m := Model{Pricing: []Component{}}
	m.ID, _ = fields["id"].(string)
	m.Name, _ = fields["name"].(string)
	m.Category, _ = fields["category"].(string)
	m.Description, _ = fields["description"].(string)

	for _, entry := range orderedEntries(fields["pricing"]) {
		cf, ok := asFields(entry)
		if !ok {
			continue
		}

		c := Component{UnitSize: 1}
		c.ID, _ = cf["id"].(string)
		c.Label, _ = cf["label"].(string)
		c.Unit, _ = cf["unit"].(string)
		c.InputUnit, _ = cf["input_unit"].(string)
		c.Help, _ = cf["help"].(string)
		c.Optional, _ = cf["optional"].(bool)
		if v, isNum := asNumber(cf["unit_size"]); isNum {
			c.UnitSize = v
		}
		if v, isNum := asNumber(cf["price_per_unit_usd"]); isNum {
			c.PricePerUnitUSD = v
		}

		m.Pricing = append(m.Pricing, c)
	}

	return m
}

// ValidateSubmission turns an edit-form submission into a catalog.
//
// The input mirrors the form field names: "meta" holds usd_to_jpy,
// last_updated, exchange_rate_source and notes; "models" holds model entries
// (a list, or a map keyed by index strings), each with its own "pricing"
// entries. Every problem is reported; the returned catalog always reflects
// what was typed so it can be redisplayed, but it must not be persisted when
// the error list is non-empty.
func ValidateSubmission(input map[string]any) (*Catalog, []string) {
	out := DefaultCatalog()
	var errs []string

	meta, _ := asFields(input["meta"])
	out.Meta = Meta{
		USDToJPY:           formNumber(meta["usd_to_jpy"], 0),
		LastUpdated:        formText(meta["last_updated"]),
		ExchangeRateSource: formText(meta["exchange_rate_source"]),
		Notes:              formText(meta["notes"]),
	}
	if out.Meta.USDToJPY <= 0 {
		errs = append(errs, "Meta: exchange rate must be greater than 0.")
	}

	firstSeen := make(map[string]int)
	for i, entry := range orderedEntries(input["models"]) {
		fields, ok := asFields(entry)
		if !ok {
			continue
		}

		position := i + 1
		model, modelErrs := validateModel(position, fields)
		errs = append(errs, modelErrs...)

		if model.ID != "" {
			if first, dup := firstSeen[model.ID]; dup {
				errs = append(errs, fmt.Sprintf("Model #%d: id %q is already used by model #%d.", position, model.ID, first))
			} else {
				firstSeen[model.ID] = position
			}
		}

		out.Models = append(out.Models, model)
	}

	return out, errs
}

func validateModel(position int, fields map[string]any) (Model, []string) {
	var errs []string

	m := Model{
		ID:          formText(fields["id"]),
		Name:        formText(fields["name"]),
		Category:    formText(fields["category"]),
		Description: formText(fields["description"]),
		Pricing:     []Component{},
	}

	if m.ID == "" {
		errs = append(errs, fmt.Sprintf("Model #%d: id is required.", position))
	}

	modelRef := m.ID
	if modelRef == "" {
		modelRef = unspecifiedModel
	}

	seen := make(map[string]bool)
	for j, entry := range orderedEntries(fields["pricing"]) {
		cf, ok := asFields(entry)
		if !ok {
			continue
		}

		c := Component{
			ID:              formText(cf["id"]),
			Label:           formText(cf["label"]),
			Unit:            formText(cf["unit"]),
			InputUnit:       formText(cf["input_unit"]),
			Help:            formText(cf["help"]),
			UnitSize:        formNumber(cf["unit_size"], 1),
			PricePerUnitUSD: formNumber(cf["price_per_unit_usd"], 0),
			Optional:        formFlag(cf["optional"]),
		}

		// The editor always posts an empty placeholder row.
		if isBlankComponent(c) {
			continue
		}

		componentRef := c.ID
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("Model %q component #%d: id is required.", modelRef, j+1))
			componentRef = fmt.Sprintf("#%d", j+1)
		} else if seen[c.ID] {
			errs = append(errs, fmt.Sprintf("Model %q component %q: id is duplicated.", modelRef, c.ID))
		}
		seen[c.ID] = true

		if c.UnitSize <= 0 {
			errs = append(errs, fmt.Sprintf("Model %q component %q: unit size must be greater than 0.", modelRef, componentRef))
			c.UnitSize = 1
		}

		if c.PricePerUnitUSD < 0 {
			errs = append(errs, fmt.Sprintf("Model %q component %q: price per unit (USD) must be 0 or greater.", modelRef, componentRef))
			c.PricePerUnitUSD = 0
		}

		m.Pricing = append(m.Pricing, c)
	}

	return m, errs
}

func isBlankComponent(c Component) bool {
	return c.ID == "" && c.Label == "" && c.Unit == "" && c.InputUnit == "" && c.Help == "" &&
		c.PricePerUnitUSD == 0 && c.UnitSize == 1 && !c.Optional
}

// SubmissionFromCatalog renders a catalog in the edit-form shape accepted by
// ValidateSubmission. Numbers are rendered as form text.
func SubmissionFromCatalog(c *Catalog) map[string]any {
	models := make(map[string]any, len(c.Models))
	for i, m := range c.Models {
		pricing := make(map[string]any, len(m.Pricing))
		for j, comp := range m.Pricing {
			optional := ""
			if comp.Optional {
				optional = "1"
			}
			pricing[strconv.Itoa(j)] = map[string]any{
				"id":                 comp.ID,
				"label":              comp.Label,
				"unit":               comp.Unit,
				"input_unit":         comp.InputUnit,
				"unit_size":          FormatFloatInput(comp.UnitSize),
				"price_per_unit_usd": FormatFloatInput(comp.PricePerUnitUSD),
				"help":               comp.Help,
				"optional":           optional,
			}
		}

		models[strconv.Itoa(i)] = map[string]any{
			"id":          m.ID,
			"name":        m.Name,
			"category":    m.Category,
			"description": m.Description,
			"pricing":     pricing,
		}
	}

	return map[string]any{
		"meta": map[string]any{
			"usd_to_jpy":           FormatFloatInput(c.Meta.USDToJPY),
			"last_updated":         c.Meta.LastUpdated,
			"exchange_rate_source": c.Meta.ExchangeRateSource,
			"notes":                c.Meta.Notes,
		},
		"models": models,
	}
}

// orderedEntries returns list entries as-is and map entries ordered by their
// numeric index; non-numeric keys follow in lexical order.
func orderedEntries(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return indexLess(keys[i], keys[j]) })

		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, t[k])
		}
		return out
	}
	return nil
}

func indexLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)

	switch {
	case aErr == nil && bErr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

func asFields(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	}
	return 0, false
}

// formText renders a submitted value as trimmed, NFC-normalized text.
func formText(v any) string {
	switch t := v.(type) {
	case string:
		return norm.NFC.String(strings.TrimSpace(t))
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "1"
		}
		return ""
	}
	if f, ok := asNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func formNumber(v any, def float64) float64 {
	if f, ok := asNumber(v); ok {
		return f
	}
	if s, ok := v.(string); ok {
		return ParseNumberOr(s, def)
	}
	return def
}

// formFlag mirrors a checkbox: any value other than "" or "0" means checked.
func formFlag(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	}
	if f, ok := asNumber(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return false
}
