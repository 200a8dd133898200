package domain

const genericUnit = "unit"

// LineItem is the cost of one pricing component.
type LineItem struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	Unit            string  `json:"unit"`
	InputUnit       string  `json:"input_unit"`
	UsagePerRequest float64 `json:"usage_per_request"`
	TotalUsage      float64 `json:"total_usage"`
	Requests        float64 `json:"requests"`
	UnitsPerRequest float64 `json:"units_per_request"`
	TotalUnits      float64 `json:"total_units"`
	UnitSize        float64 `json:"unit_size"`
	PricePerUnitUSD float64 `json:"price_per_unit_usd"`
	PricePerUnitJPY float64 `json:"price_per_unit_jpy"`
	CostUSD         float64 `json:"cost_usd"`
	CostJPY         float64 `json:"cost_jpy"`
	Help            string  `json:"help,omitempty"`
	Optional        bool    `json:"optional"`
}

// CostBreakdown is the result of evaluating usage against one model.
type CostBreakdown struct {
	ModelID       string     `json:"model_id"`
	ModelName     string     `json:"model_name"`
	RequestCount  float64    `json:"request_count"`
	USDToJPY      float64    `json:"usd_to_jpy"`
	Items         []LineItem `json:"items"`
	TotalUSD      float64    `json:"total_usd"`
	TotalJPY      float64    `json:"total_jpy"`
	PerRequestUSD float64    `json:"per_request_usd"`
	PerRequestJPY float64    `json:"per_request_jpy"`
	HasCost       bool       `json:"has_cost"`
}

// Evaluate prices the usage of one model.
//
// The first model whose id matches modelID is used; when none matches, the
// first model of the catalog is. usage maps component ids to raw typed values.
// A negative requestCount counts as zero. ErrSelectionMiss is returned only
// when the catalog has no models.
func Evaluate(c *Catalog, modelID string, usage map[string]string, requestCount float64) (*CostBreakdown, error) {
	if c == nil || len(c.Models) == 0 {
		return nil, ErrSelectionMiss
	}

	model, ok := c.FindModel(modelID)
	if !ok {
		model = &c.Models[0]
	}

	requests := clampRequestCount(requestCount)
	rate := c.Meta.USDToJPY

	out := &CostBreakdown{
		ModelID:      model.ID,
		ModelName:    firstNonEmpty(model.Name, model.ID),
		RequestCount: requests,
		USDToJPY:     rate,
		Items:        make([]LineItem, 0, len(model.Pricing)),
	}

	for _, comp := range model.Pricing {
		if comp.ID == "" {
			continue
		}

		item := lineItem(comp, ParseNumberOr(usage[comp.ID], 0), requests, rate)
		out.TotalUSD += item.CostUSD
		out.Items = append(out.Items, item)
	}

	out.TotalJPY = out.TotalUSD * rate
	if requests > 0 {
		out.PerRequestUSD = out.TotalUSD / requests
	}
	out.PerRequestJPY = out.PerRequestUSD * rate
	out.HasCost = out.TotalUSD > 0

	return out, nil
}

func lineItem(comp Component, usage, requests, rate float64) LineItem {
	unitSize := comp.UnitSize
	if unitSize <= 0 {
		unitSize = 1
	}

	unit := firstNonEmpty(comp.Unit, genericUnit)
	unitsPerRequest := usage / unitSize
	totalUnits := unitsPerRequest * requests
	costUSD := totalUnits * comp.PricePerUnitUSD

	return LineItem{
		ID:              comp.ID,
		Label:           firstNonEmpty(comp.Label, comp.ID),
		Unit:            unit,
		InputUnit:       firstNonEmpty(comp.InputUnit, unit),
		UsagePerRequest: usage,
		TotalUsage:      usage * requests,
		Requests:        requests,
		UnitsPerRequest: unitsPerRequest,
		TotalUnits:      totalUnits,
		UnitSize:        unitSize,
		PricePerUnitUSD: comp.PricePerUnitUSD,
		PricePerUnitJPY: comp.PricePerUnitUSD * rate,
		CostUSD:         costUSD,
		CostJPY:         costUSD * rate,
		Help:            comp.Help,
		Optional:        comp.Optional,
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, s := range candidates {
		if s != "" {
			return s
		}
	}
	return ""
}
