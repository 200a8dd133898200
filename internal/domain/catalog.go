package domain

// DefaultUSDToJPY is the exchange rate used when no catalog data is available.
const DefaultUSDToJPY = 150.0

// Catalog is the full pricing configuration.
type Catalog struct {
	Meta   Meta    `json:"meta"   yaml:"meta"`
	Models []Model `json:"models" yaml:"models"`
}

// Meta holds catalog-wide settings.
type Meta struct {
	USDToJPY           float64 `json:"usd_to_jpy"                     yaml:"usd_to_jpy"`
	LastUpdated        string  `json:"last_updated,omitempty"         yaml:"last_updated,omitempty"`
	ExchangeRateSource string  `json:"exchange_rate_source,omitempty" yaml:"exchange_rate_source,omitempty"`
	Notes              string  `json:"notes,omitempty"                yaml:"notes,omitempty"`
}

// Model is one selectable model and its billable components.
type Model struct {
	ID          string      `json:"id"                    yaml:"id"`
	Name        string      `json:"name,omitempty"        yaml:"name,omitempty"`
	Category    string      `json:"category,omitempty"    yaml:"category,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Pricing     []Component `json:"pricing"               yaml:"pricing"`
}

// Component is one billable usage dimension of a model.
type Component struct {
	ID              string  `json:"id"                   yaml:"id"`
	Label           string  `json:"label,omitempty"      yaml:"label,omitempty"`
	Unit            string  `json:"unit,omitempty"       yaml:"unit,omitempty"`
	InputUnit       string  `json:"input_unit,omitempty" yaml:"input_unit,omitempty"`
	UnitSize        float64 `json:"unit_size"            yaml:"unit_size"`
	PricePerUnitUSD float64 `json:"price_per_unit_usd"   yaml:"price_per_unit_usd"`
	Help            string  `json:"help,omitempty"       yaml:"help,omitempty"`
	Optional        bool    `json:"optional,omitempty"   yaml:"optional,omitempty"`
}

// DefaultCatalog returns an empty catalog with the default exchange rate.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Meta:   Meta{USDToJPY: DefaultUSDToJPY},
		Models: []Model{},
	}
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}

	out := &Catalog{
		Meta:   c.Meta,
		Models: make([]Model, len(c.Models)),
	}
	for i, m := range c.Models {
		out.Models[i] = m
		out.Models[i].Pricing = append([]Component(nil), m.Pricing...)
		if out.Models[i].Pricing == nil {
			out.Models[i].Pricing = []Component{}
		}
	}

	return out
}

// FindModel returns the first model with the given id.
func (c *Catalog) FindModel(id string) (*Model, bool) {
	for i := range c.Models {
		if c.Models[i].ID == id {
			return &c.Models[i], true
		}
	}
	return nil, false
}

// ModelIDs returns the model ids in catalog order.
func (c *Catalog) ModelIDs() []string {
	ids := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		ids = append(ids, m.ID)
	}
	return ids
}
