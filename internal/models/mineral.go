package models

// Mineral is one entry of the critical-minerals dataset served by the
// dashboard endpoints.
type Mineral struct {
	Name              string             `json:"name"`
	Symbol            string             `json:"symbol,omitempty"`
	Description       string             `json:"description,omitempty"`
	ProductionHistory []ProductionRecord `json:"production_history,omitempty"`
	Deposits          []Deposit          `json:"deposits,omitempty"`
}

// ProductionRecord is one year of reported production for a mineral. Some
// sources report contained tonnage instead of gross tonnage.
type ProductionRecord struct {
	Year                 int     `json:"year"`
	Country              string  `json:"country,omitempty"`
	ProductionT          float64 `json:"production_t,omitempty"`
	ProductionContainedT float64 `json:"production_contained_t,omitempty"`
}

// Amount returns the reported tonnage, preferring gross production.
func (p ProductionRecord) Amount() float64 {
	if p.ProductionT != 0 {
		return p.ProductionT
	}
	return p.ProductionContainedT
}

// Deposit is a mapped occurrence of a mineral.
type Deposit struct {
	Site string  `json:"site,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}
