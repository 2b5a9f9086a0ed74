package types

// AgeBracketCount is one row of the population-by-age report.
type AgeBracketCount struct {
	AgeCategory   string `json:"age_category"`
	ResidentCount int    `json:"resident_count"`
}

// StreetCount is one row of the population-by-streets report.
type StreetCount struct {
	StreetName    string `json:"street_name"`
	ResidentCount int    `json:"resident_count"`
}
