package types

// Jurisdiction classes for canonical courts
const (
	JurisdictionFederalDistrict   = "FD"
	JurisdictionFederalAppellate  = "F"
	JurisdictionFederalBankruptcy = "FB"
	JurisdictionFederalSpecial    = "FS"
	JurisdictionState             = "S"
	JurisdictionStateTrial        = "ST"
	JurisdictionStateSpecial      = "SS"
)

// Court is a canonical court: a stable short code plus display metadata.
type Court struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Jurisdiction string  `json:"jurisdiction" yaml:"jurisdiction"`
	Position     float64 `json:"position" yaml:"position"`
}
