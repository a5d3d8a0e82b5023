package models

const (
	IntentBuy      = "buy"
	IntentRent     = "rent"
	IntentBrowsing = "browsing"
	IntentSell     = "sell"

	PurposePersonal   = "personal use"
	PurposeInvestment = "investment"
)

// Metadata holds the qualification fields extracted so far. A nil field is
// unknown. The same type carries the partial update produced for one turn.
type Metadata struct {
	Budget        *float64 `json:"budget,omitempty"`
	Timeline      *int     `json:"timeline,omitempty"`
	Location      *string  `json:"location,omitempty"`
	PropertyType  *string  `json:"propertyType,omitempty"`
	Purpose       *string  `json:"purpose,omitempty"`
	Intent        *string  `json:"intent,omitempty"`
	CompanySize   *int     `json:"companySize,omitempty"`
	DecisionMaker *bool    `json:"decisionMaker,omitempty"`
}

// Merge returns m with every field present in u overwritten. Absent fields in u
// never clear a known value.
func (m Metadata) Merge(u Metadata) Metadata {
	out := m.Clone()
	if u.Budget != nil {
		out.Budget = Float(*u.Budget)
	}
	if u.Timeline != nil {
		out.Timeline = Int(*u.Timeline)
	}
	if u.Location != nil {
		out.Location = String(*u.Location)
	}
	if u.PropertyType != nil {
		out.PropertyType = String(*u.PropertyType)
	}
	if u.Purpose != nil {
		out.Purpose = String(*u.Purpose)
	}
	if u.Intent != nil {
		out.Intent = String(*u.Intent)
	}
	if u.CompanySize != nil {
		out.CompanySize = Int(*u.CompanySize)
	}
	if u.DecisionMaker != nil {
		out.DecisionMaker = Bool(*u.DecisionMaker)
	}
	return out
}

// Clone copies every pointer so the result shares no memory with m.
func (m Metadata) Clone() Metadata {
	var out Metadata
	if m.Budget != nil {
		out.Budget = Float(*m.Budget)
	}
	if m.Timeline != nil {
		out.Timeline = Int(*m.Timeline)
	}
	if m.Location != nil {
		out.Location = String(*m.Location)
	}
	if m.PropertyType != nil {
		out.PropertyType = String(*m.PropertyType)
	}
	if m.Purpose != nil {
		out.Purpose = String(*m.Purpose)
	}
	if m.Intent != nil {
		out.Intent = String(*m.Intent)
	}
	if m.CompanySize != nil {
		out.CompanySize = Int(*m.CompanySize)
	}
	if m.DecisionMaker != nil {
		out.DecisionMaker = Bool(*m.DecisionMaker)
	}
	return out
}

func (m Metadata) IsEmpty() bool {
	return m == Metadata{}
}

func (m Metadata) HasBudget() bool       { return m.Budget != nil }
func (m Metadata) HasTimeline() bool     { return m.Timeline != nil }
func (m Metadata) HasLocation() bool     { return m.Location != nil && *m.Location != "" }
func (m Metadata) HasPropertyType() bool { return m.PropertyType != nil && *m.PropertyType != "" }
func (m Metadata) HasPurpose() bool      { return m.Purpose != nil && *m.Purpose != "" }
func (m Metadata) HasIntent() bool       { return m.Intent != nil && *m.Intent != "" }

func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func String(v string) *string  { return &v }
func Bool(v bool) *bool        { return &v }
