package db

// ScheduleRun represents one execution of the assignment engine
type ScheduleRun struct {
	ID            string
	RunAt         string // RFC3339
	MaxCandidates int
	OrderCount    int
}

// Candidate represents one ranked professional suggestion for an order
type Candidate struct {
	ID             string
	RunID          string
	OrderID        string
	ClientTaxID    string
	ServiceDate    string // "2006-01-02"
	Rank           int
	ProfessionalID string
	Criterion      string
	Detail         string
	HasServed      bool
}

// ProximityAudit represents one residual-pass audit row comparing the
// optimizer's choice against the locally nearest professional
type ProximityAudit struct {
	ID          string
	RunID       string
	OrderID     string
	ClientTaxID string
	ServiceDate string // "2006-01-02"
	AssignedID  string
	AssignedKm  *float64
	NearestID   string
	NearestKm   *float64
	Reason      string
}
