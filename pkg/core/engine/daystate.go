package engine

// DayState tracks which professionals are spoken for within one scheduling
// day. It is created fresh per date, mutated pass by pass in a fixed order,
// and never shared across dates.
type DayState struct {
	// reservedOwner maps a reserved professional to the client the
	// preference pass committed them to
	reservedOwner map[string]string

	// occupied holds professionals already given a first slot that day
	occupied map[string]bool

	// suggested holds professionals appearing in any slot of any order
	// that day
	suggested map[string]bool
}

// NewDayState returns an empty per-date allocation state
func NewDayState() *DayState {
	return &DayState{
		reservedOwner: make(map[string]string),
		occupied:      make(map[string]bool),
		suggested:     make(map[string]bool),
	}
}

// Reserve commits a professional to a client for the day
func (s *DayState) Reserve(professionalID, clientTaxID string) {
	s.reservedOwner[professionalID] = clientTaxID
}

// MarkOccupied records a first-slot assignment
func (s *DayState) MarkOccupied(professionalID string) {
	s.occupied[professionalID] = true
}

// MarkSuggested records an appearance in any slot of any order
func (s *DayState) MarkSuggested(professionalID string) {
	s.suggested[professionalID] = true
}

// IsReserved reports whether the preference pass committed this professional
func (s *DayState) IsReserved(professionalID string) bool {
	_, ok := s.reservedOwner[professionalID]
	return ok
}

// IsOccupied reports whether this professional already holds a first slot
func (s *DayState) IsOccupied(professionalID string) bool {
	return s.occupied[professionalID]
}

// IsSuggested reports whether this professional already appears in some list
func (s *DayState) IsSuggested(professionalID string) bool {
	return s.suggested[professionalID]
}

// ReservedOwner returns the client a professional is reserved for, if any
func (s *DayState) ReservedOwner(professionalID string) (string, bool) {
	owner, ok := s.reservedOwner[professionalID]
	return owner, ok
}

// ReservedForOther reports whether a professional is reserved for a client
// different from the one being evaluated
func (s *DayState) ReservedForOther(professionalID, clientTaxID string) bool {
	owner, ok := s.reservedOwner[professionalID]
	return ok && owner != clientTaxID
}
