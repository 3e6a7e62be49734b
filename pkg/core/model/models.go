package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OrderStatus values as they arrive from the operator's workbook
const (
	StatusCancelled = "cancelado"
)

// Coordinate is a WGS84 point
type Coordinate struct {
	Lat float64
	Lon float64
}

// Client represents a household that books services
// TaxID is the canonical key (digits-only CPF/CNPJ), deduplicated upstream
type Client struct {
	TaxID      string
	Name       string
	Phone      string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string

	// Coord is nil when the client could not be geocoded
	Coord *Coordinate
}

// Professional represents a field professional
// ID is the canonical provider key
type Professional struct {
	ID    string
	Name  string
	Phone string

	// Coord is nil when the professional could not be geocoded
	Coord *Coordinate

	// Active is false for records carrying the "inativo" name marker
	Active bool
}

// ServiceOrder is a single scheduled visit requiring one assigned professional
type ServiceOrder struct {
	ID             string
	ClientTaxID    string
	ClientName     string
	Date           time.Time
	EntryTime      string // "HH:MM"
	DurationHours  float64
	Service        string
	Plan           string
	Status         string
	Notes          string
	ReferencePoint string

	// ProfessionalID records who served the order; filled on historical rows,
	// usually empty on future ones
	ProfessionalID string
}

// Day returns the scheduling day key for the order
func (o ServiceOrder) Day() string {
	return o.Date.Format("2006-01-02")
}

// Visit is one completed (or at least non-cancelled) historical attendance
type Visit struct {
	ClientTaxID    string
	ProfessionalID string
	Date           time.Time
	Status         string
}

// PreferenceLink maps a client to its single preferred professional
type PreferenceLink struct {
	ClientTaxID    string
	ProfessionalID string
}

// BlockLink forbids a professional for a client
type BlockLink struct {
	ClientTaxID    string
	ProfessionalID string
}

// EntryTime is a parsed order entry time, comparable lexicographically
type EntryTime struct {
	Hour   int
	Minute int
}

// Before reports whether t sorts strictly before other
func (t EntryTime) Before(other EntryTime) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// String renders the time back as "HH:MM"
func (t EntryTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseEntryTime parses "HH:MM" entry times
// Malformed values return (99, 99) so they sort after every real time of day
func ParseEntryTime(s string) EntryTime {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return EntryTime{Hour: 99, Minute: 99}
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return EntryTime{Hour: 99, Minute: 99}
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return EntryTime{Hour: 99, Minute: 99}
	}
	return EntryTime{Hour: h, Minute: m}
}
