package sheetsclient

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vavive/rotas/internal/config"
	"github.com/vavive/rotas/pkg/core/engine"
	"github.com/vavive/rotas/pkg/core/model"
)

// historyWindowDays is the trailing window used for visit counts
const historyWindowDays = 60

// Expected column names per workbook tab, as the operator's export produces them
var (
	clientFields = []string{
		"ID", "celular", "cpf", "nome",
		"endereco-1-rua", "endereco-1-numero", "endereco-1-complemento",
		"endereco-1-bairro", "endereco-1-cidade", "endereco-1-estado",
		"endereco-1-latitude", "endereco-1-longitude",
	}
	professionalFields = []string{
		"ID", "celular", "nome",
		"endereco-latitude", "endereco-longitude",
	}
	linkFields   = []string{"CPF/CNPJ", "ID Profissional"}
	rosterFields = []string{"ID Profissional", "Profissional"}
	orderFields  = []string{
		"OS", "Status Serviço", "Data 1", "Plano", "CPF/ CNPJ", "Cliente",
		"Serviço", "Horas de serviço", "Hora de entrada", "Ponto de Referencia",
		"#Num Prestador",
	}
)

// InputData holds every normalized input table the scheduler consumes
type InputData struct {
	Clients         []model.Client
	Professionals   []model.Professional
	Preferences     []model.PreferenceLink
	Blocks          []model.BlockLink
	Favorites       []string
	LowAvailability []string
	History         []model.Visit

	// Orders are the future non-cancelled orders whose client has coordinates
	Orders []model.ServiceOrder

	// UnlocatableOrders are future non-cancelled orders whose client could not
	// be located; they are reported but never reach the scheduling core
	UnlocatableOrders []model.ServiceOrder
}

// LoadInputs reads every configured workbook tab and normalizes it into the
// domain model. now anchors the trailing history window and the future-order
// cutoff
func (c *Client) LoadInputs(cfg *config.Config, now time.Time) (*InputData, error) {
	clients, err := c.loadClients(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	professionals, err := c.loadProfessionals(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load professionals: %w", err)
	}

	preferences, err := c.loadPreferences(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	blocks, err := c.loadBlocks(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocklist: %w", err)
	}

	favorites, err := c.loadRoster(cfg, cfg.FavoritesTab)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	lowAvailability, err := c.loadRoster(cfg, cfg.LowAvailabilityTab)
	if err != nil {
		return nil, fmt.Errorf("failed to load low-availability roster: %w", err)
	}

	rawOrders, err := c.loadOrders(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	data := &InputData{
		Clients:         clients,
		Professionals:   professionals,
		Preferences:     preferences,
		Blocks:          blocks,
		Favorites:       favorites,
		LowAvailability: lowAvailability,
	}

	splitOrders(data, rawOrders, now)

	return data, nil
}

// EngineInputs converts the loaded tables into the scheduler's input set
// History rows from the Atendimentos tab become engine visits; unlocatable
// orders stay out, as the engine requires locatable clients
func (d *InputData) EngineInputs() engine.Inputs {
	return engine.Inputs{
		Clients:         d.Clients,
		Professionals:   d.Professionals,
		Preferences:     d.Preferences,
		Blocks:          d.Blocks,
		Favorites:       d.Favorites,
		LowAvailability: d.LowAvailability,
		Orders:          d.Orders,
		History:         d.History,
	}
}

func (c *Client) loadClients(cfg *config.Config) ([]model.Client, error) {
	values, err := c.GetValues(cfg.WorkbookSheetID, cfg.ClientsTab)
	if err != nil {
		return nil, err
	}

	return ParseClients(values)
}

func (c *Client) loadProfessionals(cfg *config.Config) ([]model.Professional, error) {
	values, err := c.GetValues(cfg.WorkbookSheetID, cfg.ProfessionalsTab)
	if err != nil {
		return nil, err
	}

	return ParseProfessionals(values)
}

func (c *Client) loadPreferences(cfg *config.Config) ([]model.PreferenceLink, error) {
	values, err := c.GetValues(cfg.WorkbookSheetID, cfg.PreferencesTab)
	if err != nil {
		return nil, err
	}

	return ParsePreferences(values)
}

func (c *Client) loadBlocks(cfg *config.Config) ([]model.BlockLink, error) {
	values, err := c.GetValues(cfg.WorkbookSheetID, cfg.BlocklistTab)
	if err != nil {
		return nil, err
	}

	return ParseBlocks(values)
}

func (c *Client) loadRoster(cfg *config.Config, tab string) ([]string, error) {
	values, err := c.GetValues(cfg.WorkbookSheetID, tab)
	if err != nil {
		return nil, err
	}

	return ParseRoster(values)
}

func (c *Client) loadOrders(cfg *config.Config) ([]model.ServiceOrder, error) {
	values, err := c.GetValues(cfg.WorkbookSheetID, cfg.OrdersTab)
	if err != nil {
		return nil, err
	}

	return ParseOrders(values)
}

// ParseClients converts raw spreadsheet rows into deduplicated clients
// Duplicated tax IDs keep the first row that carries valid coordinates
func ParseClients(raw [][]interface{}) ([]model.Client, error) {
	tab, err := newTable(raw, clientFields)
	if err != nil {
		return nil, err
	}

	parsed := make([]model.Client, 0, len(tab.rows))
	for _, row := range tab.rows {
		taxID := NormalizeTaxID(tab.get("cpf", row))
		if taxID == "" {
			continue
		}

		client := model.Client{
			TaxID:      taxID,
			Name:       strings.TrimSpace(tab.get("nome", row)),
			Phone:      strings.TrimSpace(tab.get("celular", row)),
			Street:     strings.TrimSpace(tab.get("endereco-1-rua", row)),
			Number:     normalizeID(tab.get("endereco-1-numero", row)),
			Complement: strings.TrimSpace(tab.get("endereco-1-complemento", row)),
			District:   strings.TrimSpace(tab.get("endereco-1-bairro", row)),
			City:       strings.TrimSpace(tab.get("endereco-1-cidade", row)),
			State:      strings.TrimSpace(tab.get("endereco-1-estado", row)),
			Coord: parseCoordinate(
				tab.get("endereco-1-latitude", row),
				tab.get("endereco-1-longitude", row),
			),
		}

		parsed = append(parsed, client)
	}

	return dedupClients(parsed), nil
}

// dedupClients keeps one row per tax ID, preferring rows with coordinates
func dedupClients(clients []model.Client) []model.Client {
	chosen := make(map[string]int)
	result := make([]model.Client, 0, len(clients))

	for _, client := range clients {
		idx, seen := chosen[client.TaxID]
		if !seen {
			chosen[client.TaxID] = len(result)
			result = append(result, client)
			continue
		}
		// Upgrade a coordinate-less first sighting
		if result[idx].Coord == nil && client.Coord != nil {
			result[idx] = client
		}
	}

	return result
}

// ParseProfessionals converts raw spreadsheet rows into professionals
// Rows whose name carries the "inativo" marker come back with Active=false
func ParseProfessionals(raw [][]interface{}) ([]model.Professional, error) {
	tab, err := newTable(raw, professionalFields)
	if err != nil {
		return nil, err
	}

	professionals := make([]model.Professional, 0, len(tab.rows))
	for _, row := range tab.rows {
		id := normalizeID(tab.get("ID", row))
		if id == "" {
			continue
		}

		name := strings.TrimSpace(tab.get("nome", row))
		professionals = append(professionals, model.Professional{
			ID:    id,
			Name:  name,
			Phone: strings.TrimSpace(tab.get("celular", row)),
			Coord: parseCoordinate(
				tab.get("endereco-latitude", row),
				tab.get("endereco-longitude", row),
			),
			Active: !strings.Contains(strings.ToLower(name), "inativo"),
		})
	}

	return professionals, nil
}

// ParsePreferences converts raw spreadsheet rows into preference links
func ParsePreferences(raw [][]interface{}) ([]model.PreferenceLink, error) {
	tab, err := newTable(raw, linkFields)
	if err != nil {
		return nil, err
	}

	links := make([]model.PreferenceLink, 0, len(tab.rows))
	for _, row := range tab.rows {
		taxID := NormalizeTaxID(tab.get("CPF/CNPJ", row))
		profID := normalizeID(tab.get("ID Profissional", row))
		if taxID == "" || profID == "" {
			continue
		}
		links = append(links, model.PreferenceLink{
			ClientTaxID:    taxID,
			ProfessionalID: profID,
		})
	}

	return links, nil
}

// ParseBlocks converts raw spreadsheet rows into block links
func ParseBlocks(raw [][]interface{}) ([]model.BlockLink, error) {
	tab, err := newTable(raw, linkFields)
	if err != nil {
		return nil, err
	}

	links := make([]model.BlockLink, 0, len(tab.rows))
	for _, row := range tab.rows {
		taxID := NormalizeTaxID(tab.get("CPF/CNPJ", row))
		profID := normalizeID(tab.get("ID Profissional", row))
		if taxID == "" || profID == "" {
			continue
		}
		links = append(links, model.BlockLink{
			ClientTaxID:    taxID,
			ProfessionalID: profID,
		})
	}

	return links, nil
}

// ParseRoster converts a curated professional roster tab (favorites or
// low availability) into an ordered list of professional IDs
// The curated row order carries meaning and is preserved
func ParseRoster(raw [][]interface{}) ([]string, error) {
	tab, err := newTable(raw, rosterFields)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tab.rows))
	seen := make(map[string]bool)
	for _, row := range tab.rows {
		id := normalizeID(tab.get("ID Profissional", row))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids, nil
}

// ParseOrders converts raw spreadsheet rows into service orders
// Rows with an unparseable date are skipped
func ParseOrders(raw [][]interface{}) ([]model.ServiceOrder, error) {
	tab, err := newTable(raw, orderFields)
	if err != nil {
		return nil, err
	}

	orders := make([]model.ServiceOrder, 0, len(tab.rows))
	for _, row := range tab.rows {
		id := normalizeID(tab.get("OS", row))
		if id == "" {
			continue
		}

		date, ok := parseDate(tab.get("Data 1", row))
		if !ok {
			continue
		}

		orders = append(orders, model.ServiceOrder{
			ID:             id,
			ClientTaxID:    NormalizeTaxID(tab.get("CPF/ CNPJ", row)),
			ClientName:     strings.TrimSpace(tab.get("Cliente", row)),
			Date:           date,
			EntryTime:      strings.TrimSpace(tab.get("Hora de entrada", row)),
			DurationHours:  parseFloatOrZero(tab.get("Horas de serviço", row)),
			Service:        strings.TrimSpace(tab.get("Serviço", row)),
			Plan:           strings.TrimSpace(tab.get("Plano", row)),
			Status:         strings.TrimSpace(tab.get("Status Serviço", row)),
			ReferencePoint: strings.TrimSpace(tab.get("Ponto de Referencia", row)),
			ProfessionalID: normalizeID(tab.get("#Num Prestador", row)),
		})
	}

	return orders, nil
}

// splitOrders partitions orders into the trailing history window, future
// locatable orders, and future unlocatable orders
func splitOrders(data *InputData, orders []model.ServiceOrder, now time.Time) {
	today := truncateDay(now)
	windowStart := today.AddDate(0, 0, -historyWindowDays)

	locatable := make(map[string]bool, len(data.Clients))
	for _, client := range data.Clients {
		if client.Coord != nil {
			locatable[client.TaxID] = true
		}
	}

	for _, order := range orders {
		if strings.EqualFold(strings.TrimSpace(order.Status), model.StatusCancelled) {
			continue
		}

		day := truncateDay(order.Date)
		switch {
		case day.Before(today):
			if !day.Before(windowStart) && order.ProfessionalID != "" {
				data.History = append(data.History, model.Visit{
					ClientTaxID:    order.ClientTaxID,
					ProfessionalID: order.ProfessionalID,
					Date:           order.Date,
					Status:         order.Status,
				})
			}
		case locatable[order.ClientTaxID]:
			data.Orders = append(data.Orders, order)
		default:
			data.UnlocatableOrders = append(data.UnlocatableOrders, order)
		}
	}
}

// table resolves the header row of a tab once and serves field lookups
type table struct {
	indexes map[string]int
	rows    [][]interface{}
}

// newTable builds a table from raw values, validating that every required
// column is present in the header row
func newTable(raw [][]interface{}, required []string) (*table, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	headerRow := raw[0]
	indexes := make(map[string]int, len(required))
	for _, field := range required {
		index := -1
		for i, cell := range headerRow {
			if cellString(cell) == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		indexes[field] = index
	}

	return &table{indexes: indexes, rows: raw[1:]}, nil
}

// get returns the cell under the named column, tolerating ragged rows
func (t *table) get(field string, row []interface{}) string {
	index, ok := t.indexes[field]
	if !ok || index >= len(row) {
		return ""
	}
	return cellString(row[index])
}

// cellString renders a sheet cell as a string regardless of wire type
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeTaxID strips punctuation from a CPF/CNPJ and left-pads the digits
// to the CNPJ width so both document kinds share one canonical key
// Values with no digits at all normalize to the empty string
func NormalizeTaxID(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return ""
	}
	if len(digits) < 14 {
		digits = strings.Repeat("0", 14-len(digits)) + digits
	}
	return digits
}

// normalizeID trims the float artifact some export paths leave on numeric IDs
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	if s == "nan" || s == "0" {
		return ""
	}
	return s
}

// parseCoordinate parses a latitude/longitude pair, fixing exports that
// arrive with the axes swapped (no serviced latitude is ever below -40)
func parseCoordinate(latStr, lonStr string) *model.Coordinate {
	lat, okLat := parseFloat(latStr)
	lon, okLon := parseFloat(lonStr)
	if !okLat || !okLon {
		return nil
	}
	if lat < -40 {
		lat, lon = lon, lat
	}
	return &model.Coordinate{Lat: lat, Lon: lon}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloatOrZero(s string) float64 {
	v, ok := parseFloat(s)
	if !ok {
		return 0
	}
	return v
}

// dateLayouts covers the formats the workbook has been seen exporting
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
