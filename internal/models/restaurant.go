package models

// Status is the moderation state of a directory entry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the three moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Restaurant is one directory entry. JSON field names follow the wire
// contract shared with the public site and the manager panel.
type Restaurant struct {
	ID        string `json:"id"`
	Name      string `json:"restaurantName"`
	City      string `json:"city"`
	Website   string `json:"website"`
	Kashrut   string `json:"kashrut"`
	DateAdded string `json:"dateAdded"`
	Status    Status `json:"status"`
}

// Sheet column indices of the current layout (0-based within a row).
const (
	ColID = iota
	ColName
	ColCity
	ColWebsite
	ColKashrut
	ColDateAdded
	ColStatus
	ColumnCount
)

// Header labels. The sheet predates this service and its headers are the
// Hebrew labels the spreadsheet has always carried; migration detection
// fingerprints them, so they must not change.
const (
	HeaderID        = "ID"
	HeaderName      = "שם המסעדה"
	HeaderCity      = "עיר"
	HeaderWebsite   = "אתר"
	HeaderKashrut   = "כשרות"
	HeaderDateAdded = "תאריך הוספה"
	HeaderStatus    = "סטטוס"
)

// Headers is the current 7-column header row.
func Headers() []string {
	return []string{HeaderID, HeaderName, HeaderCity, HeaderWebsite, HeaderKashrut, HeaderDateAdded, HeaderStatus}
}

// FromRow maps a current-layout row onto a Restaurant. Short rows are
// tolerated; missing cells read as empty.
func FromRow(cells []string) Restaurant {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return Restaurant{
		ID:        get(ColID),
		Name:      get(ColName),
		City:      get(ColCity),
		Website:   get(ColWebsite),
		Kashrut:   get(ColKashrut),
		DateAdded: get(ColDateAdded),
		Status:    Status(get(ColStatus)),
	}
}

// ToRow maps a Restaurant back onto a current-layout row.
func (r Restaurant) ToRow() []string {
	return []string{r.ID, r.Name, r.City, r.Website, r.Kashrut, r.DateAdded, string(r.Status)}
}
