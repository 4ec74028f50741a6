package visitor

import "time"

// Visitor is one tracked browser identity. The row is keyed by the
// client-generated visitor_id and evolves in place: every tracked event
// advances last_seen and the time-on-site accumulator.
type Visitor struct {
	ID         string    `json:"id"`
	VisitorID  string    `json:"visitor_id"`
	Email      *string   `json:"email,omitempty"`
	IPAddress  string    `json:"ip_address"`
	Device     string    `json:"device"`
	UTMSource  *string   `json:"utm_source,omitempty"`
	TimeOnSite int64     `json:"time_on_site"`
	Converted  bool      `json:"converted"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeen   time.Time `json:"last_seen"`
}

// Filter contains visitor list filters
type Filter struct {
	Search    string // case-insensitive partial match on visitor_id, email, ip_address
	Converted *bool
	Device    string
}

// Stats is the summary block computed over the full unfiltered visitor set
type Stats struct {
	TotalVisitors  int64            `json:"total_visitors"`
	UniqueLast24h  int64            `json:"unique_last_24h"`
	AvgTimeOnSite  float64          `json:"avg_time_on_site"`
	ConversionRate float64          `json:"conversion_rate"`
	TopSources     []SourceCount    `json:"top_sources"`
	Devices        map[string]int64 `json:"devices"`
}

// SourceCount is one traffic source with its visitor count
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// Device classification values
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceUnknown = "unknown"
)
