package models

import (
	"time"

	"github.com/google/uuid"
)

// Icon is a symbolic name from the closed icon set the frontend can
// render. Unknown names parse to IconUnknown rather than failing.
type Icon string

const (
	IconCode2    Icon = "Code2"
	IconCloud    Icon = "Cloud"
	IconGauge    Icon = "Gauge"
	IconShield   Icon = "Shield"
	IconWrench   Icon = "Wrench"
	IconSparkles Icon = "Sparkles"
	IconLayers   Icon = "Layers"
	IconCpu      Icon = "Cpu"
	IconServer   Icon = "Server"

	// IconUnknown is the fallback for icon names outside the supported set.
	IconUnknown Icon = "Unknown"
)

// Icons lists every renderable icon, in picker order.
var Icons = []Icon{
	IconCode2, IconCloud, IconGauge, IconShield, IconWrench,
	IconSparkles, IconLayers, IconCpu, IconServer,
}

// ParseIcon maps a stored icon name onto the closed set.
func ParseIcon(name string) Icon {
	for _, ic := range Icons {
		if string(ic) == name {
			return ic
		}
	}
	return IconUnknown
}

// Valid reports whether the icon belongs to the supported set.
func (i Icon) Valid() bool {
	return ParseIcon(string(i)) != IconUnknown
}

// Service is an offered service on the public services page. SortOrder is
// explicit manual ordering, independent of creation order.
type Service struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        Icon      `json:"icon"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ServicePatch is a sparse update for a service. SortOrder is managed by
// the reorder operation, not by single-record updates.
type ServicePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Icon        *Icon   `json:"icon"`
	Featured    *bool   `json:"featured"`
}
