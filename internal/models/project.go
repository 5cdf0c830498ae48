package models

import "time"

// ProjectStatus is the sales state of a project.
type ProjectStatus string

const (
	ProjectAvailable  ProjectStatus = "available"
	ProjectSoldOut    ProjectStatus = "sold_out"
	ProjectComingSoon ProjectStatus = "coming_soon"
)

// PropertyType classifies what a project sells.
type PropertyType string

const (
	PropertyCommercial  PropertyType = "commercial"
	PropertyResidential PropertyType = "residential"
	PropertyPlot        PropertyType = "plot"
	PropertyLand        PropertyType = "land"
	PropertyMixedUse    PropertyType = "mixed_use"
)

// HasBuildings reports whether the property type has floors at all.
func (p PropertyType) HasBuildings() bool {
	return p != PropertyPlot && p != PropertyLand
}

// ProjectImage is one gallery image, in display order.
type ProjectImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Project represents a real-estate project offered on the platform.
// Projects are never hard-deleted; deletion clears IsActive.
type Project struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Location       string         `json:"location"`
	Description    string         `json:"description,omitempty"`
	Status         ProjectStatus  `json:"status"`
	PropertyType   PropertyType   `json:"property_type"`
	TotalUnits     int            `json:"total_units"`
	AvailableUnits int            `json:"available_units"`
	SoldUnits      int            `json:"sold_units"`
	ReservedUnits  int            `json:"reserved_units"`
	TotalFloors    *int           `json:"total_floors,omitempty"`
	PricePerSqft   *float64       `json:"price_per_sqft,omitempty"`
	Images         []ProjectImage `json:"images"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      *time.Time     `json:"created_at,omitempty"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
}

func (p Project) GetID() string { return p.ID }

// UnitCountersValid checks available + sold + reserved <= total.
func (p Project) UnitCountersValid() bool {
	return p.AvailableUnits+p.SoldUnits+p.ReservedUnits <= p.TotalUnits
}

// ProjectPayload is the create/update body for a project. Nil fields are omitted,
// which makes the same type usable for partial updates.
type ProjectPayload struct {
	Title          *string        `json:"title,omitempty"`
	Location       *string        `json:"location,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Status         *ProjectStatus `json:"status,omitempty"`
	PropertyType   *PropertyType  `json:"property_type,omitempty"`
	TotalUnits     *int           `json:"total_units,omitempty"`
	AvailableUnits *int           `json:"available_units,omitempty"`
	SoldUnits      *int           `json:"sold_units,omitempty"`
	ReservedUnits  *int           `json:"reserved_units,omitempty"`
	TotalFloors    *int           `json:"total_floors"`
	PricePerSqft   *float64       `json:"price_per_sqft,omitempty"`
	IsActive       *bool          `json:"is_active,omitempty"`
	// ImagesToDelete lists filenames of existing gallery images to drop on update.
	ImagesToDelete []string `json:"images_to_delete,omitempty"`
}
