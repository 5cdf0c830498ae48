package forms

import (
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

// ProjectForm is the project editor. Plots and land have no buildings, so
// property_type hides total_floors for them.
type ProjectForm struct {
	ID             string               `json:"-"`
	Title          string               `json:"title" validate:"required,max=200"`
	Location       string               `json:"location" validate:"required"`
	Description    string               `json:"description"`
	Status         models.ProjectStatus `json:"status" validate:"required,oneof=available sold_out coming_soon"`
	PropertyType   models.PropertyType  `json:"property_type" validate:"required,oneof=commercial residential plot land mixed_use"`
	TotalUnits     *int                 `json:"total_units" validate:"required,gte=0"`
	AvailableUnits *int                 `json:"available_units" validate:"omitempty,gte=0"`
	SoldUnits      *int                 `json:"sold_units" validate:"omitempty,gte=0"`
	ReservedUnits  *int                 `json:"reserved_units" validate:"omitempty,gte=0"`
	TotalFloors    *int                 `json:"total_floors" validate:"omitempty,gte=1"`
	PricePerSqft   *float64             `json:"price_per_sqft" validate:"omitempty,gte=0"`
	IsActive       bool                 `json:"is_active"`
	ImagesToDelete []string             `json:"images_to_delete"`
}

// NewProjectForm starts a create form.
func NewProjectForm() *ProjectForm {
	return &ProjectForm{Status: models.ProjectComingSoon, PropertyType: models.PropertyResidential, IsActive: true}
}

// EditProjectForm pre-fills the form from an existing project.
func EditProjectForm(p models.Project) *ProjectForm {
	return &ProjectForm{
		ID:             p.ID,
		Title:          p.Title,
		Location:       p.Location,
		Description:    p.Description,
		Status:         p.Status,
		PropertyType:   p.PropertyType,
		TotalUnits:     ptr(p.TotalUnits),
		AvailableUnits: ptr(p.AvailableUnits),
		SoldUnits:      ptr(p.SoldUnits),
		ReservedUnits:  ptr(p.ReservedUnits),
		TotalFloors:    p.TotalFloors,
		PricePerSqft:   p.PricePerSqft,
		IsActive:       p.IsActive,
	}
}

// DeleteImage marks an existing gallery image for removal on the next update.
func (f *ProjectForm) DeleteImage(filename string) {
	for _, existing := range f.ImagesToDelete {
		if existing == filename {
			return
		}
	}
	f.ImagesToDelete = append(f.ImagesToDelete, filename)
}

func (f *ProjectForm) Submit() (models.ProjectPayload, error) {
	s := *f
	s.Title = strings.TrimSpace(s.Title)
	s.Location = strings.TrimSpace(s.Location)
	if !s.PropertyType.HasBuildings() {
		s.TotalFloors = nil
	}

	c := newChecker()
	c.structure(&s)
	if !c.hasMissing() {
		sum := deref(s.AvailableUnits) + deref(s.SoldUnits) + deref(s.ReservedUnits)
		if s.TotalUnits != nil && sum > *s.TotalUnits {
			c.invalid("total_units", "must be at least available + sold + reserved units")
		}
	}
	if err := c.err(); err != nil {
		return models.ProjectPayload{}, err
	}

	p := models.ProjectPayload{
		Title:          ptr(s.Title),
		Location:       ptr(s.Location),
		Description:    ptr(strings.TrimSpace(s.Description)),
		Status:         ptr(s.Status),
		PropertyType:   ptr(s.PropertyType),
		TotalUnits:     s.TotalUnits,
		AvailableUnits: ptr(deref(s.AvailableUnits)),
		SoldUnits:      ptr(deref(s.SoldUnits)),
		ReservedUnits:  ptr(deref(s.ReservedUnits)),
		TotalFloors:    s.TotalFloors,
		PricePerSqft:   s.PricePerSqft,
		IsActive:       ptr(s.IsActive),
	}
	if s.ID != "" && len(s.ImagesToDelete) > 0 {
		p.ImagesToDelete = append([]string(nil), s.ImagesToDelete...)
	}
	return p, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
