package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/fairshare/internal/shared/domain"
	"github.com/google/uuid"
)

// Project is a user-submitted item competing for feed exposure.
//
// The three engagement counters are mutated only through EngagementRepository
// operations inside a transaction; the entity carries them for reads.
type Project struct {
	sharedDomain.BaseEntity
	ownerID       uuid.UUID
	ownerName     string
	title         string
	description   string
	category      Category
	thumbnailURL  string
	projectURL    string
	exposureCount int64
	viewCount     int64
	likeCount     int64
}

// NewProject creates a new project with zeroed counters.
func NewProject(ownerID uuid.UUID, ownerName, title, description string, category Category) (*Project, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	return &Project{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		ownerID:     ownerID,
		ownerName:   ownerName,
		title:       title,
		description: description,
		category:    category,
	}, nil
}

// Getters
func (p *Project) OwnerID() uuid.UUID   { return p.ownerID }
func (p *Project) OwnerName() string    { return p.ownerName }
func (p *Project) Title() string        { return p.title }
func (p *Project) Description() string  { return p.description }
func (p *Project) Category() Category   { return p.category }
func (p *Project) ThumbnailURL() string { return p.thumbnailURL }
func (p *Project) ProjectURL() string   { return p.projectURL }
func (p *Project) ExposureCount() int64 { return p.exposureCount }
func (p *Project) ViewCount() int64     { return p.viewCount }
func (p *Project) LikeCount() int64     { return p.likeCount }

// SetThumbnailURL sets the thumbnail image location.
func (p *Project) SetThumbnailURL(url string) {
	p.thumbnailURL = url
	p.Touch()
}

// SetProjectURL sets the external project link.
func (p *Project) SetProjectURL(url string) {
	p.projectURL = url
	p.Touch()
}

// IsOwnedBy returns true when the given identity owns the project.
func (p *Project) IsOwnedBy(id uuid.UUID) bool {
	return p.ownerID == id
}

// RehydrateProject recreates a project from persisted data.
func RehydrateProject(
	id, ownerID uuid.UUID,
	ownerName, title, description string,
	category Category,
	thumbnailURL, projectURL string,
	exposureCount, viewCount, likeCount int64,
	createdAt, updatedAt time.Time,
) *Project {
	return &Project{
		BaseEntity:    sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		ownerID:       ownerID,
		ownerName:     ownerName,
		title:         title,
		description:   description,
		category:      category,
		thumbnailURL:  thumbnailURL,
		projectURL:    projectURL,
		exposureCount: exposureCount,
		viewCount:     viewCount,
		likeCount:     likeCount,
	}
}
