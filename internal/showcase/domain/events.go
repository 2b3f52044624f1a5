package domain

import (
	sharedDomain "github.com/felixgeelhaar/fairshare/internal/shared/domain"
	"github.com/google/uuid"
)

// Routing keys for showcase domain events.
const (
	EventProjectCreated = "showcase.project.created"
	EventProjectLiked   = "showcase.project.liked"
	EventProjectUnliked = "showcase.project.unliked"
	EventProjectViewed  = "showcase.project.viewed"
)

const aggregateTypeProject = "Project"

// ProjectCreatedEvent is raised when a project is submitted.
type ProjectCreatedEvent struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
}

// NewProjectCreatedEvent creates a ProjectCreatedEvent.
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), aggregateTypeProject, EventProjectCreated),
		ProjectID: p.ID(),
		OwnerID:   p.OwnerID(),
		Title:     p.Title(),
		Category:  p.Category(),
	}
}

// ProjectLikedEvent is raised after a like is recorded.
type ProjectLikedEvent struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	LikerID   uuid.UUID `json:"liker_id"`
}

// NewProjectLikedEvent creates a ProjectLikedEvent.
func NewProjectLikedEvent(p *Project, likerID uuid.UUID) *ProjectLikedEvent {
	return &ProjectLikedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), aggregateTypeProject, EventProjectLiked),
		ProjectID: p.ID(),
		OwnerID:   p.OwnerID(),
		LikerID:   likerID,
	}
}

// ProjectUnlikedEvent is raised after a like is withdrawn.
type ProjectUnlikedEvent struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	LikerID   uuid.UUID `json:"liker_id"`
}

// NewProjectUnlikedEvent creates a ProjectUnlikedEvent.
func NewProjectUnlikedEvent(p *Project, likerID uuid.UUID) *ProjectUnlikedEvent {
	return &ProjectUnlikedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), aggregateTypeProject, EventProjectUnliked),
		ProjectID: p.ID(),
		LikerID:   likerID,
	}
}

// ProjectViewedEvent is raised the first time an identity views a project.
type ProjectViewedEvent struct {
	sharedDomain.BaseEvent
	ProjectID uuid.UUID `json:"project_id"`
	ViewerID  uuid.UUID `json:"viewer_id"`
}

// NewProjectViewedEvent creates a ProjectViewedEvent.
func NewProjectViewedEvent(projectID, viewerID uuid.UUID) *ProjectViewedEvent {
	return &ProjectViewedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(projectID, aggregateTypeProject, EventProjectViewed),
		ProjectID: projectID,
		ViewerID:  viewerID,
	}
}
