package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/fairshare/internal/identity"
	notifDomain "github.com/felixgeelhaar/fairshare/internal/notifications/domain"
	"github.com/felixgeelhaar/fairshare/internal/showcase/application/commands"
	"github.com/felixgeelhaar/fairshare/internal/showcase/application/queries"
	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/google/uuid"
)

// ShowcaseHandler handles feed and project API requests.
type ShowcaseHandler struct {
	selectFeed    *commands.SelectFeedHandler
	registerView  *commands.RegisterViewHandler
	toggleLike    *commands.ToggleLikeHandler
	createProject *commands.CreateProjectHandler
	getProject    *queries.GetProjectHandler
	creatorStats  *queries.GetCreatorStatsHandler
	identities    identity.Provider
	logger        *slog.Logger
}

// ShowcaseHandlerConfig holds dependencies for the showcase handler.
type ShowcaseHandlerConfig struct {
	SelectFeed    *commands.SelectFeedHandler
	RegisterView  *commands.RegisterViewHandler
	ToggleLike    *commands.ToggleLikeHandler
	CreateProject *commands.CreateProjectHandler
	GetProject    *queries.GetProjectHandler
	CreatorStats  *queries.GetCreatorStatsHandler
	Identities    identity.Provider
	Logger        *slog.Logger
}

// NewShowcaseHandler creates a new showcase handler.
func NewShowcaseHandler(cfg ShowcaseHandlerConfig) *ShowcaseHandler {
	if cfg.Identities == nil {
		cfg.Identities = identity.ContextProvider{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ShowcaseHandler{
		selectFeed:    cfg.SelectFeed,
		registerView:  cfg.RegisterView,
		toggleLike:    cfg.ToggleLike,
		createProject: cfg.CreateProject,
		getProject:    cfg.GetProject,
		creatorStats:  cfg.CreatorStats,
		identities:    cfg.Identities,
		logger:        cfg.Logger,
	}
}

// Feed handles GET /api/v1/feed
func (h *ShowcaseHandler) Feed(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.identities.Resolve(r.Context())
	if err != nil {
		h.domainError(w, err, "failed to resolve identity")
		return
	}

	cmd := commands.SelectFeedCommand{
		Query: r.URL.Query().Get("q"),
		Limit: parseIntParam(r, "limit", 0),
	}
	if viewer != nil {
		cmd.ViewerID = &viewer.ID
	}

	if categoryParam := r.URL.Query().Get("category"); categoryParam != "" {
		category, err := domain.ParseCategory(categoryParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unknown category")
			return
		}
		cmd.Category = category
	}

	if excludeParam := r.URL.Query().Get("exclude"); excludeParam != "" {
		for _, raw := range strings.Split(excludeParam, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid exclude id")
				return
			}
			cmd.ExcludeIDs = append(cmd.ExcludeIDs, id)
		}
	}

	items, err := h.selectFeed.Handle(r.Context(), cmd)
	if err != nil {
		h.domainError(w, err, "failed to select feed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// GetProject handles GET /api/v1/projects/{projectID}. A fetch by an
// identified caller also counts as a view.
func (h *ShowcaseHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDPath(w, r, "projectID")
	if !ok {
		return
	}

	viewer, err := h.identities.Resolve(r.Context())
	if err != nil {
		h.domainError(w, err, "failed to resolve identity")
		return
	}

	query := queries.GetProjectQuery{ProjectID: projectID}
	if viewer != nil {
		query.ViewerID = &viewer.ID

		cmd := commands.RegisterViewCommand{ProjectID: projectID, ViewerID: &viewer.ID}
		if err := h.registerView.Handle(r.Context(), cmd); err != nil {
			h.domainError(w, err, "failed to register view")
			return
		}
	}

	result, err := h.getProject.Handle(r.Context(), query)
	if err != nil {
		h.domainError(w, err, "failed to get project")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CreateProject handles POST /api/v1/projects
func (h *ShowcaseHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.identities.Resolve(r.Context())
	if err != nil {
		h.domainError(w, err, "failed to resolve identity")
		return
	}

	var body struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		ThumbnailURL string `json:"thumbnailUrl"`
		ProjectURL   string `json:"projectUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := commands.CreateProjectCommand{
		Owner:        viewer,
		Title:        body.Title,
		Description:  body.Description,
		Category:     domain.Category(body.Category),
		ThumbnailURL: body.ThumbnailURL,
		ProjectURL:   body.ProjectURL,
	}

	result, err := h.createProject.Handle(r.Context(), cmd)
	if err != nil {
		h.domainError(w, err, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ToggleLike handles POST /api/v1/projects/{projectID}/like
func (h *ShowcaseHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDPath(w, r, "projectID")
	if !ok {
		return
	}

	viewer, err := h.identities.Resolve(r.Context())
	if err != nil {
		h.domainError(w, err, "failed to resolve identity")
		return
	}

	result, err := h.toggleLike.Handle(r.Context(), commands.ToggleLikeCommand{
		ProjectID: projectID,
		Liker:     viewer,
	})
	if err != nil {
		h.domainError(w, err, "failed to toggle like")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CreatorStats handles GET /api/v1/creators/{creatorID}/stats
func (h *ShowcaseHandler) CreatorStats(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := parseUUIDPath(w, r, "creatorID")
	if !ok {
		return
	}

	result, err := h.creatorStats.Handle(r.Context(), queries.GetCreatorStatsQuery{OwnerID: creatorID})
	if err != nil {
		h.domainError(w, err, "failed to get creator stats")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// domainError translates domain sentinels into HTTP status codes.
func (h *ShowcaseHandler) domainError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrIdentityRequired):
		writeError(w, http.StatusUnauthorized, "Identity required")
	case errors.Is(err, domain.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, notifDomain.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "Notification not found")
	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyDescription):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusServiceUnavailable, "Temporarily unavailable")
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Helper functions

func parseUUIDPath(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	raw := r.PathValue(key)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
