package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditapp "github.com/quoteflow/backend/internal/application/audit"
	"github.com/quoteflow/backend/internal/domain/audit"
)

// ActivityHandler exposes the audit trail over HTTP
type ActivityHandler struct {
	BaseHandler
	activityService *auditapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *auditapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List returns a filtered, paginated page of audit trail entries, newest
// first
func (h *ActivityHandler) List(c *gin.Context) {
	filter := audit.Filter{
		Page:     1,
		PageSize: 20,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if _, err := parseIntQuery(pageStr, &filter.Page); err != nil {
			h.BadRequest(c, "Invalid page")
			return
		}
	}
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if _, err := parseIntQuery(sizeStr, &filter.PageSize); err != nil {
			h.BadRequest(c, "Invalid page size")
			return
		}
	}
	if actorStr := c.Query("actor_id"); actorStr != "" {
		actorID, err := uuid.Parse(actorStr)
		if err != nil {
			h.BadRequest(c, "Invalid actor ID")
			return
		}
		filter.ActorID = &actorID
	}
	if entityTypeStr := c.Query("entity_type"); entityTypeStr != "" {
		entityType := audit.EntityType(entityTypeStr)
		switch entityType {
		case audit.EntityQuote, audit.EntityInvoice, audit.EntityPayment:
			filter.EntityType = &entityType
		default:
			h.BadRequest(c, "Invalid entity type: "+entityTypeStr)
			return
		}
	}
	if entityStr := c.Query("entity_id"); entityStr != "" {
		entityID, err := uuid.Parse(entityStr)
		if err != nil {
			h.BadRequest(c, "Invalid entity ID")
			return
		}
		filter.EntityID = &entityID
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.BadRequest(c, "Invalid from date")
			return
		}
		filter.FromDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.BadRequest(c, "Invalid to date")
			return
		}
		filter.ToDate = &to
	}

	page, err := h.activityService.ListActivity(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, NewActivityListResponse(page.Items), page.Total, page.Page, page.PageSize)
}
