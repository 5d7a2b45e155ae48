package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/university/internal/audit"
	"github.com/mrlokans/university/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events as JSON, newest first
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePagination(c, 25, 100)
	eventType := c.Query("type")
	offset := (page - 1) * limit

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(limit, offset)
	}

	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Page:       page,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages(total, limit),
	})
}

// GetRecordEvents returns every audit event of one record
// GET /api/audit/:kind/:id
func (ac *AuditController) GetRecordEvents(c *gin.Context) {
	kind, ok := parseKindParam(c, "kind")
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	events, err := ac.auditService.GetEventsForEntity(kind, id)
	if err != nil {
		respondInternalError(c, err, "load record audit events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":   kind,
		"id":     id,
		"events": events,
	})
}
