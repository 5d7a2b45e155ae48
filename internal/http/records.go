package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/entities"
)

// RecordStore reads records of any kind.
type RecordStore interface {
	FindByID(kind entities.Kind, id uint) (any, error)
	List(kind entities.Kind) (any, error)
}

// RecordsController serves read-only record listings used to populate
// pickers and detail views.
type RecordsController struct {
	store RecordStore
}

func NewRecordsController(store RecordStore) *RecordsController {
	return &RecordsController{store: store}
}

// List handles GET /api/records/:kind
func (rc *RecordsController) List(c *gin.Context) {
	kind, ok := parseKindParam(c, "kind")
	if !ok {
		return
	}

	records, err := rc.store.List(kind)
	if err != nil {
		respondInternalError(c, err, "list "+string(kind))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":    kind,
		"records": records,
	})
}

// Get handles GET /api/records/:kind/:id
func (rc *RecordsController) Get(c *gin.Context) {
	kind, ok := parseKindParam(c, "kind")
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := rc.store.FindByID(kind, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, kind.Singular())
		return
	}
	if err != nil {
		respondInternalError(c, err, "get "+kind.Singular())
		return
	}

	c.JSON(http.StatusOK, record)
}
