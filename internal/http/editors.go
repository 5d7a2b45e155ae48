package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/university/internal/editor"
	"github.com/mrlokans/university/internal/validation"
)

// EditorsController exposes editor sessions. A session is addressed by the
// id returned when it was opened.
type EditorsController struct {
	editor *editor.Editor
}

func NewEditorsController(ed *editor.Editor) *EditorsController {
	return &EditorsController{editor: ed}
}

// fieldsRequest carries scalar field values to copy onto the working record.
// Keys follow the record's JSON names.
type fieldsRequest struct {
	Fields json.RawMessage `json:"fields"`
}

// Open handles POST /api/editors/:kind and POST /api/editors/:kind/:id
// Without an id an add session is opened.
func (ec *EditorsController) Open(c *gin.Context) {
	kind, ok := parseKindParam(c, "kind")
	if !ok {
		return
	}

	var id uint
	if c.Param("id") != "" {
		if id, ok = parseIDParam(c, "id"); !ok {
			return
		}
	}

	view, found, err := ec.editor.Open(kind, id)
	if err != nil {
		respondInternalError(c, err, "open editor")
		return
	}
	if !found {
		respondNotFound(c, kind.Singular())
		return
	}

	respondCreated(c, view)
}

// Get handles GET /api/editors/session/:sid
func (ec *EditorsController) Get(c *gin.Context) {
	view, err := ec.editor.View(c.Param("sid"))
	if err != nil {
		ec.respondEditorError(c, err, "view editor")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateFields handles PATCH /api/editors/session/:sid
func (ec *EditorsController) UpdateFields(c *gin.Context) {
	var req fieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	view, err := ec.applyFields(c.Param("sid"), req.Fields)
	if err != nil {
		ec.respondEditorError(c, err, "update editor fields")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Assign handles POST /api/editors/session/:sid/:relation/:memberId
func (ec *EditorsController) Assign(c *gin.Context) {
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	view, err := ec.editor.Assign(c.Param("sid"), c.Param("relation"), memberID)
	if err != nil {
		ec.respondEditorError(c, err, "assign member")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Unassign handles DELETE /api/editors/session/:sid/:relation/:memberId
func (ec *EditorsController) Unassign(c *gin.Context) {
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	view, err := ec.editor.Unassign(c.Param("sid"), c.Param("relation"), memberID)
	if err != nil {
		ec.respondEditorError(c, err, "unassign member")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Save handles POST /api/editors/session/:sid/save
// Fields in the body are applied first. A record that fails validation is
// not written and the response carries the generic incomplete message.
func (ec *EditorsController) Save(c *gin.Context) {
	sid := c.Param("sid")

	var req fieldsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	if len(req.Fields) > 0 {
		if _, err := ec.applyFields(sid, req.Fields); err != nil {
			ec.respondEditorError(c, err, "update editor fields")
			return
		}
	}

	result, err := ec.editor.Save(sid)
	if err != nil {
		ec.respondEditorError(c, err, "save record")
		return
	}
	respondSuccess(c, result.Message, result)
}

// Close handles DELETE /api/editors/session/:sid
func (ec *EditorsController) Close(c *gin.Context) {
	if err := ec.editor.Close(c.Param("sid")); err != nil {
		ec.respondEditorError(c, err, "close editor")
		return
	}
	c.Status(http.StatusNoContent)
}

func (ec *EditorsController) applyFields(sid string, fields json.RawMessage) (editor.View, error) {
	if len(fields) == 0 {
		return ec.editor.View(sid)
	}
	return ec.editor.Update(sid, func(record any) error {
		if err := json.Unmarshal(fields, record); err != nil {
			return &fieldsError{err: err}
		}
		return nil
	})
}

// fieldsError marks a body whose fields do not fit the record.
type fieldsError struct {
	err error
}

func (e *fieldsError) Error() string { return "invalid fields: " + e.err.Error() }
func (e *fieldsError) Unwrap() error { return e.err }

func (ec *EditorsController) respondEditorError(c *gin.Context, err error, context string) {
	var fe *fieldsError
	switch {
	case errors.Is(err, editor.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, CodeSessionNotFound, err.Error())
	case errors.Is(err, editor.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, CodeRecordNotFound, editor.ErrRecordNotFound.Error())
	case errors.Is(err, editor.ErrUnknownRelation):
		respondError(c, http.StatusBadRequest, CodeUnknownRelation, err.Error())
	case errors.Is(err, validation.ErrIncomplete):
		respondError(c, http.StatusUnprocessableEntity, CodeIncomplete, validation.MessageIncomplete)
	case errors.As(err, &fe):
		respondBadRequest(c, fe.Error())
	default:
		respondInternalError(c, err, context)
	}
}
