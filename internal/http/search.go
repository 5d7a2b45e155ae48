package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/university/internal/editor"
	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

// SearchController keeps one search dispatcher per browser. The dispatcher
// itself lives for a single request; its kind and condition are carried
// between requests in the session.
type SearchController struct {
	store     search.Store
	sessions  *SessionManager
	editor    *editor.Editor
	observers []search.Observer
}

func NewSearchController(store search.Store, sessions *SessionManager, ed *editor.Editor, observers ...search.Observer) *SearchController {
	return &SearchController{
		store:     store,
		sessions:  sessions,
		editor:    ed,
		observers: observers,
	}
}

// SearchResponse is the dispatcher state as shown to the browser.
type SearchResponse struct {
	Kind      entities.Kind  `json:"kind"`
	Prompt    string         `json:"prompt"`
	Condition string         `json:"condition"`
	Ran       bool           `json:"ran"`
	Results   search.Results `json:"results"`
}

type selectKindRequest struct {
	Kind string `json:"kind"`
}

type runSearchRequest struct {
	Condition string `json:"condition"`
}

// DeleteResponse reports the result of a delete request.
type DeleteResponse struct {
	ID              uint   `json:"id"`
	Label           string `json:"label"`
	Outcome         string `json:"outcome,omitempty"`
	ConfirmRequired bool   `json:"confirm_required,omitempty"`
}

// EditResponse carries the navigation request and the editor session it
// opened.
type EditResponse struct {
	Navigation search.Navigation `json:"navigation"`
	Session    *editor.View      `json:"session,omitempty"`
}

func toSearchResponse(d *search.Dispatcher) SearchResponse {
	state := d.State()
	return SearchResponse{
		Kind:      state.Kind,
		Prompt:    d.Prompt(),
		Condition: state.Condition,
		Ran:       state.Ran,
		Results:   d.Results(),
	}
}

// GetState handles GET /api/search
// The saved search is replayed so the results reflect the current store.
func (sc *SearchController) GetState(c *gin.Context) {
	d := search.NewDispatcher(sc.store, nil)
	if err := d.Restore(sc.sessions.SearchState(c.Request.Context())); err != nil {
		respondInternalError(c, err, "restore search")
		return
	}
	c.JSON(http.StatusOK, toSearchResponse(d))
}

// SelectKind handles POST /api/search/kind
// Selecting a kind clears the condition and every result collection. An
// empty or unknown kind deselects.
func (sc *SearchController) SelectKind(c *gin.Context) {
	var req selectKindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	kind, _ := entities.ParseKind(req.Kind)
	d := search.NewDispatcher(sc.store, nil)
	d.Select(kind)
	sc.sessions.PutSearchState(c.Request.Context(), d.State())

	c.JSON(http.StatusOK, toSearchResponse(d))
}

// Run handles POST /api/search/run
// Without a selected kind the request succeeds and nothing runs.
func (sc *SearchController) Run(c *gin.Context) {
	var req runSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	state := sc.sessions.SearchState(c.Request.Context())
	d := search.NewDispatcher(sc.store, nil, sc.observers...)
	d.Select(state.Kind)
	if err := d.Search(req.Condition); err != nil {
		respondInternalError(c, err, "run search")
		return
	}
	sc.sessions.PutSearchState(c.Request.Context(), d.State())

	c.JSON(http.StatusOK, toSearchResponse(d))
}

// Edit handles POST /api/search/results/:id/edit
// It forwards the row to the editor of the active kind and opens a session.
func (sc *SearchController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	d := sc.selected(c)
	nav, ok := d.Edit(id)
	if !ok {
		respondError(c, http.StatusConflict, CodeNoKindSelected, "no record kind selected")
		return
	}

	resp := EditResponse{Navigation: nav}
	if sc.editor != nil {
		view, found, err := sc.editor.Open(nav.Kind, nav.ID)
		if err != nil {
			respondInternalError(c, err, "open editor")
			return
		}
		if !found {
			respondNotFound(c, nav.Kind.Singular())
			return
		}
		resp.Session = &view
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/search/results/:id
// Without a confirm query parameter nothing is deleted and the response
// carries the label the user must confirm. confirm=true deletes,
// confirm=false records a declined delete.
func (sc *SearchController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	raw, hasConfirm := c.GetQuery("confirm")
	var confirmed bool
	if hasConfirm {
		var err error
		if confirmed, err = strconv.ParseBool(raw); err != nil {
			respondBadRequest(c, "invalid confirm")
			return
		}
	}

	d := sc.selected(c)
	if d.Kind() == entities.KindNone {
		respondError(c, http.StatusConflict, CodeNoKindSelected, "no record kind selected")
		return
	}

	label, found, err := d.DeleteLabel(id)
	if err != nil {
		respondInternalError(c, err, "resolve delete label")
		return
	}
	if !found {
		respondNotFound(c, d.Kind().Singular())
		return
	}

	if !hasConfirm {
		c.JSON(http.StatusOK, DeleteResponse{ID: id, Label: label, ConfirmRequired: true})
		return
	}

	d = search.NewDispatcher(sc.store, search.ConfirmFunc(func(string) bool { return confirmed }), sc.observers...)
	d.Select(sc.sessions.SearchState(c.Request.Context()).Kind)
	outcome, err := d.Delete(id)
	if err != nil {
		respondInternalError(c, err, "delete record")
		return
	}
	if outcome == search.OutcomeIgnored {
		respondNotFound(c, d.Kind().Singular())
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{ID: id, Label: label, Outcome: outcome.String()})
}

// selected returns a dispatcher with the browser's kind and condition
// selected but not run.
func (sc *SearchController) selected(c *gin.Context) *search.Dispatcher {
	state := sc.sessions.SearchState(c.Request.Context())
	d := search.NewDispatcher(sc.store, nil)
	d.Select(state.Kind)
	d.SetCondition(state.Condition)
	return d
}
