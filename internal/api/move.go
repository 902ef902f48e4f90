package api

import (
	"net/http"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

type moveRequest struct {
	AreaID    string `json:"areaId"`
	ProjectID string `json:"projectId"`
	ActiveID  string `json:"activeId"`
	OverID    string `json:"overId"`
}

type moveResponse struct {
	Containers []models.Container `json:"containers"`
	Changed    bool               `json:"changed"`
}

// Move handles POST /move: one complete drag gesture within a scope. Ids
// that no longer resolve leave the board unchanged.
func (s *Server) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	active, err := models.ParseID(req.ActiveID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "activeId: "+err.Error())
		return
	}
	over, err := models.ParseID(req.OverID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "overId: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.db.LoadTree(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	scope := board.Scope{AreaID: req.AreaID, ProjectID: req.ProjectID}
	if !board.Resolves(tree, scope) {
		writeError(w, http.StatusNotFound, "unknown scope "+scope.String())
		return
	}

	b := board.New(tree)
	b.Restore(scope)
	b.DragStart(active)
	containers, changed := b.DragEnd(over)
	if changed {
		if err := s.db.SaveContainers(r.Context(), scope, containers); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, moveResponse{Containers: containers, Changed: changed})
}
