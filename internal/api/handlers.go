package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

// GetTree handles GET /tree.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.db.LoadTree(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// GetContainers handles GET /containers?area=&project=.
func (s *Server) GetContainers(w http.ResponseWriter, r *http.Request) {
	scope := board.Scope{
		AreaID:    r.URL.Query().Get("area"),
		ProjectID: r.URL.Query().Get("project"),
	}
	tree, err := s.db.LoadTree(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !board.Resolves(tree, scope) {
		writeError(w, http.StatusNotFound, "unknown scope "+scope.String())
		return
	}
	writeJSON(w, http.StatusOK, board.Displayed(tree, scope))
}

// GetTags handles GET /tags.
func (s *Server) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.db.ListTags(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (n nameRequest) valid(w http.ResponseWriter) bool {
	if strings.TrimSpace(n.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return false
	}
	return true
}

// CreateArea handles POST /areas.
func (s *Server) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decode(w, r, &req) || !req.valid(w) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	area, err := s.db.CreateArea(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, area)
}

// RenameArea handles PUT /areas/{id}.
func (s *Server) RenameArea(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decode(w, r, &req) || !req.valid(w) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, name := mux.Vars(r)["id"], strings.TrimSpace(req.Name)
	if err := s.db.RenameArea(r.Context(), id, name); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Area{ID: id, Name: name})
}

// DeleteArea handles DELETE /areas/{id}.
func (s *Server) DeleteArea(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteArea(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type projectRequest struct {
	nameRequest
	AreaID string `json:"areaId"`
}

// CreateProject handles POST /projects.
func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decode(w, r, &req) || !req.valid(w) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.db.CreateProject(r.Context(), req.AreaID, strings.TrimSpace(req.Name))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// DeleteProject handles DELETE /projects/{id}.
func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteProject(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type containerRequest struct {
	nameRequest
	AreaID    string `json:"areaId"`
	ProjectID string `json:"projectId"`
}

// CreateContainer handles POST /containers.
func (s *Server) CreateContainer(w http.ResponseWriter, r *http.Request) {
	var req containerRequest
	if !decode(w, r, &req) || !req.valid(w) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := board.Scope{AreaID: req.AreaID, ProjectID: req.ProjectID}
	c, err := s.db.CreateContainer(r.Context(), scope, strings.TrimSpace(req.Name))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// containerInfo describes a container without its tasks
type containerInfo struct {
	ID        models.ID `json:"id"`
	Name      string    `json:"name"`
	AreaID    string    `json:"areaId,omitempty"`
	ProjectID string    `json:"projectId,omitempty"`
}

// RenameContainer handles PUT /containers/{id}.
func (s *Server) RenameContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.KindContainer)
	if !ok {
		return
	}
	var req nameRequest
	if !decode(w, r, &req) || !req.valid(w) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(req.Name)
	if err := s.db.RenameContainer(r.Context(), id, name); err != nil {
		writeStoreError(w, err)
		return
	}
	scope, err := s.db.ContainerScope(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containerInfo{ID: id, Name: name, AreaID: scope.AreaID, ProjectID: scope.ProjectID})
}

// DeleteContainer handles DELETE /containers/{id}.
func (s *Server) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.KindContainer)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteContainer(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// taskRequest carries the editable task fields. Nil fields are left as they
// are on update.
type taskRequest struct {
	ContainerID models.ID  `json:"containerId"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueAt       *time.Time `json:"dueDate"`
	Exp         *int       `json:"exp"`
	Gold        *int       `json:"gold"`
}

// apply copies the set fields onto task, stamping completion when the status
// changes to or from Completed
func (req taskRequest) apply(task *models.Task) error {
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	if req.Priority != nil {
		p, err := models.ParsePriority(*req.Priority)
		if err != nil {
			return err
		}
		task.Priority = p
	}
	if req.Status != nil {
		st, err := models.ParseStatus(*req.Status)
		if err != nil {
			return err
		}
		switch {
		case st == models.StatusCompleted && task.Status != models.StatusCompleted:
			now := time.Now()
			task.CompletedAt = &now
		case st != models.StatusCompleted:
			task.CompletedAt = nil
		}
		task.Status = st
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}
	if req.Exp != nil {
		task.Exp = req.Exp
	}
	if req.Gold != nil {
		task.Gold = req.Gold
	}
	return nil
}

// CreateTask handles POST /tasks.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.ContainerID.IsContainer() {
		writeError(w, http.StatusBadRequest, "containerId must be a container id")
		return
	}

	task := models.Task{Priority: models.PriorityMedium, Status: models.StatusToDo}
	if err := req.apply(&task); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if task.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.db.CreateTask(r.Context(), req.ContainerID, task)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTask handles GET /tasks/{id}.
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.KindTask)
	if !ok {
		return
	}
	task, err := s.db.GetTask(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id}.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.KindTask)
	if !ok {
		return
	}
	var req taskRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.db.GetTask(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := req.apply(task); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if task.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if err := s.db.UpdateTask(r.Context(), *task); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, models.KindTask)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteTask(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route variable, requiring the given kind
func pathID(w http.ResponseWriter, r *http.Request, kind models.Kind) (models.ID, bool) {
	id, err := models.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.ID{}, false
	}
	if id.Kind() != kind {
		writeError(w, http.StatusBadRequest, "expected a "+kind.String()+" id, got "+id.String())
		return models.ID{}, false
	}
	return id, true
}
