package board

import (
	"fmt"

	"github.com/tgienger/taskboard/internal/models"
)

// Scope names the container list currently on display.
// An empty AreaID means the main scope; an empty ProjectID means the area's
// own containers.
type Scope struct {
	AreaID    string `json:"areaId,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
}

func MainScope() Scope {
	return Scope{}
}

func AreaScope(areaID string) Scope {
	return Scope{AreaID: areaID}
}

func ProjectScope(areaID, projectID string) Scope {
	return Scope{AreaID: areaID, ProjectID: projectID}
}

func (s Scope) IsMain() bool    { return s.AreaID == "" && s.ProjectID == "" }
func (s Scope) IsProject() bool { return s.ProjectID != "" }

func (s Scope) String() string {
	switch {
	case s.IsMain():
		return "main"
	case s.IsProject():
		return fmt.Sprintf("area %s / project %s", s.AreaID, s.ProjectID)
	}
	return "area " + s.AreaID
}

// Selection tracks which scope the user is viewing
type Selection struct {
	areaID    string
	projectID string
}

// SelectMain clears both the area and the project
func (s *Selection) SelectMain() {
	s.areaID = ""
	s.projectID = ""
}

// SelectArea picks an area and leaves any project that was open
func (s *Selection) SelectArea(areaID string) {
	s.areaID = areaID
	s.projectID = ""
}

// SelectProject picks a project together with its owning area
func (s *Selection) SelectProject(areaID, projectID string) {
	s.areaID = areaID
	s.projectID = projectID
}

// Restore selects whatever scope sc names
func (s *Selection) Restore(sc Scope) {
	switch {
	case sc.IsProject():
		s.SelectProject(sc.AreaID, sc.ProjectID)
	case sc.AreaID != "":
		s.SelectArea(sc.AreaID)
	default:
		s.SelectMain()
	}
}

func (s Selection) Scope() Scope {
	return Scope{AreaID: s.areaID, ProjectID: s.projectID}
}

// Displayed returns the container list the scope refers to. The slice is the
// tree's own, not a copy. Unknown areas or projects yield nil.
func Displayed(tree models.Tree, scope Scope) []models.Container {
	if scope.IsMain() {
		return tree.Main
	}
	area, ok := tree.FindArea(scope.AreaID)
	if !ok {
		return nil
	}
	if !scope.IsProject() {
		return area.Containers
	}
	project, ok := area.FindProject(scope.ProjectID)
	if !ok {
		return nil
	}
	return project.Containers
}

// Resolves reports whether the scope names an area/project present in tree
func Resolves(tree models.Tree, scope Scope) bool {
	if scope.IsMain() {
		return true
	}
	area, ok := tree.FindArea(scope.AreaID)
	if !ok {
		return false
	}
	if !scope.IsProject() {
		return true
	}
	_, ok = area.FindProject(scope.ProjectID)
	return ok
}
