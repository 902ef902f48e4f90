package board

import (
	"log"
	"slices"

	"github.com/tgienger/taskboard/internal/models"
)

// Merge returns a tree whose container list for scope is replaced by
// containers. Only the path from the root to that list is rebuilt; every other
// area, project and container list is shared with the input, which is left
// untouched. A scope that does not resolve returns tree unchanged.
func Merge(tree models.Tree, scope Scope, containers []models.Container) models.Tree {
	if scope.IsMain() {
		tree.Main = containers
		return tree
	}

	ai := slices.IndexFunc(tree.Areas, func(a models.Area) bool { return a.ID == scope.AreaID })
	if ai < 0 {
		log.Printf("board: merge into unknown area %s", scope.AreaID)
		return tree
	}
	area := tree.Areas[ai]

	if !scope.IsProject() {
		area.Containers = containers
	} else {
		pi := slices.IndexFunc(area.Projects, func(p models.Project) bool { return p.ID == scope.ProjectID })
		if pi < 0 {
			log.Printf("board: merge into unknown project %s", scope.ProjectID)
			return tree
		}
		project := area.Projects[pi]
		project.Containers = containers

		projects := slices.Clone(area.Projects)
		projects[pi] = project
		area.Projects = projects
	}

	areas := slices.Clone(tree.Areas)
	areas[ai] = area
	tree.Areas = areas
	return tree
}

// AddArea appends an area to the tree
func AddArea(tree models.Tree, area models.Area) models.Tree {
	areas := make([]models.Area, 0, len(tree.Areas)+1)
	areas = append(areas, tree.Areas...)
	tree.Areas = append(areas, area)
	return tree
}

// AddProject appends a project to its owning area. Unknown areas are a no-op.
func AddProject(tree models.Tree, project models.Project) models.Tree {
	ai := slices.IndexFunc(tree.Areas, func(a models.Area) bool { return a.ID == project.AreaID })
	if ai < 0 {
		return tree
	}
	area := tree.Areas[ai]
	projects := make([]models.Project, 0, len(area.Projects)+1)
	projects = append(projects, area.Projects...)
	area.Projects = append(projects, project)

	areas := slices.Clone(tree.Areas)
	areas[ai] = area
	tree.Areas = areas
	return tree
}

// RemoveArea drops an area with all its projects and containers
func RemoveArea(tree models.Tree, areaID string) models.Tree {
	tree.Areas = slices.DeleteFunc(slices.Clone(tree.Areas), func(a models.Area) bool { return a.ID == areaID })
	return tree
}

// RemoveProject drops a project from its area
func RemoveProject(tree models.Tree, areaID, projectID string) models.Tree {
	ai := slices.IndexFunc(tree.Areas, func(a models.Area) bool { return a.ID == areaID })
	if ai < 0 {
		return tree
	}
	area := tree.Areas[ai]
	area.Projects = slices.DeleteFunc(slices.Clone(area.Projects), func(p models.Project) bool { return p.ID == projectID })

	areas := slices.Clone(tree.Areas)
	areas[ai] = area
	tree.Areas = areas
	return tree
}

// AppendContainer returns containers with c added at the end
func AppendContainer(containers []models.Container, c models.Container) []models.Container {
	return insertAt(containers, len(containers), c)
}

// AppendTask returns containers with task added to the end of the container
// with the given id
func AppendTask(containers []models.Container, containerID models.ID, task models.Task) ([]models.Container, bool) {
	ci, ok := FindContainer(containers, containerID)
	if !ok {
		return containers, false
	}
	out := slices.Clone(containers)
	out[ci].Tasks = insertAt(out[ci].Tasks, len(out[ci].Tasks), task)
	return out, true
}

// ReplaceTask swaps in an edited task, keeping its position
func ReplaceTask(containers []models.Container, task models.Task) ([]models.Container, bool) {
	ci, ti, ok := FindTaskOwner(containers, task.ID)
	if !ok {
		return containers, false
	}
	out := slices.Clone(containers)
	tasks := slices.Clone(out[ci].Tasks)
	tasks[ti] = task
	out[ci].Tasks = tasks
	return out, true
}

// RenameContainer returns containers with the named container relabelled
func RenameContainer(containers []models.Container, id models.ID, name string) ([]models.Container, bool) {
	ci, ok := FindContainer(containers, id)
	if !ok {
		return containers, false
	}
	out := slices.Clone(containers)
	out[ci].Name = name
	return out, true
}

// RemoveContainer drops a container together with its tasks
func RemoveContainer(containers []models.Container, id models.ID) ([]models.Container, bool) {
	ci, ok := FindContainer(containers, id)
	if !ok {
		return containers, false
	}
	return removeAt(containers, ci), true
}

// RemoveTask drops a task from whichever container holds it
func RemoveTask(containers []models.Container, id models.ID) ([]models.Container, bool) {
	ci, ti, ok := FindTaskOwner(containers, id)
	if !ok {
		return containers, false
	}
	out := slices.Clone(containers)
	out[ci].Tasks = removeAt(out[ci].Tasks, ti)
	return out, true
}
