package board

import "github.com/tgienger/taskboard/internal/models"

// FindContainer returns the index of the container with the given id
func FindContainer(containers []models.Container, id models.ID) (int, bool) {
	for i, c := range containers {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindTaskOwner returns the index of the container holding the task and the
// task's index within it
func FindTaskOwner(containers []models.Container, taskID models.ID) (int, int, bool) {
	for ci, c := range containers {
		for ti, t := range c.Tasks {
			if t.ID == taskID {
				return ci, ti, true
			}
		}
	}
	return -1, -1, false
}

// FindTask returns a copy of the task with the given id
func FindTask(containers []models.Container, taskID models.ID) (models.Task, bool) {
	ci, ti, ok := FindTaskOwner(containers, taskID)
	if !ok {
		return models.Task{}, false
	}
	return containers[ci].Tasks[ti], true
}
