package board

import (
	"log"

	"github.com/tgienger/taskboard/internal/models"
)

// MoveElement returns a copy of s with the element at from extracted and
// reinserted at to. Elements in between shift toward the vacated slot.
func MoveElement[T any](s []T, from, to int) []T {
	out := make([]T, len(s))
	copy(out, s)
	if from == to || from < 0 || to < 0 || from >= len(s) || to >= len(s) {
		return out
	}
	v := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = v
	return out
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

// Move applies dropping active onto over to the displayed containers.
//
// A container dropped on a container reorders the list. A task dropped on a
// task reorders within one container or is inserted before the target in
// another. A task dropped on a container is appended to it. Anything else is a
// no-op. The input is never mutated; the bool reports whether the returned
// list differs from it.
func Move(containers []models.Container, active, over models.ID) ([]models.Container, bool) {
	if active.IsZero() || over.IsZero() || active == over {
		return containers, false
	}

	switch {
	case active.IsContainer() && over.IsContainer():
		return moveContainer(containers, active, over)
	case active.IsTask() && over.IsTask():
		return moveTaskOntoTask(containers, active, over)
	case active.IsTask() && over.IsContainer():
		return moveTaskIntoContainer(containers, active, over)
	}
	return containers, false
}

func moveContainer(containers []models.Container, active, over models.ID) ([]models.Container, bool) {
	from, ok := FindContainer(containers, active)
	if !ok {
		log.Printf("board: dragged container %s not in scope", active)
		return containers, false
	}
	to, ok := FindContainer(containers, over)
	if !ok {
		log.Printf("board: drop container %s not in scope", over)
		return containers, false
	}
	return MoveElement(containers, from, to), true
}

func moveTaskOntoTask(containers []models.Container, active, over models.ID) ([]models.Container, bool) {
	fromC, fromT, ok := FindTaskOwner(containers, active)
	if !ok {
		log.Printf("board: dragged task %s not in scope", active)
		return containers, false
	}
	toC, toT, ok := FindTaskOwner(containers, over)
	if !ok {
		log.Printf("board: drop task %s not in scope", over)
		return containers, false
	}

	out := make([]models.Container, len(containers))
	copy(out, containers)

	if fromC == toC {
		out[fromC].Tasks = MoveElement(out[fromC].Tasks, fromT, toT)
		return out, true
	}

	moved := out[fromC].Tasks[fromT]
	out[fromC].Tasks = removeAt(out[fromC].Tasks, fromT)
	out[toC].Tasks = insertAt(out[toC].Tasks, toT, moved)
	return out, true
}

func moveTaskIntoContainer(containers []models.Container, active, over models.ID) ([]models.Container, bool) {
	fromC, fromT, ok := FindTaskOwner(containers, active)
	if !ok {
		log.Printf("board: dragged task %s not in scope", active)
		return containers, false
	}
	toC, ok := FindContainer(containers, over)
	if !ok {
		log.Printf("board: drop container %s not in scope", over)
		return containers, false
	}
	// already last in its own container
	if fromC == toC && fromT == len(containers[toC].Tasks)-1 {
		return containers, false
	}

	out := make([]models.Container, len(containers))
	copy(out, containers)

	moved := out[fromC].Tasks[fromT]
	out[fromC].Tasks = removeAt(out[fromC].Tasks, fromT)
	out[toC].Tasks = insertAt(out[toC].Tasks, len(out[toC].Tasks), moved)
	return out, true
}
