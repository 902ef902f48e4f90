package models

import (
	"fmt"
	"time"
)

// Priority of a task
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority accepts the display names case-insensitively; empty means Medium
func ParsePriority(s string) (Priority, error) {
	switch normalize(s) {
	case "", "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}

// Status of a task
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// ParseStatus accepts the display names case-insensitively; empty means To Do
func ParseStatus(s string) (Status, error) {
	switch normalize(s) {
	case "", "to do", "todo":
		return StatusToDo, nil
	case "in progress", "inprogress":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// Task represents a single task on the board
type Task struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdDate"`
	CompletedAt *time.Time `json:"completedDate,omitempty"`
	DueAt       *time.Time `json:"dueDate,omitempty"`
	Exp         *int       `json:"exp,omitempty"`
	Gold        *int       `json:"gold,omitempty"`
}

// Container is an ordered column of tasks
type Container struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Project groups containers inside an area
type Project struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	AreaID     string      `json:"areaId"`
	Containers []Container `json:"containers"`
}

// Area is a top-level grouping with its own containers and projects
type Area struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Containers []Container `json:"containers"`
	Projects   []Project   `json:"projects"`
}

// Tree is the whole board: the ungrouped main containers plus every area
type Tree struct {
	Main  []Container `json:"main"`
	Areas []Area      `json:"areas"`
}

// FindArea returns the area with the given id
func (t Tree) FindArea(id string) (Area, bool) {
	for _, a := range t.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return Area{}, false
}

// FindProject returns the project with the given id within the area
func (a Area) FindProject(id string) (Project, bool) {
	for _, p := range a.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
