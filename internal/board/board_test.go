package board

import (
	"reflect"
	"testing"

	"github.com/tgienger/taskboard/internal/models"
)

func TestSelection(t *testing.T) {
	var s Selection
	if !s.Scope().IsMain() {
		t.Fatal("expected zero selection to be main")
	}

	s.SelectProject("a1", "p1")
	if got := s.Scope(); got != ProjectScope("a1", "p1") {
		t.Errorf("got %+v", got)
	}

	// selecting an area leaves the project
	s.SelectArea("a2")
	if got := s.Scope(); got != AreaScope("a2") {
		t.Errorf("got %+v", got)
	}

	s.SelectMain()
	if got := s.Scope(); !got.IsMain() {
		t.Errorf("got %+v", got)
	}

	s.Restore(ProjectScope("a1", "p2"))
	if got := s.Scope(); got != ProjectScope("a1", "p2") {
		t.Errorf("Restore: got %+v", got)
	}
}

// Dragging "Write report" onto the empty "Done" column of the selected area
// moves it there and leaves the sibling area identical.
func TestBoard_WorkScenario(t *testing.T) {
	personal := models.Area{ID: "personal", Name: "Personal", Containers: []models.Container{col("Chores", "Laundry")}}
	tree := models.Tree{Areas: []models.Area{
		{ID: "work", Name: "Work", Containers: []models.Container{col("To-Do", "Write report"), col("Done")}},
		personal,
	}}

	b := New(tree)
	b.SelectArea("work")

	b.DragStart(tid("Write report"))
	containers, changed := b.DragEnd(cid("Done"))
	if !changed {
		t.Fatal("expected change")
	}

	want := map[string][]string{"To-Do": {}, "Done": {"Write report"}}
	if got := layout(containers); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := layout(b.Tree().Areas[0].Containers); !reflect.DeepEqual(got, want) {
		t.Errorf("tree not merged: %v", got)
	}
	if !reflect.DeepEqual(b.Tree().Areas[1], personal) {
		t.Error("sibling area changed")
	}
	if _, dragging := b.Dragging(); dragging {
		t.Error("expected drag to end")
	}
}

func TestBoard_LiveUpdatesThenDrop(t *testing.T) {
	tree := models.Tree{Main: []models.Container{col("C1", "T1", "T2"), col("C2", "T3"), col("C3")}}
	b := New(tree)

	b.DragStart(tid("T1"))

	// hover over T3 in C2: moved in before it right away
	shown := b.DragMove(tid("T3"))
	if got := layout(shown)["C2"]; !reflect.DeepEqual(got, []string{"T1", "T3"}) {
		t.Fatalf("after first move C2 = %v", got)
	}

	// then over the empty C3
	shown = b.DragMove(cid("C3"))
	want := map[string][]string{"C1": {"T2"}, "C2": {"T3"}, "C3": {"T1"}}
	if got := layout(shown); !reflect.DeepEqual(got, want) {
		t.Fatalf("after second move got %v", got)
	}

	// release over itself: no further change but the gesture did change things
	final, changed := b.DragEnd(tid("T1"))
	if !changed {
		t.Error("expected gesture to report a change")
	}
	if got := layout(final); !reflect.DeepEqual(got, want) {
		t.Errorf("final got %v, want %v", got, want)
	}

	// original tree value untouched
	if got := layout(tree.Main); !reflect.DeepEqual(got, map[string][]string{"C1": {"T1", "T2"}, "C2": {"T3"}, "C3": {}}) {
		t.Errorf("input tree mutated: %v", got)
	}
}

func TestBoard_LiveUpdateReordersContainers(t *testing.T) {
	b := New(models.Tree{Main: []models.Container{col("C1"), col("C2"), col("C3")}})

	b.DragStart(cid("C1"))
	if got := order(b.DragMove(cid("C2"))); !reflect.DeepEqual(got, []string{"C2", "C1", "C3"}) {
		t.Errorf("got %v", got)
	}
	containers, changed := b.DragEnd(cid("C3"))
	if !changed {
		t.Error("expected change")
	}
	if got := order(containers); !reflect.DeepEqual(got, []string{"C2", "C3", "C1"}) {
		t.Errorf("got %v", got)
	}
}

func TestBoard_UnresolvedIsNoOp(t *testing.T) {
	tree := sampleTree()
	b := New(tree)
	b.SelectArea("a1")
	before := b.Containers()

	b.DragStart(tid("ghost"))
	b.DragMove(tid("w1"))
	got, changed := b.DragEnd(cid("W-Done"))
	if changed {
		t.Error("expected no change")
	}
	if !reflect.DeepEqual(got, before) {
		t.Error("containers changed")
	}

	// no drag in flight
	if _, changed := b.DragEnd(cid("W-Done")); changed {
		t.Error("expected DragEnd without DragStart to be a no-op")
	}
}

func TestBoard_DragConfinedToScope(t *testing.T) {
	b := New(sampleTree())
	b.SelectArea("a1")

	// f1 lives in project p1, not the area's own containers
	b.DragStart(tid("f1"))
	if _, changed := b.DragEnd(cid("W-Done")); changed {
		t.Error("expected cross-scope drop to be a no-op")
	}
}

func TestBoard_SelectAbandonsDrag(t *testing.T) {
	b := New(sampleTree())
	b.SelectArea("a1")
	b.DragStart(tid("w1"))

	b.SelectProject("a1", "p1")
	if _, dragging := b.Dragging(); dragging {
		t.Error("expected scope change to end the drag")
	}
}

func TestBoard_Restore(t *testing.T) {
	b := New(sampleTree())

	b.Restore(ProjectScope("a1", "p2"))
	if b.Scope() != ProjectScope("a1", "p2") {
		t.Errorf("got %+v", b.Scope())
	}

	b.Restore(ProjectScope("a1", "gone"))
	if !b.Scope().IsMain() {
		t.Errorf("expected fallback to main, got %+v", b.Scope())
	}
}

func TestBoard_Edits(t *testing.T) {
	b := New(sampleTree())
	b.SelectProject("a1", "p2")

	b.AddContainer(col("P2-Done"))
	if got := order(b.Containers()); !reflect.DeepEqual(got, []string{"P2-Todo", "P2-Done"}) {
		t.Errorf("got %v", got)
	}

	if !b.AddTask(cid("P2-Done"), models.Task{ID: tid("b2"), Title: "b2"}) {
		t.Fatal("AddTask failed")
	}
	if !b.UpdateTask(models.Task{ID: tid("b2"), Title: "renamed"}) {
		t.Fatal("UpdateTask failed")
	}
	if got := layout(b.Containers())["P2-Done"]; !reflect.DeepEqual(got, []string{"renamed"}) {
		t.Errorf("got %v", got)
	}
	if !b.DeleteTask(tid("b1")) || !b.DeleteContainer(cid("P2-Todo")) {
		t.Fatal("delete failed")
	}
	if got := order(b.Containers()); !reflect.DeepEqual(got, []string{"P2-Done"}) {
		t.Errorf("got %v", got)
	}

	b.DeleteProject("a1", "p2")
	if b.Scope() != AreaScope("a1") {
		t.Errorf("expected area scope after deleting selected project, got %+v", b.Scope())
	}
	b.DeleteArea("a1")
	if !b.Scope().IsMain() {
		t.Errorf("expected main after deleting selected area, got %+v", b.Scope())
	}

	b.AddArea(models.Area{ID: "a9", Name: "New"})
	b.AddProject(models.Project{ID: "p9", AreaID: "a9", Name: "Proj"})
	if area, ok := b.Tree().FindArea("a9"); !ok || len(area.Projects) != 1 {
		t.Errorf("unexpected area %+v", area)
	}
}
