package db

import (
	"errors"
	"testing"

	"github.com/hanae/stayfocus/internal/model"
)

func TestProjectRoundTrip(t *testing.T) {
	db := testDB(t)

	p := &model.Project{Name: "website", Description: "relaunch"}
	if err := db.CreateProject(p); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	if p.Color == "" {
		t.Error("project should get a default color")
	}

	projects, err := db.GetProjects(model.DefaultTeamID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Name != "website" {
		t.Fatalf("projects = %+v", projects)
	}

	p.Name = "website v2"
	p.Color = model.Palette[3]
	if err := db.UpdateProject(p); err != nil {
		t.Fatal(err)
	}
	projects, _ = db.GetProjects(model.DefaultTeamID, false)
	if projects[0].Name != "website v2" || projects[0].Color != model.Palette[3] {
		t.Errorf("update lost: %+v", projects[0])
	}
}

func TestCompleteProjectRequiresFinishedTasks(t *testing.T) {
	db := testDB(t)

	p := &model.Project{Name: "launch"}
	if err := db.CreateProject(p); err != nil {
		t.Fatal(err)
	}

	// Empty projects cannot be completed.
	if err := db.CompleteProject(p.ID); !errors.Is(err, ErrProjectIncomplete) {
		t.Fatalf("empty project: err = %v, want ErrProjectIncomplete", err)
	}

	task := mustCreate(t, db, &model.Task{Name: "ship it", ProjectID: &p.ID})
	if err := db.CompleteProject(p.ID); !errors.Is(err, ErrProjectIncomplete) {
		t.Fatalf("open task: err = %v, want ErrProjectIncomplete", err)
	}

	if err := db.SetTaskCompletion(task.ID, true, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.CompleteProject(p.ID); err != nil {
		t.Fatalf("all tasks done, completion refused: %v", err)
	}

	projects, err := db.GetProjects(model.DefaultTeamID, false)
	if err != nil {
		t.Fatal(err)
	}
	if !projects[0].Completed || projects[0].CompletedAt == nil {
		t.Errorf("completion not recorded: %+v", projects[0])
	}

	if err := db.ReopenProject(p.ID); err != nil {
		t.Fatal(err)
	}
	projects, _ = db.GetProjects(model.DefaultTeamID, false)
	if projects[0].Completed || projects[0].CompletedAt != nil {
		t.Errorf("reopen left completed state: %+v", projects[0])
	}
}

func TestProjectTaskCounts(t *testing.T) {
	db := testDB(t)

	p := &model.Project{Name: "counted"}
	if err := db.CreateProject(p); err != nil {
		t.Fatal(err)
	}
	mustCreate(t, db, &model.Task{Name: "one", ProjectID: &p.ID})
	done := mustCreate(t, db, &model.Task{Name: "two", ProjectID: &p.ID})
	if err := db.SetTaskCompletion(done.ID, true, nil); err != nil {
		t.Fatal(err)
	}

	projects, err := db.GetProjects(model.DefaultTeamID, false)
	if err != nil {
		t.Fatal(err)
	}
	if projects[0].TaskCount != 2 || projects[0].CompletedCount != 1 {
		t.Errorf("counts = %d/%d, want 1/2 done",
			projects[0].CompletedCount, projects[0].TaskCount)
	}
}

func TestArchiveHidesProject(t *testing.T) {
	db := testDB(t)

	p := &model.Project{Name: "old"}
	if err := db.CreateProject(p); err != nil {
		t.Fatal(err)
	}
	if err := db.SetProjectArchived(p.ID, true); err != nil {
		t.Fatal(err)
	}

	visible, err := db.GetProjects(model.DefaultTeamID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 0 {
		t.Errorf("archived project still listed: %+v", visible)
	}

	all, err := db.GetProjects(model.DefaultTeamID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || !all[0].Archived {
		t.Errorf("archive listing = %+v", all)
	}

	if err := db.SetProjectArchived(p.ID, false); err != nil {
		t.Fatal(err)
	}
	visible, _ = db.GetProjects(model.DefaultTeamID, false)
	if len(visible) != 1 {
		t.Error("unarchive did not restore the project")
	}
}

func TestDeleteProjectRemovesTasks(t *testing.T) {
	db := testDB(t)

	p := &model.Project{Name: "doomed"}
	if err := db.CreateProject(p); err != nil {
		t.Fatal(err)
	}
	task := mustCreate(t, db, &model.Task{Name: "inside", ProjectID: &p.ID})
	keeper := mustCreate(t, db, &model.Task{Name: "outside"})

	if err := db.DeleteProject(p.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetTask(task.ID); err == nil {
		t.Error("project task survived the delete")
	}
	if _, err := db.GetTask(keeper.ID); err != nil {
		t.Errorf("unrelated task deleted: %v", err)
	}
}
