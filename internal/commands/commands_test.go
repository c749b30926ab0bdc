package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestParseID(t *testing.T) {
	if id, err := parseID("42", "task"); err != nil || id != 42 {
		t.Errorf("Expected 42, got %d %v", id, err)
	}
	for _, bad := range []string{"0", "-1", "abc", ""} {
		if _, err := parseID(bad, "task"); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func newEditCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "edit"}
	addTaskFlags(cmd)
	cmd.Flags().String("title", "", "")
	cmd.Flags().String("status", "", "")
	cmd.Flags().Bool("clear-due", false, "")
	cmd.Flags().Bool("clear-project", false, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestTaskUpdateOnlyChangedFlags(t *testing.T) {
	cmd := newEditCommand(t, "--title", "Renamed", "--priority", "4", "--tags", "a,b", "--due", "2024-06-10")

	u, err := taskUpdate(context.Background(), nil, cmd, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if u.Title == nil || *u.Title != "Renamed" {
		t.Errorf("Expected title update, got %v", u.Title)
	}
	if u.Priority == nil || *u.Priority != models.PriorityUrgent {
		t.Errorf("Expected urgent, got %v", u.Priority)
	}
	if u.Tags == nil || *u.Tags != "a,b" {
		t.Errorf("Expected tags a,b, got %v", u.Tags)
	}
	if u.DueDate == nil || u.DueDate.Day() != 10 || u.ClearDueDate {
		t.Errorf("Expected due 10 June, got %v clear=%v", u.DueDate, u.ClearDueDate)
	}
	if u.Description != nil || u.Status != nil || u.Amount != nil || u.Attendees != nil || u.ProjectID != nil {
		t.Errorf("Expected untouched fields to stay nil, got %+v", u)
	}
}

func TestTaskUpdateClearFlags(t *testing.T) {
	cmd := newEditCommand(t, "--clear-due", "--clear-project", "--status", "done")

	u, err := taskUpdate(context.Background(), nil, cmd, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if !u.ClearDueDate || !u.ClearProject {
		t.Errorf("Expected both clear flags, got %+v", u)
	}
	if u.Status == nil || *u.Status != models.StatusCompleted {
		t.Errorf("Expected completed status, got %v", u.Status)
	}
}

func TestTaskUpdateRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{
		{"--priority", "whenever"},
		{"--type", "party"},
		{"--due", "someday"},
		{"--status", "blocked"},
	} {
		cmd := newEditCommand(t, args...)
		if _, err := taskUpdate(context.Background(), nil, cmd, fixedNow); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}

func TestParsedInputFlagsWin(t *testing.T) {
	cmd := &cobra.Command{Use: "add"}
	addTaskFlags(cmd)
	if err := cmd.ParseFlags([]string{"--priority", "low", "--project", "Ops"}); err != nil {
		t.Fatal(err)
	}

	parsed := parser.ParseTitle("Fix deploy @web +high APP-7 #ci", fixedNow)
	in, project, err := parsedInput(cmd, parsed, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if in.Priority != models.PriorityLow || project != "Ops" {
		t.Errorf("Expected flags to win, got priority %s project %s", in.Priority, project)
	}
	if in.Ticket == "" || in.TaskType != models.TaskDevelopment {
		t.Errorf("Expected a development task with a ticket, got %+v", in)
	}
	if !strings.Contains(in.Tags, "ci") {
		t.Errorf("Expected parsed tags, got %q", in.Tags)
	}
}

func TestSnapshotYAML(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	pid := uint(1)
	snap := buildSnapshot(
		[]models.Project{{ID: 1, Name: "Web", Type: models.ProjectDeveloper, Status: models.ProjectActive, Progress: 50, Tasks: 2}},
		[]models.Task{
			{ID: 1, Title: "Ship", Status: models.StatusCompleted, Priority: models.PriorityHigh, TaskType: models.TaskRegular, ProjectID: &pid, ProjectName: "Web"},
			{ID: 2, Title: "Docs", Status: models.StatusTodo, Priority: models.PriorityMedium, TaskType: models.TaskRegular, DueDate: &due, Tags: []models.Tag{{Name: "writing"}}},
		},
		[]models.CalendarEvent{{ID: "manual-1", Title: "Retro", Date: due, Type: models.EventMeeting}},
		fixedNow,
	)

	var buf bytes.Buffer
	if err := writeSnapshot(&buf, snap); err != nil {
		t.Fatal(err)
	}

	var decoded snapshot
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid YAML, got %v\n%s", err, buf.String())
	}
	if decoded.Version != 1 || len(decoded.Projects) != 1 || len(decoded.Tasks) != 2 || len(decoded.Events) != 1 {
		t.Fatalf("Unexpected snapshot %+v", decoded)
	}
	if decoded.Tasks[1].Due != "2024-06-10" || decoded.Tasks[1].Tags[0] != "writing" {
		t.Errorf("Unexpected task %+v", decoded.Tasks[1])
	}
	if decoded.Tasks[0].ProjectID == nil || *decoded.Tasks[0].ProjectID != 1 {
		t.Errorf("Expected project reference, got %v", decoded.Tasks[0].ProjectID)
	}
	if strings.Contains(buf.String(), "repository:") {
		t.Error("Expected empty optional fields to be omitted")
	}
}
