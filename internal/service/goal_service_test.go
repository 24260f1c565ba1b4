package service

import (
	"errors"
	"testing"
	"time"

	"github.com/bloomlog/internal/calendar"
)

func TestGoalServiceCreateAndActive(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewGoalService(gdb)

	goal, err := svc.Create(GoalInput{
		GoalText:     "每天读书",
		SelectedDays: calendar.NewWeekdaySet(calendar.Monday, calendar.Tuesday, calendar.Wednesday, calendar.Thursday, calendar.Friday),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if goal.ID == 0 || goal.UUID == "" {
		t.Fatal("expected goal to have identifiers")
	}
	if goal.SelectedDays.Count() != 5 {
		t.Fatalf("unexpected selected days: %s", goal.SelectedDays)
	}
	if goal.ReminderEnabled || goal.ReminderTime != "" {
		t.Fatal("expected reminder to be disabled by default input")
	}

	active, err := svc.Active()
	if err != nil {
		t.Fatalf("Active returned error: %v", err)
	}
	if active.ID != goal.ID {
		t.Fatalf("expected active goal %d, got %d", goal.ID, active.ID)
	}
}

func TestGoalServiceValidation(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewGoalService(gdb)

	// 空文本
	if _, err := svc.Create(GoalInput{SelectedDays: calendar.EveryDay()}); !errors.Is(err, ErrGoalInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}

	// 空星期集合不允许落库，没有隐式"全选"回退
	if _, err := svc.Create(GoalInput{GoalText: "冥想"}); !errors.Is(err, ErrGoalInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}

	// 开启提醒但时刻格式错误
	if _, err := svc.Create(GoalInput{
		GoalText:        "晨跑",
		SelectedDays:    calendar.EveryDay(),
		ReminderEnabled: true,
		ReminderTime:    "9 o'clock",
	}); !errors.Is(err, ErrGoalInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestGoalServiceActiveIsMostRecent(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewGoalService(gdb)

	first, err := svc.Create(GoalInput{GoalText: "写日记", SelectedDays: calendar.EveryDay()})
	if err != nil {
		t.Fatalf("failed to create first goal: %v", err)
	}
	// created_at 秒级相同时靠 id 兜底排序
	second, err := svc.Create(GoalInput{GoalText: "学吉他", SelectedDays: calendar.NewWeekdaySet(calendar.Saturday, calendar.Sunday)})
	if err != nil {
		t.Fatalf("failed to create second goal: %v", err)
	}

	goals, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].ID != second.ID {
		t.Fatalf("expected most recent goal first, got %d", goals[0].ID)
	}

	active, err := svc.Active()
	if err != nil {
		t.Fatalf("Active returned error: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected active goal %d, got %d", second.ID, active.ID)
	}

	firstCreated, err := svc.FirstCreatedAt()
	if err != nil {
		t.Fatalf("FirstCreatedAt returned error: %v", err)
	}
	if !firstCreated.Equal(first.CreatedAt) {
		t.Fatalf("expected first goal creation time, got %s", firstCreated)
	}
}

func TestGoalServiceActiveWithoutGoals(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewGoalService(gdb)

	if _, err := svc.Active(); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestGoalServiceUpdatePreservesProgress(t *testing.T) {
	gdb := setupTestDB(t)
	goalSvc := NewGoalService(gdb)
	progressSvc := NewProgressService(gdb)

	goal, err := goalSvc.Create(GoalInput{
		GoalText:     "背单词",
		SelectedDays: calendar.EveryDay(),
	})
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}

	today := time.Now()
	if _, err := progressSvc.CompleteDay(goal.ID, today); err != nil {
		t.Fatalf("CompleteDay returned error: %v", err)
	}
	if _, err := progressSvc.CompleteDay(goal.ID, today.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("CompleteDay returned error: %v", err)
	}

	updated, err := goalSvc.Update(goal.ID, GoalInput{
		GoalText:        "背单词 50 个",
		SelectedDays:    calendar.NewWeekdaySet(calendar.Monday, calendar.Wednesday),
		ReminderEnabled: true,
		ReminderTime:    "08:30",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.GoalText != "背单词 50 个" {
		t.Fatalf("expected text to update, got %s", updated.GoalText)
	}
	if updated.ReminderTime != "08:30" {
		t.Fatalf("expected reminder time to update, got %s", updated.ReminderTime)
	}

	// 编辑目标不触碰历史打卡
	days, err := progressSvc.ListDays(goal.ID)
	if err != nil {
		t.Fatalf("ListDays returned error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 progress days to survive, got %d", len(days))
	}
	for _, day := range days {
		if !day.Completed {
			t.Fatal("expected progress days to stay completed")
		}
	}
}

func TestGoalServiceDeleteCascades(t *testing.T) {
	gdb := setupTestDB(t)
	goalSvc := NewGoalService(gdb)
	progressSvc := NewProgressService(gdb)

	goal, err := goalSvc.Create(GoalInput{GoalText: "练字", SelectedDays: calendar.EveryDay()})
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	if _, err := progressSvc.CompleteDay(goal.ID, time.Now()); err != nil {
		t.Fatalf("CompleteDay returned error: %v", err)
	}

	if err := goalSvc.Delete(goal.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := goalSvc.Get(goal.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}

	days, err := progressSvc.ListDays(goal.ID)
	if err != nil {
		t.Fatalf("ListDays returned error: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected cascade to remove progress days, got %d", len(days))
	}
}
