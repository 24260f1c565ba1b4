package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bloomlog/internal/calendar"
	"github.com/bloomlog/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrGoalNotFound 在指定目标不存在时返回
	ErrGoalNotFound = errors.New("goal not found")
	// ErrGoalInvalidInput 在目标输入不完整或不合法时返回
	ErrGoalInvalidInput = errors.New("invalid goal input")
)

// reminderTimeLayout 是提醒时刻的存储格式
const reminderTimeLayout = "15:04"

// GoalService 负责目标的增删改查
// 数据模型允许多条目标并存，活跃目标约定为最近创建的一条（Active）
// 编辑只改目标本身，历史打卡记录保持不动

type GoalService struct {
	db *gorm.DB
}

// GoalInput 定义创建/更新目标时可配置的字段
// SelectedDays 必须非空；ReminderTime 仅在 ReminderEnabled 时保留
type GoalInput struct {
	GoalText        string
	SelectedDays    calendar.WeekdaySet
	ReminderEnabled bool
	ReminderTime    string
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB) *GoalService {
	return &GoalService{db: gdb}
}

// Create 新建目标
func (s *GoalService) Create(input GoalInput) (*db.Goal, error) {
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}

	goal := db.Goal{
		UUID:            uuid.New().String(),
		GoalText:        strings.TrimSpace(input.GoalText),
		SelectedDays:    input.SelectedDays,
		ReminderEnabled: input.ReminderEnabled,
		ReminderTime:    resolveReminderTime(input),
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &goal, nil
}

// List 返回全部目标，按创建时间倒序，最新的排在最前
func (s *GoalService) List() ([]db.Goal, error) {
	var goals []db.Goal
	if err := s.db.Order("created_at DESC, id DESC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// Active 返回最近创建的目标，没有任何目标时返回 ErrGoalNotFound
func (s *GoalService) Active() (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.Order("created_at DESC, id DESC").First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("load active goal: %w", err)
	}
	return &goal, nil
}

// Get 根据 ID 获取目标
func (s *GoalService) Get(id uint) (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.First(&goal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

// Update 原地更新目标配置，既有打卡记录不受影响
func (s *GoalService) Update(id uint, input GoalInput) (*db.Goal, error) {
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}

	var existing db.Goal
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("find goal: %w", err)
	}

	existing.GoalText = strings.TrimSpace(input.GoalText)
	existing.SelectedDays = input.SelectedDays
	existing.ReminderEnabled = input.ReminderEnabled
	existing.ReminderTime = resolveReminderTime(input)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return &existing, nil
}

// Delete 删除目标并级联清除其全部打卡记录
func (s *GoalService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// 打卡记录硬删除，避免软删行占住 goal_id+day 唯一索引
		if err := tx.Unscoped().Where("goal_id = ?", id).Delete(&db.ProgressDay{}).Error; err != nil {
			return fmt.Errorf("delete progress days: %w", err)
		}
		if err := tx.Delete(&db.Goal{}, id).Error; err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		return nil
	})
}

// FirstCreatedAt 返回最早目标的创建时间，用于推导日历展示的起始月
func (s *GoalService) FirstCreatedAt() (time.Time, error) {
	var goal db.Goal
	if err := s.db.Order("created_at ASC, id ASC").First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrGoalNotFound
		}
		return time.Time{}, fmt.Errorf("load first goal: %w", err)
	}
	return goal.CreatedAt, nil
}

func validateGoalInput(input GoalInput) error {
	if strings.TrimSpace(input.GoalText) == "" {
		return fmt.Errorf("%w: goal text is required", ErrGoalInvalidInput)
	}
	if input.SelectedDays.IsEmpty() {
		return fmt.Errorf("%w: at least one weekday is required", ErrGoalInvalidInput)
	}
	if input.ReminderEnabled {
		if _, err := time.Parse(reminderTimeLayout, strings.TrimSpace(input.ReminderTime)); err != nil {
			return fmt.Errorf("%w: reminder time must be HH:MM", ErrGoalInvalidInput)
		}
	}
	return nil
}

func resolveReminderTime(input GoalInput) string {
	if !input.ReminderEnabled {
		return ""
	}
	return strings.TrimSpace(input.ReminderTime)
}
