package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bloomlog/internal/calendar"
	"github.com/bloomlog/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProgressDayNotFound 在指定打卡记录不存在时返回
	ErrProgressDayNotFound = errors.New("progress day not found")
	// ErrDayAlreadyTracked 在同一目标同一日期重复打卡时返回
	ErrDayAlreadyTracked = errors.New("day already tracked")
	// ErrFutureMonth 在尝试给未来月份的日期打卡时返回
	ErrFutureMonth = errors.New("date is in a future month")
)

// flowerPaletteSize 是花朵贴图的固定数量，标识符为 "1".."14"
const flowerPaletteSize = 14

// flowerPicker 从调色板随机取花朵标识，且不与上一次重复
// HTTP 请求并发进入，last 需要加锁保护
type flowerPicker struct {
	mu   sync.Mutex
	last int
}

func (p *flowerPicker) next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := rand.IntN(flowerPaletteSize) + 1
	for n == p.last {
		n = rand.IntN(flowerPaletteSize) + 1
	}
	p.last = n

	return strconv.Itoa(n)
}

// ProgressService 负责打卡生命周期：未打卡 → 已完成 → 带里程碑，以及整体重置
// 完成打卡是单条原子插入，不存在先建后改的中间态

type ProgressService struct {
	db      *gorm.DB
	flowers flowerPicker
}

// MilestoneInput 定义保存里程碑时的输入对象
// Photo 为 nil 时保留已有照片不动，传空切片则清除
type MilestoneInput struct {
	Text  string
	Photo []byte
}

// NewProgressService 构造 ProgressService
func NewProgressService(gdb *gorm.DB) *ProgressService {
	return &ProgressService{db: gdb}
}

// CompleteDay 处理"点击未打卡日期"转换：校验后一次性写入已完成的打卡记录
// 未来月份的日期被锁定；当前月内的未来日子允许补打
func (s *ProgressService) CompleteDay(goalID uint, date time.Time) (*db.ProgressDay, error) {
	var goal db.Goal
	if err := s.db.First(&goal, goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("find goal: %w", err)
	}

	day := calendar.Day(date)
	if calendar.IsFutureMonth(day, time.Now()) {
		return nil, ErrFutureMonth
	}

	record := db.ProgressDay{
		UUID:       uuid.New().String(),
		GoalID:     goal.ID,
		Day:        day,
		Completed:  true,
		FlowerType: s.flowers.next(),
	}

	// 撞上唯一索引说明该日期已有记录，转换不重复触发
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "goal_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&record)
	if result.Error != nil {
		return nil, fmt.Errorf("complete day: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrDayAlreadyTracked
	}

	return &record, nil
}

// ListDays 返回目标的全部打卡记录，按日期升序
func (s *ProgressService) ListDays(goalID uint) ([]db.ProgressDay, error) {
	var days []db.ProgressDay
	if err := s.db.Where("goal_id = ?", goalID).Order("day ASC").Find(&days).Error; err != nil {
		return nil, fmt.Errorf("list progress days: %w", err)
	}
	return days, nil
}

// GetDay 根据 ID 获取打卡记录
func (s *ProgressService) GetDay(id uint) (*db.ProgressDay, error) {
	var day db.ProgressDay
	if err := s.db.First(&day, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressDayNotFound
		}
		return nil, fmt.Errorf("get progress day: %w", err)
	}
	return &day, nil
}

// DayForDate 查找目标在指定日期的打卡记录，不存在时返回 ErrProgressDayNotFound
func (s *ProgressService) DayForDate(goalID uint, date time.Time) (*db.ProgressDay, error) {
	var day db.ProgressDay
	if err := s.db.Where("goal_id = ? AND day = ?", goalID, calendar.Day(date)).First(&day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressDayNotFound
		}
		return nil, fmt.Errorf("find progress day: %w", err)
	}
	return &day, nil
}

// SaveMilestone 写入里程碑内容并强制标记完成
// 同一次保存内完成修复：带里程碑的记录不允许停留在未完成状态
func (s *ProgressService) SaveMilestone(dayID uint, input MilestoneInput) (*db.ProgressDay, error) {
	var day db.ProgressDay
	if err := s.db.First(&day, dayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressDayNotFound
		}
		return nil, fmt.Errorf("find progress day: %w", err)
	}

	day.MilestoneText = strings.TrimSpace(input.Text)
	if input.Photo != nil {
		if len(input.Photo) == 0 {
			day.MilestonePhoto = nil
		} else {
			day.MilestonePhoto = input.Photo
		}
	}
	day.Completed = true

	if err := s.db.Save(&day).Error; err != nil {
		return nil, fmt.Errorf("save milestone: %w", err)
	}
	return &day, nil
}

// DeleteMilestone 清空打卡日字段后整条删除，该日期回到未打卡状态
func (s *ProgressService) DeleteMilestone(dayID uint) error {
	var day db.ProgressDay
	if err := s.db.First(&day, dayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProgressDayNotFound
		}
		return fmt.Errorf("find progress day: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		day.MilestoneText = ""
		day.MilestonePhoto = nil
		day.Completed = false
		day.FlowerType = ""

		if err := tx.Save(&day).Error; err != nil {
			return fmt.Errorf("reset progress day: %w", err)
		}
		if err := tx.Unscoped().Delete(&db.ProgressDay{}, day.ID).Error; err != nil {
			return fmt.Errorf("delete progress day: %w", err)
		}
		return nil
	})
}
