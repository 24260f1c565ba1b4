package db

import (
	"time"

	"github.com/bloomlog/internal/calendar"
	"gorm.io/gorm"
)

// Goal 定义了用户的习惯目标
// SelectedDays 以位掩码列存储强类型的星期集合，读写都经过 calendar.WeekdaySet 校验
// ReminderTime 仅在 ReminderEnabled 时保存 "15:04" 格式的时刻
// 单用户模型下按 created_at 倒序取第一条作为活跃目标
type Goal struct {
	gorm.Model
	UUID            string              `gorm:"uniqueIndex;size:36"`
	GoalText        string              `gorm:"not null"`
	SelectedDays    calendar.WeekdaySet `gorm:"type:integer"`
	ReminderEnabled bool
	ReminderTime    string
}

// ProgressDay 记录某个日历日的打卡状态与里程碑内容
// goal_id + day 采用唯一索引，"每个日期至多一条记录"由数据库而非调用方保证
// Day 统一规整为零点；MilestonePhoto 存缩放后的图片字节
type ProgressDay struct {
	gorm.Model
	UUID           string    `gorm:"uniqueIndex;size:36"`
	GoalID         uint      `gorm:"index;index:idx_progress_day_unique,unique"`
	Goal           Goal      `gorm:"constraint:OnDelete:CASCADE"`
	Day            time.Time `gorm:"index:idx_progress_day_unique,unique"`
	Completed      bool
	FlowerType     string
	MilestoneText  string
	MilestonePhoto []byte
}
