package calendar

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Weekday 采用周一=0、周日=6 的编号约定
// 与 Go 原生 time.Weekday（周日=0）不同，所有跨边界转换必须经过 FromTime
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String 返回英文星期名
func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Valid 判断编号是否落在 0..6 范围内
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// FromTime 将 time.Weekday（周日=0..周六=6）重映射为周一=0..周日=6
func FromTime(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// WeekdaySet 是星期集合的位掩码表示，直接作为整数列存入数据库
// 空集合表示"尚未选择"，上层创建目标时会拒绝空集
type WeekdaySet uint8

// NewWeekdaySet 由若干 Weekday 构造集合，越界值会被忽略
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// ParseWeekdaySet 将 0..6 的整数切片转换为集合，出现越界值时整体报错
func ParseWeekdaySet(indices []int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, idx := range indices {
		d := Weekday(idx)
		if !d.Valid() {
			return 0, fmt.Errorf("invalid weekday index %d", idx)
		}
		s = s.Add(d)
	}
	return s, nil
}

// Add 返回加入指定星期后的集合
func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<uint(d)
}

// Remove 返回移除指定星期后的集合
func (s WeekdaySet) Remove(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s &^ (1 << uint(d))
}

// Contains 判断集合是否包含指定星期
func (s WeekdaySet) Contains(d Weekday) bool {
	return d.Valid() && s&(1<<uint(d)) != 0
}

// IsEmpty 判断集合是否为空
func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Count 返回集合内星期数量
func (s WeekdaySet) Count() int {
	count := 0
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			count++
		}
	}
	return count
}

// Weekdays 按周一到周日的顺序展开集合
func (s WeekdaySet) Weekdays() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Indices 返回 0..6 的整数表示，供 JSON 序列化使用
func (s WeekdaySet) Indices() []int {
	days := s.Weekdays()
	indices := make([]int, 0, len(days))
	for _, d := range days {
		indices = append(indices, int(d))
	}
	return indices
}

// EveryDay 返回包含全部七天的集合
func EveryDay() WeekdaySet {
	return NewWeekdaySet(Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday)
}

// String 输出逗号分隔的星期名，便于日志排查
func (s WeekdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Weekdays() {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}

// Value 实现 driver.Valuer，集合以整数落库
func (s WeekdaySet) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan 实现 sql.Scanner
func (s *WeekdaySet) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}

	raw, ok := value.(int64)
	if !ok {
		return fmt.Errorf("unsupported weekday set column type %T", value)
	}
	if raw < 0 || raw > int64(EveryDay()) {
		return fmt.Errorf("weekday set value out of range: %d", raw)
	}

	*s = WeekdaySet(raw)
	return nil
}
