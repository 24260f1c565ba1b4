package calendar

import "time"

// Day 将任意时间规整为当天零点，日期相等性比较都基于该形式
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth 返回时间所在月份的第一天零点
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameDay 判断两个时间是否落在同一个日历日
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// DatesForMonth 返回指定月份内命中星期集合的全部日期，按日升序
// 空集合返回空切片：是否默认"全部天"由调用方显式决定
func DatesForMonth(month time.Time, days WeekdaySet) []time.Time {
	result := []time.Time{}
	if days.IsEmpty() {
		return result
	}

	start := StartOfMonth(month)
	// 下月第一天回退一天即本月天数，闰年和大小月交给标准库处理
	daysInMonth := start.AddDate(0, 1, -1).Day()

	for day := 0; day < daysInMonth; day++ {
		date := start.AddDate(0, 0, day)
		if days.Contains(FromTime(date)) {
			result = append(result, date)
		}
	}

	return result
}

// MonthsToDisplay 生成从首个目标创建月到当前月、再加 monthsForward 个未来月的月份序列
// 每个元素为当月第一天，升序；firstGoalCreatedAt 为零值时返回空
func MonthsToDisplay(firstGoalCreatedAt, today time.Time, monthsForward int) []time.Time {
	if firstGoalCreatedAt.IsZero() {
		return []time.Time{}
	}

	first := StartOfMonth(firstGoalCreatedAt)
	current := StartOfMonth(today)

	monthsBack := (current.Year()-first.Year())*12 + int(current.Month()) - int(first.Month())
	if monthsBack < 0 {
		monthsBack = 0
	}
	if monthsForward < 0 {
		monthsForward = 0
	}

	months := make([]time.Time, 0, monthsBack+monthsForward+1)
	for offset := -monthsBack; offset <= monthsForward; offset++ {
		months = append(months, current.AddDate(0, offset, 0))
	}

	return months
}

// IsFutureMonth 判断日期是否落在当前月之后的月份
// 仅锁定未来月份：当前月内的未来日子依然可交互
func IsFutureMonth(date, now time.Time) bool {
	if date.Year() != now.Year() {
		return date.Year() > now.Year()
	}
	return date.Month() > now.Month()
}
