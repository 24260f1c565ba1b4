package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bloomlog/internal/calendar"
	"github.com/bloomlog/internal/db"
	"github.com/bloomlog/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	dateFormat  = "2006-01-02"
	monthFormat = "2006-01"

	// 移动端日历向前滚动 60 个月，足够当成"无限"
	defaultMonthsForward = 60
)

type completeDayPayload struct {
	Date string `json:"date"` // 2006-01-02
}

type milestonePayload struct {
	Text string `json:"text"`
}

// GetCalendar 返回活跃目标的月份序列：从首个目标创建月到当前月加 60 个未来月
func (a *API) GetCalendar(c *gin.Context) {
	goal, err := a.goals.Active()
	if err != nil {
		handleGoalError(c, err)
		return
	}

	firstCreated, err := a.goals.FirstCreatedAt()
	if err != nil {
		handleGoalError(c, err)
		return
	}

	now := time.Now()
	months := calendar.MonthsToDisplay(firstCreated, now, defaultMonthsForward)

	items := make([]gin.H, 0, len(months))
	for _, month := range months {
		items = append(items, gin.H{
			"month":  month.Format(monthFormat),
			"locked": calendar.IsFutureMonth(month, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"goal":   goalToPayload(*goal),
		"months": items,
	})
}

// GetCalendarMonth 返回指定月份的可打卡日期和已有打卡记录
func (a *API) GetCalendarMonth(c *gin.Context) {
	month, err := time.ParseInLocation(monthFormat, c.Param("month"), time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的月份，应为 YYYY-MM")
		return
	}

	goal, err := a.goals.Active()
	if err != nil {
		handleGoalError(c, err)
		return
	}

	dates := calendar.DatesForMonth(month, goal.SelectedDays)

	days, err := a.progress.ListDays(goal.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取打卡记录失败")
		return
	}

	dayByDate := make(map[string]db.ProgressDay, len(days))
	for _, day := range days {
		dayByDate[day.Day.Format(dateFormat)] = day
	}

	items := make([]gin.H, 0, len(dates))
	for _, date := range dates {
		item := gin.H{
			"date":    date.Format(dateFormat),
			"weekday": int(calendar.FromTime(date)),
		}
		if day, exists := dayByDate[date.Format(dateFormat)]; exists {
			item["progress"] = progressDayToPayload(day)
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"month":  month.Format(monthFormat),
		"locked": calendar.IsFutureMonth(month, time.Now()),
		"days":   items,
	})
}

// CompleteDay 处理"点击日期"：对未打卡日期一次性写入完成记录并返回分配的花朵
func (a *API) CompleteDay(c *gin.Context) {
	var payload completeDayPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	date, err := time.ParseInLocation(dateFormat, payload.Date, time.Local)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡日期")
		return
	}

	goal, err := a.goals.Active()
	if err != nil {
		handleGoalError(c, err)
		return
	}

	day, err := a.progress.CompleteDay(goal.ID, date)
	if err != nil {
		handleProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"day": progressDayToPayload(*day)})
}

// GetDay 返回打卡日详情，里程碑文字附带渲染后的安全 HTML
func (a *API) GetDay(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡记录ID")
		return
	}

	day, err := a.progress.GetDay(id)
	if err != nil {
		handleProgressError(c, err)
		return
	}

	payload := progressDayToPayload(*day)
	if day.MilestoneText != "" {
		html, err := renderMarkdown(day.MilestoneText)
		if err == nil {
			payload["milestone_html"] = string(html)
		}
	}
	if len(day.MilestonePhoto) > 0 {
		payload["has_photo"] = true
	}

	c.JSON(http.StatusOK, gin.H{"day": payload})
}

// GetDayPhoto 返回里程碑照片字节
func (a *API) GetDayPhoto(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡记录ID")
		return
	}

	day, err := a.progress.GetDay(id)
	if err != nil {
		handleProgressError(c, err)
		return
	}

	if len(day.MilestonePhoto) == 0 {
		respondError(c, http.StatusNotFound, "该打卡日没有照片")
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(day.MilestonePhoto), day.MilestonePhoto)
}

// SaveMilestone 保存里程碑：JSON 只带文字，multipart 可同时带照片
// 照片在落库前缩放到配置的边长以内
func (a *API) SaveMilestone(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡记录ID")
		return
	}

	input := service.MilestoneInput{}

	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		var payload milestonePayload
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
		input.Text = payload.Text
	} else {
		input.Text = c.PostForm("text")

		if file, err := c.FormFile("photo"); err == nil {
			raw, err := readUploadedFile(file)
			if err != nil {
				respondError(c, http.StatusBadRequest, "读取照片失败")
				return
			}
			scaled, err := shrinkImage(raw, a.maxPhotoDim)
			if err != nil {
				respondError(c, http.StatusBadRequest, "照片格式不支持")
				return
			}
			input.Photo = scaled
		} else if c.PostForm("remove_photo") == "true" {
			input.Photo = []byte{}
		}
	}

	day, err := a.progress.SaveMilestone(id, input)
	if err != nil {
		handleProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"day": progressDayToPayload(*day)})
}

// DeleteMilestone 将打卡日整体重置为未打卡状态
func (a *API) DeleteMilestone(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡记录ID")
		return
	}

	if err := a.progress.DeleteMilestone(id); err != nil {
		handleProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func progressDayToPayload(day db.ProgressDay) gin.H {
	item := gin.H{
		"id":        day.ID,
		"uuid":      day.UUID,
		"goal_id":   day.GoalID,
		"date":      day.Day.Format(dateFormat),
		"completed": day.Completed,
	}
	if day.FlowerType != "" {
		item["flower_type"] = day.FlowerType
	}
	if day.MilestoneText != "" {
		item["milestone_text"] = day.MilestoneText
	}
	return item
}

func handleProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		respondError(c, http.StatusNotFound, "目标不存在")
	case errors.Is(err, service.ErrProgressDayNotFound):
		respondError(c, http.StatusNotFound, "打卡记录不存在")
	case errors.Is(err, service.ErrDayAlreadyTracked):
		respondError(c, http.StatusConflict, "该日期已打卡")
	case errors.Is(err, service.ErrFutureMonth):
		respondError(c, http.StatusUnprocessableEntity, "未来月份的日期不可打卡")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
