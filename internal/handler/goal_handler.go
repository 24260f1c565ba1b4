package handler

import (
	"errors"
	"net/http"

	"github.com/bloomlog/internal/calendar"
	"github.com/bloomlog/internal/db"
	"github.com/bloomlog/internal/service"
	"github.com/gin-gonic/gin"
)

type goalPayload struct {
	GoalText        string `json:"goal_text"`
	SelectedDays    []int  `json:"selected_days"`
	ReminderEnabled bool   `json:"reminder_enabled"`
	ReminderTime    string `json:"reminder_time"`
}

// ListGoals 返回全部目标，最新的在最前，调用方把第一条当作活跃目标
func (a *API) ListGoals(c *gin.Context) {
	goals, err := a.goals.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取目标列表失败")
		return
	}

	items := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		items = append(items, goalToPayload(goal))
	}

	c.JSON(http.StatusOK, gin.H{"goals": items})
}

// CreateGoal 创建目标
func (a *API) CreateGoal(c *gin.Context) {
	input, ok := a.parseGoalInput(c)
	if !ok {
		return
	}

	goal, err := a.goals.Create(input)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// UpdateGoal 更新目标，历史打卡保持不动
func (a *API) UpdateGoal(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	input, ok := a.parseGoalInput(c)
	if !ok {
		return
	}

	goal, err := a.goals.Update(id, input)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// DeleteGoal 删除目标并级联清除打卡记录
func (a *API) DeleteGoal(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	if err := a.goals.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除目标失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (a *API) parseGoalInput(c *gin.Context) (service.GoalInput, bool) {
	var payload goalPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return service.GoalInput{}, false
	}

	selectedDays, err := calendar.ParseWeekdaySet(payload.SelectedDays)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的星期选择")
		return service.GoalInput{}, false
	}

	return service.GoalInput{
		GoalText:        payload.GoalText,
		SelectedDays:    selectedDays,
		ReminderEnabled: payload.ReminderEnabled,
		ReminderTime:    payload.ReminderTime,
	}, true
}

func goalToPayload(goal db.Goal) gin.H {
	item := gin.H{
		"id":               goal.ID,
		"uuid":             goal.UUID,
		"goal_text":        goal.GoalText,
		"selected_days":    goal.SelectedDays.Indices(),
		"reminder_enabled": goal.ReminderEnabled,
		"created_at":       goal.CreatedAt.Format(dateFormat),
	}
	if goal.ReminderTime != "" {
		item["reminder_time"] = goal.ReminderTime
	}
	return item
}

func handleGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		respondError(c, http.StatusNotFound, "目标不存在")
	case errors.Is(err, service.ErrGoalInvalidInput):
		respondError(c, http.StatusBadRequest, "目标配置无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
