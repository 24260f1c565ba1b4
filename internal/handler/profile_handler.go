package handler

import (
	"errors"
	"net/http"

	"github.com/bloomlog/internal/db"
	"github.com/bloomlog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type profilePayload struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	ReminderEnabled bool   `json:"reminder_enabled"`
	ReminderTime    string `json:"reminder_time"`
	PlaySound       bool   `json:"play_sound"`
	SecondReminder  bool   `json:"second_reminder"`
}

// GetProfile 返回用户档案
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		handleProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileToPayload(*profile)})
}

// UpdateProfile 整体保存设置页字段
func (a *API) UpdateProfile(c *gin.Context) {
	var payload profilePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	profile, err := a.profiles.Update(service.ProfileInput{
		Email:           payload.Email,
		Name:            payload.Name,
		ReminderEnabled: payload.ReminderEnabled,
		ReminderTime:    payload.ReminderTime,
		PlaySound:       payload.PlaySound,
		SecondReminder:  payload.SecondReminder,
	})
	if err != nil {
		handleProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileToPayload(*profile)})
}

// UploadAvatar 上传头像，落库前缩放
func (a *API) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的头像")
		return
	}

	raw, err := readUploadedFile(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取头像失败")
		return
	}

	scaled, err := shrinkImage(raw, a.maxPhotoDim)
	if err != nil {
		respondError(c, http.StatusBadRequest, "头像格式不支持")
		return
	}

	profile, err := a.profiles.UpdateAvatar(scaled)
	if err != nil {
		handleProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileToPayload(*profile)})
}

// GetAvatar 返回头像字节
func (a *API) GetAvatar(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		handleProfileError(c, err)
		return
	}

	if len(profile.Avatar) == 0 {
		respondError(c, http.StatusNotFound, "尚未设置头像")
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(profile.Avatar), profile.Avatar)
}

// DeleteAccount 删除档案和登录凭据并结束会话
func (a *API) DeleteAccount(c *gin.Context) {
	if err := a.profiles.DeleteAccount(); err != nil {
		handleProfileError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func profileToPayload(profile db.UserProfile) gin.H {
	item := gin.H{
		"id":               profile.ID,
		"uuid":             profile.UUID,
		"email":            profile.Email,
		"name":             profile.Name,
		"plan":             profile.Plan,
		"reminder_enabled": profile.ReminderEnabled,
		"play_sound":       profile.PlaySound,
		"second_reminder":  profile.SecondReminder,
		"has_avatar":       len(profile.Avatar) > 0,
	}
	if profile.ReminderTime != "" {
		item["reminder_time"] = profile.ReminderTime
	}
	return item
}

func handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		respondError(c, http.StatusNotFound, "用户档案不存在")
	case errors.Is(err, service.ErrProfileInvalidInput):
		respondError(c, http.StatusBadRequest, "档案配置无效")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, "该邮箱已注册")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
