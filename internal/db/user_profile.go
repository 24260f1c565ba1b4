package db

import "gorm.io/gorm"

// UserProfile 定义了用户档案，单机安装预期只有一条记录
// Plan 仅做展示用途的字符串（free 等），不接入订阅流程
// Avatar 存缩放后的头像字节；提醒相关字段只保存设置本身，推送调度不在本服务内
type UserProfile struct {
	gorm.Model
	UUID            string `gorm:"uniqueIndex;size:36"`
	Email           string `gorm:"uniqueIndex;not null"`
	Name            string
	Plan            string
	Avatar          []byte
	ReminderEnabled bool
	ReminderTime    string
	PlaySound       bool
	SecondReminder  bool
}
