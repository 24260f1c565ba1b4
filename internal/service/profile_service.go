package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bloomlog/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound 在尚无用户档案时返回
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrProfileInvalidInput 在档案输入不合法时返回
	ErrProfileInvalidInput = errors.New("invalid profile input")
	// ErrEmailTaken 在注册邮箱已被占用时返回
	ErrEmailTaken = errors.New("email already registered")
)

// 注册时的档案默认值，与移动端首次落库行为一致
const (
	defaultPlan         = "free"
	defaultReminderTime = "09:00"
)

// ProfileService 负责用户档案的读写
// 单机安装预期只有一条档案，Get 取第一条

type ProfileService struct {
	db *gorm.DB
}

// ProfileInput 定义设置页可逐项修改的字段
type ProfileInput struct {
	Email           string
	Name            string
	ReminderEnabled bool
	ReminderTime    string
	PlaySound       bool
	SecondReminder  bool
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// Create 以注册默认值新建档案：free 计划、9 点提醒、开声音、无二次提醒
func (s *ProfileService) Create(email, name string) (*db.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrProfileInvalidInput)
	}

	var count int64
	if err := s.db.Model(&db.UserProfile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check profile email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	profile := db.UserProfile{
		UUID:            uuid.New().String(),
		Email:           email,
		Name:            strings.TrimSpace(name),
		Plan:            defaultPlan,
		ReminderEnabled: true,
		ReminderTime:    defaultReminderTime,
		PlaySound:       true,
		SecondReminder:  false,
	}

	if err := s.db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("create user profile: %w", err)
	}
	return &profile, nil
}

// Get 返回第一条档案，没有时返回 ErrProfileNotFound
func (s *ProfileService) Get() (*db.UserProfile, error) {
	var profile db.UserProfile
	if err := s.db.Order("id ASC").First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return &profile, nil
}

// Update 整体保存设置页字段，头像走单独的 UpdateAvatar
// 修改邮箱时登录凭据在同一事务内同步改名，DeleteAccount 按邮箱清理时两边保持一致
func (s *ProfileService) Update(input ProfileInput) (*db.UserProfile, error) {
	if input.ReminderEnabled {
		if _, err := time.Parse(reminderTimeLayout, strings.TrimSpace(input.ReminderTime)); err != nil {
			return nil, fmt.Errorf("%w: reminder time must be HH:MM", ErrProfileInvalidInput)
		}
	}

	profile, err := s.Get()
	if err != nil {
		return nil, err
	}

	previousEmail := profile.Email
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != previousEmail {
		var count int64
		if err := s.db.Model(&db.UserProfile{}).Where("email = ? AND id <> ?", email, profile.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check profile email: %w", err)
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		profile.Email = email
	}
	profile.Name = strings.TrimSpace(input.Name)
	profile.ReminderEnabled = input.ReminderEnabled
	if input.ReminderEnabled {
		profile.ReminderTime = strings.TrimSpace(input.ReminderTime)
	} else {
		profile.ReminderTime = ""
	}
	profile.PlaySound = input.PlaySound
	profile.SecondReminder = input.SecondReminder

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if profile.Email != previousEmail {
			if err := tx.Model(&db.User{}).Where("email = ?", previousEmail).Update("email", profile.Email).Error; err != nil {
				return fmt.Errorf("update login email: %w", err)
			}
		}
		if err := tx.Save(profile).Error; err != nil {
			return fmt.Errorf("update user profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateAvatar 保存头像字节，调用方负责缩放
func (s *ProfileService) UpdateAvatar(avatar []byte) (*db.UserProfile, error) {
	profile, err := s.Get()
	if err != nil {
		return nil, err
	}

	profile.Avatar = avatar
	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	return profile, nil
}

// DeleteAccount 删除档案与登录凭据；目标与打卡作为本地数据保留
func (s *ProfileService) DeleteAccount() error {
	profile, err := s.Get()
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("email = ?", profile.Email).Delete(&db.User{}).Error; err != nil {
			return fmt.Errorf("delete user credentials: %w", err)
		}
		if err := tx.Unscoped().Delete(&db.UserProfile{}, profile.ID).Error; err != nil {
			return fmt.Errorf("delete user profile: %w", err)
		}
		return nil
	})
}
