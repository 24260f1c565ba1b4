package db

import "gorm.io/gorm"

// User 定义了登录凭据模型，邮箱即用户名
// Password 存 bcrypt 哈希，档案数据放在 UserProfile
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
}
