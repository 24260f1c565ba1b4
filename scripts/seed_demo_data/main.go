package main

import (
	"fmt"
	"log"
	"time"

	"github.com/bloomlog/internal/calendar"
	"github.com/bloomlog/internal/config"
	"github.com/bloomlog/internal/db"
	"github.com/bloomlog/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器：一个账号、一个工作日目标和最近一周的打卡
func main() {
	cfg := config.Load()
	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	var count int64
	gdb.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("账号已存在，跳过生成")
		return
	}

	fmt.Println("开始生成演示数据...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}
	user := db.User{
		Email:    "demo@example.com",
		Password: string(hashedPassword),
	}
	if err := gdb.Create(&user).Error; err != nil {
		log.Fatal("创建账号失败:", err)
	}

	profiles := service.NewProfileService(gdb)
	if _, err := profiles.Create("demo@example.com", "Demo"); err != nil {
		log.Fatal("创建档案失败:", err)
	}

	goals := service.NewGoalService(gdb)
	goal, err := goals.Create(service.GoalInput{
		GoalText:        "每天阅读 20 分钟",
		SelectedDays:    calendar.EveryDay(),
		ReminderEnabled: true,
		ReminderTime:    "21:00",
	})
	if err != nil {
		log.Fatal("创建目标失败:", err)
	}

	progress := service.NewProgressService(gdb)
	for offset := 7; offset >= 1; offset-- {
		date := time.Now().AddDate(0, 0, -offset)
		if _, err := progress.CompleteDay(goal.ID, date); err != nil {
			log.Fatal("写入打卡失败:", err)
		}
	}

	fmt.Println("演示数据生成完成！")
	fmt.Println("账号: demo@example.com (密码: demo123)")
	fmt.Println("目标: 每天阅读 20 分钟，最近 7 天已打卡")
}
