package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bloomlog/internal/db"
	"github.com/bloomlog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type signupPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup 处理注册：创建登录凭据和带默认值的用户档案，并直接建立会话
func (a *API) Signup(c *gin.Context) {
	var payload signupPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || strings.TrimSpace(payload.Password) == "" {
		respondError(c, http.StatusBadRequest, "邮箱和密码不能为空")
		return
	}

	var existing db.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(c, http.StatusConflict, "该邮箱已注册")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusInternalServerError, "注册失败")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "注册失败")
		return
	}

	// 凭据与档案同一事务落库，档案创建失败不留下占住邮箱的孤儿凭据
	user := db.User{Email: email, Password: string(hashed)}
	var profile *db.UserProfile
	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		created, err := service.NewProfileService(tx).Create(email, payload.Name)
		if err != nil {
			return err
		}
		profile = created
		return nil
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "该邮箱已注册")
			return
		}
		respondError(c, http.StatusInternalServerError, "注册失败")
		return
	}

	if !a.establishSession(c, user) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileToPayload(*profile)})
}

// Login 处理登录请求
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var user db.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	if !a.establishSession(c, user) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"logged_in": true})
}

// Logout 处理登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

func (a *API) establishSession(c *gin.Context, user db.User) bool {
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("email", user.Email)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return false
	}
	return true
}

// AuthRequired 是一个简单的认证中间件，未登录的 API 请求返回 401
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}
