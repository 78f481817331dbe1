package handler

import (
	"net/http"
	"strings"
	"time"

	"lockbox/backend/common"
	"lockbox/backend/model"
	"lockbox/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequestPayload struct {
	Username    string `json:"username" validate:"required,min=3,max=20"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func Register(c *gin.Context) {
	var payload RegisterRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if err := validate.Struct(payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if model.IsUsernameAlreadyTaken(payload.Username) {
		common.RespErrorStr(c, http.StatusBadRequest, "username is already taken")
		return
	}
	if payload.Email != "" && model.IsEmailAlreadyTaken(payload.Email) {
		common.RespErrorStr(c, http.StatusBadRequest, "email is already taken")
		return
	}

	user := &model.User{
		Username:    payload.Username,
		Password:    payload.Password,
		DisplayName: payload.DisplayName,
		Email:       payload.Email,
		Role:        common.RoleCommonUser,
		Status:      common.UserStatusEnabled,
	}
	if err := user.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to create account", err)
		return
	}
	common.RespSuccess(c, user)
}

type LoginRequestPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(c *gin.Context) {
	var payload LoginRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	user := &model.User{
		Username: payload.Username,
		Password: payload.Password,
	}
	if err := user.ValidateAndFill(); err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}

	accessToken, err := service.GenerateToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate token", err)
		return
	}
	refreshToken, err := service.GenerateRefreshToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate refresh token", err)
		return
	}

	common.RespSuccess(c, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

type RefreshRequestPayload struct {
	RefreshToken string `json:"refresh_token"`
}

func RefreshToken(c *gin.Context) {
	var payload RefreshRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		common.RespError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	claims, err := service.ValidateRefreshToken(payload.RefreshToken)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	user, err := model.GetUserById(claims.UserID)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}

	accessToken, err := service.GenerateToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to generate token", err)
		return
	}
	common.RespSuccess(c, gin.H{"access_token": accessToken})
}

// Logout blacklists the presented access token until it would have expired
// anyway, and drops the cookie session (which also tears down every folder
// unlock tied to this viewing context).
func Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
		if common.RedisEnabled {
			if err := common.RedisSet("jwt:blacklist:"+parts[1], "1", 24*time.Hour); err != nil {
				common.SysError("failed to blacklist token: " + err.Error())
			}
		}
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		common.SysError("failed to clear session: " + err.Error())
	}

	common.RespSuccessStr(c, "logged out")
}

func GetSelf(c *gin.Context) {
	user, err := model.GetUserById(c.GetInt64("user_id"))
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	common.RespSuccess(c, user)
}
