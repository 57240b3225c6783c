package controller

import (
	"net/http"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthController 处理注册与登录
type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// SignupRequest 注册请求模型
// swagger:model SignupRequest
type SignupRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	DailyHours float64 `json:"dailyHours"`
}

// LoginRequest 登录请求模型
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary 用户注册
// @Description 创建账号并返回用户信息
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body SignupRequest true "注册请求"
// @Success 201 {object} util.Response{data=map[string]interface{}} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已注册"
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var request SignupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:       request.Name,
		Email:      request.Email,
		Password:   request.Password,
		DailyHours: request.DailyHours,
	}

	if err := c.AuthService.Register(user); err != nil {
		if err == util.ErrEmailRegistered {
			util.Error(ctx, http.StatusConflict, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"dailyHours": user.DailyHours,
		},
	})
}

// Login godoc
// @Summary 用户登录
// @Description 校验凭证并签发访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "凭证无效"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(request.Email, request.Password)
	if err != nil {
		util.Error(ctx, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	util.Success(ctx, gin.H{"token": token})
}
