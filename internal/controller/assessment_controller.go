package controller

import (
	"net/http"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/service"
	"resilience_assessment/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.SessionService
	Def     *questionnaire.Definition
	Config  *config.Config
}

func NewAssessmentController(svc *service.SessionService, def *questionnaire.Definition, cfg *config.Config) *AssessmentController {
	return &AssessmentController{Service: svc, Def: def, Config: cfg}
}

// @Summary 开始评估
// @Description 创建评估会话并返回会话令牌（同时写入 cookie）
// @Tags 评估
// @Accept json
// @Produce json
// @Param body body model.StartRequest true "组织、评估人、角色"
// @Success 201 {object} util.Response{data=model.StartResult}
// @Failure 400 {object} util.Response
// @Router /assessments/start [post]
func (c *AssessmentController) Start(ctx *gin.Context) {
	var req model.StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ErrMissingFields.Error())
		return
	}

	session, token, err := c.Service.Start(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	maxAge := int(c.Config.JWT.ExpireTime.Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(util.SessionCookie, token, maxAge, "/", "", c.Config.Server.Mode == "release", true)

	util.Created(ctx, model.StartResult{
		Success:   true,
		SessionID: session.ID,
		Token:     token,
	})
}

// @Summary 获取问卷
// @Description 返回三个阶段的全部题目
// @Tags 评估
// @Produce json
// @Success 200 {object} util.Response
// @Router /questions [get]
func (c *AssessmentController) Questions(ctx *gin.Context) {
	util.Success(ctx, c.Def.Sections)
}

// @Summary 保存作答
// @Description 单题自动保存，同一题目后写覆盖
// @Tags 评估
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.SaveResponseRequest true "作答内容"
// @Success 200 {object} util.Response{data=model.SaveResult}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /save-response [post]
func (c *AssessmentController) SaveResponse(ctx *gin.Context) {
	var req model.SaveResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ErrMissingData.Error())
		return
	}

	result, err := c.Service.SaveResponse(ctx.Request.Context(), sessionID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 会话状态
// @Description 无会话时 session_active=false
// @Tags 评估
// @Produce json
// @Success 200 {object} util.Response{data=model.SessionStatus}
// @Router /session-status [get]
func (c *AssessmentController) SessionStatus(ctx *gin.Context) {
	status, err := c.Service.Status(ctx.Request.Context(), sessionID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// @Summary 已保存的作答
// @Description 续答时恢复客户端本地状态
// @Tags 评估
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Response}
// @Failure 401 {object} util.Response
// @Router /responses [get]
func (c *AssessmentController) Responses(ctx *gin.Context) {
	responses, err := c.Service.Responses(ctx.Request.Context(), sessionID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, responses)
}

// @Summary 框架信息
// @Description MITRE ATT&CK 技术与对齐的安全框架
// @Tags 评估
// @Produce json
// @Success 200 {object} util.Response
// @Router /framework-info [get]
func (c *AssessmentController) FrameworkInfo(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"mitre_techniques": questionnaire.MitreTechniques,
		"frameworks":       questionnaire.Frameworks,
	})
}
