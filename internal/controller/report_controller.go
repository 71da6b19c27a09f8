package controller

import (
	"fmt"
	"net/http"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/service"
	"resilience_assessment/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Service *service.SessionService
	Config  *config.Config
}

func NewReportController(svc *service.SessionService, cfg *config.Config) *ReportController {
	return &ReportController{Service: svc, Config: cfg}
}

// @Summary 评估结果
// @Description 评分、建议及报告用的结果摘要
// @Tags 报告
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ResultsPayload}
// @Failure 400 {object} util.Response
// @Router /results [get]
func (c *ReportController) Results(ctx *gin.Context) {
	results, err := c.Service.Results(ctx.Request.Context(), sessionID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, results)
}

// @Summary 导出结果
// @Description 支持 json、csv、txt
// @Tags 报告
// @Produce json
// @Security ApiKeyAuth
// @Param format path string true "导出格式"
// @Param download query bool false "以附件形式下载"
// @Success 200 {object} util.Response{data=model.ExportResult}
// @Failure 400 {object} util.Response
// @Router /export/{format} [get]
func (c *ReportController) Export(ctx *gin.Context) {
	format := strings.ToLower(ctx.Param("format"))

	data, err := c.Service.Export(ctx.Request.Context(), sessionID(ctx), format)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if ctx.Query("download") == "true" {
		filename := service.ExportFilename(c.Config.ExportArtifact(), format)
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Data(http.StatusOK, service.ExportMimeType(format), []byte(data))
		return
	}

	util.Success(ctx, model.ExportResult{Success: true, Data: data})
}

// @Summary PDF 报告
// @Tags 报告
// @Produce application/pdf
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Router /report/pdf [get]
func (c *ReportController) PDF(ctx *gin.Context) {
	data, err := c.Service.ReportPDF(ctx.Request.Context(), sessionID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	filename := fmt.Sprintf("%s_report.pdf", c.Config.ExportArtifact())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, util.MimePDF, data)
}

// @Summary 打印版报告
// @Tags 报告
// @Produce plain
// @Security ApiKeyAuth
// @Success 200 {string} string
// @Router /report/print [get]
func (c *ReportController) Print(ctx *gin.Context) {
	text, err := c.Service.ReportPrint(ctx.Request.Context(), sessionID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.String(http.StatusOK, text)
}
