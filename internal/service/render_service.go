package service

import (
	"bytes"
	"fmt"
	"io"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const reportTitle = "Ransomware Resilience Assessment Report"

// RenderService 把 ReportModel 渲染成 PDF 或打印版文本，只做展示
type RenderService struct {
	now func() time.Time
}

func NewRenderService() *RenderService {
	return &RenderService{now: time.Now}
}

// sanitize 核心字体只支持单字节编码，BMP 以外的字符替换为 ?
func sanitize(s string) string {
	var out []rune
	for _, r := range s {
		if r > 0xFFFF {
			out = append(out, '?')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

func (s *RenderService) RenderPDF(w io.Writer, report model.ReportModel) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(v string) string { return tr(sanitize(v)) }

	pdf.SetTitle(reportTitle, true)
	pdf.SetAuthor(report.Assessor, true)
	pdf.AddPage()

	heading := func(title string, r, g, b int) {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(0, 10, text(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(40, 116, 166)
	pdf.CellFormat(0, 12, reportTitle, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, text("Organization: "+report.Organization), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, text("Assessed by: "+report.Assessor), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Report Date: "+s.now().Format(util.DateFormat), "", 1, "L", false, 0, "")

	heading("Overall Assessment Results", 40, 116, 166)
	pdf.CellFormat(0, 8, text("Overall Readiness Score: "+report.OverallScore), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, text("Readiness Level: "+report.ReadinessLevel), "", 1, "L", false, 0, "")

	if len(report.Stages) > 0 {
		heading("Stage Performance Breakdown", 40, 116, 166)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 238, 245)
		widths := []float64{70, 30, 40, 50}
		for i, h := range []string{"Stage", "Score", "Answered", "Status"} {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, st := range report.Stages {
			pdf.CellFormat(widths[0], 7, text(st.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 7, util.FormatPercent(st.Score), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d/%d", st.QuestionsAnswered, st.TotalQuestions), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 7, text(st.Status), "1", 1, "L", false, 0, "")
		}
	}

	areas := func(title string, list []model.AreaScore, r, g, b int) {
		if len(list) == 0 {
			return
		}
		heading(title, r, g, b)
		for _, a := range list {
			pdf.CellFormat(0, 7, text(fmt.Sprintf("- %s: %s", a.Name, util.FormatPercent(a.Score))), "", 1, "L", false, 0, "")
		}
	}
	areas("Priority Risk Areas", report.RiskAreas, 220, 53, 69)
	areas("Security Strengths", report.StrengthAreas, 25, 135, 84)

	if len(report.Insights) > 0 {
		heading("Key Insights", 40, 116, 166)
		for _, in := range report.Insights {
			pdf.MultiCell(0, 6, text("- "+in), "", "L", false)
		}
	}

	return pdf.Output(w)
}

func (s *RenderService) RenderPDFBytes(report model.ReportModel) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.RenderPDF(&buf, report); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPrint 打印版排版
func (s *RenderService) RenderPrint(report model.ReportModel) string {
	var b strings.Builder
	rule := strings.Repeat("-", 64)

	fmt.Fprintln(&b, reportTitle)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Organization: %s\n", report.Organization)
	fmt.Fprintf(&b, "Assessed by:  %s\n", report.Assessor)
	fmt.Fprintf(&b, "Report Date:  %s\n\n", s.now().Format(util.DateFormat))

	fmt.Fprintf(&b, "Overall Readiness Score: %s\n", report.OverallScore)
	fmt.Fprintf(&b, "Readiness Level:         %s\n\n", report.ReadinessLevel)

	if len(report.Stages) > 0 {
		fmt.Fprintln(&b, "Stage Performance")
		fmt.Fprintln(&b, rule)
		for _, st := range report.Stages {
			fmt.Fprintf(&b, "%-30s %7s  %d/%d  %s\n", st.Name, util.FormatPercent(st.Score),
				st.QuestionsAnswered, st.TotalQuestions, st.Status)
		}
		fmt.Fprintln(&b)
	}

	for _, sec := range []struct {
		title string
		list  []model.AreaScore
	}{
		{"Priority Risk Areas", report.RiskAreas},
		{"Security Strengths", report.StrengthAreas},
	} {
		if len(sec.list) == 0 {
			continue
		}
		fmt.Fprintln(&b, sec.title)
		fmt.Fprintln(&b, rule)
		for _, a := range sec.list {
			fmt.Fprintf(&b, "  - %s: %s\n", a.Name, util.FormatPercent(a.Score))
		}
		fmt.Fprintln(&b)
	}

	if len(report.Insights) > 0 {
		fmt.Fprintln(&b, "Key Insights")
		fmt.Fprintln(&b, rule)
		for _, in := range report.Insights {
			fmt.Fprintf(&b, "  * %s\n", in)
		}
	}
	return b.String()
}
