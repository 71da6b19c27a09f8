package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"
	"strings"
	"time"
)

// ExportData 导出所需的会话、评分和建议
type ExportData struct {
	Session         *model.AssessmentSession
	Responses       []model.Response
	Scores          *model.ScoreReport
	Recommendations *model.Recommendations
	GeneratedAt     time.Time
}

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportFilename <artifact>_results.<format>
func ExportFilename(artifact, format string) string {
	return fmt.Sprintf("%s_results.%s", artifact, strings.ToLower(format))
}

// ExportMimeType 未知格式一律 text/plain
func ExportMimeType(format string) string {
	switch strings.ToLower(format) {
	case util.FormatJSON:
		return util.MimeJSON
	case util.FormatCSV:
		return util.MimeCSV
	default:
		return util.MimePlain
	}
}

func (s *ExportService) Export(format string, data ExportData) (string, error) {
	switch strings.ToLower(format) {
	case util.FormatJSON:
		return s.ToJSON(data)
	case util.FormatCSV:
		return s.ToCSV(data)
	case util.FormatTXT:
		return s.ToText(data), nil
	default:
		return "", fmt.Errorf("%w: %s", util.ErrUnsupportedFormat, format)
	}
}

type exportInfo struct {
	Timestamp  string `json:"timestamp"`
	Tool       string `json:"tool"`
	FormatVers string `json:"format_version"`
}

type sessionExport struct {
	Organization string           `json:"organization"`
	Assessor     string           `json:"assessor"`
	Role         string           `json:"role"`
	StartTime    string           `json:"start_time"`
	Progress     float64          `json:"progress"`
	Responses    []model.Response `json:"responses"`
}

func (s *ExportService) ToJSON(data ExportData) (string, error) {
	payload := struct {
		ExportInfo      exportInfo             `json:"export_info"`
		SessionData     sessionExport          `json:"session_data"`
		Scores          *model.ScoreReport     `json:"scores"`
		Recommendations *model.Recommendations `json:"recommendations"`
	}{
		ExportInfo: exportInfo{
			Timestamp:  data.GeneratedAt.Format(time.RFC3339),
			Tool:       "Ransomware Resilience Assessment",
			FormatVers: "1.0",
		},
		Scores:          data.Scores,
		Recommendations: data.Recommendations,
	}
	if data.Session != nil {
		payload.SessionData = sessionExport{
			Organization: data.Session.Organization,
			Assessor:     data.Session.Assessor,
			Role:         data.Session.Role,
			StartTime:    data.Session.StartedAt.Format(time.RFC3339),
			Progress:     util.Round1(data.Session.Progress),
		}
	}
	payload.SessionData.Responses = data.Responses

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return string(b), nil
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

func (s *ExportService) ToCSV(data ExportData) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	org, assessor := "", ""
	if data.Session != nil {
		org, assessor = data.Session.Organization, data.Session.Assessor
	}

	rows := [][]string{
		{"Ransomware Resilience Assessment Report"},
		{"Generated:", data.GeneratedAt.Format(util.TimeFormat)},
		{"Organization:", orNA(org)},
		{"Assessor:", orNA(assessor)},
		{},
	}

	if data.Scores != nil {
		oa := data.Scores.OverallAssessment
		rows = append(rows,
			[]string{"Overall Results"},
			[]string{"Metric", "Score", "Level"},
			[]string{"Overall Readiness", util.FormatPercent(oa.PercentageScore), oa.ReadinessLevel},
			[]string{},
			[]string{"Stage Breakdown"},
			[]string{"Stage", "Score", "Status"},
		)
		for _, stage := range model.Stages {
			sp := data.Scores.StagePerformance[stage]
			rows = append(rows, []string{util.HumanizeID(stage.String()), util.FormatPercent(sp.Percentage), sp.Status})
		}
		rows = append(rows, []string{})
	}

	if data.Recommendations != nil {
		rows = append(rows,
			[]string{"Priority Recommendations"},
			[]string{"Priority", "Title", "Timeline", "Category"},
		)
		for _, a := range data.Recommendations.PriorityActions {
			rows = append(rows, []string{a.Priority, a.Title, a.Timeframe, a.Category})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return buf.String(), nil
}

func (s *ExportService) ToText(data ExportData) string {
	var b strings.Builder
	line := strings.Repeat("=", 60)

	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "RANSOMWARE RESILIENCE ASSESSMENT REPORT")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Generated: %s\n", data.GeneratedAt.Format(util.TimeFormat))
	if data.Session != nil {
		fmt.Fprintf(&b, "Organization: %s\n", orNA(data.Session.Organization))
		fmt.Fprintf(&b, "Assessor: %s\n", orNA(data.Session.Assessor))
		fmt.Fprintf(&b, "Role: %s\n", orNA(data.Session.Role))
	}
	fmt.Fprintln(&b)

	if data.Scores != nil {
		oa := data.Scores.OverallAssessment
		fmt.Fprintln(&b, "OVERALL RESULTS")
		fmt.Fprintf(&b, "  Readiness Score: %s\n", util.FormatPercent(oa.PercentageScore))
		fmt.Fprintf(&b, "  Readiness Level: %s\n", oa.ReadinessLevel)
		fmt.Fprintf(&b, "  Weighted Score: %d / %d\n\n", oa.TotalScore, oa.MaxPossibleScore)

		fmt.Fprintln(&b, "STAGE BREAKDOWN")
		for _, stage := range model.Stages {
			sp := data.Scores.StagePerformance[stage]
			fmt.Fprintf(&b, "  %-20s %7s  %d/%d answered  %s\n", util.HumanizeID(stage.String()),
				util.FormatPercent(sp.Percentage), sp.AnsweredQuestions, sp.TotalQuestions, sp.Status)
		}
		fmt.Fprintln(&b)

		if len(data.Scores.RiskAreas) > 0 {
			fmt.Fprintln(&b, "PRIORITY RISK AREAS")
			for _, a := range data.Scores.RiskAreas {
				fmt.Fprintf(&b, "  - %s: %s\n", a.Area, util.FormatPercent(a.Score))
			}
			fmt.Fprintln(&b)
		}
		if len(data.Scores.SummaryInsights) > 0 {
			fmt.Fprintln(&b, "KEY INSIGHTS")
			for _, in := range data.Scores.SummaryInsights {
				fmt.Fprintf(&b, "  * %s\n", in)
			}
			fmt.Fprintln(&b)
		}
	}

	if data.Recommendations != nil {
		fmt.Fprintln(&b, "RECOMMENDATIONS")
		if data.Recommendations.ExecutiveSummary != "" {
			fmt.Fprintf(&b, "  %s\n", data.Recommendations.ExecutiveSummary)
		}
		for i, a := range data.Recommendations.PriorityActions {
			fmt.Fprintf(&b, "  %d. [%s] %s - %s (%s)\n", i+1, a.Priority, a.Title, a.Description, a.Timeframe)
		}
	}
	return b.String()
}
