package service

import (
	"resilience_assessment/internal/model"
	"strings"
)

type actionTemplate struct {
	title    string
	urgent   string
	improve  string
	category string
}

// 针对高风险题目的整改建议
var actionCatalogue = map[string]actionTemplate{
	"backup_strategy": {
		title: "Enhance Backup Strategy", category: "Backup",
		urgent:  "Implement automated daily backups with a 3-2-1 strategy",
		improve: "Enhance backup testing and validation procedures",
	},
	"backup_isolation": {
		title: "Isolate Backups", category: "Backup",
		urgent:  "Move at least one backup copy to an air-gapped or immutable store",
		improve: "Extend backup isolation to all critical systems",
	},
	"patch_management": {
		title: "Formalize Patch Management", category: "Prevention",
		urgent:  "Establish a patching cadence for internet-facing systems",
		improve: "Automate patch deployment with testing and rollback",
	},
	"network_segmentation": {
		title: "Segment the Network", category: "Network",
		urgent:  "Implement basic network segmentation and access controls",
		improve: "Implement micro-segmentation for critical assets",
	},
	"email_security": {
		title: "Harden Email Security", category: "Prevention",
		urgent:  "Deploy anti-malware and link protection on the mail gateway",
		improve: "Add sandboxing and advanced threat protection for attachments",
	},
	"endpoint_protection": {
		title: "Upgrade Endpoint Protection", category: "Prevention",
		urgent:  "Deploy endpoint protection on all systems",
		improve: "Adopt EDR with behavioral detection",
	},
	"user_training": {
		title: "Run Security Awareness Training", category: "People",
		urgent:  "Start a formal security awareness program",
		improve: "Add regular phishing simulations to training",
	},
	"monitoring_logging": {
		title: "Centralize Monitoring", category: "Detection",
		urgent:  "Centralize logs from critical systems with alerting",
		improve: "Move to real-time SIEM monitoring",
	},
	"incident_response_plan": {
		title: "Improve Incident Response", category: "Response",
		urgent:  "Create documented incident response procedures",
		improve: "Conduct tabletop exercises and plan testing",
	},
	"network_isolation": {
		title: "Prepare Network Isolation", category: "Response",
		urgent:  "Document manual procedures to isolate infected hosts",
		improve: "Automate isolation through orchestrated response",
	},
	"communication_plan": {
		title: "Define Communication Plan", category: "Response",
		urgent:  "Define who is notified and how during a ransomware incident",
		improve: "Prepare stakeholder matrix and message templates",
	},
	"recovery_procedures": {
		title: "Document Recovery Procedures", category: "Recovery",
		urgent:  "Write and test data recovery procedures",
		improve: "Define and validate RTOs and RPOs",
	},
	"business_continuity": {
		title: "Build Business Continuity Plan", category: "Recovery",
		urgent:  "Create a business continuity plan for critical services",
		improve: "Test the business continuity plan regularly",
	},
	"forensic_capabilities": {
		title: "Arrange Forensic Support", category: "Recovery",
		urgent:  "Establish an external forensic support arrangement",
		improve: "Build in-house forensic readiness",
	},
	"lessons_learned": {
		title: "Institutionalize Lessons Learned", category: "Recovery",
		urgent:  "Introduce post-incident reviews",
		improve: "Track improvement actions from post-incident reviews",
	},
}

var defaultActions = []model.PriorityAction{
	{Title: "Enhance Backup Strategy", Description: "Implement comprehensive backup and recovery procedures", Priority: "High", Timeframe: "30 days", Category: "Backup"},
	{Title: "Strengthen Access Controls", Description: "Deploy multi-factor authentication across all systems", Priority: "High", Timeframe: "60 days", Category: "Prevention"},
	{Title: "Improve Incident Response", Description: "Develop and test incident response procedures", Priority: "Medium", Timeframe: "90 days", Category: "Response"},
}

var levelGuidance = map[string][]string{
	"critical": {
		"Implement basic data backup procedures immediately",
		"Establish incident response team and basic procedures",
		"Deploy basic endpoint protection on all systems",
		"Create network inventory and implement basic segmentation",
	},
	"poor": {
		"Review and enhance existing backup strategies",
		"Develop comprehensive incident response plan",
		"Implement employee security awareness training",
	},
	"moderate": {
		"Test and validate backup and recovery procedures",
		"Implement advanced threat detection capabilities",
		"Conduct regular security assessments",
	},
	"good": {
		"Implement zero-trust architecture principles",
		"Deploy advanced threat hunting capabilities",
		"Enhance automation in incident response",
	},
	"excellent": {
		"Continue current excellent practices",
		"Share best practices with industry peers",
		"Consider becoming a cybersecurity mentor organization",
	},
}

var executiveSummaries = map[string]string{
	"critical":  "Your organization lacks basic ransomware defenses and should act on the priority actions immediately.",
	"poor":      "Your organization has significant gaps in ransomware preparedness that need addressing in the short term.",
	"moderate":  "Your organization shows a developing security posture with room for improvement in backup and incident response capabilities.",
	"good":      "Your organization shows good security practices with room for improvement in advanced detection and automation.",
	"excellent": "Your organization demonstrates outstanding ransomware resilience; focus on maintaining and sharing practices.",
}

// RecommendationService 根据评分结果生成整改建议
type RecommendationService struct{}

func NewRecommendationService() *RecommendationService {
	return &RecommendationService{}
}

func (s *RecommendationService) Generate(report *model.ScoreReport) *model.Recommendations {
	rec := &model.Recommendations{
		FrameworkAlignment: map[string]string{
			"nist":     "Recommendations align with NIST Cybersecurity Framework",
			"iso27001": "Supports ISO 27001 compliance requirements",
		},
	}

	level := ""
	if report != nil {
		level = strings.ToLower(report.OverallAssessment.ReadinessLevel)
		for i, risk := range report.RiskAreas {
			if i >= 3 {
				break
			}
			tpl, ok := actionCatalogue[risk.QuestionID]
			if !ok {
				continue
			}
			action := model.PriorityAction{Title: tpl.title, Category: tpl.category}
			if risk.Score < 25 {
				action.Description = tpl.urgent
				action.Priority = "High"
				action.Timeframe = "30 days"
			} else {
				action.Description = tpl.improve
				action.Priority = "Medium"
				action.Timeframe = "90 days"
			}
			rec.PriorityActions = append(rec.PriorityActions, action)
		}
	}

	if len(rec.PriorityActions) == 0 {
		rec.PriorityActions = append(rec.PriorityActions, defaultActions...)
	}

	rec.Detailed = append(rec.Detailed, levelGuidance[level]...)
	rec.ExecutiveSummary = executiveSummaries[level]
	if rec.ExecutiveSummary == "" {
		rec.ExecutiveSummary = executiveSummaries["moderate"]
	}
	return rec
}
