package questionnaire

import "resilience_assessment/internal/model"

func opts(texts ...string) []Option {
	out := make([]Option, len(texts))
	for i, t := range texts {
		out[i] = Option{Value: MaxOptionValue - i, Text: t}
	}
	return out
}

// Default 内置勒索软件韧性问卷（基于 MITRE ATT&CK）
func Default() *Definition {
	return &Definition{Sections: []Section{
		{
			Stage:       model.StagePreInfection,
			Title:       "Pre-Infection Preparedness",
			Description: "These questions assess your organization's preventive measures against ransomware attacks.",
			Questions: []Question{
				{
					ID: "backup_strategy", Prompt: "How frequently does your organization perform data backups?",
					Type: "multiple_choice", Weight: 10, MitreTechnique: "T1490",
					Options: opts("Daily automated backups with testing", "Daily automated backups", "Weekly backups",
						"Monthly or irregular backups", "No regular backup strategy"),
				},
				{
					ID: "backup_isolation", Prompt: "Are your backups stored in an isolated, air-gapped environment?",
					Type: "multiple_choice", Weight: 9, MitreTechnique: "T1490",
					Options: opts("Yes, completely air-gapped with multiple copies", "Yes, air-gapped",
						"Partially isolated (network segmented)", "Limited isolation", "No isolation - connected to main network"),
				},
				{
					ID: "patch_management", Prompt: "How does your organization handle software updates and patches?",
					Type: "multiple_choice", Weight: 8, MitreTechnique: "T1190",
					Options: opts("Automated patching with testing and rollback capabilities", "Regular automated patching",
						"Monthly manual patching", "Irregular patching", "No formal patch management"),
				},
				{
					ID: "network_segmentation", Prompt: "Is your network properly segmented to limit lateral movement?",
					Type: "multiple_choice", Weight: 8, MitreTechnique: "T1021",
					Options: opts("Full micro-segmentation with zero-trust architecture", "Well-defined network segments with access controls",
						"Basic network segmentation", "Limited segmentation", "Flat network with no segmentation"),
				},
				{
					ID: "email_security", Prompt: "What email security measures are in place?",
					Type: "multiple_choice", Weight: 7, MitreTechnique: "T1566",
					Options: opts("Advanced threat protection, sandboxing, and user training", "Anti-spam and anti-malware with link protection",
						"Basic anti-spam and anti-malware", "Limited email filtering", "No email security measures"),
				},
				{
					ID: "endpoint_protection", Prompt: "What endpoint protection solutions are deployed?",
					Type: "multiple_choice", Weight: 8, MitreTechnique: "T1055",
					Options: opts("EDR/XDR with behavioral analysis and threat hunting", "Next-generation antivirus with behavioral detection",
						"Traditional antivirus with real-time scanning", "Basic antivirus", "No endpoint protection"),
				},
				{
					ID: "user_training", Prompt: "How often do employees receive cybersecurity awareness training?",
					Type: "multiple_choice", Weight: 7, MitreTechnique: "T1566",
					Options: opts("Quarterly training with phishing simulations", "Bi-annual training with simulations",
						"Annual training", "Irregular training", "No formal training program"),
				},
			},
		},
		{
			Stage:       model.StageActiveInfection,
			Title:       "Active Infection Response",
			Description: "These questions assess your ability to detect and contain an attack in progress.",
			Questions: []Question{
				{
					ID: "monitoring_logging", Prompt: "What monitoring and logging capabilities are in place?",
					Type: "multiple_choice", Weight: 9, MitreTechnique: "T1083",
					Options: opts("SIEM with real-time alerting and 24/7 monitoring", "Centralized logging with automated alerting",
						"Basic logging and monitoring", "Limited logging", "No centralized monitoring"),
				},
				{
					ID: "incident_response_plan", Prompt: "Does your organization have a documented incident response plan?",
					Type: "multiple_choice", Weight: 10, MitreTechnique: "T1486",
					Options: opts("Comprehensive plan with regular testing and updates", "Documented plan with annual testing",
						"Basic documented plan", "Informal response procedures", "No incident response plan"),
				},
				{
					ID: "network_isolation", Prompt: "Can you quickly isolate infected systems from the network?",
					Type: "multiple_choice", Weight: 8, MitreTechnique: "T1021",
					Options: opts("Automated isolation with orchestrated response", "Remote isolation capabilities",
						"Manual isolation procedures", "Limited isolation capabilities", "No isolation procedures"),
				},
				{
					ID: "communication_plan", Prompt: "Is there a communication plan for ransomware incidents?",
					Type: "multiple_choice", Weight: 6, MitreTechnique: "T1486",
					Options: opts("Comprehensive plan with stakeholder matrix and templates", "Documented communication procedures",
						"Basic communication plan", "Informal communication procedures", "No communication plan"),
				},
			},
		},
		{
			Stage:       model.StagePostInfection,
			Title:       "Post-Infection Recovery",
			Description: "These questions assess your ability to recover and learn from an incident.",
			Questions: []Question{
				{
					ID: "recovery_procedures", Prompt: "How comprehensive are your data recovery procedures?",
					Type: "multiple_choice", Weight: 10, MitreTechnique: "T1490",
					Options: opts("Tested procedures with defined RTOs and RPOs", "Documented recovery procedures",
						"Basic recovery procedures", "Informal recovery approach", "No recovery procedures"),
				},
				{
					ID: "business_continuity", Prompt: "Does your organization have a business continuity plan?",
					Type: "multiple_choice", Weight: 8, MitreTechnique: "T1486",
					Options: opts("Comprehensive BCP with regular testing", "Documented BCP with annual testing",
						"Basic business continuity plan", "Informal continuity procedures", "No business continuity plan"),
				},
				{
					ID: "forensic_capabilities", Prompt: "What forensic and investigation capabilities are available?",
					Type: "multiple_choice", Weight: 6, MitreTechnique: "T1083",
					Options: opts("In-house forensic team with external support", "External forensic support arrangements",
						"Basic forensic capabilities", "Limited investigation capabilities", "No forensic capabilities"),
				},
				{
					ID: "lessons_learned", Prompt: "How does your organization handle post-incident reviews?",
					Type: "multiple_choice", Weight: 5, MitreTechnique: "T1486",
					Options: opts("Formal post-incident review with improvement tracking", "Documented lessons learned process",
						"Basic post-incident review", "Informal review process", "No post-incident review"),
				},
			},
		},
	}}
}
