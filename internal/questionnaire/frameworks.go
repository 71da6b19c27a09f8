package questionnaire

type Technique struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tactic      string `json:"tactic"`
}

// MitreTechniques 与勒索软件相关的 ATT&CK 技术
var MitreTechniques = map[string]Technique{
	"T1566": {Name: "Phishing", Description: "Adversaries may send phishing messages to gain access to victim systems", Tactic: "Initial Access"},
	"T1190": {Name: "Exploit Public-Facing Application", Description: "Adversaries may exploit weaknesses in software to gain access", Tactic: "Initial Access"},
	"T1021": {Name: "Remote Services", Description: "Adversaries may use valid accounts to log into a service specifically designed to accept remote connections", Tactic: "Lateral Movement"},
	"T1055": {Name: "Process Injection", Description: "Adversaries may inject code into processes to evade detection", Tactic: "Defense Evasion"},
	"T1083": {Name: "File and Directory Discovery", Description: "Adversaries may enumerate files and directories to find specific files", Tactic: "Discovery"},
	"T1486": {Name: "Data Encrypted for Impact", Description: "Adversaries may encrypt data on target systems to interrupt availability", Tactic: "Impact"},
	"T1490": {Name: "Inhibit System Recovery", Description: "Adversaries may delete or remove built-in operating system data and turn off services", Tactic: "Impact"},
}

type Framework struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Functions   map[string]string `json:"functions,omitempty"`
}

var Frameworks = map[string]Framework{
	"NIST_CSF": {
		Name: "NIST Cybersecurity Framework",
		Functions: map[string]string{
			"IDENTIFY": "Develop organizational understanding to manage cybersecurity risk",
			"PROTECT":  "Develop and implement appropriate safeguards",
			"DETECT":   "Develop and implement activities to identify cybersecurity events",
			"RESPOND":  "Develop and implement activities to take action on detected cybersecurity incident",
			"RECOVER":  "Develop and implement activities to maintain resilience and restore capabilities",
		},
	},
	"ISO_27001":    {Name: "ISO/IEC 27001", Description: "International standard for information security management systems"},
	"CIS_CONTROLS": {Name: "CIS Critical Security Controls", Description: "Prioritized set of actions to protect organizations from cyber attacks"},
}

// 就绪度阈值（百分比）
const (
	ThresholdExcellent = 85.0
	ThresholdGood      = 70.0
	ThresholdModerate  = 55.0
	ThresholdPoor      = 40.0
)

// ReadinessLevel 按阈值给出就绪度标签
func ReadinessLevel(percentage float64) string {
	switch {
	case percentage >= ThresholdExcellent:
		return "Excellent"
	case percentage >= ThresholdGood:
		return "Good"
	case percentage >= ThresholdModerate:
		return "Moderate"
	case percentage >= ThresholdPoor:
		return "Poor"
	default:
		return "Critical"
	}
}
