package questionnaire

import (
	"os"
	"path/filepath"
	"resilience_assessment/internal/model"
	"strings"
	"testing"
)

func TestDefaultQuestionnaire(t *testing.T) {
	def := Default()
	want := map[model.Stage]int{
		model.StagePreInfection:    7,
		model.StageActiveInfection: 4,
		model.StagePostInfection:   4,
	}
	for stage, n := range want {
		if got := def.TotalQuestions(stage); got != n {
			t.Errorf("%s: expected %d questions, got %d", stage, n, got)
		}
	}
	if err := def.validate(); err != nil {
		t.Fatalf("built-in questionnaire invalid: %v", err)
	}

	q, ok := def.Question(model.StagePreInfection, "backup_strategy")
	if !ok {
		t.Fatalf("expected backup_strategy question")
	}
	if text, ok := q.OptionText(4); !ok || text == "" {
		t.Fatalf("expected text for top option")
	}
	if len(q.Options) != 5 || q.Options[0].Value != 4 || q.Options[4].Value != 0 {
		t.Fatalf("options must be scored 4..0: %+v", q.Options)
	}
	if def.Weight(model.StagePreInfection, "nope") != 5 {
		t.Fatalf("unknown questions use the default weight")
	}
	for _, sec := range def.Sections {
		for _, q := range sec.Questions {
			if _, ok := MitreTechniques[q.MitreTechnique]; !ok {
				t.Errorf("%s references unknown technique %s", q.ID, q.MitreTechnique)
			}
		}
	}
}

func TestReadinessLevel(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{100, "Excellent"},
		{85, "Excellent"},
		{84.9, "Good"},
		{70, "Good"},
		{55, "Moderate"},
		{40, "Poor"},
		{39.9, "Critical"},
		{0, "Critical"},
	}
	for _, tc := range cases {
		if got := ReadinessLevel(tc.pct); got != tc.want {
			t.Errorf("%v: expected %s, got %s", tc.pct, tc.want, got)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	if def, err := Load(""); err != nil || len(def.Sections) != 3 {
		t.Fatalf("empty path should return built-in questionnaire: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yaml")
	content := `
sections:
  - stage: pre_infection
    title: Preparation
    questions:
      - id: backups
        question: Do you back up?
        weight: 3
        mitre_technique: T1490
        options:
          - {value: 4, text: Daily}
          - {value: 0, text: Never}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	def, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if def.TotalQuestions(model.StagePreInfection) != 1 || def.TotalQuestions(model.StagePostInfection) != 0 {
		t.Fatalf("unexpected totals")
	}
	if q, _ := def.Question(model.StagePreInfection, "backups"); q.Prompt != "Do you back up?" || q.Weight != 3 {
		t.Fatalf("unexpected question %+v", q)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("sections:\n  - stage: mid_infection\n"), 0644)
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "unknown stage") {
		t.Fatalf("expected invalid stage error, got %v", err)
	}
}
