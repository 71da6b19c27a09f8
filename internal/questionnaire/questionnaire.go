package questionnaire

import (
	"fmt"
	"os"
	"resilience_assessment/internal/model"

	"gopkg.in/yaml.v3"
)

// MaxOptionValue 每题选项最高分
const MaxOptionValue = 4

type Option struct {
	Value int    `yaml:"value" json:"value"`
	Text  string `yaml:"text" json:"text"`
}

type Question struct {
	ID             string   `yaml:"id" json:"id"`
	Prompt         string   `yaml:"question" json:"question"`
	Type           string   `yaml:"type" json:"type"`
	Options        []Option `yaml:"options" json:"options"`
	Weight         int      `yaml:"weight" json:"weight"`
	MitreTechnique string   `yaml:"mitre_technique" json:"mitre_technique"`
}

// OptionText 返回分值对应的选项文本
func (q Question) OptionText(value int) (string, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Text, true
		}
	}
	return "", false
}

type Section struct {
	Stage       model.Stage `yaml:"stage" json:"stage"`
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description" json:"description"`
	Questions   []Question  `yaml:"questions" json:"questions"`
}

// Definition 问卷定义，按阶段固定顺序排列
type Definition struct {
	Sections []Section `yaml:"sections" json:"sections"`
}

func (d *Definition) Section(stage model.Stage) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Stage == stage {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

func (d *Definition) Question(stage model.Stage, questionID string) (*Question, bool) {
	sec, ok := d.Section(stage)
	if !ok {
		return nil, false
	}
	for i := range sec.Questions {
		if sec.Questions[i].ID == questionID {
			return &sec.Questions[i], true
		}
	}
	return nil, false
}

// TotalQuestions 实现 service.QuestionTotals
func (d *Definition) TotalQuestions(stage model.Stage) int {
	sec, ok := d.Section(stage)
	if !ok {
		return 0
	}
	return len(sec.Questions)
}

// Weight 未知题目按默认权重 5 计算
func (d *Definition) Weight(stage model.Stage, questionID string) int {
	if q, ok := d.Question(stage, questionID); ok {
		return q.Weight
	}
	return 5
}

func (d *Definition) validate() error {
	seen := make(map[model.Stage]bool)
	for _, sec := range d.Sections {
		if !sec.Stage.Valid() {
			return fmt.Errorf("unknown stage %q", sec.Stage)
		}
		if seen[sec.Stage] {
			return fmt.Errorf("duplicate stage %q", sec.Stage)
		}
		seen[sec.Stage] = true

		ids := make(map[string]bool)
		for _, q := range sec.Questions {
			if q.ID == "" {
				return fmt.Errorf("stage %s: question without id", sec.Stage)
			}
			if ids[q.ID] {
				return fmt.Errorf("stage %s: duplicate question id %q", sec.Stage, q.ID)
			}
			ids[q.ID] = true
			if q.Weight <= 0 {
				return fmt.Errorf("stage %s: question %s must have a positive weight", sec.Stage, q.ID)
			}
			for _, o := range q.Options {
				if o.Value < 0 || o.Value > MaxOptionValue {
					return fmt.Errorf("stage %s: question %s option value %d out of range", sec.Stage, q.ID, o.Value)
				}
			}
		}
	}
	return nil
}

// Load 读取 YAML 问卷文件；path 为空时返回内置问卷
func Load(path string) (*Definition, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questionnaire %s: %w", path, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse questionnaire %s: %w", path, err)
	}
	if err := def.validate(); err != nil {
		return nil, fmt.Errorf("invalid questionnaire %s: %w", path, err)
	}
	return &def, nil
}
