package client

import (
	"fmt"
	"io"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/service"
	"resilience_assessment/internal/util"
	"strings"
	"sync"
)

const barWidth = 30

// Console 终端提示、完成标记与进度条；保存回调在计时器协程中触发，输出需加锁
type Console struct {
	mu  sync.Mutex
	out io.Writer

	completed map[model.ResponseKey]bool
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out, completed: make(map[model.ResponseKey]bool)}
}

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  [ok] %s\n", msg)
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  [error] %s\n", msg)
}

func (c *Console) MarkCompleted(stage model.Stage, questionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed[model.ResponseKey{Stage: stage, QuestionID: questionID}] = true
	fmt.Fprintf(c.out, "  ✓ %s / %s\n", util.HumanizeID(stage.String()), util.HumanizeID(questionID))
}

// IsCompleted 题目是否已保存成功
func (c *Console) IsCompleted(stage model.Stage, questionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed[model.ResponseKey{Stage: stage, QuestionID: questionID}]
}

func bar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func (c *Console) Progress(update service.ProgressUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  Overall %s %s\n", bar(update.Overall), util.FormatPercent(update.Overall))
	for _, sp := range update.Stages {
		fmt.Fprintf(c.out, "    %-18s %d/%d %s\n", util.HumanizeID(sp.Stage.String()), sp.Answered, sp.Total,
			util.FormatPercent(sp.Percentage))
	}
}
