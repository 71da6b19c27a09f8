// 手动重算所有评估会话的进度
//
// 问卷定义（questionnaire.path）调整题目数量后，已保存的进度值会过期。
// 此脚本按当前问卷重新计算每个会话的进度与完成状态，并输出各会话的就绪度。
//
// 用法: go run scripts/rescore_sessions.go [-dry-run]

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/repository"
	"resilience_assessment/internal/service"
	"resilience_assessment/internal/util"
	"resilience_assessment/pkg/database"
	"resilience_assessment/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "只输出结果，不写回数据库")
	flag.Parse()

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	def, err := questionnaire.Load(cfg.Questionnaire.Path)
	if err != nil {
		log.Fatalf("加载问卷失败: %v", err)
	}

	ctx := context.Background()
	repo := repository.NewAssessmentRepository(db)
	scoring := service.NewScoringService(def)

	sessions, err := repo.ListSessions(ctx)
	if err != nil {
		log.Fatalf("读取会话失败: %v", err)
	}

	for _, s := range sessions {
		rows, err := repo.ListResponses(ctx, s.ID)
		if err != nil {
			log.Printf("会话 %s 读取作答失败: %v", s.ID, err)
			continue
		}

		store := service.NewResponseStore()
		for _, row := range rows {
			store.Record(row.Stage, row.QuestionID, row.ToResponse())
		}
		progress := service.NewProgressAggregator(store, def).ComputeOverallProgress()
		completed := progress >= 100

		level := "Not Started"
		if report, err := scoring.Calculate(store.Snapshot()); err == nil {
			level = fmt.Sprintf("%s (%s)", report.OverallAssessment.ReadinessLevel,
				util.FormatPercent(report.OverallAssessment.PercentageScore))
		} else if !errors.Is(err, util.ErrNoResponses) {
			log.Printf("会话 %s 评分失败: %v", s.ID, err)
		}

		fmt.Printf("%s  %-30s progress %s -> %s  %s\n", s.ID, s.Organization,
			util.FormatPercent(s.Progress), util.FormatPercent(progress), level)

		if *dryRun {
			continue
		}
		if err := repo.UpdateProgress(ctx, s.ID, progress, completed); err != nil {
			log.Printf("会话 %s 更新失败: %v", s.ID, err)
		}
	}
	log.Println("完成！")
}
