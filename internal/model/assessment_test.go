package model_test

import (
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/util"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

func TestResponseColumnsFitTextLimit(t *testing.T) {
	s, err := schema.Parse(&model.AssessmentResponse{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}

	for _, name := range []string{"AnswerText", "Comments"} {
		f := s.LookUpField(name)
		if f == nil {
			t.Fatalf("field %s not found", name)
		}
		if strings.EqualFold(f.TagSettings["TYPE"], "text") {
			continue
		}
		if f.Size < util.MaxTextLength {
			t.Errorf("%s column holds %d chars, validation allows %d", name, f.Size, util.MaxTextLength)
		}
	}
}
