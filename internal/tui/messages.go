package tui

import "github.com/Veraticus/smsledger/internal/model"

type patternsLoadedMsg struct {
	err      error
	patterns []model.Pattern
}

type reviewedMsg struct {
	err     error
	pattern *model.Pattern
	id      int64
}
