package model

import (
	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/pkg/db"
	"github.com/thep200/repo-profiler/pkg/log"
)

// Model carries the dependencies a persisted record needs, none of it is stored
type Model struct {
	Config *cfg.Config `gorm:"-" json:"-"`
	Logger log.Logger  `gorm:"-" json:"-"`
	Mysql  *db.Mysql   `gorm:"-" json:"-"`
}
