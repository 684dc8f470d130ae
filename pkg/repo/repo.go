package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	Fill() IFill
}

type Repo struct {
	reportDB *gorm.DB
}

func NewRepo(reportDB *gorm.DB) IRepo {
	return &Repo{
		reportDB: reportDB,
	}
}

func (r *Repo) Fill() IFill {
	return NewFillSQLRepo(r.reportDB)
}
