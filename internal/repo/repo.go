package repo

import "gorm.io/gorm"

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) lockable() bool {
	return r.DB.Dialector.Name() == "postgres"
}
