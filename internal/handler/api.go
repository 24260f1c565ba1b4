package handler

import (
	"github.com/bloomlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	goals       *service.GoalService
	progress    *service.ProgressService
	profiles    *service.ProfileService
	maxPhotoDim int
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, maxPhotoDim int) *API {
	if maxPhotoDim <= 0 {
		maxPhotoDim = 1280
	}

	return &API{
		db:          db,
		goals:       service.NewGoalService(db),
		progress:    service.NewProgressService(db),
		profiles:    service.NewProfileService(db),
		maxPhotoDim: maxPhotoDim,
	}
}
