// Package analytics provides the dashboard analytics bounded context module.
// This file defines the module that encapsulates all analytics setup and
// route registration.
package analytics

import (
	"crmdash_backend/internal/analytics/handler"
	"crmdash_backend/internal/analytics/repository"
	"crmdash_backend/internal/analytics/service"
	apphttp "crmdash_backend/internal/http"
	"crmdash_backend/platform/logger"
	"crmdash_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the analytics module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the analytics service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
