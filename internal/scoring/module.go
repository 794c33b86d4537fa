// Package scoring wires the outcome scoring pipeline: minutes submission,
// classification, and contact outcome updates.
package scoring

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "crmdash_backend/internal/http"
	"crmdash_backend/internal/scoring/handler"
	"crmdash_backend/internal/scoring/ports"
	"crmdash_backend/internal/scoring/repository"
	"crmdash_backend/internal/scoring/service"
	"crmdash_backend/platform/logger"
	"crmdash_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, classifier ports.Classifier, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewRepository(pool)
	svc := service.NewService(repo, classifier, log)
	h := handler.NewHandler(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string { return "scoring" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Service exposes the scoring service for the background sync worker.
func (m *Module) Service() *service.Service {
	return m.service
}

var _ apphttp.Module = (*Module)(nil)
