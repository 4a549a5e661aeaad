package visit_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"fieldvisit/internal/api/controllers"
	"fieldvisit/internal/repositories"
	"fieldvisit/internal/services"
)

var Module = fx.Provide(
	provideVisitRepo,
	provideVisitService,
	provideReportService,
	controllers.NewVisitController,
)

func provideVisitRepo(db *gorm.DB) repositories.VisitRepository {
	return repositories.NewVisitRepository(db)
}

func provideVisitService(visitRepo repositories.VisitRepository, locationRepo repositories.LocationRepository) services.VisitServiceInterface {
	return services.NewVisitService(visitRepo, locationRepo)
}

func provideReportService(visitRepo repositories.VisitRepository) services.ReportServiceInterface {
	return services.NewReportService(visitRepo)
}
