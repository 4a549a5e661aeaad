package tourplan_fx

import (
	"go.uber.org/fx"

	"fieldvisit/internal/api/controllers"
	"fieldvisit/internal/repositories"
	"fieldvisit/internal/services"
)

var Module = fx.Provide(
	provideTourPlanService,
	controllers.NewTourPlanController,
)

func provideTourPlanService(visitRepo repositories.VisitRepository) services.TourPlanServiceInterface {
	return services.NewTourPlanService(visitRepo)
}
