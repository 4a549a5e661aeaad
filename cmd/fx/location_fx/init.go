package location_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"fieldvisit/internal/api/controllers"
	"fieldvisit/internal/repositories"
	"fieldvisit/internal/services"
)

var Module = fx.Provide(
	provideLocationRepo,
	provideLocationService,
	controllers.NewLocationController,
)

func provideLocationRepo(db *gorm.DB) repositories.LocationRepository {
	return repositories.NewLocationRepository(db)
}

func provideLocationService(locationRepo repositories.LocationRepository) services.LocationServiceInterface {
	return services.NewLocationService(locationRepo)
}
