package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"fieldvisit/cmd/fx/db_fx"
	"fieldvisit/cmd/fx/location_fx"
	"fieldvisit/cmd/fx/relay_fx"
	"fieldvisit/cmd/fx/tourplan_fx"
	"fieldvisit/cmd/fx/visit_fx"
	"fieldvisit/internal/api/controllers"
	"fieldvisit/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		visit_fx.Module,
		location_fx.Module,
		tourplan_fx.Module,
		relay_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func ProvideRouter(
	visitController *controllers.VisitController,
	locationController *controllers.LocationController,
	tourPlanController *controllers.TourPlanController,
	relayController *controllers.RelayController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, visitController, locationController, tourPlanController, relayController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	visitController *controllers.VisitController,
	locationController *controllers.LocationController,
	tourPlanController *controllers.TourPlanController,
	relayController *controllers.RelayController) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	r.GET("/ws", relayController.Serve)

	authed := r.Group("/", middleware.JWTAuthMiddleware())

	visits := authed.Group("/visits")
	visits.POST("", visitController.CreateVisit)
	visits.GET("", visitController.ListVisits)
	visits.GET("/:visitId", visitController.GetVisitById)
	visits.GET("/:visitId/report", visitController.DownloadVisitReport)
	visits.PATCH("/:visitId/status", visitController.UpdateVisitStatus)
	visits.DELETE("/:visitId", visitController.DeleteVisit)

	locations := authed.Group("/locations")
	locations.POST("", locationController.CreateLocation)
	locations.GET("", locationController.ListLocations)

	tourPlans := authed.Group("/tour-plans")
	tourPlans.POST("/reconcile", tourPlanController.ReconcilePlan)
}
