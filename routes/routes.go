package routes

import (
	"github.com/Dosada05/pokedex-tracker/handlers"
	"github.com/Dosada05/pokedex-tracker/middleware"
	"github.com/Dosada05/pokedex-tracker/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	tokens *services.TokenManager,
	allowedOrigins []string,
	authHandler *handlers.AuthHandler,
	trackingHandler *handlers.TrackingHandler,
	teamHandler *handlers.TeamHandler,
	catalogHandler *handlers.CatalogHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(tokens)

	// Публичные маршруты
	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)
	router.Post("/refresh", authHandler.Refresh)

	router.Get("/catalog/version-groups", catalogHandler.ListVersionGroups)
	router.Get("/catalog/pokemon", catalogHandler.ListPokemon)
	router.Get("/catalog/pokemon/{pokemonID}", catalogHandler.GetPokemon)

	// Защищённые маршруты
	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/check-session", authHandler.CheckSession)
		r.Post("/logout", authHandler.Logout)

		r.Post("/caught-pokemon", trackingHandler.Catch)
		r.Delete("/caught-pokemon/{pokemonID}/{versionGroupID}", trackingHandler.Uncatch)
		r.Get("/caught-pokemon/game/{versionGroupID}", trackingHandler.ListCaught)
		r.Get("/caught-pokemon/check/{pokemonID}/{versionGroupID}", trackingHandler.CheckCaught)

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.Create)
			r.Get("/", teamHandler.List)
			r.Get("/{teamID}", teamHandler.Get)
			r.Delete("/{teamID}", teamHandler.Delete)
			r.Post("/{teamID}/members", teamHandler.AddMember)
			r.Delete("/{teamID}/members/{position}", teamHandler.RemoveMember)
		})

		r.Post("/catalog/import", catalogHandler.Import)
	})
}
