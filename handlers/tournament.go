package handlers

import (
	"time"

	"debate-tab-system/middleware"
	"debate-tab-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// PublicOptions tunes the unauthenticated draw route.
type PublicOptions struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
}

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, drawService *services.DrawService, public PublicOptions) {
	// 🔓 Released draws, cached and rate limited per client
	store := cache.New(public.CacheTTL, 2*public.CacheTTL)
	app.Get("/public/rounds/:round_id/draw",
		middleware.RateLimiter(rate.Limit(public.RateLimitPerSec), public.RateLimitBurst),
		middleware.Cache(store, public.CacheTTL),
		drawService.GetPublicDraw,
	)

	// 🔐 Tab room routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/tournaments", tournamentService.CreateTournament)
	secured.Get("/tournaments/:id", tournamentService.GetTournamentByID)

	// Registration
	secured.Post("/tournaments/:id/teams", tournamentService.CreateTeam)
	secured.Get("/tournaments/:id/teams", tournamentService.ListTeams)
	secured.Delete("/teams/:team_id", tournamentService.DeleteTeam)
	secured.Post("/tournaments/:id/judges", tournamentService.CreateJudge)
	secured.Get("/tournaments/:id/judges", tournamentService.ListJudges)
	secured.Delete("/judges/:judge_id", tournamentService.DeleteJudge)
	secured.Post("/tournaments/:id/rounds", tournamentService.CreateRound)
	secured.Get("/tournaments/:id/rounds", tournamentService.ListRounds)

	// Draw lifecycle: draft -> confirmed -> released
	secured.Post("/rounds/:round_id/draw", drawService.GenerateDraw)
	secured.Post("/rounds/:round_id/draw/regenerate", drawService.RegenerateDraw)
	secured.Get("/rounds/:round_id/draw", drawService.GetDraw)
	secured.Post("/rounds/:round_id/draw/confirm", drawService.ConfirmDraw)
	secured.Post("/rounds/:round_id/draw/release", drawService.ReleaseDraw)
}
