package routes

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/templui/carepledge/internal/app"
	"github.com/templui/carepledge/internal/handler"
	"github.com/templui/carepledge/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	goal := handler.NewGoalHandler(app.GoalService)
	provider := handler.NewProviderHandler(app.PledgeService, app.InsightsService)
	dashboard := handler.NewDashboardHandler(app.InsightsService, app.SnapshotService)

	// Mutating procedures share one per-IP budget
	write := middleware.RateLimit(app.RateLimiter)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	// ============================================================================
	// GOALS
	// ============================================================================

	mux.HandleFunc("POST /rpc/goals.list", goal.List)
	mux.HandleFunc("POST /rpc/goals.getHistory", goal.History)
	mux.HandleFunc("POST /rpc/goals.getPendingRewards", goal.PendingRewards)
	mux.Handle("POST /rpc/goals.create", write(http.HandlerFunc(goal.Create)))
	mux.Handle("POST /rpc/goals.update", write(http.HandlerFunc(goal.Update)))
	mux.Handle("POST /rpc/goals.complete", write(http.HandlerFunc(goal.Complete)))

	// ============================================================================
	// PROVIDER / PLEDGES
	// ============================================================================

	mux.Handle("POST /rpc/provider.createPledge", write(http.HandlerFunc(provider.CreatePledge)))
	mux.Handle("POST /rpc/provider.acceptPledge", write(http.HandlerFunc(provider.AcceptPledge)))
	mux.HandleFunc("POST /rpc/provider.getPatientPledges", provider.PatientPledges)
	mux.HandleFunc("POST /rpc/provider.getMyPledges", provider.MyPledges)
	mux.Handle("POST /rpc/provider.updatePatientStatus", write(http.HandlerFunc(provider.UpdatePatientStatus)))
	mux.Handle("POST /rpc/provider.updatePledgeProgress", write(http.HandlerFunc(provider.UpdatePledgeProgress)))
	mux.HandleFunc("POST /rpc/provider.getDashboard", provider.Dashboard)

	// ============================================================================
	// DASHBOARDS
	// ============================================================================

	mux.HandleFunc("POST /rpc/dashboard.leaderboard", dashboard.Leaderboard)
	mux.HandleFunc("POST /rpc/dashboard.commandCenter", dashboard.CommandCenter)
	mux.HandleFunc("POST /rpc/dashboard.tokenEconomy", dashboard.TokenEconomy)
	mux.Handle("POST /rpc/dashboard.exportSnapshot", write(http.HandlerFunc(dashboard.ExportSnapshot)))

	mux.HandleFunc("POST /rpc/{procedure}", handler.UnknownProcedure)

	cors := handlers.CORS(
		handlers.AllowedOrigins(app.Cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	return middleware.Chain(mux,
		middleware.RequestLogging,
		cors,
	)
}
