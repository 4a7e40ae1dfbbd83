package api

import (
	"net/http"
	"time"

	"codeconnect/internal/api/handler"
	"codeconnect/internal/app/service"
	"codeconnect/internal/common/security"
	"codeconnect/internal/platform/judge"
	"codeconnect/internal/platform/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth         *service.AuthService
	Problem      *service.ProblemService
	Challenge    *service.ChallengeService
	Submission   *service.SubmissionService
	Profile      *service.ProfileService
	Stats        *service.StatsService
	Notification *service.NotificationService
	Contact      *service.ContactService
	Judge        *judge.Client
	Bucket       storage.BucketService
}

func NewRouter(svcs Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifier only parses tokens into context; route groups decide whether
	// a valid token is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(svcs.Auth)
		api.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(svcs.Problem)
		api.Route("/problems", problemHandler.RegisterRoutes)

		challengeHandler := handler.NewChallengeHandler(svcs.Challenge)
		api.Route("/challenges", challengeHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(svcs.Submission, svcs.Stats)
		api.Route("/submissions", submissionHandler.RegisterRoutes)

		profileHandler := handler.NewProfileHandler(svcs.Profile, svcs.Stats)
		api.Route("/profile", profileHandler.RegisterRoutes)

		notificationHandler := handler.NewNotificationHandler(svcs.Notification)
		api.Route("/notifications", notificationHandler.RegisterRoutes)

		compilerHandler := handler.NewCompilerHandler(svcs.Judge)
		api.Route("/compiler", compilerHandler.RegisterRoutes)

		uploadHandler := handler.NewUploadHandler(svcs.Bucket)
		api.Route("/upload", uploadHandler.RegisterRoutes)

		contactHandler := handler.NewContactHandler(svcs.Contact)
		api.Route("/contact", contactHandler.RegisterRoutes)
	})

	return r
}
