// Package httpapi exposes the directory over HTTP with chi. Handlers run
// authentication and authorization as a pipeline of steps before calling
// into the services, and translate service errors into status codes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/logging"
	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/metrics"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/pipeline"
	"github.com/dmitrijs2005/bizdir/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type UserService interface {
	Register(ctx context.Context, caller *auth.Identity, in *models.NewUser) (*models.User, error)
	Login(ctx context.Context, in *models.Credentials) (string, error)
	Get(ctx context.Context, caller *auth.Identity, id int64) (*models.User, error)
}

type BusinessService interface {
	List(ctx context.Context, page int) (*services.BusinessPage, error)
	Create(ctx context.Context, caller *auth.Identity, in *models.NewBusiness) (*models.Business, error)
	Get(ctx context.Context, id int64) (*models.BusinessDetail, error)
	Update(ctx context.Context, caller *auth.Identity, id int64, patch *models.BusinessPatch) error
	Delete(ctx context.Context, caller *auth.Identity, id int64) error
	ListByOwner(ctx context.Context, caller *auth.Identity, ownerID int64) ([]*models.Business, error)
}

type ReviewService interface {
	Create(ctx context.Context, caller *auth.Identity, in *models.NewReview) (*models.Review, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	Update(ctx context.Context, caller *auth.Identity, id int64, patch *models.ReviewPatch) error
	Delete(ctx context.Context, caller *auth.Identity, id int64) error
	ListByUser(ctx context.Context, caller *auth.Identity, userID int64) ([]*models.Review, error)
}

type PhotoService interface {
	Create(ctx context.Context, caller *auth.Identity, in *models.NewPhoto) (*models.PhotoUpload, error)
	Get(ctx context.Context, id int64) (*models.PhotoView, error)
	Update(ctx context.Context, caller *auth.Identity, id int64, patch *models.PhotoPatch) error
	Delete(ctx context.Context, caller *auth.Identity, id int64) error
	ListByUser(ctx context.Context, caller *auth.Identity, userID int64) ([]*models.Photo, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker func(ctx context.Context) error

type Deps struct {
	Resolver   *auth.Resolver
	Users      UserService
	Businesses BusinessService
	Reviews    ReviewService
	Photos     PhotoService
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Health     HealthChecker
	Logger     logging.Logger
}

type API struct {
	resolver   *auth.Resolver
	users      UserService
	businesses BusinessService
	reviews    ReviewService
	photos     PhotoService
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	health     HealthChecker
	logger     logging.Logger
}

func New(d Deps) *API {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &API{
		resolver:   d.Resolver,
		users:      d.Users,
		businesses: d.Businesses,
		reviews:    d.Reviews,
		photos:     d.Photos,
		metrics:    d.Metrics,
		gatherer:   gatherer,
		health:     d.Health,
		logger:     logger.With("module", "http_api"),
	}
}

// Routes builds the router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.instrument)

	r.Get("/healthz", a.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(a.gatherer))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", a.registerUser)
		r.Post("/login", a.login)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", a.getUser)
			r.Get("/businesses", a.listUserBusinesses)
			r.Get("/reviews", a.listUserReviews)
			r.Get("/photos", a.listUserPhotos)
		})
	})

	r.Route("/businesses", func(r chi.Router) {
		r.Get("/", a.listBusinesses)
		r.Post("/", a.createBusiness)
		r.Get("/{id}", a.getBusiness)
		r.Patch("/{id}", a.updateBusiness)
		r.Delete("/{id}", a.deleteBusiness)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", a.createReview)
		r.Get("/{id}", a.getReview)
		r.Patch("/{id}", a.updateReview)
		r.Delete("/{id}", a.deleteReview)
	})

	r.Route("/photos", func(r chi.Router) {
		r.Post("/", a.createPhoto)
		r.Get("/{id}", a.getPhoto)
		r.Patch("/{id}", a.updatePhoto)
		r.Delete("/{id}", a.deletePhoto)
	})

	return r
}

// instrument records request count and latency by route pattern, so that
// /businesses/1 and /businesses/2 share a series.
func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		a.metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}

// authorize runs steps against the request context. On failure the error
// response is already written and ok is false.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, steps ...pipeline.Step) (caller *auth.Identity, ok bool) {
	ctx, err := pipeline.Run(r.Context(), steps...)
	if err != nil {
		a.writeError(w, r, err)
		return nil, false
	}
	caller, _ = auth.IdentityFrom(ctx)
	return caller, true
}

func (a *API) required(r *http.Request) pipeline.Step {
	return auth.RequireIdentity(a.resolver, r.Header.Get(common.AuthorizationHeaderName))
}

func (a *API) optional(r *http.Request) pipeline.Step {
	return auth.OptionalIdentity(a.resolver, r.Header.Get(common.AuthorizationHeaderName))
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health(r.Context()); err != nil {
			a.logger.Error(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
