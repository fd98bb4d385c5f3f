package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/core"
	handler "github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/handler/http"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/limiter"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/metrics"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/redis"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/user"
)

// Logging and telemetry identifiers.
const (
	component        = "reviewhub-http"
	namespaceService = "service"
	storeService     = "postgres"
)

// Versions.
const (
	versionCurrent = "0.1"
)

// Prefixes.
const (
	prefixRateLimiter = "ratelimiter:user:"
)

// Timeouts
const (
	defaultReadTimeout  = 2 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Buildtime vars.
var (
	revision = "0000000-dev"
)

func main() {
	var (
		begin = time.Now()

		listenAddr    = flag.String("listen.addr", ":8083", "HTTP bind address for main API")
		namespace     = flag.String("namespace", "reviewhub", "Namespace used to isolate the data set")
		postgresURL   = flag.String("postgres.url", "", "Postgres URL to connect to")
		redisAddr     = flag.String("redis.addr", ":6379", "Redis address to connect to")
		telemetryAddr = flag.String("telemetry.addr", ":9000", "HTTP bind address where prometheus telemetry is exposed")
	)
	flag.Parse()

	// Setup logging.
	logger := log.With(
		log.NewJSONLogger(os.Stdout),
		"caller", log.Caller(3),
		"component", component,
		"revision", revision,
	)

	hostname, err := os.Hostname()
	if err != nil {
		logger.Log("err", err, "lifecycle", "abort")
	}

	logger = log.With(logger, "host", hostname)

	// Setup instrumentation.
	go func(addr string) {
		logger.Log(
			"duration", time.Now().Sub(begin).Nanoseconds(),
			"lifecycle", "start",
			"listen", addr,
			"sub", "telemetry",
		)

		http.Handle("/metrics", promhttp.Handler())

		err := http.ListenAndServe(addr, nil)
		if err != nil {
			logger.Log("err", err, "lifecycle", "abort", "sub", "telemetry")
			os.Exit(1)
		}
	}(*telemetryAddr)

	serviceErrCount, serviceOpCount, serviceOpLatency := metrics.KeyMetrics(
		namespaceService,
		metrics.FieldComponent,
		metrics.FieldMethod,
		metrics.FieldNamespace,
		metrics.FieldService,
		metrics.FieldStore,
	)

	// Setup clients.
	var (
		redisPool   = redis.Pool(*redisAddr, "")
		rateLimiter = limiter.Redis(redisPool, prefixRateLimiter)
	)

	pgClient, err := sqlx.Connect(storeService, *postgresURL)
	if err != nil {
		logger.Log("err", err, "lifecycle", "abort")
		os.Exit(1)
	}

	// Setup services.
	var films film.Service
	films = film.PostgresService(pgClient)
	films = film.InstrumentServiceMiddleware(
		component,
		storeService,
		serviceErrCount,
		serviceOpCount,
		serviceOpLatency,
	)(films)
	films = film.LogServiceMiddleware(logger, storeService)(films)

	var reviews review.Service
	reviews = review.PostgresService(pgClient)
	reviews = review.InstrumentServiceMiddleware(
		component,
		storeService,
		serviceErrCount,
		serviceOpCount,
		serviceOpLatency,
	)(reviews)
	reviews = review.LogServiceMiddleware(logger, storeService)(reviews)

	var users user.Service
	users = user.PostgresService(pgClient)
	users = user.InstrumentServiceMiddleware(
		component,
		storeService,
		serviceErrCount,
		serviceOpCount,
		serviceOpLatency,
	)(users)
	users = user.LogServiceMiddleware(logger, storeService)(users)

	// Setup middlewares.
	var (
		withAnon = handler.Chain(
			handler.CtxNamespace(*namespace),
			handler.CtxPrepare(versionCurrent),
			handler.Log(logger),
			handler.Instrument(component),
			handler.SecureHeaders(),
			handler.CORS(),
			handler.Gzip(),
			handler.ValidateContent(),
		)
		withUser = handler.Chain(
			withAnon,
			handler.CtxUser(users),
			handler.RateLimit(rateLimiter),
		)
		withUserOptional = handler.Chain(
			withAnon,
			handler.CtxUserOptional(users),
		)
	)

	// Setup Router.
	router := mux.NewRouter().StrictSlash(true)

	router.Methods("GET").Path(`/health`).Name("healthcheck").HandlerFunc(
		handler.Wrap(
			handler.CtxPrepare(versionCurrent),
			handler.Health(pgClient, redisPool),
		),
	)

	current := router.PathPrefix(fmt.Sprintf("/%s", versionCurrent)).Subrouter()

	// Film routes.
	current.Methods("POST").Path(`/films`).Name("filmCreate").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmCreate(
				core.FilmCreate(films),
			),
		),
	)

	current.Methods("GET").Path(`/films/public`).Name("filmListPublic").HandlerFunc(
		handler.Wrap(
			withAnon,
			handler.FilmListPublic(
				core.FilmListPublic(films),
			),
		),
	)

	current.Methods("GET").Path(`/films/public/invited`).Name("filmListInvited").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmListInvited(
				core.FilmListInvited(films, reviews),
			),
		),
	)

	current.Methods("POST").Path(`/films/public/invited/accept`).Name("reviewAcceptAll").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.ReviewAcceptAll(
				core.ReviewAcceptAll(reviews),
			),
		),
	)

	current.Methods("GET").Path(`/films/public/{filmID:[0-9]+}`).Name("filmRetrievePublic").HandlerFunc(
		handler.Wrap(
			withAnon,
			handler.FilmRetrievePublic(
				core.FilmGetPublic(films),
			),
		),
	)

	current.Methods("PUT").Path(`/films/public/{filmID:[0-9]+}`).Name("filmUpdatePublic").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmUpdatePublic(
				core.FilmUpdatePublic(films),
			),
		),
	)

	current.Methods("DELETE").Path(`/films/public/{filmID:[0-9]+}`).Name("filmDeletePublic").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmDeletePublic(
				core.FilmDeletePublic(films, reviews),
			),
		),
	)

	current.Methods("GET").Path(`/films/private`).Name("filmListPrivate").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmListPrivate(
				core.FilmListPrivate(films),
			),
		),
	)

	current.Methods("GET").Path(`/films/private/{filmID:[0-9]+}`).Name("filmRetrievePrivate").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmRetrievePrivate(
				core.FilmGetPrivate(films),
			),
		),
	)

	current.Methods("PUT").Path(`/films/private/{filmID:[0-9]+}`).Name("filmUpdatePrivate").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmUpdatePrivate(
				core.FilmUpdatePrivate(films),
			),
		),
	)

	current.Methods("DELETE").Path(`/films/private/{filmID:[0-9]+}`).Name("filmDeletePrivate").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.FilmDeletePrivate(
				core.FilmDeletePrivate(films),
			),
		),
	)

	// Review routes.
	current.Methods("POST").Path(`/films/public/{filmID:[0-9]+}/reviews`).Name("reviewIssue").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.ReviewIssue(
				core.ReviewIssue(films, reviews, users),
			),
		),
	)

	current.Methods("GET").Path(`/films/public/{filmID:[0-9]+}/reviews`).Name("reviewListByFilm").HandlerFunc(
		handler.Wrap(
			withUserOptional,
			handler.ReviewListByFilm(
				core.ReviewListByFilm(films, reviews),
			),
		),
	)

	current.Methods("POST").Path(`/films/public/{filmID:[0-9]+}/reviews/accept`).Name("reviewAccept").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.ReviewAccept(
				core.ReviewAccept(reviews),
			),
		),
	)

	current.Methods("GET").Path(`/films/public/{filmID:[0-9]+}/reviews/{reviewerID:[0-9]+}`).Name("reviewRetrieve").HandlerFunc(
		handler.Wrap(
			withAnon,
			handler.ReviewRetrieve(
				core.ReviewGet(reviews),
			),
		),
	)

	current.Methods("PUT").Path(`/films/public/{filmID:[0-9]+}/reviews/{reviewerID:[0-9]+}`).Name("reviewComplete").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.ReviewComplete(
				core.ReviewComplete(reviews),
			),
		),
	)

	current.Methods("DELETE").Path(`/films/public/{filmID:[0-9]+}/reviews/{reviewerID:[0-9]+}`).Name("reviewDelete").HandlerFunc(
		handler.Wrap(
			withUser,
			handler.ReviewDelete(
				core.ReviewDelete(films, reviews),
			),
		),
	)

	// Setup server.
	server := &http.Server{
		Addr:         *listenAddr,
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	logger.Log(
		"duration", time.Now().Sub(begin).Nanoseconds(),
		"lifecycle", "start",
		"listen", *listenAddr,
		"sub", "api",
	)

	err = server.ListenAndServe()
	if err != nil {
		logger.Log("err", err, "lifecycle", "abort", "sub", "api")
		os.Exit(1)
	}
}
