package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/modules/auth"
	"github.com/gfschwingel/coppers/modules/contact"
	"github.com/gfschwingel/coppers/modules/reset"
	"github.com/gfschwingel/coppers/modules/tasks"
	"github.com/gfschwingel/coppers/modules/user"
	"github.com/gfschwingel/coppers/pkg/config"
	"github.com/gfschwingel/coppers/pkg/cookie"
	"github.com/gfschwingel/coppers/pkg/email"
	"github.com/gfschwingel/coppers/pkg/environment"
	"github.com/gfschwingel/coppers/pkg/httpserver"
	"github.com/gfschwingel/coppers/pkg/logger"
	"github.com/gfschwingel/coppers/pkg/mongo"
	"github.com/gfschwingel/coppers/pkg/ratelimit"
	"github.com/gfschwingel/coppers/pkg/redis"
	"github.com/gfschwingel/coppers/pkg/token"
)

type appConfig struct {
	Env    environment.Config
	HTTP   httpserver.Config
	Mongo  mongo.Config
	Redis  redis.Config
	Cookie cookie.Config
	Token  token.Config
	Email  email.Config
	Reset  reset.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	env := cfg.Env.Environment
	log := logger.New(logger.WithEnvironment(env, "coppers"))

	if err := run(context.Background(), cfg, env, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, env environment.Environment, log *slog.Logger) error {
	db, err := mongo.ConnectDatabase(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("mongo disconnect", logger.Error(err))
		}
	}()

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("redis close", logger.Error(err))
		}
	}()

	tokens, err := token.New(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		return err
	}
	cookies := cookie.New(cfg.Cookie, env)

	var sender email.Sender
	if env.IsProduction() {
		sender, err = email.NewPostmarkSender(cfg.Email)
		if err != nil {
			return err
		}
	} else {
		sender = email.NewDevSender(cfg.Email.DevOutputDir)
	}

	userStore := user.NewMongoStore(db)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		return err
	}
	taskStore := tasks.NewMongoStore(db)

	userSvc := user.NewService(userStore, log)
	authSvc := auth.NewService(userStore, tokens, log)
	taskSvc := tasks.NewService(taskStore, log)
	contactSvc := contact.NewService(sender, cfg.Email.SenderEmail, log)
	resetSvc := reset.NewService(userStore, tokens, sender, cfg.Reset, log)

	guard := auth.NewGuard(tokens, cookies)

	limitStore := ratelimit.NewRedisStore(rdb, "coppers:ratelimit")
	authLimiter, err := ratelimit.NewBucket(limitStore, ratelimit.Config{
		Capacity:       10,
		RefillRate:     10,
		RefillInterval: time.Minute,
	})
	if err != nil {
		return err
	}
	mailLimiter, err := ratelimit.NewBucket(limitStore, ratelimit.Config{
		Capacity:       3,
		RefillRate:     3,
		RefillInterval: time.Minute,
	})
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthz(mongo.Healthcheck(db.Client()), redis.Healthcheck(rdb)))

	r.Route("/api", func(r chi.Router) {
		r.With(ratelimit.Middleware(authLimiter, ratelimit.ByIP())).
			Mount("/auth", auth.NewHandler(authSvc, cookies).Router())

		r.With(guard.Middleware).
			Mount("/tasks", tasks.NewHandler(taskSvc).Router())
		r.With(guard.Middleware).
			Mount("/user", user.NewHandler(userSvc).Router())

		r.With(ratelimit.Middleware(mailLimiter, ratelimit.ByIP())).
			Mount("/mail", contact.NewHandler(contactSvc).Router())
		r.With(ratelimit.Middleware(mailLimiter, ratelimit.ByIP())).
			Mount("/reset", reset.NewHandler(resetSvc).Router())
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, r)
}

func healthz(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check(ctx); err != nil {
				core.RespondError(w, core.NewError(http.StatusServiceUnavailable, "unhealthy"))
				return
			}
		}
		core.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
