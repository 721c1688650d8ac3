// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"html/template"
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/api/handlers"
	"github.com/cssocial/desk/internal/authhelp"
	"github.com/cssocial/desk/internal/cli"
	"github.com/cssocial/desk/internal/config"
	"github.com/cssocial/desk/internal/helpers"
	"github.com/cssocial/desk/internal/interact"
	"github.com/cssocial/desk/internal/localdb"
	"github.com/cssocial/desk/internal/media"
	"github.com/cssocial/desk/internal/middleware"
	"github.com/cssocial/desk/internal/pins"
	"github.com/cssocial/desk/internal/preview"
	"github.com/cssocial/desk/internal/realtime"
	"github.com/cssocial/desk/internal/remote"
	"github.com/cssocial/desk/internal/worker"
)

func initLogger(env string) {
	var logger *zap.Logger
	var err error
	if env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
}

func main() {
	loginFlag := flag.Bool("login", false, "sign in from the terminal, save the session and exit")
	logoutFlag := flag.Bool("logout", false, "remove the saved session and exit")
	resetLockFlag := flag.Bool("reset-lock", false, "set or remove the app-lock passphrase and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg.Env)
	defer zap.L().Sync()

	store, err := localdb.Open(cfg.StorePath())
	if err != nil {
		// The UI stays up to show what is broken; pins fall back to
		// memory and the session just will not survive restarts.
		cfg.StoreInitErr = err
		zap.S().Errorw("local store unavailable", "path", cfg.StorePath(), "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	if *loginFlag || *logoutFlag || *resetLockFlag {
		if store == nil {
			log.Fatalf("local store unavailable: %v", cfg.StoreInitErr)
		}
		if *loginFlag {
			cli.HandleLogin(store, cfg)
		}
		if *logoutFlag {
			cli.HandleLogout(store)
		}
		if *resetLockFlag {
			cli.HandleResetLock(store)
		}
		return
	}

	state := handlers.NewSessionState()
	api := remote.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, state.Token)
	pinStore := pins.New(store)

	restoreSession(cfg, store, api, pinStore, state)

	notifier := realtime.NewNotifier(cfg.SocketURL, state.Token)
	unread := realtime.NewUnreadCounter(api, notifier)
	notifier.Start()
	defer notifier.Close()

	refresher := worker.NewRefresher()
	refresher.Add(worker.Task{Name: "viewer", Run: func(ctx context.Context) error {
		if sess := state.Current(); sess != nil {
			return sess.RefreshViewer(ctx)
		}
		return nil
	}})
	refresher.Add(worker.Task{Name: "unread", Run: func(ctx context.Context) error {
		if state.Current() == nil {
			return nil
		}
		return unread.Refresh(ctx)
	}})
	refresher.Start(cfg.RefreshInterval)
	defer refresher.Stop()

	// The first tick is a full interval away; seed the badge now so a
	// restored session does not render zero unread until then.
	if state.Current() != nil {
		go refresher.RefreshAll()
	}

	var uploader *media.Uploader
	if cfg.Media.Endpoint != "" {
		uploader, err = media.NewUploader(cfg.Media)
		if err != nil {
			zap.S().Warnw("media uploads disabled", "error", err)
			uploader = nil
		}
	}

	previews := preview.NewFetcher(10 * time.Second)

	h := handlers.NewHandler(api, store, pinStore, state, cfg, refresher, unread, uploader, previews)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.SetFuncMap(template.FuncMap{
		"initials":   helpers.Initials,
		"truncate":   helpers.Truncate,
		"pluralS":    helpers.PluralS,
		"postURL":    helpers.PostPermalink,
		"profileURL": helpers.ProfilePermalink,
	})
	r.LoadHTMLGlob("templates/*")
	r.Static("/static", "./static")

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		// Fresh secret per start just invalidates browser cookies, the
		// remote token survives in the local store.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("generate session secret: %v", err)
		}
	}
	r.Use(sessions.Sessions("desk_session", cookie.NewStore(secret)))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.AuthMiddleware(store))

	registerRoutes(r, h)

	zap.S().Infow("cssocial desk listening", "addr", cfg.ListenAddr, "api", cfg.APIBaseURL, "version", config.AppVersion)
	if err := r.Run(cfg.ListenAddr); err != nil {
		zap.S().Fatalw("server stopped", "error", err)
	}
}

// restoreSession rebuilds the signed-in session from the stored token
// so a restart does not force a fresh login. The profile is refetched
// in the background; until then the stored identity is enough to
// render.
func restoreSession(cfg *config.AppConfig, store *localdb.Store, api *remote.Client, pinStore *pins.Store, state *handlers.SessionState) {
	if store == nil || cfg.KeyB64Err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	viewerID, username, token, err := authhelp.LoadSessionToken(ctx, store, cfg.TokenKey)
	if err != nil || token == "" {
		return
	}

	viewer := remote.User{ID: viewerID, Username: username}
	state.Set(token, interact.NewSession(api, pinStore, viewer, nil))
	zap.S().Infow("session restored", "username", username)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if sess := state.Current(); sess != nil {
			if err := sess.RefreshViewer(ctx); err != nil {
				zap.S().Warnw("restored session not refreshed", "error", err)
			}
		}
	}()
}

func registerRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", h.HealthCheckHandler)

	r.GET("/login", h.LoginViewHandler)
	r.POST("/login", h.LoginSubmitHandler)
	r.GET("/register", h.RegisterViewHandler)
	r.POST("/register", h.RegisterSubmitHandler)
	r.POST("/register/resend", h.ResendVerificationHandler)
	r.GET("/logout", h.LogoutHandler)
	r.GET("/unlock", h.UnlockViewHandler)
	r.POST("/unlock", h.UnlockSubmitHandler)

	r.GET("/", h.RootHandler)

	r.POST("/posts", h.PostCreateHandler)
	r.GET("/posts/:id", h.PostViewHandler)
	r.GET("/posts/:id/edit", h.PostEditViewHandler)
	r.POST("/posts/:id/edit", h.PostEditSubmitHandler)
	r.POST("/posts/:id/delete", h.PostDeleteHandler)
	r.POST("/posts/:id/like", h.PostLikeHandler)
	r.POST("/posts/:id/pin", h.PostPinHandler)

	r.POST("/posts/:id/comments", h.CommentAddHandler)
	r.POST("/posts/:id/comments/:commentId/edit", h.CommentEditHandler)
	r.POST("/posts/:id/comments/:commentId/delete", h.CommentDeleteHandler)

	r.GET("/users/:id", h.ProfileHandler)
	r.POST("/users/:id/follow", h.FollowToggleHandler)
	r.GET("/people", h.PeopleHandler)
	r.GET("/friends", h.FriendsHandler)
	r.GET("/messages", h.ConversationsHandler)

	r.GET("/settings", h.SettingsViewHandler)
	r.GET("/settings/export/posts", h.ExportPostsHandler)
	r.POST("/settings/profile", h.ProfileUpdateHandler)
	r.POST("/settings/lock", h.AppLockUpdateHandler)
	r.POST("/settings/refresh", h.RefreshNowHandler)
	r.POST("/settings/refresher", h.RefresherToggleHandler)
}
