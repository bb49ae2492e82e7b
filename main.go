package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adammarchelino/portfolio/config"
	"github.com/adammarchelino/portfolio/controller"
	"github.com/adammarchelino/portfolio/dao"
	_ "github.com/adammarchelino/portfolio/docs"
	"github.com/adammarchelino/portfolio/identity"
	"github.com/adammarchelino/portfolio/log"
	"github.com/adammarchelino/portfolio/service"
	"github.com/adammarchelino/portfolio/site"
	"github.com/adammarchelino/portfolio/store"
	"github.com/adammarchelino/portfolio/util"
	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Portfolio HTTP API
// @description Contact form and live message feed of the portfolio site

// @contact.name Adam Marchelino

func main() {
	//bootstrap logger until the configured level is known
	if err := log.Init("info"); err != nil {
		log.Fatal("Error initializing logger", err)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration", err)
		return
	}

	if err := log.Init(cfg.LogLevel); err != nil {
		log.Fatal("Error initializing logger", err)
		return
	}
	defer zap.L().Sync()

	//create db client
	dbClient, err := dao.GetClient(cfg.DbPath)
	if err != nil {
		log.Fatal("Error opening database", err)
		return
	}

	messageStore := store.NewStore(dao.NewMessageDao(dbClient))
	clk := clock.New()

	issuer := identity.NewIssuer(
		cfg.ApiKey,
		cfg.AuthDomain,
		cfg.ProjectId,
		cfg.SessionTTL,
		rate.NewLimiter(rate.Limit(cfg.SessionRate), cfg.SessionRate),
		clk,
	)

	templates, err := site.LoadTemplates()
	if err != nil {
		log.Fatal("Error parsing templates", err)
		return
	}

	portfolioService := service.NewService(messageStore, issuer, clk, site.Default, service.Options{
		Collection:       cfg.MessagesCollection,
		StatusClearDelay: cfg.StatusClearDelay,
		IdentityTimeout:  cfg.IdentityTimeout,
		IdleTTL:          cfg.SessionIdleTTL,
		Sweep:            cfg.SessionSweep,
		Webhook:          cfg.NotifyWebhook,
		MaxVisitors:      cfg.MaxVisitors,
	})

	//attach http handlers
	e := echo.New()
	e.HideBanner = true
	e.Renderer = controller.NewRenderer(templates)
	e.Use(middleware.Recover())
	e.Use(controller.RequestLogger())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if err := bindStatic(e, cfg.StaticDir); err != nil {
		log.Fatal("Error serving assets", err)
		return
	}
	bindRoutes(e, portfolioService, cfg.CookieDomain())

	//start http server
	go func() {
		if err := e.Start(":" + cfg.HttpPort); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting http server", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.WarnIfErr("Error stopping http server", e.Shutdown(shutdownCtx))

	portfolioService.Close()
	messageStore.Close()
	log.WarnIfErr("Error closing database", dbClient.Close())
}

func bindStatic(e *echo.Echo, staticDir string) error {
	assets, err := fs.Sub(site.Assets, "assets")
	if err != nil {
		return err
	}
	e.GET("/assets/*", echo.WrapHandler(http.StripPrefix("/assets/", http.FileServer(http.FS(assets)))))

	if !util.FileExists(staticDir) {
		zap.L().Warn("Static directory not found, profile photo and gallery images will be missing", zap.String("dir", staticDir))
		return nil
	}
	e.Static("/static", staticDir)

	return nil
}

func bindRoutes(e *echo.Echo, service service.Service, cookieDomain string) {
	withSession := controller.Session(service, cookieDomain)

	e.GET("/healthz", controller.GetHealthFunc())

	e.GET("/", controller.GetPageFunc(service), withSession)
	e.POST("/contact", controller.GetContactFormFunc(service), withSession)
	e.POST("/menu/toggle", controller.GetToggleMenuFunc(service), withSession)
	e.GET("/section/:id", controller.GetScrollToFunc(service), withSession)

	e.GET("/api/contact", controller.GetContactFunc(service), withSession)
	e.POST("/api/contact", controller.GetSubmitContactFunc(service), withSession)
	e.GET("/api/contact/events", controller.GetContactEventsFunc(service), withSession)
	e.POST("/api/session/signout", controller.GetSignOutFunc(service), withSession)
}
