package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"amanah-mortgage-backend/internal/adapter/docstore"
	"amanah-mortgage-backend/internal/adapter/eligibility"
	httpadp "amanah-mortgage-backend/internal/adapter/http"
	"amanah-mortgage-backend/internal/adapter/middleware"
	"amanah-mortgage-backend/internal/adapter/notify"
	"amanah-mortgage-backend/internal/adapter/repository/mysql"
	"amanah-mortgage-backend/internal/config"
	acctDomain "amanah-mortgage-backend/internal/domain/account"
	"amanah-mortgage-backend/internal/infrastructure/cache"
	"amanah-mortgage-backend/internal/infrastructure/db"
	ucAccount "amanah-mortgage-backend/internal/usecase/account"
	ucApplication "amanah-mortgage-backend/internal/usecase/application"
	"amanah-mortgage-backend/pkg/clock"
	"amanah-mortgage-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = zlog.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		zlog.Fatal("mysql connect failed", zap.Error(err))
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		zlog.Fatal("redis connect failed", zap.Error(err))
	}

	apps := mysql.NewApplicationRepository(gdb)
	accts := mysql.NewAccountRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	notifier := notify.NewRetryQueue(notify.NewLogNotifier(zlog), rdb, zlog)
	verifier := eligibility.NewLocalVerifier(cfg.MaxDebtToIncome)
	docs := docstore.New(apps)
	clk := clock.System()

	appUC := ucApplication.NewUsecase(apps, tx, docs, verifier, notifier, clk, zlog, ucApplication.Params{
		MinEquityRatio:    cfg.MinEquityRatio,
		OfferValidityDays: cfg.OfferValidityDays,
	})
	acctUC := ucAccount.NewUsecase(accts, tx, notifier, clk, zlog, acctDomain.MonitorConfig{
		DefaultAfterDays: cfg.ArrearsDefaultDays,
		PenaltyDailyRate: cfg.PenaltyDailyRate,
	}, cfg.TickWorkers)

	h := httpadp.NewHandler()
	appH := httpadp.NewApplicationHandler(appUC)
	acctH := httpadp.NewAccountHandler(acctUC)
	opsH := httpadp.NewOpsHandler(appUC, acctUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idem := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, zlog)

	// routes
	e.GET("/health", h.Health)

	e.POST("/applications", appH.Create, idem)
	e.GET("/applications/:application_id", appH.Get)
	e.POST("/applications/:application_id/documents", appH.UpsertDocument, idem)
	e.POST("/applications/:application_id/transitions", appH.Transition, idem)
	e.GET("/applications/:application_id/transitions", appH.ListTransitions)

	e.GET("/accounts/:account_id", acctH.GetStatus)
	e.GET("/accounts/:account_id/schedule", acctH.GetSchedule)
	e.POST("/accounts/:account_id/payments", acctH.RecordPayment, idem)
	e.POST("/accounts/:account_id/restructure", acctH.Restructure, idem)
	e.POST("/accounts/:account_id/status", acctH.SetStatus, idem)

	// cron-facing sweep: offer expiry + account reclassification
	e.POST("/ops/tick", opsH.Tick)

	addr := ":" + cfg.AppPort
	zlog.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
