// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	discussionstore "github.com/agorahub/agorahub/internal/app/store/discussions"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	leasestore "github.com/agorahub/agorahub/internal/app/store/leases"
	membershipstore "github.com/agorahub/agorahub/internal/app/store/memberships"
	readmarkerstore "github.com/agorahub/agorahub/internal/app/store/readmarkers"
	"github.com/agorahub/agorahub/internal/app/system/digest"
	"github.com/agorahub/agorahub/internal/app/system/mailer"
	"github.com/agorahub/agorahub/internal/app/system/tasks"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appMailer and taskRunner are built in Startup and reused by
// BuildHandler and Shutdown.
var (
	appMailer  *mailer.Mailer
	taskRunner *tasks.Runner
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It builds the mailer and starts the background digest scheduler.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.ConfigureFromEnv()

	appMailer = mailer.New(
		appCfg.MailSMTPHost,
		appCfg.MailSMTPPort,
		appCfg.MailSMTPUser,
		appCfg.MailSMTPPass,
		appCfg.MailFrom,
		appCfg.MailFromName,
		logger,
	)

	db := deps.MongoDatabase
	leases := leasestore.New(db)

	sched := digest.NewScheduler(digest.Config{
		Registry:    membershipstore.New(db),
		Discussions: discussionstore.New(db),
		Markers:     readmarkerstore.New(db),
		Groups:      groupstore.New(db),
		Sender:      mailer.NewDigestSender(appMailer, appCfg.SiteName, appCfg.BaseURL),
		Lease:       leases,
		MinInterval: appCfg.DigestInterval,
		LeaseTTL:    appCfg.DigestLeaseTTL,
		Workers:     appCfg.DigestWorkers,
		Logger:      logger,
	})

	taskRunner = tasks.NewRunner(logger,
		tasks.DigestJob(sched, appCfg.DigestRunEvery, logger),
		tasks.LeaseSweepJob(leases, logger),
	)
	taskRunner.Start()

	logger.Info("digest scheduler started",
		zap.Duration("run_every", appCfg.DigestRunEvery),
		zap.Duration("min_interval", appCfg.DigestInterval),
		zap.Int("workers", appCfg.DigestWorkers))

	return nil
}
