package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/cbo-qa/cbo-smoke/api/v1"
	"github.com/cbo-qa/cbo-smoke/internal/audit"
	"github.com/cbo-qa/cbo-smoke/internal/config"
	"github.com/cbo-qa/cbo-smoke/internal/handlers"
	"github.com/cbo-qa/cbo-smoke/internal/models"
	"github.com/cbo-qa/cbo-smoke/internal/server"
	"github.com/cbo-qa/cbo-smoke/internal/services"
	"github.com/cbo-qa/cbo-smoke/internal/store"
	"github.com/cbo-qa/cbo-smoke/internal/store/migrations"
	"github.com/cbo-qa/cbo-smoke/pkg/scheduler"
	"github.com/cbo-qa/cbo-smoke/test"
)

// LocalInfraManager runs everything in the test process.
type LocalInfraManager struct {
	cbo *test.FakeCBO

	db     *sql.DB
	sched  *scheduler.Scheduler[*models.ResolvedRecord]
	cancel context.CancelFunc
	done   chan error
}

func NewLocalInfraManager() *LocalInfraManager {
	return &LocalInfraManager{}
}

func (l *LocalInfraManager) StartCBO(addr string) (string, error) {
	fake, err := test.NewFakeCBO(addr)
	if err != nil {
		return "", err
	}
	l.cbo = fake
	return fake.BaseURL(), nil
}

func (l *LocalInfraManager) StopCBO() error {
	if l.cbo == nil {
		return nil
	}
	return l.cbo.Stop()
}

// CBO exposes the fake for assertions on received requests.
func (l *LocalInfraManager) CBO() *test.FakeCBO {
	return l.cbo
}

func (l *LocalInfraManager) StartFixtureAPI(fc FixtureConfig) (string, error) {
	cfg, err := config.NewConfigurationWithDefaults()
	if err != nil {
		return "", err
	}
	cfg.Database.Driver = config.DriverDuckDB
	cfg.Server.HTTPPort = fc.Port
	cfg.TestData.Path = fc.WorkbookPath
	cfg.Audit.Directory = fc.AuditDir

	db, err := store.Open(cfg.Database)
	if err != nil {
		return "", err
	}
	if err := migrations.Run(context.Background(), db); err != nil {
		_ = db.Close()
		return "", err
	}
	st := store.NewStore(db, store.DuckDB)

	sched := scheduler.NewScheduler[*models.ResolvedRecord](1)
	seeder := services.NewSeeder(cfg.Database, st, nil, nil, audit.NewLogger(cfg.Audit.Directory))
	h := handlers.New(services.NewFixtureService(cfg.TestData.Path, seeder, st, sched))

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, h)
	})
	if err != nil {
		sched.Close()
		_ = db.Close()
		return "", err
	}
	if err := srv.Listen(); err != nil {
		sched.Close()
		_ = db.Close()
		return "", err
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.db, l.sched, l.cancel = db, sched, cancel
	l.done = make(chan error, 1)
	go func() { l.done <- srv.Start(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d", srv.Port())
	zap.S().Infow("fixture api started", "url", url)
	return url, nil
}

func (l *LocalInfraManager) StopFixtureAPI() error {
	if l.cancel == nil {
		return nil
	}
	l.cancel()
	err := <-l.done
	l.sched.Close()
	return errors.Join(err, l.db.Close())
}
