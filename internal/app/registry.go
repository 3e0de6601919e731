package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-timeclock/internal/job"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/punch"
	"go-timeclock/internal/rbac"
	"go-timeclock/internal/shift"
	"go-timeclock/internal/timeoff"
	"go-timeclock/internal/timesheet"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	jobRepo := job.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	punchRepo := punch.NewRepository(gormDB)
	timeoffRepo := timeoff.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	punchService := punch.NewServiceWithOutbox(db, punchRepo, jobRepo, outboxRepo)
	timeoffService := timeoff.NewService(db, timeoffRepo)
	timesheetService := timesheet.NewService(punchRepo, timeoffRepo, jobRepo, shiftRepo)

	// --- Handlers ---
	punchHandler := punch.NewHandlerWithRedis(punchService, rdb)
	timeoffHandler := timeoff.NewHandler(timeoffService)
	timesheetHandler := timesheet.NewHandler(timesheetService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		punch.RegisterRoutes(api, punchHandler, rbacService, rdb)
		timeoff.RegisterRoutes(api, timeoffHandler, rbacService)
		timesheet.RegisterRoutes(api, timesheetHandler, rbacService)
	}

	return nil
}
