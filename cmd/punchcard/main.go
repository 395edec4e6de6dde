package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nalvarenga/punchcard/internal/cli"
	"github.com/nalvarenga/punchcard/internal/config"
	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/nalvarenga/punchcard/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDBDir(); err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	templateRepo := repository.NewSQLiteTemplateRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	attendanceRepo := repository.NewSQLiteAttendanceRepo(database)
	leaveRepo := repository.NewSQLiteLeaveRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Optional use-case log
	var observers []service.UseCaseObserver
	if cfg.LogPath != "" {
		logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
		observers = append(observers, service.NewLogUseCaseObserver(logFile))
	}

	taskOpts := []service.TaskServiceOption{}
	for _, obs := range observers {
		taskOpts = append(taskOpts, service.WithTaskObserver(obs))
	}

	app := &cli.App{
		Attendance: service.NewAttendanceService(attendanceRepo, uow, observers...),
		Tasks:      service.NewTaskService(taskRepo, userRepo, uow, taskOpts...),
		Leave:      service.NewLeaveService(leaveRepo, observers...),
		Templates:  service.NewTemplateService(templateRepo),
		Users:      service.NewUserService(userRepo),

		DefaultUsername: cfg.Username,
	}

	// Detect interactive terminal for forms and the live board.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
