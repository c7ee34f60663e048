package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/config"
	"github.com/medtrack/medrecord-api/internal/email"
	analyticshandler "github.com/medtrack/medrecord-api/internal/handler/analytics"
	appointmenthandler "github.com/medtrack/medrecord-api/internal/handler/appointment"
	doctorhandler "github.com/medtrack/medrecord-api/internal/handler/doctor"
	healthdatahandler "github.com/medtrack/medrecord-api/internal/handler/healthdata"
	notificationhandler "github.com/medtrack/medrecord-api/internal/handler/notification"
	organhandler "github.com/medtrack/medrecord-api/internal/handler/organ"
	patienthandler "github.com/medtrack/medrecord-api/internal/handler/patient"
	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository/postgres"
	"github.com/medtrack/medrecord-api/internal/router"
	analyticssvc "github.com/medtrack/medrecord-api/internal/service/analytics"
	appointmentsvc "github.com/medtrack/medrecord-api/internal/service/appointment"
	doctorsvc "github.com/medtrack/medrecord-api/internal/service/doctor"
	healthsvc "github.com/medtrack/medrecord-api/internal/service/health"
	notificationsvc "github.com/medtrack/medrecord-api/internal/service/notification"
	organsvc "github.com/medtrack/medrecord-api/internal/service/organ"
	patientsvc "github.com/medtrack/medrecord-api/internal/service/patient"
	"github.com/medtrack/medrecord-api/pkg/logger"
	redisbroker "github.com/medtrack/medrecord-api/pkg/messaging/redis"
	"github.com/medtrack/medrecord-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to message broker")
	}
	defer broker.Close()

	m := metrics.New("medrecord")

	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	healthRepo := postgres.NewHealthDataRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	organRepo := postgres.NewOrganRepository(db)

	var sender notificationsvc.EmailSender
	if cfg.SMTP.Enabled {
		sender = email.NewSender(cfg.SMTP, log)
	}
	resolver := func(ctx context.Context, recipientType model.RecipientType, id uuid.UUID) (string, error) {
		if recipientType == model.RecipientDoctor {
			doctor, err := doctorRepo.Get(ctx, id)
			if err != nil {
				return "", err
			}
			return doctor.Email, nil
		}
		patient, err := patientRepo.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return patient.Email, nil
	}

	notificationService := notificationsvc.NewService(notificationRepo, broker, sender, resolver, m, log)
	healthService := healthsvc.NewService(healthRepo, patientRepo, notificationService, m, log)
	patientService := patientsvc.NewService(patientRepo, appointmentRepo, healthRepo, doctorRepo, log)
	doctorService := doctorsvc.NewService(doctorRepo, log)
	appointmentService := appointmentsvc.NewService(appointmentRepo, patientRepo, doctorRepo, m, log)
	analyticsService := analyticssvc.NewService(healthRepo, patientRepo, doctorRepo, appointmentRepo, m, log)
	organService := organsvc.NewService(organRepo, healthRepo, log)

	engine := router.New(cfg, log, db, router.Handlers{
		Patient:      patienthandler.NewHandler(patientService),
		Doctor:       doctorhandler.NewHandler(doctorService),
		Appointment:  appointmenthandler.NewHandler(appointmentService),
		HealthData:   healthdatahandler.NewHandler(healthService),
		Notification: notificationhandler.NewHandler(notificationService),
		Organ:        organhandler.NewHandler(organService),
		Analytics:    analyticshandler.NewHandler(analyticsService),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
	log.Info("server stopped")
}
