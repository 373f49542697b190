package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	completeWithPaymentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/complete_with_payment"
	createAppointmentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_availability"
	getCustomerHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/get_customer"
	listAppointmentsHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/list_appointments"
	registerCustomerHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/register_customer"
	setAppointmentStatusHandler "github.com/m04kA/SMC-AgendaService/internal/api/handlers/set_appointment_status"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/config"
	"github.com/m04kA/SMC-AgendaService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/customer"
	ledgerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/ledger"
	scheduleRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AgendaService/internal/integrations/eventbus"
	appointmentsService "github.com/m04kA/SMC-AgendaService/internal/service/appointments"
	"github.com/m04kA/SMC-AgendaService/internal/service/availability"
	customersService "github.com/m04kA/SMC-AgendaService/internal/service/customers"
	completeWithPaymentUC "github.com/m04kA/SMC-AgendaService/internal/usecase/complete_with_payment"
	createBookingUC "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-AgendaService/internal/usecase/get_availability"
	setAppointmentStatusUC "github.com/m04kA/SMC-AgendaService/internal/usecase/set_appointment_status"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/metrics"
	"github.com/m04kA/SMC-AgendaService/pkg/txmanager"
)

type eventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
	Close() error
}

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.toml"), "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AgendaService...")
	log.Info("Configuration loaded from %s (timezone=%s, granularity=%dm)",
		*configPath, cfg.Scheduling.Timezone, cfg.Scheduling.SlotGranularityMinutes)

	location := cfg.Scheduling.Location()

	// Инициализируем метрики (если включены); nil-коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка по специалисту (Redis) или только БД
	var locker lock.ProfessionalLocker = lock.NoopLocker{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis ping failed, bookings fall back to database serialization while it is unreachable: %v", err)
		}
		cancel()

		locker = lock.NewRedisLocker(
			redisClient,
			time.Duration(cfg.Redis.LockTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.LockWaitMillis)*time.Millisecond,
		)
		log.Info("Professional lock enabled (redis=%s, ttl=%ds, wait=%dms)",
			cfg.Redis.Addr, cfg.Redis.LockTTLSeconds, cfg.Redis.LockWaitMillis)
	}

	// Публикация событий записи
	var publisher eventPublisher = eventbus.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = eventbus.NewKafkaPublisher(eventbus.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		log.Info("Event publishing enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Инициализируем репозитории
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	ledgerRepository := ledgerRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	availabilitySvc := availability.NewService(
		scheduleRepository,
		appointmentRepository,
		availability.Settings{
			Location:           location,
			GranularityMinutes: cfg.Scheduling.SlotGranularityMinutes,
		},
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		publisher,
		location,
		log,
	)
	customersSvc := customersService.NewService(
		customerRepository,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		catalogRepository,
		availabilitySvc,
		metricsCollector,
		getAvailabilityUC.Settings{
			DefaultDurationMinutes:  cfg.Scheduling.DefaultDurationMinutes,
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		catalogRepository,
		appointmentRepository,
		availabilitySvc,
		locker,
		txMgr,
		publisher,
		metricsCollector,
		createBookingUC.Settings{
			RejectPast:              cfg.Scheduling.RejectPast(),
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
		},
		log,
	)

	setAppointmentStatusUseCase := setAppointmentStatusUC.NewUseCase(
		appointmentRepository,
		publisher,
		metricsCollector,
		log,
	)

	completeWithPaymentUseCase := completeWithPaymentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		customerRepository,
		ledgerRepository,
		publisher,
		metricsCollector,
		completeWithPaymentUC.Settings{Location: location},
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createBookingUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)
	setAppointmentStatus := setAppointmentStatusHandler.NewHandler(setAppointmentStatusUseCase, log)
	completeWithPayment := completeWithPaymentHandler.NewHandler(completeWithPaymentUseCase, log)
	registerCustomer := registerCustomerHandler.NewHandler(customersSvc, log)
	getCustomer := getCustomerHandler.NewHandler(customersSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Доступность ---
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{appointmentId}/status", setAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/complete", completeWithPayment.Handle).Methods(http.MethodPost)

	// --- Клиенты ---
	api.HandleFunc("/customers", registerCustomer.Handle).Methods(http.MethodPost)
	api.HandleFunc("/customers/{phone}", getCustomer.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
