package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-AgendaService/internal/config"
	"github.com/m04kA/SMC-AgendaService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/customer"
	scheduleRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
	"github.com/m04kA/SMC-AgendaService/pkg/txmanager"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

type seedService struct {
	code     string
	name     string
	duration int
	price    float64
}

var catalog = []seedService{
	{code: "haircut", name: "Corte de cabelo", duration: 30, price: 60},
	{code: "beard", name: "Barba", duration: 20, price: 35},
	{code: "coloring", name: "Coloração", duration: 90, price: 180},
	{code: "manicure", name: "Manicure", duration: 45, price: 40},
	{code: "pedicure", name: "Pedicure", duration: 45, price: 45},
	{code: "massage", name: "Massagem relaxante", duration: 60, price: 120},
}

var specialties = []string{"Cabeleireiro", "Barbeiro", "Manicure", "Massoterapeuta", "Colorista"}

type seeder struct {
	catalog      *catalogRepo.Repository
	schedules    *scheduleRepo.Repository
	customers    *customerRepo.Repository
	appointments *appointmentRepo.Repository
	location     *time.Location
	log          *logger.Logger

	services     map[int64]seedService
	capabilities []*domain.Capability
	seeded       []*domain.Customer
}

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.toml"), "path to config file")
	professionals := flag.Int("professionals", 5, "number of professionals")
	customers := flag.Int("customers", 50, "number of customers")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.Wrap(db, nil)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	s := &seeder{
		catalog:      catalogRepo.NewRepository(wrappedDB),
		schedules:    scheduleRepo.NewRepository(wrappedDB),
		customers:    customerRepo.NewRepository(wrappedDB),
		appointments: appointmentRepo.NewRepository(wrappedDB),
		location:     cfg.Scheduling.Location(),
		log:          log,
		services:     make(map[int64]seedService),
	}

	gofakeit.Seed(*seed)
	log.Info("Seeding database (seed=%d, professionals=%d, customers=%d)", *seed, *professionals, *customers)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err = txMgr.Do(ctx, func(ctx context.Context) error {
		if err := s.seedBusinessHours(ctx); err != nil {
			return err
		}
		serviceIDs, err := s.seedServices(ctx)
		if err != nil {
			return err
		}
		if err := s.seedProfessionals(ctx, *professionals, serviceIDs); err != nil {
			return err
		}
		if err := s.seedCustomers(ctx, *customers); err != nil {
			return err
		}
		return s.seedAppointments(ctx, time.Now())
	})
	if err != nil {
		log.Fatal("Seed failed: %v", err)
	}

	log.Info("Seed complete")
}

// seedBusinessHours пн-пт 09:00-18:00, сб 09:00-13:00, вс закрыто
func (s *seeder) seedBusinessHours(ctx context.Context) error {
	for day := time.Sunday; day <= time.Saturday; day++ {
		bh := &domain.BusinessHours{DayOfWeek: day}
		switch day {
		case time.Sunday:
			bh.IsOpen = false
		case time.Saturday:
			bh.IsOpen = true
			bh.OpenTime = ptr.Ptr(types.MustTimeString("09:00"))
			bh.CloseTime = ptr.Ptr(types.MustTimeString("13:00"))
		default:
			bh.IsOpen = true
			bh.OpenTime = ptr.Ptr(types.MustTimeString("09:00"))
			bh.CloseTime = ptr.Ptr(types.MustTimeString("18:00"))
		}
		if err := s.schedules.UpsertBusinessHours(ctx, bh); err != nil {
			return fmt.Errorf("business hours %s: %w", day, err)
		}
	}
	s.log.Info("Business hours seeded")
	return nil
}

func (s *seeder) seedServices(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(catalog))
	for _, item := range catalog {
		created, err := s.catalog.CreateService(ctx, &domain.Service{
			Code:                   item.code,
			Name:                   item.name,
			DefaultDurationMinutes: item.duration,
			Price:                  item.price,
		})
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", item.code, err)
		}
		ids = append(ids, created.ID)
		s.services[created.ID] = item
	}
	s.log.Info("Services seeded: %d", len(ids))
	return ids, nil
}

// seedProfessionals создаёт специалистов со сменами и набором услуг
// У части специалистов смена разделена обедом, у части есть собственная длительность услуги
func (s *seeder) seedProfessionals(ctx context.Context, count int, serviceIDs []int64) error {
	for i := 0; i < count; i++ {
		prof, err := s.catalog.CreateProfessional(ctx, &domain.Professional{
			Code:      fmt.Sprintf("PRO-%03d", i+1),
			Name:      gofakeit.Name(),
			Specialty: ptr.Ptr(specialties[gofakeit.Number(0, len(specialties)-1)]),
		})
		if err != nil {
			return fmt.Errorf("professional %d: %w", i+1, err)
		}

		splitShift := gofakeit.Bool()
		for day := time.Monday; day <= time.Saturday; day++ {
			shifts := [][2]string{{"09:00", "18:00"}}
			if day == time.Saturday {
				shifts = [][2]string{{"09:00", "13:00"}}
			} else if splitShift {
				shifts = [][2]string{{"09:00", "12:00"}, {"13:00", "18:00"}}
			}
			for _, shift := range shifts {
				_, err := s.schedules.CreateWeeklySchedule(ctx, &domain.WeeklySchedule{
					ProfessionalID: prof.ID,
					DayOfWeek:      day,
					StartTime:      types.MustTimeString(shift[0]),
					EndTime:        types.MustTimeString(shift[1]),
					IsActive:       true,
				})
				if err != nil {
					return fmt.Errorf("schedule professional=%d day=%s: %w", prof.ID, day, err)
				}
			}
		}

		for _, serviceID := range serviceIDs {
			if !gofakeit.Bool() {
				continue
			}
			capability := &domain.Capability{
				ProfessionalID: prof.ID,
				ServiceID:      serviceID,
				IsActive:       true,
			}
			if gofakeit.Number(1, 4) == 1 {
				capability.CustomDurationMinutes = ptr.Ptr(gofakeit.Number(2, 6) * 15)
			}
			if _, err := s.catalog.CreateCapability(ctx, capability); err != nil {
				return fmt.Errorf("capability professional=%d service=%d: %w", prof.ID, serviceID, err)
			}
			s.capabilities = append(s.capabilities, capability)
		}
	}
	s.log.Info("Professionals seeded: %d", count)
	return nil
}

func (s *seeder) seedCustomers(ctx context.Context, count int) error {
	for i := 0; i < count; i++ {
		customer, err := s.customers.Upsert(ctx, &domain.Customer{
			Name:  gofakeit.Name(),
			Phone: domain.NormalizePhone("55" + gofakeit.Phone()),
		})
		if err != nil {
			return fmt.Errorf("customer %d: %w", i+1, err)
		}
		s.seeded = append(s.seeded, customer)
	}
	s.log.Info("Customers seeded: %d", count)
	return nil
}

// seedAppointments по одной записи на 10:00 ближайшего рабочего дня (пн-пт) для каждой связи специалист-услуга,
// пока хватает клиентов; у одного специалиста записи идут подряд без пересечений
func (s *seeder) seedAppointments(ctx context.Context, now time.Time) error {
	if len(s.seeded) == 0 {
		return nil
	}

	day := now.In(s.location).AddDate(0, 0, 1)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	opening := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, s.location)

	next := make(map[int64]time.Time)
	created := 0
	for i, capability := range s.capabilities {
		if i >= len(s.seeded) {
			break
		}
		start, ok := next[capability.ProfessionalID]
		if !ok {
			start = opening
		}
		duration := domain.EffectiveDuration(&domain.Service{DefaultDurationMinutes: s.services[capability.ServiceID].duration}, capability)
		end := start.Add(time.Duration(duration) * time.Minute)
		// Утренняя смена у части специалистов заканчивается в 12:00
		if end.After(time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, s.location)) {
			continue
		}

		customer := s.seeded[i]
		_, err := s.appointments.Create(ctx, &domain.Appointment{
			CustomerName:   customer.Name,
			CustomerPhone:  customer.Phone,
			ServiceID:      capability.ServiceID,
			ProfessionalID: capability.ProfessionalID,
			StartTime:      start,
			EndTime:        end,
			Status:         domain.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("appointment professional=%d: %w", capability.ProfessionalID, err)
		}
		next[capability.ProfessionalID] = end.Add(30 * time.Minute).Truncate(30 * time.Minute)
		created++
	}
	s.log.Info("Appointments seeded: %d on %s", created, day.Format(domain.DateFormat))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
