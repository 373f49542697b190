package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AgendaService/internal/service/availability"
	"github.com/m04kA/SMC-AgendaService/pkg/pgerr"
)

// UseCase use case получения доступности на дату
type UseCase struct {
	catalogRepo  CatalogRepository
	availability AvailabilityService
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	availabilityService AvailabilityService,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.DefaultDurationMinutes <= 0 {
		settings.DefaultDurationMinutes = domain.DefaultDurationMinutes
	}
	return &UseCase{
		catalogRepo:  catalogRepo,
		availability: availabilityService,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// candidates специалисты, для которых строятся слоты, и их длительности
type candidates struct {
	ids       []int64
	durations map[int64]int
	// notCapable выбранный специалист не оказывает выбранную услугу
	notCapable bool
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailability: date=%s, service=%s, professional=%s",
		req.Date.Format(domain.DateFormat), formatID(req.ServiceID), formatID(req.ProfessionalID))

	// 1. Загружаем услугу, если указана
	var service *domain.Service
	if req.ServiceID != nil {
		svc, err := uc.catalogRepo.GetService(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailability: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailability: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, storeError("get service", err)
		}
		service = svc
	}

	// 2. Проверяем специалиста, если указан
	if req.ProfessionalID != nil {
		if _, err := uc.catalogRepo.GetProfessional(ctx, *req.ProfessionalID); err != nil {
			if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
				uc.logger.Warn("GetAvailability: professional id=%d not found", *req.ProfessionalID)
				return nil, ErrProfessionalNotFound
			}
			uc.logger.Error("GetAvailability: failed to get professional id=%d: %v", *req.ProfessionalID, err)
			return nil, storeError("get professional", err)
		}
	}

	// 3. Определяем специалистов и длительность услуги у каждого
	cand, err := uc.resolveCandidates(ctx, req, service)
	if err != nil {
		return nil, err
	}

	// 4. Разрешаем рабочие окна дня
	plan, err := uc.availability.Plan(ctx, req.Date, cand.ids)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to resolve working windows: %v", err)
		return nil, storeError("resolve working windows", err)
	}
	uc.metrics.IncAvailabilityCheck(string(plan.ResolvedVia))

	// 5. Строим свободные слоты; на сегодня отсекаем уже прошедшее время
	notBefore := uc.timeProvider.Now().Add(time.Duration(uc.settings.MinBookingNoticeMinutes) * time.Minute)
	free, err := uc.availability.FreeSlots(ctx, plan, cand.durations, notBefore)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDuration) {
			uc.logger.Warn("GetAvailability: non-positive duration configured: %v", err)
			return nil, ErrInvalidDuration
		}
		uc.logger.Error("GetAvailability: failed to build slots: %v", err)
		return nil, storeError("build slots", err)
	}

	resp := uc.buildResponse(req, service, plan, cand, free)

	uc.logger.Info("GetAvailability: date=%s open=%t via=%s slots=%d",
		req.Date.Format(domain.DateFormat), resp.IsOpen, resp.ResolvedVia, len(resp.Slots))

	return resp, nil
}

// resolveCandidates выбирает специалистов:
//   - указан специалист: только он (и он должен оказывать услугу, если она указана);
//   - указана только услуга: все специалисты с активной связью с услугой;
//   - ничего не указано: все специалисты.
func (uc *UseCase) resolveCandidates(ctx context.Context, req *Request, service *domain.Service) (*candidates, error) {
	cand := &candidates{durations: make(map[int64]int)}

	durationFor := func(capability *domain.Capability) int {
		if req.DurationMinutes != nil {
			return *req.DurationMinutes
		}
		if service != nil {
			return domain.EffectiveDuration(service, capability)
		}
		return uc.settings.DefaultDurationMinutes
	}

	switch {
	case req.ProfessionalID != nil && service != nil:
		capability, err := uc.catalogRepo.GetActiveCapability(ctx, *req.ProfessionalID, service.ID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrCapabilityNotFound) {
				uc.logger.Warn("GetAvailability: professional id=%d does not provide service id=%d",
					*req.ProfessionalID, service.ID)
				cand.notCapable = true
				return cand, nil
			}
			uc.logger.Error("GetAvailability: failed to get capability: %v", err)
			return nil, storeError("get capability", err)
		}
		cand.ids = []int64{*req.ProfessionalID}
		cand.durations[*req.ProfessionalID] = durationFor(capability)

	case req.ProfessionalID != nil:
		cand.ids = []int64{*req.ProfessionalID}
		cand.durations[*req.ProfessionalID] = durationFor(nil)

	case service != nil:
		caps, err := uc.catalogRepo.ListActiveCapabilitiesByService(ctx, service.ID)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to list capabilities for service id=%d: %v", service.ID, err)
			return nil, storeError("list capabilities", err)
		}
		for _, c := range caps {
			cand.ids = append(cand.ids, c.ProfessionalID)
			cand.durations[c.ProfessionalID] = durationFor(c)
		}

	default:
		ids, err := uc.catalogRepo.ListProfessionalIDs(ctx)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to list professionals: %v", err)
			return nil, storeError("list professionals", err)
		}
		for _, id := range ids {
			cand.ids = append(cand.ids, id)
			cand.durations[id] = durationFor(nil)
		}
	}

	return cand, nil
}

func (uc *UseCase) buildResponse(
	req *Request,
	service *domain.Service,
	plan *availability.DayPlan,
	cand *candidates,
	free map[int64][]time.Time,
) *Response {
	resp := &Response{
		Date:        plan.Date,
		ResolvedVia: plan.ResolvedVia,
		Slots:       make([]Slot, 0),
		Windows:     make([]domain.TimeRange, 0),
	}

	if req.ProfessionalID != nil {
		windows := plan.WindowsOf(*req.ProfessionalID)
		resp.Windows = append(resp.Windows, windows...)
		resp.Window = envelope(windows)
		resp.IsOpen = len(windows) > 0 && !cand.notCapable
		resp.DurationMinutes = cand.durations[*req.ProfessionalID]

		switch {
		case cand.notCapable:
			resp.ClosedReason = domain.ClosedReasonProfessionalNotCapable
		case !resp.IsOpen && plan.OrgWindow == nil:
			resp.ClosedReason = domain.ClosedReasonBusinessClosed
		case !resp.IsOpen:
			resp.ClosedReason = domain.ClosedReasonProfessionalUnavailable
		}
	} else {
		if plan.OrgWindow != nil {
			resp.Window = plan.OrgWindow
			resp.Windows = append(resp.Windows, *plan.OrgWindow)
			resp.IsOpen = true
		} else {
			resp.ClosedReason = domain.ClosedReasonBusinessClosed
		}
		resp.DurationMinutes = minDuration(cand.durations)
	}

	if resp.DurationMinutes == 0 {
		switch {
		case req.DurationMinutes != nil:
			resp.DurationMinutes = *req.DurationMinutes
		case service != nil:
			resp.DurationMinutes = service.DefaultDurationMinutes
		default:
			resp.DurationMinutes = uc.settings.DefaultDurationMinutes
		}
	}

	if !resp.IsOpen {
		return resp
	}

	for _, slot := range availability.MergeSlots(free) {
		resp.Slots = append(resp.Slots, Slot{Start: slot.Start, ProfessionalIDs: slot.ProfessionalIDs})
	}
	for _, starts := range free {
		if len(starts) > 0 {
			resp.AvailableProfessionals++
		}
	}

	return resp
}

// envelope огибающая набора окон
func envelope(windows []domain.TimeRange) *domain.TimeRange {
	if len(windows) == 0 {
		return nil
	}
	e := windows[0]
	for _, w := range windows[1:] {
		if w.Start.IsBefore(e.Start) {
			e.Start = w.Start
		}
		if w.End.IsAfter(e.End) {
			e.End = w.End
		}
	}
	return &e
}

// minDuration минимальная эффективная длительность среди специалистов
func minDuration(durations map[int64]int) int {
	result := 0
	for _, d := range durations {
		if result == 0 || d < result {
			result = d
		}
	}
	return result
}

func storeError(op string, err error) error {
	if pgerr.IsTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrTransientStore, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

func formatID(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
