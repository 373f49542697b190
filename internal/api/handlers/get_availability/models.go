package get_availability

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AgendaService/internal/usecase/get_availability"
)

var (
	errMissingDate     = errors.New("missing date")
	errInvalidDate     = errors.New("invalid date")
	errInvalidService  = errors.New("invalid serviceId")
	errInvalidProf     = errors.New("invalid professionalId")
	errInvalidDuration = errors.New("invalid duration")
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date                   string       `json:"date"`
	IsOpen                 bool         `json:"isOpen"`
	ClosedReason           string       `json:"closedReason,omitempty"`
	ResolvedVia            string       `json:"resolvedVia"`
	Window                 *TimeWindow  `json:"window"`
	Windows                []TimeWindow `json:"windows"`
	DurationMinutes        int          `json:"durationMinutes"`
	Slots                  []string     `json:"slots"` // "HH:MM"
	SlotDetails            []SlotModel  `json:"slotDetails"`
	AvailableProfessionals int          `json:"availableProfessionals"`
}

// TimeWindow окно времени суток
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotModel слот со специалистами, которые свободны в это время
type SlotModel struct {
	Time            string  `json:"time"`
	StartTime       string  `json:"startTime"` // RFC3339
	ProfessionalIDs []int64 `json:"professionalIds"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(q url.Values) (*getAvailability.Request, error) {
	dateStr := q.Get("date")
	if dateStr == "" {
		return nil, errMissingDate
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &getAvailability.Request{Date: date}

	if v := q.Get("serviceId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errInvalidService
		}
		req.ServiceID = &id
	}

	if v := q.Get("professionalId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errInvalidProf
		}
		req.ProfessionalID = &id
	}

	if v := q.Get("duration"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, errInvalidDuration
		}
		req.DurationMinutes = &minutes
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:                   resp.Date.Format(domain.DateFormat),
		IsOpen:                 resp.IsOpen,
		ClosedReason:           string(resp.ClosedReason),
		ResolvedVia:            string(resp.ResolvedVia),
		Windows:                make([]TimeWindow, 0, len(resp.Windows)),
		DurationMinutes:        resp.DurationMinutes,
		Slots:                  make([]string, 0, len(resp.Slots)),
		SlotDetails:            make([]SlotModel, 0, len(resp.Slots)),
		AvailableProfessionals: resp.AvailableProfessionals,
	}

	if resp.Window != nil {
		out.Window = &TimeWindow{Start: resp.Window.Start.String(), End: resp.Window.End.String()}
	}
	for _, w := range resp.Windows {
		out.Windows = append(out.Windows, TimeWindow{Start: w.Start.String(), End: w.End.String()})
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, s.Start.Format(domain.TimeFormat))
		out.SlotDetails = append(out.SlotDetails, SlotModel{
			Time:            s.Start.Format(domain.TimeFormat),
			StartTime:       s.Start.Format(time.RFC3339),
			ProfessionalIDs: s.ProfessionalIDs,
		})
	}

	return out
}
