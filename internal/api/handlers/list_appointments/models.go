package list_appointments

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/service/appointments/models"
)

var (
	errMissingDate          = errors.New("missing date")
	errInvalidDate          = errors.New("invalid date")
	errInvalidProfessional  = errors.New("invalid professionalId")
	errInvalidIncludeFilter = errors.New("invalid includeCanceled")
)

// ToServiceRequest разбирает query параметры списка записей
func ToServiceRequest(q url.Values) (*models.ListAppointmentsRequest, error) {
	dateStr := q.Get("date")
	if dateStr == "" {
		return nil, errMissingDate
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &models.ListAppointmentsRequest{Date: date}

	if v := q.Get("professionalId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, errInvalidProfessional
		}
		req.ProfessionalID = &id
	}

	if v := q.Get("includeCanceled"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errInvalidIncludeFilter
		}
		req.IncludeCanceled = include
	}

	return req, nil
}
