package domain

// Service услуга каталога
type Service struct {
	ID                     int64
	Code                   string
	Name                   string
	DefaultDurationMinutes int
	Price                  float64
}

// Professional специалист
type Professional struct {
	ID        int64
	Code      string
	Name      string
	Specialty *string
}

// Capability связь специалист-услуга с необязательной собственной длительностью
type Capability struct {
	ID                    int64
	ProfessionalID        int64
	ServiceID             int64
	IsActive              bool
	CustomDurationMinutes *int
}

// EffectiveDuration длительность услуги у конкретного специалиста:
// собственная длительность активной связи, иначе длительность услуги
func EffectiveDuration(service *Service, capability *Capability) int {
	if capability != nil && capability.IsActive && capability.CustomDurationMinutes != nil && *capability.CustomDurationMinutes > 0 {
		return *capability.CustomDurationMinutes
	}
	return service.DefaultDurationMinutes
}
