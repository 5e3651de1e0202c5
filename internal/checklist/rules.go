package checklist

import (
	"strings"

	"inspection-system/internal/entities"
)

// Rule derives an autofill value from the report subjects when Keyword
// appears in the item title. A rule whose source value is empty does not
// match, so the next rule gets a chance.
type Rule struct {
	Keyword string
	Resolve func(s entities.Snapshot) string
}

// DefaultRules is evaluated top to bottom; the first match wins.
var DefaultRules = []Rule{
	{Keyword: "tipo", Resolve: func(s entities.Snapshot) string { return s.VehicleDetails.Type }},
	{Keyword: "modelo", Resolve: func(s entities.Snapshot) string { return s.VehicleDetails.ModelYear }},
	{Keyword: "placa", Resolve: func(s entities.Snapshot) string { return s.VehicleDetails.Plate }},
	{Keyword: "motorista", Resolve: func(s entities.Snapshot) string { return s.VehicleDetails.DriverName }},
	{Keyword: "cliente", Resolve: func(s entities.Snapshot) string { return s.ClientDetails.Name }},
	{Keyword: "funcionário", Resolve: func(s entities.Snapshot) string { return s.EmployeeDetails.Username }},
}

// InspectionTimestampMarker identifies the datetime item stamped on first load.
const InspectionTimestampMarker = "data e hora da inspeção"

func matchRule(rules []Rule, title string, subjects entities.Snapshot) (string, bool) {
	lower := strings.ToLower(title)
	for _, rule := range rules {
		if !strings.Contains(lower, rule.Keyword) {
			continue
		}
		if v := rule.Resolve(subjects); v != "" {
			return v, true
		}
	}
	return "", false
}

func isInspectionTimestamp(item entities.ChecklistItem) bool {
	return item.ResponseType == entities.ResponseDateTime &&
		strings.Contains(strings.ToLower(item.Title), InspectionTimestampMarker)
}
