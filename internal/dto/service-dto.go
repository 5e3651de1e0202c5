package dto

import (
	"time"

	"inspection-system/internal/entities"
)

type ServiceDTO struct {
	ID           string                       `json:"id"`
	Status       string                       `json:"status"`
	EmployeeID   string                       `json:"employee_id,omitempty"`
	ClientID     string                       `json:"client_id,omitempty"`
	VehicleID    string                       `json:"vehicle_id,omitempty"`
	ClientName   string                       `json:"client_name,omitempty"`
	Plate        string                       `json:"plate,omitempty"`
	EmployeeName string                       `json:"employee_name,omitempty"`
	Observations string                       `json:"observations,omitempty"`
	Photos       []string                     `json:"photos"`
	PdfURL       string                       `json:"pdf_url,omitempty"`
	Answers      map[string]map[string]string `json:"checklist_data"`
	CreatedAt    string                       `json:"created_at"`
	UpdatedAt    string                       `json:"updated_at"`
}

// ServiceToDTO prefers the stored snapshot for display names so the list
// keeps showing what the report shows.
func ServiceToDTO(s *entities.Service) ServiceDTO {
	out := ServiceDTO{
		ID:           s.ID,
		Status:       string(s.Status),
		EmployeeID:   s.EmployeeID.String,
		ClientID:     s.ClientID.String,
		VehicleID:    s.VehicleID.String,
		Observations: s.Observations.String,
		Photos:       s.Photos,
		PdfURL:       s.PdfURL.String,
		Answers:      s.ChecklistData.Answers,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
	if out.Photos == nil {
		out.Photos = []string{}
	}
	if out.Answers == nil {
		out.Answers = map[string]map[string]string{}
	}
	switch {
	case s.ChecklistData.Meta != nil:
		out.ClientName = s.ChecklistData.Meta.ClientDetails.Name
		out.Plate = s.ChecklistData.Meta.VehicleDetails.Plate
		out.EmployeeName = s.ChecklistData.Meta.EmployeeDetails.Username
	default:
		if s.Client != nil {
			out.ClientName = s.Client.Name
		}
		if s.Vehicle != nil {
			out.Plate = s.Vehicle.Plate
		}
		if s.Employee != nil {
			out.EmployeeName = s.Employee.Username
		}
	}
	return out
}
