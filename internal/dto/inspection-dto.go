package dto

import "inspection-system/internal/checklist"

type CreateServiceDTO struct {
	ClientID  string `json:"client_id" validate:"required,uuid"`
	VehicleID string `json:"vehicle_id" validate:"required,uuid"`
}

type RecordAnswerDTO struct {
	Value string `json:"value" validate:"max=2000"`
}

// SubmitDTO finalizes the checklist. Answers, when present, are merged over
// the stored ones before resolution.
type SubmitDTO struct {
	Observations string                       `json:"observations" validate:"max=5000"`
	KmCurrent    *int                         `json:"km_current,omitempty" validate:"omitempty,gte=0"`
	Answers      map[string]map[string]string `json:"answers,omitempty"`
}

type LinkReportDTO struct {
	Handle string `json:"handle" validate:"required"`
}

type ChecklistEntryDTO struct {
	ChecklistItemDTO
	Value    string `json:"value"`
	Editable bool   `json:"editable"`
	Derived  bool   `json:"derived"`
}

type ChecklistViewSectionDTO struct {
	ID    string              `json:"id"`
	Title string              `json:"title"`
	Order int                 `json:"order"`
	Items []ChecklistEntryDTO `json:"items"`
}

// ChecklistViewDTO is what the checklist page renders: the definition with
// effective answers and the subjects the autofill values came from.
type ChecklistViewDTO struct {
	ServiceID    string                    `json:"service_id"`
	Status       string                    `json:"status"`
	ReadOnly     bool                      `json:"read_only"`
	Observations string                    `json:"observations"`
	PdfURL       string                    `json:"pdf_url,omitempty"`
	Subjects     SubjectsDTO               `json:"subjects"`
	Sections     []ChecklistViewSectionDTO `json:"sections"`
}

type SubjectsDTO struct {
	ClientName   string `json:"client_name"`
	ClientPhone  string `json:"client_phone"`
	VehicleType  string `json:"vehicle_type"`
	ModelYear    string `json:"model_year"`
	Plate        string `json:"plate"`
	DriverName   string `json:"driver_name,omitempty"`
	KmCurrent    *int   `json:"km_current,omitempty"`
	EmployeeName string `json:"employee_name"`
	EmployeeRole string `json:"employee_cargo"`
	FromSnapshot bool   `json:"from_snapshot"`
}

// SubmitResultDTO reports the checklist and report outcomes separately:
// a saved checklist with a failed report is still a successful submit.
type SubmitResultDTO struct {
	Completeness checklist.Completeness `json:"completeness"`
	PdfURL       string                 `json:"pdf_url,omitempty"`
	ReportError  string                 `json:"report_error,omitempty"`
}

type ReportDTO struct {
	ServiceID   string `json:"service_id"`
	PdfURL      string `json:"pdf_url"`
	Regenerated bool   `json:"regenerated"`
}
