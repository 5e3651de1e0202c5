package entities

type ClientDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type VehicleDetails struct {
	Type       string `json:"type"`
	ModelYear  string `json:"model_year"`
	Plate      string `json:"plate"`
	DriverName string `json:"driver_name,omitempty"`
	KmCurrent  *int   `json:"km_current,omitempty"`
}

type EmployeeDetails struct {
	Username string `json:"username"`
	Cargo    string `json:"cargo"`
}

// Snapshot is the point-in-time copy of the display fields a report needs.
type Snapshot struct {
	ClientDetails   ClientDetails   `json:"client_details"`
	VehicleDetails  VehicleDetails  `json:"vehicle_details"`
	EmployeeDetails EmployeeDetails `json:"employee_details"`
}
