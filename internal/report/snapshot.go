package report

import "inspection-system/internal/entities"

// CaptureSnapshot copies the display fields a report needs from the live rows.
// Missing rows yield empty details.
func CaptureSnapshot(client *entities.Client, vehicle *entities.Vehicle, employee *entities.User) entities.Snapshot {
	var snap entities.Snapshot
	if client != nil {
		snap.ClientDetails = entities.ClientDetails{Name: client.Name, Phone: client.Phone}
	}
	if vehicle != nil {
		snap.VehicleDetails = entities.VehicleDetails{
			Type:       vehicle.Type,
			ModelYear:  vehicle.ModelYear,
			Plate:      vehicle.Plate,
			DriverName: vehicle.DriverName.String,
		}
		if vehicle.KmCurrent.Valid {
			km := vehicle.KmCurrent.Int
			snap.VehicleDetails.KmCurrent = &km
		}
	}
	if employee != nil {
		snap.EmployeeDetails = entities.EmployeeDetails{Username: employee.Username, Cargo: employee.Cargo}
	}
	return snap
}

// SubjectsFor returns the stored snapshot when the service has one, otherwise
// a fresh capture of the joined rows. fromSnapshot tells which one was used.
func SubjectsFor(service *entities.Service) (subjects entities.Snapshot, fromSnapshot bool) {
	if service.ChecklistData.Meta != nil {
		return *service.ChecklistData.Meta, true
	}
	return CaptureSnapshot(service.Client, service.Vehicle, service.Employee), false
}
