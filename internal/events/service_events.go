package events

const ServiceDeletedName = "service.deleted"

// ServiceDeleted is published after a service row is gone. PdfURL is the
// handle of the report it had, if any.
type ServiceDeleted struct {
	ServiceID string
	PdfURL    string
}

func (e ServiceDeleted) Name() string {
	return ServiceDeletedName
}
