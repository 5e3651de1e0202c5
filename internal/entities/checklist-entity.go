package entities

type ResponseType string

const (
	ResponseOptions  ResponseType = "options"
	ResponseText     ResponseType = "text"
	ResponseDateTime ResponseType = "datetime"
	ResponseAutofill ResponseType = "autofill"
)

type ChecklistSection struct {
	ID    string          `json:"id" db:"id"`
	Title string          `json:"title" db:"title"`
	Order int             `json:"order" db:"sort_order"`
	Items []ChecklistItem `json:"items,omitempty" db:"-"`
}

type ChecklistItem struct {
	ID           string       `json:"id" db:"id"`
	SectionID    string       `json:"section_id" db:"section_id"`
	Title        string       `json:"title" db:"title"`
	Order        int          `json:"order" db:"sort_order"`
	ResponseType ResponseType `json:"response_type" db:"response_type"`
	Options      []string     `json:"options" db:"options"`
}
