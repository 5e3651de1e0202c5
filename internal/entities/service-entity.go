package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
)

type ServiceStatus string

const (
	ServiceDraft     ServiceStatus = "draft"
	ServiceFinalized ServiceStatus = "finalized"
)

// MetaKey is the reserved checklist_data key holding the report snapshot.
const MetaKey = "__meta"

// Answers maps section id to item id to the raw answer.
type Answers map[string]map[string]string

func (a Answers) Get(sectionID, itemID string) (string, bool) {
	items, ok := a[sectionID]
	if !ok {
		return "", false
	}
	v, ok := items[itemID]
	return v, ok
}

func (a Answers) Set(sectionID, itemID, value string) {
	items, ok := a[sectionID]
	if !ok {
		items = make(map[string]string)
		a[sectionID] = items
	}
	items[itemID] = value
}

func (a Answers) Delete(sectionID, itemID string) {
	items, ok := a[sectionID]
	if !ok {
		return
	}
	delete(items, itemID)
	if len(items) == 0 {
		delete(a, sectionID)
	}
}

func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for sectionID, items := range a {
		copied := make(map[string]string, len(items))
		for itemID, v := range items {
			copied[itemID] = v
		}
		out[sectionID] = copied
	}
	return out
}

// ChecklistData is the service's checklist_data column: answers keyed by
// section plus the optional snapshot stored under MetaKey.
type ChecklistData struct {
	Answers Answers
	Meta    *Snapshot
}

func (d ChecklistData) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Answers)+1)
	for sectionID, items := range d.Answers {
		out[sectionID] = items
	}
	if d.Meta != nil {
		out[MetaKey] = d.Meta
	}
	return json.Marshal(out)
}

func (d *ChecklistData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Answers = make(Answers, len(raw))
	d.Meta = nil
	for key, value := range raw {
		if key == MetaKey {
			if string(value) == "null" {
				continue
			}
			var meta Snapshot
			if err := json.Unmarshal(value, &meta); err != nil {
				return fmt.Errorf("checklist_data.%s: %w", MetaKey, err)
			}
			d.Meta = &meta
			continue
		}
		var items map[string]interface{}
		if err := json.Unmarshal(value, &items); err != nil {
			return fmt.Errorf("checklist_data.%s: %w", key, err)
		}
		section := make(map[string]string, len(items))
		for itemID, v := range items {
			switch tv := v.(type) {
			case nil:
			case string:
				section[itemID] = tv
			default:
				section[itemID] = fmt.Sprint(tv)
			}
		}
		d.Answers[key] = section
	}
	return nil
}

type Service struct {
	ID            string        `json:"id" db:"id"`
	EmployeeID    null.String   `json:"employee_id" db:"employee_id"`
	ClientID      null.String   `json:"client_id" db:"client_id"`
	VehicleID     null.String   `json:"vehicle_id" db:"vehicle_id"`
	Status        ServiceStatus `json:"status" db:"status"`
	ChecklistData ChecklistData `json:"checklist_data" db:"checklist_data"`
	Observations  null.String   `json:"observations" db:"observations"`
	Photos        []string      `json:"photos" db:"photos"`
	PdfURL        null.String   `json:"pdf_url" db:"pdf_url"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`

	// Joined relations, nil when the referenced row is gone.
	Client   *Client  `json:"client,omitempty" db:"-"`
	Vehicle  *Vehicle `json:"vehicle,omitempty" db:"-"`
	Employee *User    `json:"employee,omitempty" db:"-"`
}

func (s *Service) IsFinalized() bool { return s.Status == ServiceFinalized }

func (s *Service) HasReport() bool { return s.PdfURL.Valid && s.PdfURL.String != "" }
