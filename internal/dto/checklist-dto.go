package dto

import "inspection-system/internal/entities"

type CreateSectionDTO struct {
	Title string `json:"title" validate:"required,max=200"`
	Order int    `json:"order" validate:"gte=0"`
}

type UpdateSectionDTO struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Order *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}

type CreateItemDTO struct {
	SectionID    string   `json:"section_id" validate:"required,uuid"`
	Title        string   `json:"title" validate:"required,max=300"`
	Order        int      `json:"order" validate:"gte=0"`
	ResponseType string   `json:"response_type" validate:"required,response_type"`
	Options      []string `json:"options" validate:"options_match_type,dive,required"`
}

// UpdateItemDTO is a partial update. The merged item is checked again in the
// service because a type change may need options from the stored row.
type UpdateItemDTO struct {
	Title        *string   `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Order        *int      `json:"order,omitempty" validate:"omitempty,gte=0"`
	ResponseType *string   `json:"response_type,omitempty" validate:"omitempty,response_type"`
	Options      *[]string `json:"options,omitempty" validate:"omitempty,dive,required"`
}

type ChecklistItemDTO struct {
	ID           string   `json:"id"`
	SectionID    string   `json:"section_id"`
	Title        string   `json:"title"`
	Order        int      `json:"order"`
	ResponseType string   `json:"response_type"`
	Options      []string `json:"options"`
}

type ChecklistSectionDTO struct {
	ID    string             `json:"id"`
	Title string             `json:"title"`
	Order int                `json:"order"`
	Items []ChecklistItemDTO `json:"items"`
}

func ItemToDTO(item entities.ChecklistItem) ChecklistItemDTO {
	options := item.Options
	if options == nil {
		options = []string{}
	}
	return ChecklistItemDTO{
		ID:           item.ID,
		SectionID:    item.SectionID,
		Title:        item.Title,
		Order:        item.Order,
		ResponseType: string(item.ResponseType),
		Options:      options,
	}
}

// DefinitionToDTO nests items under their sections. Input order is kept.
func DefinitionToDTO(sections []entities.ChecklistSection, items []entities.ChecklistItem) []ChecklistSectionDTO {
	bySection := make(map[string][]ChecklistItemDTO, len(sections))
	for _, item := range items {
		bySection[item.SectionID] = append(bySection[item.SectionID], ItemToDTO(item))
	}
	out := make([]ChecklistSectionDTO, 0, len(sections))
	for _, s := range sections {
		sectionItems := bySection[s.ID]
		if sectionItems == nil {
			sectionItems = []ChecklistItemDTO{}
		}
		out = append(out, ChecklistSectionDTO{ID: s.ID, Title: s.Title, Order: s.Order, Items: sectionItems})
	}
	return out
}
