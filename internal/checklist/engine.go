package checklist

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"inspection-system/internal/entities"
	"inspection-system/pkg/customvalidator"
	apperrors "inspection-system/pkg/errors"
)

const warnMissingOptions = "Alguns itens de múltipla escolha não foram respondidos."

// Derivation records a value the engine produced instead of reading it from
// the persisted answers.
type Derivation struct {
	SectionID string
	ItemID    string
	Value     string
	Timestamp bool
}

type Resolution struct {
	Answers entities.Answers
	Derived []Derivation
}

// Engine resolves effective answers with a fixed autofill rule table.
type Engine struct {
	rules []Rule
}

func NewEngine(rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules
	}
	return &Engine{rules: rules}
}

// ResolveAnswers merges persisted answers with autofill derivations for every
// configured item. The result only contains items that belong to a section in
// sections; answers for removed items are left out.
func (e *Engine) ResolveAnswers(
	sections []entities.ChecklistSection,
	items []entities.ChecklistItem,
	persisted entities.Answers,
	subjects entities.Snapshot,
	now time.Time,
) Resolution {
	res := Resolution{Answers: entities.Answers{}}
	stamp := now.Format(customvalidator.DateTimeLocalLayout)

	for _, section := range SortSections(sections) {
		for _, item := range ItemsOf(section.ID, items) {
			value, _ := persisted.Get(section.ID, item.ID)
			if strings.TrimSpace(value) != "" {
				if item.ResponseType == entities.ResponseOptions && !slices.Contains(item.Options, value) {
					continue
				}
				res.Answers.Set(section.ID, item.ID, value)
				continue
			}

			switch {
			case item.ResponseType == entities.ResponseAutofill:
				if v, ok := matchRule(e.rules, item.Title, subjects); ok {
					res.Answers.Set(section.ID, item.ID, v)
					res.Derived = append(res.Derived, Derivation{SectionID: section.ID, ItemID: item.ID, Value: v})
				}
			case isInspectionTimestamp(item):
				res.Answers.Set(section.ID, item.ID, stamp)
				res.Derived = append(res.Derived, Derivation{SectionID: section.ID, ItemID: item.ID, Value: stamp, Timestamp: true})
			}
		}
	}
	return res
}

// Editable reports whether the end user may change the item's answer.
func Editable(item entities.ChecklistItem) bool {
	return item.ResponseType != entities.ResponseAutofill
}

type MissingItem struct {
	SectionID string `json:"section_id"`
	ItemID    string `json:"item_id"`
	Title     string `json:"title"`
}

type Completeness struct {
	Total          int           `json:"total"`
	Answered       int           `json:"answered"`
	Complete       bool          `json:"complete"`
	Warnings       []string      `json:"warnings"`
	MissingOptions []MissingItem `json:"missing_options"`
}

// ValidateCompleteness blocks only on an empty definition or an empty answer
// set. Unanswered options items produce a warning.
func ValidateCompleteness(
	sections []entities.ChecklistSection,
	items []entities.ChecklistItem,
	answers entities.Answers,
) (Completeness, error) {
	result := Completeness{Warnings: []string{}, MissingOptions: []MissingItem{}}

	for _, section := range SortSections(sections) {
		for _, item := range ItemsOf(section.ID, items) {
			result.Total++
			value, _ := answers.Get(section.ID, item.ID)
			if strings.TrimSpace(value) != "" {
				result.Answered++
				continue
			}
			if item.ResponseType == entities.ResponseOptions {
				result.MissingOptions = append(result.MissingOptions, MissingItem{
					SectionID: section.ID,
					ItemID:    item.ID,
					Title:     item.Title,
				})
			}
		}
	}

	if result.Total == 0 {
		return result, apperrors.ErrChecklistNotConfigured
	}
	if result.Answered == 0 {
		return result, apperrors.ErrNoAnswers
	}
	if len(result.MissingOptions) > 0 {
		result.Warnings = append(result.Warnings, warnMissingOptions)
	}
	result.Complete = result.Answered == result.Total
	return result, nil
}

// ValidateAnswer checks a user-supplied value for item. An empty value clears
// the answer and is always accepted for editable items.
func ValidateAnswer(item entities.ChecklistItem, value string) error {
	if !Editable(item) {
		return apperrors.ErrItemNotEditable
	}
	if value == "" {
		return nil
	}
	switch item.ResponseType {
	case entities.ResponseOptions:
		if !slices.Contains(item.Options, value) {
			return fmt.Errorf("%w: %q não é uma opção de %q", apperrors.ErrInvalidAnswer, value, item.Title)
		}
	case entities.ResponseDateTime:
		if _, err := ParseDateTime(value); err != nil {
			return fmt.Errorf("%w: data inválida %q", apperrors.ErrInvalidAnswer, value)
		}
	}
	return nil
}

// ParseDateTime accepts the form's minute-precision layout and RFC 3339.
func ParseDateTime(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(customvalidator.DateTimeLocalLayout, value, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// SortSections returns sections ordered by Order, ties broken by id.
func SortSections(sections []entities.ChecklistSection) []entities.ChecklistSection {
	out := slices.Clone(sections)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ItemsOf returns the items of one section ordered by Order.
func ItemsOf(sectionID string, items []entities.ChecklistItem) []entities.ChecklistItem {
	var out []entities.ChecklistItem
	for _, item := range items {
		if item.SectionID == sectionID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindItem looks an item up by section and id.
func FindItem(items []entities.ChecklistItem, sectionID, itemID string) (entities.ChecklistItem, bool) {
	for _, item := range items {
		if item.SectionID == sectionID && item.ID == itemID {
			return item, true
		}
	}
	return entities.ChecklistItem{}, false
}
