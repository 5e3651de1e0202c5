package checklist

import (
	"testing"

	"inspection-system/internal/entities"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTemplateShape(t *testing.T) {
	assert.Len(t, DefaultTemplate, 7)
	for _, section := range DefaultTemplate {
		assert.NotEmpty(t, section.Items, section.Title)
		for _, item := range section.Items {
			if item.ResponseType == entities.ResponseOptions {
				assert.NotEmpty(t, item.Options, item.Title)
			} else {
				assert.Empty(t, item.Options, item.Title)
			}
		}
	}
}

func TestDefaultAutofillItemsHaveARule(t *testing.T) {
	snap := entities.Snapshot{
		VehicleDetails: entities.VehicleDetails{Type: "Carro", ModelYear: "Gol 2019", Plate: "ABC1234", DriverName: "Ana"},
	}
	for _, item := range DefaultTemplate[0].Items {
		if item.ResponseType != entities.ResponseAutofill {
			continue
		}
		_, ok := matchRule(DefaultRules, item.Title, snap)
		assert.True(t, ok, item.Title)
	}
}
