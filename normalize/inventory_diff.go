package normalize

import (
	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
)

// DiffInventory classifies each freshly parsed component against the previous
// inventory, keyed by component name. A renamed component shows up as a new
// entry rather than an upgrade - accepted limitation of name-based matching.
func DiffInventory(parsed []dtos.ParsedComponent, previous map[string]dtos.InventoryEntry) []dtos.ComponentDiff {
	diffs := make([]dtos.ComponentDiff, 0, len(parsed))
	for _, component := range parsed {
		prev, known := previous[component.Name]
		if !known {
			diffs = append(diffs, dtos.ComponentDiff{
				Component:  component,
				ChangeType: dtos.ChangeTypeNew,
			})
			continue
		}

		diff := dtos.ComponentDiff{
			Component:       component,
			PreviousID:      &prev.ID,
			PreviousVersion: prev.Version,
		}
		switch CompareVersions(component.Version, prev.Version) {
		case 1:
			diff.ChangeType = dtos.ChangeTypeUpgraded
		case -1:
			diff.ChangeType = dtos.ChangeTypeDowngraded
		default:
			diff.ChangeType = dtos.ChangeTypeUnchanged
		}
		diffs = append(diffs, diff)
	}
	return diffs
}

// InventoryByName indexes stored components for the differ. When the same
// name appears twice in one snapshot the last row wins.
func InventoryByName(components []models.Component) map[string]dtos.InventoryEntry {
	inventory := make(map[string]dtos.InventoryEntry, len(components))
	for _, component := range components {
		inventory[component.Name] = dtos.InventoryEntry{
			ID:      component.ID,
			Version: component.Version,
		}
	}
	return inventory
}
