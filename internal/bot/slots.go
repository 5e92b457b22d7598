package bot

import (
	"fmt"

	"github.com/example/spokes/internal/models"
)

// slotOrder is the fixed fill order for onboarding questions.
var slotOrder = []models.Slot{
	models.SlotHomeAddress,
	models.SlotWorkAddress,
	models.SlotMorningAlertTime,
	models.SlotEveningAlertTime,
}

// NextSlot returns the first unfilled preference in fill order, or
// (SlotNone, false) when every slot is filled.
func NextSlot(p models.Prefs) (models.Slot, bool) {
	for _, s := range slotOrder {
		if !slotFilled(p, s) {
			return s, true
		}
	}
	return models.SlotNone, false
}

func slotFilled(p models.Prefs, s models.Slot) bool {
	switch s {
	case models.SlotHomeAddress:
		return p.HomeAddress != nil
	case models.SlotWorkAddress:
		return p.WorkAddress != nil
	case models.SlotMorningAlertTime:
		return p.MorningAlertTime != ""
	case models.SlotEveningAlertTime:
		return p.EveningAlertTime != ""
	}
	return false
}

func isAddressSlot(s models.Slot) bool {
	return s == models.SlotHomeAddress || s == models.SlotWorkAddress
}

func setAddress(p *models.Prefs, s models.Slot, loc models.Coordinates) {
	switch s {
	case models.SlotHomeAddress:
		p.HomeAddress = &loc
	case models.SlotWorkAddress:
		p.WorkAddress = &loc
	}
}

func clearAddress(p *models.Prefs, s models.Slot) {
	switch s {
	case models.SlotHomeAddress:
		p.HomeAddress = nil
	case models.SlotWorkAddress:
		p.WorkAddress = nil
	}
}

func prompt(s models.Slot, firstName string) string {
	switch s {
	case models.SlotHomeAddress:
		return fmt.Sprintf("Let's get set up, %s. What's your home address?", firstName)
	case models.SlotWorkAddress:
		return "Got it. What's your work address?"
	case models.SlotMorningAlertTime:
		return "Cool. What time do you want a status update in the morning?"
	case models.SlotEveningAlertTime:
		return "OK. What time do you want a status update in the evening?"
	}
	return ""
}

const setupCompleteMessage = "All set. You can say things like: " +
	"\n  - bikes at work " +
	"\n  - bikes at home" +
	"\n  - bikes near <address or landmark>" +
	"\n  - settings" +
	"\n  - notifications" +
	"\n  - help"
