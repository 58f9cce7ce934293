package entities

import "time"

const (
	SlotCount     = 4
	SeatsPerSlate = 7
)

// SlotSizes is the fixed number of seats each slot fields.
var SlotSizes = [SlotCount]int{2, 2, 2, 1}

var slotNames = [SlotCount]string{
	"Chairperson & Vice Chairperson",
	"Secretary General & Gender/Disability Secretary",
	"Treasurer & Sports Secretary",
	"Town Campus Secretary",
}

var slotPositions = [SlotCount][]string{
	{"Chairperson", "Vice Chairperson"},
	{"Secretary General", "Gender & Disability Secretary"},
	{"Treasurer", "Sports Secretary"},
	{"Town Campus Secretary"},
}

func ValidSlot(slotID int) bool {
	return slotID >= 0 && slotID < SlotCount
}

func SlotName(slotID int) string {
	if !ValidSlot(slotID) {
		return ""
	}
	return slotNames[slotID]
}

// DefaultPosition returns the canonical label for a seat index in a slot.
func DefaultPosition(slotID int, seat int) string {
	if !ValidSlot(slotID) || seat < 0 || seat >= len(slotPositions[slotID]) {
		return ""
	}
	return slotPositions[slotID][seat]
}

type Seat struct {
	StudentID string
	Position  string
}

type Party struct {
	PartyID   string
	Name      string
	Slots     [SlotCount][]Seat
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NomineeIDs returns the seated student ids in slot order.
func (p Party) NomineeIDs() []string {
	ids := make([]string, 0, SeatsPerSlate)
	for _, seats := range p.Slots {
		for _, seat := range seats {
			ids = append(ids, seat.StudentID)
		}
	}
	return ids
}
