package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Medication - satu obat yang diserahkan untuk satu nomor antrian.
// ID dipakai sebagai identitas, dua obat dengan nama dan turn sama tetap berbeda.
type Medication struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TurnNumber int       `json:"turn_number"`
}

func NewMedication(name string, turnNumber int) Medication {
	return Medication{
		ID:         uuid.New(),
		Name:       name,
		TurnNumber: turnNumber,
	}
}

func (m Medication) String() string {
	return fmt.Sprintf("%s (Turn %d)", m.Name, m.TurnNumber)
}
