package models

import "fmt"

// Customer - pelanggan apotek yang menunggu giliran.
// TurnNumber 0 berarti belum mendapat nomor antrian.
type Customer struct {
	Name        string       `json:"name"`
	Identifier  string       `json:"identifier"`
	TurnNumber  int          `json:"turn_number"`
	Medications []Medication `json:"medications"`
}

func NewCustomer(name, identifier string) *Customer {
	return &Customer{
		Name:        name,
		Identifier:  identifier,
		Medications: make([]Medication, 0),
	}
}

func (c *Customer) HasTurn() bool {
	return c.TurnNumber > 0
}

// AddMedication - push ke tumpukan obat milik pelanggan
func (c *Customer) AddMedication(m Medication) {
	c.Medications = append(c.Medications, m)
}

// UndoMedication - pop obat terakhir, false kalau tumpukan kosong
func (c *Customer) UndoMedication() (Medication, bool) {
	n := len(c.Medications)
	if n == 0 {
		return Medication{}, false
	}

	last := c.Medications[n-1]
	c.Medications = c.Medications[:n-1]
	return last, true
}

// Clone - salinan lepas, tumpukan obat ikut disalin
func (c *Customer) Clone() Customer {
	out := *c
	out.Medications = make([]Medication, len(c.Medications))
	copy(out.Medications, c.Medications)
	return out
}

func (c Customer) String() string {
	return fmt.Sprintf("Turn %d - %s - %s", c.TurnNumber, c.Name, c.Identifier)
}
