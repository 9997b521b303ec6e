package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerString(t *testing.T) {
	c := NewCustomer("Ana", "111")
	assert.False(t, c.HasTurn())

	c.TurnNumber = 3
	assert.True(t, c.HasTurn())
	assert.Equal(t, "Turn 3 - Ana - 111", c.String())
}

func TestMedicationString(t *testing.T) {
	m := NewMedication("Paracetamol", 1)
	assert.Equal(t, "Paracetamol (Turn 1)", m.String())
}

func TestMedicationIdentity(t *testing.T) {
	a := NewMedication("Aspirin", 1)
	b := NewMedication("Aspirin", 1)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a, b)
}

func TestCustomerMedicationStack(t *testing.T) {
	c := NewCustomer("Ana", "111")

	_, ok := c.UndoMedication()
	assert.False(t, ok)

	c.AddMedication(NewMedication("Aspirin", 1))
	c.AddMedication(NewMedication("Ibuprofen", 1))

	m, ok := c.UndoMedication()
	require.True(t, ok)
	assert.Equal(t, "Ibuprofen", m.Name)
	require.Len(t, c.Medications, 1)
	assert.Equal(t, "Aspirin", c.Medications[0].Name)
}

func TestCustomerClone(t *testing.T) {
	c := NewCustomer("Ana", "111")
	c.AddMedication(NewMedication("Aspirin", 1))

	clone := c.Clone()
	clone.Medications[0].Name = "Changed"
	clone.Name = "Changed"

	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "Aspirin", c.Medications[0].Name)
}
