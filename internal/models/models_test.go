package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_SetZeroRemovesLine(t *testing.T) {
	o := Order{}
	o.Set("Яблоко", 3)
	o.Set("Мак", 1)
	o.Set("Яблоко", 0)

	_, ok := o["Яблоко"]
	assert.False(t, ok, "zero quantity must remove the key")
	assert.Equal(t, 1, o.Total())
}

func TestOrder_SetOverwrites(t *testing.T) {
	o := Order{}
	o.Set("Яблоко", 3)
	o.Set("Яблоко", 5)
	assert.Equal(t, Order{"Яблоко": 5}, o)
}

func TestOrder_NegativeRemoves(t *testing.T) {
	o := Order{"Мак": 2}
	o.Set("Мак", -1)
	assert.True(t, o.IsEmpty())
}

func TestOrder_CloneIsIndependent(t *testing.T) {
	o := Order{"Мак": 2}
	c := o.Clone()
	c.Set("Мак", 7)
	assert.Equal(t, 2, o.Get("Мак"))

	var nilOrder Order
	assert.NotNil(t, nilOrder.Clone())
}

func TestClientProfile_CloneCopiesOrder(t *testing.T) {
	p := ClientProfile{ClientID: "1", OpenOrder: Order{"Мак": 1}}
	c := p.Clone()
	c.OpenOrder.Set("Мак", 4)
	assert.Equal(t, 1, p.OpenOrder.Get("Мак"))
}
