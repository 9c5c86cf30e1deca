package main

import (
	"testing"

	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/services/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps([]string{"1", "2=35.5", "1"})
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "1", steps[0].fundID)
	assert.Nil(t, steps[0].allocation)
	require.NotNil(t, steps[1].allocation)
	assert.Equal(t, 35.5, *steps[1].allocation)

	_, err = parseSteps([]string{"=10"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"1=abc"})
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	cat := catalog.New(catalog.Seed())
	steps, err := parseSteps([]string{"1", "1", "3=60", "2=150"})
	require.NoError(t, err)

	p := models.NewPortfolio(10000)
	require.NoError(t, apply(p, cat, steps))

	a, _ := p.Allocation("1")
	assert.Equal(t, 20.0, a)
	a, _ = p.Allocation("3")
	assert.Equal(t, 60.0, a)
	a, _ = p.Allocation("2")
	assert.Equal(t, 100.0, a, "allocations are clamped")

	err = apply(p, cat, []step{{fundID: "missing"}})
	assert.Error(t, err)
}

func TestParseYears(t *testing.T) {
	years, err := parseYears("1, 3,5,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, years)

	_, err = parseYears("1,x")
	assert.Error(t, err)
	_, err = parseYears("-2")
	assert.Error(t, err)
}
