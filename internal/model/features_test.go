package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevel_AtLeast(t *testing.T) {
	assert.Equal(t, RiskHigh, RiskLow.AtLeast(RiskHigh))
	assert.Equal(t, RiskHigh, RiskHigh.AtLeast(RiskMedium))
	assert.Equal(t, RiskCritical, RiskCritical.AtLeast(RiskLow))
	assert.Equal(t, RiskMedium, RiskMedium.AtLeast(RiskMedium))
}

func TestActionableUpdate_HasChanges(t *testing.T) {
	assert.False(t, ActionableUpdate{}.HasChanges())

	price := 49.9
	assert.True(t, ActionableUpdate{BasePrice: &price}.HasChanges())

	limit := 25
	assert.True(t, ActionableUpdate{UserLimit: &limit}.HasChanges())
}
