package domain

import (
	"testing"
	"time"
)

func TestProjectDerivedMetrics(t *testing.T) {
	tests := []struct {
		name     string
		contract float64
		cost     float64
		profit   float64
		margin   float64
	}{
		{"profitable", 50000, 38000, 12000, 24},
		{"break-even", 10000, 10000, 0, 0},
		{"loss", 10000, 12000, -2000, -20},
		{"zero contract", 0, 5000, -5000, 0},
	}

	for _, tt := range tests {
		p := &Project{ContractAmount: tt.contract, CostEstimate: tt.cost}
		if got := p.GrossProfit(); got != tt.profit {
			t.Errorf("%s: GrossProfit = %v, want %v", tt.name, got, tt.profit)
		}
		if got := p.MarginPercent(); got != tt.margin {
			t.Errorf("%s: MarginPercent = %v, want %v", tt.name, got, tt.margin)
		}
	}
}

func TestProjectEntityInterface(t *testing.T) {
	now := time.Now()
	p := &Project{ID: "p1", Name: "Roof Repair", UpdatedAt: now}

	if p.EntityID() != "p1" {
		t.Errorf("EntityID = %q", p.EntityID())
	}
	if p.EntityLabel() != "Roof Repair" {
		t.Errorf("EntityLabel = %q", p.EntityLabel())
	}
	if !p.RecencyKey().Equal(now) {
		t.Errorf("RecencyKey = %v", p.RecencyKey())
	}
}
