package domain

import (
	"time"
)

// ProjectStatus tracks where a project sits in its lifecycle.
type ProjectStatus string

const (
	StatusEstimating ProjectStatus = "estimating"
	StatusContracted ProjectStatus = "contracted"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// Project represents a construction project estimate row.
type Project struct {
	ID             string        `db:"id"              json:"id"`
	Name           string        `db:"name"            json:"name"`
	Client         string        `db:"client"          json:"client"`
	Status         ProjectStatus `db:"status"          json:"status"`
	ContractAmount float64       `db:"contract_amount" json:"contract_amount"`
	CostEstimate   float64       `db:"cost_estimate"   json:"cost_estimate"`
	StartDate      *time.Time    `db:"start_date"      json:"start_date,omitempty"`
	EndDate        *time.Time    `db:"end_date"        json:"end_date,omitempty"`
	CreatedAt      time.Time     `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"      json:"updated_at"`
}

// GrossProfit is the contract amount minus the estimated cost.
func (p *Project) GrossProfit() float64 {
	return p.ContractAmount - p.CostEstimate
}

// MarginPercent is the gross profit as a percentage of the contract
// amount. Zero-valued contracts yield 0 rather than dividing by zero.
func (p *Project) MarginPercent() float64 {
	if p.ContractAmount == 0 {
		return 0
	}
	return p.GrossProfit() / p.ContractAmount * 100
}

// EntityID implements deletion.Entity.
func (p *Project) EntityID() string {
	return p.ID
}

// EntityLabel implements deletion.Entity.
func (p *Project) EntityLabel() string {
	return p.Name
}

// RecencyKey orders rollback reinsertion newest-first.
func (p *Project) RecencyKey() time.Time {
	return p.UpdatedAt
}
