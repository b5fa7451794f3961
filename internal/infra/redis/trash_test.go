package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/buildlog/estimator/internal/core/domain"
)

func TestTrashKey(t *testing.T) {
	if got := trashKey("p1"); got != "trash:project:p1" {
		t.Errorf("trashKey = %q", got)
	}
}

func TestTombstoneCarriesFullSnapshot(t *testing.T) {
	ts := Tombstone{
		Project: domain.Project{
			ID:             "p1",
			Name:           "Roof Repair",
			ContractAmount: 50000,
			CostEstimate:   38000,
		},
		DeletedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}

	var back Tombstone
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Project.ID != "p1" || back.Project.GrossProfit() != 12000 {
		t.Errorf("tombstone lost data: %+v", back.Project)
	}
	if !back.DeletedAt.Equal(ts.DeletedAt) {
		t.Errorf("DeletedAt = %v", back.DeletedAt)
	}
}
