package memory

import (
	"context"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
)

// FixtureRepository serves a fixed fixture list, for callers that already
// hold the calendar in memory.
type FixtureRepository struct {
	fixtures []fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	return &FixtureRepository{fixtures: append([]fixture.Fixture(nil), fixtures...)}
}

func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	return append([]fixture.Fixture(nil), r.fixtures...), nil
}
