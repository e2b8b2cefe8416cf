package fixture

import "context"

// Source exposes the schedule of fixtures to predict.
type Source interface {
	List(ctx context.Context) ([]Fixture, error)
}
