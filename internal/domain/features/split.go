package features

import (
	"fmt"
	"math"
)

// SplitChronological cuts rows, assumed ascending by date, into a training
// prefix holding trainFraction of the rows and a holdout suffix. No holdout
// row predates a training row.
func SplitChronological(rows []TrainingRow, trainFraction float64) ([]TrainingRow, []TrainingRow, error) {
	if trainFraction <= 0 || trainFraction > 1 {
		return nil, nil, fmt.Errorf("train fraction must be in (0, 1], got %v", trainFraction)
	}
	cut := int(math.Floor(float64(len(rows))*trainFraction + 1e-9))
	return rows[:cut:cut], rows[cut:], nil
}
