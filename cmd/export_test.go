package cmd

import (
	"testing"

	"github.com/pable/go-cs-teams/internal/model"
)

func TestFraction(t *testing.T) {
	cases := []struct {
		pct  model.Opt
		want float64
	}{
		{model.Some(61.234), 0.61},
		{model.Some(100), 1},
		{model.Some(0), 0},
		{model.None(), sidePrior},
	}
	for _, c := range cases {
		if got := fraction(c.pct); got != c.want {
			t.Errorf("fraction(%v): got %v, want %v", c.pct, got, c.want)
		}
	}
}
