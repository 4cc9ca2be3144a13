package theilsen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitsExactLine(t *testing.T) {
	pts := make([]Point, 0, 10)
	for i := 0; i < 10; i++ {
		x := float64(i)
		pts = append(pts, Point{X: x, Y: 2*x + 3})
	}
	e := Fit(pts)
	assert.InDelta(t, 2.0, e.Slope, 1e-9)
	assert.InDelta(t, 3.0, e.Intercept, 1e-9)
}

func TestRobustToOutlier(t *testing.T) {
	pts := make([]Point, 0, 11)
	for i := 0; i < 10; i++ {
		x := float64(i)
		pts = append(pts, Point{X: x, Y: 2*x + 3})
	}
	pts = append(pts, Point{X: 10, Y: 1000}) // gross outlier
	e := Fit(pts)
	assert.InDelta(t, 2.0, e.Slope, 0.2)
}

func TestEvaluate(t *testing.T) {
	e := Estimate{Slope: 2, Intercept: 1}
	assert.Equal(t, 5.0, e.Evaluate(2))
}

func TestSinglePoint(t *testing.T) {
	e := Fit([]Point{{X: 5, Y: 7}})
	assert.Equal(t, 0.0, e.Slope)
	assert.Equal(t, 7.0, e.Intercept)
}

func TestEmpty(t *testing.T) {
	e := Fit(nil)
	assert.Equal(t, Estimate{}, e)
}
