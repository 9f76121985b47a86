package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_JSON(t *testing.T) {
	stats := GroupStats{Group: "0", Count: 1, Mean: 2.5, Median: 2.5, Std: Number(math.NaN()), Min: 2.5, Max: Number(math.Inf(1))}

	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"group":"0","count":1,"mean":2.5,"median":2.5,"std":null,"min":2.5,"max":null}`, string(data))

	var back GroupStats
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2.5, back.Mean.Float())
	assert.True(t, back.Std.IsNaN())
}

func TestNumber_String(t *testing.T) {
	assert.Equal(t, "1.500000", Number(1.5).String())
	assert.Equal(t, "NaN", Number(math.NaN()).String())
}

func TestTTestResult_Conclusion(t *testing.T) {
	sig := TTestResult{Alpha: 0.05, Significant: true}
	assert.Equal(t, "The result is statistically significant (p < 0.05). We reject the null hypothesis.", sig.Conclusion())

	notSig := TTestResult{Alpha: 0.05}
	assert.Equal(t, "The result is not statistically significant (p >= 0.05).", notSig.Conclusion())
}

func TestHabitRow_Total(t *testing.T) {
	assert.Equal(t, 7, HabitRow{Habit: "fast", Counts: []int{3, 4}}.Total())
	assert.Equal(t, 0, HabitRow{}.Total())
}
