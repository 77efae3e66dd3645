package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokanprop/pkg/cp"
)

func TestQueens(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, 1},
		{2, 0},
		{5, 10},
		{7, 40},
	}
	for _, tt := range tests {
		s := cp.NewSolver()
		q, err := Queens(s, tt.n)
		require.NoError(t, err)
		st, err := cp.NewDFSearch(s, cp.FirstFail(q...)).Solve(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, st.Solutions, "n=%d", tt.n)
	}

	_, err := Queens(cp.NewSolver(), 0)
	assert.ErrorIs(t, err, cp.ErrInvalidArgument)
}

func TestSendMoreMoney(t *testing.T) {
	s := cp.NewSolver()
	letters, err := SendMoreMoney(s)
	require.NoError(t, err)

	var send, more, money int
	search := cp.NewDFSearch(s, cp.FirstFail(letters...))
	search.OnSolution(func() {
		send, more, money = Word(letters, "SEND"), Word(letters, "MORE"), Word(letters, "MONEY")
	})
	st, err := search.Solve(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Solutions)
	assert.Equal(t, 9567, send)
	assert.Equal(t, 1085, more)
	assert.Equal(t, 10652, money)
}

func TestStaircase(t *testing.T) {
	s := cp.NewSolver()
	x, obj, err := Staircase(s, 0, 7, 3)
	require.NoError(t, err)

	var seen []int
	search := cp.NewDFSearch(s, cp.FirstFailMax(x))
	search.OnSolution(func() { seen = append(seen, x.Min()) })
	_, err = search.Optimize(context.Background(), obj, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 4, 1}, seen)

	_, _, err = Staircase(cp.NewSolver(), 0, 7, 0)
	assert.ErrorIs(t, err, cp.ErrInvalidArgument)
}
