// Package models builds the demonstration models shared by the command line
// tool and the examples.
package models

import (
	"fmt"

	"github.com/gitrdm/gokanprop/pkg/cp"
)

// Queens posts the n-queens model on s and returns the column of the queen in
// each row. Diagonals are offset views of the row variables.
func Queens(s *cp.Solver, n int) ([]cp.IntVar, error) {
	if n < 1 {
		return nil, fmt.Errorf("queens: n=%d: %w", n, cp.ErrInvalidArgument)
	}
	q, err := s.MakeIntVarArray(n, 0, n-1)
	if err != nil {
		return nil, err
	}
	up := make([]cp.IntVar, n)
	down := make([]cp.IntVar, n)
	for i, x := range q {
		if up[i], err = cp.Plus(x, i); err != nil {
			return nil, err
		}
		if down[i], err = cp.Plus(x, -i); err != nil {
			return nil, err
		}
	}
	for _, xs := range [][]cp.IntVar{q, up, down} {
		if err := s.Post(cp.NewAllDifferentFC(xs...)); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Letters of SEND + MORE = MONEY in the order returned by SendMoreMoney.
var Letters = []string{"S", "E", "N", "D", "M", "O", "R", "Y"}

// SendMoreMoney posts the cryptarithm SEND + MORE = MONEY. The column sums
// are folded into one linear equation over scaled views, so some terms carry
// a negative scale.
func SendMoreMoney(s *cp.Solver) ([]cp.IntVar, error) {
	letters := make([]cp.IntVar, len(Letters))
	for i, name := range Letters {
		x, err := s.MakeIntVarWithName(name, 0, 9)
		if err != nil {
			return nil, err
		}
		letters[i] = x
	}
	S, E, N, D, M, O, R, Y := letters[0], letters[1], letters[2], letters[3], letters[4], letters[5], letters[6], letters[7]
	if err := s.Post(cp.NewAllDifferentFC(letters...)); err != nil {
		return nil, err
	}
	if err := S.Remove(0); err != nil {
		return nil, err
	}
	if err := M.Remove(0); err != nil {
		return nil, err
	}

	coef := []struct {
		x cp.IntVar
		a int
	}{{S, 1000}, {E, 91}, {N, -90}, {D, 1}, {M, -9000}, {O, -900}, {R, 10}, {Y, -1}}
	terms := make([]cp.IntVar, len(coef))
	for i, c := range coef {
		t, err := cp.Mul(c.x, c.a)
		if err != nil {
			return nil, err
		}
		terms[i] = t
	}
	sum, err := cp.NewSum(terms...)
	if err != nil {
		return nil, err
	}
	if err := s.Post(sum); err != nil {
		return nil, err
	}
	return letters, nil
}

// Word reads the value of a word from fixed letter variables.
func Word(letters []cp.IntVar, word string) int {
	v := 0
	for _, ch := range word {
		for i, name := range Letters {
			if name == string(ch) {
				v = v*10 + letters[i].Min()
				break
			}
		}
	}
	return v
}

// Staircase is a single variable x in [min, max] minimized with the given
// step. Branching on the largest value first makes every improvement visible.
func Staircase(s *cp.Solver, min, max, step int) (cp.IntVar, *cp.IntObjective, error) {
	x, err := s.MakeIntVarWithName("x", min, max)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.MinimizeWithDelta(x, step)
	if err != nil {
		return nil, nil, err
	}
	return x, obj, nil
}
