package cp_test

import (
	"context"
	"fmt"

	"github.com/gitrdm/gokanprop/pkg/cp"
)

// ExampleIntVar_Remove shows that a failed operation leaves the domain as it
// was.
func ExampleIntVar_Remove() {
	s := cp.NewSolver()
	x, _ := s.MakeIntVar(0, 9)

	_ = x.Remove(5)
	fmt.Println(x.Size())
	_ = x.Fix(7)
	fmt.Println(x.IsFixed(), x.Min(), x.Max())
	err := x.Fix(8)
	fmt.Println(cp.IsInconsistent(err), x)

	// Output:
	// 9
	// true 7 7
	// true x0{7}
}

// ExampleTrail shows checkpointing: every write after Save is undone by
// Restore.
func ExampleTrail() {
	s := cp.NewSolver()
	x, _ := s.MakeIntVarWithName("x", 1, 5)

	s.Trail().Save()
	_ = x.RemoveAbove(2)
	fmt.Println(x)
	s.Trail().Restore()
	fmt.Println(x)

	// Output:
	// x{1..2}
	// x{1..5}
}

// ExampleDFSearch_Solve prints the first solution of 6-queens in
// lexicographic order.
func ExampleDFSearch_Solve() {
	const n = 6
	s := cp.NewSolver()
	q, _ := s.MakeIntVarArray(n, 0, n-1)
	up := make([]cp.IntVar, n)
	down := make([]cp.IntVar, n)
	for i := range q {
		up[i], _ = cp.Plus(q[i], i)
		down[i], _ = cp.Plus(q[i], -i)
	}
	_ = s.Post(cp.NewAllDifferentFC(q...))
	_ = s.Post(cp.NewAllDifferentFC(up...))
	_ = s.Post(cp.NewAllDifferentFC(down...))

	search := cp.NewDFSearch(s, cp.Lexico(q...))
	search.OnSolution(func() {
		row := make([]int, n)
		for i, x := range q {
			row[i] = x.Min()
		}
		fmt.Println(row)
	})
	st, _ := search.Solve(context.Background(), cp.StopAfterSolutions(1))
	fmt.Println("solutions:", st.Solutions)

	// Output:
	// [1 3 5 0 2 4]
	// solutions: 1
}

// ExampleDFSearch_Optimize finds the smallest x+y with x != y.
func ExampleDFSearch_Optimize() {
	s := cp.NewSolver()
	x, _ := s.MakeIntVarWithName("x", 1, 4)
	y, _ := s.MakeIntVarWithName("y", 1, 4)
	z, _ := s.MakeIntVarWithName("z", 0, 8)
	sum, _ := cp.NewSumEqual([]cp.IntVar{x, y}, z)
	_ = s.Post(sum)
	_ = s.Post(cp.NewNotEqual(x, y, 0))

	obj := s.Minimize(z)
	search := cp.NewDFSearch(s, cp.FirstFailMax(x, y))
	search.OnSolution(func() { fmt.Println("z =", z.Min()) })
	st, _ := search.Optimize(context.Background(), obj, nil)
	best, _ := obj.Best()
	fmt.Println("best:", best, "completed:", st.Completed)

	// Output:
	// z = 7
	// z = 6
	// z = 5
	// z = 4
	// z = 3
	// best: 3 completed: true
}
