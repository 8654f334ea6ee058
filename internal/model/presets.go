package model

// BuiltinProblems returns the named problems shipped with the application:
// the four pentomino rectangles and the triplication puzzles that are known
// to be solvable.
var BuiltinProblems = func() []Problem {
	problems := []Problem{
		RectProblem(6, 10, AllPieceNames()),
		RectProblem(5, 12, AllPieceNames()),
		RectProblem(4, 15, AllPieceNames()),
		RectProblem(3, 20, AllPieceNames()),
	}
	// The quick triplications draw on every piece except the scaled one.
	for _, piece := range []PieceName{"I", "L", "P", "V"} {
		problems = append(problems, TriplicationProblem(piece, nil))
	}
	// The Z triplication ships with its classic nine-piece selection.
	problems = append(problems, TriplicationProblem("Z",
		[]PieceName{"T", "I", "P", "X", "W", "U", "Y", "N", "V"}))
	return problems
}()

// GetProblem returns a built-in problem by name, or the 6x10 rectangle if
// the name is unknown.
func GetProblem(name string) Problem {
	for _, p := range BuiltinProblems {
		if p.Name == name {
			return p
		}
	}
	return BuiltinProblems[0]
}

// ProblemNames returns the names of all built-in problems.
func ProblemNames() []string {
	var names []string
	for _, p := range BuiltinProblems {
		names = append(names, p.Name)
	}
	return names
}
