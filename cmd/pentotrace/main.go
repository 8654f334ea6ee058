// Command pentotrace explores pentomino exact tilings: it solves boards,
// collects distinct solutions, records display-bounded search traces, and
// exports the results.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/PentoTrace/internal/engine"
	"github.com/piwi3910/PentoTrace/internal/export"
	"github.com/piwi3910/PentoTrace/internal/importer"
	"github.com/piwi3910/PentoTrace/internal/model"
	"github.com/piwi3910/PentoTrace/internal/project"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: pentotrace <command> [flags]

Commands:
  solve      find one solution for a problem
  distinct   collect distinct solutions with randomized restarts
  trace      record a display-bounded search trace
  compare    trace the problem with and without pruning
  problems   list the built-in problems
  runs       list, delete, export, or import saved runs
  backup     export or restore the config and run library

Run 'pentotrace <command> -h' for command flags.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "solve":
		err = cmdSolve(os.Args[2:])
	case "distinct":
		err = cmdDistinct(os.Args[2:])
	case "trace":
		err = cmdTrace(os.Args[2:])
	case "compare":
		err = cmdCompare(os.Args[2:])
	case "problems":
		err = cmdProblems()
	case "runs":
		err = cmdRuns(os.Args[2:])
	case "backup":
		err = cmdBackup(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "pentotrace: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pentotrace: %v\n", err)
		os.Exit(1)
	}
}

// problemFlags holds the flags shared by every command that needs a board.
type problemFlags struct {
	preset string
	csv    string
	xlsx   string
	pieces string
}

func (pf *problemFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&pf.preset, "problem", "rect-6x10", "built-in problem name")
	fs.StringVar(&pf.csv, "csv", "", "import the board mask from a CSV grid")
	fs.StringVar(&pf.xlsx, "xlsx", "", "import the board mask from an Excel grid")
	fs.StringVar(&pf.pieces, "pieces", "", "comma-separated piece subset, e.g. L,P,V")
}

func (pf *problemFlags) load() (model.Problem, error) {
	var p model.Problem
	switch {
	case pf.csv != "":
		result := importer.ImportCSV(pf.csv)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if !result.Ok() {
			return model.Problem{}, fmt.Errorf("import %s: %s", pf.csv, strings.Join(result.Errors, "; "))
		}
		p = result.Problem
	case pf.xlsx != "":
		result := importer.ImportExcel(pf.xlsx)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if !result.Ok() {
			return model.Problem{}, fmt.Errorf("import %s: %s", pf.xlsx, strings.Join(result.Errors, "; "))
		}
		p = result.Problem
	default:
		p = model.GetProblem(pf.preset)
	}

	if pf.pieces != "" {
		var names []model.PieceName
		for _, field := range strings.Split(pf.pieces, ",") {
			name := model.PieceName(strings.ToUpper(strings.TrimSpace(field)))
			if _, ok := model.Pentominoes[name]; !ok {
				return model.Problem{}, fmt.Errorf("unknown piece %q", field)
			}
			names = append(names, name)
		}
		p = model.NewProblem(p.Name, p.Rows, p.Cols, p.Mask, names)
	}
	return p, nil
}

func loadSettings() (model.AppConfig, model.SolveSettings) {
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot read config, using defaults: %v\n", err)
		cfg = model.DefaultAppConfig()
	}
	var settings model.SolveSettings
	cfg.ApplyToSettings(&settings)
	return cfg, settings
}

func cmdSolve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	var pf problemFlags
	pf.register(fs)
	seed := fs.Int64("seed", 0, "randomize candidate order with this seed (0 = deterministic)")
	noPrune := fs.Bool("no-prune", false, "disable the void-region pruning check")
	maxSteps := fs.Int("max-steps", 0, "abort after this many search steps (0 = unlimited)")
	pdfOut := fs.String("pdf", "", "write the solution as a PDF board diagram")
	dxfOut := fs.String("dxf", "", "write the solution outlines as DXF")
	labelsOut := fs.String("labels", "", "write QR placement labels as PDF")
	jsonOut := fs.Bool("json", false, "print the solution as JSON")
	save := fs.String("save", "", "save the run under this name in the run library")
	fs.Parse(args)

	p, err := pf.load()
	if err != nil {
		return err
	}
	_, settings := loadSettings()
	if *noPrune {
		settings.Pruning = false
	}
	if *maxSteps > 0 {
		settings.MaxSteps = *maxSteps
	}

	solver := engine.New(settings)
	var sol model.Solution
	if *seed != 0 {
		sol, err = solver.SolveSeeded(p, *seed)
	} else {
		sol, err = solver.Solve(p)
	}
	if err != nil {
		return err
	}

	if *jsonOut {
		printJSON(sol)
	} else {
		printBoard(p, sol)
	}
	if *pdfOut != "" {
		if err := export.ExportPDF(*pdfOut, p, []model.Solution{sol}); err != nil {
			return err
		}
	}
	if *dxfOut != "" {
		if err := export.ExportDXF(*dxfOut, p, sol); err != nil {
			return err
		}
	}
	if *labelsOut != "" {
		if err := export.ExportLabels(*labelsOut, p, []model.Solution{sol}); err != nil {
			return err
		}
	}
	if *save != "" {
		run := project.NewRun(*save, p, settings)
		run.Seed = *seed
		run.Solutions = []model.Solution{sol}
		if err := project.AddRun(project.DefaultRunsPath(), run); err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", run.ID)
	}
	return nil
}

func cmdDistinct(args []string) error {
	fs := flag.NewFlagSet("distinct", flag.ExitOnError)
	var pf problemFlags
	pf.register(fs)
	count := fs.Int("count", 5, "distinct solutions to collect")
	attempts := fs.Int("attempts", 0, "attempt budget (0 = config default)")
	pdfOut := fs.String("pdf", "", "write all solutions to one PDF")
	jsonOut := fs.Bool("json", false, "print the solutions as JSON")
	fs.Parse(args)

	p, err := pf.load()
	if err != nil {
		return err
	}
	cfg, settings := loadSettings()
	budget := *attempts
	if budget <= 0 {
		budget = cfg.DefaultMaxAttempts
	}

	sols, err := engine.New(settings).FindDistinctSolutions(p, *count, budget)
	if err != nil {
		return err
	}

	if *jsonOut {
		printJSON(sols)
	} else {
		for i, sol := range sols {
			fmt.Printf("--- solution %d ---\n", i+1)
			printBoard(p, sol)
		}
	}
	if *pdfOut != "" {
		return export.ExportPDF(*pdfOut, p, sols)
	}
	return nil
}

func cmdTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	var pf problemFlags
	pf.register(fs)
	noPrune := fs.Bool("no-prune", false, "disable pruning in the traced search")
	counterfactuals := fs.Bool("counterfactuals", false, "graft unpruned subtrees under pruned terminals")
	out := fs.String("out", "", "write the trace as JSON to this file (default stdout)")
	fs.Parse(args)

	p, err := pf.load()
	if err != nil {
		return err
	}
	cfg, _ := loadSettings()
	opts := engine.TraceOptions{
		Pruning:            !*noPrune,
		MaxDisplayDepth:    cfg.DisplayDepth,
		MaxDisplayChildren: cfg.DisplayChildren,
		HighlightDepth:     cfg.HighlightDepth,
		NodeBudget:         cfg.NodeBudget,
	}

	var tr *engine.Trace
	if *counterfactuals {
		tr, _ = engine.BuildTraceWithCounterfactuals(p, opts)
	} else {
		tr = engine.BuildTrace(p, opts)
	}

	fmt.Fprintf(os.Stderr, "steps=%d nodes=%d solutions=%d elapsed=%s aborted=%v\n",
		tr.TotalSteps, len(tr.Nodes), tr.Solutions, tr.TotalElapsed, tr.Aborted)

	if *out != "" {
		data, err := json.MarshalIndent(tr, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(*out, data, 0644)
	}
	printJSON(tr)
	return nil
}

func cmdCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	var pf problemFlags
	pf.register(fs)
	fs.Parse(args)

	p, err := pf.load()
	if err != nil {
		return err
	}
	cfg, _ := loadSettings()
	opts := engine.TraceOptions{
		MaxDisplayDepth:    cfg.DisplayDepth,
		MaxDisplayChildren: cfg.DisplayChildren,
		HighlightDepth:     cfg.HighlightDepth,
		NodeBudget:         cfg.NodeBudget,
	}

	results := engine.CompareScenarios(p, engine.BuildDefaultScenarios(), opts)
	fmt.Printf("%-24s %12s %10s %12s %8s\n", "scenario", "steps", "solutions", "elapsed", "aborted")
	for _, r := range results {
		fmt.Printf("%-24s %12d %10d %12s %8v\n", r.Scenario.Name, r.Steps, r.Solutions, r.Elapsed, r.Aborted)
	}
	return nil
}

func cmdProblems() error {
	for _, p := range model.BuiltinProblems {
		fmt.Printf("%-18s %2d x %2d  %3d cells  %2d pieces\n", p.Name, p.Rows, p.Cols, len(p.Mask), len(p.Pieces))
	}
	return nil
}

func cmdRuns(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	remove := fs.String("delete", "", "delete the run with this id")
	exportID := fs.String("export", "", "export the run with this id (requires -file)")
	importPath := fs.String("import", "", "import a run from this JSON file")
	file := fs.String("file", "", "target file for -export")
	fs.Parse(args)

	path := project.DefaultRunsPath()
	switch {
	case *remove != "":
		return project.DeleteRun(path, *remove)
	case *exportID != "":
		if *file == "" {
			return fmt.Errorf("runs -export needs -file")
		}
		runs, err := project.LoadRuns(path)
		if err != nil {
			return err
		}
		run, ok := project.FindRun(runs, *exportID)
		if !ok {
			return fmt.Errorf("run %s not found", *exportID)
		}
		if err := project.ExportRun(*file, run); err != nil {
			return err
		}
		fmt.Printf("exported run %s to %s\n", run.ID, *file)
		return nil
	case *importPath != "":
		run, err := project.ImportRun(*importPath)
		if err != nil {
			return err
		}
		if err := project.AddRun(path, run); err != nil {
			return err
		}
		fmt.Printf("imported run %q as %s\n", run.Name, run.ID)
		return nil
	}

	runs, err := project.LoadRuns(path)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-20s %-18s %s  solutions=%d\n", r.ID, r.Name, r.Problem.Name, r.CreatedAt, len(r.Solutions))
	}
	return nil
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	out := fs.String("export", "", "write the config and run library to this file")
	in := fs.String("import", "", "restore the config and run library from this file")
	fs.Parse(args)

	switch {
	case *out != "":
		cfg, _ := loadSettings()
		runs, err := project.LoadRuns(project.DefaultRunsPath())
		if err != nil {
			return err
		}
		if err := project.ExportAllData(*out, cfg, runs); err != nil {
			return err
		}
		fmt.Printf("backed up %d runs to %s\n", len(runs), *out)
		return nil
	case *in != "":
		backup, err := project.ImportAllData(*in)
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(project.DefaultConfigPath(), backup.Config); err != nil {
			return err
		}
		if err := project.SaveRuns(project.DefaultRunsPath(), backup.Runs); err != nil {
			return err
		}
		fmt.Printf("restored the config and %d runs\n", len(backup.Runs))
		return nil
	}
	return fmt.Errorf("backup needs -export or -import")
}

// printBoard renders a solution as a letter grid on stdout. Cells outside
// the mask print as spaces, uncovered mask cells as dots.
func printBoard(p model.Problem, sol model.Solution) {
	owner := make(map[model.Cell]model.PieceName)
	for _, pl := range sol {
		for _, c := range pl.Cells {
			owner[c] = pl.Piece
		}
	}
	masked := make(map[model.Cell]bool, len(p.Mask))
	for _, c := range p.Mask {
		masked[c] = true
	}
	for r := 0; r < p.Rows; r++ {
		var line strings.Builder
		for c := 0; c < p.Cols; c++ {
			cell := model.Cell{R: r, C: c}
			switch {
			case !masked[cell]:
				line.WriteByte(' ')
			case owner[cell] == "":
				line.WriteByte('.')
			default:
				line.WriteString(string(owner[cell]))
			}
		}
		fmt.Println(line.String())
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "pentotrace: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
