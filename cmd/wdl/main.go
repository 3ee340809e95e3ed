package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/powellquiring/hardwordle/config"
	"github.com/powellquiring/hardwordle/outcome"
	"github.com/powellquiring/hardwordle/wordle"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3" // imports as package "cli"
)

type GlobalConfiguration struct {
	matrix *outcome.Matrix
	config config.Config
	logger *slog.Logger
}

func (g GlobalConfiguration) solver() *wordle.Solver {
	var memo wordle.Memo
	if g.config.CacheCapacity >= 0 {
		memo = wordle.NewMapMemo(g.config.CacheCapacity)
	}
	return wordle.NewSolver(g.matrix, wordle.Options{
		MaxGuesses:    g.config.MaxGuesses,
		Memo:          memo,
		Logger:        g.logger,
		Progress:      g.config.Progress,
		SlowThreshold: g.config.SlowThreshold,
	})
}

// priority is the first guesses from the command line, else from the config
// file, else nil for the heuristic order
func (g GlobalConfiguration) priority(args []string) ([]outcome.GuessIndex, error) {
	if len(args) == 0 {
		args = g.config.Priority
	}
	if len(args) == 0 {
		return nil, nil
	}
	return g.matrix.GuessesFromStrings(lower(args))
}

func lower(strs []string) []string {
	ret := make([]string, len(strs))
	for i, s := range strs {
		ret[i] = strings.ToLower(s)
	}
	return ret
}

func buildMatrix(wordsPath, guessesPath, out string, progress bool) error {
	words, err := outcome.LoadWords(wordsPath)
	if err != nil {
		return err
	}
	var guesses []string
	if guessesPath != "" {
		if guesses, err = outcome.LoadWords(guessesPath); err != nil {
			return err
		}
	}
	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(words)+len(guesses)), "matrix")
	} else {
		bar = progressbar.DefaultSilent(int64(len(words)+len(guesses)), "matrix")
	}
	start := time.Now()
	m, err := outcome.BuildProgress(words, guesses, bar)
	if err != nil {
		return err
	}
	if err := m.SaveFile(out); err != nil {
		return err
	}
	fmt.Printf("%d words %d guesses %d results -> %s in %v\n", m.NumWords(), m.NumGuesses(), m.NumResults(), out, time.Since(start))
	return nil
}

func first(globalConfig GlobalConfiguration, count int) {
	m := globalConfig.matrix
	for i, item := range wordle.GuessOrder(m) {
		if count > 0 && i >= count {
			break
		}
		fmt.Println(m.GuessString(item.Value), item.Score)
	}
}

func solve(ctx context.Context, globalConfig GlobalConfiguration, firstGuesses []string, treePath, jsonPath string, expand bool) error {
	m := globalConfig.matrix
	priority, err := globalConfig.priority(firstGuesses)
	if err != nil {
		return err
	}
	if globalConfig.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, globalConfig.config.Timeout)
		defer cancel()
	}
	s := globalConfig.solver()
	pos := wordle.Start(m)
	tree, err := s.SolveFrom(ctx, pos, priority)
	if err != nil {
		return err
	}
	if expand {
		if err := s.Expand(tree, pos); err != nil {
			return err
		}
	}
	root, _ := tree.Root()
	stats := s.Engine.Stats()
	fmt.Printf("FINAL GUESS %s cost %d average %.4f\n", m.GuessString(root.Guess), root.Cost, float64(root.Cost)/float64(len(pos.Words)))
	fmt.Printf("tree nodes %d engine calls %d cache hits %d misses %d\n", tree.Len(), stats.Calls, stats.CacheHits, stats.CacheMisses)
	if treePath != "" {
		if err := tree.SaveFile(treePath); err != nil {
			return err
		}
	}
	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := tree.WriteJSON(file, m); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, globalConfig GlobalConfiguration, treePath string, verbose bool, solutionStrings []string) error {
	m := globalConfig.matrix
	var tree *wordle.Tree
	if treePath != "" {
		var err error
		if tree, err = wordle.LoadTreeFile(treePath); err != nil {
			return err
		}
	}
	solutions := m.AllWords()
	if len(solutionStrings) > 0 {
		var err error
		if solutions, err = m.WordsFromStrings(lower(solutionStrings)); err != nil {
			return err
		}
	}
	s := globalConfig.solver()
	pos := wordle.Start(m)
	if verbose {
		for _, solution := range solutions {
			guesses, err := s.Replay(tree, pos, solution)
			fmt.Print(m.WordString(solution), ":")
			for _, guess := range guesses {
				fmt.Print(" ", m.GuessString(guess), " ", m.Pattern(m.Result(guess, solution)))
			}
			if err != nil {
				fmt.Print(" FAILED")
			}
			fmt.Println()
		}
	}
	report, err := s.Evaluate(ctx, tree, pos, solutions)
	if err != nil {
		return err
	}
	keys := make([]int, 0, len(report.Histogram))
	for k := range report.Histogram {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, numGuesses := range keys {
		fmt.Println(numGuesses, report.Histogram[numGuesses])
	}
	for _, failed := range report.Failed {
		fmt.Println("failed:", m.WordString(failed))
	}
	fmt.Printf("Average number of guesses %.4f over %d words, worst %d\n", report.Average(), report.Words, report.Worst)
	return nil
}

// playWordle with guess/answer pairs provided
func playWordle(ctx context.Context, globalConfig GlobalConfiguration, treePath string, answers []string) error {
	m := globalConfig.matrix
	var tree *wordle.Tree
	if treePath != "" {
		var err error
		if tree, err = wordle.LoadTreeFile(treePath); err != nil {
			return err
		}
	}
	pos := wordle.Start(m)
	var hist wordle.History
	for i := 0; i < len(answers); i += 2 {
		guessString := strings.ToLower(answers[i])
		guess, ok := m.Guess(guessString)
		if !ok {
			return fmt.Errorf("guess %s: %w", guessString, outcome.ErrUnknownWord)
		}
		code, err := m.ParseResult(answers[i+1])
		if err != nil {
			return fmt.Errorf("answer %s: %w", answers[i+1], err)
		}
		hist = hist.Append(guess, code)
		pos = pos.Apply(m, guess, code)
	}
	if len(pos.Words) == 0 {
		return cli.Exit("no word matches those answers", 3)
	}
	s := globalConfig.solver()
	var next outcome.GuessIndex
	var cost wordle.Cost
	if move, ok := treeMove(tree, hist); ok {
		next, cost = move.Guess, move.Cost
	} else {
		sub, err := s.SolveFrom(ctx, pos, nil)
		if err != nil {
			return err
		}
		move, _ := sub.Root()
		next, cost = move.Guess, move.Cost
	}
	fmt.Print(m.GuessString(next), " (", cost, "):")
	for _, w := range pos.Words {
		fmt.Print(" ", m.WordString(w))
	}
	fmt.Println()
	return nil
}

func treeMove(tree *wordle.Tree, hist wordle.History) (wordle.Move, bool) {
	if tree == nil {
		return wordle.Move{}, false
	}
	move, ok := tree.Lookup(hist)
	return move, ok && move.Guess != outcome.NoGuess
}

func cpuProfile() func() {
	f, err := os.Create("cpu.prof")
	if err != nil {
		panic(err)
	}
	pprof.StartCPUProfile(f)
	return pprof.StopCPUProfile
}

func globalCofiguration(matrixPath, configPath string, verbose bool, overrides func(*config.Config)) (GlobalConfiguration, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return GlobalConfiguration{}, err
	}
	overrides(&c)
	if err := c.Validate(); err != nil {
		return GlobalConfiguration{}, err
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	start := time.Now()
	m, err := outcome.LoadFile(matrixPath)
	if err != nil {
		return GlobalConfiguration{}, err
	}
	logger.Debug("loaded matrix", "path", matrixPath, "words", m.NumWords(), "guesses", m.NumGuesses(), "elapsed", time.Since(start))
	return GlobalConfiguration{matrix: m, config: c, logger: logger}, nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	matrixPath := ""
	configPath := ""
	progress := false
	profile := false
	verbose := false
	maxGuesses := 0
	timeout := time.Duration(0)
	cacheCapacity := 0
	// command specific flags
	treePath := ""
	jsonPath := ""
	expand := false
	count := 0

	var globalConfig GlobalConfiguration
	cmd := &cli.Command{
		Name:  "wdl",
		Usage: "optimal hard mode wordle strategies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "matrix",
				Value:       "matrix.gob",
				Aliases:     []string{"m"},
				Usage:       "precomputed outcome matrix, see the matrix command",
				Sources:     cli.EnvVars("WDL_MATRIX"),
				Destination: &matrixPath,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "yaml solver configuration",
				Sources:     cli.EnvVars("WDL_CONFIG"),
				Destination: &configPath,
			},
			&cli.BoolFlag{
				Name:        "progress",
				Value:       false,
				Aliases:     []string{"p"},
				Usage:       "show progress bar",
				Destination: &progress,
			},
			&cli.BoolFlag{
				Name:        "profile",
				Value:       false,
				Usage:       "store profile data to analyze",
				Destination: &profile,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "debug logging",
				Destination: &verbose,
			},
			&cli.IntFlag{
				Name:        "max-guesses",
				Usage:       "guesses per game",
				Sources:     cli.EnvVars("WDL_MAX_GUESSES"),
				Destination: &maxGuesses,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "stop trying new first guesses after this long",
				Sources:     cli.EnvVars("WDL_TIMEOUT"),
				Destination: &timeout,
			},
			&cli.IntFlag{
				Name:        "cache-capacity",
				Usage:       "memoized sub-problems, 0 is unbounded, -1 disables",
				Sources:     cli.EnvVars("WDL_CACHE_CAPACITY"),
				Destination: &cacheCapacity,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "matrix",
				Usage:     "build the outcome matrix from dictionary files, one word per line",
				ArgsUsage: "answers.txt [guesses.txt]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() < 1 || cmd.NArg() > 2 {
						return cli.Exit("need the answers file and optionally the guesses file", 1)
					}
					return buildMatrix(cmd.Args().Get(0), cmd.Args().Get(1), matrixPath, progress)
				},
			},
			{
				Name:  "first",
				Usage: "sort first guesses by letter frequency score",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "count",
						Aliases:     []string{"n"},
						Usage:       "number of guesses to print, 0 is all",
						Destination: &count,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					first(globalConfig, count)
					return nil
				},
			},
			{
				Name: "solve",
				Usage: `solve [firstguess] ...
				Find the best first guess and its decision tree. The first guesses to try default to the config
				priority list and then to every guess in letter frequency order.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "tree",
						Aliases:     []string{"t"},
						Usage:       "write the decision tree (gob)",
						Destination: &treePath,
					},
					&cli.StringFlag{
						Name:        "json",
						Usage:       "write the decision tree as json",
						Destination: &jsonPath,
					},
					&cli.BoolFlag{
						Name:        "expand",
						Usage:       "add every reachable position to the tree",
						Destination: &expand,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return solve(ctx, globalConfig, cmd.Args().Slice(), treePath, jsonPath, expand)
				},
			},
			{
				Name: "eval",
				Usage: `eval [solution] ...
				Replay the decision tree for each solution, all answers when none are given.  Positions missing
				from the tree are searched.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "tree",
						Aliases:     []string{"t"},
						Usage:       "decision tree written by solve",
						Destination: &treePath,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return evaluate(ctx, globalConfig, treePath, verbose, cmd.Args().Slice())
				},
			},
			{
				Name: "play",
				Usage: `play a game of hard mode wordle by entering pairs of [guess answer]...
				answers are colors like rrggy, prints the next guess and the remaining words`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "tree",
						Aliases:     []string{"t"},
						Usage:       "decision tree written by solve",
						Destination: &treePath,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg()%2 != 0 {
						return cli.Exit("must have pairs of guess answer", 1)
					}
					return playWordle(ctx, globalConfig, treePath, cmd.Args().Slice())
				},
			},
		},
	}
	for _, sub := range cmd.Commands {
		action := sub.Action
		sub.Action = func(ctx context.Context, c *cli.Command) error {
			if profile {
				def := cpuProfile()
				defer def()
			}
			return action(ctx, c)
		}
		if sub.Name == "matrix" {
			continue
		}
		sub.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			globalConfig, err = globalCofiguration(matrixPath, configPath, verbose, func(conf *config.Config) {
				if c.IsSet("max-guesses") {
					conf.MaxGuesses = maxGuesses
				}
				if c.IsSet("timeout") {
					conf.Timeout = timeout
				}
				if c.IsSet("cache-capacity") {
					conf.CacheCapacity = cacheCapacity
				}
				if c.IsSet("progress") {
					conf.Progress = progress
				}
			})
			return ctx, err
		}
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
