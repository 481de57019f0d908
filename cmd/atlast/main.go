package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/corbinforth/atlast/internal/panicerr"
	"github.com/corbinforth/atlast/pkg/atlast"
)

var (
	traceFlag bool
	dumpFlag  bool
	stackSize int
	rstackSz  int
	heapSize  uint
)

var rootCmd = &cobra.Command{
	Use:   "atlast [file...]",
	Short: "ATLAST Forth-dialect interpreter",
	Long: `atlast hosts the embeddable ATLAST engine behind a console: with no
arguments it reads lines from standard input, otherwise it loads each
named file in order. The host wires in a handful of words the core
deliberately leaves out (file loading, session exit).`,
	Args: cobra.ArbitraryArgs,
	RunE: runSession,
}

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate a source file and exit",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		interp, _ := newInterp()
		defer interp.Close()
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = interp.Load(args[0], f)
		return err
	},
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Print the live dictionary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		interp, _ := newInterp()
		defer interp.Close()
		interp.Init()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			interp.DumpWords(os.Stdout)
			return nil
		}
		for _, name := range interp.Words() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "trace word dispatch to stderr")
	rootCmd.PersistentFlags().BoolVar(&dumpFlag, "dump", false, "dump the instance after the session")
	rootCmd.PersistentFlags().IntVar(&stackSize, "stack", 0, "data-stack capacity in cells")
	rootCmd.PersistentFlags().IntVar(&rstackSz, "rstack", 0, "return-stack capacity in cells")
	rootCmd.PersistentFlags().UintVar(&heapSize, "heap", 0, "heap capacity in cells")

	wordsCmd.Flags().BoolP("verbose", "v", false, "structured per-entry dump")

	rootCmd.AddCommand(evalCmd, wordsCmd)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if traceFlag {
		log.SetLevel(logrus.TraceLevel)
	}
	return log
}

func newInterp() (*atlast.Interp, *session) {
	var opts []atlast.Option
	if stackSize > 0 {
		opts = append(opts, atlast.WithStackSize(stackSize))
	}
	if rstackSz > 0 {
		opts = append(opts, atlast.WithReturnStackSize(rstackSz))
	}
	if heapSize > 0 {
		opts = append(opts, atlast.WithHeapSize(heapSize))
	}
	opts = append(opts,
		atlast.WithOutput(os.Stdout),
		atlast.WithLogger(newLogger()),
	)

	interp := atlast.New(opts...)
	sess := &session{}
	registerHostWords(interp, sess)
	return interp, sess
}

func runSession(_ *cobra.Command, args []string) error {
	interp, sess := newInterp()
	defer interp.Close()

	if dumpFlag {
		defer interp.Dump(os.Stderr)
	}

	return panicerr.Recover("atlast", func() error {
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = interp.Load(path, f)
			f.Close()
			if err != nil {
				return err
			}
		}
		if len(args) > 0 {
			return nil
		}
		return repl(interp, sess)
	})
}

// repl is the interactive prompt loop: one Eval per line, reporting a
// non-NORMAL status without ending the session.
func repl(interp *atlast.Interp, sess *session) error {
	sc := bufio.NewScanner(os.Stdin)
	for !sess.done {
		fmt.Print("-> ")
		if !sc.Scan() {
			fmt.Println()
			return sc.Err()
		}
		if status := interp.Eval(sc.Text()); status != atlast.NORMAL {
			fmt.Fprintf(os.Stderr, "! %v\n", status)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "atlast: %v\n", err)
		os.Exit(1)
	}
}
