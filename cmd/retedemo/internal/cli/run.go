package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/latticeforge/rete"
	"github.com/latticeforge/rete/cmd/retedemo/internal/demo"
	"github.com/latticeforge/rete/retetest/audit"
	"github.com/latticeforge/rete/retetest/fixture"
	"github.com/latticeforge/rete/session"
)

// RunOptions holds the run subcommand's own flags.
type RunOptions struct {
	Schema         string
	Audit          string
	MaxActivations int
	Who            string
	Customer       string
}

// NewRunCommand builds the "run" subcommand: load a fact fixture,
// optionally validate it, insert it, fire rules, and optionally answer
// a point query.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	runOpts := &RunOptions{}

	cmd := &cobra.Command{
		Use:           "run <facts.yaml>",
		Short:         "Insert a fact fixture, fire the demo rulebase, and report",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, runOpts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&runOpts.Schema, "schema", "", "path to a CUE schema file overriding the built-in fact schema")
	cmd.Flags().StringVar(&runOpts.Audit, "audit", "", "path to a sqlite3 file recording every propagation event")
	cmd.Flags().IntVar(&runOpts.MaxActivations, "max-activations", 0, "abort fire-rules after this many activations (0 = unbounded)")
	cmd.Flags().StringVar(&runOpts.Who, "who", "", "after firing, query whether this name is an adult / VIP candidate")
	cmd.Flags().StringVar(&runOpts.Customer, "customer", "", "after firing, query this customer's order total")

	return cmd
}

func runDemo(rootOpts *RootOptions, runOpts *RunOptions, factsPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}

	data, err := os.ReadFile(factsPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "read fact fixture", err)
	}

	var schemaSrc string
	if runOpts.Schema != "" {
		src, err := os.ReadFile(runOpts.Schema)
		if err != nil {
			return WrapExitError(ExitCommandError, "read CUE schema", err)
		}
		schemaSrc = string(src)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return WrapExitError(ExitCommandError, "parse fact fixture", err)
	}
	if err := ValidateFactDoc(doc, schemaSrc); err != nil {
		return WrapExitError(ExitFailure, "fact fixture failed schema validation", err)
	}
	formatter.VerboseLog("fact fixture validated against schema")

	facts, err := fixture.LoadFacts(data)
	if err != nil {
		return WrapExitError(ExitCommandError, "load facts", err)
	}
	formatter.VerboseLog("loaded %d fact(s) from %s", len(facts), factsPath)

	var opts []session.Option
	if rootOpts.Verbose {
		opts = append(opts, session.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	if runOpts.MaxActivations > 0 {
		opts = append(opts, session.WithMaxActivations(runOpts.MaxActivations))
	}
	if runOpts.Audit != "" {
		al, err := audit.Open(runOpts.Audit)
		if err != nil {
			return WrapExitError(ExitCommandError, "open audit database", err)
		}
		defer al.Close()
		opts = append(opts, session.WithListener(al))
		formatter.VerboseLog("recording propagation trace to %s", runOpts.Audit)
	}

	rulebase := demo.New(formatter.Writer)
	sess := session.New(rulebase, opts...)
	sess = sess.Insert(facts...)

	sess, err = sess.FireRules()
	if err != nil {
		return WrapExitError(ExitFailure, "fire-rules failed", err)
	}

	if runOpts.Who != "" {
		if err := reportQuery(formatter, sess, "adults", "?name", runOpts.Who); err != nil {
			return err
		}
		if err := reportQuery(formatter, sess, "vip-candidates", "?name", runOpts.Who); err != nil {
			return err
		}
	}
	if runOpts.Customer != "" {
		if err := reportQuery(formatter, sess, "order-totals", "?customer", runOpts.Customer); err != nil {
			return err
		}
	}

	return nil
}

func reportQuery(formatter *OutputFormatter, sess session.Session, query string, param rete.Var, value string) error {
	results, err := sess.Query(query, rete.Bindings{param: rete.String(value)})
	if err != nil {
		return WrapExitError(ExitCommandError, "query "+query, err)
	}
	if len(results) == 0 {
		fmt.Fprintf(formatter.Writer, "%s: no match for %s\n", query, value)
		return nil
	}
	for _, b := range results {
		fmt.Fprintf(formatter.Writer, "%s: %s\n", query, b.String())
	}
	return nil
}
