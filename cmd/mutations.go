package cmd

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"path/filepath"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/mutiny/internal/domain"
	"gooze.dev/pkg/mutiny/internal/domain/mutagens"
	m "gooze.dev/pkg/mutiny/internal/model"
)

const expressionFlagName = "expression"

// expressionPath names the file an --expression snippet is wrapped into.
const expressionPath m.Path = "expression.go"

var errNoMutationSource = errors.New("either a file or --expression is required")

const mutationsLongDescription = `Print every mutation the operators generate for a Go file or snippet,
as unified diffs. Nothing is compiled or tested.

A snippet given with --expression is placed in the body of a function, e.g.

  mutiny mutations -e 'return a + b' --operators arithmetic`

func newMutationsCmd() *cobra.Command {
	var (
		expression string
		operators  []string
	)

	cmd := &cobra.Command{
		Use:          "mutations [file]",
		Short:        "Print the mutations of a Go file or snippet",
		Long:         mutationsLongDescription,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := mutationSource(cmd, expression, args)
			if err != nil {
				return err
			}

			selected, err := mutagens.Lookup(operators...)
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
			}

			return printMutations(cmd, file, selected)
		},
	}

	cmd.Flags().StringVarP(&expression, expressionFlagName, "e", "", "Go statements to mutate instead of a file")
	cmd.Flags().StringSliceVarP(&operators, operatorsFlagName, "i", nil, "mutation operators to apply (default: all)")

	return cmd
}

func mutationSource(cmd *cobra.Command, expression string, args []string) (m.SourceFile, error) {
	var (
		path    m.Path
		content []byte
	)

	switch {
	case expression != "" && len(args) > 0:
		return m.SourceFile{}, fmt.Errorf("%w, not both", errNoMutationSource)
	case expression != "":
		path = expressionPath
		content = []byte("package expression\n\nfunc expression() {\n" + expression + "\n}\n")
	case len(args) == 1:
		path = m.Path(args[0])

		read, err := sourceFSAdapter.ReadFile(path)
		if err != nil {
			return m.SourceFile{}, fmt.Errorf("read %s: %w", path, err)
		}

		content = read
	default:
		return m.SourceFile{}, errNoMutationSource
	}

	clause, err := parser.ParseFile(token.NewFileSet(), string(path), content, parser.PackageClauseOnly)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("parse %s: %w", path, err)
	}

	tree, err := goFileAdapter.Parse(cmd.Context(), path, content)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return m.SourceFile{
		Path:    path,
		Dir:     m.Path(filepath.Dir(string(path))),
		Package: clause.Name.Name,
		Content: content,
		Tree:    tree,
	}, nil
}

func printMutations(cmd *cobra.Command, file m.SourceFile, operators []mutagens.Operator) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	files := []m.SourceFile{file}

	matcher := domain.NewMatcher(goFileAdapter, &domain.LogWarner{})
	subjects := matcher.Match(goFileAdapter.ExtractScopes(ctx, files), files, domain.Filters{})

	count := 0

	for i := range subjects {
		subject := &subjects[i]

		mutations, err := mutagen.GenerateMutations(ctx, subject, file, operators, false)
		if err != nil {
			return err
		}

		for _, mutation := range mutations {
			fmt.Fprintf(out, "%s %s (%s)\n%s\n", shortID(mutation.ID), subject.Identification(), mutation.Operator, mutation.Diff)
		}

		count += len(mutations)
	}

	fmt.Fprintf(out, "%d mutation(s) of %d subject(s)\n", count, len(subjects))

	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func init() {
	rootCmd.AddCommand(newMutationsCmd())
}
