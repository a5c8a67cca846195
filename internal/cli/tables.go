package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petfit/backend/internal/infrastructure/configstore"
	"github.com/petfit/backend/internal/usecase"
)

// newTablesCmd manages the admin config tables in a SQLite file
func newTablesCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage the harmful ingredient and allergen keyword tables",
		Example: `  petfit tables --db petfit.db seed
  petfit tables --db petfit.db add-harmful "propylene glycol"
  petfit tables --db petfit.db add-keyword FISH 연어 salmon
  petfit tables --db petfit.db remove-harmful BHT
  petfit tables --db petfit.db list`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite config database")
	_ = cmd.MarkPersistentFlagRequired("db")

	withStore := func(fn func(ctx context.Context, store *configstore.Store, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, err := configstore.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			return fn(ctx, store, cmd.OutOrStdout(), args)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Load the built-in lists, reactivating any that were removed",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, store *configstore.Store, out io.Writer, _ []string) error {
			defaults := usecase.DefaultScoringTables()
			if err := store.Seed(ctx, defaults.HarmfulIngredients, defaults.AllergenKeywords); err != nil {
				return err
			}
			fmt.Fprintf(out, "seeded %d harmful ingredients and %d allergen codes\n",
				len(defaults.HarmfulIngredients), len(defaults.AllergenKeywords))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-harmful NAME...",
		Short: "Add or reactivate harmful ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE: withStore(func(ctx context.Context, store *configstore.Store, out io.Writer, args []string) error {
			for _, name := range args {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if err := store.AddHarmfulIngredient(ctx, name); err != nil {
					return fmt.Errorf("add %q: %w", name, err)
				}
				fmt.Fprintf(out, "added %s\n", name)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-harmful NAME...",
		Short: "Deactivate harmful ingredients",
		Args:  cobra.MinimumNArgs(1),
		RunE: withStore(func(ctx context.Context, store *configstore.Store, out io.Writer, args []string) error {
			for _, name := range args {
				if err := store.DeactivateHarmfulIngredient(ctx, name); err != nil {
					return fmt.Errorf("remove %q: %w", name, err)
				}
				fmt.Fprintf(out, "removed %s\n", name)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-keyword CODE KEYWORD...",
		Short: "Add or reactivate ingredient keywords for an allergen code",
		Args:  cobra.MinimumNArgs(2),
		RunE: withStore(func(ctx context.Context, store *configstore.Store, out io.Writer, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			for _, kw := range args[1:] {
				if err := store.AddAllergenKeyword(ctx, code, kw); err != nil {
					return fmt.Errorf("add %s/%q: %w", code, kw, err)
				}
			}
			fmt.Fprintf(out, "added %d keywords to %s\n", len(args)-1, code)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the active lists",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, store *configstore.Store, out io.Writer, _ []string) error {
			harmful, err := store.HarmfulIngredients(ctx)
			if err != nil {
				return err
			}
			keywords, err := store.AllergenKeywords(ctx)
			if err != nil {
				return err
			}
			writeTables(out, harmful, keywords)
			return nil
		}),
	})

	return cmd
}

func writeTables(out io.Writer, harmful []string, keywords map[string][]string) {
	fmt.Fprintf(out, "harmful ingredients (%d):\n", len(harmful))
	for _, name := range harmful {
		fmt.Fprintf(out, "  %s\n", name)
	}

	codes := make([]string, 0, len(keywords))
	for code := range keywords {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Fprintf(out, "allergen keywords (%d codes):\n", len(codes))
	for _, code := range codes {
		fmt.Fprintf(out, "  %s: %s\n", code, strings.Join(keywords[code], ", "))
	}
}
