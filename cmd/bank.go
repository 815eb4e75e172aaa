package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/bank"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/store"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect, validate and import question banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a bank file (defaults to the active bank)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			b      *bank.Bank
			source string
			err    error
		)
		if len(args) == 1 {
			source = args[0]
			b, err = bank.LoadFile(source)
		} else {
			cfg, cerr := loadConfig(cmd)
			if cerr != nil {
				return cerr
			}
			b, source, err = loadBank(cmd.Context(), cfg)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s: ok (%s, %d topics, %d questions)\n", source, b.Exam(), len(b.Topics()), b.Size())
		return nil
	},
}

var bankStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show questions per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, source, err := loadBank(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n\n", b.Title(), source)
		fmt.Printf("%-24s  %-40s  %-8s  %9s  %5s\n", "ID", "Topic", "Weight", "Questions", "Multi")
		fmt.Println(strings.Repeat("─", 94))

		multi := 0
		for _, t := range b.Topics() {
			n := 0
			for _, q := range t.Questions {
				if q.IsMultiple() {
					n++
				}
			}
			multi += n
			name := t.Name
			if len([]rune(name)) > 40 {
				name = string([]rune(name)[:37]) + "..."
			}
			fmt.Printf("%-24s  %-40s  %-8s  %9d  %5d\n", t.ID, name, t.Weight, len(t.Questions), n)
		}

		fmt.Printf("\n%d questions in %d topics (%d multi-select)\n", b.Size(), len(b.Topics()), multi)
		return nil
	},
}

var bankExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the active bank as JSON or YAML (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, _, err := loadBank(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		format := bank.FormatJSON
		if f, _ := cmd.Flags().GetString("format"); f != "" {
			format = bank.FormatFromPath("bank." + strings.ToLower(f))
		} else if len(args) == 1 {
			format = bank.FormatFromPath(args[0])
		}

		data, err := bank.Encode(b, format)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", b.Size(), args[0])
		return nil
	},
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a bank file and store it in the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := bank.LoadFile(args[0])
		if err != nil {
			return err
		}
		return withStore(cmd, func(st *store.Store) error {
			if err := st.Banks().Save(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Printf("Imported %s: %d topics, %d questions\n", b.Exam(), len(b.Topics()), b.Size())
			return nil
		})
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List banks in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(st *store.Store) error {
			infos, err := st.Banks().List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No banks imported. The embedded AZ-104 bank is in use.")
				return nil
			}

			fmt.Printf("%-10s  %-40s  %6s  %9s  %s\n", "Exam", "Title", "Topics", "Questions", "Imported")
			fmt.Println(strings.Repeat("─", 90))
			for _, info := range infos {
				fmt.Printf("%-10s  %-40s  %6d  %9d  %s\n",
					info.Exam, info.Title, info.Topics, info.Questions,
					info.ImportedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		})
	},
}

var bankDeleteCmd = &cobra.Command{
	Use:   "delete <exam>",
	Short: "Remove a bank from the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(st *store.Store) error {
			if err := st.Banks().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

// withStore opens the bank store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func init() {
	bankExportCmd.Flags().String("format", "", "json or yaml (default: from the file extension)")

	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankStatsCmd)
	bankCmd.AddCommand(bankExportCmd)
	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankDeleteCmd)
}
