package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/app/services"
	"github.com/shashiranjanraj/partsdesk/pkg/rest"
)

var (
	listQuery    string
	listCategory string

	draftName     string
	draftBrand    string
	draftCategory string
	draftPrice    float64
	draftStock    int

	deleteYes bool
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Browse and manage part records",
}

// partsdesk parts list — the public catalog with optional filtering.
var partsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parts, optionally filtered by query and category",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := services.NewPartsService(publicClient())
		if err := svc.Load(cmd.Context()); err != nil {
			return fmt.Errorf("%s", svc.LastError())
		}

		filter := services.Filter{Query: listQuery, Category: listCategory}
		parts := filter.Apply(svc.Parts())
		if len(parts) == 0 {
			fmt.Println("No parts match your search.")
			return nil
		}
		return printParts(parts...)
	},
}

// partsdesk parts get <id>
var partsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid part id %q", args[0])
		}

		svc := services.NewPartsService(publicClient())
		part, err := svc.Get(cmd.Context(), id)
		if rest.IsNotFound(err) {
			return fmt.Errorf("part %d not found", id)
		}
		if err != nil {
			return err
		}
		return printParts(part)
	},
}

// partsdesk parts create — authenticated.
var partsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a part record",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := services.NewPartsService(authedClient(sessionStore()))
		part, err := svc.Create(cmd.Context(), models.PartDraft{
			Name:     draftName,
			Brand:    draftBrand,
			Category: draftCategory,
			Price:    draftPrice,
			Stock:    draftStock,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created part %d.\n", part.ID)
		return printParts(part)
	},
}

// partsdesk parts update <id>
var partsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a part record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid part id %q", args[0])
		}

		svc := services.NewPartsService(authedClient(sessionStore()))
		part, err := svc.Update(cmd.Context(), id, models.PartDraft{
			Name:     draftName,
			Brand:    draftBrand,
			Category: draftCategory,
			Price:    draftPrice,
			Stock:    draftStock,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated part %d.\n", part.ID)
		return printParts(part)
	},
}

// partsdesk parts delete <id> — deletion has no undo, so the command
// prompts unless --yes is given.
var partsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a part record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid part id %q", args[0])
		}

		if !deleteYes && !confirm(fmt.Sprintf("Delete part %d? This cannot be undone.", id)) {
			fmt.Println("Aborted.")
			return nil
		}

		svc := services.NewPartsService(authedClient(sessionStore()))
		if rerr := svc.Delete(cmd.Context(), id); rerr != nil {
			return rerr
		}
		fmt.Printf("Deleted part %d.\n", id)
		return nil
	},
}

func init() {
	partsCmd.AddCommand(partsListCmd)
	partsCmd.AddCommand(partsGetCmd)
	partsCmd.AddCommand(partsCreateCmd)
	partsCmd.AddCommand(partsUpdateCmd)
	partsCmd.AddCommand(partsDeleteCmd)

	partsListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "free-text search over name, brand, and category")
	partsListCmd.Flags().StringVarP(&listCategory, "category", "c", "", "exact category match")

	for _, c := range []*cobra.Command{partsCreateCmd, partsUpdateCmd} {
		c.Flags().StringVar(&draftName, "name", "", "part name")
		c.Flags().StringVar(&draftBrand, "brand", "", "part brand")
		c.Flags().StringVar(&draftCategory, "category", "", "part category")
		c.Flags().Float64Var(&draftPrice, "price", 0, "unit price")
		c.Flags().IntVar(&draftStock, "stock", 0, "units in stock")
	}

	partsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func printParts(parts ...models.Part) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range parts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Brand, p.Category, p.Price, p.Stock)
	}
	return w.Flush()
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
