package cocktails

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sipbar/sip/cmd/cli/client"
	"github.com/sipbar/sip/cmd/cli/output"
	"github.com/spf13/cobra"
)

type ingredient struct {
	Name            string   `json:"name"`
	MeasurementUnit string   `json:"measurementUnit"`
	Amount          float64  `json:"amount"`
	ABV             *float64 `json:"abv,omitempty"`
}

type cocktail struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Creator     string       `json:"creator"`
	Ingredients []ingredient `json:"ingredients"`
	Directions  string       `json:"directions"`
}

// InitCocktails registers cocktail CRUD commands on the root command.
func InitCocktails(rootCmd *cobra.Command) {
	cocktailsCmd := &cobra.Command{
		Use:   "cocktails",
		Short: "Browse and manage cocktail recipes",
	}
	cocktailsCmd.AddCommand(listCmd(), getCmd(), createCmd(), updateCmd(), deleteCmd())
	rootCmd.AddCommand(cocktailsCmd)
}

func listCmd() *cobra.Command {
	var search string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cocktails",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/cocktail?limit=" + strconv.Itoa(limit)
			if search != "" {
				path += "&search=" + search
			}
			var list []cocktail
			if err := client.Do("GET", path, nil, false, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, c := range list {
				rows = append(rows, []interface{}{c.ID, c.Name, c.Creator, len(c.Ingredients)})
			}
			output.RenderTable([]string{"ID", "Name", "Creator", "Ingredients"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Filter by name")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results")

	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one cocktail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c cocktail
			if err := client.Do("GET", "/cocktail/"+args[0], nil, false, &c); err != nil {
				return err
			}

			fmt.Printf("%s (#%d) by %s\n", c.Name, c.ID, c.Creator)
			rows := make([][]interface{}, 0, len(c.Ingredients))
			for _, ing := range c.Ingredients {
				abv := ""
				if ing.ABV != nil {
					abv = fmt.Sprintf("%.1f%%", *ing.ABV)
				}
				rows = append(rows, []interface{}{ing.Name, ing.Amount, ing.MeasurementUnit, abv})
			}
			output.RenderTable([]string{"Ingredient", "Amount", "Unit", "ABV"}, rows)
			if c.Directions != "" {
				fmt.Println(c.Directions)
			}
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	var name, directions, ingredientsJSON string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cocktail",
		Long: `Create a cocktail recipe. Ingredients are passed as a JSON array, e.g.
--ingredients '[{"name":"Gin","measurementUnit":"part","amount":2},{"name":"Vermouth","measurementUnit":"part","amount":1}]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ingredients []ingredient
			if err := json.Unmarshal([]byte(ingredientsJSON), &ingredients); err != nil {
				return fmt.Errorf("invalid --ingredients JSON: %w", err)
			}

			payload := map[string]any{
				"name":        name,
				"ingredients": ingredients,
			}
			if directions != "" {
				payload["directions"] = directions
			}

			var created cocktail
			if err := client.Do("POST", "/cocktail/create", payload, true, &created); err != nil {
				return err
			}

			fmt.Printf("Created %s (#%d)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Cocktail name")
	cmd.Flags().StringVar(&ingredientsJSON, "ingredients", "", "Ingredients as a JSON array")
	cmd.Flags().StringVar(&directions, "directions", "", "Optional preparation directions")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("ingredients")

	return cmd
}

func updateCmd() *cobra.Command {
	var newName, newDirections, newIngredientsJSON string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a cocktail you own",
		Long: `Update one or more fields of a cocktail you created. Only supplied flags
are changed; --new-directions "" clears the directions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{"targetId": args[0]}
			if cmd.Flags().Changed("new-name") {
				payload["newName"] = newName
			}
			if cmd.Flags().Changed("new-directions") {
				payload["newDirections"] = newDirections
			}
			if cmd.Flags().Changed("new-ingredients") {
				var ingredients []ingredient
				if err := json.Unmarshal([]byte(newIngredientsJSON), &ingredients); err != nil {
					return fmt.Errorf("invalid --new-ingredients JSON: %w", err)
				}
				payload["newIngredients"] = ingredients
			}

			var updated cocktail
			if err := client.Do("PUT", "/cocktail/update", payload, true, &updated); err != nil {
				return err
			}

			fmt.Printf("Updated %s (#%d)\n", updated.Name, updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "Replacement name")
	cmd.Flags().StringVar(&newIngredientsJSON, "new-ingredients", "", "Replacement ingredients as a JSON array")
	cmd.Flags().StringVar(&newDirections, "new-directions", "", "Replacement directions (empty string clears)")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a cocktail you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			}
			payload := map[string]any{"targetId": args[0]}
			if err := client.Do("DELETE", "/cocktail/delete", payload, true, &summary); err != nil {
				return err
			}

			fmt.Printf("Deleted %s (#%d)\n", summary.Name, summary.ID)
			return nil
		},
	}
}
