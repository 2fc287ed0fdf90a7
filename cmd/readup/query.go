package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gopikrish-30/ReadUp/reader"
)

func PrintQuery(ctx context.Context, db *sql.Tx, query string, args ...interface{}) error {
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	result, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return err
	}
	columns, err := result.Columns()
	if err != nil {
		return err
	}
	if len(columns) > 1 {
		fmt.Println(strings.Join(columns, "\t"))
	}
	pointers := make([]interface{}, len(columns))
	container := make([]string, len(columns))
	for i := 0; i < len(columns); i++ {
		pointers[i] = &container[i]
	}
	for result.Next() {
		result.Scan(pointers...)
		fmt.Println(strings.Join(container, "\t"))
	}
	return nil
}

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query database [book-id]",
	Short: "Inspect the library database",
	Long: strings.TrimSpace(`
Without a book id, lists every book with its reading progress. With a book id,
dumps that book's annotation set as indented JSON.
    `),
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := reader.GetDatabase(args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		tx, err := db.BeginTx(cmd.Context(), &sql.TxOptions{
			Isolation: sql.LevelReadUncommitted,
		})
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if len(args) < 2 {
			return PrintQuery(cmd.Context(), tx,
				"select id, title, author, current_page, total_pages from books order by added_at")
		}

		var payload string
		err = tx.QueryRowContext(cmd.Context(),
			"select payload from annotation_sets where document_id = ?", args[1],
		).Scan(&payload)
		if err == sql.ErrNoRows {
			return fmt.Errorf("book %s has no annotations", args[1])
		}
		if err != nil {
			return err
		}

		var pretty map[string]interface{}
		if err := json.Unmarshal([]byte(payload), &pretty); err != nil {
			return fmt.Errorf("while decoding annotation payload: %w", err)
		}
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
