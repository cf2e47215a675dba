package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"billino/internal/client"
	"billino/internal/tablequery"

	"github.com/spf13/cobra"
)

// newListCmd builds a "<resource> list" command. Filters and sorts use
// the same colon-joined syntax the web UI puts in its URLs, so a
// query can be copied between the two.
func newListCmd(resource, path string) *cobra.Command {
	var (
		filters  []string
		sorts    []string
		search   string
		page     int
		pageSize int
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + resource,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			for _, f := range filters {
				q.Add("filter", f)
			}
			for _, s := range sorts {
				q.Add("sort", s)
			}
			q.Set("page", strconv.Itoa(page))
			q.Set("pageSize", strconv.Itoa(pageSize))
			if search != "" {
				q.Set("q", search)
			}
			state := tablequery.Codec{DefaultPageSize: pageSize}.Decode(q)

			result, err := client.FetchTableData[json.RawMessage](context.Background(), api, path, state)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			for _, item := range result.Items {
				if err := enc.Encode(item); err != nil {
					return err
				}
			}
			fmt.Fprintf(os.Stderr, "page %d/%d, %d total\n", result.Page, result.PageCount, result.Total)
			return nil
		},
	}

	list.Flags().StringArrayVar(&filters, "filter", nil, "filter as field:operator:value (repeatable)")
	list.Flags().StringArrayVar(&sorts, "sort", nil, "sort as field:asc|desc (repeatable)")
	list.Flags().StringVar(&search, "search", "", "free-text search")
	list.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	list.Flags().IntVar(&pageSize, "page-size", 25, "rows per page")

	cmd := &cobra.Command{Use: resource, Short: "Work with " + resource}
	cmd.AddCommand(list)
	return cmd
}
