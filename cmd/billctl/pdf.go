package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"billino/internal/client"

	"github.com/spf13/cobra"
)

func newPDFCmd() *cobra.Command {
	var (
		out       string
		recipient string
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Download invoice documents, generating them on first access",
	}

	download := func(fetch func(ctx context.Context, id int64) (client.Document, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}
			doc, err := fetch(context.Background(), id)
			if err != nil {
				return err
			}
			target := out
			if target == "" {
				target = doc.Filename
			}
			if err := os.WriteFile(target, doc.Blob, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", target, len(doc.Blob))
			return nil
		}
	}

	invoice := &cobra.Command{
		Use:   "invoice <id>",
		Short: "Download an invoice PDF",
		Args:  cobra.ExactArgs(1),
		RunE: download(func(ctx context.Context, id int64) (client.Document, error) {
			return api.InvoicePDF(ctx, id)
		}),
	}
	a6 := &cobra.Command{
		Use:   "a6 <id>",
		Short: "Download the compact A6 render of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: download(func(ctx context.Context, id int64) (client.Document, error) {
			return api.A6InvoicePDF(ctx, id)
		}),
	}
	summary := &cobra.Command{
		Use:   "summary <id>",
		Short: "Download a summary invoice PDF",
		Args:  cobra.ExactArgs(1),
		RunE: download(func(ctx context.Context, id int64) (client.Document, error) {
			return api.SummaryInvoicePDF(ctx, id, recipient)
		}),
	}
	summary.Flags().StringVar(&recipient, "recipient", "", "override the recipient name when generating")

	for _, c := range []*cobra.Command{invoice, a6, summary} {
		c.Flags().StringVarP(&out, "output", "o", "", "output file (default: canonical filename)")
		cmd.AddCommand(c)
	}
	return cmd
}
