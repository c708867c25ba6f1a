package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"archivist/internal/config"
	"archivist/internal/report"
	"archivist/internal/wordpress"
)

func newPostsCommand(ctx *commandContext) *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Query posts on the CMS",
	}
	postsCmd.AddCommand(newPostsExportCommand(ctx))
	return postsCmd
}

func newPostsExportCommand(ctx *commandContext) *cobra.Command {
	var categoryID int64
	var status string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the posts in a category to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := ctx.wordpressClient()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("category-id") {
				categoryID = cfg.WordPress.CategoryID
			}
			if categoryID <= 0 {
				return fmt.Errorf("posts export: --category-id must be positive")
			}

			posts, err := client.ListPosts(cmd.Context(), wordpress.ListOptions{CategoryID: categoryID, Status: status})
			if err != nil {
				return err
			}
			var others []int64
			for _, post := range posts {
				others = append(others, report.AdditionalCategories(post, categoryID)...)
			}
			names, err := client.CategoryNames(cmd.Context(), others)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = fmt.Sprintf("wp_posts_category_%d.csv", categoryID)
			}
			if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			err = report.WriteFile(target, func(w io.Writer) error {
				return report.WritePostsExport(w, posts, categoryID, names)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d posts to %s\n", len(posts), target)
			return nil
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category-id", 0, "Category ID to export (default: wordpress.category_id)")
	cmd.Flags().StringVar(&status, "status", wordpress.StatusPublish, "Post status to query")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default: wp_posts_category_<id>.csv)")
	return cmd
}
