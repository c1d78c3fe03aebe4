package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/color"
	"github.com/syncwatch-cli/syncwatch/icon"
	"github.com/syncwatch-cli/syncwatch/key"
	"github.com/syncwatch-cli/syncwatch/open"
	"github.com/syncwatch-cli/syncwatch/style"
	"github.com/syncwatch-cli/syncwatch/util"
)

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.PersistentFlags().StringP("kind", "k", "", "Catalog collection to browse")
	lo.Must0(catalogCmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalog.Kinds, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.CatalogKind, catalogCmd.PersistentFlags().Lookup("kind")))

	catalogCmd.PersistentFlags().BoolP("json", "j", false, "Print as json")
	catalogCmd.SetOut(os.Stdout)
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "Browse the media catalog of the sync server",
	Aliases: []string{"cat"},
}

func printItems(cmd *cobra.Command, items []catalog.Item) {
	if lo.Must(cmd.Flags().GetBool("json")) {
		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(items))
		return
	}

	if len(items) == 0 {
		cmd.Printf("%s nothing found\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)))
		return
	}

	for _, item := range items {
		cmd.Printf("%s %s %s\n", style.Faint(item.ID), style.Bold(item.Label()), style.Faint(minutes(item.Duration)))
	}
}

func minutes(duration int) string {
	if duration <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", duration)
}

func listCatalog(cmd *cobra.Command) (*catalog.Client, []catalog.Item) {
	client, err := catalog.Configured()
	handleErr(err)

	e := util.PrintErasable(fmt.Sprintf("%s Loading %s...", icon.Get(icon.Progress), client.Kind()))
	items, err := client.List(cmd.Context())
	e()
	handleErr(err)

	return client, items
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every entry of the catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, items := listCatalog(cmd)
		printItems(cmd, items)
	},
}

func init() {
	catalogCmd.AddCommand(catalogSearchCmd)
}

var catalogSearchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Fuzzy search the catalog by title",
	Example: "  syncwatch catalog search heat",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, items := listCatalog(cmd)
		printItems(cmd, catalog.Search(items, strings.Join(args, " ")))
	},
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd)
	catalogShowCmd.Flags().BoolP("open", "o", false, "Open the stream with the system default handler")
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry and the stream URL players open for it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := catalog.Configured()
		handleErr(err)

		item, err := client.Detail(cmd.Context(), args[0])
		handleErr(err)

		stream, err := client.Resolve(lo.Ternary(item.VideoURL != "", item.VideoURL, item.ID))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
				catalog.Item
				Stream string `json:"stream"`
			}{item, stream}))
			return
		}

		printDetail(cmd.OutOrStdout(), item, stream)

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(stream))
		}
	},
}

func printDetail(w io.Writer, item catalog.Item, stream string) {
	header := style.New().Bold(true).Foreground(color.HiPurple).Render
	_, _ = fmt.Fprintln(w, header(item.Label()))

	if d := minutes(item.Duration); d != "" {
		_, _ = fmt.Fprintln(w, style.Faint(d))
	}
	if item.Description != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, item.Description)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s %s\n", icon.Get(icon.Link), style.Fg(color.Yellow)(stream))
}

func init() {
	catalogCmd.AddCommand(catalogRefreshCmd)
}

var catalogRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Drop the cached listing so the next request hits the server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, err := catalog.Configured()
		handleErr(err)
		handleErr(client.Invalidate())

		cmd.Printf("%s %s cache cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)), client.Kind())
	},
}
