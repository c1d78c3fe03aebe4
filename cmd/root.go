// Package cmd implements the command-line interface for syncwatch.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/color"
	"github.com/syncwatch-cli/syncwatch/constant"
	"github.com/syncwatch-cli/syncwatch/filesystem"
	"github.com/syncwatch-cli/syncwatch/icon"
	"github.com/syncwatch-cli/syncwatch/key"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/player"
	"github.com/syncwatch-cli/syncwatch/style"
	"github.com/syncwatch-cli/syncwatch/version"
	"github.com/syncwatch-cli/syncwatch/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("server", "S", "", "Websocket endpoint of the sync server")
	lo.Must0(viper.BindPFlag(key.ServerURL, rootCmd.PersistentFlags().Lookup("server")))

	rootCmd.Flags().StringP("nickname", "n", "", "Nickname shown to other room members")
	lo.Must0(viper.BindPFlag(key.UserNickname, rootCmd.Flags().Lookup("nickname")))

	rootCmd.Flags().StringP("player", "p", "", "Media player to use")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("player", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Available(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.Player, rootCmd.Flags().Lookup("player")))

	rootCmd.Flags().StringP("join", "j", "", "Join the room with this id once connected")
	rootCmd.Flags().BoolP("create", "c", false, "Create a room once connected, prompting for its name")
	rootCmd.MarkFlagsMutuallyExclusive("join", "create")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Sockets left behind by players that did not shut down cleanly.
	go func() {
		_, _ = filesystem.Remove(where.Temp())
	}()
}

// rootCmd starts an interactive watch session.
var rootCmd = &cobra.Command{
	Use:   constant.Syncwatch,
	Short: "Watch videos in sync with friends from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Watch videos in sync with friends from the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		var (
			opts watchOptions
			err  error
		)

		opts.nickname, err = promptNickname(viper.GetString(key.UserNickname))
		handleErr(err)

		opts.join = lo.Must(cmd.Flags().GetString("join"))
		if lo.Must(cmd.Flags().GetBool("create")) {
			opts.create, err = promptRoomName()
			handleErr(err)
		}

		handleErr(watch(cmd.Context(), opts))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
