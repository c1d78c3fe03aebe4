package cmd

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/syncwatch-cli/syncwatch/auth"
	"github.com/syncwatch-cli/syncwatch/color"
	"github.com/syncwatch-cli/syncwatch/icon"
	"github.com/syncwatch-cli/syncwatch/style"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the sync server access token stored in the system keyring",
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store an access token, prompting for it when omitted",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			prompt := survey.Password{Message: "Access token:"}
			handleErr(survey.AskOne(&prompt, &token, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetToken(strings.TrimSpace(token)))
		cmd.Printf("%s token saved\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	tokenCmd.AddCommand(tokenGetCmd)
	tokenGetCmd.Flags().BoolP("reveal", "r", false, "Print the whole token")
}

var tokenGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored access token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		token, err := auth.Token()
		handleErr(err)

		if token == "" {
			cmd.Printf("%s no token stored\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)))
			return
		}

		if !lo.Must(cmd.Flags().GetBool("reveal")) {
			token = mask(token)
		}
		cmd.Println(token)
	},
}

// mask keeps the last four characters of a token.
func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

func init() {
	tokenCmd.AddCommand(tokenDeleteCmd)
}

var tokenDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the stored access token",
	Aliases: []string{"remove"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		cmd.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
