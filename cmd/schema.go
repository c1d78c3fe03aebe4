package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

// schemaTargets maps schema names to a value of the described type.
var schemaTargets = map[string]any{
	"envelope":          &protocol.Envelope{},
	"catalog-item":      &catalog.Item{},
	"catalog-list":      []catalog.Item{},
	protocol.RoomsList:  []protocol.RoomSummary{},
	protocol.RoomJoined: &protocol.Joined{},
	protocol.LoadMedia:  &protocol.Load{},
	protocol.UsersList:  []protocol.Member{},
	protocol.JoinRoom:   &protocol.JoinRequest{},
}

func schemaNames() []string {
	names := lo.Keys(schemaTargets)
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.SetOut(os.Stdout)
}

var schemaCmd = &cobra.Command{
	Use:       "schema [name]",
	Short:     "Print JSON schemas of the wire payloads and catalog entries",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: schemaNames(),
	Run: func(cmd *cobra.Command, args []string) {
		name := "envelope"
		if len(args) == 1 {
			name = args[0]
		}

		target, ok := schemaTargets[name]
		if !ok {
			handleErr(fmt.Errorf("unknown schema %q, available: %v", name, schemaNames()))
		}

		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return t.Name()
		}

		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(target)))
	},
}
