package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/syncwatch-cli/syncwatch/channel"
	"github.com/syncwatch-cli/syncwatch/color"
	"github.com/syncwatch-cli/syncwatch/icon"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/protocol"
	"github.com/syncwatch-cli/syncwatch/style"
	"github.com/syncwatch-cli/syncwatch/util"
)

var errNoRoomsReply = errors.New("server did not answer with a room list")

// fetchRooms connects once, asks for the room list and disconnects.
func fetchRooms(ctx context.Context, opts channel.Options) ([]protocol.RoomSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*opts.Timeout)
	defer cancel()

	var (
		client  = channel.New(opts)
		replies = make(chan []protocol.RoomSummary, 1)
		failed  = make(chan error, 1)
	)

	client.On(protocol.RoomsList, func(data json.RawMessage) {
		rooms, err := protocol.DecodeRooms(data)
		if err != nil {
			log.Warnf("rooms: %v", err)
			return
		}
		select {
		case replies <- rooms:
		default:
		}
	})

	client.OnLifecycle(func(state channel.Lifecycle, err error) {
		switch state {
		case channel.Connected, channel.Reconnected:
			if err := client.Emit(protocol.GetRooms, nil); err != nil {
				log.Warnf("rooms: %v", err)
			}
		case channel.ConnectFailed:
			select {
			case failed <- err:
			default:
			}
		}
	})

	go func() {
		_ = client.Run(ctx)
	}()

	select {
	case rooms := <-replies:
		return rooms, nil
	case err := <-failed:
		return nil, fmt.Errorf("connect %s: %w", opts.URL, err)
	case <-ctx.Done():
		return nil, errNoRoomsReply
	}
}

func init() {
	rootCmd.AddCommand(roomsCmd)

	roomsCmd.Flags().StringP("filter", "f", "", "Only show rooms whose name fuzzy matches")
	roomsCmd.Flags().BoolP("json", "j", false, "Print as json")
	roomsCmd.SetOut(os.Stdout)
}

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the rooms open on the sync server",
	Run: func(cmd *cobra.Command, args []string) {
		opts := dialOptions()

		e := util.PrintErasable(fmt.Sprintf("%s Fetching rooms from %s...", icon.Get(icon.Progress), opts.URL))
		rooms, err := fetchRooms(cmd.Context(), opts)
		e()
		handleErr(err)

		if query := lo.Must(cmd.Flags().GetString("filter")); query != "" {
			rooms = util.FuzzyFilter(rooms, query, func(r protocol.RoomSummary) string {
				return r.ID
			})
		} else {
			sort.SliceStable(rooms, func(i, j int) bool {
				return rooms[i].UserCount > rooms[j].UserCount
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(rooms))
			return
		}

		if len(rooms) == 0 {
			cmd.Printf("%s no rooms\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)))
			return
		}

		for _, room := range rooms {
			cmd.Printf(
				"%s %s %s\n",
				style.Fg(color.Purple)(icon.Get(icon.Room)),
				style.Bold(room.ID),
				style.Faint(roomDescription(room)),
			)
		}
	},
}

func roomDescription(room protocol.RoomSummary) string {
	desc := util.Quantify(room.UserCount, "viewer", "viewers")
	if room.MediaLabel != "" {
		state := icon.Get(icon.Pause)
		if room.Playing {
			state = icon.Get(icon.Play)
		}
		desc += fmt.Sprintf(", %s %s", state, room.MediaLabel)
	}
	return desc
}
