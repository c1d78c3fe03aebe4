package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/color"
	"github.com/syncwatch-cli/syncwatch/icon"
	"github.com/syncwatch-cli/syncwatch/protocol"
	"github.com/syncwatch-cli/syncwatch/style"
	"github.com/syncwatch-cli/syncwatch/util"
)

// listItem wraps a room or a catalog entry for the list component.
type listItem struct {
	internal any
	marked   bool
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case protocol.RoomSummary:
		title = e.ID
		if e.Playing {
			title = fmt.Sprintf("%s %s", title, style.Fg(color.Playing)(icon.Get(icon.Play)))
		}
	case catalog.Item:
		title = e.Label()
	default:
		title = t.FilterValue()
	}

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, icon.Get(icon.Mark))
	}
	return
}

func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case protocol.RoomSummary:
		viewers := util.Quantify(e.UserCount, "viewer", "viewers")
		if e.MediaLabel == "" {
			return style.Faint(viewers + ", nothing selected")
		}
		return fmt.Sprintf("%s, %s", viewers, e.MediaLabel)
	case catalog.Item:
		if e.Duration > 0 {
			return fmt.Sprintf("%d min", e.Duration)
		}
		return e.Description
	default:
		return ""
	}
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case protocol.RoomSummary:
		return e.ID + " " + e.MediaLabel
	case catalog.Item:
		return e.Label()
	case string:
		return e
	default:
		return ""
	}
}

// fuzzyFilter ranks list entries the same way the command line filters do.
func fuzzyFilter(term string, targets []string) []list.Rank {
	ranks := fuzzy.RankFindNormalizedFold(term, targets)
	sort.Sort(ranks)

	out := make([]list.Rank, len(ranks))
	for i, r := range ranks {
		out[i] = list.Rank{Index: r.OriginalIndex}
	}
	return out
}

func roomItems(rooms []protocol.RoomSummary, current string) []list.Item {
	items := make([]list.Item, len(rooms))
	for i, r := range rooms {
		items[i] = &listItem{internal: r, marked: r.ID == current}
	}
	return items
}

func catalogItems(entries []catalog.Item, current string) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = &listItem{internal: e, marked: e.ID == current}
	}
	return items
}
