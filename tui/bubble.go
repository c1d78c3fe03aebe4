package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/engine"
	"github.com/syncwatch-cli/syncwatch/style"
	"github.com/syncwatch-cli/syncwatch/util"
)

const defaultRefresh = 250 * time.Millisecond

type statefulBubble struct {
	state   state
	keymap  *statefulKeymap
	engine  Engine
	catalog Catalog
	events  *Observer
	refresh time.Duration
	exited  <-chan struct{}

	// components
	spinnerC spinner.Model
	inputC   textinput.Model
	roomsC   list.Model
	catalogC list.Model
	helpC    help.Model
	notifier notifier

	snap engine.Snapshot

	// labels maps catalog identifiers to display names.
	labels map[string]string

	width, height int
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	// the status footer takes the last lines
	listHeight := height - yy - footerHeight

	b.roomsC.SetSize(listWidth, listHeight)
	b.roomsC.Help.Width = listWidth

	b.catalogC.SetSize(listWidth, listHeight)
	b.catalogC.Help.Width = listWidth

	b.inputC.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(options *Options) *statefulBubble {
	bubble := statefulBubble{
		keymap:  newStatefulKeymap(),
		engine:  options.Engine,
		catalog: options.Catalog,
		events:  options.Observer,
		refresh: options.Refresh,
		exited:  options.PlayerExited,
		labels:  make(map[string]string),
	}
	if bubble.events == nil {
		bubble.events = NewObserver()
	}
	if bubble.refresh <= 0 {
		bubble.refresh = defaultRefresh
	}

	type listOptions struct {
		TitleStyle mo.Option[lipgloss.Style]
	}

	makeList := func(title string, options *listOptions) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Filter = fuzzyFilter
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		if titleStyle, ok := options.TitleStyle.Get(); ok {
			listC.Styles.Title = titleStyle
		}
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "Room name"
	bubble.inputC.CharLimit = 50
	bubble.inputC.Prompt = "> "

	bubble.roomsC = makeList("Rooms", &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1),
		),
	})
	bubble.roomsC.SetStatusBarItemName("room", "rooms")

	bubble.catalogC = makeList("Catalog", &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Lavender).Padding(0, 1),
		),
	})
	bubble.catalogC.SetStatusBarItemName("title", "titles")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.snap = bubble.engine.Snapshot()
	bubble.setState(roomsState)
	return &bubble
}

func (b *statefulBubble) label(ref string) string {
	if ref == "" {
		return ""
	}
	if l, ok := b.labels[ref]; ok {
		return l
	}
	return ref
}

func (b *statefulBubble) rememberLabels(items []catalog.Item) {
	for _, item := range items {
		b.labels[item.ID] = item.Label()
	}
}
