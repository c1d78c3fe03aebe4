package tui

type state int

const (
	roomsState state = iota
	createState
	roomState
	catalogState
)
