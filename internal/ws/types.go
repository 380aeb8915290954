package ws

// client -> server
const (
	MsgCreateRoom   = "create_room"
	MsgJoinRoom     = "join_room"
	MsgLeaveRoom    = "leave_room"
	MsgSelectCard   = "select_card"
	MsgSelectMarble = "select_marble"
	MsgSelectTarget = "select_target"
	MsgSelectSteps  = "select_steps"
	MsgConfirmMove  = "confirm_move"
	MsgResolveTurn  = "resolve_turn"
	MsgBurnCard     = "burn_card"
	MsgDecideTen    = "decide_ten"
	MsgDecideRedQ   = "decide_red_queen"
	MsgDiscard      = "discard_card"
	MsgPing         = "ping"

	// server -> client
	MsgWelcome  = "welcome"
	MsgRoom     = "room"
	MsgState    = "state"
	MsgGameOver = "game_over"
	MsgError    = "error"
	MsgPong     = "pong"
)
