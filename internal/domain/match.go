package domain

import "time"

// Match is the persisted record of one finished game.
type Match struct {
	ID          int64     `db:"id" json:"id"`
	RoomCode    string    `db:"room_code" json:"room_code"`
	WinnerSeat  int       `db:"winner_seat" json:"winner_seat"`
	WinnerColor string    `db:"winner_color" json:"winner_color"`
	Turns       int       `db:"turns" json:"turns"`
	Bots        int       `db:"bots" json:"bots"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
