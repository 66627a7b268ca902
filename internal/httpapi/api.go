package httpapi

import (
	"log/slog"

	"github.com/CaptainCallback/TwitchChatBot/internal/types"
)

type APIController struct {
	ControlCh chan types.IRCCommand
	lg        *slog.Logger
}
