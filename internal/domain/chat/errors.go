package chat

import "errors"

var (
	ErrRoomNotFound  = errors.New("chat room not found")
	ErrNotRoomMember = errors.New("user is not a member of this chat room")
	ErrChatWithSelf  = errors.New("cannot start a chat about your own listing")
	ErrEmptyMessage  = errors.New("message content is empty")
	ErrListingGone   = errors.New("listing is not available for chat")
)
