package pigeon

import "encoding/json"

// Realtime event tags. The client sends the first group and receives the
// second; tags outside either group are forwarded to generic handlers
// unchanged so that newer server event types keep flowing.
const (
	TagAuthenticate   = "authenticate"
	TagSendMessage    = "send_message"
	TagEditMessage    = "edit_message"
	TagDeleteMessage  = "delete_message"
	TagAddReaction    = "add_reaction"
	TagRemoveReaction = "remove_reaction"
	TagTyping         = "typing"
	TagMarkAsRead     = "mark_as_read"
	TagMarkAllAsRead  = "mark_all_as_read"
	TagGetOnlineList  = "get_online_list"
	TagPing           = "ping"

	TagAuthenticated   = "authenticated"
	TagError           = "error"
	TagNewMessage      = "new_message"
	TagMessageEdited   = "message_edited"
	TagMessageDeleted  = "message_deleted"
	TagReactionAdded   = "reaction_added"
	TagReactionRemoved = "reaction_removed"
	TagUserOnline      = "user_online"
	TagUserOffline     = "user_offline"
	TagUserTyping      = "user_typing"
	TagMessageRead     = "message_read"
	TagAllMessagesRead = "all_messages_read"
	TagPollCreated     = "poll_created"
	TagPollVoted       = "poll_voted"
	TagPollClosed      = "poll_closed"
	TagOnlineList      = "online_list"
	TagPong            = "pong"
)

// Envelope is the unit of realtime exchange: one JSON object per text frame,
// a tag plus a tag-shaped payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newEnvelope(tag string, data interface{}) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, NewError(ProtocolError, err)
	}
	return Envelope{Type: tag, Data: raw}, nil
}

// AuthenticatedData is the payload of the authenticated event.
type AuthenticatedData struct {
	UserID int64 `json:"user_id"`
}

// ErrorData is the payload of an inbound error envelope.
type ErrorData struct {
	Message string `json:"message"`
}

// MessageEventData is the payload of message-bearing events such as
// new_message and message_edited.
type MessageEventData struct {
	Message Message `json:"message"`
}

// MessageDeletedData is the payload of the message_deleted event.
type MessageDeletedData struct {
	MessageID int64 `json:"message_id"`
	ChatID    int64 `json:"chat_id"`
}

// ReactionEventData is the payload of reaction_added and reaction_removed.
type ReactionEventData struct {
	MessageID int64  `json:"message_id"`
	UserID    int64  `json:"user_id"`
	Emoji     string `json:"emoji"`
}

// PresenceData is the payload of user_online and user_offline.
type PresenceData struct {
	UserID int64 `json:"user_id"`
}

// OnlineUser is a single entry of the online list.
type OnlineUser struct {
	ID int64 `json:"id"`
}

// OnlineListData is the payload of the online_list event.
type OnlineListData struct {
	Users []OnlineUser `json:"users"`
}

type authenticateData struct {
	Token string `json:"token"`
}

type sendMessageData struct {
	ChatID        int64   `json:"chat_id"`
	Content       string  `json:"content"`
	ReplyTo       *int64  `json:"reply_to"`
	AttachmentIDs []int64 `json:"attachment_ids"`
}

type editMessageData struct {
	MessageID int64  `json:"message_id"`
	Content   string `json:"content"`
}

type deleteMessageData struct {
	MessageID int64 `json:"message_id"`
}

type reactionData struct {
	MessageID int64  `json:"message_id"`
	Emoji     string `json:"emoji"`
}

type typingData struct {
	ChatID   int64 `json:"chat_id"`
	IsTyping bool  `json:"is_typing"`
}

type markAsReadData struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

type markAllAsReadData struct {
	ChatID int64 `json:"chat_id"`
}
