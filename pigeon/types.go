package pigeon

// User is the public profile of a platform user or bot.
type User struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Name       string  `json:"name"`
	IsBot      bool    `json:"is_bot"`
	Bio        *string `json:"bio"`
	AvatarURL  *string `json:"avatar_url"`
	IsVerified bool    `json:"is_verified"`
	LastSeenAt *string `json:"last_seen_at"`
}

// ChatMember describes a user's membership and permissions within a chat.
type ChatMember struct {
	ChatID            int64   `json:"chat_id"`
	UserID            int64   `json:"user_id"`
	Role              string  `json:"role"`
	CustomNickname    *string `json:"custom_nickname"`
	CanSendMessages   bool    `json:"can_send_messages"`
	CanManageMessages bool    `json:"can_manage_messages"`
	CanManageMembers  bool    `json:"can_manage_members"`
	CanManageChat     bool    `json:"can_manage_chat"`
	JoinedAt          string  `json:"joined_at"`
	LastReadMessageID *int64  `json:"last_read_message_id"`
}

// Chat is a full chat record including its member list.
type Chat struct {
	ID          int64        `json:"id"`
	ChatType    string       `json:"chat_type"`
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	AvatarURL   *string      `json:"avatar_url"`
	OwnerID     *int64       `json:"owner_id"`
	IsPublic    bool         `json:"is_public"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	Members     []ChatMember `json:"members"`
	MemberCount int          `json:"member_count"`
}

// ChatPreview is the summary form returned by the chat listing endpoint.
type ChatPreview struct {
	ID                int64    `json:"id"`
	ChatType          string   `json:"chat_type"`
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	AvatarURL         *string  `json:"avatar_url"`
	IsPublic          bool     `json:"is_public"`
	MemberCount       int      `json:"member_count"`
	LastMessage       *Message `json:"last_message"`
	LastUser          *User    `json:"last_user"`
	OtherUser         *User    `json:"other_user"`
	LastReadMessageID *int64   `json:"last_read_message_id"`
	UnreadCount       int      `json:"unread_count"`
}

// MessageAttachment is an uploaded binary attached to a message.
type MessageAttachment struct {
	ID           int64   `json:"id"`
	ChatID       int64   `json:"chat_id"`
	UploadedBy   int64   `json:"uploaded_by"`
	FileType     string  `json:"file_type"`
	FileURL      string  `json:"file_url"`
	FileName     string  `json:"file_name"`
	FileSize     int64   `json:"file_size"`
	MimeType     string  `json:"mime_type"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Width        *int    `json:"width"`
	Height       *int    `json:"height"`
	Duration     *int    `json:"duration"`
	CreatedAt    string  `json:"created_at"`
}

// MessageReaction is a single emoji reaction on a message.
type MessageReaction struct {
	ID        int64  `json:"id"`
	MessageID int64  `json:"message_id"`
	UserID    int64  `json:"user_id"`
	Emoji     string `json:"emoji"`
	CreatedAt string `json:"created_at"`
}

// Message is a chat message snapshot.
type Message struct {
	ID               int64               `json:"id"`
	ChatID           int64               `json:"chat_id"`
	SenderID         int64               `json:"sender_id"`
	ReplyToMessageID *int64              `json:"reply_to_message_id"`
	Content          string              `json:"content"`
	IsEdited         bool                `json:"is_edited"`
	CreatedAt        string              `json:"created_at"`
	EditedAt         *string             `json:"edited_at"`
	Attachments      []MessageAttachment `json:"attachments,omitempty"`
	Reactions        []MessageReaction   `json:"reactions,omitempty"`
}

// APIError is the error portion of a REST response envelope.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
