package pigeon

import (
	"context"
	"io"
)

// Entities are thin capability handles pairing a fetched or pushed record
// with the client that can act on it. They hold a reference back to the
// command interface, never own the session, and carry no state beyond the
// record snapshot.

// MessageEntity wraps a message record with follow-up actions.
type MessageEntity struct {
	client *Client
	data   Message
}

// NewMessageEntity returns a new MessageEntity bound to the client.
func NewMessageEntity(client *Client, data Message) *MessageEntity {
	return &MessageEntity{client: client, data: data}
}

// Data returns the wrapped message record.
func (entity *MessageEntity) Data() Message { return entity.data }

// ID returns the message id.
func (entity *MessageEntity) ID() int64 { return entity.data.ID }

// ChatID returns the id of the chat holding the message.
func (entity *MessageEntity) ChatID() int64 { return entity.data.ChatID }

// SenderID returns the id of the message sender.
func (entity *MessageEntity) SenderID() int64 { return entity.data.SenderID }

// Content returns the message text.
func (entity *MessageEntity) Content() string { return entity.data.Content }

// Edit replaces the message content. The wrapped snapshot is updated on a
// successful hand-off.
func (entity *MessageEntity) Edit(content string) error {
	if err := entity.client.EditMessage(entity.data.ID, content); err != nil {
		return err
	}
	entity.data.Content = content
	entity.data.IsEdited = true
	return nil
}

// Delete deletes the message.
func (entity *MessageEntity) Delete() error {
	return entity.client.DeleteMessage(entity.data.ID)
}

// AddReaction adds an emoji reaction to the message.
func (entity *MessageEntity) AddReaction(emoji string) error {
	return entity.client.AddReaction(entity.data.ID, emoji)
}

// RemoveReaction removes an emoji reaction from the message.
func (entity *MessageEntity) RemoveReaction(emoji string) error {
	return entity.client.RemoveReaction(entity.data.ID, emoji)
}

// Reply sends a message into the same chat replying to this one.
func (entity *MessageEntity) Reply(content string, attachmentIDs ...int64) error {
	replyTo := entity.data.ID
	return entity.client.SendMessage(entity.data.ChatID, content, &replyTo, attachmentIDs)
}

// UserEntity wraps a user record with a refresh action.
type UserEntity struct {
	client *Client
	data   User
}

// NewUserEntity returns a new UserEntity bound to the client.
func NewUserEntity(client *Client, data User) *UserEntity {
	return &UserEntity{client: client, data: data}
}

// Data returns the wrapped user record.
func (entity *UserEntity) Data() User { return entity.data }

// ID returns the user id.
func (entity *UserEntity) ID() int64 { return entity.data.ID }

// Fetch refreshes the wrapped record from the REST endpoint.
func (entity *UserEntity) Fetch(ctx context.Context) error {
	fresh, err := entity.client.GetUser(ctx, entity.data.ID)
	if err != nil {
		return err
	}
	entity.data = *fresh
	return nil
}

// ChatEntity wraps a chat record (full or preview) with chat-scoped actions.
type ChatEntity struct {
	client  *Client
	id      int64
	data    *Chat
	preview *ChatPreview
}

// NewChatEntity returns a ChatEntity around a full chat record.
func NewChatEntity(client *Client, data Chat) *ChatEntity {
	return &ChatEntity{client: client, id: data.ID, data: &data}
}

// NewChatEntityFromPreview returns a ChatEntity around a chat preview.
func NewChatEntityFromPreview(client *Client, preview ChatPreview) *ChatEntity {
	return &ChatEntity{client: client, id: preview.ID, preview: &preview}
}

// ID returns the chat id.
func (entity *ChatEntity) ID() int64 { return entity.id }

// Data returns the full chat record, or nil when the entity was built from
// a preview and FetchFull has not run.
func (entity *ChatEntity) Data() *Chat { return entity.data }

// Preview returns the preview record the entity was built from, if any.
func (entity *ChatEntity) Preview() *ChatPreview { return entity.preview }

// FetchFull replaces the wrapped record with the full chat from REST.
func (entity *ChatEntity) FetchFull(ctx context.Context) error {
	chat, err := entity.client.GetChat(ctx, entity.id)
	if err != nil {
		return err
	}
	entity.data = chat
	return nil
}

// FetchMembers lists the chat's members.
func (entity *ChatEntity) FetchMembers(ctx context.Context) ([]ChatMember, error) {
	return entity.client.GetChatMembers(ctx, entity.id)
}

// FetchMessages fetches the chat's message history.
func (entity *ChatEntity) FetchMessages(ctx context.Context, query *GetMessagesQuery) ([]Message, error) {
	return entity.client.GetMessages(ctx, entity.id, query)
}

// SendMessage sends a message into the chat.
func (entity *ChatEntity) SendMessage(content string, attachmentIDs ...int64) error {
	return entity.client.SendMessage(entity.id, content, nil, attachmentIDs)
}

// RemoveMember removes a user from the chat.
func (entity *ChatEntity) RemoveMember(ctx context.Context, userID int64) error {
	return entity.client.RemoveMember(ctx, entity.id, userID)
}

// UploadAttachment uploads a binary attachment to the chat.
func (entity *ChatEntity) UploadAttachment(ctx context.Context, fileName string, contents io.Reader) (*MessageAttachment, error) {
	return entity.client.UploadAttachment(ctx, entity.id, fileName, contents)
}
