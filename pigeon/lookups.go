package pigeon

import (
	"context"
	"io"
)

// REST lookups, delegated to the stateless caller. These work with or
// without an open realtime session.

// Caller exposes the underlying REST caller, for configuring its HTTP
// client.
func (client *Client) Caller() *Caller { return client.caller }

// GetUser fetches a user's public profile.
func (client *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	return client.caller.GetUser(ctx, id)
}

// GetMe fetches the bot's own profile.
func (client *Client) GetMe(ctx context.Context) (*User, error) {
	return client.caller.GetMe(ctx)
}

// GetChat fetches a full chat record.
func (client *Client) GetChat(ctx context.Context, id int64) (*Chat, error) {
	return client.caller.GetChat(ctx, id)
}

// GetMyChats lists the chats the bot participates in.
func (client *Client) GetMyChats(ctx context.Context) ([]ChatPreview, error) {
	return client.caller.GetMyChats(ctx)
}

// GetChatMembers lists the members of a chat.
func (client *Client) GetChatMembers(ctx context.Context, chatID int64) ([]ChatMember, error) {
	return client.caller.GetChatMembers(ctx, chatID)
}

// RemoveMember removes a user from a chat.
func (client *Client) RemoveMember(ctx context.Context, chatID int64, userID int64) error {
	return client.caller.RemoveMember(ctx, chatID, userID)
}

// GetMessages fetches message history for a chat.
func (client *Client) GetMessages(ctx context.Context, chatID int64, query *GetMessagesQuery) ([]Message, error) {
	return client.caller.GetMessages(ctx, chatID, query)
}

// UploadAttachment uploads a binary attachment to a chat.
func (client *Client) UploadAttachment(ctx context.Context, chatID int64, fileName string, contents io.Reader) (*MessageAttachment, error) {
	return client.caller.UploadAttachment(ctx, chatID, fileName, contents)
}
