package pigeon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// GetMessagesQuery bounds a message history lookup. Zero fields are omitted.
type GetMessagesQuery struct {
	Limit    int
	BeforeID int64
	AfterID  int64
}

// Caller performs the point-in-time REST lookups. It is stateless: every
// call resolves its endpoint, attaches the bot authorization header, and
// unwraps the uniform {data, error} response envelope.
type Caller struct {
	config *Config
	http   *http.Client
	log    zerolog.Logger
}

func newCaller(config *Config, log zerolog.Logger) *Caller {
	return &Caller{
		config: config,
		http:   &http.Client{},
		log:    log,
	}
}

// SetHTTPClient sets the underlying HTTP client on the receiver.
func (caller *Caller) SetHTTPClient(httpClient *http.Client) *Caller {
	if httpClient != nil {
		caller.http = httpClient
	}
	return caller
}

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
}

func (caller *Caller) do(ctx context.Context, method string, path string, contentType string, body io.Reader) (json.RawMessage, error) {
	endpoint := ResolveAPIURL(caller.config, path)

	request, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, NewError(RequestError, err)
	}
	request.Header.Set("Authorization", authTokenScheme+caller.config.Token)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := caller.http.Do(request)
	if err != nil {
		return nil, NewError(ConnectionError, err)
	}
	defer func() { _ = response.Body.Close() }()

	caller.log.Debug().Str("method", method).Str("path", path).Int("status", response.StatusCode).Msg("api call")

	if response.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, NewError(ProtocolError, err)
	}

	// An explicit error field wins over the HTTP status.
	if envelope.Error != nil {
		message := envelope.Error.Message
		if message == "" {
			message = "request failed"
		}
		return nil, NewError(RequestError, message)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, NewError(RequestError, fmt.Sprintf("HTTP %d: %s", response.StatusCode, http.StatusText(response.StatusCode)))
	}

	return envelope.Data, nil
}

func (caller *Caller) request(ctx context.Context, method string, path string, payload interface{}, result interface{}) error {
	var body io.Reader
	var contentType string

	if payload != nil {
		encoded, err := json.Marshal(struct {
			Data interface{} `json:"data"`
		}{Data: payload})
		if err != nil {
			return NewError(RequestError, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	data, err := caller.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if result == nil || data == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return NewError(ProtocolError, err)
	}
	return nil
}

// GetUser fetches a user's public profile.
func (caller *Caller) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := caller.request(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMe fetches the bot's own profile.
func (caller *Caller) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := caller.request(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetChat fetches a full chat record.
func (caller *Caller) GetChat(ctx context.Context, id int64) (*Chat, error) {
	var chat Chat
	if err := caller.request(ctx, http.MethodGet, fmt.Sprintf("/chats/%d", id), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetMyChats lists the chats the bot participates in.
func (caller *Caller) GetMyChats(ctx context.Context) ([]ChatPreview, error) {
	var chats []ChatPreview
	if err := caller.request(ctx, http.MethodGet, "/chats", nil, &chats); err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []ChatPreview{}
	}
	return chats, nil
}

// GetChatMembers lists the members of a chat.
func (caller *Caller) GetChatMembers(ctx context.Context, chatID int64) ([]ChatMember, error) {
	var members []ChatMember
	if err := caller.request(ctx, http.MethodGet, fmt.Sprintf("/chats/%d/members", chatID), nil, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []ChatMember{}
	}
	return members, nil
}

// RemoveMember removes a user from a chat.
func (caller *Caller) RemoveMember(ctx context.Context, chatID int64, userID int64) error {
	return caller.request(ctx, http.MethodDelete, fmt.Sprintf("/chats/%d/members/%d", chatID, userID), nil, nil)
}

// GetMessages fetches message history for a chat, optionally bounded by the
// query.
func (caller *Caller) GetMessages(ctx context.Context, chatID int64, query *GetMessagesQuery) ([]Message, error) {
	path := fmt.Sprintf("/chats/%d/messages", chatID)

	if query != nil {
		params := url.Values{}
		if query.Limit > 0 {
			params.Set("limit", strconv.Itoa(query.Limit))
		}
		if query.BeforeID > 0 {
			params.Set("before_id", strconv.FormatInt(query.BeforeID, 10))
		}
		if query.AfterID > 0 {
			params.Set("after_id", strconv.FormatInt(query.AfterID, 10))
		}
		if encoded := params.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var messages []Message
	if err := caller.request(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// UploadAttachment uploads a binary attachment to a chat as a multipart
// form. The response follows the same {data, error} contract as every other
// endpoint.
func (caller *Caller) UploadAttachment(ctx context.Context, chatID int64, fileName string, contents io.Reader) (*MessageAttachment, error) {
	var buffer bytes.Buffer
	form := multipart.NewWriter(&buffer)

	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return nil, NewError(RequestError, err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return nil, NewError(RequestError, err)
	}
	if err := form.Close(); err != nil {
		return nil, NewError(RequestError, err)
	}

	data, err := caller.do(ctx, http.MethodPost, fmt.Sprintf("/chats/%d/attachments", chatID), form.FormDataContentType(), &buffer)
	if err != nil {
		return nil, err
	}

	var attachment MessageAttachment
	if data != nil {
		if err := json.Unmarshal(data, &attachment); err != nil {
			return nil, NewError(ProtocolError, err)
		}
	}
	return &attachment, nil
}
