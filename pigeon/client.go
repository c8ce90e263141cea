package pigeon

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// authTokenScheme prefixes the bot token in both the realtime
	// authenticate envelope and the REST authorization header.
	authTokenScheme = "Bot "

	// preAuthRaceMessage is the server error produced when a command beats
	// the authenticate reply. The race is benign and never surfaced.
	preAuthRaceMessage = "Please authenticate first"

	onlineListTimeout = 5 * time.Second

	disconnectWriteWait = time.Second
)

// Client manages the realtime session of a single bot: connection
// lifecycle, authentication handshake, event dispatch, and command
// submission. REST lookups are exposed through the same object and delegate
// to a stateless caller.
type Client struct {
	config Config
	log    zerolog.Logger
	caller *Caller
	dialer *websocket.Dialer
	router *eventRouter

	lock      sync.Mutex
	writeLock sync.Mutex
	conn      *websocket.Conn
	closeDone chan struct{}

	connected     atomic.Bool
	authenticated atomic.Bool
	stopped       atomic.Bool

	// onlineLock serializes correlated online-list requests: the protocol
	// carries no request ids, so at most one may be in flight.
	onlineLock sync.Mutex

	reconnectStrategy ReconnectDelayStrategy
	reconnectCancel   context.CancelFunc

	onlineWait time.Duration
}

// NewClient returns a new Client for the configuration. The bot token is
// required; every other field has a default.
func NewClient(config Config) (*Client, error) {
	if config.Token == "" {
		return nil, NewError(ConfigurationError, "bot token is required")
	}
	config.applyDefaults()

	client := &Client{
		config:            config,
		log:               zerolog.Nop(),
		dialer:            websocket.DefaultDialer,
		router:            newEventRouter(),
		reconnectStrategy: NewFixedDelayStrategy(config.ReconnectInterval),
		onlineWait:        onlineListTimeout,
	}
	client.caller = newCaller(&client.config, client.log)

	return client, nil
}

// SetLogger sets the structured logger on the receiver.
func (client *Client) SetLogger(log zerolog.Logger) *Client {
	client.log = log
	client.caller.log = log
	return client
}

// SetReconnectDelayStrategy sets the reconnect delay strategy on the receiver.
func (client *Client) SetReconnectDelayStrategy(strategy ReconnectDelayStrategy) *Client {
	if strategy == nil {
		strategy = NewFixedDelayStrategy(client.config.ReconnectInterval)
	}
	client.reconnectStrategy = strategy
	return client
}

// Connected reports whether the realtime transport is open.
func (client *Client) Connected() bool { return client.connected.Load() }

// Authenticated reports whether the session completed the authentication
// handshake on the current connection.
func (client *Client) Authenticated() bool { return client.authenticated.Load() }

// Connect resolves the realtime endpoint, opens the transport, and sends
// the authenticate envelope. It fails synchronously when the client is
// already connected. The authentication reply arrives asynchronously as the
// authenticated and ready events.
func (client *Client) Connect() error {
	client.lock.Lock()
	if client.connected.Load() {
		client.lock.Unlock()
		return NewError(AlreadyConnectedError, "client is already connected")
	}

	endpoint, err := ResolveWSURL(&client.config)
	if err != nil {
		client.lock.Unlock()
		return err
	}

	conn, _, err := client.dialer.Dial(endpoint, nil)
	if err != nil {
		client.lock.Unlock()
		return NewError(ConnectionRefusedError, err)
	}

	closeDone := make(chan struct{})
	client.conn = conn
	client.closeDone = closeDone
	client.connected.Store(true)
	client.authenticated.Store(false)
	client.stopped.Store(false)
	client.lock.Unlock()

	client.log.Debug().Str("endpoint", endpoint).Msg("transport open")

	// The authenticate envelope must be the first outbound frame. A failed
	// transmit surfaces as an error event but leaves the transport up; the
	// server will close it on its own terms.
	if err := client.sendAuthenticate(); err != nil {
		client.emitError(err)
	}

	go client.readLoop(conn, closeDone)

	return nil
}

func (client *Client) sendAuthenticate() error {
	envelope, err := newEnvelope(TagAuthenticate, authenticateData{
		Token: authTokenScheme + client.config.Token,
	})
	if err != nil {
		return err
	}
	return client.SendRaw(envelope)
}

func (client *Client) readLoop(conn *websocket.Conn, closeDone chan struct{}) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			client.handleClose(conn, closeDone, err)
			return
		}
		client.dispatch(frame)
	}
}

func (client *Client) dispatch(frame []byte) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		client.emitError(NewError(ProtocolError, err))
		return
	}

	client.router.deliver(TagRaw, routerEvent{envelope: envelope})

	switch envelope.Type {
	case TagAuthenticated:
		client.authenticated.Store(true)
		client.router.deliver(TagAuthenticated, routerEvent{envelope: envelope})
		client.router.deliver(TagReady, routerEvent{})

	case TagError:
		var data ErrorData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		if !client.authenticated.Load() && data.Message == preAuthRaceMessage {
			client.log.Debug().Msg("suppressed pre-authentication error race")
			return
		}
		client.router.deliver(TagError, routerEvent{
			envelope: envelope,
			err:      NewError(ServerError, data.Message),
		})

	case TagNewMessage, TagMessageEdited:
		var data MessageEventData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		client.router.deliver(envelope.Type, routerEvent{
			envelope: envelope,
			entity:   NewMessageEntity(client, data.Message),
		})

	default:
		client.router.deliver(envelope.Type, routerEvent{envelope: envelope})
	}
}

func (client *Client) handleClose(conn *websocket.Conn, closeDone chan struct{}, cause error) {
	_ = conn.Close()

	client.lock.Lock()
	if client.conn == conn {
		client.conn = nil
	}
	client.lock.Unlock()

	client.connected.Store(false)
	client.authenticated.Store(false)

	client.log.Debug().AnErr("cause", cause).Msg("transport closed")

	// Disconnect resolves on closeDone, so subscribers must see the event
	// before a blocked Disconnect call returns.
	client.router.deliver(TagDisconnect, routerEvent{})
	close(closeDone)

	if !client.config.DisableAutoReconnect && !client.stopped.Load() {
		client.scheduleReconnect()
	}
}

// scheduleReconnect starts the supervising reconnect goroutine. Exactly one
// close fires per connection, so at most one supervisor runs between a drop
// and the next successful dial.
func (client *Client) scheduleReconnect() {
	ctx, cancel := context.WithCancel(context.Background())

	client.lock.Lock()
	previous := client.reconnectCancel
	client.reconnectCancel = cancel
	client.lock.Unlock()
	if previous != nil {
		previous()
	}

	go func() {
		defer cancel()
		client.reconnectLoop(ctx)
	}()
}

func (client *Client) reconnectLoop(ctx context.Context) {
	if _, err := ResolveWSURL(&client.config); err != nil {
		client.emitError(err)
		return
	}
	strategy := client.reconnectStrategy

	for {
		if client.stopped.Load() {
			return
		}

		wait, err := strategy.NextDelay()
		if err != nil {
			client.emitError(err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if client.stopped.Load() {
			return
		}

		switch err := client.Connect(); {
		case err == nil:
			strategy.Reset()
			client.log.Debug().Msg("reconnected")
			return
		case client.connected.Load():
			// someone reconnected manually in the meantime
			return
		default:
			client.log.Debug().Err(err).Msg("reconnect attempt failed")
			client.emitError(err)
		}
	}
}

// Disconnect requests an orderly transport closure and waits for the close
// transition to fire. Auto-reconnect is suppressed until the next Connect.
// Closure is best effort: when the close frame cannot be written the
// transport is torn down directly.
func (client *Client) Disconnect(code int, reason string) error {
	client.stopped.Store(true)

	client.lock.Lock()
	cancel := client.reconnectCancel
	client.reconnectCancel = nil
	conn := client.conn
	closeDone := client.closeDone
	client.lock.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn == nil {
		return nil
	}

	message := websocket.FormatCloseMessage(code, reason)
	deadline := time.Now().Add(disconnectWriteWait)
	if err := conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		_ = conn.Close()
	}

	<-closeDone
	return nil
}

// Close is an alias for Disconnect with a normal closure code.
func (client *Client) Close() error {
	return client.Disconnect(websocket.CloseNormalClosure, "")
}

// SendRaw transmits an envelope over the realtime transport. It fails
// synchronously while disconnected, and while unauthenticated for every tag
// except authenticate. A nil return acknowledges hand-off to the transport,
// not server processing.
func (client *Client) SendRaw(envelope Envelope) error {
	if !client.connected.Load() {
		return NewError(DisconnectedError, "not connected to the realtime endpoint")
	}
	if !client.authenticated.Load() && envelope.Type != TagAuthenticate {
		return NewError(NotAuthenticatedError, "session is not authenticated")
	}

	client.lock.Lock()
	conn := client.conn
	client.lock.Unlock()
	if conn == nil {
		return NewError(DisconnectedError, "not connected to the realtime endpoint")
	}

	frame, err := json.Marshal(envelope)
	if err != nil {
		return NewError(ProtocolError, err)
	}

	client.writeLock.Lock()
	err = conn.WriteMessage(websocket.TextMessage, frame)
	client.writeLock.Unlock()
	if err != nil {
		return NewError(ConnectionError, err)
	}

	return nil
}

func (client *Client) sendCommand(tag string, data interface{}) error {
	envelope, err := newEnvelope(tag, data)
	if err != nil {
		return err
	}
	return client.SendRaw(envelope)
}

// SendMessage sends a chat message. replyTo and attachmentIDs are optional;
// pass nil to omit them.
func (client *Client) SendMessage(chatID int64, content string, replyTo *int64, attachmentIDs []int64) error {
	if len(attachmentIDs) == 0 {
		attachmentIDs = nil
	}
	return client.sendCommand(TagSendMessage, sendMessageData{
		ChatID:        chatID,
		Content:       content,
		ReplyTo:       replyTo,
		AttachmentIDs: attachmentIDs,
	})
}

// EditMessage replaces the content of a previously sent message.
func (client *Client) EditMessage(messageID int64, content string) error {
	return client.sendCommand(TagEditMessage, editMessageData{
		MessageID: messageID,
		Content:   content,
	})
}

// DeleteMessage deletes a message.
func (client *Client) DeleteMessage(messageID int64) error {
	return client.sendCommand(TagDeleteMessage, deleteMessageData{MessageID: messageID})
}

// AddReaction adds an emoji reaction to a message.
func (client *Client) AddReaction(messageID int64, emoji string) error {
	return client.sendCommand(TagAddReaction, reactionData{MessageID: messageID, Emoji: emoji})
}

// RemoveReaction removes an emoji reaction from a message.
func (client *Client) RemoveReaction(messageID int64, emoji string) error {
	return client.sendCommand(TagRemoveReaction, reactionData{MessageID: messageID, Emoji: emoji})
}

// SetTyping reports the bot's typing state in a chat.
func (client *Client) SetTyping(chatID int64, isTyping bool) error {
	return client.sendCommand(TagTyping, typingData{ChatID: chatID, IsTyping: isTyping})
}

// MarkAsRead advances the bot's read marker in a chat to the message.
func (client *Client) MarkAsRead(chatID int64, messageID int64) error {
	return client.sendCommand(TagMarkAsRead, markAsReadData{ChatID: chatID, MessageID: messageID})
}

// MarkAllAsRead marks every message in a chat as read.
func (client *Client) MarkAllAsRead(chatID int64) error {
	return client.sendCommand(TagMarkAllAsRead, markAllAsReadData{ChatID: chatID})
}

// Ping sends a ping command.
func (client *Client) Ping() error {
	return client.sendCommand(TagPing, struct{}{})
}

// GetOnlineList requests the list of online users and waits for the
// correlated online_list event. Calls are serialized because the protocol
// has no request ids; each waits at most five seconds.
func (client *Client) GetOnlineList() ([]OnlineUser, error) {
	client.onlineLock.Lock()
	defer client.onlineLock.Unlock()

	reply := make(chan OnlineListData, 1)
	listener := client.router.add(TagOnlineList, true, func(ev routerEvent) {
		var data OnlineListData
		if err := json.Unmarshal(ev.envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		reply <- data
	})

	if err := client.sendCommand(TagGetOnlineList, struct{}{}); err != nil {
		client.router.remove(listener)
		return nil, err
	}

	select {
	case data := <-reply:
		if data.Users == nil {
			return []OnlineUser{}, nil
		}
		return data.Users, nil
	case <-time.After(client.onlineWait):
		client.router.remove(listener)
		return nil, NewError(TimedOutError, "timed out waiting for online_list")
	}
}

func (client *Client) emitError(err error) {
	delivered := client.router.deliver(TagError, routerEvent{err: err})
	if delivered == 0 {
		client.log.Warn().Err(err).Msg("unhandled client error")
	}
}
