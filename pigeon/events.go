package pigeon

import "encoding/json"

// Typed event registrations. Each returns a ListenerID accepted by Off.
// Handlers run sequentially on the receive goroutine in transport delivery
// order; a handler that blocks delays every later event of this client.

// OnRaw registers a handler invoked with every decoded inbound envelope
// before any interpretation, as an observability hook.
func (client *Client) OnRaw(handler func(Envelope)) ListenerID {
	return client.router.add(TagRaw, false, func(ev routerEvent) {
		handler(ev.envelope)
	})
}

// OnReady registers a handler for the ready event, fired immediately after
// every successful authentication reply.
func (client *Client) OnReady(handler func()) ListenerID {
	return client.router.add(TagReady, false, func(ev routerEvent) {
		handler()
	})
}

// OnAuthenticated registers a handler for the authenticated event.
func (client *Client) OnAuthenticated(handler func(AuthenticatedData)) ListenerID {
	return client.router.add(TagAuthenticated, false, func(ev routerEvent) {
		var data AuthenticatedData
		if err := json.Unmarshal(ev.envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		handler(data)
	})
}

// OnDisconnect registers a handler fired once per transport close,
// regardless of cause.
func (client *Client) OnDisconnect(handler func()) ListenerID {
	return client.router.add(TagDisconnect, false, func(ev routerEvent) {
		handler()
	})
}

// OnError registers a handler for every surfaced error: transport failures,
// decode failures, and server error envelopes.
func (client *Client) OnError(handler func(error)) ListenerID {
	return client.router.add(TagError, false, func(ev routerEvent) {
		handler(ev.err)
	})
}

// OnNewMessage registers a handler for incoming messages. The message is
// delivered wrapped as a MessageEntity alongside the raw payload.
func (client *Client) OnNewMessage(handler func(*MessageEntity, MessageEventData)) ListenerID {
	return client.messageListener(TagNewMessage, handler)
}

// OnMessageEdited registers a handler for message edits.
func (client *Client) OnMessageEdited(handler func(*MessageEntity, MessageEventData)) ListenerID {
	return client.messageListener(TagMessageEdited, handler)
}

func (client *Client) messageListener(tag string, handler func(*MessageEntity, MessageEventData)) ListenerID {
	return client.router.add(tag, false, func(ev routerEvent) {
		var data MessageEventData
		if err := json.Unmarshal(ev.envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		handler(ev.entity, data)
	})
}

// OnMessageDeleted registers a handler for message deletions.
func (client *Client) OnMessageDeleted(handler func(MessageDeletedData)) ListenerID {
	return client.router.add(TagMessageDeleted, false, func(ev routerEvent) {
		var data MessageDeletedData
		if err := json.Unmarshal(ev.envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		handler(data)
	})
}

// OnReactionAdded registers a handler for added reactions.
func (client *Client) OnReactionAdded(handler func(ReactionEventData)) ListenerID {
	return client.reactionListener(TagReactionAdded, handler)
}

// OnReactionRemoved registers a handler for removed reactions.
func (client *Client) OnReactionRemoved(handler func(ReactionEventData)) ListenerID {
	return client.reactionListener(TagReactionRemoved, handler)
}

func (client *Client) reactionListener(tag string, handler func(ReactionEventData)) ListenerID {
	return client.router.add(tag, false, func(ev routerEvent) {
		var data ReactionEventData
		if err := json.Unmarshal(ev.envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		handler(data)
	})
}

// OnUserOnline registers a handler for user presence arrivals.
func (client *Client) OnUserOnline(handler func(PresenceData)) ListenerID {
	return client.presenceListener(TagUserOnline, handler)
}

// OnUserOffline registers a handler for user presence departures.
func (client *Client) OnUserOffline(handler func(PresenceData)) ListenerID {
	return client.presenceListener(TagUserOffline, handler)
}

func (client *Client) presenceListener(tag string, handler func(PresenceData)) ListenerID {
	return client.router.add(tag, false, func(ev routerEvent) {
		var data PresenceData
		if err := json.Unmarshal(ev.envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		handler(data)
	})
}

// OnOnlineList registers a handler for online_list events.
func (client *Client) OnOnlineList(handler func(OnlineListData)) ListenerID {
	return client.router.add(TagOnlineList, false, func(ev routerEvent) {
		var data OnlineListData
		if err := json.Unmarshal(ev.envelope.Data, &data); err != nil {
			client.emitError(NewError(ProtocolError, err))
			return
		}
		handler(data)
	})
}

// OnEvent registers a generic handler for a tag, including tags this
// package does not know about: unrecognized server events are forwarded
// here unchanged.
func (client *Client) OnEvent(tag string, handler func(Envelope)) ListenerID {
	return client.router.add(tag, false, func(ev routerEvent) {
		handler(ev.envelope)
	})
}

// Off removes a previously registered listener. It reports whether the
// listener was still registered.
func (client *Client) Off(listener ListenerID) bool {
	return client.router.remove(listener)
}
