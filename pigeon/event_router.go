package pigeon

import "sync"

// Client-side lifecycle events dispatched through the same namespace as the
// wire tags, so generic listeners can observe them too.
const (
	TagReady      = "ready"
	TagDisconnect = "disconnect"
	TagRaw        = "raw"
)

// ListenerID identifies a registered event listener for later removal.
type ListenerID struct {
	tag string
	id  uint64
}

// routerEvent is what flows through the router: the decoded envelope plus
// the optional values typed adapters hand to application callbacks.
type routerEvent struct {
	envelope Envelope
	entity   *MessageEntity
	err      error
}

type eventRoute struct {
	id      uint64
	once    bool
	handler func(routerEvent)
}

// eventRouter fans a tagged event out to its registered listeners. Delivery
// is synchronous and in registration order; one-shot routes are removed
// before their handler runs so a handler re-registering the same tag never
// sees itself dropped.
type eventRouter struct {
	lock   sync.Mutex
	nextID uint64
	routes map[string][]eventRoute
}

func newEventRouter() *eventRouter {
	return &eventRouter{routes: make(map[string][]eventRoute)}
}

func (router *eventRouter) add(tag string, once bool, handler func(routerEvent)) ListenerID {
	router.lock.Lock()
	defer router.lock.Unlock()

	router.nextID++
	router.routes[tag] = append(router.routes[tag], eventRoute{
		id:      router.nextID,
		once:    once,
		handler: handler,
	})

	return ListenerID{tag: tag, id: router.nextID}
}

func (router *eventRouter) remove(listener ListenerID) bool {
	router.lock.Lock()
	defer router.lock.Unlock()

	routes, exists := router.routes[listener.tag]
	if !exists {
		return false
	}

	for index, route := range routes {
		if route.id == listener.id {
			router.routes[listener.tag] = append(routes[:index:index], routes[index+1:]...)
			if len(router.routes[listener.tag]) == 0 {
				delete(router.routes, listener.tag)
			}
			return true
		}
	}

	return false
}

func (router *eventRouter) deliver(tag string, ev routerEvent) int {
	router.lock.Lock()
	routes := router.routes[tag]
	snapshot := make([]eventRoute, len(routes))
	copy(snapshot, routes)

	remaining := routes[:0:0]
	for _, route := range routes {
		if !route.once {
			remaining = append(remaining, route)
		}
	}
	if len(remaining) == 0 {
		delete(router.routes, tag)
	} else {
		router.routes[tag] = remaining
	}
	router.lock.Unlock()

	for _, route := range snapshot {
		route.handler(ev)
	}

	return len(snapshot)
}
