package event

import (
	"go.uber.org/zap"
	"sync"
)

type Listener struct {
	eventType Type
	channel   chan interface{}
}

var (
	mu        sync.RWMutex
	listeners = make([]*Listener, 0)
)

func AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := &Listener{
		eventType: eventType,
		channel:   make(chan interface{}),
	}

	mu.Lock()
	listeners = append(listeners, listener)
	mu.Unlock()

	go func() {
		for msg := range listener.channel {
			callback(msg)
		}
	}()
}

func EmitEvent(eventType Type, msg interface{}) {
	mu.RLock()
	defer mu.RUnlock()

	for _, listener := range listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			go func(handler chan interface{}) {
				handler <- msg
			}(listener.channel)
		}
	}
}
