package orchestration

import "github.com/mkovacic/halo-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}
