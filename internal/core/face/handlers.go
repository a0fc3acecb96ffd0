package face

import (
	"time"

	"watchface/internal/appmsg"
	"watchface/internal/core/loop"
	"watchface/internal/core/model"
)

// Register installs the face's handler table on l.
func (face *Face) Register(l *loop.Loop) {
	for kind, handler := range face.Handlers() {
		l.Handle(kind, handler)
	}
}

// Handlers maps each event kind the face reacts to onto its handler.
func (face *Face) Handlers() map[loop.Kind]loop.Handler {
	return map[loop.Kind]loop.Handler{
		loop.KindTick: func(event loop.Event) {
			now, ok := event.Payload.(time.Time)
			switch {
			case !ok:
				face.unexpected(event)
			case !face.started:
				face.Start(now)
			default:
				face.Tick(now)
			}
		},
		loop.KindBattery: func(event loop.Event) {
			if charge, ok := event.Payload.(model.ChargeState); ok {
				face.Battery(charge)
				return
			}
			face.unexpected(event)
		},
		loop.KindInboxReceived: func(event loop.Event) {
			if dict, ok := event.Payload.(appmsg.Dict); ok {
				face.Receive(dict)
				return
			}
			face.unexpected(event)
		},
		loop.KindInboxDropped: func(event loop.Event) {
			reason, _ := event.Payload.(appmsg.Result)
			face.Dropped(reason)
		},
		loop.KindOutboxSent: func(event loop.Event) {
			dict, _ := event.Payload.(appmsg.Dict)
			face.Sent(dict)
		},
		loop.KindOutboxFailed: func(event loop.Event) {
			failure, _ := event.Payload.(appmsg.Failure)
			face.SendFailed(failure)
		},
		loop.KindWeatherRequest: func(loop.Event) {
			_ = face.RequestWeather()
		},
		loop.KindConfigChanged: func(event loop.Event) {
			if config, ok := event.Payload.(model.FaceConfig); ok {
				face.Configure(config)
				return
			}
			face.unexpected(event)
		},
	}
}

func (face *Face) unexpected(event loop.Event) {
	face.logger.Printf("loop: unexpected payload %T for %s", event.Payload, event.Kind)
}
