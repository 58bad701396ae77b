package job

import "go-bingohall/internal/http-server/handlers/event"

type SendEventJob struct {
	EventMessage event.Message
	Event        event.Broadcaster
}

func (job *SendEventJob) Execute() {
	if err := job.Event.TriggerEvent(job.EventMessage); err != nil {
		return
	}
}
