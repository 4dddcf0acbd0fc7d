package worker

import (
	"github.com/digiticket/helpdesk-service/internal/events"
	"github.com/digiticket/helpdesk-service/internal/service"
)

// StartNotificationWorker subscribes the notification fan-out to the
// ticket lifecycle events.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}
