package domain

type DispatchChannel string

const (
	DispatchChannelEmail DispatchChannel = "email"
	DispatchChannelSMS   DispatchChannel = "sms"
)

// DispatchMessage 是投递到 dispatch_queue 中的消息，由 notifier worker 消费
type DispatchMessage struct {
	Channel DispatchChannel `json:"channel"`
	To      string          `json:"to"`
	Subject string          `json:"subject,omitempty"`
	Message string          `json:"message"`
	AlertID int64           `json:"alertID,omitempty"`
}

type VacancyAlertMailData struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	AlertID int64  `json:"alertID"`
}
