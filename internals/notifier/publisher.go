package notifier

import "log"

// Topik event realtime. Controller/scheduler hanya publish ke port ini;
// adapter transport (websocket/SSE/bus) subscribe di proses lain.
const (
	TopicTrialRequestCreated    = "trial_request.created"
	TopicTrialRequestAccepted   = "trial_request.accepted"
	TopicTrialRequestClosed     = "trial_request.closed" // sudah diambil tutor lain
	TopicSessionRequestCreated  = "session_request.created"
	TopicSessionRequestAccepted = "session_request.accepted"
	TopicSessionRequestClosed   = "session_request.closed"
	TopicRequestReminder        = "request.expiry_reminder"
	TopicSessionProposed        = "session.proposed"
	TopicSessionBooked          = "session.booked"
	TopicSessionCancelled       = "session.cancelled"
	TopicSessionRescheduled     = "session.reschedule"
	TopicSessionCompleted       = "session.completed"
	TopicFeedbackSubmitted      = "feedback.submitted"
	TopicFeedbackReminder       = "feedback.due_reminder"
	TopicFeedbackForfeited      = "feedback.forfeited"
)

// Publisher adalah port push realtime. Publish TIDAK boleh mem-block
// atau menggagalkan operasi utama; error cukup di-log oleh pemanggil.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// LogPublisher: adapter default, hanya mencatat event.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(topic string, payload interface{}) error {
	log.Printf("[EVENT] %s payload=%+v", topic, payload)
	return nil
}

// FireAndForget membungkus publish supaya pemanggil cukup satu baris;
// error ditelan setelah di-log.
func FireAndForget(p Publisher, topic string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(topic, payload); err != nil {
		log.Printf("[EVENT ERROR] %s: %v", topic, err)
	}
}
