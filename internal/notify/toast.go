package notify

// Toast adapts a Notifier to the stores' success/error sink. Store outcomes
// map to transient desktop notifications, errors with higher urgency.
type Toast struct {
	notifier Notifier
}

// NewToast wraps a Notifier as a store notification sink.
func NewToast(notifier Notifier) *Toast {
	return &Toast{notifier: notifier}
}

// Success shows a short normal-urgency notification.
func (t *Toast) Success(msg string) {
	_, _ = t.notifier.Notify(Notification{
		Title:   msg,
		Timeout: 3000,
		Urgency: UrgencyNormal,
	})
}

// Error shows a critical notification that stays until dismissed by the
// desktop's own policy.
func (t *Toast) Error(msg string) {
	_, _ = t.notifier.Notify(Notification{
		Title:   "Something went wrong",
		Body:    msg,
		Timeout: -1,
		Urgency: UrgencyCritical,
	})
}
