package jobs

import (
	"context"

	"tripdesk-backend/internal/logger"
)

// SendInstallmentReminders sweeps bookings whose first installment is paid,
// whose second installment is still open, and that have not been reminded
// yet, and emails each one a payment reminder.
func (jr *JobRunner) SendInstallmentReminders() {
	jr.runWithRecovery("SendInstallmentReminders", func() {
		ctx := context.Background()

		sent, err := jr.services.Reminder.SendDueReminders(ctx)
		if err != nil {
			logger.Error("Installment reminder sweep failed", "error", err)
			return
		}
		logger.Info("Installment reminders sent", "count", sent)
	})
}
