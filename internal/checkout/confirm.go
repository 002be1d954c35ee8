package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kaaswinkel/internal/mail"
)

// Outcome describes how a confirmation attempt ended. Skips count as
// success for the caller.
type Outcome string

const (
	OutcomeSent        Outcome = "sent"
	OutcomeAlreadySent Outcome = "already_sent"
	OutcomeNoEmail     Outcome = "no_email"
)

func markerKey(sessionID string) string {
	return "order_email_sent_" + sessionID
}

// Confirm reconciles a completed provider session into a confirmation email.
// The "already sent" marker is client-local: it stops this client from
// mailing twice across reloads, but a different client (or a cleared store)
// for the same session can legitimately trigger a second send.
func (o *Orchestrator) Confirm(ctx context.Context, sessionID string) (Outcome, error) {
	if sessionID == "" {
		return "", &ValidationError{Msg: "sessionId ontbreekt."}
	}

	if _, ok := o.markers.Get(markerKey(sessionID)); ok {
		o.logger.Info("confirmation already sent from this client",
			zap.String("session_id", sessionID))
		return OutcomeAlreadySent, nil
	}

	session, err := o.provider.GetSession(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("retrieve payment session: %w", err)
	}

	if session.CustomerEmail == "" {
		o.logger.Info("session has no customer email, skipping confirmation",
			zap.String("session_id", sessionID))
		o.clearCart(sessionID)
		return OutcomeNoEmail, nil
	}

	// Compose from the provider's authoritative line items and amount, never
	// from the client's original cart.
	text, html := composeConfirmation(session)
	msg := mail.Message{
		To:      session.CustomerEmail,
		Subject: "Bestelbevestiging - Old Maastricht",
		Text:    text,
		HTML:    html,
	}
	if o.cfg.Logo != nil {
		msg.Attachments = []mail.Attachment{*o.cfg.Logo}
	}
	if err := o.sender.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("send confirmation: %w", err)
	}

	if o.cfg.NotifyEmail != "" {
		copyMsg := msg
		copyMsg.To = o.cfg.NotifyEmail
		copyMsg.Subject = "Nieuwe bestelling - Old Maastricht"
		copyMsg.Text = fmt.Sprintf("Nieuwe bestelling van %s\n\n%s", session.CustomerEmail, text)
		copyMsg.HTML = fmt.Sprintf("<p>Nieuwe bestelling van <strong>%s</strong></p>%s", session.CustomerEmail, html)
		if err := o.sender.Send(ctx, copyMsg); err != nil {
			o.logger.Warn("owner notification failed",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	if err := o.markers.Set(markerKey(sessionID), "1"); err != nil {
		o.logger.Warn("could not persist sent marker",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	o.clearCart(sessionID)
	return OutcomeSent, nil
}

func (o *Orchestrator) clearCart(sessionID string) {
	if o.cfg.Cart == nil {
		return
	}
	if err := o.cfg.Cart.Clear(); err != nil {
		o.logger.Warn("could not clear cart after order",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}
