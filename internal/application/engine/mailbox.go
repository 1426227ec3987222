package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"vendsim/internal/domain"
)

// mailbox.go — supplier correspondence.
//
// Outbound mail is delivered instantly into the supplier's thread; the reply
// is scheduled for sent_day + the supplier's response delay and materializes
// during AdvanceDay. Replies are template-generated from the persona's
// discount curve, so the same thread history always yields the same mail.

// agentEmail is the operator's address on every thread.
const agentEmail = "operator@vendingsandstuff.com"

// scheduledReply is a supplier response waiting for its due day.
type scheduledReply struct {
	SupplierID string
	ReplyTo    string // id of the outbound email being answered
	DueDay     int
	Rounds     int // negotiation rounds at the time the mail was sent
}

// EmailResult confirms a sent email.
type EmailResult struct {
	EmailID        string
	SupplierID     string
	DeliveredTo    string
	ResponseDueDay int
}

// SendEmail delivers a message to a supplier, addressed by email address or
// by supplier id. The reply lands after the supplier's response delay; until
// then the thread just shows the outbound mail.
func (e *Engine) SendEmail(to, subject, body string) (EmailResult, error) {
	if e.complete {
		return EmailResult{}, domain.ErrRunComplete
	}
	s, ok := domain.SupplierByEmail(to)
	if !ok {
		s, ok = domain.Suppliers[to]
	}
	if !ok {
		return EmailResult{}, fmt.Errorf("engine.SendEmail: no supplier at %q: %w", to, domain.ErrUnknownSupplier)
	}

	thread, ok := e.threads[s.ID]
	if !ok {
		thread = &domain.EmailThread{SupplierID: s.ID, Status: domain.NegotiationInitial}
		e.threads[s.ID] = thread
	}

	mail := domain.Email{
		ID:      e.nextEmailID(),
		From:    agentEmail,
		To:      s.Email,
		Subject: subject,
		Body:    body,
		SentDay: e.day,
		Read:    true,
	}
	thread.Emails = append(thread.Emails, mail)
	thread.Rounds++

	dueDay := e.day + s.ResponseDelayDays
	e.dueReplies = append(e.dueReplies, scheduledReply{
		SupplierID: s.ID,
		ReplyTo:    mail.ID,
		DueDay:     dueDay,
		Rounds:     thread.Rounds,
	})

	slog.Info("email sent", "to", s.Email, "subject", subject, "response_due", dueDay)
	return EmailResult{
		EmailID:        mail.ID,
		SupplierID:     s.ID,
		DeliveredTo:    s.Email,
		ResponseDueDay: dueDay,
	}, nil
}

// resolveDueReplies materializes every supplier response whose due day has
// arrived and returns how many new emails landed. Called once per AdvanceDay.
func (e *Engine) resolveDueReplies() int {
	arrived := 0
	waiting := e.dueReplies[:0]
	for _, due := range e.dueReplies {
		if due.DueDay > e.day {
			waiting = append(waiting, due)
			continue
		}

		s := domain.Suppliers[due.SupplierID]
		thread := e.threads[due.SupplierID]
		thread.Emails = append(thread.Emails, domain.Email{
			ID:        e.nextEmailID(),
			From:      s.Email,
			To:        agentEmail,
			Subject:   fmt.Sprintf("Re: your inquiry (round %d)", due.Rounds),
			Body:      replyBody(s, due.Rounds),
			SentDay:   e.day,
			RepliedTo: due.ReplyTo,
		})
		switch thread.Status {
		case domain.NegotiationInitial:
			thread.Status = domain.NegotiationQuoted
		case domain.NegotiationQuoted:
			thread.Status = domain.NegotiationCounter
		}
		arrived++
	}
	e.dueReplies = waiting
	return arrived
}

// replyBody renders the supplier's answer for the given negotiation round.
// Prices quoted are the base prices run through the persona discount curve,
// so pushing another round moves them exactly as much as the persona allows.
func replyBody(s domain.Supplier, rounds int) string {
	var b strings.Builder
	switch s.Persona {
	case domain.PersonaFriendly:
		fmt.Fprintf(&b, "Hi! Thanks for reaching out to %s. Here is our best pricing:\n\n", s.Name)
	case domain.PersonaNegotiator:
		fmt.Fprintf(&b, "Good to hear from you. %s moves volume, and volume moves prices. Current offer:\n\n", s.Name)
	case domain.PersonaMembershipScammer:
		fmt.Fprintf(&b, "Welcome to %s! Members enjoy exclusive wholesale rates:\n\n", s.Name)
	case domain.PersonaPriceScammer:
		fmt.Fprintf(&b, "%s here. Premium products deserve premium partners. Our pricing:\n\n", s.Name)
	}

	for _, id := range domain.ProductIDs {
		base, ok := s.BasePrices[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-10s $%.2f/unit\n", id, domain.Negotiate(s, base, rounds))
	}

	fmt.Fprintf(&b, "\nMinimum order: %d units. Delivery in %d days after payment.\n",
		s.MinOrderQty, s.DeliveryDays)
	if s.HasMembershipFee() {
		fmt.Fprintf(&b, "Note: a one-time membership fee of $%.2f is required before your first order.\n",
			s.MembershipFee)
	}
	fmt.Fprintf(&b, "Send payment to this address to place an order.\n")
	return b.String()
}

// ListInbox returns the operator's inbound mail across all threads, oldest
// first, in stable supplier order within a day.
func (e *Engine) ListInbox() []domain.Email {
	var inbox []domain.Email
	for _, id := range domain.SupplierIDs {
		thread, ok := e.threads[id]
		if !ok {
			continue
		}
		for _, mail := range thread.Emails {
			if mail.To == agentEmail {
				inbox = append(inbox, mail)
			}
		}
	}
	return inbox
}

// UnreadCount reports how many inbound emails are still unread.
func (e *Engine) UnreadCount() int {
	n := 0
	for _, mail := range e.ListInbox() {
		if !mail.Read {
			n++
		}
	}
	return n
}

// ReadEmail returns an inbound email by id and marks it read.
func (e *Engine) ReadEmail(id string) (domain.Email, error) {
	for _, sid := range domain.SupplierIDs {
		thread, ok := e.threads[sid]
		if !ok {
			continue
		}
		for i := range thread.Emails {
			if thread.Emails[i].ID == id && thread.Emails[i].To == agentEmail {
				thread.Emails[i].Read = true
				return thread.Emails[i], nil
			}
		}
	}
	return domain.Email{}, fmt.Errorf("engine.ReadEmail: no email %q", id)
}

// Thread returns the full correspondence with one supplier.
func (e *Engine) Thread(supplierID string) (domain.EmailThread, error) {
	thread, ok := e.threads[supplierID]
	if !ok {
		if _, known := domain.Suppliers[supplierID]; !known {
			return domain.EmailThread{}, fmt.Errorf("engine.Thread: %q: %w", supplierID, domain.ErrUnknownSupplier)
		}
		return domain.EmailThread{SupplierID: supplierID, Status: domain.NegotiationInitial}, nil
	}
	out := domain.EmailThread{
		SupplierID: thread.SupplierID,
		Status:     thread.Status,
		Rounds:     thread.Rounds,
		Emails:     make([]domain.Email, len(thread.Emails)),
	}
	copy(out.Emails, thread.Emails)
	return out, nil
}

// nextEmailID hands out sequential ids so threads replay identically across
// runs with the same seed and action script.
func (e *Engine) nextEmailID() string {
	e.emailSeq++
	return fmt.Sprintf("msg-%04d", e.emailSeq)
}
