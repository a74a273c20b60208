package push

import (
	"errors"
	"log/slog"

	"github.com/mchou/campnook/internal/store"
)

// Notifier fans a payload out to every registered device, dropping
// endpoints the push service reports as gone.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{
		service: service,
		subs:    subs,
		logger:  logger.With("component", "push"),
	}
}

// NotifyAll sends payload to every subscription except those belonging
// to excludeMemberID (the actor does not need to hear about their own
// edit). Delivery runs in a goroutine so a slow push service never
// holds up the HTTP response. Errors are logged, not returned; one dead
// device must not fail the rest.
func (n *Notifier) NotifyAll(excludeMemberID string, payload Payload) {
	if !n.service.Configured() {
		return
	}
	go n.fanOut(excludeMemberID, payload)
}

func (n *Notifier) fanOut(excludeMemberID string, payload Payload) {
	subs, err := n.subs.ListAll()
	if err != nil {
		n.logger.Error("list subscriptions", "error", err)
		return
	}

	for i := range subs {
		sub := &subs[i]
		if sub.MemberID == excludeMemberID {
			continue
		}
		if err := n.service.Send(sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				n.logger.Info("dropping expired subscription", "endpoint", sub.Endpoint)
				if derr := n.subs.DeleteByEndpoint(sub.Endpoint); derr != nil {
					n.logger.Error("delete expired subscription", "error", derr)
				}
				continue
			}
			n.logger.Warn("push delivery failed", "endpoint", sub.Endpoint, "error", err)
		}
	}
}

// NotifyMember sends payload to one member's devices, also off the
// request path.
func (n *Notifier) NotifyMember(memberID string, payload Payload) {
	if !n.service.Configured() {
		return
	}
	go func() {
		subs, err := n.subs.ListByMember(memberID)
		if err != nil {
			n.logger.Error("list subscriptions", "error", err)
			return
		}
		for i := range subs {
			if err := n.service.Send(&subs[i], payload); err != nil && !errors.Is(err, ErrExpired) {
				n.logger.Warn("push delivery failed", "endpoint", subs[i].Endpoint, "error", err)
			}
		}
	}()
}
